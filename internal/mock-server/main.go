// Local stand-in for the deployed gateway: same operations and JSON, but the bucket contents come
// from a fixture file and links are data: URLs. Requests without a token act as a user holding
// every dataset role.
package main

import (
	_ "embed"
	"flag"
	"log"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/replicahealth/dataportal/api/activity"
	"github.com/replicahealth/dataportal/api/config"
	"github.com/replicahealth/dataportal/api/endpoints"
	"github.com/replicahealth/dataportal/api/notificationSender"
	"github.com/replicahealth/dataportal/api/services"
	"github.com/replicahealth/dataportal/core/fileaccess"
	"github.com/replicahealth/dataportal/core/logger"
	"github.com/replicahealth/dataportal/core/timestamper"
)

//go:embed fixtures.json
var defaultFixtures []byte

func main() {
	// Must be defined before config.Init parses the command line
	var fixturesPath = flag.String("fixtures", "", "JSON file listing the mock bucket contents, default is the built-in set")
	var listenAddr = flag.String("listen", ":3001", "Address to serve on")

	cfg, err := config.Init()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	fixtures, err := loadFixtures(*fixturesPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if len(fixtures.Bucket) > 0 {
		cfg.Bucket = fixtures.Bucket
	}

	iLog := &logger.StdOutLogger{}
	iLog.SetLogLevel(cfg.LogLevel)

	ts := &timestamper.UnixTimeNowStamper{}
	svcs := &services.APIServices{
		Config:      cfg,
		Log:         iLog,
		FS:          fileaccess.FixtureAccess{Objects: fixtures.Objects},
		Signer:      fileaccess.DataURLSigner{},
		Validator:   services.MakeValidator(cfg, ts, iLog),
		Notifier:    notificationSender.MakeNotificationSender(nil, "", nil, cfg.AccessRequestLimit(), iLog),
		Activity:    activity.NullRecorder{},
		TimeStamper: ts,
	}

	gw, err := endpoints.MakeGateway(svcs)
	if err != nil {
		log.Fatalf("Failed to create gateway: %v", err)
	}

	router := endpoints.MakeRouter(gw, iLog, cfg.LogLevel)
	router.Use(mockClaimsMiddleware(cfg))

	iLog.Infof("Mock dataset gateway serving %v objects on %v", len(fixtures.Objects), *listenAddr)
	log.Fatal(http.ListenAndServe(*listenAddr, handlers.CORS(
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		handlers.AllowedOrigins([]string{"*"}),
		handlers.OptionStatusCode(http.StatusNoContent))(router)))
}

func loadFixtures(path string) (fileaccess.FixtureFile, error) {
	if len(path) > 0 {
		return fileaccess.ReadFixtureFile(path)
	}
	return fileaccess.ParseFixtures(defaultFixtures)
}

// Anyone without a token is treated as a user with every dataset role. Tokens that are sent are
// still validated as normal.
func mockClaimsMiddleware(cfg config.APIConfig) func(http.Handler) http.Handler {
	claims := map[string]interface{}{
		"sub":          "mock-user",
		"email":        "mock-user@localhost",
		cfg.RolesClaim: []string{cfg.PublicRole, cfg.PrivateRole},
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(r.Header.Get("Authorization")) <= 0 {
				r = r.WithContext(endpoints.WithAuthorizerClaims(r.Context(), claims))
			}
			next.ServeHTTP(w, r)
		})
	}
}
