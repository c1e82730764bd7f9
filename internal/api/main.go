// Licensed to NASA JPL under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. NASA JPL licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.


package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/replicahealth/dataportal/api/config"
	"github.com/replicahealth/dataportal/api/endpoints"
	"github.com/replicahealth/dataportal/api/services"
	"github.com/replicahealth/dataportal/core/logger"
)

func main() {
	cfg := loadConfig()

	// Init logger, we write all logs to stdout
	iLog := &logger.StdOutLogger{}
	iLog.SetLogLevel(cfg.LogLevel)

	svcs, err := services.InitAPIServices(context.Background(), cfg, iLog)
	if err != nil {
		log.Fatalf("Failed to init services: %v", err)
	}

	gw, err := endpoints.MakeGateway(&svcs)
	if err != nil {
		log.Fatalf("Failed to create gateway: %v", err)
	}

	router := endpoints.MakeRouter(gw, iLog, cfg.LogLevel)

	// Now also log this to the world...
	svcs.Log.Infof("API version \"%v\" started...", services.ApiVersion)

	// Gateway sets CORS headers itself, this handles anything it doesn't see (405s, 404s)
	server := &http.Server{
		Addr: ":8080",
		Handler: handlers.CORS(
			handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
			handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
			handlers.AllowedOrigins([]string{cfg.AllowedOrigin}),
			handlers.OptionStatusCode(http.StatusNoContent))(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Fatal(server.ListenAndServe())
}

func loadConfig() config.APIConfig {
	cfg, err := config.Init()
	if err != nil {
		log.Fatalf("Something went wrong with API config. Error: %v\n", err)
	}

	// Show the config, minus secrets
	shown := cfg
	if len(shown.Auth0ManagementSecret) > 0 {
		shown.Auth0ManagementSecret = "<redacted>"
	}

	cfgJSON, err := json.MarshalIndent(shown, "", "    ")
	if err != nil {
		log.Fatalf("Error trying to display config\n")
	}

	log.Println(string(cfgJSON))
	return cfg
}
