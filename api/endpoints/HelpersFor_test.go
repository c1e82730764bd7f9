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


package endpoints

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gorilla/mux"
	"github.com/replicahealth/dataportal/api/activity"
	"github.com/replicahealth/dataportal/api/config"
	"github.com/replicahealth/dataportal/api/notificationSender"
	"github.com/replicahealth/dataportal/api/services"
	"github.com/replicahealth/dataportal/core/awsutil"
	"github.com/replicahealth/dataportal/core/fileaccess"
	"github.com/replicahealth/dataportal/core/jwtparser"
	"github.com/replicahealth/dataportal/core/logger"
	"github.com/replicahealth/dataportal/core/timestamper"
)

const processedPrefix = "processed_data_final_expanded/"

// Unix time all test requests are made at
const testTimeNow = int64(1700000000)

const publicRole = "dataset:public_v1"
const privateRole = "dataset:private_v1"

func executeRequest(req *http.Request, router *mux.Router) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	return rr
}

// Everything a test might want to poke at after a request
type testMocks struct {
	signer   *awsutil.MockSigner
	ses      *awsutil.MockSESClient
	activity *activity.MockRecorder
	log      *logger.MemLogger
}

func defaultTestObjects() []fileaccess.ObjectInfo {
	return []fileaccess.ObjectInfo{
		{Key: processedPrefix + "Flair.csv", Size: 2560000},
		{Key: processedPrefix + "DCLP2.csv", Size: 2048000},
		{Key: processedPrefix + "DCLP3.csv", Size: 1000},
		{Key: processedPrefix + "Loop_Part1_of_2.csv", Size: 500},
		{Key: processedPrefix + "readme.txt", Size: 10},
	}
}

func MakeMockSvcs(objects []fileaccess.ObjectInfo, cfgChanges func(cfg *config.APIConfig)) (*services.APIServices, testMocks) {
	cfg := config.APIConfig{
		EnvironmentName:         "unit-test",
		Auth0Audience:           "https://api.dataportal.test",
		AccessRequestSender:     "portal@replicahealth.com",
		AccessRequestRecipients: []string{"staff@replicahealth.com"},
		InlineSideEffects:       true,
	}
	if cfgChanges != nil {
		cfgChanges(&cfg)
	}
	cfg = cfg.WithDefaults()

	mocks := testMocks{
		signer:   &awsutil.MockSigner{},
		ses:      &awsutil.MockSESClient{},
		activity: &activity.MockRecorder{},
		log:      &logger.MemLogger{},
	}

	ts := &timestamper.MockTimeNowStamper{QueuedTimeStamps: []int64{testTimeNow}}

	svcs := &services.APIServices{
		Config: cfg,
		Log:    mocks.log,
		FS:     fileaccess.FixtureAccess{Objects: objects},
		Signer: mocks.signer,
		Validator: &jwtparser.TokenValidator{
			Audience:    cfg.Auth0Audience,
			Algorithm:   cfg.JWTAlgorithm,
			TimeStamper: ts,
		},
		Notifier:    notificationSender.MakeNotificationSender(mocks.ses, cfg.AccessRequestSender, cfg.AccessRequestRecipients, cfg.AccessRequestLimit(), mocks.log),
		Activity:    mocks.activity,
		TimeStamper: ts,
	}

	return svcs, mocks
}

func makeTestGateway(objects []fileaccess.ObjectInfo) (*Gateway, testMocks) {
	svcs, mocks := MakeMockSvcs(objects, nil)
	gw, err := MakeGateway(svcs)
	if err != nil {
		panic(err)
	}
	return gw, mocks
}

// Builds an unsigned token, the validator under test isn't checking signatures
func makeToken(claims map[string]interface{}) string {
	header, _ := json.Marshal(map[string]string{"alg": "RS256", "typ": "JWT", "kid": "test-key"})
	payload, _ := json.Marshal(claims)

	enc := base64.RawURLEncoding
	return enc.EncodeToString(header) + "." + enc.EncodeToString(payload) + "." + enc.EncodeToString([]byte("not-checked"))
}

func userClaims(roles ...string) map[string]interface{} {
	return map[string]interface{}{
		"sub":    "auth0|user123",
		"aud":    "https://api.dataportal.test",
		"exp":    testTimeNow + 600,
		"email":  "user@example.com",
		"https://replicahealth.com/roles": roles,
	}
}

func bearer(claims map[string]interface{}) map[string]string {
	return map[string]string{"Authorization": "Bearer " + makeToken(claims)}
}

// A request as the given user, with query params as name/value pairs
func makeRequest(method string, roles []string, body string, query ...string) Request {
	req := Request{
		Method:  method,
		Query:   map[string]string{},
		Headers: bearer(userClaims(roles...)),
		Body:    body,
	}
	for c := 0; c+1 < len(query); c += 2 {
		req.Query[query[c]] = query[c+1]
	}
	return req
}

func executeHandler(req *http.Request, handler http.Handler) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	return rr
}
