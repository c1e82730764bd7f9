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
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/replicahealth/dataportal/core/logger"
)

// Path the gateway answers on, the op query param picks the operation
const PresignPath = "/presign"

func MakeRouter(gw *Gateway, log logger.ILogger, logLevel logger.LogLevel) *mux.Router {
	router := mux.NewRouter()

	router.Handle(PresignPath, gw).Methods(http.MethodGet, http.MethodPost, http.MethodOptions)

	// User goes to root of API, returns HTML
	router.HandleFunc("/", rootRequest).Methods(http.MethodGet)

	// User requesting version as JSON
	router.HandleFunc("/version", componentVersionsGet).Methods(http.MethodGet)

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	logware := LoggerMiddleware{Log: log, LogLevel: logLevel}
	router.Use(logware.Middleware, PrometheusMiddleware)

	return router
}
