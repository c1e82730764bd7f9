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
	"fmt"
	"net/http"

	"github.com/replicahealth/dataportal/api/services"
)

////////////////////////////////////////////////////////////////////////////////////////////////////////////

type ComponentVersion struct {
	Component string `json:"component"`
	Version   string `json:"version"`
}

type ComponentVersionsGetResponse struct {
	Components []ComponentVersion `json:"components"`
}

func getAPIVersion() string {
	if len(services.ApiVersion) <= 0 {
		return "(Local build)"
	}

	ver := services.ApiVersion
	if len(services.GitHash) > 8 {
		ver += "-" + services.GitHash[0:8]
	}

	return ver
}

func componentVersionsGet(w http.ResponseWriter, r *http.Request) {
	result := ComponentVersionsGetResponse{
		Components: []ComponentVersion{
			{
				Component: "API",
				Version:   getAPIVersion(),
			},
		},
	}

	body, err := toJSON(result)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(body))
}

////////////////////////////////////////////////////////////////////////////////////////////////////////////

func rootRequest(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "text/html")

	var start string = `<!DOCTYPE html>
<html lang="en"><head></head>
<body style="font-family: Arial, Helvetica, sans-serif">
<center>`
	var midtemplate = "<h1>Dataset Access Gateway</h1><p>Version %s</p><p>Git Commit: %s"
	var mid = fmt.Sprintf(midtemplate, getAPIVersion(), services.GitHash)
	var end string = `</p>
</center>
</body>`

	w.Write([]byte(start + mid + end))
}
