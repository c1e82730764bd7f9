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

package mongoDBConnection

import (
	"encoding/json"
	"fmt"
	"net"
)

// What the mongo secret in secrets manager holds
type MongoConnectionInfo struct {
	DbClusterIdentifier string `json:"dbClusterIdentifier"`
	Password            string `json:"password"`
	Engine              string `json:"engine"`
	Port                string `json:"port"`
	Host                string `json:"host"`
	Ssl                 string `json:"ssl"`
	Username            string `json:"username"`
}

func ParseConnectionInfo(secretValue string) (MongoConnectionInfo, error) {
	var info MongoConnectionInfo
	err := json.Unmarshal([]byte(secretValue), &info)
	if err != nil {
		return info, err
	}

	if len(info.Host) <= 0 {
		return info, fmt.Errorf("no host in mongo connection info")
	}
	return info, nil
}

// URI for the driver. Credentials are passed separately, never in here
func (i MongoConnectionInfo) URI() string {
	host := i.Host
	if len(i.Port) > 0 {
		if _, _, err := net.SplitHostPort(host); err != nil {
			host = net.JoinHostPort(host, i.Port)
		}
	}
	return fmt.Sprintf("mongodb://%s/", host)
}
