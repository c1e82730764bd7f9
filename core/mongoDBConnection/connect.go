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

// Lowest-level code to connect to Mongo DB, either locally (docker) or remotely with credentials
// held in secrets manager
package mongoDBConnection

import (
	"context"
	"fmt"

	"github.com/replicahealth/dataportal/core/awsutil"
	"github.com/replicahealth/dataportal/core/logger"
	"go.mongodb.org/mongo-driver/mongo"
)

// Connect to remote mongo if mongoSecret is set, otherwise a local one with no auth
func Connect(
	ctx context.Context,
	secrets awsutil.SecretReader, // Can be nil for local connection
	mongoSecret string, // empty for local connection
	iLog logger.ILogger,
) (*mongo.Client, error) {
	if len(mongoSecret) <= 0 {
		return connectToLocalMongoDB(ctx, iLog)
	}

	if secrets == nil {
		return nil, fmt.Errorf("No secrets reader to look up mongo secret \"%v\"", mongoSecret)
	}

	secretValue, err := secrets.GetSecretString(mongoSecret)
	if err != nil {
		return nil, fmt.Errorf("Failed to read mongo secret \"%v\" info from secrets cache: %v", mongoSecret, err)
	}

	info, err := ParseConnectionInfo(secretValue)
	if err != nil {
		return nil, fmt.Errorf("Failed to parse mongo secret \"%v\": %v", mongoSecret, err)
	}

	return connectToRemoteMongoDB(ctx, info, iLog)
}

func GetDatabaseName(dbName string, envName string) string {
	return dbName + "-" + envName
}
