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

package services

import (
	"time"

	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/replicahealth/dataportal/api/activity"
	"github.com/replicahealth/dataportal/api/config"
	"github.com/replicahealth/dataportal/core/fileaccess"
	"github.com/replicahealth/dataportal/core/jwtparser"
	"github.com/replicahealth/dataportal/core/logger"
	"github.com/replicahealth/dataportal/core/timestamper"
)

// NOTE: these 2 vars are set during compilation (see Makefile)
var ApiVersion string
var GitHash string

// This defines some generic interfaces that are used by a lot of the API code. Instead
// of using a bunch of global variables we pass around this services object and other
// code has access to a logger, signer etc.
// This comes in very useful when writing unit tests, since we can mock these interfaces

// IClaimsValidator - checks the Authorization header and returns the claims in it
type IClaimsValidator interface {
	Validate(authHeader string) (jwtparser.Claims, error)
}

// URLSigner - Generates AWS S3 signed URLs
type URLSigner interface {
	GetSignedURL(bucket string, key string, fileName string, expiry time.Duration) (string, error)
}

////////////////////////////////////////////////////////////////////////////////////////////////////////////

// APIServices contains any services that request handlers would want to use, like logging/config reading
type APIServices struct {
	// Configuration read in on startup
	Config config.APIConfig

	// Default logger
	Log logger.ILogger

	// Anything talking to S3 should use this
	S3 s3iface.S3API

	// Listing the dataset files
	FS fileaccess.ObjectLister

	// URL signer for S3
	Signer URLSigner

	// Validation of JWT tokens
	Validator IClaimsValidator

	// Access request emails
	Notifier INotifier

	// Where user downloads and terms agreements are written
	Activity activity.Recorder

	// Timestamp retriever - so can be mocked for unit tests
	TimeStamper timestamper.ITimeStamper
}
