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

package awsutil

import (
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// RealURLSigner presigns S3 GetObject requests. The signature is computed locally from the
// session credentials so no request is sent to S3, which is what makes it safe to call
// from many goroutines at once.
type RealURLSigner struct {
	S3 s3iface.S3API
}

// GetSignedURL returns a URL that downloads bucket/key for the given duration. The
// response-content-disposition override forces browsers to save the file as fileName
// instead of rendering it.
func (r *RealURLSigner) GetSignedURL(bucket string, key string, fileName string, expiry time.Duration) (string, error) {
	req, _ /*output*/ := r.S3.GetObjectRequest(
		&s3.GetObjectInput{
			Bucket:                     aws.String(bucket),
			Key:                        aws.String(key),
			ResponseContentDisposition: aws.String(AttachmentDisposition(fileName)),
		})

	urlStr, err := req.Presign(expiry)
	if err != nil {
		return "", err
	}

	return urlStr, nil
}

func AttachmentDisposition(fileName string) string {
	return fmt.Sprintf("attachment; filename=\"%v\"", fileName)
}
