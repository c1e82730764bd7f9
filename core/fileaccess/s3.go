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

package fileaccess

import (
	"errors"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

type S3Access struct {
	s3Api s3iface.S3API
}

func MakeS3Access(s3Api s3iface.S3API) S3Access {
	return S3Access{s3Api: s3Api}
}

func (s3Access S3Access) ListObjects(bucket string, prefix string) ([]ObjectInfo, error) {
	result := []ObjectInfo{}

	err := s3Access.listPages(bucket, prefix, "", func(listing *s3.ListObjectsV2Output) {
		result = append(result, getObjectsFromBucketContents(listing)...)
	})

	if err != nil {
		return []ObjectInfo{}, err
	}
	return result, nil
}

func (s3Access S3Access) ListPrefixes(bucket string, prefix string) ([]string, error) {
	result := []string{}

	err := s3Access.listPages(bucket, prefix, "/", func(listing *s3.ListObjectsV2Output) {
		for _, p := range listing.CommonPrefixes {
			if p.Prefix != nil {
				result = append(result, *p.Prefix)
			}
		}
	})

	if err != nil {
		return []string{}, err
	}
	return result, nil
}

// Keeps requesting with the returned continuation token until S3 says the listing is complete.
// A truncated listing must never be treated as the whole thing.
func (s3Access S3Access) listPages(bucket string, prefix string, delimiter string, onPage func(*s3.ListObjectsV2Output)) error {
	continuationToken := ""

	params := s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	}
	if len(delimiter) > 0 {
		params.Delimiter = aws.String(delimiter)
	}

	for {
		// If we have a continuation token, add it to the parameters we send...
		if len(continuationToken) > 0 {
			params.ContinuationToken = aws.String(continuationToken)
		}

		listing, err := s3Access.s3Api.ListObjectsV2(&params)
		if err != nil {
			return err
		}

		onPage(listing)

		if listing.IsTruncated == nil || !*listing.IsTruncated {
			return nil
		}

		// Truncated but no token to continue from: we can't get the rest, so don't pretend we did
		if listing.NextContinuationToken == nil || len(*listing.NextContinuationToken) <= 0 {
			return errors.New("S3 listing truncated without a continuation token for: " + bucket + "/" + prefix)
		}
		continuationToken = *listing.NextContinuationToken
	}
}

func (s3Access S3Access) ObjectExists(bucket string, path string) (bool, error) {
	_, err := s3Access.s3Api.HeadObject(&s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(path),
	})

	if err == nil {
		return true, nil
	}

	if aerr, ok := err.(awserr.Error); ok {
		if aerr.Code() == "NotFound" {
			return false, nil
		}
	}

	return false, err
}

func (s3Access S3Access) OpenObject(bucket string, path string) (io.ReadCloser, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(path),
	}

	result, err := s3Access.s3Api.GetObject(input)
	if err != nil {
		return nil, err
	}

	return result.Body, nil
}

func (s3Access S3Access) IsNotFoundError(err error) bool {
	if aerr, ok := err.(awserr.Error); ok {
		if aerr.Code() == s3.ErrCodeNoSuchKey || aerr.Code() == "NotFound" {
			return true
		}
	}
	return false
}

func getObjectsFromBucketContents(contents *s3.ListObjectsV2Output) []ObjectInfo {
	result := make([]ObjectInfo, 0, len(contents.Contents))

	for _, item := range contents.Contents {
		if item.Key == nil {
			continue
		}

		// We filter out paths that end in / from S3, these are pointless but can happen if
		// something was made via the web console with create directory, it creates these empty objects...
		if strings.HasSuffix(*item.Key, "/") {
			continue
		}

		size := int64(0)
		if item.Size != nil {
			size = *item.Size
		}

		result = append(result, ObjectInfo{Key: *item.Key, Size: size})
	}

	return result
}
