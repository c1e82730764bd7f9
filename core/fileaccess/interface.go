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
	"io"
	"strings"
)

// ObjectInfo is one stored file as listed from the bucket. We never modify these.
type ObjectInfo struct {
	Key  string `json:"key"`
	Size int64  `json:"size"`
}

// ObjectLister enumerates everything under a prefix. Implementations must page through
// until the store says there's nothing left, callers rely on getting the full listing.
type ObjectLister interface {
	ListObjects(bucket string, prefix string) ([]ObjectInfo, error)
}

// FileAccess is what the archive builder needs on top of listing
type FileAccess interface {
	ObjectLister

	// Immediate "sub-directories" of prefix, each ending in /
	ListPrefixes(bucket string, prefix string) ([]string, error)

	ObjectExists(bucket string, path string) (bool, error)
	OpenObject(bucket string, path string) (io.ReadCloser, error)

	IsNotFoundError(err error) bool
}

// BaseName returns the last path segment of an object key, or fallback if the key ends in /
// or is empty
func BaseName(key string, fallback string) string {
	name := key
	if pos := strings.LastIndex(key, "/"); pos > -1 {
		name = key[pos+1:]
	}
	if len(name) <= 0 {
		return fallback
	}
	return name
}
