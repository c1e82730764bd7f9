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

package errorwithstatus

import (
	"fmt"
	"net/http"
)

////////////////////////////////////////////////////////////////////////////////////////////////////////////
// Neater error handling

// See:
// https://blog.questionable.services/article/http-handler-error-handling-revisited/

// Error represents a handler error. It provides methods for a HTTP status
// code and embeds the built-in error interface.
type Error interface {
	error
	Status() int
}

// StatusError represents an error with an associated HTTP status code. Fields are
// extra values sent back in the JSON error body next to the error message, for
// example the list of valid operations.
type StatusError struct {
	Code   int
	Err    error
	Fields map[string]interface{}
}

// Allows StatusError to satisfy the error interface.
func (se StatusError) Error() string {
	return se.Err.Error()
}

// Status - Returns our HTTP status code.
func (se StatusError) Status() int {
	return se.Code
}

// Body builds the JSON object written back to the caller
func (se StatusError) Body() map[string]interface{} {
	result := map[string]interface{}{}
	for k, v := range se.Fields {
		result[k] = v
	}
	result["error"] = se.Err.Error()
	return result
}

// WithField returns a copy with an extra value for the error body
func (se StatusError) WithField(name string, value interface{}) StatusError {
	fields := map[string]interface{}{}
	for k, v := range se.Fields {
		fields[k] = v
	}
	fields[name] = value
	return StatusError{Code: se.Code, Err: se.Err, Fields: fields}
}

// Some common errors
func MakeBadRequestError(err error) StatusError {
	return StatusError{
		Code: http.StatusBadRequest,
		Err:  err,
	}
}

// No credential, or one we couldn't make sense of
func MakeUnauthenticatedError(err error) StatusError {
	return StatusError{
		Code: http.StatusUnauthorized,
		Err:  err,
	}
}

// Valid identity but the roles don't allow the operation
func MakeInsufficientPermissionsError(details string) StatusError {
	return StatusError{
		Code:   http.StatusForbidden,
		Err:    fmt.Errorf("insufficient permissions"),
		Fields: map[string]interface{}{"details": details},
	}
}

// Request for something that is never handed out, eg a key outside the allowed prefixes
func MakeForbiddenError(err error) StatusError {
	return StatusError{
		Code: http.StatusForbidden,
		Err:  err,
	}
}

// Mainly so we don't get a bunch of errors for not using field names in StatusError{}
func MakeStatusError(code int, err error) StatusError {
	return StatusError{
		Code: code,
		Err:  err,
	}
}
