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
	"bytes"
	"net/http"
	"strconv"
)

// Batch responses carry a signed URL per file, no point keeping more than this for a log line
const maxCopiedBodyBytes = 64 * 1024

// responseWriterWithCopy passes everything through to the real writer, keeping the status and
// the start of the body for the logging middleware
type responseWriterWithCopy struct {
	RealWriter http.ResponseWriter
	Body       *bytes.Buffer
	Status     int
	Written    int
}

func (w *responseWriterWithCopy) StatusText() string {
	if w.Status == 0 {
		return "OK"
	}
	return strconv.Itoa(w.Status)
}

// Succeeded - nothing written counts as a 200
func (w *responseWriterWithCopy) Succeeded() bool {
	return w.Status == 0 || (w.Status >= 200 && w.Status < 300) || w.Status == http.StatusNotModified
}

func (w *responseWriterWithCopy) Header() http.Header {
	return w.RealWriter.Header()
}

func (w *responseWriterWithCopy) Write(p []byte) (int, error) {
	if room := maxCopiedBodyBytes - w.Body.Len(); room > 0 {
		if room > len(p) {
			room = len(p)
		}
		w.Body.Write(p[:room])
	}

	n, err := w.RealWriter.Write(p)
	w.Written += n
	return n, err
}

func (w *responseWriterWithCopy) WriteHeader(statusCode int) {
	w.Status = statusCode
	w.RealWriter.WriteHeader(statusCode)
}

func (w *responseWriterWithCopy) Flush() {
	if f, ok := w.RealWriter.(http.Flusher); ok {
		f.Flush()
	}
}
