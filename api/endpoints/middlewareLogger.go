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
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/replicahealth/dataportal/core/logger"
)

const bodyTextReqLogLength = 200

const bodyTextRespLogHeadLength = 600

const bodyTextRespLogTailLength = 300

const logSnipIndicator = "\n    ---- >8 -------- >8 -------- >8 -------- >8 ----\n"

// Never written to logs, they carry bearer tokens
var redactedHeaders = []string{"Authorization", "Cookie"}

type LoggerMiddleware struct {
	Log      logger.ILogger
	LogLevel logger.LogLevel
}

func (h *LoggerMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Read the HTTP body. We can log it here if required, and then we pass it into the next in chain
		reqBodyText := "REQ BODY ERROR"
		if r.Body != nil {
			bodyBytes, err := io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
			if err == nil {
				reqBodyText = snipText(string(bodyBytes), bodyTextReqLogLength, 0)
			}
		} else {
			reqBodyText = ""
		}

		// Create a multiwriter, so we can write to the http response AND store it so we can log it
		buf := new(bytes.Buffer)
		w2 := &responseWriterWithCopy{RealWriter: w, Body: buf, Status: 0}

		next.ServeHTTP(w2, r)

		// Don't log requests to / or /metrics, load balancers and scrapers hit these constantly and
		// we'd lose everything else in the noise
		if r.URL.Path == "/" || r.URL.Path == "/metrics" {
			return
		}

		hadError := !w2.Succeeded()
		respBodyTxt := snipText(buf.String(), bodyTextRespLogHeadLength, bodyTextRespLogTailLength)

		if hadError {
			msg := fmt.Sprintf("API returned %v for %v \"%v %v\", query params: %v, headers: %v. Response body: \"%v\"",
				w2.Status,
				r.Method,
				r.Host,
				r.URL.Path,
				r.URL.Query(),
				describeHeaders(r.Header),
				respBodyTxt,
			)
			h.Log.Errorf("%v", msg)

			// Auth failures are routine, only report things we got wrong
			if w2.Status >= http.StatusInternalServerError {
				sentry.CaptureMessage(msg)
			}
		} else if h.LogLevel == logger.LogDebug {
			h.Log.Debugf("Request: %v (%v), body: %v\nResponse status: %v, body: %v", r.URL.Path, r.Method, reqBodyText, w2.StatusText(), respBodyTxt)
		}
	})
}

// Cuts the middle out of long text, keeping head chars from the start and tail from the end
func snipText(text string, head int, tail int) string {
	if len(text) <= head+tail {
		return text
	}

	result := text[0:head] + logSnipIndicator
	if tail > 0 {
		result += text[len(text)-tail:]
	}
	return result
}

func describeHeaders(headers http.Header) string {
	parts := []string{}
	for name, values := range headers {
		val := strings.Join(values, "; ")
		for _, redact := range redactedHeaders {
			if strings.EqualFold(name, redact) {
				val = "<redacted>"
			}
		}
		parts = append(parts, name+"="+val)
	}
	return strings.Join(parts, ", ")
}
