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


package logger

import (
	"fmt"
	"log"

	"github.com/getsentry/sentry-go"
)

// StdOutLogger writes everything at or above its level through a standard logger, log's default
// one unless Out is set. In a lambda this ends up in CloudWatch, locally it's the terminal. Errors
// are also left as sentry breadcrumbs, so a captured exception arrives with the errors logged
// before it.
type StdOutLogger struct {
	Out *log.Logger

	logLevel LogLevel
}

func (l *StdOutLogger) Printf(level LogLevel, format string, a ...interface{}) {
	if level < l.logLevel {
		return
	}

	msg := fmt.Sprintf(format, a...)
	out := l.Out
	if out == nil {
		out = log.Default()
	}
	out.Println(logLevelPrefix[level] + ": " + msg)

	if level == LogError {
		sentry.AddBreadcrumb(&sentry.Breadcrumb{Category: "log", Level: sentry.LevelError, Message: msg})
	}
}
func (l *StdOutLogger) Debugf(format string, a ...interface{}) {
	l.Printf(LogDebug, format, a...)
}
func (l *StdOutLogger) Infof(format string, a ...interface{}) {
	l.Printf(LogInfo, format, a...)
}
func (l *StdOutLogger) Errorf(format string, a ...interface{}) {
	l.Printf(LogError, format, a...)
}

func (l *StdOutLogger) SetLogLevel(level LogLevel) {
	l.logLevel = level
}
func (l *StdOutLogger) GetLogLevel() LogLevel {
	return l.logLevel
}
