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

package notificationSender

import (
	"errors"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/service/ses/sesiface"
	"github.com/jellydator/ttlcache/v3"
	"github.com/replicahealth/dataportal/core/logger"
	"golang.org/x/time/rate"
)

// Reasons an access request email was not sent. Callers still tell the user their request was received
var ErrNotConfigured = errors.New("access request emails not configured")
var ErrThrottled = errors.New("too many access requests from this user")

// AccessRequest is what a user fills in when asking for dataset access
type AccessRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Description string `json:"description"`
}

// NotificationSender emails staff when someone asks for access. Each user (token subject) is
// limited to perHour emails, beyond that requests are accepted but no email goes out.
type NotificationSender struct {
	ses        sesiface.SESAPI
	sender     string
	recipients []string
	perHour    uint
	log        logger.ILogger

	limiterLock sync.Mutex
	limiters    *ttlcache.Cache[string, *rate.Limiter]
}

func MakeNotificationSender(sesApi sesiface.SESAPI, sender string, recipients []string, perHour uint, log logger.ILogger) *NotificationSender {
	limiters := ttlcache.New[string, *rate.Limiter](
		ttlcache.WithTTL[string, *rate.Limiter](time.Hour),
		ttlcache.WithDisableTouchOnHit[string, *rate.Limiter](),
	)
	go limiters.Start()

	return &NotificationSender{
		ses:        sesApi,
		sender:     sender,
		recipients: recipients,
		perHour:    perHour,
		log:        log,
		limiters:   limiters,
	}
}

// Stops the limiter cache cleanup goroutine
func (n *NotificationSender) Close() {
	n.limiters.Stop()
}

func (n *NotificationSender) allow(subject string) bool {
	if n.perHour <= 0 {
		return true
	}

	n.limiterLock.Lock()
	defer n.limiterLock.Unlock()

	item := n.limiters.Get(subject)
	if item == nil {
		limiter := rate.NewLimiter(rate.Every(time.Hour/time.Duration(n.perHour)), int(n.perHour))
		item = n.limiters.Set(subject, limiter, ttlcache.DefaultTTL)
	}

	return item.Value().Allow()
}
