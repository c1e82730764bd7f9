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


package timestamper

import (
	"sync"
	"time"
)

// ITimeStamper is where link expiry, token expiry and activity timestamps get "now" from
type ITimeStamper interface {
	GetTimeNowSec() int64
}

// UTCTimeNow is the stamper's time as a UTC time.Time, for anything that's written out as RFC3339
func UTCTimeNow(ts ITimeStamper) time.Time {
	return time.Unix(ts.GetTimeNowSec(), 0).UTC()
}

type UnixTimeNowStamper struct {
}

func (ts *UnixTimeNowStamper) GetTimeNowSec() int64 {
	return time.Now().Unix()
}

// MockTimeNowStamper returns queued values in order, and keeps returning the last one once
// the queue is down to one item. Token validation and link issuance may both ask for the
// time within one request. Safe to share between concurrently handled requests.
type MockTimeNowStamper struct {
	QueuedTimeStamps []int64

	mutex sync.Mutex
}

func (ts *MockTimeNowStamper) GetTimeNowSec() int64 {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()

	val := ts.QueuedTimeStamps[0]
	if len(ts.QueuedTimeStamps) > 1 {
		ts.QueuedTimeStamps = ts.QueuedTimeStamps[1:]
	}
	return val
}
