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
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// MockSigner generates a predictable URL from the inputs so tests can print them. Keys listed
// in FailKeys return an error instead. Calls are recorded because signing is done in parallel
// and tests need to know what was asked for regardless of order.
type MockSigner struct {
	mutex sync.Mutex

	FailKeys []string
	Signed   []string
}

func (m *MockSigner) GetSignedURL(bucket string, key string, fileName string, expiry time.Duration) (string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.Signed = append(m.Signed, key)

	for _, fail := range m.FailKeys {
		if fail == key {
			return "", errors.New("NO_SIGNED_URL_DEFINED")
		}
	}

	return fmt.Sprintf("https://%v.s3.amazonaws.com/%v?X-Amz-Expires=%v&response-content-disposition=%v",
		bucket,
		key,
		int64(expiry.Seconds()),
		url.QueryEscape(AttachmentDisposition(fileName)),
	), nil
}

// SignCount returns how many signing requests were made
func (m *MockSigner) SignCount() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.Signed)
}

type MockS3Client struct {
	mutex sync.Mutex

	s3iface.S3API

	// Expected requests
	ExpListObjectsV2Input []s3.ListObjectsV2Input
	ExpGetObjectInput     []s3.GetObjectInput
	ExpHeadObjectInput    []s3.HeadObjectInput

	// Responses replayed as each request comes in
	QueuedListObjectsV2Output []*s3.ListObjectsV2Output
	QueuedGetObjectOutput     []*s3.GetObjectOutput
	QueuedHeadObjectOutput    []*s3.HeadObjectOutput
}

func (m *MockS3Client) FinishTest() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	err := m.getFinishTestResult()

	// If we found something unexpected, print an error so any example tests get this in their input
	// Unit tests which aren't example based will still get our return value
	if err != nil {
		fmt.Println(err)
	}

	return err
}

func (m *MockS3Client) getFinishTestResult() error {
	// Expecting no inputs left
	if len(m.ExpListObjectsV2Input) > 0 {
		return errors.New("Test expected more ListObjectsV2 calls to func")
	}
	if len(m.ExpGetObjectInput) > 0 {
		return errors.New("Test expected more GetObject calls to func")
	}
	if len(m.ExpHeadObjectInput) > 0 {
		return errors.New("Test expected more HeadObject calls to func")
	}

	// Expecting nothing left to output
	if len(m.QueuedListObjectsV2Output) > 0 {
		return errors.New("Remaining output ListObjectsV2 for func")
	}
	if len(m.QueuedGetObjectOutput) > 0 {
		return errors.New("Remaining output GetObject for func")
	}
	if len(m.QueuedHeadObjectOutput) > 0 {
		return errors.New("Remaining output HeadObject for func")
	}

	return nil
}

const ErrNoMoreInputsExpected = "No more inputs expected for "
const ErrWrongInput = "Incorrect input in "
const ErrNothingToReturn = "Nothing to return from "
const ErrReturningError = "Returning error from "

type stringer interface {
	String() string
}

// Pops the next expected input and queued output. A nil queued output means "return an error"
// which callers translate into something S3-like.
func popExpected[I stringer, O any](name string, input I, expList *[]I, outputs *[]O) (O, error) {
	var none O

	if len(*expList) <= 0 {
		return none, errors.New(ErrNoMoreInputsExpected + name)
	}

	expStr := (*expList)[0].String()

	// Don't need this any more!
	(*expList) = (*expList)[1:]

	// Check it matches the top one
	inpStr := input.String()
	if expStr != inpStr {
		return none, fmt.Errorf("%v expected: \"%v\" S3 recvd: \"%v\"\n", ErrWrongInput+name, expStr, inpStr)
	}

	// Return something
	if len(*outputs) <= 0 {
		return none, errors.New(ErrNothingToReturn + name)
	}

	result := (*outputs)[0]

	// Don't need this any more!
	(*outputs) = (*outputs)[1:]

	return result, nil
}

func (m *MockS3Client) ListObjectsV2(input *s3.ListObjectsV2Input) (*s3.ListObjectsV2Output, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	const name = "ListObjectsV2"
	result, err := popExpected(name, *input, &m.ExpListObjectsV2Input, &m.QueuedListObjectsV2Output)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, errors.New(ErrReturningError + name)
	}
	return result, nil
}

func (m *MockS3Client) GetObject(input *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	const name = "GetObject"
	result, err := popExpected(name, *input, &m.ExpGetObjectInput, &m.QueuedGetObjectOutput)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, awserr.New(s3.ErrCodeNoSuchKey, ErrReturningError+name, nil)
	}
	return result, nil
}

func (m *MockS3Client) HeadObject(input *s3.HeadObjectInput) (*s3.HeadObjectOutput, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	const name = "HeadObject"
	result, err := popExpected(name, *input, &m.ExpHeadObjectInput, &m.QueuedHeadObjectOutput)
	if err != nil {
		return nil, err
	}
	if result == nil {
		// What S3 sends back for a missing key on HEAD, no body so no NoSuchKey
		return nil, awserr.New("NotFound", ErrReturningError+name, nil)
	}
	return result, nil
}
