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
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ses"
	"github.com/aws/aws-sdk-go/service/ses/sesiface"
)

const EmailCharset = "UTF-8"

func GetSES(sess *session.Session) sesiface.SESAPI {
	return ses.New(sess)
}

// MakeTextEmail assembles a plain text email. We send no HTML part, the recipients are staff
// reading requests, not end users.
func MakeTextEmail(sender string, to []string, subject string, textBody string) *ses.SendEmailInput {
	toAddr := []*string{}
	for _, addr := range to {
		toAddr = append(toAddr, aws.String(addr))
	}

	return &ses.SendEmailInput{
		Destination: &ses.Destination{
			ToAddresses: toAddr,
		},
		Message: &ses.Message{
			Body: &ses.Body{
				Text: &ses.Content{
					Charset: aws.String(EmailCharset),
					Data:    aws.String(textBody),
				},
			},
			Subject: &ses.Content{
				Charset: aws.String(EmailCharset),
				Data:    aws.String(subject),
			},
		},
		Source: aws.String(sender),
	}
}

// SESErrorCode returns the SES error code if err came from SES, for logging
func SESErrorCode(err error) string {
	var aerr awserr.Error
	if errors.As(err, &aerr) {
		return aerr.Code()
	}
	return ""
}

// MockSESClient records emails instead of sending them. If Fail is set every send returns it.
type MockSESClient struct {
	sesiface.SESAPI

	mutex sync.Mutex

	Fail error
	Sent []*ses.SendEmailInput
}

func (m *MockSESClient) SendEmail(input *ses.SendEmailInput) (*ses.SendEmailOutput, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.Fail != nil {
		return nil, m.Fail
	}

	m.Sent = append(m.Sent, input)
	return &ses.SendEmailOutput{MessageId: aws.String("mock-message-id")}, nil
}

func (m *MockSESClient) SentCount() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.Sent)
}
