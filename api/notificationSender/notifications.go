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
	"fmt"

	"github.com/replicahealth/dataportal/core/awsutil"
)

const accessRequestSubject = "Dataset Access Request"

func FormatAccessRequest(req AccessRequest) string {
	return fmt.Sprintf(`New dataset access request:

Name: %v
Email: %v
Request: %v

Please review and respond to the user.`, req.Name, req.Email, req.Description)
}

// NotifyAccessRequest emails the configured recipients. Returns nil only if the email went out
func (n *NotificationSender) NotifyAccessRequest(subject string, req AccessRequest) error {
	if n.ses == nil || len(n.sender) <= 0 || len(n.recipients) <= 0 {
		return ErrNotConfigured
	}

	if !n.allow(subject) {
		n.log.Infof("NotifyAccessRequest: throttled email for user %v", subject)
		return ErrThrottled
	}

	input := awsutil.MakeTextEmail(n.sender, n.recipients, accessRequestSubject, FormatAccessRequest(req))
	_, err := n.ses.SendEmail(input)
	if err != nil {
		return fmt.Errorf("SES send failed (%v): %v", awsutil.SESErrorCode(err), err)
	}

	n.log.Infof("NotifyAccessRequest: sent access request email for user %v", subject)
	return nil
}
