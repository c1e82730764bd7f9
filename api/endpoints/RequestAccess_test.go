package endpoints

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/replicahealth/dataportal/api/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validAccessRequest = `{"name": "Jo Researcher", "email": "jo@uni.edu", "description": "Closed loop study"}`

func TestRequestAccessNoRolesNeeded(t *testing.T) {
	gw, mocks := makeTestGateway(defaultTestObjects())

	resp := gw.Handle(context.Background(), makeRequest("POST", []string{}, validAccessRequest, "op", "request_access"))
	require.Equal(t, http.StatusOK, resp.StatusCode, resp.Body)
	assert.JSONEq(t, `{"success":true,"message":"Request submitted successfully. You will receive a response within 24 hours."}`, resp.Body)

	require.Equal(t, 1, mocks.ses.SentCount())
	email := mocks.ses.Sent[0]
	assert.Equal(t, "Dataset Access Request", aws.StringValue(email.Message.Subject.Data))
	assert.Equal(t, []string{"staff@replicahealth.com"}, aws.StringValueSlice(email.Destination.ToAddresses))
	assert.Equal(t, `New dataset access request:

Name: Jo Researcher
Email: jo@uni.edu
Request: Closed loop study

Please review and respond to the user.`, aws.StringValue(email.Message.Body.Text.Data))

	// Not a download
	assert.Empty(t, mocks.activity.Recorded())
}

func TestRequestAccessValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		resp string
	}{
		{"invalid json", `{"name": `, `{"error":"Invalid JSON in request body"}`},
		{"empty body", ``, `{"error":"name, email, and description are required","received":{"name":false,"email":false,"description":false}}`},
		{"missing email", `{"name": "Jo", "description": "Study"}`, `{"error":"name, email, and description are required","received":{"name":true,"email":false,"description":true}}`},
		{"blank description", `{"name": "Jo", "email": "jo@uni.edu", "description": "  "}`, `{"error":"name, email, and description are required","received":{"name":true,"email":true,"description":false}}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gw, mocks := makeTestGateway(defaultTestObjects())

			resp := gw.Handle(context.Background(), makeRequest("POST", []string{}, tc.body, "op", "request_access"))
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.JSONEq(t, tc.resp, resp.Body)
			assert.Equal(t, 0, mocks.ses.SentCount())
		})
	}
}

func TestRequestAccessEmailFailure(t *testing.T) {
	gw, mocks := makeTestGateway(defaultTestObjects())
	mocks.ses.Fail = errors.New("MessageRejected: Email address is not verified")

	resp := gw.Handle(context.Background(), makeRequest("POST", []string{}, validAccessRequest, "op", "request_access"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"success":true,"message":"Request submitted successfully (email notification pending)"}`, resp.Body)
}

func TestRequestAccessNotConfigured(t *testing.T) {
	svcs, mocks := MakeMockSvcs(defaultTestObjects(), func(cfg *config.APIConfig) {
		cfg.AccessRequestRecipients = []string{}
	})
	gw, err := MakeGateway(svcs)
	require.NoError(t, err)

	resp := gw.Handle(context.Background(), makeRequest("POST", []string{}, validAccessRequest, "op", "request_access"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"success":true,"message":"Request submitted successfully (email notification pending)"}`, resp.Body)
	assert.Equal(t, 0, mocks.ses.SentCount())
}

func TestRequestAccessThrottled(t *testing.T) {
	svcs, mocks := MakeMockSvcs(defaultTestObjects(), func(cfg *config.APIConfig) {
		cfg.AccessRequestsPerHour = 2
	})
	gw, err := MakeGateway(svcs)
	require.NoError(t, err)

	messages := []string{}
	for c := 0; c < 3; c++ {
		resp := gw.Handle(context.Background(), makeRequest("POST", []string{}, validAccessRequest, "op", "request_access"))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		messages = append(messages, resp.Body)
	}

	assert.Equal(t, 2, mocks.ses.SentCount())
	assert.Contains(t, messages[2], "email notification pending")
}

func TestRequestAccessThrottleDisabled(t *testing.T) {
	svcs, mocks := MakeMockSvcs(defaultTestObjects(), func(cfg *config.APIConfig) {
		cfg.AccessRequestsPerHour = 2
		cfg.DisableAccessRequestThrottle = true
	})
	gw, err := MakeGateway(svcs)
	require.NoError(t, err)

	for c := 0; c < 8; c++ {
		resp := gw.Handle(context.Background(), makeRequest("POST", []string{}, validAccessRequest, "op", "request_access"))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"success":true,"message":"Request submitted successfully. You will receive a response within 24 hours."}`, resp.Body)
	}

	assert.Equal(t, 8, mocks.ses.SentCount())
}
