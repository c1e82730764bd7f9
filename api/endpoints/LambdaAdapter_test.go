package endpoints

import (
	"context"
	"encoding/base64"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestFromLambda(t *testing.T) {
	event := events.APIGatewayProxyRequest{
		HTTPMethod:            "POST",
		QueryStringParameters: map[string]string{"op": "batch"},
		Headers:               map[string]string{"content-type": "application/json"},
		Body:                  base64.StdEncoding.EncodeToString([]byte(`{"datasets":["DCLP"]}`)),
		IsBase64Encoded:       true,
		RequestContext: events.APIGatewayProxyRequestContext{
			Authorizer: map[string]interface{}{
				"jwt": map[string]interface{}{
					"claims": map[string]interface{}{
						"sub": "auth0|lambda",
						"https://replicahealth.com/roles": "[dataset:private_v1]",
					},
				},
			},
		},
	}

	req, err := RequestFromLambda(event)
	require.NoError(t, err)
	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "batch", req.Query["op"])
	assert.Equal(t, `{"datasets":["DCLP"]}`, req.Body)
	assert.Equal(t, "auth0|lambda", req.AuthorizerClaims["sub"])

	// REST API authorizers put claims one level up
	event.RequestContext.Authorizer = map[string]interface{}{"claims": map[string]interface{}{"sub": "auth0|rest"}}
	req, err = RequestFromLambda(event)
	require.NoError(t, err)
	assert.Equal(t, "auth0|rest", req.AuthorizerClaims["sub"])

	// Nothing set at all is fine, we just get empty maps
	req, err = RequestFromLambda(events.APIGatewayProxyRequest{HTTPMethod: "GET"})
	require.NoError(t, err)
	assert.NotNil(t, req.Query)
	assert.NotNil(t, req.Headers)
	assert.Nil(t, req.AuthorizerClaims)

	_, err = RequestFromLambda(events.APIGatewayProxyRequest{HTTPMethod: "POST", Body: "!!!", IsBase64Encoded: true})
	assert.Error(t, err)
}

func TestHandleLambda(t *testing.T) {
	gw, mocks := makeTestGateway(defaultTestObjects())

	event := events.APIGatewayProxyRequest{
		HTTPMethod:            "GET",
		QueryStringParameters: map[string]string{"op": "get", "key": processedPrefix + "DCLP2.csv"},
		RequestContext: events.APIGatewayProxyRequestContext{
			Authorizer: map[string]interface{}{
				"jwt": map[string]interface{}{
					"claims": map[string]interface{}{
						"sub": "auth0|lambda",
						"https://replicahealth.com/roles": []interface{}{"dataset:private_v1"},
					},
				},
			},
		},
	}

	resp, err := gw.HandleLambda(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
	assert.Contains(t, resp.Body, `"key":"processed_data_final_expanded/DCLP2.csv"`)
	assert.Len(t, mocks.activity.Recorded(), 2)

	// Bad body is reported like any other bad request
	resp, err = gw.HandleLambda(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: "POST", Body: "!!!", IsBase64Encoded: true})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Invalid base64 request body"}`, resp.Body)
}
