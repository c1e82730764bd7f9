package endpoints

import (
	"context"
	"encoding/base64"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pkg/errors"
	"github.com/replicahealth/dataportal/core/errorwithstatus"
)

// RequestFromLambda converts an API Gateway proxy event. If a JWT authorizer ran upstream, its
// claims are under requestContext.authorizer.jwt.claims (HTTP APIs) or
// requestContext.authorizer.claims (REST APIs with a Cognito/Lambda authorizer)
func RequestFromLambda(event events.APIGatewayProxyRequest) (Request, error) {
	req := Request{
		Method:  event.HTTPMethod,
		Query:   event.QueryStringParameters,
		Headers: event.Headers,
		Body:    event.Body,
	}

	if req.Query == nil {
		req.Query = map[string]string{}
	}
	if req.Headers == nil {
		req.Headers = map[string]string{}
	}

	if event.IsBase64Encoded && len(event.Body) > 0 {
		body, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			return req, errorwithstatus.MakeBadRequestError(errors.New("Invalid base64 request body"))
		}
		req.Body = string(body)
	}

	if jwtAuth, ok := event.RequestContext.Authorizer["jwt"].(map[string]interface{}); ok {
		if claims, ok := jwtAuth["claims"].(map[string]interface{}); ok {
			req.AuthorizerClaims = claims
		}
	} else if claims, ok := event.RequestContext.Authorizer["claims"].(map[string]interface{}); ok {
		req.AuthorizerClaims = claims
	}

	return req, nil
}

func ResponseToLambda(resp Response) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       resp.Body,
	}
}

// HandleLambda is the lambda entry point. A lambda is frozen as soon as it returns, so anything
// running in the background is waited for first.
func (g *Gateway) HandleLambda(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	req, err := RequestFromLambda(event)
	if err != nil {
		resp := g.errorResponse(err)
		return ResponseToLambda(resp), nil
	}

	resp := g.Handle(ctx, req)
	g.Wait()
	return ResponseToLambda(resp), nil
}
