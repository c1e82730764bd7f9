package endpoints

import (
	"context"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"github.com/replicahealth/dataportal/core/errorwithstatus"
)

// Bodies are a few names or an access request, anything bigger isn't for us
const maxRequestBodyBytes = 1 << 20

type authorizerClaimsKey struct{}

// WithAuthorizerClaims attaches claims to a request context as if an upstream authorizer had
// verified them. Used by the mock server, a deployed gateway never trusts these from a client.
func WithAuthorizerClaims(ctx context.Context, claims map[string]interface{}) context.Context {
	return context.WithValue(ctx, authorizerClaimsKey{}, claims)
}

// RequestFromHTTP converts an HTTP request. Only the first value of repeated query params and
// headers is used
func RequestFromHTTP(r *http.Request) (Request, error) {
	req := Request{
		Method:  r.Method,
		Query:   map[string]string{},
		Headers: map[string]string{},
	}

	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			req.Query[k] = v[0]
		}
	}

	for k, v := range r.Header {
		if len(v) > 0 {
			req.Headers[k] = v[0]
		}
	}

	if claims, ok := r.Context().Value(authorizerClaimsKey{}).(map[string]interface{}); ok {
		req.AuthorizerClaims = claims
	}

	if r.Body != nil {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodyBytes+1))
		if err != nil {
			return req, errors.Wrap(err, "failed to read request body")
		}
		if len(body) > maxRequestBodyBytes {
			return req, errorwithstatus.MakeStatusError(http.StatusRequestEntityTooLarge, errors.New("Request body too large"))
		}
		req.Body = string(body)
	}

	return req, nil
}

func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var resp Response

	req, err := RequestFromHTTP(r)
	if err != nil {
		resp = g.errorResponse(err)
	} else {
		resp = g.Handle(r.Context(), req)
	}

	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(resp.StatusCode)
	if len(resp.Body) > 0 {
		io.WriteString(w, resp.Body)
	}
}
