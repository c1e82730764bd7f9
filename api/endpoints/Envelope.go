package endpoints

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
	"github.com/replicahealth/dataportal/core/errorwithstatus"
)

////////////////////////////////////////////////////////////////////////////////////////////////////////////
// Every response, errors included, goes out with the same CORS headers and a JSON body

func (g *Gateway) corsHeaders() map[string]string {
	origin := g.svcs.Config.AllowedOrigin
	if len(origin) <= 0 {
		origin = "*"
	}

	return map[string]string{
		"Access-Control-Allow-Origin":  origin,
		"Access-Control-Allow-Headers": "Content-Type,Authorization",
		"Access-Control-Allow-Methods": "GET,POST,OPTIONS",
		"Content-Type":                 "application/json",
	}
}

func (g *Gateway) makeEmptyResponse(status int) Response {
	return Response{StatusCode: status, Headers: g.corsHeaders(), Body: ""}
}

func (g *Gateway) makeResponse(status int, body interface{}) Response {
	text, err := toJSON(body)
	if err != nil {
		g.svcs.Log.Errorf("Failed to encode response: %v", err)
		return Response{StatusCode: http.StatusInternalServerError, Headers: g.corsHeaders(), Body: `{"error":"internal error"}`}
	}

	return Response{StatusCode: status, Headers: g.corsHeaders(), Body: text}
}

// Status errors go back as-is, anything else is an internal error whose detail stays in our logs
func (g *Gateway) errorResponse(err error) Response {
	var statusErr errorwithstatus.StatusError
	if errors.As(err, &statusErr) {
		return g.makeResponse(statusErr.Status(), statusErr.Body())
	}
	return g.internalError(err)
}

// Signed URLs are full of &, which the default encoder escapes
func toJSON(body interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(body); err != nil {
		return "", fmt.Errorf("failed to encode JSON: %v", err)
	}

	// Encode always finishes with a newline
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
