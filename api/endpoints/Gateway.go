package endpoints

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"
	"github.com/replicahealth/dataportal/api/datasets"
	"github.com/replicahealth/dataportal/api/permission"
	"github.com/replicahealth/dataportal/api/services"
	"github.com/replicahealth/dataportal/core/errorwithstatus"
	"github.com/replicahealth/dataportal/core/jwtparser"
)

// Request is what the gateway needs from an inbound call, whatever transport it came in on
type Request struct {
	Method  string
	Query   map[string]string
	Headers map[string]string
	Body    string

	// Claims an upstream authorizer already verified, nil if there weren't any
	AuthorizerClaims map[string]interface{}
}

type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       string
}

// Gateway answers dataset requests: who's calling, are they allowed, and what links do they get.
// Holds nothing per-request, so one Gateway serves all requests concurrently.
type Gateway struct {
	svcs    *services.APIServices
	builder *datasets.Builder
	roles   permission.RoleNames

	// Outstanding side effects, only used if they run after we respond
	sideEffects sync.WaitGroup
}

// What a single request knows about its caller once authenticated
type caller struct {
	claims jwtparser.Claims
	policy permission.AccessPolicy
}

func MakeGateway(svcs *services.APIServices) (*Gateway, error) {
	builder, err := datasets.MakeBuilder(svcs.Config, svcs.FS, svcs.Signer, svcs.TimeStamper)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create dataset group builder")
	}

	return &Gateway{
		svcs:    svcs,
		builder: builder,
		roles: permission.RoleNames{
			Public:        svcs.Config.PublicRole,
			Private:       svcs.Config.PrivateRole,
			DatasetMarker: svcs.Config.DatasetRoleMarker,
		},
	}, nil
}

// Handle runs one request through auth, the permission gate and the requested operation. Never
// returns an error, anything that goes wrong is turned into a response.
func (g *Gateway) Handle(ctx context.Context, req Request) (resp Response) {
	// Preflight doesn't need auth
	if strings.EqualFold(req.Method, http.MethodOptions) {
		return g.makeEmptyResponse(http.StatusNoContent)
	}

	start := time.Now()
	opName := "unknown"
	subject := ""

	defer func() {
		if r := recover(); r != nil {
			resp = g.internalError(fmt.Errorf("panic in %v: %v", opName, r))
		}

		g.svcs.Log.Infof("op: %v, sub: \"%v\", status: %v, took: %v", opName, subject, resp.StatusCode, time.Since(start))
		gatewayRequests.WithLabelValues(opName, fmt.Sprintf("%v", resp.StatusCode)).Inc()
		gatewayDuration.WithLabelValues(opName).Observe(time.Since(start).Seconds())
	}()

	who, err := g.identify(req)
	if err != nil {
		return g.errorResponse(err)
	}
	subject = who.claims.Subject

	op, ok := permission.ParseOperation(req.Query["op"])
	if !ok {
		return g.errorResponse(invalidOperationError(op))
	}
	opName = string(op)

	if err := who.policy.Authorize(op); err != nil {
		return g.errorResponse(err)
	}

	var result interface{}
	switch op {
	case permission.OpGet:
		result, err = g.getLink(who, req)
	case permission.OpListGroups:
		result, err = g.listGroups(ctx, who)
	case permission.OpList:
		result, err = g.listByType(ctx, who, req)
	case permission.OpBatch:
		result, err = g.batchLinks(ctx, who, req)
	case permission.OpRequestAccess:
		result, err = g.requestAccess(who, req)
	default:
		err = invalidOperationError(op)
	}

	if err != nil {
		return g.errorResponse(err)
	}
	return g.makeResponse(http.StatusOK, result)
}

// Wait blocks until any side effects still running in the background are done
func (g *Gateway) Wait() {
	g.sideEffects.Wait()
}

// Works out who is calling. Claims verified upstream win if they have a subject, otherwise we
// validate the bearer token ourselves
func (g *Gateway) identify(req Request) (caller, error) {
	var claims jwtparser.Claims

	if sub, ok := req.AuthorizerClaims["sub"].(string); ok && len(sub) > 0 {
		claims = jwtparser.ClaimsFromAuthorizer(req.AuthorizerClaims)
	} else {
		authHeader := headerValue(req.Headers, "Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return caller{}, errorwithstatus.MakeUnauthenticatedError(errors.New("unauthorized"))
		}

		var err error
		claims, err = g.svcs.Validator.Validate(authHeader)
		if err != nil {
			g.svcs.Log.Errorf("JWT validation failed: %v", err)
			return caller{}, errorwithstatus.MakeUnauthenticatedError(errors.New("unauthorized")).WithField("details", "JWT validation failed")
		}
	}

	if len(claims.Subject) <= 0 {
		return caller{}, errorwithstatus.MakeUnauthenticatedError(errors.New("unauthorized")).WithField("details", "Missing subject claim")
	}

	return caller{
		claims: claims,
		policy: permission.PolicyFromRoles(claims.Roles(g.svcs.Config.RolesClaim), g.roles),
	}, nil
}

func invalidOperationError(op permission.Operation) error {
	available := []string{}
	for _, known := range permission.AllOperations {
		available = append(available, string(known))
	}

	return errorwithstatus.MakeBadRequestError(errors.New("Invalid operation")).
		WithField("operation", string(op)).
		WithField("available", available)
}

// Header names are case-insensitive, and different transports hand them to us differently
func headerValue(headers map[string]string, name string) string {
	if val, ok := headers[name]; ok {
		return val
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

func (g *Gateway) internalError(err error) Response {
	g.svcs.Log.Errorf("Internal error: %v", err)
	sentry.CaptureException(err)
	return g.makeResponse(http.StatusInternalServerError, map[string]string{"error": "internal error"})
}
