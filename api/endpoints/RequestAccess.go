package endpoints

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"github.com/replicahealth/dataportal/api/notificationSender"
	"github.com/replicahealth/dataportal/core/errorwithstatus"
)

const accessRequestedMessage = "Request submitted successfully. You will receive a response within 24 hours."
const accessRequestPendingMessage = "Request submitted successfully (email notification pending)"

type accessRequestResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// request_access: open to anyone signed in, so users without dataset roles can ask for them. The
// caller gets a success either way, the message says whether staff were actually emailed.
func (g *Gateway) requestAccess(who caller, req Request) (interface{}, error) {
	var accessReq notificationSender.AccessRequest

	body := strings.TrimSpace(req.Body)
	if len(body) > 0 {
		if err := json.Unmarshal([]byte(body), &accessReq); err != nil {
			return nil, errorwithstatus.MakeBadRequestError(errors.New("Invalid JSON in request body"))
		}
	}

	accessReq.Name = strings.TrimSpace(accessReq.Name)
	accessReq.Email = strings.TrimSpace(accessReq.Email)
	accessReq.Description = strings.TrimSpace(accessReq.Description)

	if len(accessReq.Name) <= 0 || len(accessReq.Email) <= 0 || len(accessReq.Description) <= 0 {
		return nil, errorwithstatus.MakeBadRequestError(errors.New("name, email, and description are required")).
			WithField("received", map[string]bool{
				"name":        len(accessReq.Name) > 0,
				"email":       len(accessReq.Email) > 0,
				"description": len(accessReq.Description) > 0,
			})
	}

	// Not run in the background even if other side effects are, the reply depends on how it went
	err := g.svcs.Notifier.NotifyAccessRequest(who.claims.Subject, accessReq)
	if err != nil {
		g.svcs.Log.Errorf("Access request notification for %v failed: %v", who.claims.Subject, err)
		sideEffectFailures.WithLabelValues("email").Inc()
		return accessRequestResponse{Success: true, Message: accessRequestPendingMessage}, nil
	}

	g.svcs.Log.Infof("Access request from %v sent to staff", who.claims.Subject)
	return accessRequestResponse{Success: true, Message: accessRequestedMessage}, nil
}
