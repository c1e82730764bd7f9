package services

import "github.com/replicahealth/dataportal/api/notificationSender"

type INotifier interface {
	// When a user asks for dataset access. Returns nil only if staff were actually notified
	NotifyAccessRequest(subject string, req notificationSender.AccessRequest) error
}
