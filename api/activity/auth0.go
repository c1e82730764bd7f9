package activity

import (
	"context"

	"github.com/pkg/errors"
	"gopkg.in/auth0.v4/management"
)

// How many downloads we keep in a users metadata. Full history is in the other backends
const MaxMetadataDownloads = 50

// UserMetadataStore reads and writes Auth0 style user_metadata
type UserMetadataStore interface {
	ReadUserMetadata(userID string) (map[string]interface{}, error)
	WriteUserMetadata(userID string, metadata map[string]interface{}) error
}

// Auth0MetadataStore talks to the Auth0 management API
type Auth0MetadataStore struct {
	API *management.Management
}

func InitAuth0MetadataStore(domain string, clientID string, secret string) (*Auth0MetadataStore, error) {
	api, err := management.New(domain, clientID, secret)
	if err != nil {
		return nil, err
	}
	return &Auth0MetadataStore{API: api}, nil
}

func (s *Auth0MetadataStore) ReadUserMetadata(userID string) (map[string]interface{}, error) {
	user, err := s.API.User.Read(userID)
	if err != nil {
		return nil, err
	}
	return user.UserMetadata, nil
}

func (s *Auth0MetadataStore) WriteUserMetadata(userID string, metadata map[string]interface{}) error {
	return s.API.User.Update(userID, &management.User{UserMetadata: metadata})
}

// Auth0Recorder mirrors downloads and terms agreements into the users metadata so they're visible
// next to the user in Auth0. Current metadata is read first so nothing else in there is lost.
type Auth0Recorder struct {
	Store UserMetadataStore
}

func (r *Auth0Recorder) Record(ctx context.Context, event Event) error {
	if event.Activity != ActivityDownload && event.Activity != ActivityTermsAgreement {
		return nil
	}

	current, err := r.Store.ReadUserMetadata(event.UserID)
	if err != nil {
		return errors.Wrapf(err, "failed to read metadata for %v", event.UserID)
	}

	err = r.Store.WriteUserMetadata(event.UserID, mergeMetadata(current, event))
	if err != nil {
		return errors.Wrapf(err, "failed to write metadata for %v", event.UserID)
	}
	return nil
}

func mergeMetadata(current map[string]interface{}, event Event) map[string]interface{} {
	result := map[string]interface{}{}
	for k, v := range current {
		result[k] = v
	}

	switch event.Activity {
	case ActivityDownload:
		downloads := append(readList(result["downloads"]), map[string]interface{}{
			"filename":  event.Details["filename"],
			"timestamp": event.Timestamp,
			"type":      event.Details["type"],
		})
		if len(downloads) > MaxMetadataDownloads {
			downloads = downloads[len(downloads)-MaxMetadataDownloads:]
		}
		result["downloads"] = downloads

	case ActivityTermsAgreement:
		result["termsAgreements"] = append(readList(result["termsAgreements"]), map[string]interface{}{
			"version":   event.Details["version"],
			"timestamp": event.Timestamp,
			"type":      event.Details["type"],
		})
	}

	return result
}

func readList(value interface{}) []interface{} {
	if list, ok := value.([]interface{}); ok {
		result := make([]interface{}, len(list))
		copy(result, list)
		return result
	}
	return []interface{}{}
}
