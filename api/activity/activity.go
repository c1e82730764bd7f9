// Records what users downloaded and which terms they agreed to. Everything here is best-effort,
// callers log failures and carry on.
package activity

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/replicahealth/dataportal/core/timestamper"
)

const (
	ActivityDownload       = "download"
	ActivityTermsAgreement = "terms_agreement"
)

// Event is one thing a user did. Events are only ever appended, never updated
type Event struct {
	EventID   string                 `json:"eventId" bson:"_id"`
	UserID    string                 `json:"userId" bson:"userId"`
	Timestamp string                 `json:"timestamp" bson:"timestamp"`
	Activity  string                 `json:"activity" bson:"activity"`
	Details   map[string]interface{} `json:"details" bson:"details"`
}

type Recorder interface {
	Record(ctx context.Context, event Event) error
}

func MakeEvent(userID string, activity string, details map[string]interface{}, ts timestamper.ITimeStamper) Event {
	return Event{
		EventID:   uuid.NewString(),
		UserID:    userID,
		Timestamp: timestamper.UTCTimeNow(ts).Format(time.RFC3339),
		Activity:  activity,
		Details:   details,
	}
}

// NullRecorder drops everything, for when no backend is configured
type NullRecorder struct {
}

func (r NullRecorder) Record(ctx context.Context, event Event) error {
	return nil
}

// MockRecorder keeps events in memory. If Fail is set, it's returned from every call (the event
// is still kept, so tests can see what was attempted)
type MockRecorder struct {
	mutex  sync.Mutex
	Fail   error
	Events []Event
}

func (r *MockRecorder) Record(ctx context.Context, event Event) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.Events = append(r.Events, event)
	return r.Fail
}

func (r *MockRecorder) Recorded() []Event {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	result := make([]Event, len(r.Events))
	copy(result, r.Events)
	return result
}
