package activity

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/replicahealth/dataportal/core/logger"
)

type NamedRecorder struct {
	Name     string
	Recorder Recorder
}

// MultiRecorder writes each event to every backend at once. A failing backend doesn't stop the
// others, its error is logged and included in the returned error.
type MultiRecorder struct {
	Backends []NamedRecorder
	Log      logger.ILogger
}

func (r *MultiRecorder) Record(ctx context.Context, event Event) error {
	errs := make([]error, len(r.Backends))

	var wg sync.WaitGroup
	for c, backend := range r.Backends {
		wg.Add(1)
		go func(c int, backend NamedRecorder) {
			defer wg.Done()

			if err := backend.Recorder.Record(ctx, event); err != nil {
				r.Log.Errorf("Failed to record %v for user %v in %v: %v", event.Activity, event.UserID, backend.Name, err)
				errs[c] = fmt.Errorf("%v: %v", backend.Name, err)
			}
		}(c, backend)
	}
	wg.Wait()

	return errors.Join(errs...)
}
