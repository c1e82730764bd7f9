package endpoints

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

const sideEffectTimeout = 10 * time.Second

// Runs something the caller doesn't need to wait for the outcome of (activity tracking). Failures
// are logged and counted, never returned. Runs in the background unless InlineSideEffects is set,
// Wait collects it.
func (g *Gateway) runSideEffect(name string, fn func(ctx context.Context) error) {
	run := func() {
		// Not the request context, this may outlive the request
		ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
		defer cancel()

		defer func() {
			if r := recover(); r != nil {
				err := fmt.Errorf("panic in %v side effect: %v", name, r)
				g.svcs.Log.Errorf("%v", err)
				sentry.CaptureException(err)
				sideEffectFailures.WithLabelValues(name).Inc()
			}
		}()

		if err := fn(ctx); err != nil {
			g.svcs.Log.Errorf("%v side effect failed: %v", name, err)
			sideEffectFailures.WithLabelValues(name).Inc()
		}
	}

	if g.svcs.Config.InlineSideEffects {
		run()
		return
	}

	g.sideEffects.Add(1)
	go func() {
		defer g.sideEffects.Done()
		run()
	}()
}
