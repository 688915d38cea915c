// internal/typing/clock.go
package typing

import (
	"context"
	"time"
)

// Clock abstracts the passage of time so playback can be driven
// deterministically in tests.
type Clock interface {
	// Sleep pauses for d or until ctx is done, whichever comes first.
	Sleep(ctx context.Context, d time.Duration) error
	// NewTicker returns a ticker that fires every d.
	NewTicker(d time.Duration) Ticker
}

// Ticker is the subset of *time.Ticker the playback engine needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// SystemClock returns a Clock backed by the runtime timers.
func SystemClock() Clock {
	return systemClock{}
}

type systemClock struct{}

func (systemClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (systemClock) NewTicker(d time.Duration) Ticker {
	return systemTicker{time.NewTicker(d)}
}

type systemTicker struct {
	t *time.Ticker
}

func (s systemTicker) C() <-chan time.Time { return s.t.C }
func (s systemTicker) Stop()               { s.t.Stop() }
