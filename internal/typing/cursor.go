// internal/typing/cursor.go
package typing

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultCursorBlinkInterval is the standard caret blink rate.
const DefaultCursorBlinkInterval = 530 * time.Millisecond

// cursorBlinker toggles the caret on a fixed interval while a session runs.
// The first toggle error ends the loop and is reported by Stop.
// Once stopped it cannot be restarted.
type cursorBlinker struct {
	clock    Clock
	interval time.Duration
	onToggle func() error

	mu     sync.Mutex
	active bool
	sealed bool
	cancel context.CancelFunc
	group  errgroup.Group
}

func newCursorBlinker(clock Clock, interval time.Duration, onToggle func() error) *cursorBlinker {
	return &cursorBlinker{
		clock:    clock,
		interval: interval,
		onToggle: onToggle,
	}
}

// Start begins blinking until Stop is called or ctx is done.
func (b *cursorBlinker) Start(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.sealed || b.active || b.interval <= 0 {
		return
	}
	b.active = true

	ticker := b.clock.NewTicker(b.interval)
	tickC := ticker.C()
	loopCtx, cancel := context.WithCancel(ctx)
	b.cancel = cancel

	b.group.Go(func() error {
		defer ticker.Stop()
		for {
			select {
			case <-loopCtx.Done():
				return nil
			case <-tickC:
				if err := b.onToggle(); err != nil {
					return err
				}
			}
		}
	})
}

// Stop tears down the ticker, waits for the blink loop to exit and returns the
// toggle error that ended it, if any.
// It must not be called while holding a lock that onToggle acquires.
func (b *cursorBlinker) Stop() error {
	b.mu.Lock()
	if b.sealed {
		b.mu.Unlock()
		return nil
	}
	b.sealed = true
	b.active = false
	cancel := b.cancel
	b.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	return b.group.Wait()
}
