// internal/typing/mocks_test.go
package typing

import (
	"context"
	"sync"
	"time"
)

// scriptedRand replays a fixed sequence of values, then returns fallback forever.
type scriptedRand struct {
	mu       sync.Mutex
	values   []float64
	fallback float64
	calls    int
}

func newScriptedRand(fallback float64, values ...float64) *scriptedRand {
	return &scriptedRand{values: values, fallback: fallback}
}

func (r *scriptedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if len(r.values) == 0 {
		return r.fallback
	}
	v := r.values[0]
	r.values = r.values[1:]
	return v
}

func (r *scriptedRand) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// mockClock records every requested sleep and returns immediately.
type mockClock struct {
	mu      sync.Mutex
	sleeps  []time.Duration
	tickers []*manualTicker

	// MockSleep, if set, runs before the default behavior with the zero-based call index.
	MockSleep func(call int, d time.Duration)
}

func newMockClock() *mockClock {
	return &mockClock{}
}

func (c *mockClock) Sleep(ctx context.Context, d time.Duration) error {
	c.mu.Lock()
	call := len(c.sleeps)
	c.sleeps = append(c.sleeps, d)
	hook := c.MockSleep
	c.mu.Unlock()

	if hook != nil {
		hook(call, d)
	}
	return ctx.Err()
}

func (c *mockClock) NewTicker(d time.Duration) Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTicker{interval: d, ch: make(chan time.Time, 1)}
	c.tickers = append(c.tickers, t)
	return t
}

func (c *mockClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]time.Duration, len(c.sleeps))
	copy(out, c.sleeps)
	return out
}

func (c *mockClock) Ticker(i int) *manualTicker {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i >= len(c.tickers) {
		return nil
	}
	return c.tickers[i]
}

// manualTicker only fires when the test calls Fire.
type manualTicker struct {
	interval time.Duration
	ch       chan time.Time

	mu      sync.Mutex
	stopped bool
}

func (t *manualTicker) C() <-chan time.Time { return t.ch }

func (t *manualTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

func (t *manualTicker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

func (t *manualTicker) Fire() {
	t.ch <- time.Now()
}

// frameRecorder is a Renderer that keeps every frame it receives.
type frameRecorder struct {
	mu     sync.Mutex
	frames []Frame

	// MockRender, if set, decides the error returned for a frame after it is recorded.
	MockRender func(f Frame) error
}

func (r *frameRecorder) Render(f Frame) error {
	r.mu.Lock()
	r.frames = append(r.frames, f)
	hook := r.MockRender
	r.mu.Unlock()
	if hook != nil {
		return hook(f)
	}
	return nil
}

func (r *frameRecorder) Frames() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Frame, len(r.frames))
	copy(out, r.frames)
	return out
}

func (r *frameRecorder) Texts() []string {
	frames := r.Frames()
	out := make([]string, len(frames))
	for i, f := range frames {
		out[i] = f.Text
	}
	return out
}

func (r *frameRecorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}
