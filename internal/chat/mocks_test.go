package chat

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xkilldash9x/typewriter/internal/typing"
)

// mockRenderer is a testify mock of typing.Renderer.
type mockRenderer struct {
	mock.Mock
}

func (m *mockRenderer) Render(frame typing.Frame) error {
	args := m.Called(frame)
	return args.Error(0)
}

// instantClock never waits; its tickers never fire.
type instantClock struct{}

func (instantClock) Sleep(ctx context.Context, _ time.Duration) error { return ctx.Err() }
func (instantClock) NewTicker(time.Duration) typing.Ticker          { return idleTicker{} }

// blockingClock parks every sleep until the session is cancelled.
type blockingClock struct{}

func (blockingClock) Sleep(ctx context.Context, _ time.Duration) error {
	<-ctx.Done()
	return ctx.Err()
}
func (blockingClock) NewTicker(time.Duration) typing.Ticker { return idleTicker{} }

type idleTicker struct{}

func (idleTicker) C() <-chan time.Time { return nil }
func (idleTicker) Stop()               {}

// constRand always returns the same draw.
type constRand float64

func (r constRand) Float64() float64 { return float64(r) }
