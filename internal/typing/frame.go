// internal/typing/frame.go
package typing

// State is the lifecycle state of a playback session.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Phase is the sub-step a running session is currently in.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseNormalType
	PhaseTypoInject
	PhaseTypoHold
	PhaseBackspace
	PhaseCorrectionPause
	PhaseThinkingPause
)

func (p Phase) String() string {
	switch p {
	case PhaseNone:
		return "none"
	case PhaseNormalType:
		return "normal_type"
	case PhaseTypoInject:
		return "typo_inject"
	case PhaseTypoHold:
		return "typo_hold"
	case PhaseBackspace:
		return "backspace"
	case PhaseCorrectionPause:
		return "correction_pause"
	case PhaseThinkingPause:
		return "thinking_pause"
	default:
		return "unknown"
	}
}

// Frame is one display state emitted to a renderer.
type Frame struct {
	// Seq numbers frames of a session from zero.
	Seq           int
	Text          string
	CursorVisible bool
	// Final marks the last frame of a completed session.
	Final bool
}

// Renderer consumes frames. Render is never called concurrently for the same session.
// It may cancel the session that invoked it; the frame in hand is then the last one.
// A returned error ends the animation early; the session then completes with the full text.
type Renderer interface {
	Render(frame Frame) error
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(frame Frame) error

func (f RendererFunc) Render(frame Frame) error { return f(frame) }

type discardRenderer struct{}

func (discardRenderer) Render(Frame) error { return nil }
