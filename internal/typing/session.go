// internal/typing/session.go
package typing

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultBackspaceInterval is the fixed pause between erased runes.
const DefaultBackspaceInterval = 50 * time.Millisecond

// errStopped reports that the session left the running state underneath the loop.
var errStopped = errors.New("typing: session stopped")

// Options configures a playback session.
type Options struct {
	Profile ProfileID
	// SpeedMultiplier is clamped to [0.1, 3.0]; zero means 1.0.
	SpeedMultiplier float64
	// AnimationsEnabled false shows the full text at once.
	AnimationsEnabled bool

	// Rand defaults to a randomly seeded source owned by the session.
	// A source must not be shared with another running session.
	Rand Rand
	// Clock defaults to SystemClock.
	Clock  Clock
	Logger *zap.Logger

	// OnStart runs once when animated playback begins.
	OnStart func()
	// OnComplete runs exactly once when the session completes, including the
	// degraded completion that follows a renderer failure. It never runs after Cancel.
	OnComplete func()

	BackspaceInterval   time.Duration
	CursorBlinkInterval time.Duration
}

// Session plays one target text back as a sequence of frames.
// A session runs at most once; create a new one for different text.
type Session struct {
	target   []rune
	renderer Renderer
	opts     Options
	pacer    *Pacer
	clock    Clock
	logger   *zap.Logger
	blinker  *cursorBlinker

	// renderMu serializes calls into the renderer. It is taken before mu and
	// held across Render; mu never is, so a renderer may call Cancel.
	renderMu sync.Mutex

	// mu guards everything below.
	mu            sync.Mutex
	state         State
	phase         Phase
	started       bool
	displayed     []rune
	cursorVisible bool
	seq           int
	err           error
	renderErr     error
	cancel        context.CancelFunc

	done     chan struct{}
	doneOnce sync.Once
}

// NewSession prepares a session for text. Nothing is emitted until Run or Start.
func NewSession(text string, renderer Renderer, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("typing")

	if renderer == nil {
		renderer = discardRenderer{}
	}

	profile, ok := LookupProfile(opts.Profile)
	if !ok {
		if opts.Profile != "" {
			logger.Warn("Unknown typing personality, using default",
				zap.String("personality", string(opts.Profile)),
				zap.String("default", string(DefaultProfile)))
		}
		profile = MustProfile(DefaultProfile)
	}

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock()
	}
	if opts.SpeedMultiplier == 0 {
		opts.SpeedMultiplier = 1.0
	}
	if opts.BackspaceInterval <= 0 {
		opts.BackspaceInterval = DefaultBackspaceInterval
	}
	if opts.CursorBlinkInterval <= 0 {
		opts.CursorBlinkInterval = DefaultCursorBlinkInterval
	}

	s := &Session{
		target:   []rune(text),
		renderer: renderer,
		opts:     opts,
		pacer:    NewPacer(profile, opts.SpeedMultiplier, rng),
		clock:    clock,
		logger:   logger,
		done:     make(chan struct{}),
	}
	s.blinker = newCursorBlinker(clock, opts.CursorBlinkInterval, s.toggleCursor)
	return s
}

// Text returns the target text.
func (s *Session) Text() string { return string(s.target) }

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Phase returns the sub-step of a running session.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Displayed returns the text currently on screen.
func (s *Session) Displayed() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return string(s.displayed)
}

// Err returns the failure that forced an early completion, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Done is closed once the session has terminated for any reason.
func (s *Session) Done() <-chan struct{} { return s.done }

// Run plays the text back and blocks until the session terminates.
// Calling Run or Start again is a no-op that returns the current state.
func (s *Session) Run(ctx context.Context) State {
	runCtx, ok := s.begin(ctx)
	if !ok || runCtx == nil {
		return s.State()
	}
	return s.execute(runCtx)
}

// Start is the asynchronous form of Run. It reports false when the session
// had already been started or cancelled.
func (s *Session) Start(ctx context.Context) bool {
	runCtx, ok := s.begin(ctx)
	if !ok {
		return false
	}
	if runCtx != nil {
		go s.execute(runCtx)
	}
	return true
}

// Cancel stops the session. It is safe to call at any time, from any goroutine,
// including from inside Render. After it returns no further frame is started
// and OnComplete never fires.
func (s *Session) Cancel() {
	s.mu.Lock()
	closeNow := false
	switch s.state {
	case StateIdle:
		if !s.started {
			s.state = StateCancelled
			closeNow = true
		}
	case StateRunning:
		s.state = StateCancelled
		s.cursorVisible = false
		s.logger.Debug("Typing session cancelled",
			zap.Int("displayed", len(s.displayed)),
			zap.Int("total", len(s.target)),
			zap.Stringer("phase", s.phase))
	}
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if closeNow {
		s.closeDone()
	}
}

// begin claims the one-shot start guard. It handles the non-animated cases
// inline and returns a nil context for them.
func (s *Session) begin(ctx context.Context) (context.Context, bool) {
	s.renderMu.Lock()
	s.mu.Lock()
	if s.started || s.state == StateCancelled {
		s.mu.Unlock()
		s.renderMu.Unlock()
		return nil, false
	}
	s.started = true

	switch {
	case !s.opts.AnimationsEnabled:
		s.displayed = append(s.displayed[:0], s.target...)
		s.cursorVisible = false
		s.state = StateCompleted
		frame := s.frameLocked(true)
		s.mu.Unlock()

		if err := s.deliver(frame); err != nil {
			s.mu.Lock()
			s.err = err
			s.mu.Unlock()
			s.logger.Warn("Renderer failed on instant display", zap.Error(err))
		}
		s.renderMu.Unlock()
		s.finish(true)
		return nil, true

	case len(s.target) == 0:
		s.cursorVisible = false
		frame := s.frameLocked(false)
		s.mu.Unlock()

		if err := s.deliver(frame); err != nil {
			s.logger.Warn("Renderer failed on idle frame", zap.Error(err))
		}
		s.renderMu.Unlock()
		s.finish(false)
		return nil, true
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.state = StateRunning
	s.cursorVisible = true
	s.displayed = s.displayed[:0]
	s.mu.Unlock()
	s.renderMu.Unlock()

	s.logger.Debug("Typing session started",
		zap.String("personality", string(s.pacer.Profile().ID)),
		zap.Float64("speed_multiplier", s.pacer.SpeedMultiplier()),
		zap.Int("length", len(s.target)))
	return runCtx, true
}

func (s *Session) execute(ctx context.Context) State {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	defer cancel()

	// Nothing will be typed into a context that is already done.
	if err := ctx.Err(); err != nil {
		return s.settle(ctx, err)
	}
	if err := callHook(s.opts.OnStart); err != nil {
		s.logger.Warn("OnStart hook failed", zap.Error(err))
	}

	s.blinker.Start(ctx)
	err := s.play(ctx)
	if blinkErr := s.blinker.Stop(); err == nil {
		err = blinkErr
	}

	return s.settle(ctx, err)
}

// settle moves the session to its terminal state after the loop exits.
func (s *Session) settle(ctx context.Context, err error) State {
	s.renderMu.Lock()
	s.mu.Lock()
	if s.state != StateRunning {
		s.mu.Unlock()
		s.renderMu.Unlock()
		s.closeDone()
		return StateCancelled
	}
	if err != nil && ctx.Err() != nil {
		s.state = StateCancelled
		s.cursorVisible = false
		s.mu.Unlock()
		s.renderMu.Unlock()
		s.logger.Debug("Typing session context ended", zap.Error(ctx.Err()))
		s.closeDone()
		return StateCancelled
	}
	if err == nil {
		err = s.renderErr
	}
	if err != nil {
		s.err = err
		s.logger.Warn("Typing animation failed, showing full text", zap.Error(err))
	}

	s.displayed = append(s.displayed[:0], s.target...)
	s.cursorVisible = false
	s.state = StateCompleted
	s.phase = PhaseNone
	frame := s.frameLocked(true)
	s.mu.Unlock()

	if emitErr := s.deliver(frame); emitErr != nil {
		s.logger.Warn("Renderer failed on final frame", zap.Error(emitErr))
	}
	s.renderMu.Unlock()

	s.finish(true)
	return StateCompleted
}

// play is the main typing loop.
func (s *Session) play(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("typing: playback panicked: %v", r)
		}
	}()

	total := len(s.target)
	pos := 0
	for pos < total {
		if err := ctx.Err(); err != nil {
			return err
		}
		r := s.target[pos]

		if s.pacer.ShouldBackspace(pos, total) && s.displayedLen() > 0 {
			if s.pacer.ShouldMakeTypo() {
				if typo, ok := s.pacer.GenerateTypoSequence(s.target, pos); ok {
					if err := s.playTypo(ctx, typo); err != nil {
						return err
					}
					// The typo consumed no target runes; retry the same position.
					continue
				}
			}
			erased, err := s.eraseForRetype(ctx)
			if err != nil {
				return err
			}
			pos = max(0, pos-erased)
			continue
		}

		if err := s.apply(PhaseNormalType, func(d []rune) []rune { return append(d, r) }); err != nil {
			return err
		}
		pos++

		if err := s.wait(ctx, PhaseNormalType, s.pacer.CharacterDelay(r)); err != nil {
			return err
		}
		if pause := s.pacer.PunctuationPause(r); pause > 0 {
			if err := s.wait(ctx, PhaseNormalType, pause); err != nil {
				return err
			}
		}
		if IsWordBoundary(r) && s.pacer.ShouldAddThinkingPause() {
			if err := s.wait(ctx, PhaseThinkingPause, s.pacer.ThinkingPause()); err != nil {
				return err
			}
		}
	}
	return nil
}

// playTypo types the erroneous text, holds it, then erases it.
func (s *Session) playTypo(ctx context.Context, typo TypoSequence) error {
	for _, r := range typo.Text {
		if err := s.apply(PhaseTypoInject, func(d []rune) []rune { return append(d, r) }); err != nil {
			return err
		}
		if err := s.wait(ctx, PhaseTypoInject, s.pacer.CharacterDelay(r)); err != nil {
			return err
		}
	}
	if err := s.wait(ctx, PhaseTypoHold, s.pacer.TypoVisibility()); err != nil {
		return err
	}
	if err := s.erase(ctx, typo.BackspaceCount); err != nil {
		return err
	}
	return s.wait(ctx, PhaseCorrectionPause, s.pacer.CorrectionPause())
}

// eraseForRetype deletes already typed runes so they are typed again, and
// reports how many were removed.
func (s *Session) eraseForRetype(ctx context.Context) (int, error) {
	n := min(s.pacer.BackspaceLength(), s.displayedLen())
	if err := s.erase(ctx, n); err != nil {
		return 0, err
	}
	if err := s.wait(ctx, PhaseCorrectionPause, s.pacer.CorrectionPause()); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Session) erase(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		err := s.apply(PhaseBackspace, func(d []rune) []rune {
			if len(d) == 0 {
				return d
			}
			return d[:len(d)-1]
		})
		if err != nil {
			return err
		}
		if err := s.wait(ctx, PhaseBackspace, s.opts.BackspaceInterval); err != nil {
			return err
		}
	}
	return nil
}

// apply mutates the displayed text and emits the resulting frame. No other
// frame can be rendered between the two.
func (s *Session) apply(phase Phase, mutate func([]rune) []rune) error {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()

	s.mu.Lock()
	if s.state != StateRunning {
		s.mu.Unlock()
		return errStopped
	}
	if err := s.renderErr; err != nil {
		s.mu.Unlock()
		return err
	}
	s.phase = phase
	s.displayed = mutate(s.displayed)
	frame := s.frameLocked(false)
	s.mu.Unlock()

	return s.deliver(frame)
}

func (s *Session) wait(ctx context.Context, phase Phase, d time.Duration) error {
	s.mu.Lock()
	if s.state != StateRunning {
		s.mu.Unlock()
		return errStopped
	}
	s.phase = phase
	s.mu.Unlock()

	if d <= 0 {
		return ctx.Err()
	}
	return s.clock.Sleep(ctx, d)
}

func (s *Session) displayedLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.displayed)
}

// toggleCursor is driven by the blinker. A render failure ends the blink loop.
func (s *Session) toggleCursor() error {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()

	s.mu.Lock()
	if s.state != StateRunning || s.renderErr != nil {
		s.mu.Unlock()
		return nil
	}
	s.cursorVisible = !s.cursorVisible
	frame := s.frameLocked(false)
	s.mu.Unlock()

	err := s.deliver(frame)
	if err != nil {
		// Picked up by the typing loop at its next step.
		s.mu.Lock()
		s.renderErr = err
		s.mu.Unlock()
	}
	return err
}

// frameLocked snapshots the display state as the next frame. s.mu must be held.
func (s *Session) frameLocked(final bool) Frame {
	frame := Frame{
		Seq:           s.seq,
		Text:          string(s.displayed),
		CursorVisible: s.cursorVisible,
		Final:         final,
	}
	s.seq++
	return frame
}

// deliver hands frame to the renderer. renderMu must be held and mu must not be.
func (s *Session) deliver(frame Frame) error {
	if err := s.render(frame); err != nil {
		return fmt.Errorf("typing: render frame %d: %w", frame.Seq, err)
	}
	return nil
}

func (s *Session) render(frame Frame) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("renderer panicked: %v", r)
		}
	}()
	return s.renderer.Render(frame)
}

func (s *Session) finish(completed bool) {
	if completed {
		if err := callHook(s.opts.OnComplete); err != nil {
			s.logger.Warn("OnComplete hook failed", zap.Error(err))
		}
		s.logger.Debug("Typing session completed", zap.Int("length", len(s.target)))
	}
	s.closeDone()
}

func (s *Session) closeDone() {
	s.doneOnce.Do(func() { close(s.done) })
}

func callHook(fn func()) (err error) {
	if fn == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("hook panicked: %v", r)
		}
	}()
	fn()
	return nil
}
