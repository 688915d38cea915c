package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/typewriter/internal/typing"
)

var (
	// ErrMessageNotFound is returned for an id the conversation does not hold.
	ErrMessageNotFound = errors.New("chat: message not found")
	// ErrNotReady is returned when a message cannot be animated in its current state.
	ErrNotReady = errors.New("chat: message is not ready to animate")
)

// Option configures a Conversation.
type Option func(*Conversation)

// WithClock drives every playback session from clock.
func WithClock(clock typing.Clock) Option {
	return func(c *Conversation) { c.clock = clock }
}

// WithRandSource makes every playback session draw from a source returned by
// newRand. It is called once per session, so sessions never share a source.
func WithRandSource(newRand func() typing.Rand) Option {
	return func(c *Conversation) { c.newRand = newRand }
}

// WithNow overrides the timestamp source for new messages.
func WithNow(now func() time.Time) Option {
	return func(c *Conversation) { c.now = now }
}

// Conversation is an ordered, in-memory list of messages plus at most one
// playback session per assistant message. It is safe for concurrent use.
type Conversation struct {
	logger  *zap.Logger
	clock   typing.Clock
	newRand func() typing.Rand
	now     func() time.Time

	mu       sync.Mutex
	messages []Message
	sessions map[string]*typing.Session
}

// NewConversation returns an empty conversation.
func NewConversation(logger *zap.Logger, opts ...Option) *Conversation {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Conversation{
		logger:   logger.Named("chat"),
		now:      time.Now,
		sessions: make(map[string]*typing.Session),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddMessage appends a message and returns its id. Assistant messages default
// to StatusStreaming; user messages never carry a status.
func (c *Conversation) AddMessage(role Role, content string, status Status) string {
	switch {
	case role != RoleAssistant:
		status = StatusNone
	case status == StatusNone:
		status = StatusStreaming
	}
	msg := Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: c.now(),
		Status:    status,
	}

	c.mu.Lock()
	c.messages = append(c.messages, msg)
	c.mu.Unlock()
	return msg.ID
}

// UpdateMessage replaces the content of a message and, when status is non-nil, its status.
func (c *Conversation) UpdateMessage(id, content string, status *Status) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(id)
	if i < 0 {
		return ErrMessageNotFound
	}
	c.messages[i].Content = content
	if status != nil {
		c.messages[i].Status = *status
	}
	return nil
}

// SetStatus changes only the status of a message.
func (c *Conversation) SetStatus(id string, status Status) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(id)
	if i < 0 {
		return ErrMessageNotFound
	}
	c.messages[i].Status = status
	return nil
}

// Message returns a copy of the message with the given id.
func (c *Conversation) Message(id string) (Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(id)
	if i < 0 {
		return Message{}, false
	}
	return c.messages[i], true
}

// Messages returns a snapshot of the conversation in insertion order.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.messages...)
}

// Clear removes every message and cancels any playback still running.
func (c *Conversation) Clear() {
	c.mu.Lock()
	sessions := c.sessions
	c.sessions = make(map[string]*typing.Session)
	c.messages = nil
	c.mu.Unlock()

	for _, s := range sessions {
		s.Cancel()
	}
}

// Animate starts playback of an assistant message that is ready to animate.
// Calling it again for unchanged content returns the session already bound to
// the message. If the content changed, the old session is cancelled and replaced.
// When playback completes the message moves to StatusComplete.
func (c *Conversation) Animate(ctx context.Context, id string, renderer typing.Renderer, settings Settings) (*typing.Session, error) {
	c.mu.Lock()
	i := c.indexLocked(id)
	if i < 0 {
		c.mu.Unlock()
		return nil, ErrMessageNotFound
	}
	msg := c.messages[i]

	previous := c.sessions[id]
	if previous != nil && previous.Text() == msg.Content {
		c.mu.Unlock()
		return previous, nil
	}
	if msg.Role != RoleAssistant || (msg.Status != StatusReadyToAnimate && msg.Status != StatusAnimating) {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %s message %s has status %q", ErrNotReady, msg.Role, id, msg.Status)
	}

	var rng typing.Rand
	if c.newRand != nil {
		rng = c.newRand()
	}

	var session *typing.Session
	session = typing.NewSession(msg.Content, renderer, typing.Options{
		Profile:             settings.Personality,
		SpeedMultiplier:     settings.SpeedMultiplier,
		AnimationsEnabled:   settings.AnimationsEnabled,
		BackspaceInterval:   settings.BackspaceInterval,
		CursorBlinkInterval: settings.CursorBlinkInterval,
		Rand:                rng,
		Clock:               c.clock,
		Logger:              c.logger.With(zap.String("message_id", id)),
		OnComplete:          func() { c.markComplete(id, session) },
	})
	c.sessions[id] = session
	c.mu.Unlock()

	if previous != nil {
		c.logger.Debug("Superseding playback for changed message content", zap.String("message_id", id))
		previous.Cancel()
	}

	session.Start(ctx)
	return session, nil
}

// markComplete applies the completion of session unless it has been superseded.
func (c *Conversation) markComplete(id string, session *typing.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sessions[id] != session {
		return
	}
	i := c.indexLocked(id)
	if i < 0 {
		return
	}
	switch c.messages[i].Status {
	case StatusReadyToAnimate, StatusAnimating:
		c.messages[i].Status = StatusComplete
	default:
		c.logger.Debug("Ignoring completion for message in unexpected state",
			zap.String("message_id", id),
			zap.String("status", string(c.messages[i].Status)))
	}
}

func (c *Conversation) indexLocked(id string) int {
	for i := range c.messages {
		if c.messages[i].ID == id {
			return i
		}
	}
	return -1
}
