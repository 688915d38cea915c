package chat

import (
	"time"

	"github.com/xkilldash9x/typewriter/internal/config"
	"github.com/xkilldash9x/typewriter/internal/typing"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Status tracks an assistant message from streaming through playback.
// User messages carry no status.
type Status string

const (
	StatusNone           Status = ""
	StatusStreaming      Status = "streaming"
	StatusReadyToAnimate Status = "ready_to_animate"
	StatusAnimating      Status = "animating"
	StatusComplete       Status = "complete"
)

// Message is one entry of a conversation.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Status    Status    `json:"status,omitempty"`
}

// Settings are the playback preferences applied to each animated message.
type Settings struct {
	Personality       typing.ProfileID
	SpeedMultiplier   float64
	AnimationsEnabled bool

	BackspaceInterval   time.Duration
	CursorBlinkInterval time.Duration
}

// SettingsFromConfig derives playback settings from the typing section.
// An unknown personality is passed through so the session can log its fallback.
func SettingsFromConfig(cfg config.TypingConfig) Settings {
	id, ok := cfg.ProfileID()
	if !ok {
		id = typing.ProfileID(cfg.Personality)
	}
	return Settings{
		Personality:         id,
		SpeedMultiplier:     typing.ClampSpeedMultiplier(cfg.SpeedMultiplier),
		AnimationsEnabled:   cfg.AnimationsEnabled,
		BackspaceInterval:   cfg.BackspaceInterval,
		CursorBlinkInterval: cfg.CursorBlinkInterval,
	}
}
