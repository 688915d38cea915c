// File: internal/config/typing_config.go
package config

import (
	"fmt"
	"math"
	"time"

	"github.com/spf13/viper"
	"github.com/xkilldash9x/typewriter/internal/typing"
)

// TypingConfig holds the playback settings shared by every session.
type TypingConfig struct {
	Personality         string        `mapstructure:"personality" yaml:"personality"`
	SpeedMultiplier     float64       `mapstructure:"speed_multiplier" yaml:"speed_multiplier"`
	AnimationsEnabled   bool          `mapstructure:"animations_enabled" yaml:"animations_enabled"`
	BackspaceInterval   time.Duration `mapstructure:"backspace_interval" yaml:"backspace_interval"`
	CursorBlinkInterval time.Duration `mapstructure:"cursor_blink_interval" yaml:"cursor_blink_interval"`
}

func setTypingDefaults(v *viper.Viper) {
	v.SetDefault("typing.personality", string(typing.DefaultProfile))
	v.SetDefault("typing.speed_multiplier", 1.0)
	v.SetDefault("typing.animations_enabled", true)
	v.SetDefault("typing.backspace_interval", typing.DefaultBackspaceInterval)
	v.SetDefault("typing.cursor_blink_interval", typing.DefaultCursorBlinkInterval)
}

// ProfileID resolves the configured personality.
func (t TypingConfig) ProfileID() (typing.ProfileID, bool) {
	return typing.ParseProfileID(t.Personality)
}

// Validate checks the typing section. Out-of-range speed multipliers are
// clamped by the engine, so only unusable values are rejected here.
func (t TypingConfig) Validate() error {
	if _, ok := t.ProfileID(); !ok {
		return fmt.Errorf("typing.personality %q is not a known personality", t.Personality)
	}
	if math.IsNaN(t.SpeedMultiplier) || t.SpeedMultiplier <= 0 {
		return fmt.Errorf("typing.speed_multiplier must be a positive number")
	}
	if t.BackspaceInterval <= 0 {
		return fmt.Errorf("typing.backspace_interval must be a positive duration")
	}
	if t.CursorBlinkInterval <= 0 {
		return fmt.Errorf("typing.cursor_blink_interval must be a positive duration")
	}
	return nil
}
