// File: internal/config/config_test.go
package config

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xkilldash9x/typewriter/internal/typing"
)

// -- Constructor and Defaults Tests --

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "info", cfg.Logger().Level)
	assert.Equal(t, "console", cfg.Logger().Format)
	assert.Equal(t, "typewriter", cfg.Logger().ServiceName)
	assert.Empty(t, cfg.Logger().LogFile)
	assert.Equal(t, "green", cfg.Logger().Colors.Info)

	assert.Equal(t, "natural", cfg.Typing().Personality)
	assert.Equal(t, 1.0, cfg.Typing().SpeedMultiplier)
	assert.True(t, cfg.Typing().AnimationsEnabled)
	assert.Equal(t, 50*time.Millisecond, cfg.Typing().BackspaceInterval)
	assert.Equal(t, 530*time.Millisecond, cfg.Typing().CursorBlinkInterval)

	assert.NoError(t, cfg.Validate(), "defaults must always validate")
}

// -- Validation Logic Tests --

func TestConfigValidation(t *testing.T) {
	t.Run("Logger Validation", func(t *testing.T) {
		valid := NewDefaultConfig().Logger()
		assert.NoError(t, valid.Validate())

		badLevel := valid
		badLevel.Level = "loud"
		err := badLevel.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "logger.level")

		badFormat := valid
		badFormat.Format = "xml"
		err = badFormat.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "logger.format must be one of console, json")

		negative := valid
		negative.MaxAge = -1
		assert.Error(t, negative.Validate())
	})

	t.Run("Typing Validation", func(t *testing.T) {
		valid := NewDefaultConfig().Typing()
		assert.NoError(t, valid.Validate())

		cases := []struct {
			name   string
			mutate func(*TypingConfig)
			want   string
		}{
			{"unknown personality", func(c *TypingConfig) { c.Personality = "robotic" }, "typing.personality \"robotic\" is not a known personality"},
			{"zero speed", func(c *TypingConfig) { c.SpeedMultiplier = 0 }, "typing.speed_multiplier must be a positive number"},
			{"negative speed", func(c *TypingConfig) { c.SpeedMultiplier = -2 }, "typing.speed_multiplier must be a positive number"},
			{"zero backspace interval", func(c *TypingConfig) { c.BackspaceInterval = 0 }, "typing.backspace_interval must be a positive duration"},
			{"zero blink interval", func(c *TypingConfig) { c.CursorBlinkInterval = 0 }, "typing.cursor_blink_interval must be a positive duration"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				cfg := valid
				tc.mutate(&cfg)
				err := cfg.Validate()
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.want)
			})
		}

		// The engine clamps large multipliers itself.
		fast := valid
		fast.SpeedMultiplier = 12
		assert.NoError(t, fast.Validate())
	})

	t.Run("Personality is case insensitive", func(t *testing.T) {
		cfg := NewDefaultConfig().Typing()
		cfg.Personality = "  Thoughtful "
		id, ok := cfg.ProfileID()
		require.True(t, ok)
		assert.Equal(t, typing.ProfileThoughtful, id)
	})
}

// -- Factory Function Tests --

func TestNewConfigFromViper(t *testing.T) {
	t.Run("Successful Load from YAML", func(t *testing.T) {
		yamlBytes := []byte(`
logger:
  level: debug
  format: json
typing:
  personality: excited
  speed_multiplier: 1.5
  backspace_interval: 80ms
`)
		v := viper.New()
		SetDefaults(v)
		v.SetConfigType("yaml")
		require.NoError(t, v.ReadConfig(bytes.NewBuffer(yamlBytes)))

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)

		assert.Equal(t, "debug", cfg.Logger().Level)
		assert.Equal(t, "json", cfg.Logger().Format)
		assert.Equal(t, "excited", cfg.Typing().Personality)
		assert.Equal(t, 1.5, cfg.Typing().SpeedMultiplier)
		assert.Equal(t, 80*time.Millisecond, cfg.Typing().BackspaceInterval)
		// Defaults fill whatever the file leaves out.
		assert.True(t, cfg.Typing().AnimationsEnabled)
		assert.Equal(t, 530*time.Millisecond, cfg.Typing().CursorBlinkInterval)
	})

	t.Run("Validation Failure", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set("typing.personality", "sleepy")

		cfg, err := NewConfigFromViper(v)
		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "invalid configuration")
		assert.Contains(t, err.Error(), "typing.personality")
	})

	t.Run("Environment Variable Binding", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.SetEnvPrefix("TYPEWRITER")
		v.SetEnvKeyReplacer(EnvKeyReplacer())
		v.AutomaticEnv()

		yamlConfig := []byte(`
typing:
  personality: casual
`)
		v.SetConfigType("yaml")
		require.NoError(t, v.ReadConfig(bytes.NewBuffer(yamlConfig)))

		t.Setenv("TYPEWRITER_TYPING_PERSONALITY", "fast")
		t.Setenv("TYPEWRITER_TYPING_ANIMATIONS_ENABLED", "false")

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)
		assert.Equal(t, "fast", cfg.Typing().Personality, "env overrides the config file")
		assert.False(t, cfg.Typing().AnimationsEnabled)
	})

	t.Run("Log File Home Expansion", func(t *testing.T) {
		home, err := homedir.Dir()
		if err != nil {
			t.Skipf("no home directory: %v", err)
		}
		v := viper.New()
		SetDefaults(v)
		v.Set("logger.log_file", "~/typewriter.log")

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "typewriter.log"), cfg.Logger().LogFile)
	})
}

func TestSetters(t *testing.T) {
	var cfg Interface = NewDefaultConfig()

	cfg.SetTypingPersonality("thoughtful")
	cfg.SetTypingSpeedMultiplier(2)
	cfg.SetTypingAnimationsEnabled(false)

	assert.Equal(t, "thoughtful", cfg.Typing().Personality)
	assert.Equal(t, 2.0, cfg.Typing().SpeedMultiplier)
	assert.False(t, cfg.Typing().AnimationsEnabled)
}
