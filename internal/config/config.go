// File: internal/config/config.go
package config

import (
	"fmt"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Typing() TypingConfig

	// Typing Setters
	SetTypingPersonality(string)
	SetTypingSpeedMultiplier(float64)
	SetTypingAnimationsEnabled(bool)
}

// Config holds the entire application configuration.
// It uses private fields to enforce access through the Interface's getter methods.
type Config struct {
	logger LoggerConfig
	typing TypingConfig
}

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig { return c.logger }
func (c *Config) Typing() TypingConfig { return c.typing }

// --- Interface Method Implementations (Setters) ---

func (c *Config) SetTypingPersonality(p string)      { c.typing.Personality = p }
func (c *Config) SetTypingSpeedMultiplier(m float64) { c.typing.SpeedMultiplier = m }
func (c *Config) SetTypingAnimationsEnabled(b bool)  { c.typing.AnimationsEnabled = b }

// LoggerConfig defines the configuration for the zap logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color names for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// Validate checks the logger section.
func (l LoggerConfig) Validate() error {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return fmt.Errorf("logger.level %q is not a valid level", l.Level)
	}
	switch l.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logger.format must be one of console, json (got %q)", l.Format)
	}
	if l.MaxSize < 0 || l.MaxBackups < 0 || l.MaxAge < 0 {
		return fmt.Errorf("logger.max_size, logger.max_backups and logger.max_age must not be negative")
	}
	return nil
}

// NewDefaultConfig creates a configuration populated only with defaults.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	cfg, err := unmarshal(v)
	if err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return cfg
}

// SetDefaults registers every default value with v.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "typewriter")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")

	// -- Typing --
	setTypingDefaults(v)
}

// NewConfigFromViper builds and validates a Config from everything v has loaded.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	cfg, err := unmarshal(v)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// sections mirrors Config with exported fields so viper can decode into it.
type sections struct {
	Logger LoggerConfig `mapstructure:"logger"`
	Typing TypingConfig `mapstructure:"typing"`
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var raw sections
	if err := v.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg := &Config{logger: raw.Logger, typing: raw.Typing}

	if strings.HasPrefix(cfg.logger.LogFile, "~") {
		expanded, err := homedir.Expand(cfg.logger.LogFile)
		if err != nil {
			return nil, fmt.Errorf("error expanding logger.log_file: %w", err)
		}
		cfg.logger.LogFile = expanded
	}
	return cfg, nil
}

// EnvKeyReplacer maps nested keys such as typing.speed_multiplier onto
// environment variable names (TYPEWRITER_TYPING_SPEED_MULTIPLIER).
func EnvKeyReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_")
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.logger.Validate(); err != nil {
		return err
	}
	if err := c.typing.Validate(); err != nil {
		return err
	}
	return nil
}
