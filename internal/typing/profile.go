// internal/typing/profile.go
package typing

import (
	"fmt"
	"strings"
	"time"
)

// ProfileID names one of the built-in typing personalities.
type ProfileID string

const (
	ProfileNatural    ProfileID = "natural"
	ProfileFast       ProfileID = "fast"
	ProfileThoughtful ProfileID = "thoughtful"
	ProfileExcited    ProfileID = "excited"
	ProfileCasual     ProfileID = "casual"
)

// DefaultProfile is used when no personality is configured.
const DefaultProfile = ProfileNatural

// Profile holds the pacing and mistake parameters of a typing personality.
type Profile struct {
	ID          ProfileID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`

	// Pacing
	BaseSpeed        time.Duration `json:"base_speed"`
	SpeedVariation   time.Duration `json:"speed_variation"`
	PunctuationPause time.Duration `json:"punctuation_pause"`

	// Thinking pauses at word boundaries
	ThinkingPauseMin       time.Duration `json:"thinking_pause_min"`
	ThinkingPauseMax       time.Duration `json:"thinking_pause_max"`
	ThinkingPauseFrequency float64       `json:"thinking_pause_frequency"`

	// Corrections
	BackspaceFrequency float64       `json:"backspace_frequency"`
	BackspaceLength    int           `json:"backspace_length"`
	CorrectionPause    time.Duration `json:"correction_pause"`
	TypoFrequency      float64       `json:"typo_frequency"`
	TypoVisibilityTime time.Duration `json:"typo_visibility_time"`
}

const ms = time.Millisecond

// profileOrder fixes the listing order of the presets.
var profileOrder = []ProfileID{ProfileNatural, ProfileFast, ProfileThoughtful, ProfileExcited, ProfileCasual}

var profiles = map[ProfileID]Profile{
	ProfileNatural: {
		ID:                     ProfileNatural,
		Name:                   "Natural Human",
		Description:            "Balanced speed with occasional pauses and corrections",
		BaseSpeed:              80 * ms,
		SpeedVariation:         30 * ms,
		PunctuationPause:       400 * ms,
		ThinkingPauseMin:       700 * ms,
		ThinkingPauseMax:       1200 * ms,
		ThinkingPauseFrequency: 0.15,
		BackspaceFrequency:     0.08,
		BackspaceLength:        3,
		CorrectionPause:        300 * ms,
		TypoFrequency:          0.5,
		TypoVisibilityTime:     200 * ms,
	},
	ProfileFast: {
		ID:                     ProfileFast,
		Name:                   "Fast Typer",
		Description:            "Quick responses with minimal pauses",
		BaseSpeed:              50 * ms,
		SpeedVariation:         20 * ms,
		PunctuationPause:       200 * ms,
		ThinkingPauseMin:       400 * ms,
		ThinkingPauseMax:       800 * ms,
		ThinkingPauseFrequency: 0.05,
		BackspaceFrequency:     0.03,
		BackspaceLength:        2,
		CorrectionPause:        150 * ms,
		TypoFrequency:          0.3,
		TypoVisibilityTime:     150 * ms,
	},
	ProfileThoughtful: {
		ID:                     ProfileThoughtful,
		Name:                   "Thoughtful",
		Description:            "Slower, more deliberate typing with careful pauses",
		BaseSpeed:              120 * ms,
		SpeedVariation:         40 * ms,
		PunctuationPause:       600 * ms,
		ThinkingPauseMin:       1000 * ms,
		ThinkingPauseMax:       1500 * ms,
		ThinkingPauseFrequency: 0.25,
		BackspaceFrequency:     0.05,
		BackspaceLength:        4,
		CorrectionPause:        400 * ms,
		TypoFrequency:          0.2,
		TypoVisibilityTime:     250 * ms,
	},
	ProfileExcited: {
		ID:                     ProfileExcited,
		Name:                   "Excited",
		Description:            "Fast bursts with energetic punctuation pauses",
		BaseSpeed:              60 * ms,
		SpeedVariation:         35 * ms,
		PunctuationPause:       500 * ms,
		ThinkingPauseMin:       300 * ms,
		ThinkingPauseMax:       600 * ms,
		ThinkingPauseFrequency: 0.12,
		BackspaceFrequency:     0.10,
		BackspaceLength:        3,
		CorrectionPause:        200 * ms,
		TypoFrequency:          0.7,
		TypoVisibilityTime:     180 * ms,
	},
	ProfileCasual: {
		ID:                     ProfileCasual,
		Name:                   "Casual",
		Description:            "Relaxed pace with more corrections and natural flow",
		BaseSpeed:              90 * ms,
		SpeedVariation:         40 * ms,
		PunctuationPause:       450 * ms,
		ThinkingPauseMin:       600 * ms,
		ThinkingPauseMax:       1000 * ms,
		ThinkingPauseFrequency: 0.18,
		BackspaceFrequency:     0.12,
		BackspaceLength:        4,
		CorrectionPause:        350 * ms,
		TypoFrequency:          0.6,
		TypoVisibilityTime:     220 * ms,
	},
}

// ParseProfileID parses a raw string into a known ProfileID.
func ParseProfileID(raw string) (ProfileID, bool) {
	id := ProfileID(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := profiles[id]; !ok {
		return "", false
	}
	return id, true
}

// LookupProfile returns the preset registered under id.
func LookupProfile(id ProfileID) (Profile, bool) {
	p, ok := profiles[id]
	return p, ok
}

// MustProfile is like LookupProfile but falls back to the default personality.
func MustProfile(id ProfileID) Profile {
	if p, ok := profiles[id]; ok {
		return p
	}
	return profiles[DefaultProfile]
}

// Profiles returns every preset in a stable order.
func Profiles() []Profile {
	out := make([]Profile, 0, len(profileOrder))
	for _, id := range profileOrder {
		out = append(out, profiles[id])
	}
	return out
}

// Validate checks that probabilities and durations are within range.
func (p Profile) Validate() error {
	probs := map[string]float64{
		"thinking_pause_frequency": p.ThinkingPauseFrequency,
		"backspace_frequency":      p.BackspaceFrequency,
		"typo_frequency":           p.TypoFrequency,
	}
	for name, v := range probs {
		if v < 0 || v > 1 {
			return fmt.Errorf("profile %s: %s must be between 0.0 and 1.0", p.ID, name)
		}
	}
	durations := map[string]time.Duration{
		"base_speed":           p.BaseSpeed,
		"speed_variation":      p.SpeedVariation,
		"punctuation_pause":    p.PunctuationPause,
		"thinking_pause_min":   p.ThinkingPauseMin,
		"thinking_pause_max":   p.ThinkingPauseMax,
		"correction_pause":     p.CorrectionPause,
		"typo_visibility_time": p.TypoVisibilityTime,
	}
	for name, d := range durations {
		if d < 0 {
			return fmt.Errorf("profile %s: %s must not be negative", p.ID, name)
		}
	}
	if p.ThinkingPauseMin > p.ThinkingPauseMax {
		return fmt.Errorf("profile %s: thinking_pause_min exceeds thinking_pause_max", p.ID)
	}
	if p.BackspaceLength < 2 || p.BackspaceLength > 5 {
		return fmt.Errorf("profile %s: backspace_length must be between 2 and 5", p.ID)
	}
	return nil
}
