// internal/typing/pacing.go
package typing

import (
	"math"
	"time"
)

const (
	// MinSpeedMultiplier and MaxSpeedMultiplier bound the user-facing speed scalar.
	MinSpeedMultiplier = 0.1
	MaxSpeedMultiplier = 3.0

	minCharacterDelay = 10 * time.Millisecond

	// sentenceEndWeight scales the punctuation pause after a sentence terminator.
	sentenceEndWeight = 1.5
	// No corrections inside the leading and trailing windows of the text.
	backspaceLeadIn  = 5
	backspaceTrailer = 10
)

// Rand is the random source consulted for every probabilistic decision.
// *math/rand/v2.Rand satisfies it. Those are not safe for concurrent use,
// so every session needs a source of its own.
type Rand interface {
	Float64() float64
}

// Pacer computes delays and correction decisions for a personality.
// It is not safe for concurrent use; a session owns exactly one.
type Pacer struct {
	profile         Profile
	speedMultiplier float64
	rng             Rand
}

// NewPacer binds a profile and speed multiplier to a random source.
func NewPacer(profile Profile, speedMultiplier float64, rng Rand) *Pacer {
	return &Pacer{
		profile:         profile,
		speedMultiplier: ClampSpeedMultiplier(speedMultiplier),
		rng:             rng,
	}
}

// ClampSpeedMultiplier restricts m to [MinSpeedMultiplier, MaxSpeedMultiplier].
func ClampSpeedMultiplier(m float64) float64 {
	if math.IsNaN(m) {
		return 1.0
	}
	return math.Max(MinSpeedMultiplier, math.Min(MaxSpeedMultiplier, m))
}

func (p *Pacer) Profile() Profile         { return p.profile }
func (p *Pacer) SpeedMultiplier() float64 { return p.speedMultiplier }

// SetProfile swaps the personality used for subsequent decisions.
func (p *Pacer) SetProfile(profile Profile) { p.profile = profile }

// SetSpeedMultiplier updates the speed scalar, clamping it to the valid range.
func (p *Pacer) SetSpeedMultiplier(m float64) { p.speedMultiplier = ClampSpeedMultiplier(m) }

// scale divides a duration expressed in (fractional) milliseconds by the speed multiplier.
func (p *Pacer) scale(msec float64) time.Duration {
	return time.Duration(msec / p.speedMultiplier * float64(time.Millisecond))
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// CharacterDelay is the pause after typing r.
func (p *Pacer) CharacterDelay(r rune) time.Duration {
	delay := millis(p.profile.BaseSpeed)
	if r == ' ' {
		delay *= 0.5
	}
	variation := millis(p.profile.SpeedVariation)
	delay += p.rng.Float64()*variation - variation/2

	d := p.scale(delay)
	if d < minCharacterDelay {
		return minCharacterDelay
	}
	return d
}

// PunctuationPause is the extra pause after r, or zero when r is not punctuation.
func (p *Pacer) PunctuationPause(r rune) time.Duration {
	switch r {
	case '.', '!', '?':
		return p.scale(millis(p.profile.PunctuationPause) * sentenceEndWeight)
	case ',', ';', ':':
		return p.scale(millis(p.profile.PunctuationPause))
	default:
		return 0
	}
}

// IsWordBoundary reports whether r separates words.
func IsWordBoundary(r rune) bool {
	return r == ' ' || r == '\n'
}

// IsSentenceEnd reports whether text[pos] terminates a sentence.
func IsSentenceEnd(text []rune, pos int) bool {
	if pos < 0 || pos >= len(text) {
		return false
	}
	switch text[pos] {
	case '.', '!', '?':
		return true
	}
	return false
}

func (p *Pacer) chance(probability float64) bool {
	return p.rng.Float64() < probability
}

// ShouldAddThinkingPause decides whether to pause at a word boundary.
func (p *Pacer) ShouldAddThinkingPause() bool {
	return p.chance(p.profile.ThinkingPauseFrequency)
}

// ThinkingPause draws a thinking pause uniformly from the profile's range.
func (p *Pacer) ThinkingPause() time.Duration {
	lo := millis(p.profile.ThinkingPauseMin)
	hi := millis(p.profile.ThinkingPauseMax)
	return p.scale(lo + p.rng.Float64()*(hi-lo))
}

// ShouldBackspace decides whether a correction happens at pos.
// Positions near either end of the text never trigger one.
func (p *Pacer) ShouldBackspace(pos, total int) bool {
	if pos < backspaceLeadIn || pos > total-backspaceTrailer {
		return false
	}
	return p.chance(p.profile.BackspaceFrequency)
}

// BackspaceLength draws how many runes a correction spans.
func (p *Pacer) BackspaceLength() int {
	return int(math.Floor(2 + p.rng.Float64()*float64(p.profile.BackspaceLength-2)))
}

// CorrectionPause is the pause after a backspace run completes.
func (p *Pacer) CorrectionPause() time.Duration {
	return p.scale(millis(p.profile.CorrectionPause))
}

// ShouldMakeTypo decides whether a correction shows a visible typo first.
func (p *Pacer) ShouldMakeTypo() bool {
	return p.chance(p.profile.TypoFrequency)
}

// TypoVisibility is how long a typo stays on screen before it is erased.
func (p *Pacer) TypoVisibility() time.Duration {
	return p.scale(millis(p.profile.TypoVisibilityTime))
}
