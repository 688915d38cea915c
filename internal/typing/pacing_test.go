// internal/typing/pacing_test.go
package typing

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClampSpeedMultiplier(t *testing.T) {
	assert.Equal(t, 0.1, ClampSpeedMultiplier(0))
	assert.Equal(t, 0.1, ClampSpeedMultiplier(-4))
	assert.Equal(t, 3.0, ClampSpeedMultiplier(12))
	assert.Equal(t, 1.5, ClampSpeedMultiplier(1.5))
	assert.Equal(t, 1.0, ClampSpeedMultiplier(math.NaN()))

	p := NewPacer(MustProfile(ProfileNatural), 7, newScriptedRand(0.5))
	assert.Equal(t, 3.0, p.SpeedMultiplier())
	p.SetSpeedMultiplier(0.01)
	assert.Equal(t, 0.1, p.SpeedMultiplier())
}

func TestCharacterDelay(t *testing.T) {
	natural := MustProfile(ProfileNatural)

	t.Run("NoJitterAtMidpoint", func(t *testing.T) {
		p := NewPacer(natural, 1.0, newScriptedRand(0.5))
		assert.Equal(t, 80*time.Millisecond, p.CharacterDelay('a'))
	})

	t.Run("SpaceIsHalved", func(t *testing.T) {
		p := NewPacer(natural, 1.0, newScriptedRand(0.5))
		assert.Equal(t, 40*time.Millisecond, p.CharacterDelay(' '))
	})

	t.Run("LowestJitter", func(t *testing.T) {
		p := NewPacer(natural, 1.0, newScriptedRand(0))
		assert.Equal(t, 65*time.Millisecond, p.CharacterDelay('a'))
	})

	t.Run("SpeedMultiplierDivides", func(t *testing.T) {
		p := NewPacer(natural, 2.0, newScriptedRand(0.5))
		assert.Equal(t, 40*time.Millisecond, p.CharacterDelay('a'))
	})
}

func TestCharacterDelay_NeverBelowFloor(t *testing.T) {
	speeds := []float64{0.1, 0.5, 1.0, 2.0, 2.5, 3.0, 50}
	draws := []float64{0, 0.25, 0.5, 0.75, 0.999999}

	for _, profile := range Profiles() {
		for _, speed := range speeds {
			for _, draw := range draws {
				name := fmt.Sprintf("%s/x%.1f/r%.2f", profile.ID, speed, draw)
				p := NewPacer(profile, speed, newScriptedRand(draw))
				for _, r := range []rune{'a', ' ', '.', '\n'} {
					assert.GreaterOrEqual(t, p.CharacterDelay(r), 10*time.Millisecond, name)
				}
			}
		}
	}
}

func TestPunctuationPause(t *testing.T) {
	p := NewPacer(MustProfile(ProfileNatural), 1.0, newScriptedRand(0.5))

	base := MustProfile(ProfileNatural).PunctuationPause
	assert.Equal(t, 600*time.Millisecond, p.PunctuationPause('.'))
	assert.Equal(t, p.PunctuationPause('.'), p.PunctuationPause('!'))
	assert.Equal(t, p.PunctuationPause('.'), p.PunctuationPause('?'))
	assert.Equal(t, time.Duration(float64(base)*1.5), p.PunctuationPause('.'))

	for _, r := range []rune{',', ';', ':'} {
		assert.Equal(t, base, p.PunctuationPause(r))
	}
	for _, r := range []rune{'a', ' ', '\n', '-', '\''} {
		assert.Zero(t, p.PunctuationPause(r))
	}

	p.SetSpeedMultiplier(2.0)
	assert.Equal(t, 300*time.Millisecond, p.PunctuationPause('.'))
}

func TestShouldBackspace_EdgeWindows(t *testing.T) {
	const total = 40

	for _, profile := range Profiles() {
		rng := newScriptedRand(0) // every eligible draw succeeds
		p := NewPacer(profile, 1.0, rng)

		for pos := 0; pos < 5; pos++ {
			assert.False(t, p.ShouldBackspace(pos, total), "%s pos %d", profile.ID, pos)
		}
		for pos := total - 9; pos <= total; pos++ {
			assert.False(t, p.ShouldBackspace(pos, total), "%s pos %d", profile.ID, pos)
		}
		assert.Zero(t, rng.Calls(), "no randomness should be consumed near the edges")

		assert.True(t, p.ShouldBackspace(5, total))
		assert.True(t, p.ShouldBackspace(total-10, total))
	}

	// Short texts never qualify.
	p := NewPacer(MustProfile(ProfileCasual), 1.0, newScriptedRand(0))
	for pos := 0; pos <= 12; pos++ {
		assert.False(t, p.ShouldBackspace(pos, 12))
	}
}

func TestShouldBackspace_UsesFrequency(t *testing.T) {
	p := NewPacer(MustProfile(ProfileNatural), 1.0, newScriptedRand(0, 0.07, 0.08))
	assert.True(t, p.ShouldBackspace(10, 40))
	assert.False(t, p.ShouldBackspace(10, 40))
}

func TestBackspaceLength(t *testing.T) {
	tests := []struct {
		profile ProfileID
		draw    float64
		want    int
	}{
		{ProfileFast, 0.99, 2},
		{ProfileNatural, 0, 2},
		{ProfileNatural, 0.999, 2},
		{ProfileCasual, 0.4, 2},
		{ProfileCasual, 0.6, 3},
		{ProfileThoughtful, 0.99, 3},
	}
	for _, tt := range tests {
		p := NewPacer(MustProfile(tt.profile), 1.0, newScriptedRand(tt.draw))
		assert.Equal(t, tt.want, p.BackspaceLength(), "%s draw %.3f", tt.profile, tt.draw)
	}
}

func TestThinkingPause(t *testing.T) {
	p := NewPacer(MustProfile(ProfileNatural), 1.0, newScriptedRand(0.5))
	assert.Equal(t, 950*time.Millisecond, p.ThinkingPause())

	p = NewPacer(MustProfile(ProfileNatural), 0.5, newScriptedRand(0))
	assert.Equal(t, 1400*time.Millisecond, p.ThinkingPause())

	p = NewPacer(MustProfile(ProfileNatural), 1.0, newScriptedRand(0.1, 0.2))
	assert.True(t, p.ShouldAddThinkingPause())
	assert.False(t, p.ShouldAddThinkingPause())
}

func TestFixedPauses(t *testing.T) {
	p := NewPacer(MustProfile(ProfileThoughtful), 2.0, newScriptedRand(0.5))
	assert.Equal(t, 200*time.Millisecond, p.CorrectionPause())
	assert.Equal(t, 125*time.Millisecond, p.TypoVisibility())

	p.SetProfile(MustProfile(ProfileFast))
	assert.Equal(t, ProfileFast, p.Profile().ID)
	assert.Equal(t, 75*time.Millisecond, p.CorrectionPause())
}

func TestShouldMakeTypo(t *testing.T) {
	p := NewPacer(MustProfile(ProfileExcited), 1.0, newScriptedRand(0, 0.69, 0.7))
	assert.True(t, p.ShouldMakeTypo())
	assert.False(t, p.ShouldMakeTypo())
}

func TestWordAndSentenceBoundaries(t *testing.T) {
	assert.True(t, IsWordBoundary(' '))
	assert.True(t, IsWordBoundary('\n'))
	assert.False(t, IsWordBoundary('\t'))
	assert.False(t, IsWordBoundary('a'))

	text := []rune("Hi. Ok!")
	assert.True(t, IsSentenceEnd(text, 2))
	assert.True(t, IsSentenceEnd(text, 6))
	assert.False(t, IsSentenceEnd(text, 0))
	assert.False(t, IsSentenceEnd(text, 7))
	assert.False(t, IsSentenceEnd(text, -1))
}
