// internal/typing/typo.go
package typing

import (
	"strings"
	"unicode"
)

// -- keyboardNeighbors maps lowercase letters to their adjacent keys on a QWERTY layout --
var keyboardNeighbors = map[rune]string{
	'q': "was", 'w': "qeasd", 'e': "wrsdf", 'r': "etdfg", 't': "ryfgh",
	'y': "tughj", 'u': "yihjk", 'i': "uojkl", 'o': "ipkl", 'p': "ol",
	'a': "qwsz", 's': "awedzx", 'd': "serfxc", 'f': "drtgcv", 'g': "ftyhvb",
	'h': "gyujbn", 'j': "huiknm", 'k': "jiolm", 'l': "kop",
	'z': "asx", 'x': "zsdc", 'c': "xdfv", 'v': "cfgb", 'b': "vghn", 'n': "bhjm", 'm': "njk",
}

// -- commonTranspositions lists digraphs that are often typed in swapped order --
var commonTranspositions = [...][2]string{
	{"th", "ht"},
	{"he", "eh"},
	{"in", "ni"},
	{"er", "re"},
	{"an", "na"},
	{"re", "er"},
	{"on", "no"},
	{"at", "ta"},
	{"en", "ne"},
	{"it", "ti"},
}

const fallbackLetters = "abcdefghijklmnopqrstuvwxyz"

const (
	// No typos inside the first and last typoEdgeMargin runes.
	typoEdgeMargin        = 3
	transpositionChance   = 0.3
	followUpTypoChance    = 0.5
	transpositionRuneSpan = 2
)

type typoKind int

const (
	typoAdjacent typoKind = iota
	typoDouble
	typoTranspose
	typoKindCount
)

// TypoSequence is the erroneous text typed during one correction event and
// the number of runes that must be erased afterwards.
type TypoSequence struct {
	Text           string
	BackspaceCount int
}

// pick returns a uniform index in [0, n).
func (p *Pacer) pick(n int) int {
	i := int(p.rng.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// GenerateTypoSequence produces the typo typed in place of target[pos:].
// It reports false when pos is too close to either end of the text.
func (p *Pacer) GenerateTypoSequence(target []rune, pos int) (TypoSequence, bool) {
	if pos < typoEdgeMargin || pos >= len(target)-typoEdgeMargin {
		return TypoSequence{}, false
	}

	length := min(p.BackspaceLength(), len(target)-pos)

	if length >= transpositionRuneSpan && p.rng.Float64() < transpositionChance {
		if swapped, ok := matchTransposition(target, pos); ok {
			return TypoSequence{Text: swapped, BackspaceCount: transpositionRuneSpan}, true
		}
	}

	var sb strings.Builder
	for i := 0; i < length; i++ {
		correct := target[pos+i]
		if i == 0 || p.rng.Float64() < followUpTypoChance {
			if typo := p.typoFor(correct); typo != "" {
				sb.WriteString(typo)
				continue
			}
		}
		sb.WriteRune(correct)
	}

	text := sb.String()
	return TypoSequence{Text: text, BackspaceCount: len([]rune(text))}, true
}

// matchTransposition swaps the two runes at pos when they form a common digraph,
// copying the case pattern of the original pair.
func matchTransposition(target []rune, pos int) (string, bool) {
	if pos < 0 || pos+transpositionRuneSpan > len(target) {
		return "", false
	}
	original := target[pos : pos+transpositionRuneSpan]
	digraph := strings.ToLower(string(original))
	for _, pair := range commonTranspositions {
		if digraph == pair[0] {
			return copyCase([]rune(pair[1]), original), true
		}
	}
	return "", false
}

// typoFor returns the erroneous text typed instead of r. An empty result
// means the chosen strategy produced nothing and r is typed unchanged.
func (p *Pacer) typoFor(r rune) string {
	switch typoKind(p.pick(int(typoKindCount))) {
	case typoAdjacent:
		neighbors, ok := keyboardNeighbors[unicode.ToLower(r)]
		if !ok || neighbors == "" {
			return string(fallbackLetters[p.pick(len(fallbackLetters))])
		}
		wrong := rune(neighbors[p.pick(len(neighbors))])
		if isUpperWithCase(r) {
			wrong = unicode.ToUpper(wrong)
		}
		return string(wrong)
	case typoDouble:
		return string([]rune{r, r})
	case typoTranspose:
		// A single rune has nothing to swap with.
		return ""
	}
	return string(r)
}

func isUpperWithCase(r rune) bool {
	return unicode.IsUpper(r) && unicode.ToLower(r) != r
}

// copyCase applies the case of each rune in original to the matching rune in typo.
func copyCase(typo, original []rune) string {
	out := make([]rune, 0, len(typo))
	for i := 0; i < len(typo) && i < len(original); i++ {
		if isUpperWithCase(original[i]) {
			out = append(out, unicode.ToUpper(typo[i]))
		} else {
			out = append(out, unicode.ToLower(typo[i]))
		}
	}
	return string(out)
}
