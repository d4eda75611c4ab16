// Package typewriter reveals text incrementally into a sink at a fixed
// per-character delay. It drives both the startup intro and every
// assistant reply.
package typewriter

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// Unit selects how text is cut into reveal steps.
type Unit int

const (
	// UnitGrapheme reveals one user-perceived character per step, so
	// combining marks, emoji sequences and CJK never render half-typed.
	UnitGrapheme Unit = iota
	// UnitRune reveals one code point per step.
	UnitRune
)

func (u Unit) String() string {
	switch u {
	case UnitRune:
		return "rune"
	default:
		return "grapheme"
	}
}

// ParseUnit maps a config value onto a Unit. Unknown values fall back to
// UnitGrapheme.
func ParseUnit(s string) Unit {
	if s == "rune" {
		return UnitRune
	}
	return UnitGrapheme
}

// Boundaries returns the byte offsets at which text may be cut, starting
// with 0 and ending with len(text). A text of N units yields N+1 offsets.
func Boundaries(text string, unit Unit) []int {
	offsets := make([]int, 1, len(text)+1)

	if unit == UnitRune {
		for i := range text {
			if i > 0 {
				offsets = append(offsets, i)
			}
		}
		if len(text) > 0 {
			offsets = append(offsets, len(text))
		}
		return offsets
	}

	g := uniseg.NewGraphemes(text)
	for g.Next() {
		_, end := g.Positions()
		offsets = append(offsets, end)
	}
	return offsets
}

// Split cuts text into its reveal units.
func Split(text string, unit Unit) []string {
	offsets := Boundaries(text, unit)
	parts := make([]string, 0, len(offsets)-1)
	for i := 1; i < len(offsets); i++ {
		parts = append(parts, text[offsets[i-1]:offsets[i]])
	}
	return parts
}

// Len reports how many reveal units text has.
func Len(text string, unit Unit) int {
	if unit == UnitRune {
		return utf8.RuneCountInString(text)
	}
	return uniseg.GraphemeClusterCount(text)
}
