package match

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/cognicore/verbatim/pkg/verbatim/align"
)

// Render produces the match record for one chain. The matched span runs from
// the chain's first pair to its last, inclusive; padding extends the rendered
// context by that many tokens on each side, clamped to the sequence bounds.
//
// Both sides are rendered by the same routine, so the upper-cased character
// counts of the short and long side agree by construction; CharCount is read
// off the short side only.
func Render(c *align.Chain, short, long []string, padding int) Match {
	first := c.First()
	last := c.Last()

	shortStart := maxInt(0, first.Short-padding)
	longStart := maxInt(0, first.Long-padding)
	shortEnd := minInt(len(short), last.Short+padding+1)
	longEnd := minInt(len(long), last.Long+padding+1)

	shortText := strings.Join(short[first.Short:last.Short+1], " ")
	longText := strings.Join(long[first.Long:last.Long+1], " ")

	shortSet := make(map[int]struct{}, c.Len())
	longSet := make(map[int]struct{}, c.Len())
	for _, p := range c.Pairs() {
		shortSet[p.Short] = struct{}{}
		longSet[p.Long] = struct{}{}
	}

	shortSide := renderSide(short[shortStart:shortEnd], shortStart, shortSet)
	longSide := renderSide(long[longStart:longEnd], longStart, longSet)

	wordCount := c.Len()
	charCount := countUpper(shortSide)

	skippedShort := SkippedNotComputed
	skippedLong := SkippedNotComputed
	if padding == 0 {
		skippedShort = countLower(shortSide)
		skippedLong = countLower(longSide)
	}

	// Inter-word spaces of the matched span count toward the reproduced
	// character total.
	charCount += wordCount - 1

	text := fmt.Sprintf("INPUT: %s\nREFER: %s\nWORDS: %3d CHARS: %4d\n",
		shortSide, longSide, wordCount, charCount)

	return Match{
		Text:         text,
		ShortText:    shortText,
		LongText:     longText,
		WordCount:    wordCount,
		CharCount:    charCount,
		SkippedShort: skippedShort,
		SkippedLong:  skippedLong,
		Chapter:      -1,
	}
}

// renderSide joins the context window with single spaces, upper-casing the
// tokens at matched positions. offset is the sequence index of window[0].
func renderSide(window []string, offset int, matched map[int]struct{}) string {
	parts := make([]string, len(window))
	for k, tok := range window {
		if _, ok := matched[offset+k]; ok {
			parts[k] = strings.ToUpper(tok)
		} else {
			parts[k] = tok
		}
	}
	return strings.Join(parts, " ")
}

func countUpper(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsUpper(r) {
			n++
		}
	}
	return n
}

func countLower(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLower(r) {
			n++
		}
	}
	return n
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
