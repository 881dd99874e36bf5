// Package normalize turns raw text into the canonical token sequence the
// alignment engine operates on. Reference chapters and model outputs go
// through exactly the same steps, so a verbatim reproduction survives
// normalization as an identical token run.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Apostrophes and closing/opening double quotes are removed outright, before
// any punctuation handling, so contractions collapse ("don’t" -> "dont")
// instead of splitting into two tokens.
var quoteStripper = strings.NewReplacer("’", "", "'", "", "”", "", "“", "")

// asciiFold maps characters that canonical decomposition alone does not
// reduce to an ASCII form.
var asciiFold = strings.NewReplacer(
	"‘", "'", "‚", ",", "„", ",",
	"–", "-", "—", "-", "…", "...",
	"ß", "ss", "ẞ", "SS",
	"æ", "ae", "Æ", "AE",
	"œ", "oe", "Œ", "OE",
	"ð", "d", "Ð", "D",
	"þ", "th", "Þ", "Th",
	"ø", "o", "Ø", "O",
	"ł", "l", "Ł", "L",
	"đ", "d", "Đ", "D",
	"ı", "i",
)

// stripMarks removes combining marks after canonical decomposition, reducing
// accented letters to their base form ("café" -> "cafe").
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

const asciiPunct = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Tokens normalizes raw text into an ordered token sequence. The step order
// is significant: strip quote characters, fold to ASCII, replace punctuation
// and whitespace with a separator, lowercase, split and drop empties.
func Tokens(s string) []string {
	s = quoteStripper.Replace(s)
	s = asciiFold.Replace(s)
	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r < 128 && strings.ContainsRune(asciiPunct, r):
			b.WriteByte(' ')
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		case r > 127:
			// Anything the fold tables could not reduce acts as a separator,
			// the same as punctuation.
			b.WriteByte(' ')
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}

	return strings.Fields(b.String())
}
