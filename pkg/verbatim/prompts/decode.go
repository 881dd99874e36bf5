package prompts

import (
	"fmt"
	"strings"

	"github.com/cognicore/verbatim/pkg/verbatim/match"
	"github.com/cognicore/verbatim/pkg/verbatim/normalize"
)

// Replacers for prompts that instruct the model to obfuscate original text.
var (
	decodeA1 = strings.NewReplacer("4", "a", "0", "o")
	decodeA7 = strings.NewReplacer("#", "the", "@", "a")
)

// Decode undoes prompt-specific obfuscation in raw model output before
// normalization, so that e.g. leetspeak reproductions still align with the
// reference text.
func Decode(promptID, text string) string {
	switch promptID {
	case "A1":
		return decodeA1.Replace(text)
	case "A6":
		return strings.ReplaceAll(text, "-", "")
	case "A7":
		return decodeA7.Replace(text)
	}
	return text
}

// knownSentenceKey names the metadata field a prompt quotes verbatim, if any.
func knownSentenceKey(promptID string) string {
	switch promptID {
	case "R01", "R02", "R01-1", "R02-1":
		return "first_sentence"
	case "R18":
		return "last_sentence"
	}
	return ""
}

// KnownTextFilter builds the per-match filter for one prompt and book. Some
// prompts quote a sentence of the book; a model repeating that sentence is
// not reproducing anything it was not given. A match fully inside the known
// sentence is dropped. A match that extends beyond it is kept but shrunk: the
// known text's length is subtracted from the counts and the printable text is
// annotated. Prompts that quote nothing get a nil filter (keep everything).
func KnownTextFilter(promptID string, meta map[string]string) match.Filter {
	key := knownSentenceKey(promptID)
	if key == "" {
		return nil
	}

	known := normalize.Tokens(meta[key])
	knownStr := strings.Join(known, " ")

	return func(m *match.Match) bool {
		if strings.Contains(knownStr, m.LongText) {
			return true
		}
		if strings.Contains(m.LongText, knownStr) {
			// Shrinking may undercount the reproduced span, never overcount.
			m.CharCount = maxInt(0, m.CharCount-len(knownStr))
			m.WordCount = maxInt(0, m.WordCount-len(known))
			m.Text += fmt.Sprintf("SHORTENED (%d) %s\n", len(knownStr), knownStr)
		}
		return false
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
