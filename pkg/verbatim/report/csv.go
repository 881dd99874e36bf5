// Package report writes match results as CSV, either one row per match for
// automatic evaluation or one row per model output for manual labelling.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"

	"github.com/cognicore/verbatim/pkg/verbatim/match"
)

// labelSeed fixes the labelling shuffle so the order is blind but
// reproducible across runs.
const labelSeed = 42

// MatchHeader is the column layout of the evaluation CSV.
var MatchHeader = []string{
	"book_id",
	"prompt_id",
	"word_count",
	"char_count",
	"skipped_chars_model",
	"skipped_chars_book",
	"chapter",
	"match_text",
}

// OutputHeader is the column layout of the labelling CSV. The label column
// is left empty for the human reviewer.
var OutputHeader = []string{
	"book_id",
	"prompt_id",
	"label",
	"highest_char_count",
	"model_output",
	"matches",
	"final_prompt",
}

// MatchRecord is one evaluation row.
type MatchRecord struct {
	BookID   string
	PromptID string
	Match    match.Match
}

// OutputRecord is one labelling row: a model output with all its matches.
type OutputRecord struct {
	BookID      string
	PromptID    string
	ModelOutput string
	FinalPrompt string
	Matches     []match.Match
}

// FileName builds the CSV file name for a base name and corpus.
func FileName(base, corpus string) string {
	return fmt.Sprintf("%s_corpus=%s.csv", base, corpus)
}

// WriteMatches writes the evaluation CSV: header plus one row per match, in
// input order.
func WriteMatches(w io.Writer, records []MatchRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(MatchHeader); err != nil {
		return err
	}
	for _, r := range records {
		m := r.Match
		row := []string{
			r.BookID,
			r.PromptID,
			strconv.Itoa(m.WordCount),
			strconv.Itoa(m.CharCount),
			strconv.Itoa(m.SkippedShort),
			strconv.Itoa(m.SkippedLong),
			strconv.Itoa(m.Chapter),
			m.Text,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteOutputs writes the labelling CSV: header plus one row per model
// output, shuffled with a fixed seed.
func WriteOutputs(w io.Writer, records []OutputRecord) error {
	shuffled := append([]OutputRecord(nil), records...)
	rng := rand.New(rand.NewSource(labelSeed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	cw := csv.NewWriter(w)
	if err := cw.Write(OutputHeader); err != nil {
		return err
	}
	for _, r := range shuffled {
		highest := 0
		texts := make([]string, 0, len(r.Matches))
		for _, m := range r.Matches {
			if m.CharCount > highest {
				highest = m.CharCount
			}
			texts = append(texts, m.Text)
		}
		row := []string{
			r.BookID,
			r.PromptID,
			"",
			strconv.Itoa(highest),
			r.ModelOutput,
			strings.Join(texts, "\n"),
			r.FinalPrompt,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
