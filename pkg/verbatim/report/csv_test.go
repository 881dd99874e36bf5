package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/cognicore/verbatim/pkg/verbatim/match"
)

func TestFileName(t *testing.T) {
	got := FileName("results/gpt4", "publicdomain")
	if got != "results/gpt4_corpus=publicdomain.csv" {
		t.Errorf("FileName = %q", got)
	}
}

func TestWriteMatches(t *testing.T) {
	records := []MatchRecord{
		{
			BookID:   "mobydick",
			PromptID: "R01",
			Match: match.Match{
				WordCount: 9, CharCount: 44,
				SkippedShort: 2, SkippedLong: 0,
				Chapter: 3,
				Text:    "INPUT: CALL ME ISHMAEL\nREFER: CALL ME ISHMAEL\nWORDS:   3 CHARS:   14\n",
			},
		},
	}

	var buf bytes.Buffer
	if err := WriteMatches(&buf, records); err != nil {
		t.Fatalf("WriteMatches: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want header + 1", len(rows))
	}
	if rows[0][4] != "skipped_chars_model" || rows[0][5] != "skipped_chars_book" {
		t.Errorf("header = %v", rows[0])
	}
	got := rows[1]
	if got[0] != "mobydick" || got[1] != "R01" || got[2] != "9" || got[3] != "44" ||
		got[4] != "2" || got[5] != "0" || got[6] != "3" {
		t.Errorf("row = %v", got)
	}
	if !strings.Contains(got[7], "CALL ME ISHMAEL") {
		t.Errorf("match_text = %q", got[7])
	}
}

func TestWriteOutputs(t *testing.T) {
	records := []OutputRecord{
		{
			BookID:      "mobydick",
			PromptID:    "R01",
			ModelOutput: "Call me Ishmael. Some years ago...",
			FinalPrompt: "Complete the first sentence",
			Matches: []match.Match{
				{CharCount: 30, Text: "first"},
				{CharCount: 55, Text: "second"},
			},
		},
		{BookID: "mobydick", PromptID: "A1", ModelOutput: "no matches here"},
	}

	var buf bytes.Buffer
	if err := WriteOutputs(&buf, records); err != nil {
		t.Fatalf("WriteOutputs: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}

	byPrompt := map[string][]string{}
	for _, r := range rows[1:] {
		byPrompt[r[1]] = r
	}
	r01 := byPrompt["R01"]
	if r01 == nil {
		t.Fatal("R01 row missing")
	}
	if r01[2] != "" {
		t.Errorf("label column = %q, want empty", r01[2])
	}
	if r01[3] != "55" {
		t.Errorf("highest_char_count = %q, want 55", r01[3])
	}
	if r01[5] != "first\nsecond" {
		t.Errorf("matches = %q", r01[5])
	}
	a1 := byPrompt["A1"]
	if a1[3] != "0" || a1[5] != "" {
		t.Errorf("A1 row = %v", a1)
	}
}

func TestWriteOutputsShuffleIsDeterministic(t *testing.T) {
	var records []OutputRecord
	for _, id := range []string{"R01", "R02", "A1", "A6", "A7", "R18"} {
		records = append(records, OutputRecord{BookID: "dracula", PromptID: id})
	}

	var a, b bytes.Buffer
	if err := WriteOutputs(&a, records); err != nil {
		t.Fatal(err)
	}
	if err := WriteOutputs(&b, records); err != nil {
		t.Fatal(err)
	}
	if a.String() != b.String() {
		t.Error("shuffle not reproducible across writes")
	}
	if a.String() == "" {
		t.Fatal("empty output")
	}
}
