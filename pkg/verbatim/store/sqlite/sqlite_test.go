package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/cognicore/verbatim/pkg/verbatim/store"
)

func openTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRunPersistence(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	run := store.Run{
		ID:        store.NewRunIDs().Next(),
		Provider:  "together",
		Model:     "llama-2-70b",
		Corpus:    "publicdomain",
		StartedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := s.CreateRun(ctx, run); err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	got, ok, err := s.GetRun(ctx, run.ID)
	if err != nil || !ok {
		t.Fatalf("GetRun: ok=%v err=%v", ok, err)
	}
	if got.Provider != "together" || !got.StartedAt.Equal(run.StartedAt) {
		t.Errorf("run mismatch: %+v", got)
	}

	if _, ok, _ := s.GetRun(ctx, "missing"); ok {
		t.Error("found nonexistent run")
	}
}

func TestInsertOutputIgnoresDuplicates(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	o := store.Output{BookID: "mobydick", PromptID: "R01", Text: "original", CreatedAt: time.Now()}
	inserted, err := s.InsertOutput(ctx, o)
	if err != nil || !inserted {
		t.Fatalf("first insert: inserted=%v err=%v", inserted, err)
	}

	o.Text = "replacement"
	inserted, err = s.InsertOutput(ctx, o)
	if err != nil {
		t.Fatalf("duplicate insert: %v", err)
	}
	if inserted {
		t.Error("duplicate insert reported true")
	}

	outs, err := s.GetOutputs(ctx, "mobydick")
	if err != nil {
		t.Fatalf("GetOutputs: %v", err)
	}
	if len(outs) != 1 || outs[0].Text != "original" {
		t.Errorf("stored output overwritten: %+v", outs)
	}
}

func TestReplaceMatchesRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rows := []store.MatchRow{
		{BookID: "mobydick", PromptID: "R01", Chapter: 1, WordCount: 9, CharCount: 44, SkippedShort: 2, SkippedLong: 0, Text: "INPUT: ...\nREFER: ...\n"},
		{BookID: "mobydick", PromptID: "R01", Chapter: 3, WordCount: 12, CharCount: 60, SkippedShort: -1, SkippedLong: -1},
	}
	if err := s.ReplaceMatches(ctx, "mobydick", "R01", rows); err != nil {
		t.Fatalf("ReplaceMatches: %v", err)
	}

	got, err := s.GetMatches(ctx, "mobydick")
	if err != nil {
		t.Fatalf("GetMatches: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2", len(got))
	}
	if got[0].Chapter != 1 || got[0].SkippedShort != 2 {
		t.Errorf("first row mismatch: %+v", got[0])
	}
	if got[1].SkippedLong != -1 {
		t.Errorf("sentinel not preserved: %+v", got[1])
	}

	// Re-running replaces wholesale.
	if err := s.ReplaceMatches(ctx, "mobydick", "R01", rows[:1]); err != nil {
		t.Fatal(err)
	}
	got, _ = s.GetMatches(ctx, "mobydick")
	if len(got) != 1 {
		t.Errorf("got %d rows after replace, want 1", len(got))
	}
}

func TestBookIDsDistinctSorted(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	s.ReplaceMatches(ctx, "mobydick", "R01", []store.MatchRow{{BookID: "mobydick", PromptID: "R01"}})
	s.ReplaceMatches(ctx, "dracula", "A1", []store.MatchRow{{BookID: "dracula", PromptID: "A1"}})
	s.ReplaceMatches(ctx, "mobydick", "A1", []store.MatchRow{{BookID: "mobydick", PromptID: "A1"}})

	ids, err := s.BookIDs(ctx)
	if err != nil {
		t.Fatalf("BookIDs: %v", err)
	}
	if len(ids) != 2 || ids[0] != "dracula" || ids[1] != "mobydick" {
		t.Errorf("BookIDs = %v", ids)
	}
}
