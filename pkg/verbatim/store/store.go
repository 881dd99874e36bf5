// Package store defines persistence for query runs, raw model outputs and
// match records.
package store

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// Store is the main interface for persisting and querying matcher data.
type Store interface {
	Close() error

	// Runs
	CreateRun(ctx context.Context, r Run) error
	GetRun(ctx context.Context, id string) (Run, bool, error)

	// Raw model outputs. InsertOutput is insert-if-absent on
	// (book_id, prompt_id): a duplicate reports false and leaves the stored
	// record untouched, so replayed requests cannot overwrite earlier ones.
	InsertOutput(ctx context.Context, o Output) (bool, error)
	GetOutputs(ctx context.Context, bookID string) ([]Output, error)

	// Match records. ReplaceMatches swaps the stored matches for one
	// (book, prompt) atomically, since re-running the matcher regenerates
	// them wholesale.
	ReplaceMatches(ctx context.Context, bookID, promptID string, rows []MatchRow) error
	GetMatches(ctx context.Context, bookID string) ([]MatchRow, error)
	BookIDs(ctx context.Context) ([]string, error)
}

// Run is one invocation of the query tool.
type Run struct {
	ID        string // ULID
	Provider  string
	Model     string
	Corpus    string
	StartedAt time.Time
}

// Output is one stored model response.
type Output struct {
	RunID       string
	BookID      string
	PromptID    string
	Prompt      string
	FinalPrompt string
	Text        string
	CreatedAt   time.Time
}

// MatchRow is one persisted match record.
type MatchRow struct {
	BookID       string
	PromptID     string
	Chapter      int
	WordCount    int
	CharCount    int
	SkippedShort int
	SkippedLong  int
	Text         string
}

// RunIDs mints lexically sortable run identifiers.
type RunIDs struct {
	entropy *ulid.MonotonicEntropy
}

// NewRunIDs creates a run ID source.
func NewRunIDs() *RunIDs {
	return &RunIDs{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// Next returns a fresh run ID.
func (r *RunIDs) Next() string {
	return ulid.MustNew(ulid.Now(), r.entropy).String()
}
