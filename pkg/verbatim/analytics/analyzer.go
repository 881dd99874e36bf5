// Package analytics aggregates stored match records into per-book and
// per-prompt statistics.
package analytics

import (
	"context"
	"sort"

	"github.com/cognicore/verbatim/pkg/verbatim/store"
)

// Analyzer accumulates match statistics across books.
type Analyzer struct {
	books   map[string]*bookAgg
	prompts map[string]*promptAgg
}

type bookAgg struct {
	matches      int
	words        int
	highestChars int
	prompts      map[string]struct{}
}

type promptAgg struct {
	matches      int
	words        int
	highestChars int
	books        map[string]struct{}
}

// NewAnalyzer creates an empty analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		books:   make(map[string]*bookAgg),
		prompts: make(map[string]*promptAgg),
	}
}

// Process consumes one book's match rows.
func (a *Analyzer) Process(rows []store.MatchRow) {
	for _, m := range rows {
		b := a.books[m.BookID]
		if b == nil {
			b = &bookAgg{prompts: make(map[string]struct{})}
			a.books[m.BookID] = b
		}
		b.matches++
		b.words += m.WordCount
		if m.CharCount > b.highestChars {
			b.highestChars = m.CharCount
		}
		b.prompts[m.PromptID] = struct{}{}

		p := a.prompts[m.PromptID]
		if p == nil {
			p = &promptAgg{books: make(map[string]struct{})}
			a.prompts[m.PromptID] = p
		}
		p.matches++
		p.words += m.WordCount
		if m.CharCount > p.highestChars {
			p.highestChars = m.CharCount
		}
		p.books[m.BookID] = struct{}{}
	}
}

// BookStat summarizes matches found in one book.
type BookStat struct {
	BookID       string
	Matches      int
	MatchedWords int
	HighestChars int
	Prompts      int
}

// PromptStat summarizes matches produced by one prompt across books.
type PromptStat struct {
	PromptID     string
	Matches      int
	MatchedWords int
	HighestChars int
	Books        int
}

// Stats is a point-in-time snapshot of the aggregates, sorted by match count
// descending with ID as tiebreak.
type Stats struct {
	Books   []BookStat
	Prompts []PromptStat
}

// Snapshot returns the accumulated statistics.
func (a *Analyzer) Snapshot() Stats {
	var s Stats
	for id, b := range a.books {
		s.Books = append(s.Books, BookStat{
			BookID:       id,
			Matches:      b.matches,
			MatchedWords: b.words,
			HighestChars: b.highestChars,
			Prompts:      len(b.prompts),
		})
	}
	sort.Slice(s.Books, func(i, j int) bool {
		if s.Books[i].Matches != s.Books[j].Matches {
			return s.Books[i].Matches > s.Books[j].Matches
		}
		return s.Books[i].BookID < s.Books[j].BookID
	})

	for id, p := range a.prompts {
		s.Prompts = append(s.Prompts, PromptStat{
			PromptID:     id,
			Matches:      p.matches,
			MatchedWords: p.words,
			HighestChars: p.highestChars,
			Books:        len(p.books),
		})
	}
	sort.Slice(s.Prompts, func(i, j int) bool {
		if s.Prompts[i].Matches != s.Prompts[j].Matches {
			return s.Prompts[i].Matches > s.Prompts[j].Matches
		}
		return s.Prompts[i].PromptID < s.Prompts[j].PromptID
	})

	return s
}

// Collect runs the analyzer over every book in the store.
func Collect(ctx context.Context, st store.Store) (Stats, error) {
	a := NewAnalyzer()
	ids, err := st.BookIDs(ctx)
	if err != nil {
		return Stats{}, err
	}
	for _, id := range ids {
		rows, err := st.GetMatches(ctx, id)
		if err != nil {
			return Stats{}, err
		}
		a.Process(rows)
	}
	return a.Snapshot(), nil
}
