// Package memstore provides an in-memory store.Store for tests and
// short-lived tooling.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/cognicore/verbatim/pkg/verbatim/store"
)

type outputKey struct {
	bookID   string
	promptID string
}

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu      sync.RWMutex
	runs    map[string]store.Run
	outputs map[outputKey]store.Output
	matches map[outputKey][]store.MatchRow
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		runs:    make(map[string]store.Run),
		outputs: make(map[outputKey]store.Output),
		matches: make(map[outputKey][]store.MatchRow),
	}
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error { return nil }

func (s *Store) CreateRun(_ context.Context, r store.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[r.ID] = r
	return nil
}

func (s *Store) GetRun(_ context.Context, id string) (store.Run, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.runs[id]
	return r, ok, nil
}

func (s *Store) InsertOutput(_ context.Context, o store.Output) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := outputKey{o.BookID, o.PromptID}
	if _, exists := s.outputs[k]; exists {
		return false, nil
	}
	s.outputs[k] = o
	return true, nil
}

func (s *Store) GetOutputs(_ context.Context, bookID string) ([]store.Output, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []store.Output
	for k, o := range s.outputs {
		if k.bookID == bookID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PromptID < out[j].PromptID })
	return out, nil
}

func (s *Store) ReplaceMatches(_ context.Context, bookID, promptID string, rows []store.MatchRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := outputKey{bookID, promptID}
	if len(rows) == 0 {
		delete(s.matches, k)
		return nil
	}
	s.matches[k] = append([]store.MatchRow(nil), rows...)
	return nil
}

func (s *Store) GetMatches(_ context.Context, bookID string) ([]store.MatchRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []outputKey
	for k := range s.matches {
		if k.bookID == bookID {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].promptID < keys[j].promptID })

	var out []store.MatchRow
	for _, k := range keys {
		out = append(out, s.matches[k]...)
	}
	return out, nil
}

func (s *Store) BookIDs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var ids []string
	for k := range s.matches {
		if !seen[k.bookID] {
			seen[k.bookID] = true
			ids = append(ids, k.bookID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}
