// Package verbatim detects near-verbatim overlap between model outputs and a
// reference book, tolerating one skipped or substituted token between runs of
// exact matches. It drives the alignment engine chapter by chapter and tags
// every match with the chapter it occurred in.
package verbatim

import (
	"github.com/cognicore/verbatim/pkg/verbatim/align"
	"github.com/cognicore/verbatim/pkg/verbatim/match"
)

// Default minimum match lengths, in words. Below five words almost everything
// matches some stretch of a book, so manual review is the floor.
const (
	// DefaultMinLength is the threshold for automated scoring.
	DefaultMinLength = 8
	// ReviewMinLength is the threshold when preparing output for manual
	// labelling.
	ReviewMinLength = 5
)

// FindMatches runs the alignment engine against every chapter and
// concatenates the rendered matches in chapter order. Chapters are numbered
// from 1. Within a chapter, matches keep the order the engine emitted them
// in; that order carries no meaning but is stable across runs.
//
// Empty inputs yield no matches. The function performs no I/O and shares no
// state between calls, so distinct (output, chapters) invocations may run
// concurrently without coordination.
func FindMatches(short []string, chapters [][]string, minLength, padding int) []match.Match {
	var all []match.Match
	for idx, chapter := range chapters {
		for _, chain := range align.Align(short, chapter, minLength) {
			m := match.Render(chain, short, chapter, padding)
			m.Chapter = idx + 1
			all = append(all, m)
		}
	}
	return all
}
