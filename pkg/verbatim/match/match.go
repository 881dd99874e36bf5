// Package match turns raw alignment chains into finalized match records:
// a printable two-sided rendering plus the counts downstream scoring uses.
package match

// SkippedNotComputed marks the skipped-character fields when padding was
// requested: context tokens blur what counts as in-span, so the gap counts
// are not computed.
const SkippedNotComputed = -1

// Match is the finalized view of one alignment chain.
type Match struct {
	// Text is the printable rendering: both sides with matched tokens
	// upper-cased, followed by a word/char count summary line.
	Text string
	// ShortText is exactly the matched model-output text.
	ShortText string
	// LongText is exactly the matched reference text.
	LongText string

	WordCount int
	CharCount int

	// SkippedShort and SkippedLong count fuzzy-gap characters inside the
	// matched span on each side, or SkippedNotComputed when padding > 0.
	SkippedShort int
	SkippedLong  int

	// Chapter is the 1-based reference chapter, -1 until assigned.
	Chapter int
}

// Filter inspects one rendered match. Returning true discards the record
// entirely; a filter may instead shrink the record in place, e.g. to subtract
// reference text the prompt already contained. Filters run strictly after the
// engine; alignment itself never consults them.
type Filter func(m *Match) bool

// Apply runs filter over records, dropping the ones it rejects. A nil filter
// keeps everything.
func Apply(records []Match, filter Filter) []Match {
	if filter == nil {
		return records
	}
	kept := records[:0]
	for i := range records {
		if filter(&records[i]) {
			continue
		}
		kept = append(kept, records[i])
	}
	return kept
}
