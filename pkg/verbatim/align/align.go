// Package align finds all maximal fuzzy-tolerant overlaps between a candidate
// token sequence (a model output) and a reference token sequence (one book
// chapter). The tolerance budget is deliberately tight: a chain may absorb a
// single skipped or substituted token only between runs of exact matches.
package align

import "sort"

// frontier records, per scanned short index, which chain currently ends at
// each long index. Continuation rules only ever consult the two most recent
// layers, so the structure is a bounded-lookback stand-in for a full
// alignment matrix.
type frontier struct {
	layers []map[int]*Chain
}

// add processes the next short index. longIdxs holds the ascending long
// indices whose token equals the current short token. For each candidate the
// first matching rule wins:
//
//  1. exact continuation from (i-1, j-1)
//  2. skip one token in short, from (i-2, j-2)
//  3. skip one token in long, from (i-1, j-2)
//  4. substitution, from (i-2, j-1)
//  5. start a new length-1 chain
//
// Rules 2-4 require the predecessor to be fuzzy-eligible.
func (f *frontier) add(longIdxs []int) {
	var prev, pprev map[int]*Chain
	if n := len(f.layers); n > 0 {
		prev = f.layers[n-1]
	}
	if n := len(f.layers); n > 1 {
		pprev = f.layers[n-2]
	}

	shortIdx := len(f.layers)
	current := make(map[int]*Chain, len(longIdxs))

	for _, j := range longIdxs {
		switch {
		case prev[j-1] != nil:
			current[j] = extend(prev[j-1], shortIdx, j)
			// An exact continuation consumes its predecessor so a weaker
			// rule cannot also claim it for another long index this layer.
			delete(prev, j-1)
		case pprev[j-2] != nil && pprev[j-2].fuzzyEligible():
			current[j] = extend(pprev[j-2], shortIdx, j)
		case prev[j-2] != nil && prev[j-2].fuzzyEligible():
			current[j] = extend(prev[j-2], shortIdx, j)
		case pprev[j-1] != nil && pprev[j-1].fuzzyEligible():
			current[j] = extend(pprev[j-1], shortIdx, j)
		default:
			current[j] = extend(nil, shortIdx, j)
		}
	}

	f.layers = append(f.layers, current)
}

// prune drops chains shorter than minLength, then removes each survivor's
// immediate predecessor pair from the layer it came from. Without the second
// step an orphaned prefix would later read as an independently valid chain.
func (f *frontier) prune(minLength int) {
	for _, layer := range f.layers {
		for j, c := range layer {
			if c.Len() < minLength {
				delete(layer, j)
			}
		}
		for _, c := range layer {
			if p, ok := c.predecessor(); ok {
				delete(f.layers[p.Short], p.Long)
			}
		}
	}
}

// chains collects every surviving chain, layer by layer with ascending long
// indices inside a layer. That matches the insertion order chains were
// created in and keeps output deterministic.
func (f *frontier) chains() []*Chain {
	var out []*Chain
	for _, layer := range f.layers {
		keys := make([]int, 0, len(layer))
		for j := range layer {
			keys = append(keys, j)
		}
		sort.Ints(keys)
		for _, j := range keys {
			out = append(out, layer[j])
		}
	}
	return out
}

// dedupe discards any chain whose pair set is a proper subset of another
// surviving chain's pair set. Quadratic, which is fine at book-chapter scale.
func dedupe(chains []*Chain) []*Chain {
	sets := make([]map[Pair]struct{}, len(chains))
	for i, c := range chains {
		sets[i] = c.pairSet()
	}

	out := make([]*Chain, 0, len(chains))
	for i, c := range chains {
		subsumed := false
		for k, other := range chains {
			if other.Len() <= c.Len() {
				continue
			}
			if isSubset(sets[i], sets[k]) {
				subsumed = true
				break
			}
		}
		if !subsumed {
			out = append(out, c)
		}
	}
	return out
}

func isSubset(a, b map[Pair]struct{}) bool {
	for p := range a {
		if _, ok := b[p]; !ok {
			return false
		}
	}
	return true
}

// Align finds all fuzzy-tolerant matching chains between short and long with
// at least minLength aligned pairs. It is deterministic, performs no I/O and
// keeps no state between calls; distinct invocations may run concurrently.
//
// Candidate positions come from a token-to-indices lookup over short, so a
// token occurring very frequently in long fans out over every occurrence.
// There is no frequency cap; degenerate inputs degrade gracefully in time,
// not correctness.
func Align(short, long []string, minLength int) []*Chain {
	wordIndex := make(map[string][]int, len(short))
	for i, w := range short {
		wordIndex[w] = append(wordIndex[w], i)
	}

	matching := make([][]int, len(short))
	for j, w := range long {
		for _, i := range wordIndex[w] {
			matching[i] = append(matching[i], j)
		}
	}

	var f frontier
	for _, js := range matching {
		f.add(js)
	}
	f.prune(minLength)

	return dedupe(f.chains())
}
