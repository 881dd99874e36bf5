package align

// Pair is one aligned token occurrence: an index into the candidate (short)
// sequence and an index into the reference (long) sequence.
type Pair struct {
	Short int
	Long  int
}

// Chain is one candidate alignment, grown by extending a predecessor one pair
// at a time. Nodes are persistent: extending never mutates the predecessor,
// so chains that branched from a common prefix share its nodes. The full pair
// sequence is only materialized when a match record is rendered.
type Chain struct {
	prev *Chain
	pair Pair
	size int
}

func extend(prev *Chain, short, long int) *Chain {
	size := 1
	if prev != nil {
		size = prev.size + 1
	}
	return &Chain{prev: prev, pair: Pair{Short: short, Long: long}, size: size}
}

// Len returns the number of aligned pairs in the chain.
func (c *Chain) Len() int { return c.size }

// First returns the earliest pair of the chain.
func (c *Chain) First() Pair {
	n := c
	for n.prev != nil {
		n = n.prev
	}
	return n.pair
}

// Last returns the most recent pair of the chain.
func (c *Chain) Last() Pair { return c.pair }

// fuzzyEligible reports whether the chain may accept a non-exact
// continuation: its two most recent pairs must be consecutive exact matches.
// A fresh chain is never eligible, so no chain starts with a fuzzy step and
// no chain takes two fuzzy steps in a row.
func (c *Chain) fuzzyEligible() bool {
	if c.size < 2 {
		return false
	}
	return c.pair.Short == c.prev.pair.Short+1 && c.pair.Long == c.prev.pair.Long+1
}

// predecessor returns the second-to-last pair, i.e. where the chain ended
// before its final extension.
func (c *Chain) predecessor() (Pair, bool) {
	if c.prev == nil {
		return Pair{}, false
	}
	return c.prev.pair, true
}

// Pairs materializes the full pair sequence in alignment order.
func (c *Chain) Pairs() []Pair {
	out := make([]Pair, c.size)
	i := c.size - 1
	for n := c; n != nil; n = n.prev {
		out[i] = n.pair
		i--
	}
	return out
}

func (c *Chain) pairSet() map[Pair]struct{} {
	set := make(map[Pair]struct{}, c.size)
	for n := c; n != nil; n = n.prev {
		set[n.pair] = struct{}{}
	}
	return set
}
