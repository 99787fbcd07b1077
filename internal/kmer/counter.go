// internal/kmer/counter.go
package kmer

// Counter counts overlapping k-mer occurrences against a fixed column layout.
// It is read-only after NewCounter and safe to share between goroutines.
type Counter struct {
	kmers []string
	index map[string]int
	k     int
}

// NewCounter indexes kmers by column. All kmers must share one length.
func NewCounter(kmers []string) *Counter {
	c := &Counter{
		kmers: kmers,
		index: make(map[string]int, len(kmers)),
	}
	if len(kmers) > 0 {
		c.k = len(kmers[0])
	}
	for i, km := range kmers {
		if _, dup := c.index[km]; !dup {
			c.index[km] = i
		}
	}
	return c
}

// K is the window length.
func (c *Counter) K() int { return c.k }

// Kmers returns the column layout.
func (c *Counter) Kmers() []string { return c.kmers }

// Width is the number of feature columns.
func (c *Counter) Width() int { return len(c.kmers) }

// Count returns one count per column for seq. Matching is exact and
// case-sensitive; windows containing any other symbol (N, IUPAC codes,
// lowercase) match nothing. Sequences shorter than k give all zeros.
func (c *Counter) Count(seq []byte) []int {
	counts := make([]int, len(c.kmers))
	if c.k == 0 {
		return counts
	}
	for i := 0; i+c.k <= len(seq); i++ {
		if col, ok := c.index[string(seq[i:i+c.k])]; ok {
			counts[col]++
		}
	}
	return counts
}
