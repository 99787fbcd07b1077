// Package featurize turns sequences into k-mer count matrices in parallel.
//
// Sequences are split into consecutive groups of at most BatchSize. Each group
// is one job on the worker pool; the job gets its group and the shared,
// read-only Counter as arguments and fills its own slot of the result. Rows
// come back in input order regardless of how many workers run.
package featurize

import (
	"context"
	"io"

	"github.com/cheggaaa/pb/v3"
	"github.com/pkg/errors"

	"hitac/internal/kmer"
	"hitac/internal/pipeline"
)

// DefaultBatchSize bounds the number of sequences per job.
const DefaultBatchSize = 100

// Matrix is a feature matrix: one row per sequence, one column per k-mer.
type Matrix [][]int

// Config controls Compute.
type Config struct {
	Workers   int       // worker goroutines (<=0 means 1)
	BatchSize int       // sequences per job (<=0 means DefaultBatchSize)
	Cache     *Cache    // optional count cache for repeated sequences
	Progress  io.Writer // optional progress bar destination
}

// Group is a half-open index range [Start, End) into the input.
type Group struct {
	Start, End int
}

// Len is the number of sequences in the group.
func (g Group) Len() int { return g.End - g.Start }

// Partition splits n items into consecutive groups of at most size items.
// The last group may be smaller. n == 0 gives no groups.
func Partition(n, size int) []Group {
	if size <= 0 {
		size = DefaultBatchSize
	}
	groups := make([]Group, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		groups = append(groups, Group{Start: start, End: end})
	}
	return groups
}

// Compute counts k-mers for every sequence and returns the rows in input order.
// Any failing group fails the whole call.
func Compute(ctx context.Context, seqs [][]byte, c *kmer.Counter, cfg Config) (Matrix, error) {
	if c == nil || c.Width() == 0 {
		return nil, errors.New("featurize: empty k-mer set")
	}
	groups := Partition(len(seqs), cfg.BatchSize)
	parts := make([]Matrix, len(groups))

	var bar *pb.ProgressBar
	if cfg.Progress != nil {
		bar = pb.New(len(seqs))
		bar.SetWriter(cfg.Progress)
		bar.Start()
		defer bar.Finish()
	}

	err := pipeline.ForEach(ctx, pipeline.Config{Threads: cfg.Workers}, len(groups), func(ctx context.Context, gi int) error {
		g := groups[gi]
		part, err := countGroup(ctx, seqs[g.Start:g.End], c, cfg.Cache)
		if err != nil {
			return errors.Wrapf(err, "group %d (sequences %d-%d)", gi, g.Start, g.End-1)
		}
		parts[gi] = part
		if bar != nil {
			bar.Add(g.Len())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make(Matrix, 0, len(seqs))
	for _, part := range parts {
		out = append(out, part...)
	}
	return out, nil
}

func countGroup(ctx context.Context, group [][]byte, c *kmer.Counter, cache *Cache) (Matrix, error) {
	rows := make(Matrix, len(group))
	for i, seq := range group {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if cache != nil {
			if v, ok := cache.get(seq); ok {
				rows[i] = v
				continue
			}
		}
		rows[i] = c.Count(seq)
		if cache != nil {
			cache.add(seq, rows[i])
		}
	}
	return rows, nil
}
