// internal/classifier/perlevel.go
package classifier

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"hitac/internal/featurize"
	"hitac/internal/pipeline"
	"hitac/internal/taxonomy"
)

// PerLevel is a local classifier per level (rank). Level d is trained on
// labels qualified by their ancestors, so equal names under different
// parents stay distinct classes.
type PerLevel struct {
	Depth  int
	Levels []*NaiveBayes

	opts Options
}

// NewPerLevel returns an unfitted classifier.
func NewPerLevel(o Options) *PerLevel {
	return &PerLevel{opts: o}
}

// SetOptions replaces the runtime options, e.g. after loading from disk.
func (c *PerLevel) SetOptions(o Options) { c.opts = o }

// Fit trains one local model per rank.
func (c *PerLevel) Fit(ctx context.Context, X featurize.Matrix, Y []taxonomy.Path) error {
	depth, err := checkTraining(X, Y)
	if err != nil {
		return err
	}
	levels := make([]*NaiveBayes, depth)
	err = pipeline.ForEach(ctx, pipeline.Config{Threads: c.opts.Threads}, depth, func(ctx context.Context, d int) error {
		y := make([]string, len(Y))
		for r, p := range Y {
			y[r] = join(p[:d+1])
		}
		m, err := fitLocal("level"+Separator+strconv.Itoa(d), X, nil, y, c.opts)
		if err != nil {
			return errors.Wrapf(err, "level %d", d)
		}
		levels[d] = m
		return nil
	})
	if err != nil {
		return err
	}
	c.Depth = depth
	c.Levels = levels
	return nil
}

// Classes returns, per rank, the labels in probability-column order with the
// ancestor qualification removed.
func (c *PerLevel) Classes() [][]string {
	out := make([][]string, len(c.Levels))
	for d, m := range c.Levels {
		labels := make([]string, len(m.Classes))
		for i, l := range m.Classes {
			labels[i] = lastComponent(l)
		}
		out[d] = labels
	}
	return out
}

// Parents returns, per rank, the column of each class's parent at the rank
// above. Rank 0 has no parents and gets nil.
func (c *PerLevel) Parents() [][]int {
	out := make([][]int, len(c.Levels))
	for d := 1; d < len(c.Levels); d++ {
		above := make(map[string]int, len(c.Levels[d-1].Classes))
		for col, l := range c.Levels[d-1].Classes {
			above[l] = col
		}
		ps := make([]int, len(c.Levels[d].Classes))
		for col, l := range c.Levels[d].Classes {
			ps[col] = above[l[:strings.LastIndex(l, Separator)]]
		}
		out[d] = ps
	}
	return out
}

// PredictProba returns one samples x classes matrix per rank.
func (c *PerLevel) PredictProba(ctx context.Context, X featurize.Matrix) ([]*mat.Dense, error) {
	if c.Levels == nil {
		return nil, ErrNotFitted
	}
	out := make([]*mat.Dense, len(c.Levels))
	err := pipeline.ForEach(ctx, pipeline.Config{Threads: c.opts.Threads}, len(c.Levels), func(ctx context.Context, d int) error {
		p, err := c.Levels[d].PredictProba(X, nil)
		if err != nil {
			return errors.Wrapf(err, "level %d", d)
		}
		out[d] = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Predict picks the most probable class at rank 0 and, below it, the most
// probable class among the children of the rank above.
func (c *PerLevel) Predict(ctx context.Context, X featurize.Matrix) ([]taxonomy.Path, error) {
	proba, err := c.PredictProba(ctx, X)
	if err != nil {
		return nil, err
	}
	out := make([]taxonomy.Path, len(X))
	for r := range X {
		var parent string
		p := make(taxonomy.Path, c.Depth)
		for d := 0; d < c.Depth; d++ {
			best, bestP := -1, -1.0
			row := proba[d].RawRowView(r)
			for col, q := range row {
				label := c.Levels[d].Classes[col]
				if d > 0 && !strings.HasPrefix(label, parent+Separator) {
					continue
				}
				if q > bestP {
					best, bestP = col, q
				}
			}
			if best < 0 {
				// parent has no children at this level; fall back to argmax
				for col, q := range row {
					if q > bestP {
						best, bestP = col, q
					}
				}
			}
			parent = c.Levels[d].Classes[best]
			p[d] = lastComponent(parent)
		}
		out[r] = p
	}
	return out, nil
}
