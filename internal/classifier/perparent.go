// internal/classifier/perparent.go
package classifier

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"hitac/internal/featurize"
	"hitac/internal/pipeline"
	"hitac/internal/taxonomy"
)

// Node is one parent in the training hierarchy. Model is nil when the node
// has a single child, which is then always predicted.
type Node struct {
	Children []string
	Model    *NaiveBayes
}

// PerParentNode is a local classifier per parent node.
type PerParentNode struct {
	Depth int
	// Nodes is keyed by the Separator-joined path of the parent; the root
	// key is "".
	Nodes map[string]*Node

	opts Options
}

// NewPerParentNode returns an unfitted classifier.
func NewPerParentNode(o Options) *PerParentNode {
	return &PerParentNode{opts: o}
}

// SetOptions replaces the runtime options, e.g. after loading from disk.
func (c *PerParentNode) SetOptions(o Options) { c.opts = o }

type nodeJob struct {
	key  string
	rows []int
	y    []string
}

// Fit trains one local model per parent node. All paths must share one depth.
func (c *PerParentNode) Fit(ctx context.Context, X featurize.Matrix, Y []taxonomy.Path) error {
	depth, err := checkTraining(X, Y)
	if err != nil {
		return err
	}

	byKey := make(map[string]*nodeJob)
	for d := 0; d < depth; d++ {
		for r, p := range Y {
			key := join(p[:d])
			j, ok := byKey[key]
			if !ok {
				j = &nodeJob{key: key}
				byKey[key] = j
			}
			j.rows = append(j.rows, r)
			j.y = append(j.y, p[d])
		}
	}
	jobs := make([]*nodeJob, 0, len(byKey))
	for _, j := range byKey {
		jobs = append(jobs, j)
	}
	sort.Slice(jobs, func(a, b int) bool { return jobs[a].key < jobs[b].key })

	nodes := make([]*Node, len(jobs))
	err = pipeline.ForEach(ctx, pipeline.Config{Threads: c.opts.Threads}, len(jobs), func(ctx context.Context, i int) error {
		j := jobs[i]
		n := &Node{Children: Labels(j.y)}
		if len(n.Children) > 1 {
			m, err := fitLocal("node"+Separator+j.key, X, j.rows, j.y, c.opts)
			if err != nil {
				return errors.Wrapf(err, "node %q", j.key)
			}
			n.Model = m
		}
		nodes[i] = n
		return nil
	})
	if err != nil {
		return err
	}

	c.Depth = depth
	c.Nodes = make(map[string]*Node, len(jobs))
	for i, j := range jobs {
		c.Nodes[j.key] = nodes[i]
	}
	return nil
}

// Predict walks every sample from the root down, asking each parent's local
// model for the next rank.
func (c *PerParentNode) Predict(ctx context.Context, X featurize.Matrix) ([]taxonomy.Path, error) {
	if c.Nodes == nil {
		return nil, ErrNotFitted
	}
	out := make([]taxonomy.Path, len(X))
	groups := featurize.Partition(len(X), featurize.DefaultBatchSize)
	err := pipeline.ForEach(ctx, pipeline.Config{Threads: c.opts.Threads}, len(groups), func(ctx context.Context, gi int) error {
		for r := groups[gi].Start; r < groups[gi].End; r++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := c.predictOne(X, r)
			if err != nil {
				return errors.Wrapf(err, "sample %d", r)
			}
			out[r] = p
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *PerParentNode) predictOne(X featurize.Matrix, r int) (taxonomy.Path, error) {
	p := make(taxonomy.Path, 0, c.Depth)
	for d := 0; d < c.Depth; d++ {
		n, ok := c.Nodes[join(p)]
		if !ok {
			return nil, errors.Errorf("no node for %q", join(p))
		}
		if n.Model == nil {
			p = append(p, n.Children[0])
			continue
		}
		label, err := n.Model.Predict(X, []int{r})
		if err != nil {
			return nil, err
		}
		p = append(p, label[0])
	}
	return p, nil
}
