// Package confidence truncates predicted taxonomy paths at the deepest rank
// whose filter-model probability clears a threshold.
package confidence

import (
	"gonum.org/v1/gonum/mat"

	"github.com/pkg/errors"

	"hitac/internal/taxonomy"
)

// Unresolved is the confidence of a sample where no rank met the threshold.
const Unresolved = -1.0

// DefaultThreshold is the default minimum probability for keeping a rank.
const DefaultThreshold = 0.7

var (
	// ErrUnknownLabel means a predicted label is absent from the class list
	// the filter was fitted with at that rank.
	ErrUnknownLabel = errors.New("label not in class list")
	// ErrShape means the paths, class lists and probability matrices disagree
	// in size.
	ErrShape = errors.New("shape mismatch")
)

// Result holds the truncated paths and one confidence per sample.
type Result struct {
	Paths      []taxonomy.Path
	Confidence []float64
}

// Index maps each rank's labels to probability columns. A label that occurs
// more than once in a rank (the same name under different parents) is
// resolved through the parent columns when they are known, and otherwise to
// its first column.
type Index struct {
	cols    []map[string][]int
	parents [][]int
}

// NewIndex builds the label-to-column maps for every rank. parents may be nil;
// if set, parents[rank][col] is the column at rank-1 of the class's parent.
func NewIndex(classes [][]string, parents [][]int) Index {
	idx := Index{cols: make([]map[string][]int, len(classes)), parents: parents}
	for rank, labels := range classes {
		m := make(map[string][]int, len(labels))
		for col, l := range labels {
			m[l] = append(m[l], col)
		}
		idx.cols[rank] = m
	}
	return idx
}

// Column returns the first probability column of label at rank.
func (x Index) Column(rank int, label string) (int, error) {
	cols, err := x.lookup(rank, label)
	if err != nil {
		return 0, err
	}
	return cols[0], nil
}

// PathColumn returns the probability column of path[rank], using the labels
// above it to pick between equal names.
func (x Index) PathColumn(path taxonomy.Path, rank int) (int, error) {
	cols, err := x.lookup(rank, path[rank])
	if err != nil {
		return 0, err
	}
	if len(cols) == 1 || rank == 0 || rank >= len(x.parents) || x.parents[rank] == nil {
		return cols[0], nil
	}
	parent, err := x.PathColumn(path, rank-1)
	if err != nil {
		return cols[0], nil
	}
	for _, c := range cols {
		if x.parents[rank][c] == parent {
			return c, nil
		}
	}
	return cols[0], nil
}

func (x Index) lookup(rank int, label string) ([]int, error) {
	if rank < 0 || rank >= len(x.cols) {
		return nil, errors.Wrapf(ErrShape, "no class list for rank %d", rank)
	}
	cols, ok := x.cols[rank][label]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownLabel, "rank %d: %q", rank, label)
	}
	return cols, nil
}

// Apply walks every path from its deepest rank towards the root. The first
// rank (from the bottom) whose own probability is >= threshold resolves the
// sample: that rank and every shallower rank are kept, deeper ranks become "".
// A sample that never resolves keeps no rank and gets Unresolved.
//
// proba[rank] has one row per path and one column per label in
// classes[rank]. A threshold of 0 resolves at the deepest rank, so nothing is
// truncated but confidences are still reported.
func Apply(paths []taxonomy.Path, classes [][]string, proba []mat.Matrix, threshold float64) (Result, error) {
	return ApplyLineage(paths, classes, nil, proba, threshold)
}

// ApplyLineage is Apply with the parent column of every class (see NewIndex),
// so a name shared by several lineages is scored in the predicted one.
func ApplyLineage(paths []taxonomy.Path, classes [][]string, parents [][]int, proba []mat.Matrix, threshold float64) (Result, error) {
	if err := checkShape(paths, classes, parents, proba); err != nil {
		return Result{}, err
	}
	idx := NewIndex(classes, parents)

	res := Result{
		Paths:      make([]taxonomy.Path, len(paths)),
		Confidence: make([]float64, len(paths)),
	}
	for r, path := range paths {
		conf := Unresolved
		out := make(taxonomy.Path, len(path))
		for rank := len(path) - 1; rank >= 0; rank-- {
			if conf == Unresolved {
				col, err := idx.PathColumn(path, rank)
				if err != nil {
					return Result{}, errors.Wrapf(err, "sample %d", r)
				}
				if p := proba[rank].At(r, col); p >= threshold {
					conf = p
				}
			}
			if conf != Unresolved && conf >= threshold {
				out[rank] = path[rank]
			}
		}
		res.Paths[r] = out
		res.Confidence[r] = conf
	}
	return res, nil
}

func checkShape(paths []taxonomy.Path, classes [][]string, parents [][]int, proba []mat.Matrix) error {
	if len(classes) != len(proba) {
		return errors.Wrapf(ErrShape, "%d class lists but %d probability matrices", len(classes), len(proba))
	}
	if parents != nil && len(parents) != len(classes) {
		return errors.Wrapf(ErrShape, "%d parent lists for %d class lists", len(parents), len(classes))
	}
	for rank, ps := range parents {
		if ps == nil {
			continue
		}
		if rank == 0 || len(ps) != len(classes[rank]) {
			return errors.Wrapf(ErrShape, "rank %d: %d parents for %d classes", rank, len(ps), len(classes[rank]))
		}
		for col, pc := range ps {
			if pc < 0 || pc >= len(classes[rank-1]) {
				return errors.Wrapf(ErrShape, "rank %d class %d: parent column %d out of range", rank, col, pc)
			}
		}
	}
	for rank, m := range proba {
		if m == nil {
			return errors.Wrapf(ErrShape, "rank %d: no probability matrix", rank)
		}
		rows, cols := m.Dims()
		if rows != len(paths) {
			return errors.Wrapf(ErrShape, "rank %d: %d probability rows for %d samples", rank, rows, len(paths))
		}
		if cols != len(classes[rank]) {
			return errors.Wrapf(ErrShape, "rank %d: %d probability columns for %d classes", rank, cols, len(classes[rank]))
		}
	}
	for r, p := range paths {
		if len(p) > len(classes) {
			return errors.Wrapf(ErrShape, "sample %d has %d ranks, filter knows %d", r, len(p), len(classes))
		}
	}
	return nil
}
