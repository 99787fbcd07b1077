// Package classifier provides the hierarchical classifiers that map k-mer
// feature matrices to taxonomy paths.
//
// PerParentNode is the primary model: one local model per internal node of
// the training hierarchy, predicting top-down. PerLevel is the filter model:
// one local model per rank, exposing per-rank class probabilities for
// confidence filtering. Both use NaiveBayes as their local model.
package classifier

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"hitac/internal/featurize"
	"hitac/internal/taxonomy"
)

// Separator joins ancestor labels into node keys and level-qualified labels.
const Separator = "::HiTaC::"

var (
	// ErrInconsistentRanks means training paths differ in depth.
	ErrInconsistentRanks = errors.New("inconsistent number of ranks")
	// ErrNotFitted means Predict was called on an untrained model.
	ErrNotFitted = errors.New("classifier is not fitted")
)

// Classifier is the fit/predict capability the tools need.
type Classifier interface {
	Fit(ctx context.Context, X featurize.Matrix, Y []taxonomy.Path) error
	Predict(ctx context.Context, X featurize.Matrix) ([]taxonomy.Path, error)
}

// ProbabilisticClassifier additionally exposes per-rank class probabilities.
// PredictProba(X)[rank] has one row per sample and one column per label of
// Classes()[rank].
type ProbabilisticClassifier interface {
	Classifier
	PredictProba(ctx context.Context, X featurize.Matrix) ([]*mat.Dense, error)
	Classes() [][]string
}

// Checkpoint persists local models while training so an interrupted run can
// skip the models it already has.
type Checkpoint interface {
	Load(key string) (*NaiveBayes, bool, error)
	Store(key string, m *NaiveBayes) error
}

// Options are shared by both hierarchical classifiers.
type Options struct {
	Threads    int
	Alpha      float64
	Checkpoint Checkpoint
}

func join(labels []string) string { return strings.Join(labels, Separator) }

func lastComponent(label string) string {
	if i := strings.LastIndex(label, Separator); i >= 0 {
		return label[i+len(Separator):]
	}
	return label
}

func checkTraining(X featurize.Matrix, Y []taxonomy.Path) (int, error) {
	if len(X) == 0 {
		return 0, errors.New("no training samples")
	}
	if len(X) != len(Y) {
		return 0, errors.Errorf("%d feature rows but %d taxonomy paths", len(X), len(Y))
	}
	depth, err := taxonomy.CommonDepth(Y)
	if err != nil {
		return 0, errors.Wrap(ErrInconsistentRanks, err.Error())
	}
	if depth == 0 {
		return 0, errors.Wrap(ErrInconsistentRanks, "paths have no ranks")
	}
	return depth, nil
}

// fitLocal trains one local model, consulting the checkpoint first.
func fitLocal(key string, X featurize.Matrix, rows []int, y []string, o Options) (*NaiveBayes, error) {
	if o.Checkpoint != nil {
		m, ok, err := o.Checkpoint.Load(key)
		if err != nil {
			return nil, errors.Wrapf(err, "checkpoint load %q", key)
		}
		if ok {
			return m, nil
		}
	}
	m, err := FitNaiveBayes(X, rows, y, o.Alpha)
	if err != nil {
		return nil, err
	}
	if o.Checkpoint != nil {
		if err := o.Checkpoint.Store(key, m); err != nil {
			return nil, errors.Wrapf(err, "checkpoint store %q", key)
		}
	}
	return m, nil
}
