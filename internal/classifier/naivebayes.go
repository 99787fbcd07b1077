// internal/classifier/naivebayes.go
package classifier

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"github.com/xtgo/set"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"hitac/internal/featurize"
)

// DefaultAlpha is the additive smoothing applied to k-mer counts.
const DefaultAlpha = 1.0

// NaiveBayes is a multinomial naive Bayes model over k-mer counts. It is the
// local model used at every node or level of the hierarchical classifiers.
// Fields are exported for gob.
type NaiveBayes struct {
	Classes  []string
	Features int
	LogPrior []float64
	// LogLik is row-major, len(Classes) x Features.
	LogLik []float64
}

// Labels returns the sorted, duplicate-free label set of y.
func Labels(y []string) []string {
	labels := append([]string(nil), y...)
	sort.Strings(labels)
	return labels[:set.Uniq(sort.StringSlice(labels))]
}

// FitNaiveBayes trains on the rows of X selected by rows (all rows if nil),
// with y[i] the label of X[rows[i]].
func FitNaiveBayes(X featurize.Matrix, rows []int, y []string, alpha float64) (*NaiveBayes, error) {
	if rows == nil {
		rows = allRows(len(X))
	}
	if len(rows) == 0 {
		return nil, errors.New("naive bayes: no training samples")
	}
	if len(rows) != len(y) {
		return nil, errors.Errorf("naive bayes: %d samples but %d labels", len(rows), len(y))
	}
	if alpha <= 0 {
		alpha = DefaultAlpha
	}
	width := len(X[rows[0]])
	classes := Labels(y)
	col := make(map[string]int, len(classes))
	for i, c := range classes {
		col[c] = i
	}

	counts := make([]float64, len(classes)*width)
	prior := make([]float64, len(classes))
	for i, r := range rows {
		x := X[r]
		if len(x) != width {
			return nil, errors.Errorf("naive bayes: row %d has %d features, want %d", r, len(x), width)
		}
		c := col[y[i]]
		prior[c]++
		dst := counts[c*width : (c+1)*width]
		for f, v := range x {
			if v != 0 {
				dst[f] += float64(v)
			}
		}
	}

	m := &NaiveBayes{
		Classes:  classes,
		Features: width,
		LogPrior: make([]float64, len(classes)),
		LogLik:   counts,
	}
	n := float64(len(rows))
	for c := range classes {
		m.LogPrior[c] = math.Log(prior[c] / n)
		row := m.LogLik[c*width : (c+1)*width]
		denom := math.Log(floats.Sum(row) + alpha*float64(width))
		for f := range row {
			row[f] = math.Log(row[f]+alpha) - denom
		}
	}
	return m, nil
}

// jointLogLikelihood scores one count vector against every class.
func (m *NaiveBayes) jointLogLikelihood(x []int, dst []float64) {
	copy(dst, m.LogPrior)
	for f, v := range x {
		if v == 0 {
			continue
		}
		fv := float64(v)
		for c := range dst {
			dst[c] += fv * m.LogLik[c*m.Features+f]
		}
	}
}

// PredictProba returns a len(rows) x len(Classes) matrix of posterior class
// probabilities; each row sums to 1.
func (m *NaiveBayes) PredictProba(X featurize.Matrix, rows []int) (*mat.Dense, error) {
	if rows == nil {
		rows = allRows(len(X))
	}
	if len(rows) == 0 {
		return nil, errors.New("naive bayes: no samples")
	}
	out := mat.NewDense(len(rows), len(m.Classes), nil)
	for i, r := range rows {
		if len(X[r]) != m.Features {
			return nil, errors.Errorf("naive bayes: row %d has %d features, model has %d", r, len(X[r]), m.Features)
		}
		dst := out.RawRowView(i)
		m.jointLogLikelihood(X[r], dst)
		floats.AddConst(-floats.LogSumExp(dst), dst)
		for c := range dst {
			dst[c] = math.Exp(dst[c])
		}
	}
	return out, nil
}

// Predict returns the most probable label for each selected row.
func (m *NaiveBayes) Predict(X featurize.Matrix, rows []int) ([]string, error) {
	if rows == nil {
		rows = allRows(len(X))
	}
	out := make([]string, len(rows))
	jll := make([]float64, len(m.Classes))
	for i, r := range rows {
		if len(X[r]) != m.Features {
			return nil, errors.Errorf("naive bayes: row %d has %d features, model has %d", r, len(X[r]), m.Features)
		}
		m.jointLogLikelihood(X[r], jll)
		out[i] = m.Classes[floats.MaxIdx(jll)]
	}
	return out, nil
}

func allRows(n int) []int {
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return rows
}
