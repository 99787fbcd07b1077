// internal/output/probabilities.go
package output

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"hitac/pkg/api"
)

// NewProbabilities packs per-rank probability matrices for ids into the wire
// type.
func NewProbabilities(ids []string, classes [][]string, proba []*mat.Dense) (api.ProbabilitiesV1, error) {
	p := api.ProbabilitiesV1{Version: api.ProbabilitiesVersion, IDs: ids}
	if len(classes) != len(proba) {
		return p, errors.Errorf("%d class lists for %d matrices", len(classes), len(proba))
	}
	for d, m := range proba {
		r, c := m.Dims()
		if r != len(ids) || c != len(classes[d]) {
			return p, errors.Errorf("rank %d: matrix is %dx%d, want %dx%d", d, r, c, len(ids), len(classes[d]))
		}
		rows := make([][]float64, r)
		for i := range rows {
			rows[i] = append([]float64(nil), m.RawRowView(i)...)
		}
		p.Ranks = append(p.Ranks, api.RankProbabilitiesV1{Classes: classes[d], Rows: rows})
	}
	return p, nil
}

// Matrices unpacks p into class lists and one matrix per rank.
func Matrices(p api.ProbabilitiesV1) ([][]string, []mat.Matrix, error) {
	if len(p.IDs) == 0 {
		return nil, nil, errors.New("probabilities hold no samples")
	}
	classes := make([][]string, len(p.Ranks))
	proba := make([]mat.Matrix, len(p.Ranks))
	for d, rk := range p.Ranks {
		if len(rk.Rows) != len(p.IDs) {
			return nil, nil, errors.Errorf("rank %d has %d rows for %d ids", d, len(rk.Rows), len(p.IDs))
		}
		if len(rk.Classes) == 0 {
			return nil, nil, errors.Errorf("rank %d has no classes", d)
		}
		m := mat.NewDense(len(rk.Rows), len(rk.Classes), nil)
		for i, row := range rk.Rows {
			if len(row) != len(rk.Classes) {
				return nil, nil, errors.Errorf("rank %d row %d has %d values for %d classes", d, i, len(row), len(rk.Classes))
			}
			m.SetRow(i, row)
		}
		classes[d] = rk.Classes
		proba[d] = m
	}
	return classes, proba, nil
}

// Parents returns the per-rank parent columns of p, or nil when p carries
// none.
func Parents(p api.ProbabilitiesV1) [][]int {
	var out [][]int
	for d, rk := range p.Ranks {
		if rk.Parents == nil {
			continue
		}
		if out == nil {
			out = make([][]int, len(p.Ranks))
		}
		out[d] = rk.Parents
	}
	return out
}

// WriteProbabilities encodes p as JSON.
func WriteProbabilities(w io.Writer, p api.ProbabilitiesV1) error {
	return json.NewEncoder(w).Encode(p)
}

// ReadProbabilities decodes JSON written by WriteProbabilities.
func ReadProbabilities(r io.Reader) (api.ProbabilitiesV1, error) {
	var p api.ProbabilitiesV1
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return p, errors.Wrap(err, "decode probabilities")
	}
	if p.Version != api.ProbabilitiesVersion {
		return p, errors.Errorf("unsupported probabilities version %d", p.Version)
	}
	return p, nil
}
