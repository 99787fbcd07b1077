// internal/appcore/probabilities.go
package appcore

import (
	"context"

	"hitac/internal/classifier"
	"hitac/internal/config"
	"hitac/internal/output"
	"hitac/pkg/api"
)

// Probabilities featurizes seqs and packs the filter's per-rank class
// probabilities for ids. No reads yields ranks with classes and no rows.
func (e Env) Probabilities(ctx context.Context, cfg config.Config, f *classifier.PerLevel, ids []string, seqs [][]byte) (api.ProbabilitiesV1, error) {
	classes, parents := f.Classes(), f.Parents()
	if len(seqs) == 0 {
		p := api.ProbabilitiesV1{Version: api.ProbabilitiesVersion, Kmer: cfg.Kmer, IDs: []string{}}
		for d, c := range classes {
			p.Ranks = append(p.Ranks, api.RankProbabilitiesV1{Classes: c, Parents: parents[d], Rows: [][]float64{}})
		}
		return p, nil
	}
	X, err := e.Featurize(ctx, cfg, seqs)
	if err != nil {
		return api.ProbabilitiesV1{}, err
	}
	proba, err := f.PredictProba(ctx, X)
	if err != nil {
		return api.ProbabilitiesV1{}, err
	}
	p, err := output.NewProbabilities(ids, classes, proba)
	if err != nil {
		return p, err
	}
	for d := range p.Ranks {
		p.Ranks[d].Parents = parents[d]
	}
	p.Kmer = cfg.Kmer
	return p, nil
}
