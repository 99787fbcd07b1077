// pkg/api/probabilities_v1.go
package api

// ProbabilitiesVersion is the value of ProbabilitiesV1.Version.
const ProbabilitiesVersion = 1

// ProbabilitiesV1 is the stable JSON schema of per-rank class probabilities
// written by hitac-probability and read by hitac-filter.
type ProbabilitiesV1 struct {
	Version int                   `json:"version"`
	ModelID string                `json:"model_id,omitempty"`
	Kmer    int                   `json:"kmer"`
	IDs     []string              `json:"ids"`
	Ranks   []RankProbabilitiesV1 `json:"ranks"`
}

// RankProbabilitiesV1 holds one rank: Rows[i][j] is the probability that
// sample IDs[i] belongs to Classes[j]. Parents[j], when present, is the index
// of the parent of Classes[j] in the previous rank's Classes.
type RankProbabilitiesV1 struct {
	Classes []string    `json:"classes"`
	Parents []int       `json:"parents,omitempty"`
	Rows    [][]float64 `json:"rows"`
}
