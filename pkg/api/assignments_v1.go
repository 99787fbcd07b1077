// pkg/api/assignments_v1.go
package api

// AssignmentV1 is the stable JSONL schema for one taxonomy assignment.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type AssignmentV1 struct {
	ID         string   `json:"id"`
	Taxonomy   []string `json:"taxonomy"`   // one entry per rank, "" = unresolved
	Confidence float64  `json:"confidence"` // -1 when no confidence was computed
	Resolved   int      `json:"resolved_ranks,omitempty"`
}
