// internal/output/assignment.go
package output

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"hitac/internal/taxonomy"
	"hitac/pkg/api"
)

// NoConfidence marks assignments made without a confidence estimate.
const NoConfidence = -1.0

// Assignment is one read's taxonomy as written by the tools.
type Assignment struct {
	ID         string
	Path       taxonomy.Path
	Confidence float64
}

// Resolved counts the non-empty ranks.
func (a Assignment) Resolved() int {
	n := 0
	for _, l := range a.Path {
		if l != "" {
			n++
		}
	}
	return n
}

// ToAPI converts to the JSONL wire type.
func ToAPI(a Assignment) api.AssignmentV1 {
	return api.AssignmentV1{
		ID:         a.ID,
		Taxonomy:   []string(a.Path.Clone()),
		Confidence: a.Confidence,
		Resolved:   a.Resolved(),
	}
}

// FormatTSVLine renders "id<TAB>rank1,rank2,...".
func FormatTSVLine(a Assignment) (string, error) {
	tax, err := taxonomy.Comma.Encode(a.Path)
	if err != nil {
		return "", errors.Wrapf(err, "assignment %q", a.ID)
	}
	return a.ID + "\t" + tax, nil
}

// FormatQIIME2Line renders "id<TAB>rank1;rank2;...<TAB>confidence".
func FormatQIIME2Line(a Assignment) (string, error) {
	tax, err := taxonomy.Semicolon.Encode(a.Path)
	if err != nil {
		return "", errors.Wrapf(err, "assignment %q", a.ID)
	}
	return a.ID + "\t" + tax + "\t" + strconv.FormatFloat(a.Confidence, 'g', -1, 64), nil
}

// ParseTSVLine reads a line written by FormatTSVLine. The taxonomy is the
// last tab-separated column, so IDs containing tabs survive.
func ParseTSVLine(line string) (Assignment, error) {
	i := strings.LastIndexByte(line, '\t')
	if i < 0 {
		return Assignment{}, errors.Errorf("no tab in %q", line)
	}
	p, err := taxonomy.Comma.Decode(line[i+1:])
	if err != nil {
		return Assignment{}, err
	}
	return Assignment{ID: line[:i], Path: p, Confidence: NoConfidence}, nil
}

// ParseQIIME2Line reads a data row of a QIIME2 taxonomy table. The
// Confidence column is optional.
func ParseQIIME2Line(line string) (Assignment, error) {
	cols := strings.Split(line, "\t")
	if len(cols) < 2 {
		return Assignment{}, errors.Errorf("want at least 2 columns in %q", line)
	}
	p, err := taxonomy.Semicolon.Decode(cols[1])
	if err != nil {
		return Assignment{}, err
	}
	a := Assignment{ID: cols[0], Path: p, Confidence: NoConfidence}
	if len(cols) > 2 && cols[2] != "" {
		c, err := strconv.ParseFloat(cols[2], 64)
		if err != nil {
			return Assignment{}, errors.Wrap(err, "confidence")
		}
		a.Confidence = c
	}
	return a, nil
}
