// internal/output/read.go
package output

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// ReadAssignments reads a tsv or qiime2 assignment table from path.
// Blank lines are skipped; a qiime2 header row is skipped if present.
func ReadAssignments(path, format string) ([]Assignment, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open assignments")
	}
	defer fh.Close()
	as, err := ParseAssignments(fh, format)
	return as, errors.Wrap(err, path)
}

// ParseAssignments is ReadAssignments over a reader.
func ParseAssignments(r io.Reader, format string) ([]Assignment, error) {
	var parse func(string) (Assignment, error)
	switch format {
	case FormatTSV:
		parse = ParseTSVLine
	case FormatQIIME2:
		parse = ParseQIIME2Line
	default:
		return nil, errors.Errorf("cannot read assignments in %q format", format)
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	var (
		out    []Assignment
		lineNo int
	)
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		if format == FormatQIIME2 && strings.HasPrefix(line, "Feature ID\t") {
			continue
		}
		a, err := parse(line)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNo)
		}
		out = append(out, a)
	}
	return out, sc.Err()
}
