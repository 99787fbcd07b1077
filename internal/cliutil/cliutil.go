// internal/cliutil/cliutil.go
package cliutil

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

func hasGlobMeta(s string) bool { return strings.ContainsAny(s, "*?[") }

// ExpandPaths expands any globs among input paths. "-" (stdin) is kept as is;
// a glob matching nothing is an error.
func ExpandPaths(paths []string) ([]string, error) {
	var out []string
	for _, a := range paths {
		if a == "-" {
			out = append(out, a)
			continue
		}
		if hasGlobMeta(a) {
			m, err := filepath.Glob(a)
			if err != nil {
				return nil, errors.Wrapf(err, "bad glob %q", a)
			}
			if len(m) == 0 {
				return nil, errors.Errorf("no input matched %q", a)
			}
			out = append(out, m...)
		} else {
			out = append(out, a)
		}
	}
	return out, nil
}
