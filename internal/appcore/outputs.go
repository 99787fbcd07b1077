// internal/appcore/outputs.go
package appcore

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"hitac/internal/output"
	"hitac/internal/writers"
)

// Create opens path for writing; "-" is stdout. The returned close function
// is always non-nil.
func (e Env) Create(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return e.Stdout, func() error { return nil }, nil
	}
	fh, err := os.Create(path)
	if err != nil {
		return nil, func() error { return nil }, errors.Wrap(err, "create output")
	}
	return fh, fh.Close, nil
}

// WriteAssignments writes as to path in format.
func (e Env) WriteAssignments(path, format string, header bool, as []output.Assignment) error {
	w, closeFn, err := e.Create(path)
	if err != nil {
		return err
	}
	in, done := writers.StartAssignmentWriter(w, format, header, 64)
	for _, a := range as {
		in <- a
	}
	close(in)
	werr := <-done
	if cerr := closeFn(); werr == nil {
		werr = cerr
	}
	return werr
}
