// internal/writers/registry.go
package writers

import (
	"io"

	"github.com/pkg/errors"

	"hitac/internal/output"
)

// AssignmentStreamer writes every assignment received on in to w.
type AssignmentStreamer func(w io.Writer, in <-chan output.Assignment, header bool) error

// AssignmentWriters maps a format name to its streamer.
var AssignmentWriters = map[string]AssignmentStreamer{}

// RegisterAssignment adds or replaces a format (last wins).
func RegisterAssignment(format string, fn AssignmentStreamer) { AssignmentWriters[format] = fn }

// StartAssignmentWriter spins up a writer goroutine for format. The returned
// error channel yields exactly one value once in is closed and drained.
func StartAssignmentWriter(out io.Writer, format string, header bool, bufSize int) (chan<- output.Assignment, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan output.Assignment, bufSize)
	errCh := make(chan error, 1)

	go func() {
		fn, ok := AssignmentWriters[format]
		if !ok {
			drain(in)
			errCh <- errors.Errorf("unknown assignment format %q (no writer registered)", format)
			return
		}
		err := fn(out, in, header)
		drain(in)
		errCh <- err
	}()
	return in, errCh
}

// drain keeps senders from blocking after a write error.
func drain(in <-chan output.Assignment) {
	for range in {
	}
}
