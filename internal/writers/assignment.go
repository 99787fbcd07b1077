// internal/writers/assignment.go
package writers

import (
	"bufio"
	"io"

	"hitac/internal/output"
)

func init() {
	RegisterAssignment(output.FormatTSV, func(w io.Writer, in <-chan output.Assignment, _ bool) error {
		return streamLines(w, in, "", output.FormatTSVLine)
	})
	RegisterAssignment(output.FormatQIIME2, func(w io.Writer, in <-chan output.Assignment, header bool) error {
		h := ""
		if header {
			h = output.QIIME2Header
		}
		return streamLines(w, in, h, output.FormatQIIME2Line)
	})
	RegisterAssignment(output.FormatJSONL, streamJSONL)
}

func streamLines(w io.Writer, in <-chan output.Assignment, header string, format func(output.Assignment) (string, error)) error {
	bw := bufio.NewWriter(w)
	if header != "" {
		if _, err := bw.WriteString(header + "\n"); err != nil {
			return err
		}
	}
	for a := range in {
		line, err := format(a)
		if err != nil {
			return err
		}
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
