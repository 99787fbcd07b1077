// internal/writers/jsonl.go
package writers

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"

	"hitac/internal/output"
)

// JSONL writers share 64 KiB buffers; the encoder is rebuilt per stream.
var jsonlBufs = sync.Pool{
	New: func() any {
		return bufio.NewWriterSize(io.Discard, 64<<10)
	},
}

// streamJSONL writes each assignment as one api.AssignmentV1 line. A closed
// reader on the other end of out ends the stream without error.
func streamJSONL(out io.Writer, in <-chan output.Assignment, _ bool) error {
	bw := jsonlBufs.Get().(*bufio.Writer)
	bw.Reset(out)
	defer func() {
		bw.Reset(io.Discard)
		jsonlBufs.Put(bw)
	}()

	enc := json.NewEncoder(bw)
	for a := range in {
		if err := enc.Encode(output.ToAPI(a)); err != nil {
			return suppressBrokenPipe(err)
		}
	}
	return suppressBrokenPipe(bw.Flush())
}

func suppressBrokenPipe(err error) error {
	if IsBrokenPipe(err) {
		return nil
	}
	return err
}
