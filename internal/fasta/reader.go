// Package fasta reads FASTA files: plain or gzip'ed, "-" for stdin, with
// wrapped sequence lines.
package fasta

import (
	"bufio"
	"bytes"
	"context"
	"io"

	"github.com/pkg/errors"
)

// ErrMalformed means sequence data appeared before the first header.
var ErrMalformed = errors.New("malformed FASTA")

// Record is one FASTA entry. ID is the whole header line without '>'; it may
// carry a taxonomy annotation. Seq keeps the case it was written in.
type Record struct {
	ID  string
	Seq []byte
}

const maxLine = 64 * 1024 * 1024 // allow very long single-line sequences (64 MiB)

// StreamCtx scans FASTA from r and calls emit once per record, in file order.
// Returning an error from emit stops the scan.
func StreamCtx(ctx context.Context, r io.Reader, emit func(Record) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)

	var (
		id     string
		inRec  bool
		seq    []byte
		lineNo int
	)
	flush := func() error {
		if !inRec {
			return nil
		}
		return emit(Record{ID: id, Seq: append([]byte(nil), seq...)})
	}

	for sc.Scan() {
		lineNo++
		if err := ctx.Err(); err != nil {
			return err
		}
		line := bytes.TrimRight(sc.Bytes(), " \t\r")
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			if err := flush(); err != nil {
				return err
			}
			id = string(bytes.TrimSpace(line[1:]))
			inRec = true
			seq = seq[:0]
			continue
		}
		if !inRec {
			return errors.Wrapf(ErrMalformed, "line %d: sequence before first header", lineNo)
		}
		seq = append(seq, bytes.TrimSpace(line)...)
	}
	if err := sc.Err(); err != nil {
		return errors.Wrap(err, "fasta scan")
	}
	return flush()
}

// StreamPathCtx opens path (see Open) and streams its records.
func StreamPathCtx(ctx context.Context, path string, emit func(Record) error) error {
	rc, err := Open(path)
	if err != nil {
		return err
	}
	defer rc.Close()
	if err := StreamCtx(ctx, rc, emit); err != nil {
		return errors.Wrap(err, path)
	}
	return nil
}

// ReadAll reads every record of every path, in order.
func ReadAll(ctx context.Context, paths ...string) ([]Record, error) {
	var recs []Record
	for _, p := range paths {
		err := StreamPathCtx(ctx, p, func(r Record) error {
			recs = append(recs, r)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return recs, nil
}

// Split returns the IDs and sequences of recs as parallel slices.
func Split(recs []Record) (ids []string, seqs [][]byte) {
	ids = make([]string, len(recs))
	seqs = make([][]byte, len(recs))
	for i, r := range recs {
		ids[i], seqs[i] = r.ID, r.Seq
	}
	return ids, seqs
}
