// internal/appcore/inputs.go
package appcore

import (
	"context"

	"github.com/pkg/errors"

	"hitac/internal/cliutil"
	"hitac/internal/cmdutil"
	"hitac/internal/fasta"
	"hitac/internal/taxonomy"
)

// LoadReference reads training sequences and the taxonomy in their headers.
func (e Env) LoadReference(ctx context.Context, paths []string) ([][]byte, []taxonomy.Path, error) {
	recs, err := e.readFASTA(ctx, paths)
	if err != nil {
		return nil, nil, err
	}
	if len(recs) == 0 {
		return nil, nil, errors.New("reference holds no sequences")
	}
	ids, seqs := fasta.Split(recs)
	tax, err := taxonomy.DecodeAll(taxonomy.Header, ids)
	if err != nil {
		return nil, nil, errors.Wrap(err, "reference headers")
	}
	e.Infof("read %s reference sequences", cmdutil.Count(len(recs)))
	return seqs, tax, nil
}

// LoadReads reads the sequences to classify. IDs are whole header lines.
func (e Env) LoadReads(ctx context.Context, paths []string) ([]string, [][]byte, error) {
	recs, err := e.readFASTA(ctx, paths)
	if err != nil {
		return nil, nil, err
	}
	if len(recs) == 0 {
		e.Warnf("no reads in input")
	} else {
		e.Infof("read %s sequences", cmdutil.Count(len(recs)))
	}
	ids, seqs := fasta.Split(recs)
	return ids, seqs, nil
}

func (e Env) readFASTA(ctx context.Context, paths []string) ([]fasta.Record, error) {
	files, err := cliutil.ExpandPaths(paths)
	if err != nil {
		return nil, err
	}
	return fasta.ReadAll(ctx, files...)
}
