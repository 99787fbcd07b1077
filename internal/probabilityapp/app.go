// Package probabilityapp implements hitac-probability.
package probabilityapp

import (
	"context"
	"io"

	"hitac/internal/appcore"
	"hitac/internal/cli"
	"hitac/internal/modelstore"
	"hitac/internal/output"
)

// RunContext loads a filter and writes the per-rank class probabilities of
// every read as JSON.
func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	var a cli.ProbabilityArgs
	if code, ok := appcore.ParseArgs("hitac-probability", argv, &a, stdout, stderr); !ok {
		return code
	}
	env := appcore.NewEnv(stdout, stderr, a.Common)
	cfg, err := a.Common.Resolve()
	if err != nil {
		return env.Usagef("%v", err)
	}
	f, info, err := modelstore.LoadFilter(a.Filter)
	if err != nil {
		return env.Fail(err)
	}
	if cfg.Kmer, err = appcore.ModelKmer(a.Kmer, info.Kmer); err != nil {
		return env.Usagef("%v", err)
	}
	f.SetOptions(appcore.PredictOptions(cfg))

	ids, seqs, err := env.LoadReads(ctx, a.Reads)
	if err != nil {
		return env.Fail(err)
	}
	p, err := env.Probabilities(ctx, cfg, f, ids, seqs)
	if err != nil {
		return env.Fail(err)
	}
	p.ModelID = info.ID

	w, closeFn, err := env.Create(a.Probabilities)
	if err != nil {
		return env.Fail(err)
	}
	werr := output.WriteProbabilities(w, p)
	if cerr := closeFn(); werr == nil {
		werr = cerr
	}
	return env.Fail(werr)
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
