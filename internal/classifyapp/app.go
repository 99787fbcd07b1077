// Package classifyapp implements hitac-classify.
package classifyapp

import (
	"context"
	"io"

	"hitac/internal/appcore"
	"hitac/internal/cli"
	"hitac/internal/modelstore"
	"hitac/internal/output"
)

// RunContext loads a classifier, predicts a taxonomy for every read and
// writes the assignments. Confidence is not computed here.
func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	var a cli.ClassifyArgs
	if code, ok := appcore.ParseArgs("hitac-classify", argv, &a, stdout, stderr); !ok {
		return code
	}
	env := appcore.NewEnv(stdout, stderr, a.Common)
	cfg, err := a.Common.Resolve()
	if err != nil {
		return env.Usagef("%v", err)
	}

	c, info, err := modelstore.LoadClassifier(a.Classifier)
	if err != nil {
		return env.Fail(err)
	}
	if cfg.Kmer, err = appcore.ModelKmer(a.Kmer, info.Kmer); err != nil {
		return env.Usagef("%v", err)
	}
	c.SetOptions(appcore.PredictOptions(cfg))

	ids, seqs, err := env.LoadReads(ctx, a.Reads)
	if err != nil {
		return env.Fail(err)
	}
	assignments := make([]output.Assignment, len(ids))
	if len(seqs) > 0 {
		X, err := env.Featurize(ctx, cfg, seqs)
		if err != nil {
			return env.Fail(err)
		}
		paths, err := c.Predict(ctx, X)
		if err != nil {
			return env.Fail(err)
		}
		for i := range ids {
			assignments[i] = output.Assignment{ID: ids[i], Path: paths[i], Confidence: output.NoConfidence}
		}
	}
	return env.Fail(env.WriteAssignments(a.Output.Output, a.Format, !a.NoHeader, assignments))
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
