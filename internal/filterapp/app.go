// Package filterapp implements hitac-filter.
package filterapp

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"

	"hitac/internal/appcore"
	"hitac/internal/cli"
	"hitac/internal/cmdutil"
	"hitac/internal/confidence"
	"hitac/internal/config"
	"hitac/internal/modelstore"
	"hitac/internal/output"
	"hitac/internal/taxonomy"
	"hitac/pkg/api"
)

// RunContext blanks out the ranks of existing assignments whose probability
// is below --threshold and writes them with their confidence.
func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	var a cli.FilterArgs
	if code, ok := appcore.ParseArgs("hitac-filter", argv, &a, stdout, stderr); !ok {
		return code
	}
	env := appcore.NewEnv(stdout, stderr, a.Common)
	cfg, err := a.Common.Resolve()
	if err == nil {
		cfg, err = a.ResolveThreshold(cfg)
	}
	if err != nil {
		return env.Usagef("%v", err)
	}

	assignments, err := output.ReadAssignments(a.Classification, a.ClassificationFormat)
	if err != nil {
		return env.Fail(err)
	}
	ids, seqs, err := env.LoadReads(ctx, a.Reads)
	if err != nil {
		return env.Fail(err)
	}
	if err := sameIDs("classification", assignments, ids); err != nil {
		return env.Fail(err)
	}

	var p api.ProbabilitiesV1
	if a.Filter != "" {
		p, err = fromFilter(ctx, env, cfg, a, ids, seqs)
	} else {
		p, err = fromFile(a.Probabilities, ids)
	}
	if err != nil {
		return env.Fail(err)
	}

	if len(ids) > 0 {
		if assignments, err = apply(assignments, p, cfg.Threshold); err != nil {
			return env.Fail(err)
		}
		report(env, assignments, cfg)
	}
	return env.Fail(env.WriteAssignments(a.Output.Output, a.Format, !a.NoHeader, assignments))
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func fromFilter(ctx context.Context, env appcore.Env, cfg config.Config, a cli.FilterArgs, ids []string, seqs [][]byte) (api.ProbabilitiesV1, error) {
	f, info, err := modelstore.LoadFilter(a.Filter)
	if err != nil {
		return api.ProbabilitiesV1{}, err
	}
	if cfg.Kmer, err = appcore.ModelKmer(a.Kmer, info.Kmer); err != nil {
		return api.ProbabilitiesV1{}, err
	}
	f.SetOptions(appcore.PredictOptions(cfg))
	return env.Probabilities(ctx, cfg, f, ids, seqs)
}

func fromFile(path string, ids []string) (api.ProbabilitiesV1, error) {
	fh, err := os.Open(path)
	if err != nil {
		return api.ProbabilitiesV1{}, errors.Wrap(err, "open probabilities")
	}
	defer fh.Close()
	p, err := output.ReadProbabilities(fh)
	if err != nil {
		return p, errors.Wrap(err, path)
	}
	if len(p.IDs) != len(ids) {
		return p, errors.Errorf("probabilities hold %d samples but there are %d reads", len(p.IDs), len(ids))
	}
	for i := range ids {
		if p.IDs[i] != ids[i] {
			return p, errors.Errorf("probabilities row %d is %q, read is %q", i+1, p.IDs[i], ids[i])
		}
	}
	return p, nil
}

// sameIDs checks that assignments and reads line up row by row.
func sameIDs(what string, as []output.Assignment, ids []string) error {
	if len(as) != len(ids) {
		return errors.Errorf("%s has %d rows but there are %d reads", what, len(as), len(ids))
	}
	for i := range ids {
		if as[i].ID != ids[i] {
			return errors.Errorf("%s row %d is %q, read is %q", what, i+1, as[i].ID, ids[i])
		}
	}
	return nil
}

func apply(as []output.Assignment, p api.ProbabilitiesV1, threshold float64) ([]output.Assignment, error) {
	classes, proba, err := output.Matrices(p)
	if err != nil {
		return nil, err
	}
	paths := make([]taxonomy.Path, len(as))
	for i, a := range as {
		paths[i] = a.Path
	}
	res, err := confidence.ApplyLineage(paths, classes, output.Parents(p), proba, threshold)
	if err != nil {
		return nil, err
	}
	out := make([]output.Assignment, len(as))
	for i, a := range as {
		out[i] = output.Assignment{ID: a.ID, Path: res.Paths[i], Confidence: res.Confidence[i]}
	}
	return out, nil
}

func report(env appcore.Env, as []output.Assignment, cfg config.Config) {
	full, none := 0, 0
	for _, a := range as {
		switch a.Resolved() {
		case len(a.Path):
			full++
		case 0:
			none++
		}
	}
	env.Infof("threshold %g: %s reads kept every rank, %s kept none",
		cfg.Threshold, cmdutil.Count(full), cmdutil.Count(none))
	if none > 0 {
		env.Warnf("%s reads are unresolved at every rank", cmdutil.Count(none))
	}
}
