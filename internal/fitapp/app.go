// Package fitapp implements hitac-fit and hitac-fit-filter.
package fitapp

import (
	"context"
	"io"

	"hitac/internal/appcore"
	"hitac/internal/classifier"
	"hitac/internal/cli"
	"hitac/internal/config"
	"hitac/internal/featurize"
	"hitac/internal/modelstore"
	"hitac/internal/taxonomy"
)

// RunContext runs hitac-fit: it trains a per-parent-node classifier and
// saves it to --classifier.
func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	var a cli.FitArgs
	if code, ok := appcore.ParseArgs("hitac-fit", argv, &a, stdout, stderr); !ok {
		return code
	}
	env := appcore.NewEnv(stdout, stderr, a.Common)
	cfg, err := resolve(a.Common, a.Training)
	if err != nil {
		return env.Usagef("%v", err)
	}
	X, Y, err := load(ctx, env, cfg, a.Reference)
	if err != nil {
		return env.Fail(err)
	}
	c := classifier.NewPerParentNode(env.TrainingOptions(cfg, modelstore.KindClassifier))
	if err := c.Fit(ctx, X, Y); err != nil {
		return env.Fail(err)
	}
	info, err := modelstore.SaveClassifier(a.Classifier, appcore.ModelInfo(cfg, X), c)
	if err != nil {
		return env.Fail(err)
	}
	env.Infof("saved classifier %s (%d local models) to %s", info.ID, countModels(c), a.Classifier)
	return appcore.ExitOK
}

// RunFilterContext runs hitac-fit-filter: it trains a per-level filter and
// saves it to --filter.
func RunFilterContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	var a cli.FitFilterArgs
	if code, ok := appcore.ParseArgs("hitac-fit-filter", argv, &a, stdout, stderr); !ok {
		return code
	}
	env := appcore.NewEnv(stdout, stderr, a.Common)
	cfg, err := resolve(a.Common, a.Training)
	if err != nil {
		return env.Usagef("%v", err)
	}
	X, Y, err := load(ctx, env, cfg, a.Reference)
	if err != nil {
		return env.Fail(err)
	}
	f := classifier.NewPerLevel(env.TrainingOptions(cfg, modelstore.KindFilter))
	if err := f.Fit(ctx, X, Y); err != nil {
		return env.Fail(err)
	}
	info, err := modelstore.SaveFilter(a.Filter, appcore.ModelInfo(cfg, X), f)
	if err != nil {
		return env.Fail(err)
	}
	env.Infof("saved filter %s (%d ranks) to %s", info.ID, f.Depth, a.Filter)
	return appcore.ExitOK
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func resolve(c cli.Common, t cli.Training) (config.Config, error) {
	cfg, err := c.Resolve()
	if err != nil {
		return cfg, err
	}
	return t.ResolveTraining(cfg)
}

func load(ctx context.Context, env appcore.Env, cfg config.Config, paths []string) (featurize.Matrix, []taxonomy.Path, error) {
	seqs, Y, err := env.LoadReference(ctx, paths)
	if err != nil {
		return nil, nil, err
	}
	X, err := env.Featurize(ctx, cfg, seqs)
	if err != nil {
		return nil, nil, err
	}
	return X, Y, nil
}

func countModels(c *classifier.PerParentNode) int {
	n := 0
	for _, node := range c.Nodes {
		if node.Model != nil {
			n++
		}
	}
	return n
}
