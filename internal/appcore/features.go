// internal/appcore/features.go
package appcore

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"

	"hitac/internal/classifier"
	"hitac/internal/cmdutil"
	"hitac/internal/config"
	"hitac/internal/featurize"
	"hitac/internal/kmer"
	"hitac/internal/modelstore"
)

// Featurize counts the k-mers of seqs with the settings in cfg.
func (e Env) Featurize(ctx context.Context, cfg config.Config, seqs [][]byte) (featurize.Matrix, error) {
	counter := kmer.NewCounter(kmer.Enumerate(cfg.Kmer, kmer.DefaultAlphabet))
	fc := featurize.Config{
		Workers:   cfg.EffectiveThreads(),
		BatchSize: cfg.BatchSize,
	}
	if cfg.CacheSize > 0 {
		cache, err := featurize.NewCache(cfg.CacheSize)
		if err != nil {
			return nil, err
		}
		fc.Cache = cache
	}
	if e.Progress {
		fc.Progress = e.Stderr
	}
	X, err := featurize.Compute(ctx, seqs, counter, fc)
	if err != nil {
		return nil, errors.Wrap(err, "featurize")
	}
	e.Infof("counted %d-mers of %s sequences (%s features) on %d threads",
		cfg.Kmer, cmdutil.Count(len(seqs)), cmdutil.Count(counter.Width()), fc.Workers)
	if fc.Cache != nil {
		e.Infof("k-mer cache holds %s distinct sequences", cmdutil.Count(fc.Cache.Len()))
	}
	return X, nil
}

// ModelKmer returns the k to featurize reads with for a model trained with
// modelK. flagK is the --kmer flag (0 = not given).
func ModelKmer(flagK, modelK int) (int, error) {
	if flagK != 0 && flagK != modelK {
		return 0, errors.Errorf("--kmer %d does not match the model, which was trained with k=%d", flagK, modelK)
	}
	return modelK, nil
}

// TrainingOptions builds classifier options from cfg. With a tmp dir the
// local models are checkpointed under tmp/<kind>.
func (e Env) TrainingOptions(cfg config.Config, kind string) classifier.Options {
	o := classifier.Options{Threads: cfg.EffectiveThreads(), Alpha: cfg.Alpha}
	if cfg.TmpDir != "" {
		ns := fmt.Sprintf("k=%d alpha=%g", cfg.Kmer, cfg.Alpha)
		o.Checkpoint = modelstore.NewDiskCheckpoint(filepath.Join(cfg.TmpDir, kind), ns)
		e.Infof("checkpointing local models under %s", cfg.TmpDir)
	}
	return o
}

// ModelInfo is the info.toml content of a model trained on X.
func ModelInfo(cfg config.Config, X featurize.Matrix) modelstore.Info {
	info := modelstore.Info{Kmer: cfg.Kmer, Alphabet: kmer.DefaultAlphabet, Samples: len(X)}
	if len(X) > 0 {
		info.Features = len(X[0])
	}
	return info
}

// PredictOptions builds classifier options for inference.
func PredictOptions(cfg config.Config) classifier.Options {
	return classifier.Options{Threads: cfg.EffectiveThreads()}
}
