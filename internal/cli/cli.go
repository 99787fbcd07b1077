// Package cli declares the command-line arguments of the hitac tools.
//
// Arguments are plain structs parsed by go-arg. Options shared by every tool
// live in Common; settings that can also come from a --config file are
// resolved by Common.Resolve with precedence flags > file > defaults.
package cli

import (
	"io"

	"github.com/alexflint/go-arg"
	"github.com/pkg/errors"

	"hitac/internal/config"
	"hitac/internal/version"
)

// Common holds the options every tool accepts.
type Common struct {
	Kmer      int    `arg:"--kmer,-k" help:"k-mer length [default: 6, or the model's k]"`
	Threads   *int   `arg:"--threads,-t" help:"worker threads, 0 = all CPUs [default: 0]"`
	BatchSize int    `arg:"--batch-size" help:"sequences per featurization batch [default: 100]"`
	CacheSize int    `arg:"--cache-size" help:"cache up to N k-mer count vectors, 0 = off [default: 0]"`
	Config    string `arg:"--config" help:"TOML file with default settings"`
	Progress  bool   `arg:"--progress" help:"show a progress bar on stderr"`
	Quiet     bool   `arg:"--quiet,-q" help:"suppress INFO and WARN lines"`
	Verbose   bool   `arg:"--verbose" help:"print error stacks"`
}

func (Common) Version() string { return "hitac " + version.Version }

// Resolve merges defaults, the --config file and explicit flags.
func (c Common) Resolve() (config.Config, error) {
	cfg := config.Default()
	if c.Config != "" {
		f, err := config.Load(c.Config)
		if err != nil {
			return cfg, err
		}
		cfg = cfg.Apply(f)
	}
	cfg = cfg.Merge(config.Config{Kmer: c.Kmer, BatchSize: c.BatchSize, CacheSize: c.CacheSize})
	if c.Threads != nil {
		cfg.Threads = *c.Threads
	}
	return cfg, cfg.Validate()
}

// Output holds the options of tools that write assignments.
type Output struct {
	Output   string `arg:"--output,-o" default:"-" help:"output path, - = stdout"`
	Format   string `arg:"--format" default:"tsv" help:"output format: tsv | qiime2 | jsonl"`
	NoHeader bool   `arg:"--no-header" help:"suppress the header line of qiime2 output"`
}

// Formats accepted by --format.
var Formats = []string{"tsv", "qiime2", "jsonl"}

func (o Output) Validate() error {
	for _, f := range Formats {
		if o.Format == f {
			return nil
		}
	}
	return errors.Errorf("invalid --format %q (want tsv, qiime2 or jsonl)", o.Format)
}

// Training holds the options of the fitting tools.
type Training struct {
	Reference []string `arg:"--reference,-r,required" help:"training FASTA with ';tax=' headers (repeatable, globs, - = stdin)"`
	Alpha     float64  `arg:"--alpha" help:"additive smoothing of k-mer counts [default: 1]"`
	TmpDir    string   `arg:"--tmp-dir" help:"checkpoint directory; an interrupted fit resumes from it"`
}

// ResolveTraining applies the training options on top of cfg.
func (t Training) ResolveTraining(cfg config.Config) (config.Config, error) {
	cfg = cfg.Merge(config.Config{Alpha: t.Alpha, TmpDir: t.TmpDir})
	return cfg, cfg.Validate()
}

// FitArgs are the arguments of hitac-fit.
type FitArgs struct {
	Common
	Training
	Classifier string `arg:"--classifier,-c,required" help:"directory to write the classifier to"`
}

func (FitArgs) Description() string {
	return "hitac-fit: train a hierarchical classifier (local classifier per parent node) on reference sequences"
}

// FitFilterArgs are the arguments of hitac-fit-filter.
type FitFilterArgs struct {
	Common
	Training
	Filter string `arg:"--filter,-f,required" help:"directory to write the filter to"`
}

func (FitFilterArgs) Description() string {
	return "hitac-fit-filter: train the per-rank confidence filter (local classifier per level) on reference sequences"
}

// ClassifyArgs are the arguments of hitac-classify.
type ClassifyArgs struct {
	Common
	Output
	Reads      []string `arg:"--reads,-i,required" help:"FASTA reads to classify (repeatable, globs, - = stdin)"`
	Classifier string   `arg:"--classifier,-c,required" help:"classifier directory written by hitac-fit"`
}

func (ClassifyArgs) Description() string {
	return "hitac-classify: assign a taxonomy to every read"
}

// ProbabilityArgs are the arguments of hitac-probability.
type ProbabilityArgs struct {
	Common
	Reads         []string `arg:"--reads,-i,required" help:"FASTA reads (repeatable, globs, - = stdin)"`
	Filter        string   `arg:"--filter,-f,required" help:"filter directory written by hitac-fit-filter"`
	Probabilities string   `arg:"--probabilities,-o" default:"-" help:"JSON file to write per-rank probabilities to, - = stdout"`
}

func (ProbabilityArgs) Description() string {
	return "hitac-probability: compute per-rank class probabilities of reads with a fitted filter"
}

// FilterArgs are the arguments of hitac-filter.
type FilterArgs struct {
	Common
	Output
	Reads                []string `arg:"--reads,-i,required" help:"FASTA reads that were classified (repeatable, globs, - = stdin)"`
	Classification       string   `arg:"--classification,-a,required" help:"assignments to filter"`
	ClassificationFormat string   `arg:"--classification-format" default:"tsv" help:"format of --classification: tsv | qiime2"`
	Filter               string   `arg:"--filter,-f" help:"filter directory written by hitac-fit-filter"`
	Probabilities        string   `arg:"--probabilities,-p" help:"probabilities written by hitac-probability (instead of --filter)"`
	Threshold            *float64 `arg:"--threshold" help:"minimum probability a rank needs to be kept [default: 0.7]"`
}

func (FilterArgs) Description() string {
	return "hitac-filter: blank out ranks whose probability is below the threshold"
}

func (a FilterArgs) Validate() error {
	if err := a.Output.Validate(); err != nil {
		return err
	}
	switch {
	case a.Filter == "" && a.Probabilities == "":
		return errors.New("provide --filter or --probabilities")
	case a.Filter != "" && a.Probabilities != "":
		return errors.New("--filter conflicts with --probabilities")
	case a.ClassificationFormat != "tsv" && a.ClassificationFormat != "qiime2":
		return errors.Errorf("invalid --classification-format %q (want tsv or qiime2)", a.ClassificationFormat)
	}
	return nil
}

// ResolveThreshold applies --threshold on top of cfg.
func (a FilterArgs) ResolveThreshold(cfg config.Config) (config.Config, error) {
	if a.Threshold != nil {
		cfg.Threshold = *a.Threshold
	}
	return cfg, cfg.Validate()
}

// Outcome tells the caller what Parse did.
type Outcome int

const (
	Proceed Outcome = iota // arguments parsed, run the tool
	Done                   // help or version printed, exit 0
	Usage                  // invalid arguments, exit 2
)

type validator interface{ Validate() error }

// Parse parses argv into dest. Help and version go to stdout; errors go to
// stderr followed by the usage line.
func Parse(name string, argv []string, dest any, stdout, stderr io.Writer) (Outcome, error) {
	p, err := arg.NewParser(arg.Config{Program: name}, dest)
	if err != nil {
		return Usage, errors.Wrap(err, "build argument parser")
	}
	err = p.Parse(argv)
	switch {
	case errors.Is(err, arg.ErrHelp):
		p.WriteHelp(stdout)
		return Done, nil
	case errors.Is(err, arg.ErrVersion):
		_, werr := io.WriteString(stdout, dest.(interface{ Version() string }).Version()+"\n")
		return Done, werr
	case err == nil:
		if v, ok := dest.(validator); ok {
			err = v.Validate()
		}
	}
	if err != nil {
		_, _ = io.WriteString(stderr, "error: "+err.Error()+"\n")
		p.WriteUsage(stderr)
		return Usage, err
	}
	return Proceed, nil
}
