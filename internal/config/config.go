// Package config holds the tunables shared by every hitac tool and loads them
// from an optional TOML file.
package config

import (
	"os"
	"runtime"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// Config holds the resolved shared options.
type Config struct {
	Kmer      int
	Threads   int
	BatchSize int
	Threshold float64
	Alpha     float64
	CacheSize int
	TmpDir    string
}

// File is the TOML form of Config. A nil field is a key the file does not
// set, so an explicit 0 survives.
type File struct {
	Kmer      *int     `toml:"kmer"`
	Threads   *int     `toml:"threads"`
	BatchSize *int     `toml:"batch-size"`
	Threshold *float64 `toml:"threshold"`
	Alpha     *float64 `toml:"alpha"`
	CacheSize *int     `toml:"cache-size"`
	TmpDir    *string  `toml:"tmp-dir"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Kmer:      6,
		Threads:   0, // all CPUs
		BatchSize: 100,
		Threshold: 0.7,
		Alpha:     1.0,
	}
}

// Load decodes path strictly: unknown keys are an error.
func Load(path string) (File, error) {
	var c File
	fh, err := os.Open(path)
	if err != nil {
		return c, errors.Wrap(err, "open config")
	}
	defer fh.Close()
	dec := toml.NewDecoder(fh)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return c, errors.Wrapf(err, "decode %s", path)
	}
	return c, nil
}

// Apply overlays every key present in f on c.
func (c Config) Apply(f File) Config {
	if f.Kmer != nil {
		c.Kmer = *f.Kmer
	}
	if f.Threads != nil {
		c.Threads = *f.Threads
	}
	if f.BatchSize != nil {
		c.BatchSize = *f.BatchSize
	}
	if f.Threshold != nil {
		c.Threshold = *f.Threshold
	}
	if f.Alpha != nil {
		c.Alpha = *f.Alpha
	}
	if f.CacheSize != nil {
		c.CacheSize = *f.CacheSize
	}
	if f.TmpDir != nil {
		c.TmpDir = *f.TmpDir
	}
	return c
}

// Merge overlays the non-zero fields of o on c.
func (c Config) Merge(o Config) Config {
	if o.Kmer != 0 {
		c.Kmer = o.Kmer
	}
	if o.Threads != 0 {
		c.Threads = o.Threads
	}
	if o.BatchSize != 0 {
		c.BatchSize = o.BatchSize
	}
	if o.Threshold != 0 {
		c.Threshold = o.Threshold
	}
	if o.Alpha != 0 {
		c.Alpha = o.Alpha
	}
	if o.CacheSize != 0 {
		c.CacheSize = o.CacheSize
	}
	if o.TmpDir != "" {
		c.TmpDir = o.TmpDir
	}
	return c
}

// Validate rejects settings no tool can run with.
func (c Config) Validate() error {
	switch {
	case c.Kmer < 1:
		return errors.Errorf("kmer must be >= 1 (got %d)", c.Kmer)
	case c.Threads < 0:
		return errors.Errorf("threads must be >= 0 (got %d)", c.Threads)
	case c.BatchSize < 1:
		return errors.Errorf("batch-size must be >= 1 (got %d)", c.BatchSize)
	case c.Threshold < 0 || c.Threshold > 1:
		return errors.Errorf("threshold must be in [0,1] (got %g)", c.Threshold)
	case c.Alpha < 0:
		return errors.Errorf("alpha must be >= 0 (got %g)", c.Alpha)
	case c.CacheSize < 0:
		return errors.Errorf("cache-size must be >= 0 (got %d)", c.CacheSize)
	}
	return nil
}

// EffectiveThreads resolves Threads 0 to the number of CPUs.
func (c Config) EffectiveThreads() int {
	if c.Threads <= 0 {
		return runtime.NumCPU()
	}
	return c.Threads
}
