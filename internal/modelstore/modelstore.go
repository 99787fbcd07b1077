// Package modelstore saves and loads fitted classifiers as model directories.
//
// A model directory holds model.gob.gz, the gzip'ed gob encoding of the
// classifier, and info.toml, a human-readable summary of how it was built.
package modelstore

import (
	"compress/gzip"
	"encoding/gob"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"hitac/internal/classifier"
	"hitac/internal/version"
)

const (
	FileModel = "model.gob.gz"
	FileInfo  = "info.toml"
)

// Model kinds.
const (
	KindClassifier = "classifier"
	KindFilter     = "filter"
)

// ErrKind means the directory holds a different kind of model.
var ErrKind = errors.New("wrong model kind")

// Info describes a saved model.
type Info struct {
	ID       string    `toml:"id" comment:"Model"`
	Kind     string    `toml:"kind"`
	Version  string    `toml:"version"`
	Created  time.Time `toml:"created"`
	Kmer     int       `toml:"kmer" comment:"Features"`
	Alphabet string    `toml:"alphabet"`
	Features int       `toml:"features"`
	Ranks    int       `toml:"ranks" comment:"Training data"`
	Samples  int       `toml:"samples"`
}

// SaveClassifier writes a per-parent-node classifier to dir.
func SaveClassifier(dir string, info Info, c *classifier.PerParentNode) (Info, error) {
	info.Kind = KindClassifier
	info.Ranks = c.Depth
	return save(dir, info, c)
}

// SaveFilter writes a per-level filter to dir.
func SaveFilter(dir string, info Info, c *classifier.PerLevel) (Info, error) {
	info.Kind = KindFilter
	info.Ranks = c.Depth
	return save(dir, info, c)
}

func save(dir string, info Info, model any) (Info, error) {
	if info.ID == "" {
		info.ID = uuid.NewString()
	}
	if info.Version == "" {
		info.Version = version.Version
	}
	if info.Created.IsZero() {
		info.Created = time.Now().UTC().Truncate(time.Second)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return info, errors.Wrap(err, "create model dir")
	}
	if err := writeGob(filepath.Join(dir, FileModel), model); err != nil {
		return info, err
	}
	data, err := toml.Marshal(info)
	if err != nil {
		return info, errors.Wrap(err, "encode model info")
	}
	if err := os.WriteFile(filepath.Join(dir, FileInfo), data, 0o644); err != nil {
		return info, errors.Wrap(err, "write model info")
	}
	return info, nil
}

func writeGob(path string, v any) (err error) {
	fh, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create model file")
	}
	defer func() {
		if cerr := fh.Close(); err == nil && cerr != nil {
			err = errors.Wrap(cerr, "close model file")
		}
	}()
	zw := gzip.NewWriter(fh)
	if err := gob.NewEncoder(zw).Encode(v); err != nil {
		return errors.Wrap(err, "encode model")
	}
	return errors.Wrap(zw.Close(), "compress model")
}

// ReadInfo reads info.toml from a model directory.
func ReadInfo(dir string) (Info, error) {
	var info Info
	data, err := os.ReadFile(filepath.Join(dir, FileInfo))
	if err != nil {
		return info, errors.Wrapf(err, "read %s", dir)
	}
	if err := toml.Unmarshal(data, &info); err != nil {
		return info, errors.Wrapf(err, "decode %s", filepath.Join(dir, FileInfo))
	}
	return info, nil
}

// LoadClassifier loads a model directory written by SaveClassifier.
func LoadClassifier(dir string) (*classifier.PerParentNode, Info, error) {
	c := &classifier.PerParentNode{}
	info, err := load(dir, KindClassifier, c)
	if err != nil {
		return nil, info, err
	}
	return c, info, nil
}

// LoadFilter loads a model directory written by SaveFilter.
func LoadFilter(dir string) (*classifier.PerLevel, Info, error) {
	c := &classifier.PerLevel{}
	info, err := load(dir, KindFilter, c)
	if err != nil {
		return nil, info, err
	}
	return c, info, nil
}

func load(dir, kind string, v any) (Info, error) {
	info, err := ReadInfo(dir)
	if err != nil {
		return info, err
	}
	if info.Kind != kind {
		return info, errors.Wrapf(ErrKind, "%s holds a %q model, want %q", dir, info.Kind, kind)
	}
	fh, err := os.Open(filepath.Join(dir, FileModel))
	if err != nil {
		return info, errors.Wrap(err, "open model")
	}
	defer fh.Close()
	zr, err := gzip.NewReader(fh)
	if err != nil {
		return info, errors.Wrap(err, "decompress model")
	}
	defer zr.Close()
	if err := gob.NewDecoder(zr).Decode(v); err != nil {
		return info, errors.Wrap(err, "decode model")
	}
	return info, nil
}
