// internal/modelstore/checkpoint.go
package modelstore

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"path/filepath"

	"github.com/peterbourgon/diskv"
	"github.com/pkg/errors"
	"github.com/zeebo/xxh3"

	"hitac/internal/classifier"
)

// DiskCheckpoint stores local models under a directory so an interrupted fit
// can resume. Keys are namespaced so runs with different settings sharing a
// directory never see each other's models.
type DiskCheckpoint struct {
	dv        *diskv.Diskv
	namespace string
}

type checkpointEntry struct {
	Key   string
	Model *classifier.NaiveBayes
}

// blockTransform splits a hashed key into directory levels of blockSize
// characters.
func blockTransform(blockSize int) func(string) []string {
	return func(s string) []string {
		n := len(s) / blockSize
		out := make([]string, n)
		for i := 0; i < n; i++ {
			out[i] = s[i*blockSize : (i+1)*blockSize]
		}
		return out
	}
}

// NewDiskCheckpoint opens (or creates) a checkpoint store rooted at dir.
// Entries are written to a scratch directory under dir first and renamed into
// place, so a killed run never leaves a partial entry behind.
func NewDiskCheckpoint(dir, namespace string) *DiskCheckpoint {
	return &DiskCheckpoint{
		dv: diskv.New(diskv.Options{
			BasePath:     dir,
			TempDir:      filepath.Join(dir, ".partial"),
			Transform:    blockTransform(4),
			CacheSizeMax: 4096 * 1024,
			Compression:  diskv.NewGzipCompression(),
		}),
		namespace: namespace,
	}
}

func (c *DiskCheckpoint) diskKey(key string) string {
	return fmt.Sprintf("%016x", xxh3.HashString(c.namespace+"\x00"+key))
}

// Load returns the model stored for key, if any. An entry that cannot be
// read back is erased and reported as missing so the caller retrains it.
func (c *DiskCheckpoint) Load(key string) (*classifier.NaiveBayes, bool, error) {
	k := c.diskKey(key)
	if !c.dv.Has(k) {
		return nil, false, nil
	}
	b, err := c.dv.Read(k)
	if err != nil {
		return nil, false, c.discard(k)
	}
	var e checkpointEntry
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&e); err != nil {
		return nil, false, c.discard(k)
	}
	if e.Key != c.namespace+"\x00"+key {
		return nil, false, nil
	}
	return e.Model, true, nil
}

func (c *DiskCheckpoint) discard(k string) error {
	return errors.Wrap(c.dv.Erase(k), "erase damaged checkpoint")
}

// Store saves m under key.
func (c *DiskCheckpoint) Store(key string, m *classifier.NaiveBayes) error {
	var buf bytes.Buffer
	e := checkpointEntry{Key: c.namespace + "\x00" + key, Model: m}
	if err := gob.NewEncoder(&buf).Encode(e); err != nil {
		return errors.Wrap(err, "encode checkpoint")
	}
	return errors.Wrap(c.dv.Write(c.diskKey(key), buf.Bytes()), "write checkpoint")
}

var _ classifier.Checkpoint = (*DiskCheckpoint)(nil)
