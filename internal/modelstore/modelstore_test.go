package modelstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"hitac/internal/classifier"
	"hitac/internal/featurize"
	"hitac/internal/taxonomy"
)

func toy() (featurize.Matrix, []taxonomy.Path) {
	X := featurize.Matrix{{5, 0, 1}, {4, 1, 0}, {0, 5, 1}, {1, 4, 0}, {0, 0, 6}, {1, 0, 5}}
	Y := []taxonomy.Path{
		{"d__X", "g__a"}, {"d__X", "g__a"},
		{"d__X", "g__b"}, {"d__X", "g__b"},
		{"d__Y", "g__c"}, {"d__Y", "g__c"},
	}
	return X, Y
}

func TestClassifierRoundTrip(t *testing.T) {
	X, Y := toy()
	c := classifier.NewPerParentNode(classifier.Options{})
	if err := c.Fit(context.Background(), X, Y); err != nil {
		t.Fatal(err)
	}
	dir := filepath.Join(t.TempDir(), "model")
	saved, err := SaveClassifier(dir, Info{Kmer: 1, Alphabet: "ACGT", Features: 3, Samples: len(X)}, c)
	if err != nil {
		t.Fatal(err)
	}
	if saved.ID == "" || saved.Kind != KindClassifier || saved.Ranks != 2 {
		t.Fatalf("info %+v", saved)
	}
	got, info, err := LoadClassifier(dir)
	if err != nil {
		t.Fatal(err)
	}
	if info.ID != saved.ID || info.Kmer != 1 || !info.Created.Equal(saved.Created) {
		t.Fatalf("info %+v want %+v", info, saved)
	}
	want, _ := c.Predict(context.Background(), X)
	pred, err := got.Predict(context.Background(), X)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(pred, want) {
		t.Fatalf("loaded model predicts %v want %v", pred, want)
	}
}

func TestFilterRoundTripAndKind(t *testing.T) {
	X, Y := toy()
	f := classifier.NewPerLevel(classifier.Options{})
	if err := f.Fit(context.Background(), X, Y); err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	if _, err := SaveFilter(dir, Info{Kmer: 1}, f); err != nil {
		t.Fatal(err)
	}
	got, _, err := LoadFilter(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.Classes(), f.Classes()) {
		t.Fatalf("classes %v want %v", got.Classes(), f.Classes())
	}
	if _, _, err := LoadClassifier(dir); !errors.Is(err, ErrKind) {
		t.Fatalf("err=%v", err)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, _, err := LoadFilter(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error")
	}
}

func TestInfoIsReadableTOML(t *testing.T) {
	dir := t.TempDir()
	X, Y := toy()
	f := classifier.NewPerLevel(classifier.Options{})
	if err := f.Fit(context.Background(), X, Y); err != nil {
		t.Fatal(err)
	}
	if _, err := SaveFilter(dir, Info{Kmer: 6, Alphabet: "ACGT"}, f); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(filepath.Join(dir, FileInfo))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"kind = 'filter'", "kmer = 6", "alphabet = 'ACGT'"} {
		if !strings.Contains(string(b), want) {
			t.Fatalf("info.toml missing %q:\n%s", want, b)
		}
	}
}

func TestDiskCheckpoint(t *testing.T) {
	dir := t.TempDir()
	cp := NewDiskCheckpoint(dir, "k=1")
	if _, ok, err := cp.Load("node"); ok || err != nil {
		t.Fatalf("empty store: ok=%v err=%v", ok, err)
	}
	m := &classifier.NaiveBayes{Classes: []string{"a", "b"}, Features: 1, LogPrior: []float64{-1, -2}, LogLik: []float64{-3, -4}}
	if err := cp.Store("node", m); err != nil {
		t.Fatal(err)
	}
	got, ok, err := NewDiskCheckpoint(dir, "k=1").Load("node")
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if !reflect.DeepEqual(got, m) {
		t.Fatalf("got %+v", got)
	}
	if _, ok, _ := NewDiskCheckpoint(dir, "k=2").Load("node"); ok {
		t.Fatal("namespace leaked")
	}
}

func TestDiskCheckpointResumesFit(t *testing.T) {
	X, Y := toy()
	dir := t.TempDir()
	a := classifier.NewPerParentNode(classifier.Options{Checkpoint: NewDiskCheckpoint(dir, "x")})
	if err := a.Fit(context.Background(), X, Y); err != nil {
		t.Fatal(err)
	}
	b := classifier.NewPerParentNode(classifier.Options{Checkpoint: NewDiskCheckpoint(dir, "x")})
	if err := b.Fit(context.Background(), X, Y); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a.Nodes, b.Nodes) {
		t.Fatal("resumed fit differs")
	}
}

func TestDiskCheckpointRetrainsDamagedEntries(t *testing.T) {
	X, Y := toy()
	dir := t.TempDir()
	a := classifier.NewPerParentNode(classifier.Options{Checkpoint: NewDiskCheckpoint(dir, "x")})
	if err := a.Fit(context.Background(), X, Y); err != nil {
		t.Fatal(err)
	}

	// cut every stored entry in half, as a killed write would
	var damaged int
	err := filepath.Walk(dir, func(path string, fi os.FileInfo, err error) error {
		if err != nil || fi.IsDir() {
			return err
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		damaged++
		return os.WriteFile(path, b[:len(b)/2], 0o644)
	})
	if err != nil {
		t.Fatal(err)
	}
	if damaged == 0 {
		t.Fatal("no checkpoint entries written")
	}

	if _, ok, err := NewDiskCheckpoint(dir, "x").Load("node" + classifier.Separator); ok || err != nil {
		t.Fatalf("damaged entry: ok=%v err=%v", ok, err)
	}
	b := classifier.NewPerParentNode(classifier.Options{Checkpoint: NewDiskCheckpoint(dir, "x")})
	if err := b.Fit(context.Background(), X, Y); err != nil {
		t.Fatalf("fit over damaged checkpoint: %v", err)
	}
	if !reflect.DeepEqual(a.Nodes, b.Nodes) {
		t.Fatal("retrained fit differs")
	}
}

func TestDiskCheckpointLeavesNoPartialFiles(t *testing.T) {
	dir := t.TempDir()
	m := &classifier.NaiveBayes{Classes: []string{"a"}, Features: 1, LogPrior: []float64{0}, LogLik: []float64{0}}
	if err := NewDiskCheckpoint(dir, "k=1").Store("node", m); err != nil {
		t.Fatal(err)
	}
	left, _ := os.ReadDir(filepath.Join(dir, ".partial"))
	if len(left) != 0 {
		t.Fatalf("%d files left in scratch dir", len(left))
	}
}
