package cliutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.fa")
	b := filepath.Join(dir, "b.fa")
	_ = os.WriteFile(a, []byte(">a\nA\n"), 0o644)
	_ = os.WriteFile(b, []byte(">b\nA\n"), 0o644)
	got, err := ExpandPaths([]string{filepath.Join(dir, "*.fa"), "-"})
	if err != nil || len(got) != 3 || got[2] != "-" {
		t.Fatalf("expand: err=%v got=%v", err, got)
	}
}

func TestExpandPaths_NoMatch(t *testing.T) {
	if _, err := ExpandPaths([]string{filepath.Join(t.TempDir(), "*.fq")}); err == nil {
		t.Fatal("expected error")
	}
}
