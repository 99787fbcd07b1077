package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hitac/internal/config"
)

func TestParse_Classify(t *testing.T) {
	var a ClassifyArgs
	var out, errb bytes.Buffer
	oc, err := Parse("hitac-classify", []string{"-i", "r.fa", "-c", "model", "--threads", "0", "--format", "qiime2"}, &a, &out, &errb)
	if err != nil || oc != Proceed {
		t.Fatalf("oc=%v err=%v stderr=%s", oc, err, errb.String())
	}
	if a.Reads[0] != "r.fa" || a.Classifier != "model" || a.Format != "qiime2" || a.Output.Output != "-" {
		t.Fatalf("args %+v", a)
	}
	if a.Threads == nil || *a.Threads != 0 {
		t.Fatalf("threads %v", a.Threads)
	}
}

func TestParse_HelpAndVersion(t *testing.T) {
	var out, errb bytes.Buffer
	var a FitArgs
	oc, err := Parse("hitac-fit", []string{"--help"}, &a, &out, &errb)
	if err != nil || oc != Done || !strings.Contains(out.String(), "--reference") {
		t.Fatalf("help: oc=%v err=%v out=%q", oc, err, out.String())
	}
	out.Reset()
	oc, err = Parse("hitac-fit", []string{"--version"}, &a, &out, &errb)
	if err != nil || oc != Done || !strings.HasPrefix(out.String(), "hitac ") {
		t.Fatalf("version: oc=%v err=%v out=%q", oc, err, out.String())
	}
}

func TestParse_UsageErrors(t *testing.T) {
	cases := []struct {
		dest any
		argv []string
	}{
		{&FitArgs{}, []string{"-c", "m"}},
		{&ClassifyArgs{}, []string{"-i", "r.fa", "-c", "m", "--format", "xml"}},
		{&FilterArgs{}, []string{"-i", "r.fa", "-a", "c.tsv"}},
		{&FilterArgs{}, []string{"-i", "r.fa", "-a", "c.tsv", "-f", "m", "-p", "p.json"}},
		{&FilterArgs{}, []string{"-i", "r.fa", "-a", "c.tsv", "-f", "m", "--classification-format", "csv"}},
	}
	for i, c := range cases {
		var out, errb bytes.Buffer
		oc, err := Parse("x", c.argv, c.dest, &out, &errb)
		if err == nil || oc != Usage || !strings.Contains(errb.String(), "error:") {
			t.Fatalf("case %d: oc=%v err=%v stderr=%q", i, oc, err, errb.String())
		}
	}
}

func TestResolve_Precedence(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "hitac.toml")
	if err := os.WriteFile(fn, []byte("kmer = 4\nbatch-size = 10\nthreads = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	zero := 0
	c := Common{Config: fn, Kmer: 5, Threads: &zero}
	cfg, err := c.Resolve()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Kmer != 5 || cfg.BatchSize != 10 || cfg.Threads != 0 || cfg.Threshold != 0.7 {
		t.Fatalf("cfg %+v", cfg)
	}
}

func TestResolve_ConfigZeroThreshold(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "hitac.toml")
	if err := os.WriteFile(fn, []byte("threshold = 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Common{Config: fn}.Resolve()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Threshold != 0 {
		t.Fatalf("threshold %g, want 0", cfg.Threshold)
	}
	a := FilterArgs{}
	if cfg, err = a.ResolveThreshold(cfg); err != nil || cfg.Threshold != 0 {
		t.Fatalf("cfg %+v err=%v", cfg, err)
	}
}

func TestFilterThreshold(t *testing.T) {
	zero := 0.0
	a := FilterArgs{Threshold: &zero}
	cfg, err := a.ResolveThreshold(mustResolve(t))
	if err != nil || cfg.Threshold != 0 {
		t.Fatalf("cfg %+v err=%v", cfg, err)
	}
	bad := 2.0
	a.Threshold = &bad
	if _, err := a.ResolveThreshold(mustResolve(t)); err == nil {
		t.Fatal("threshold 2 accepted")
	}
}

func mustResolve(t *testing.T) config.Config {
	t.Helper()
	cfg, err := Common{}.Resolve()
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}
