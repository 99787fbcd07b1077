package kmer

import (
	"reflect"
	"testing"
)

func TestEnumerateK1(t *testing.T) {
	got := Enumerate(1, DefaultAlphabet)
	want := []string{"A", "C", "G", "T"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestEnumerateK2Order(t *testing.T) {
	got := Enumerate(2, DefaultAlphabet)
	want := []string{
		"AA", "AC", "AG", "AT", "CA", "CC", "CG", "CT",
		"GA", "GC", "GG", "GT", "TA", "TC", "TG", "TT",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestEnumerateSizeAndUnique(t *testing.T) {
	for k := 1; k <= 6; k++ {
		km := Enumerate(k, DefaultAlphabet)
		want := 1 << (2 * k)
		if len(km) != want {
			t.Fatalf("k=%d: want %d kmers, got %d", k, want, len(km))
		}
		seen := make(map[string]struct{}, len(km))
		for _, s := range km {
			if len(s) != k {
				t.Fatalf("k=%d: kmer %q has wrong length", k, s)
			}
			if _, dup := seen[s]; dup {
				t.Fatalf("k=%d: duplicate kmer %q", k, s)
			}
			seen[s] = struct{}{}
		}
	}
}

func TestEnumerateEmptyAlphabetDefaults(t *testing.T) {
	if got := Enumerate(1, ""); !reflect.DeepEqual(got, []string{"A", "C", "G", "T"}) {
		t.Fatalf("empty alphabet should default to ACGT, got %v", got)
	}
}

func TestEnumeratePanicsOnZeroK(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for k=0")
		}
	}()
	Enumerate(0, DefaultAlphabet)
}

func TestCountK1(t *testing.T) {
	c := NewCounter(Enumerate(1, DefaultAlphabet))
	got := c.Count([]byte("ATCGG"))
	want := []int{1, 1, 2, 1}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestCountK2(t *testing.T) {
	c := NewCounter(Enumerate(2, DefaultAlphabet))
	got := c.Count([]byte("ATCGG"))
	want := []int{0, 0, 0, 1, 0, 0, 1, 0, 0, 0, 1, 0, 0, 1, 0, 0}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestCountShortSequenceIsZero(t *testing.T) {
	c := NewCounter(Enumerate(3, DefaultAlphabet))
	for _, s := range []string{"", "A", "AC"} {
		for i, v := range c.Count([]byte(s)) {
			if v != 0 {
				t.Fatalf("seq %q: column %d = %d, want 0", s, i, v)
			}
		}
	}
}

func TestCountIgnoresAmbiguityAndCase(t *testing.T) {
	c := NewCounter(Enumerate(1, DefaultAlphabet))
	got := c.Count([]byte("ANnacgtRY"))
	want := []int{1, 0, 0, 0}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestCountSumEqualsWindows(t *testing.T) {
	seqs := []string{"", "A", "ACGTACGTTTGCA", "GGGGGGGGGGGG", "ACGTTGCAACGTAGCTAGCTAGGATCC"}
	for k := 1; k <= 4; k++ {
		c := NewCounter(Enumerate(k, DefaultAlphabet))
		for _, s := range seqs {
			sum := 0
			for _, v := range c.Count([]byte(s)) {
				sum += v
			}
			want := len(s) - k + 1
			if want < 0 {
				want = 0
			}
			if sum != want {
				t.Fatalf("k=%d seq=%q: sum %d, want %d", k, s, sum, want)
			}
		}
	}
}
