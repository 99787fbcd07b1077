package confidence

import (
	"reflect"
	"testing"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"hitac/internal/taxonomy"
)

func dense(rows, cols int, data ...float64) mat.Matrix {
	return mat.NewDense(rows, cols, data)
}

func TestApply_FungiScenario(t *testing.T) {
	paths := []taxonomy.Path{{"d__Fungi", "p__Ascomycota"}}
	classes := [][]string{{"d__Fungi"}, {"p__Ascomycota", "p__Basidiomycota"}}
	proba := []mat.Matrix{
		dense(1, 1, 0.9),
		dense(1, 2, 0.5, 0.5),
	}
	res, err := Apply(paths, classes, proba, 0.8)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(res.Paths[0], taxonomy.Path{"d__Fungi", ""}) {
		t.Fatalf("path: %q", res.Paths[0])
	}
	if res.Confidence[0] != 0.9 {
		t.Fatalf("confidence: %v", res.Confidence[0])
	}
}

func sample() ([]taxonomy.Path, [][]string, []mat.Matrix) {
	paths := []taxonomy.Path{
		{"k1", "p1", "g1"},
		{"k1", "p2", "g2"},
		{"k2", "p3", "g3"},
	}
	classes := [][]string{
		{"k1", "k2"},
		{"p1", "p2", "p3"},
		{"g1", "g2", "g3"},
	}
	proba := []mat.Matrix{
		dense(3, 2,
			0.95, 0.05,
			0.60, 0.40,
			0.30, 0.70),
		dense(3, 3,
			0.80, 0.10, 0.10,
			0.20, 0.70, 0.10,
			0.10, 0.10, 0.80),
		dense(3, 3,
			0.40, 0.30, 0.30,
			0.10, 0.85, 0.05,
			0.30, 0.30, 0.40),
	}
	return paths, classes, proba
}

func TestApply_TruncatesPerSample(t *testing.T) {
	paths, classes, proba := sample()
	res, err := Apply(paths, classes, proba, 0.75)
	if err != nil {
		t.Fatal(err)
	}
	wantPaths := []taxonomy.Path{
		{"k1", "p1", ""},
		{"k1", "p2", "g2"},
		{"k2", "p3", ""},
	}
	wantConf := []float64{0.80, 0.85, 0.80}
	if !reflect.DeepEqual(res.Paths, wantPaths) {
		t.Fatalf("paths: %q", res.Paths)
	}
	if !reflect.DeepEqual(res.Confidence, wantConf) {
		t.Fatalf("confidence: %v", res.Confidence)
	}
}

func TestApply_ShallowerRanksKeptOnceResolved(t *testing.T) {
	// rank 0 is below threshold but the deeper rank 1 resolves first,
	// so rank 0 is kept as well.
	paths := []taxonomy.Path{{"k1", "p1"}}
	classes := [][]string{{"k1", "k2"}, {"p1"}}
	proba := []mat.Matrix{dense(1, 2, 0.5, 0.5), dense(1, 1, 1.0)}
	res, err := Apply(paths, classes, proba, 0.9)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(res.Paths[0], taxonomy.Path{"k1", "p1"}) || res.Confidence[0] != 1.0 {
		t.Fatalf("got %q %v", res.Paths[0], res.Confidence[0])
	}
}

func TestApply_ZeroThresholdNeverBlanks(t *testing.T) {
	paths, classes, proba := sample()
	res, err := Apply(paths, classes, proba, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(res.Paths, paths) {
		t.Fatalf("threshold 0 changed paths: %q", res.Paths)
	}
	want := []float64{0.40, 0.85, 0.40}
	if !reflect.DeepEqual(res.Confidence, want) {
		t.Fatalf("confidence should come from the deepest rank: %v", res.Confidence)
	}
}

func TestApply_UnreachableThresholdBlanksAll(t *testing.T) {
	paths, classes, proba := sample()
	res, err := Apply(paths, classes, proba, 1.0+1e-9)
	if err != nil {
		t.Fatal(err)
	}
	for r, p := range res.Paths {
		for rank, l := range p {
			if l != "" {
				t.Fatalf("sample %d rank %d kept %q", r, rank, l)
			}
		}
		if res.Confidence[r] != Unresolved {
			t.Fatalf("sample %d confidence %v", r, res.Confidence[r])
		}
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	paths, classes, proba := sample()
	if _, err := Apply(paths, classes, proba, 0.99); err != nil {
		t.Fatal(err)
	}
	if paths[0][2] != "g1" {
		t.Fatal("input path mutated")
	}
}

func TestApply_UnknownLabelIsFatal(t *testing.T) {
	paths, classes, proba := sample()
	paths[1] = taxonomy.Path{"k1", "p2", "g9"}
	_, err := Apply(paths, classes, proba, 0.5)
	if !errors.Is(err, ErrUnknownLabel) {
		t.Fatalf("want ErrUnknownLabel, got %v", err)
	}
}

func TestApply_UnknownShallowLabelOnlyCheckedWhileUnresolved(t *testing.T) {
	// once a deep rank resolves, shallower labels are not looked up
	paths := []taxonomy.Path{{"unknown", "p1"}}
	classes := [][]string{{"k1"}, {"p1"}}
	proba := []mat.Matrix{dense(1, 1, 1), dense(1, 1, 0.9)}
	res, err := Apply(paths, classes, proba, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if res.Paths[0][0] != "unknown" {
		t.Fatalf("got %q", res.Paths[0])
	}
}

func TestApply_ShapeErrors(t *testing.T) {
	paths, classes, proba := sample()
	if _, err := Apply(paths, classes[:2], proba, 0.5); !errors.Is(err, ErrShape) {
		t.Fatalf("class/proba count: %v", err)
	}
	if _, err := Apply(paths, classes[:2], proba[:2], 0.5); !errors.Is(err, ErrShape) {
		t.Fatalf("path deeper than filter: %v", err)
	}
	if _, err := Apply(paths[:2], classes, proba, 0.5); !errors.Is(err, ErrShape) {
		t.Fatalf("row mismatch: %v", err)
	}
	bad := append([]mat.Matrix(nil), proba...)
	bad[1] = dense(3, 2, 0, 0, 0, 0, 0, 0)
	if _, err := Apply(paths, classes, bad, 0.5); !errors.Is(err, ErrShape) {
		t.Fatalf("column mismatch: %v", err)
	}
}

func TestIndexFirstOccurrence(t *testing.T) {
	idx := NewIndex([][]string{{"a", "b", "a"}}, nil)
	col, err := idx.Column(0, "a")
	if err != nil || col != 0 {
		t.Fatalf("got %d %v", col, err)
	}
	if _, err := idx.Column(1, "a"); !errors.Is(err, ErrShape) {
		t.Fatalf("missing rank: %v", err)
	}
}

func TestApplyLineage_SharedNameUsesPredictedParent(t *testing.T) {
	// "s__unidentified" lives under both genera; column 1 belongs to g__B
	paths := []taxonomy.Path{{"g__A", "s__unidentified"}, {"g__B", "s__unidentified"}}
	classes := [][]string{{"g__A", "g__B"}, {"s__unidentified", "s__unidentified"}}
	parents := [][]int{nil, {0, 1}}
	proba := []mat.Matrix{
		dense(2, 2, 0.9, 0.1, 0.2, 0.8),
		dense(2, 2, 0.1, 0.9, 0.1, 0.9),
	}
	res, err := ApplyLineage(paths, classes, parents, proba, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if res.Paths[0][1] != "" || res.Confidence[0] != 0.9 {
		t.Fatalf("sample 0: %q %g", res.Paths[0], res.Confidence[0])
	}
	if res.Paths[1][1] != "s__unidentified" || res.Confidence[1] != 0.9 {
		t.Fatalf("sample 1: %q %g", res.Paths[1], res.Confidence[1])
	}

	// without lineage both samples read the first column
	res, err = Apply(paths, classes, proba, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if res.Paths[1][1] != "" {
		t.Fatalf("first-column fallback: %q", res.Paths[1])
	}
}

func TestApplyLineage_ShapeErrors(t *testing.T) {
	paths, classes, proba := sample()
	if _, err := ApplyLineage(paths, classes, [][]int{nil}, proba, 0.5); !errors.Is(err, ErrShape) {
		t.Fatalf("parent list count: %v", err)
	}
	bad := make([][]int, len(classes))
	bad[1] = make([]int, len(classes[1]))
	bad[1][0] = len(classes[0])
	if _, err := ApplyLineage(paths, classes, bad, proba, 0.5); !errors.Is(err, ErrShape) {
		t.Fatalf("parent out of range: %v", err)
	}
}
