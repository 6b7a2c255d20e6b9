package selection

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"rnaseqkit-core/mash"
)

type pairs map[[2]string]float64

func (p pairs) Distance(a, b string) float64 {
	if a == b {
		return 0
	}
	if d, ok := p[[2]string{a, b}]; ok {
		return d
	}
	if d, ok := p[[2]string{b, a}]; ok {
		return d
	}
	return mash.DefaultMaxDistance
}

var abcd = pairs{
	{"A", "B"}: 0.1, {"A", "C"}: 0.9, {"A", "D"}: 0.5,
	{"B", "C"}: 0.8, {"B", "D"}: 0.4, {"C", "D"}: 0.2,
}

func TestFarthestPointExample(t *testing.T) {
	got, err := FarthestPoint(abcd, []string{"A", "B", "C", "D"}, "A", 3)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if want := []string{"A", "C", "D"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestFarthestPointDeterministicAndUnique(t *testing.T) {
	genomes := []string{"D", "B", "A", "C"} // input order must not matter
	first, err := FarthestPoint(abcd, genomes, "A", 4)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, _ := FarthestPoint(abcd, []string{"C", "A", "D", "B"}, "A", 4)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %v vs %v", i, first, again)
		}
	}
	if len(first) != 4 {
		t.Fatalf("K == |G| must select all, got %v", first)
	}
	seen := map[string]bool{}
	for _, g := range first {
		if seen[g] {
			t.Fatalf("duplicate %s in %v", g, first)
		}
		seen[g] = true
	}
}

func TestFarthestPointTieBreaksBySortedID(t *testing.T) {
	// Every pair missing → all candidates tie at the default distance.
	got, err := FarthestPoint(pairs{}, []string{"z", "m", "a", "ref"}, "ref", 3)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if want := []string{"ref", "a", "m"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestFarthestPointIncomparableDistances(t *testing.T) {
	nan := pairs{{"K-12", "b"}: math.NaN(), {"K-12", "c"}: math.NaN(), {"b", "c"}: 0.5}
	got, err := FarthestPoint(nan, []string{"K-12", "b", "c"}, "K-12", 3)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if want := []string{"K-12", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFarthestPointSeedOnly(t *testing.T) {
	got, err := FarthestPoint(abcd, []string{"A", "B"}, "B", 1)
	if err != nil || !reflect.DeepEqual(got, []string{"B"}) {
		t.Fatalf("got %v, %v", got, err)
	}
}

func TestFarthestPointErrors(t *testing.T) {
	g := []string{"A", "B", "C", "D"}

	for _, k := range []int{0, -3} {
		if _, err := FarthestPoint(abcd, g, "A", k); !errors.Is(err, ErrInvalidCount) {
			t.Errorf("k=%d: want ErrInvalidCount, got %v", k, err)
		}
	}

	_, err := FarthestPoint(abcd, g, "A", 5)
	var ins *InsufficientGenomesError
	if !errors.As(err, &ins) || ins.K != 5 || ins.Available != 4 {
		t.Errorf("want InsufficientGenomesError{5,4}, got %v", err)
	}

	_, err = FarthestPoint(abcd, g, "Q", 2)
	var nf *mash.ReferenceGenomeNotFoundError
	if !errors.As(err, &nf) || nf.Reference != "Q" {
		t.Errorf("want ReferenceGenomeNotFoundError, got %v", err)
	}
}

func TestFarthestPointWithTable(t *testing.T) {
	in := "K-12\tB\t0.1\t0\t1/1\nK-12\tC\t0.9\t0\t1/1\nK-12\tD\t0.5\t0\t1/1\n" +
		"B\tC\t0.8\t0\t1/1\nB\tD\t0.4\t0\t1/1\nC\tD\t0.2\t0\t1/1\n"
	recs, err := mash.ReadRecords(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	tab, err := mash.Build(recs, mash.Options{})
	if err != nil {
		t.Fatal(err)
	}
	got, err := FarthestPoint(tab, tab.Genomes(), tab.Reference(), 3)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"K-12", "C", "D"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
