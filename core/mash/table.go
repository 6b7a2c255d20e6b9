// core/mash/table.go
package mash

import (
	"sort"
	"strings"
)

// DefaultMaxDistance fills pairs absent from the input table.
const DefaultMaxDistance = 1.0

// DefaultReferenceMarkers select E. coli K-12 MG1655 by assembly, strain or
// GenBank accession.
var DefaultReferenceMarkers = []string{"GCF_000005845", "K-12", "CP000948"}

// Options configure Build.
type Options struct {
	DefaultDistance  float64  // 0 → DefaultMaxDistance
	ReferenceMarkers []string // nil → DefaultReferenceMarkers
}

// Table is an immutable symmetric distance lookup over a genome set.
type Table struct {
	genomes   []string
	index     map[string]int
	dist      map[[2]int]float64
	def       float64
	reference string
}

// Build indexes records into a Table and resolves the reference genome.
func Build(records []Record, opt Options) (*Table, error) {
	def := opt.DefaultDistance
	if def <= 0 {
		def = DefaultMaxDistance
	}
	markers := opt.ReferenceMarkers
	if len(markers) == 0 {
		markers = DefaultReferenceMarkers
	}

	seen := make(map[string]struct{}, 2*len(records))
	for _, r := range records {
		seen[r.A] = struct{}{}
		seen[r.B] = struct{}{}
	}
	genomes := make([]string, 0, len(seen))
	for g := range seen {
		genomes = append(genomes, g)
	}
	sort.Strings(genomes)

	t := &Table{
		genomes: genomes,
		index:   make(map[string]int, len(genomes)),
		dist:    make(map[[2]int]float64, len(records)),
		def:     def,
	}
	for i, g := range genomes {
		t.index[g] = i
	}
	for _, r := range records {
		t.dist[pairKey(t.index[r.A], t.index[r.B])] = r.Dist
	}

	t.reference = FindReference(genomes, markers)
	if t.reference == "" {
		return nil, &MissingReferenceError{Markers: append([]string(nil), markers...)}
	}
	return t, nil
}

// FindReference returns the first genome (in the given order) containing any
// marker as a substring, or "".
func FindReference(genomes, markers []string) string {
	for _, g := range genomes {
		for _, m := range markers {
			if m != "" && strings.Contains(g, m) {
				return g
			}
		}
	}
	return ""
}

func pairKey(i, j int) [2]int {
	if i > j {
		i, j = j, i
	}
	return [2]int{i, j}
}

// Genomes returns the sorted genome ids (copy).
func (t *Table) Genomes() []string { return append([]string(nil), t.genomes...) }

// Len is the number of distinct genomes.
func (t *Table) Len() int { return len(t.genomes) }

// Reference is the genome chosen by the reference markers.
func (t *Table) Reference() string { return t.reference }

// DefaultDistance is the fill value for absent pairs.
func (t *Table) DefaultDistance() float64 { return t.def }

// Has reports whether g appears in the table.
func (t *Table) Has(g string) bool {
	_, ok := t.index[g]
	return ok
}

// Lookup returns the recorded distance and whether the pair was present.
// Self pairs are always present at 0.
func (t *Table) Lookup(a, b string) (float64, bool) {
	if a == b {
		return 0, true
	}
	i, ok := t.index[a]
	if !ok {
		return t.def, false
	}
	j, ok := t.index[b]
	if !ok {
		return t.def, false
	}
	d, ok := t.dist[pairKey(i, j)]
	if !ok {
		return t.def, false
	}
	return d, true
}

// Distance returns dist(a,b), falling back to the default for missing pairs.
func (t *Table) Distance(a, b string) float64 {
	d, _ := t.Lookup(a, b)
	return d
}

// Missing counts unordered genome pairs absent from the input.
func (t *Table) Missing() int {
	n := len(t.genomes)
	have := 0
	for k := range t.dist {
		if k[0] != k[1] {
			have++
		}
	}
	return n*(n-1)/2 - have
}

// Matrix materializes the distances for labels, in that order.
func (t *Table) Matrix(labels []string) *Matrix {
	n := len(labels)
	m := &Matrix{labels: append([]string(nil), labels...), data: make([]float64, n*n)}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := t.Distance(labels[i], labels[j])
			m.data[i*n+j] = d
			m.data[j*n+i] = d
		}
	}
	m.buildIndex()
	return m
}
