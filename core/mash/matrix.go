// core/mash/matrix.go
package mash

// Matrix is a square, symmetric, zero-diagonal distance matrix with a fixed
// label order. It is never mutated after construction.
type Matrix struct {
	labels []string
	index  map[string]int
	data   []float64 // row-major n×n
}

// NewMatrix builds a Matrix from a full square slice. The caller's rows are
// copied; symmetry is enforced by mirroring the upper triangle and the
// diagonal is forced to zero.
func NewMatrix(labels []string, rows [][]float64) *Matrix {
	n := len(labels)
	m := &Matrix{labels: append([]string(nil), labels...), data: make([]float64, n*n)}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := rows[i][j]
			m.data[i*n+j] = d
			m.data[j*n+i] = d
		}
	}
	m.buildIndex()
	return m
}

func (m *Matrix) buildIndex() {
	m.index = make(map[string]int, len(m.labels))
	for i, l := range m.labels {
		m.index[l] = i
	}
}

// Len is the matrix dimension.
func (m *Matrix) Len() int { return len(m.labels) }

// Labels returns the label order (copy).
func (m *Matrix) Labels() []string { return append([]string(nil), m.labels...) }

// Label returns the i-th label.
func (m *Matrix) Label(i int) string { return m.labels[i] }

// Index returns the position of label, or -1.
func (m *Matrix) Index(label string) int {
	if i, ok := m.index[label]; ok {
		return i
	}
	return -1
}

// At returns M[i][j].
func (m *Matrix) At(i, j int) float64 { return m.data[i*len(m.labels)+j] }

// Row returns a copy of row i.
func (m *Matrix) Row(i int) []float64 {
	n := len(m.labels)
	return append([]float64(nil), m.data[i*n:(i+1)*n]...)
}

// Condensed returns the upper triangle (i<j) in row-major order, the input
// form for linkage.
func (m *Matrix) Condensed() []float64 {
	n := len(m.labels)
	out := make([]float64, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		out = append(out, m.data[i*n+i+1:(i+1)*n]...)
	}
	return out
}

// Without returns a new matrix with label removed, and whether it was present.
func (m *Matrix) Without(label string) (*Matrix, bool) {
	drop := m.Index(label)
	if drop < 0 {
		return m, false
	}
	n := len(m.labels)
	keep := make([]int, 0, n-1)
	for i := 0; i < n; i++ {
		if i != drop {
			keep = append(keep, i)
		}
	}
	k := len(keep)
	out := &Matrix{labels: make([]string, k), data: make([]float64, k*k)}
	for a, i := range keep {
		out.labels[a] = m.labels[i]
		for b, j := range keep {
			out.data[a*k+b] = m.data[i*n+j]
		}
	}
	out.buildIndex()
	return out, true
}
