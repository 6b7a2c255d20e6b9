// core/cluster/linkage.go
package cluster

import (
	"math"

	"rnaseqkit-core/mash"
)

// Merge joins two nodes at Height. Leaves are 0..n-1; merge i creates node n+i.
type Merge struct {
	Left, Right int
	Height      float64
	Size        int
}

// Tree is an agglomerative clustering of n leaves (n-1 merges).
type Tree struct {
	Leaves int
	Merges []Merge
}

// Linkage runs average-linkage (UPGMA) agglomerative clustering over m.
//
// Each active slot caches its nearest neighbour. With average linkage the
// distance to a merged cluster lies between the distances to its parts, so
// only rows whose cached neighbour was consumed need a rescan. Ties resolve
// to the first slot scanned, so the tree is fixed by the label order.
func Linkage(m *mash.Matrix) Tree {
	n := m.Len()
	t := Tree{Leaves: n}
	if n < 2 {
		return t
	}
	t.Merges = make([]Merge, 0, n-1)

	d := make([][]float64, n)
	for i := range d {
		d[i] = m.Row(i)
	}
	size := make([]int, n)
	node := make([]int, n)
	active := make([]bool, n)
	nn := make([]int, n)
	nnd := make([]float64, n)
	for i := 0; i < n; i++ {
		size[i], node[i], active[i] = 1, i, true
	}

	rescan := func(i int) {
		nn[i], nnd[i] = -1, math.Inf(1)
		for j := 0; j < n; j++ {
			if j != i && active[j] && d[i][j] < nnd[i] {
				nn[i], nnd[i] = j, d[i][j]
			}
		}
	}
	for i := 0; i < n; i++ {
		rescan(i)
	}

	for step := 0; step < n-1; step++ {
		a := -1
		for i := 0; i < n; i++ {
			if active[i] && nn[i] >= 0 && (a < 0 || nnd[i] < nnd[a]) {
				a = i
			}
		}
		b := nn[a]
		if b < a {
			a, b = b, a
		}
		h := d[a][b]

		l, r := node[a], node[b]
		if l > r {
			l, r = r, l
		}
		t.Merges = append(t.Merges, Merge{Left: l, Right: r, Height: h, Size: size[a] + size[b]})

		sa, sb := float64(size[a]), float64(size[b])
		for k := 0; k < n; k++ {
			if !active[k] || k == a || k == b {
				continue
			}
			v := (sa*d[a][k] + sb*d[b][k]) / (sa + sb)
			d[a][k], d[k][a] = v, v
		}
		active[b] = false
		size[a] += size[b]
		node[a] = n + step

		for k := 0; k < n; k++ {
			if !active[k] {
				continue
			}
			if k == a || nn[k] == a || nn[k] == b {
				rescan(k)
			}
		}
	}
	return t
}

// cophenetic returns the merge height at which leaves i and j first share a
// cluster.
func (t Tree) cophenetic(i, j int) float64 {
	if i == j {
		return 0
	}
	members := t.leafSets()
	for s, mg := range t.Merges {
		set := members[t.Leaves+s]
		if set[i] && set[j] {
			return mg.Height
		}
	}
	return math.Inf(1)
}

func (t Tree) leafSets() map[int]map[int]bool {
	sets := make(map[int]map[int]bool, t.Leaves+len(t.Merges))
	for i := 0; i < t.Leaves; i++ {
		sets[i] = map[int]bool{i: true}
	}
	for s, mg := range t.Merges {
		u := make(map[int]bool, mg.Size)
		for k := range sets[mg.Left] {
			u[k] = true
		}
		for k := range sets[mg.Right] {
			u[k] = true
		}
		sets[t.Leaves+s] = u
	}
	return sets
}
