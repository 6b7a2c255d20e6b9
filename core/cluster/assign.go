// core/cluster/assign.go
package cluster

import (
	"fmt"
	"sort"

	"rnaseqkit-core/mash"
)

// ClusterCountMismatchError reports an assignment that lost or gained genomes.
type ClusterCountMismatchError struct {
	Got, Want int
}

func (e *ClusterCountMismatchError) Error() string {
	return fmt.Sprintf("cluster assignment covers %d genomes, want %d", e.Got, e.Want)
}

// Assignment maps genome → cluster id. Values returned by this package are
// never modified after they are handed out.
type Assignment map[string]int

// Cut flattens the tree: leaves joined by merges at height ≤ tau share a
// cluster. Ids run 1..k in order of each cluster's first leaf in labels.
func (t Tree) Cut(labels []string, tau float64) Assignment {
	parent := make([]int, t.Leaves)
	for i := range parent {
		parent[i] = i
	}
	find := func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}

	// any leaf of each node stands in for the whole node
	leafOf := make([]int, t.Leaves+len(t.Merges))
	for i := 0; i < t.Leaves; i++ {
		leafOf[i] = i
	}
	for s, mg := range t.Merges {
		leafOf[t.Leaves+s] = leafOf[mg.Left]
		if mg.Height <= tau {
			ra, rb := find(leafOf[mg.Left]), find(leafOf[mg.Right])
			if ra != rb {
				parent[rb] = ra
			}
		}
	}

	out := make(Assignment, t.Leaves)
	ids := make(map[int]int)
	for i := 0; i < t.Leaves; i++ {
		root := find(i)
		id, ok := ids[root]
		if !ok {
			id = len(ids) + 1
			ids[root] = id
		}
		out[labels[i]] = id
	}
	return out
}

// MaxID is the largest cluster id in use (0 for an empty assignment).
func (a Assignment) MaxID() int {
	hi := 0
	for _, id := range a {
		if id > hi {
			hi = id
		}
	}
	return hi
}

// Clusters groups genomes by id; members are sorted.
func (a Assignment) Clusters() map[int][]string {
	out := make(map[int][]string)
	for g, id := range a {
		out[id] = append(out[id], g)
	}
	for id := range out {
		sort.Strings(out[id])
	}
	return out
}

// IDs returns the distinct cluster ids in ascending order.
func (a Assignment) IDs() []int {
	seen := make(map[int]struct{})
	for _, id := range a {
		seen[id] = struct{}{}
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Genomes returns the assigned genomes in sorted order.
func (a Assignment) Genomes() []string {
	out := make([]string, 0, len(a))
	for g := range a {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// ForceSingleton moves ref into a new cluster of its own (max+1). Genomes
// that shared ref's original cluster move together to a second new cluster
// (max+2). The input is left untouched.
func ForceSingleton(a Assignment, ref string) (Assignment, error) {
	orig, ok := a[ref]
	if !ok {
		return nil, &mash.ReferenceGenomeNotFoundError{Reference: ref}
	}
	forced := a.MaxID() + 1
	other := forced + 1

	out := make(Assignment, len(a))
	for g, id := range a {
		switch {
		case g == ref:
			out[g] = forced
		case id == orig:
			out[g] = other
		default:
			out[g] = id
		}
	}
	return out, nil
}

// Representative is the genome standing in for one cluster.
type Representative struct {
	ClusterID int
	Genome    string
	Size      int
}

// Representatives picks the lexicographically smallest genome of every
// cluster, ordered by cluster id.
func Representatives(a Assignment) []Representative {
	groups := a.Clusters()
	out := make([]Representative, 0, len(groups))
	for _, id := range a.IDs() {
		members := groups[id]
		out = append(out, Representative{ClusterID: id, Genome: members[0], Size: len(members)})
	}
	return out
}
