// core/cluster/select.go
package cluster

import "rnaseqkit-core/mash"

// DefaultThreshold is the flat-cut height used for E. coli Mash distances.
const DefaultThreshold = 0.015

// Result holds every intermediate of a clustering run.
type Result struct {
	Reference       string
	Threshold       float64
	Tree            Tree
	Labels          []string
	Initial         Assignment // straight from the cut
	Final           Assignment // after the reference is isolated
	Representatives []Representative
}

// Select clusters m by average linkage, cuts at tau, isolates ref in its own
// cluster and picks one representative per cluster.
func Select(m *mash.Matrix, ref string, tau float64) (Result, error) {
	if m.Index(ref) < 0 {
		return Result{}, &mash.ReferenceGenomeNotFoundError{Reference: ref}
	}
	labels := m.Labels()
	tree := Linkage(m)
	initial := tree.Cut(labels, tau)

	final, err := ForceSingleton(initial, ref)
	if err != nil {
		return Result{}, err
	}
	if len(final) != len(labels) {
		return Result{}, &ClusterCountMismatchError{Got: len(final), Want: len(labels)}
	}

	return Result{
		Reference:       ref,
		Threshold:       tau,
		Tree:            tree,
		Labels:          labels,
		Initial:         initial,
		Final:           final,
		Representatives: Representatives(final),
	}, nil
}
