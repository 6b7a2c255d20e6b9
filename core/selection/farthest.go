// core/selection/farthest.go
package selection

import (
	"errors"
	"fmt"

	"github.com/emirpasic/gods/sets/treeset"

	"rnaseqkit-core/mash"
)

// ErrInvalidCount is returned for a target count below 1.
var ErrInvalidCount = errors.New("selection count must be ≥ 1")

// InsufficientGenomesError reports a target count larger than the population.
type InsufficientGenomesError struct {
	K, Available int
}

func (e *InsufficientGenomesError) Error() string {
	return fmt.Sprintf("cannot select %d genomes from %d", e.K, e.Available)
}

// Distancer is satisfied by *mash.Table.
type Distancer interface {
	Distance(a, b string) float64
}

// FarthestPoint grows a selection from start, each step adding the remaining
// genome whose minimum distance to the selection is largest. Candidates are
// scanned in sorted id order and only a strictly larger value replaces the
// current best, so ties go to the smallest id. The first candidate always
// seeds the best, so an incomparable distance never yields an empty pick.
func FarthestPoint(d Distancer, genomes []string, start string, k int) ([]string, error) {
	if k < 1 {
		return nil, ErrInvalidCount
	}
	remaining := treeset.NewWithStringComparator()
	for _, g := range genomes {
		remaining.Add(g)
	}
	if k > remaining.Size() {
		return nil, &InsufficientGenomesError{K: k, Available: remaining.Size()}
	}
	if !remaining.Contains(start) {
		return nil, &mash.ReferenceGenomeNotFoundError{Reference: start}
	}

	selected := make([]string, 0, k)
	selected = append(selected, start)
	remaining.Remove(start)

	for len(selected) < k {
		best, bestDist := "", -1.0
		it := remaining.Iterator()
		for it.Next() {
			g := it.Value().(string)
			if md := minDistance(d, g, selected); best == "" || md > bestDist {
				best, bestDist = g, md
			}
		}
		selected = append(selected, best)
		remaining.Remove(best)
	}
	return selected, nil
}

func minDistance(d Distancer, g string, selected []string) float64 {
	lo := d.Distance(g, selected[0])
	for _, s := range selected[1:] {
		if v := d.Distance(g, s); v < lo {
			lo = v
		}
	}
	return lo
}
