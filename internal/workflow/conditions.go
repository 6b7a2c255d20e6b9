// internal/workflow/conditions.go
package workflow

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeCharacteristic folds compatibility forms (NBSP, full-width
// letters, ligatures) so GEO labels that look the same compare the same.
func NormalizeCharacteristic(s string) string {
	return strings.TrimSpace(norm.NFKC.String(s))
}

// Conditions maps every sample to group1..N, numbering the distinct
// normalized characteristics in sorted order. labels[i] is the
// characteristic behind group i+1.
func Conditions(chars map[string]string) (groups map[string]string, labels []string) {
	seen := map[string]bool{}
	for _, c := range chars {
		c = NormalizeCharacteristic(c)
		if !seen[c] {
			seen[c] = true
			labels = append(labels, c)
		}
	}
	sort.Strings(labels)
	name := make(map[string]string, len(labels))
	for i, c := range labels {
		name[c] = fmt.Sprintf("group%d", i+1)
	}
	groups = make(map[string]string, len(chars))
	for sample, c := range chars {
		groups[sample] = name[NormalizeCharacteristic(c)]
	}
	return groups, labels
}
