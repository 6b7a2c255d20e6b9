// internal/writers/selection.go
package writers

import (
	"fmt"
	"io"
	"strings"

	"rnaseqkit/internal/jsonutil"
	"rnaseqkit/internal/output"
	"rnaseqkit/pkg/api"
)

func init() {
	RegisterSelection(output.FormatText, writeSelectionText)
	RegisterSelection(output.FormatJSON, func(w io.Writer, s api.SelectionV1) error { return jsonutil.EncodePretty(w, s) })
}

// writeSelectionText prints a short human summary: header lines prefixed
// with '#', then the selected genomes and the representatives.
func writeSelectionText(w io.Writer, s api.SelectionV1) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# run\t%s\n", s.RunID)
	fmt.Fprintf(&b, "# reference\t%s\n", s.Reference)
	fmt.Fprintf(&b, "# genomes\t%d\n", s.Genomes)
	if s.MissingPairs > 0 {
		fmt.Fprintf(&b, "# missing_pairs\t%d\n", s.MissingPairs)
	}
	for _, g := range s.Excluded {
		fmt.Fprintf(&b, "# excluded\t%s\n", g)
	}
	for i, g := range s.Selected {
		fmt.Fprintf(&b, "selected\t%d\t%s\n", i+1, g)
	}
	for _, r := range s.Representatives {
		fmt.Fprintf(&b, "representative\t%d\t%s\t%d\n", r.ClusterID, r.Genome, r.Size)
	}
	for _, a := range s.Artifacts {
		fmt.Fprintf(&b, "# artifact\t%s\t%d\n", a.Key, a.Size)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
