// internal/writers/genes.go
package writers

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"rnaseqkit-core/quant"
	"rnaseqkit/internal/jsonlutil"
	"rnaseqkit/internal/jsonutil"
	"rnaseqkit/internal/output"
	"rnaseqkit/pkg/api"
)

// ToAPIGene converts a core row to the v1 wire type.
func ToAPIGene(g quant.GeneTPM) api.GeneTPMV1 {
	return api.GeneTPMV1{Orthogroup: g.Orthogroup, Gene: g.Gene, NumReads: g.NumReads, EffectiveLength: g.EffectiveLength, TPM: g.TPM}
}

// StartGeneWriter spins up a writer goroutine for aggregated TPM rows.
// tsv/text stream; json buffers into one array; jsonl streams one object per line.
func StartGeneWriter(out io.Writer, format string, header bool, bufSize int) (chan<- quant.GeneTPM, <-chan error) {
	if format == output.FormatJSONL {
		return jsonlutil.Start[quant.GeneTPM](out, bufSize,
			func(enc *json.Encoder, g quant.GeneTPM) error { return enc.Encode(ToAPIGene(g)) },
			IsBrokenPipe,
		)
	}
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan quant.GeneTPM, bufSize)
	errCh := make(chan error, 1)

	go func() {
		var err error
		switch format {
		case output.FormatTSV, output.FormatText:
			if header {
				_, err = fmt.Fprintln(out, output.GeneTPMHeader)
			}
			for g := range in {
				if err != nil {
					continue // drain
				}
				_, err = fmt.Fprintf(out, "%s\t%s\n", g.Gene, strconv.FormatFloat(g.TPM, 'g', -1, 64))
			}
		case output.FormatJSON:
			buf := []api.GeneTPMV1{}
			for g := range in {
				buf = append(buf, ToAPIGene(g))
			}
			err = jsonutil.EncodePretty(out, buf)
		default:
			for range in {
			}
			err = fmt.Errorf("unsupported output %q", format)
		}
		errCh <- err
	}()
	return in, errCh
}
