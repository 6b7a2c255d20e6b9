// internal/writers/experiments.go
package writers

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"rnaseqkit/internal/jsonlutil"
	"rnaseqkit/internal/output"
	"rnaseqkit/pkg/api"
)

// StartExperimentWriter streams per-experiment outcomes as they finish.
// text: "gse<TAB>status<TAB>samples<TAB>detail"; jsonl: one ExperimentV1 per line.
func StartExperimentWriter(out io.Writer, format string, bufSize int) (chan<- api.ExperimentV1, <-chan error) {
	if format == output.FormatJSONL {
		return jsonlutil.Start[api.ExperimentV1](out, bufSize,
			func(enc *json.Encoder, e api.ExperimentV1) error { return enc.Encode(e) },
			IsBrokenPipe,
		)
	}
	if bufSize <= 0 {
		bufSize = 16
	}
	in := make(chan api.ExperimentV1, bufSize)
	errCh := make(chan error, 1)
	go func() {
		var err error
		if format != output.FormatText {
			err = fmt.Errorf("unsupported output %q", format)
		}
		for e := range in {
			if err != nil {
				continue
			}
			_, err = fmt.Fprintf(out, "%s\t%s\t%d\t%s\n", e.GSE, e.Status, len(e.Samples), strings.ReplaceAll(e.Detail, "\t", " "))
		}
		errCh <- err
	}()
	return in, errCh
}
