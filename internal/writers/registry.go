// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"

	"rnaseqkit/pkg/api"
)

// Summary writer registry (format → handler). Register in init() blocks.
var SelectionWriters = map[string]func(w io.Writer, s api.SelectionV1) error{}

// RegisterSelection is idempotent, last wins.
func RegisterSelection(format string, fn func(io.Writer, api.SelectionV1) error) {
	SelectionWriters[format] = fn
}

// WriteSelection dispatches on format.
func WriteSelection(format string, w io.Writer, s api.SelectionV1) error {
	fn, ok := SelectionWriters[format]
	if !ok {
		return fmt.Errorf("unknown selection format %q (no writer registered)", format)
	}
	return fn(w, s)
}
