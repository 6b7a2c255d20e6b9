// internal/writers/brokenpipe.go
package writers

import (
	"errors"
	"io"
	"syscall"
)

// IsBrokenPipe reports whether err is EPIPE or a closed pipe, as when `head` stops reading.
func IsBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}
