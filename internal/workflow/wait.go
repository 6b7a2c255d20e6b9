// internal/workflow/wait.go
package workflow

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// Polling defaults for freshly downloaded reads.
const (
	DefaultWaitInterval = 5 * time.Second
	DefaultWaitTimeout  = 300 * time.Second
)

// ErrFilesNotReady is returned when the reads do not settle in time.
var ErrFilesNotReady = errors.New("not all FASTQ files became ready")

// pending returns the first path that is missing or still empty.
func pending(paths []string) (string, string) {
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			return p, "not found yet"
		}
		if fi.Size() == 0 {
			return p, "0 bytes, flushing"
		}
	}
	return "", ""
}

// WaitForFiles polls until every path exists with a non-zero size.
func WaitForFiles(ctx context.Context, paths []string, interval, timeout time.Duration, log Logger) error {
	if interval <= 0 {
		interval = DefaultWaitInterval
	}
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}
	start := time.Now()
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for {
		p, why := pending(paths)
		if p == "" {
			log.Infof("All %d FASTQ files are ready after %d seconds.", len(paths), int(time.Since(start).Seconds()))
			return nil
		}
		log.Infof("Waiting for: %s (%s)", filepath.Base(p), why)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return ErrFilesNotReady
		case <-tick.C:
		}
	}
}
