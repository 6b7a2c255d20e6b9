// internal/cmdutil/log.go
package cmdutil

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

func Warnf(dst io.Writer, quiet bool, format string, a ...any) {
	if quiet {
		return
	}
	_, _ = fmt.Fprintf(dst, "WARN: "+format+"\n", a...)
}

// RunLog is the timestamped log of one long-running invocation. Lines go to
// stderr and, when a log directory is given, to <dir>/<run id>.log.
type RunLog struct {
	*log.Logger
	ID   string
	Path string
	file *os.File
}

// OpenRunLog starts a run log. The run id is a fresh UUID.
func OpenRunLog(stderr io.Writer, dir string) (*RunLog, error) {
	id := uuid.NewString()
	rl := &RunLog{ID: id}
	dst := stderr
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		rl.Path = filepath.Join(dir, id+".log")
		fid, err := os.Create(rl.Path)
		if err != nil {
			return nil, err
		}
		rl.file = fid
		dst = io.MultiWriter(stderr, fid)
	}
	rl.Logger = log.New(dst, "", log.Ldate|log.Ltime)
	return rl, nil
}

func (l *RunLog) Infof(format string, a ...any)  { l.Printf("[INFO] "+format, a...) }
func (l *RunLog) Warnf(format string, a ...any)  { l.Printf("[WARN] "+format, a...) }
func (l *RunLog) Errorf(format string, a ...any) { l.Printf("[ERROR] "+format, a...) }

// Close syncs and closes the log file, if any.
func (l *RunLog) Close() error {
	if l.file == nil {
		return nil
	}
	if err := l.file.Sync(); err != nil {
		_ = l.file.Close()
		return err
	}
	return l.file.Close()
}
