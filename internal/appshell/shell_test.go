package appshell

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStartCPUProfileDisabled(t *testing.T) {
	stop := StartCPUProfile("")
	stop()
}

func TestStartCPUProfileWritesFile(t *testing.T) {
	dir := t.TempDir()
	stop := StartCPUProfile(dir)
	stop()
	if _, err := os.Stat(filepath.Join(dir, "cpu.pprof")); err != nil {
		t.Fatalf("cpu profile not written: %v", err)
	}
}
