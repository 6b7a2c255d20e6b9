package partitionapp

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const labeled = "gse\tgsm\tcharacteristics_ch1\n" +
	"GSE1\tGSM1\twt\n" +
	"GSE2\tGSM2\twt\n" +
	"GSE2\tGSM3\tmut\n" +
	"GSE3\tGSM4\twt\n"

func writeInput(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "labeled.txt")
	if err := os.WriteFile(p, []byte(labeled), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestPartitionWritesEveryPart(t *testing.T) {
	out := t.TempDir()
	var stdout, stderr bytes.Buffer
	if code := Run([]string{"-n", "3", "-o", out, writeInput(t)}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	// sizes GSE1=1 GSE2=2 GSE3=1 → sorted GSE1, GSE3, GSE2; one per part.
	want := "Wrote 1 rows to labeled01\nWrote 1 rows to labeled02\nWrote 2 rows to labeled03\n"
	if stdout.String() != want {
		t.Fatalf("stdout = %q", stdout.String())
	}
	b, err := os.ReadFile(filepath.Join(out, "labeled02"))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "gse\tgsm\tcharacteristics_ch1\nGSE3\tGSM4\twt\n" {
		t.Fatalf("labeled02 = %q", b)
	}
}

func TestPartitionEmptyPartsGetHeader(t *testing.T) {
	out := t.TempDir()
	if code := Run([]string{"--prefix", "batch", "-o", out, writeInput(t)}, io.Discard, io.Discard); code != 0 {
		t.Fatalf("exit %d", code)
	}
	b, err := os.ReadFile(filepath.Join(out, "batch10"))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "gse\tgsm\tcharacteristics_ch1\n" {
		t.Fatalf("batch10 = %q", b)
	}
}

func TestPartitionMissingColumn(t *testing.T) {
	var stderr bytes.Buffer
	if code := Run([]string{"--column", "series", "-o", t.TempDir(), writeInput(t)}, io.Discard, &stderr); code != 2 {
		t.Fatalf("exit %d", code)
	}
	if !strings.Contains(stderr.String(), `no "series" column`) {
		t.Fatalf("stderr = %q", stderr.String())
	}
}

func TestPartitionCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if code := RunContext(ctx, []string{"-o", t.TempDir(), writeInput(t)}, io.Discard, io.Discard); code != 130 {
		t.Fatalf("expected 130, got %d", code)
	}
}
