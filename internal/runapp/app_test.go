package runapp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rnaseqkit/internal/catalog"
	"rnaseqkit/internal/workflow"
	"rnaseqkit/pkg/api"
)

// project lays out <root>/resources/* and a metadata file with two experiments.
func project(t *testing.T) (root, meta string) {
	t.Helper()
	root = t.TempDir()
	for _, name := range workflow.ResourceDirs {
		dir := filepath.Join(root, "resources", name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "x"), []byte(name), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	meta = filepath.Join(root, "labeled01")
	body := "gse\tgsm\tcharacteristics_ch1\nGSE2\tGSM2\twt\ngse1\tGSM1\tmut\n"
	if err := os.WriteFile(meta, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return root, meta
}

func TestDryRunJSONL(t *testing.T) {
	root, meta := project(t)
	finished := filepath.Join(root, "finished.txt")
	if err := os.WriteFile(finished, []byte("GSE2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	logDir := filepath.Join(root, "logs")
	dsn := "sqlite:" + filepath.Join(root, "runs.db")

	var stdout, stderr bytes.Buffer
	code := Run([]string{
		"--dry-run", "--project-root", root, "--pipeline-dir", filepath.Join(root, "pipeline"),
		"--finished", finished, "--log-dir", logDir, "--catalog", dsn, "--output", "jsonl",
		meta, filepath.Join(root, "res"),
	}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("want 2 outcomes, got %q", stdout.String())
	}
	var first, second api.ExperimentV1
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatal(err)
	}
	// Dry runs download nothing, so GSE1 has no samples; GSE2 is finished.
	if first.GSE != "GSE1" || first.Status != "skipped" || first.Detail != "no valid samples" {
		t.Fatalf("first = %+v", first)
	}
	if second.GSE != "GSE2" || second.Detail != "finished" {
		t.Fatalf("second = %+v", second)
	}
	if !strings.Contains(stderr.String(), "dry-run: esearch -db sra -query GSM1 | efetch -format runinfo") {
		t.Fatalf("dry-run command not logged:\n%s", stderr.String())
	}

	logs, err := os.ReadDir(logDir)
	if err != nil || len(logs) != 1 || !strings.HasSuffix(logs[0].Name(), ".log") {
		t.Fatalf("log dir: %v %v", logs, err)
	}
	if _, err := os.Stat(filepath.Join(root, "res", "annotation", "x")); err != nil {
		t.Fatalf("resources not prepared: %v", err)
	}

	ctx := context.Background()
	cat, err := catalog.Open(ctx, dsn)
	if err != nil {
		t.Fatal(err)
	}
	defer cat.Close()
	exps, err := cat.Experiments(ctx, first.RunID)
	if err != nil || len(exps) != 2 || exps[0].GSE != "GSE1" || exps[1].Status != "skipped" {
		t.Fatalf("catalog experiments = %+v err = %v", exps, err)
	}
}

func TestMissingColumnsExit2(t *testing.T) {
	root := t.TempDir()
	meta := filepath.Join(root, "bad.tsv")
	if err := os.WriteFile(meta, []byte("gse\tgsm\nGSE1\tGSM1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	var stderr bytes.Buffer
	if code := Run([]string{"-n", meta, filepath.Join(root, "res")}, io.Discard, &stderr); code != 2 {
		t.Fatalf("exit %d", code)
	}
	if !strings.Contains(stderr.String(), "characteristics_ch1") {
		t.Fatalf("stderr = %q", stderr.String())
	}
}

func TestCancelledExit130(t *testing.T) {
	root, meta := project(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	code := RunContext(ctx, []string{"-n", "--project-root", root, "--finished", "", meta, filepath.Join(root, "res")}, io.Discard, io.Discard)
	if code != 130 {
		t.Fatalf("expected 130, got %d", code)
	}
}
