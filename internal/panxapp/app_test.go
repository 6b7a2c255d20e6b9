package panxapp

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPanxBuildsTranscriptome(t *testing.T) {
	in := t.TempDir()
	files := map[string]string{
		"geneB_refined_na_aln.fa": ">W3110|thrA\nATGCGA\n",
		"geneA_refined_na_aln.fa": ">W3110|thrL\nATG\n>MG1655|thrL\nATG\n",
		"notes.txt":               "ignored",
	}
	for n, body := range files {
		if err := os.WriteFile(filepath.Join(in, n), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	out := t.TempDir()
	fa := filepath.Join(out, "core.fa")
	mp := filepath.Join(out, "map.tsv")

	var stdout, stderr bytes.Buffer
	if code := Run([]string{"--fasta", fa, "--mapping", mp, in}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	gotFA, _ := os.ReadFile(fa)
	if want := ">W3110|thrL|orth_00001\nATG\n>MG1655|thrL|orth_00001\nATG\n>W3110|thrA|orth_00002\nATGCGA\n"; string(gotFA) != want {
		t.Fatalf("fasta = %q", gotFA)
	}
	gotMap, _ := os.ReadFile(mp)
	if want := "transcript_id\torthogroup\nW3110|thrL\torth_00001\nMG1655|thrL\torth_00001\nW3110|thrA\torth_00002\n"; string(gotMap) != want {
		t.Fatalf("mapping = %q", gotMap)
	}
	if !strings.Contains(stdout.String(), "Wrote 2 orthogroups (3 records)") {
		t.Fatalf("stdout = %q", stdout.String())
	}
}

func TestPanxEmptyDirExit1(t *testing.T) {
	var stderr bytes.Buffer
	out := t.TempDir()
	code := Run([]string{"--fasta", filepath.Join(out, "a.fa"), "--mapping", filepath.Join(out, "m.tsv"), t.TempDir()}, io.Discard, &stderr)
	if code != 1 || !strings.Contains(stderr.String(), "WARN: no *_refined_na_aln.fa") {
		t.Fatalf("exit %d stderr %q", code, stderr.String())
	}
}

func TestPanxNotADirectory(t *testing.T) {
	if code := Run([]string{filepath.Join(t.TempDir(), "missing")}, io.Discard, io.Discard); code != 2 {
		t.Fatalf("exit %d", code)
	}
}
