package writers

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	"rnaseqkit-core/quant"
	"rnaseqkit/pkg/api"
)

func runGenes(t *testing.T, format string, header bool) string {
	t.Helper()
	var b bytes.Buffer
	in, done := StartGeneWriter(&b, format, header, 2)
	in <- quant.GeneTPM{Orthogroup: "orth_00001", Gene: "thrL", TPM: 12.5}
	in <- quant.GeneTPM{Orthogroup: "orth_00002", Gene: "thrA", TPM: 3}
	close(in)
	if err := <-done; err != nil {
		t.Fatalf("%s: %v", format, err)
	}
	return b.String()
}

func TestGeneTSV(t *testing.T) {
	if got := runGenes(t, "tsv", true); got != "Gene\tTPM\nthrL\t12.5\nthrA\t3\n" {
		t.Fatalf("tsv = %q", got)
	}
	if got := runGenes(t, "tsv", false); got != "thrL\t12.5\nthrA\t3\n" {
		t.Fatalf("tsv no header = %q", got)
	}
}

func TestGeneJSONL(t *testing.T) {
	sc := bufio.NewScanner(bytes.NewBufferString(runGenes(t, "jsonl", false)))
	n := 0
	for sc.Scan() {
		var g api.GeneTPMV1
		if err := json.Unmarshal(sc.Bytes(), &g); err != nil {
			t.Fatalf("line %d: %v", n, err)
		}
		n++
	}
	if n != 2 {
		t.Fatalf("want 2 lines, got %d", n)
	}
}

func TestGeneJSON(t *testing.T) {
	var v []api.GeneTPMV1
	if err := json.Unmarshal([]byte(runGenes(t, "json", false)), &v); err != nil {
		t.Fatal(err)
	}
	if len(v) != 2 || v[0].Orthogroup != "orth_00001" || v[0].TPM != 12.5 {
		t.Fatalf("json = %+v", v)
	}
}
