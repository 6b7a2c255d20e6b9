package writers

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"rnaseqkit-core/quant"
	"rnaseqkit/pkg/api"
)

func TestUnknownSelectionFormatError(t *testing.T) {
	err := WriteSelection("nope-format", new(bytes.Buffer), api.SelectionV1{})
	if err == nil || !strings.Contains(err.Error(), "unknown selection format") {
		t.Fatalf("want 'unknown selection format' error, got: %v", err)
	}
}

func TestSelectionText(t *testing.T) {
	var b bytes.Buffer
	s := api.SelectionV1{RunID: "r1", Reference: "A", Genomes: 4, Selected: []string{"A", "C"},
		Representatives: []api.RepresentativeV1{{ClusterID: 2, Genome: "C", Size: 2}}}
	if err := WriteSelection("text", &b, s); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"# reference\tA\n", "selected\t2\tC\n", "representative\t2\tC\t2\n"} {
		if !strings.Contains(b.String(), want) {
			t.Fatalf("text summary missing %q:\n%s", want, b.String())
		}
	}
}

func TestSelectionJSON(t *testing.T) {
	var b bytes.Buffer
	if err := WriteSelection("json", &b, api.SelectionV1{RunID: "r1", Selected: []string{"A"}}); err != nil {
		t.Fatal(err)
	}
	var v api.SelectionV1
	if err := json.Unmarshal(b.Bytes(), &v); err != nil || v.RunID != "r1" || len(v.Selected) != 1 {
		t.Fatalf("json: %v %+v", err, v)
	}
}

func TestUnknownGeneFormatError(t *testing.T) {
	in, done := StartGeneWriter(new(bytes.Buffer), "wat", true, 1)
	in <- quant.GeneTPM{Gene: "thrL"}
	close(in)
	if err := <-done; err == nil || !strings.Contains(err.Error(), "unsupported output") {
		t.Fatalf("want unsupported output error, got %v", err)
	}
}
