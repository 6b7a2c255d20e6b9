package output

import "testing"

func TestHeaders_Stable(t *testing.T) {
	if ClustersHeader != "genome,cluster" || RepresentativesHeader != "cluster,genome,size" {
		t.Fatalf("cluster table headers changed")
	}
	if GeneTPMHeader != "Gene\tTPM" {
		t.Fatalf("GeneTPMHeader changed: %q", GeneTPMHeader)
	}
}

func TestArtifactKeys_Stable(t *testing.T) {
	keys := ArtifactKeys
	want := []string{"distance_matrix.csv", "selected_genomes.txt", "clusters.csv", "representatives.csv", "representatives.txt", "linkage.nwk", "manifest.json"}
	if len(keys) != len(want) {
		t.Fatalf("ArtifactKeys has %d keys, want %d", len(keys), len(want))
	}
	for i := range keys {
		if keys[i] != want[i] {
			t.Fatalf("artifact key %d = %q, want %q", i, keys[i], want[i])
		}
	}
}
