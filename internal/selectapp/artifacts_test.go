package selectapp

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"rnaseqkit/internal/blob"
	"rnaseqkit/internal/metrics"
	"rnaseqkit/internal/output"
	"rnaseqkit/pkg/api"
)

func TestVerifyDetectsChangedArtifact(t *testing.T) {
	ctx := context.Background()
	store := blob.NewMemory()
	m := metrics.New(tool)
	info, err := put(ctx, store, m, "run-1", output.KeySelected, "text/plain", []byte("a\nb\n"))
	if err != nil {
		t.Fatal(err)
	}
	if err := verify(ctx, store, []api.ArtifactV1{info}); err != nil {
		t.Fatalf("untouched artifact: %v", err)
	}
	if _, err := store.Put(ctx, output.KeySelected, strings.NewReader("a\nc\n"), blob.PutOptions{}); err != nil {
		t.Fatal(err)
	}
	if err := verify(ctx, store, []api.ArtifactV1{info}); err == nil || !strings.Contains(err.Error(), "checksum") {
		t.Fatalf("want checksum mismatch, got %v", err)
	}
	if _, err := store.Put(ctx, output.KeySelected, strings.NewReader("a\n"), blob.PutOptions{}); err != nil {
		t.Fatal(err)
	}
	if err := verify(ctx, store, []api.ArtifactV1{info}); err == nil || !strings.Contains(err.Error(), "stored 2 bytes") {
		t.Fatalf("want size mismatch, got %v", err)
	}
}

func TestPruneOnlyKnownKeys(t *testing.T) {
	ctx := context.Background()
	store := blob.NewMemory()
	for _, k := range []string{output.KeySelected, output.KeyClusters, output.KeyManifest, "notes.txt"} {
		if _, err := store.Put(ctx, k, strings.NewReader("x"), blob.PutOptions{}); err != nil {
			t.Fatal(err)
		}
	}
	removed, err := prune(ctx, store, []api.ArtifactV1{{Key: output.KeyClusters}})
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{output.KeySelected}; !reflect.DeepEqual(removed, want) {
		t.Fatalf("removed = %v, want %v", removed, want)
	}
	for _, k := range []string{output.KeyClusters, output.KeyManifest, "notes.txt"} {
		if _, err := store.Head(ctx, k); err != nil {
			t.Fatalf("%s should survive: %v", k, err)
		}
	}
}
