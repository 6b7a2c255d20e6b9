// internal/selectapp/artifacts.go
package selectapp

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"rnaseqkit-core/cluster"
	"rnaseqkit-core/mash"
	"rnaseqkit/internal/blob"
	"rnaseqkit/internal/metrics"
	"rnaseqkit/internal/output"
	"rnaseqkit/pkg/api"
)

// put stores one artifact, tagging it with the run id and its checksum.
func put(ctx context.Context, store blob.Store, m *metrics.Metrics, runID, key, contentType string, data []byte) (api.ArtifactV1, error) {
	sum := sha256.Sum256(data)
	digest := hex.EncodeToString(sum[:])
	info, err := store.Put(ctx, key, bytes.NewReader(data), blob.PutOptions{
		ContentType: contentType,
		Metadata:    map[string]string{"run-id": runID, "sha256": digest},
	})
	if err != nil {
		return api.ArtifactV1{}, err
	}
	m.RowsWritten.WithLabelValues(key).Add(float64(bytes.Count(data, []byte{'\n'})))
	return api.ArtifactV1{Key: info.Key, Size: info.Size, SHA256: digest}, nil
}

type artifact struct {
	key, contentType string
	write            func(io.Writer) error
}

// writeArtifacts renders and stores every table the run produced.
// sel is nil in cluster-only mode; res is nil in farthest-only mode.
func writeArtifacts(ctx context.Context, store blob.Store, m *metrics.Metrics, runID string, mat *mash.Matrix, sel []string, res *cluster.Result) ([]api.ArtifactV1, error) {
	list := []artifact{
		{output.KeyDistanceMatrix, "text/csv", func(w io.Writer) error { return output.WriteMatrixCSV(w, mat) }},
	}
	if sel != nil {
		list = append(list, artifact{output.KeySelected, "text/plain", func(w io.Writer) error { return output.WriteList(w, sel) }})
	}
	if res != nil {
		reps := make([]string, len(res.Representatives))
		for i, r := range res.Representatives {
			reps[i] = r.Genome
		}
		list = append(list,
			artifact{output.KeyClusters, "text/csv", func(w io.Writer) error { return output.WriteClustersCSV(w, res.Final) }},
			artifact{output.KeyRepresentatives, "text/csv", func(w io.Writer) error {
				return output.WriteRepresentativesCSV(w, res.Representatives)
			}},
			artifact{output.KeyRepresentativeList, "text/plain", func(w io.Writer) error { return output.WriteList(w, reps) }},
			artifact{output.KeyLinkage, "text/x-nh", func(w io.Writer) error {
				_, err := io.WriteString(w, res.Tree.Newick(res.Labels)+"\n")
				return err
			}},
		)
	}

	out := make([]api.ArtifactV1, 0, len(list))
	for _, a := range list {
		var buf bytes.Buffer
		if err := a.write(&buf); err != nil {
			return nil, err
		}
		info, err := put(ctx, store, m, runID, a.key, a.contentType, buf.Bytes())
		if err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, nil
}

// verify checks the stored size of every artifact, then reads it back and
// compares its checksum with the one computed before upload.
func verify(ctx context.Context, store blob.Store, arts []api.ArtifactV1) error {
	for _, a := range arts {
		head, err := store.Head(ctx, a.Key)
		if err != nil {
			return fmt.Errorf("verify %s: %w", a.Key, err)
		}
		if head.Size != a.Size {
			return fmt.Errorf("verify %s: stored %d bytes, wrote %d", a.Key, head.Size, a.Size)
		}
		_, rc, err := store.Get(ctx, a.Key)
		if err != nil {
			return fmt.Errorf("verify %s: %w", a.Key, err)
		}
		h := sha256.New()
		_, err = io.Copy(h, rc)
		_ = rc.Close()
		if err != nil {
			return fmt.Errorf("verify %s: %w", a.Key, err)
		}
		if got := hex.EncodeToString(h.Sum(nil)); got != a.SHA256 {
			return fmt.Errorf("verify %s: stored checksum %s, want %s", a.Key, got, a.SHA256)
		}
	}
	return nil
}

// prune deletes known artifacts this run did not produce, so a cluster-only
// run does not leave an older selected_genomes.txt next to its tables.
func prune(ctx context.Context, store blob.Store, arts []api.ArtifactV1) ([]string, error) {
	written := make(map[string]bool, len(arts))
	for _, a := range arts {
		written[a.Key] = true
	}
	var removed []string
	for _, key := range output.ArtifactKeys {
		if written[key] || key == output.KeyManifest {
			continue
		}
		ok, err := store.Delete(ctx, key)
		if err != nil {
			return removed, fmt.Errorf("prune %s: %w", key, err)
		}
		if ok {
			removed = append(removed, key)
		}
	}
	return removed, nil
}
