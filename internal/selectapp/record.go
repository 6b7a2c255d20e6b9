// internal/selectapp/record.go
package selectapp

import (
	"context"
	"time"

	"rnaseqkit-core/cluster"
	"rnaseqkit/internal/catalog"
	"rnaseqkit/internal/selectcli"
	"rnaseqkit/pkg/api"
)

// record stores the run, its selection and its clusters in the catalog.
func record(ctx context.Context, opts selectcli.Options, s api.SelectionV1, started time.Time, res *cluster.Result) error {
	cat, err := catalog.Open(ctx, opts.Catalog)
	if err != nil {
		return err
	}
	defer cat.Close()

	if err := cat.RecordRun(ctx, catalog.Run{
		ID:        s.RunID,
		Tool:      tool,
		Version:   s.Version,
		Mode:      s.Mode,
		Reference: s.Reference,
		K:         s.K,
		Threshold: s.Threshold,
		Genomes:   s.Genomes,
		StartedAt: started,
	}); err != nil {
		return err
	}
	if len(s.Selected) > 0 {
		if err := cat.RecordSelection(ctx, s.RunID, s.Selected); err != nil {
			return err
		}
	}
	if res == nil {
		return nil
	}
	rep := map[string]bool{}
	for _, r := range res.Representatives {
		rep[r.Genome] = true
	}
	members := make([]catalog.Membership, 0, len(s.Clusters))
	for _, c := range s.Clusters {
		members = append(members, catalog.Membership{Genome: c.Genome, ClusterID: c.ClusterID, Representative: rep[c.Genome]})
	}
	return cat.RecordClusters(ctx, s.RunID, members)
}
