package catalog

import (
	"context"
	"database/sql"
	"fmt"
)

// RecordSelection stores the ordered farthest-point selection of a run.
func (c *Catalog) RecordSelection(ctx context.Context, runID string, genomes []string) error {
	return c.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, c.rebind(`INSERT INTO selections (run_id, rank, genome) VALUES (?, ?, ?)`))
		if err != nil {
			return fmt.Errorf("catalog: prepare selection: %w", err)
		}
		defer func() { _ = stmt.Close() }()
		for i, g := range genomes {
			if _, err := stmt.ExecContext(ctx, runID, i+1, g); err != nil {
				return fmt.Errorf("catalog: insert selection %s: %w", g, err)
			}
		}
		return nil
	})
}

// Selection returns the recorded selection of runID in rank order.
func (c *Catalog) Selection(ctx context.Context, runID string) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, c.rebind(`SELECT genome FROM selections WHERE run_id = ? ORDER BY rank`), runID)
	if err != nil {
		return nil, fmt.Errorf("catalog: select selection: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []string
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Membership is one genome's final cluster.
type Membership struct {
	Genome         string
	ClusterID      int
	Representative bool
}

// RecordClusters stores the final cluster assignment of a run.
func (c *Catalog) RecordClusters(ctx context.Context, runID string, members []Membership) error {
	return c.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, c.rebind(`INSERT INTO clusters (run_id, genome, cluster_id, representative) VALUES (?, ?, ?, ?)`))
		if err != nil {
			return fmt.Errorf("catalog: prepare clusters: %w", err)
		}
		defer func() { _ = stmt.Close() }()
		for _, m := range members {
			rep := 0
			if m.Representative {
				rep = 1
			}
			if _, err := stmt.ExecContext(ctx, runID, m.Genome, m.ClusterID, rep); err != nil {
				return fmt.Errorf("catalog: insert cluster row %s: %w", m.Genome, err)
			}
		}
		return nil
	})
}

// Clusters returns the recorded assignment of runID ordered by cluster, genome.
func (c *Catalog) Clusters(ctx context.Context, runID string) ([]Membership, error) {
	rows, err := c.db.QueryContext(ctx, c.rebind(`SELECT genome, cluster_id, representative FROM clusters WHERE run_id = ? ORDER BY cluster_id, genome`), runID)
	if err != nil {
		return nil, fmt.Errorf("catalog: select clusters: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []Membership
	for rows.Next() {
		var m Membership
		var rep int
		if err := rows.Scan(&m.Genome, &m.ClusterID, &rep); err != nil {
			return nil, err
		}
		m.Representative = rep != 0
		out = append(out, m)
	}
	return out, rows.Err()
}

// Experiment is the outcome of one orchestrated GEO series.
type Experiment struct {
	GSE     string
	Status  string // done | skipped | failed
	Samples int
	Detail  string
}

// RecordExperiment stores (or replaces) the outcome of one experiment.
func (c *Catalog) RecordExperiment(ctx context.Context, runID string, e Experiment) error {
	return c.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, c.rebind(`DELETE FROM experiments WHERE run_id = ? AND gse = ?`), runID, e.GSE); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, c.rebind(`INSERT INTO experiments (run_id, gse, status, samples, detail) VALUES (?, ?, ?, ?, ?)`),
			runID, e.GSE, e.Status, e.Samples, e.Detail)
		if err != nil {
			return fmt.Errorf("catalog: insert experiment %s: %w", e.GSE, err)
		}
		return nil
	})
}

// Experiments lists the experiments of runID by gse.
func (c *Catalog) Experiments(ctx context.Context, runID string) ([]Experiment, error) {
	rows, err := c.db.QueryContext(ctx, c.rebind(`SELECT gse, status, samples, detail FROM experiments WHERE run_id = ? ORDER BY gse`), runID)
	if err != nil {
		return nil, fmt.Errorf("catalog: select experiments: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []Experiment
	for rows.Next() {
		var e Experiment
		if err := rows.Scan(&e.GSE, &e.Status, &e.Samples, &e.Detail); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
