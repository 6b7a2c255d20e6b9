// Package catalog records finished runs in a SQL database so selections and
// cluster tables from many runs can be compared later. SQLite (pure Go) is
// the local default; a postgres:// DSN goes through pgx.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // pure go sqlite driver
)

type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

// Catalog is a handle on the results database.
type Catalog struct {
	db      *sql.DB
	dialect dialect
}

// Open connects to dsn and creates the schema if needed.
//
//	sqlite:path/to/runs.db   SQLite file
//	sqlite::memory:          private in-memory SQLite (tests)
//	postgres://...           Postgres via pgx
func Open(ctx context.Context, dsn string) (*Catalog, error) {
	var (
		driver, source string
		d              dialect
	)
	switch {
	case strings.HasPrefix(dsn, "sqlite:"):
		driver, source, d = "sqlite", strings.TrimPrefix(dsn, "sqlite:"), dialectSQLite
		if source == "" {
			return nil, fmt.Errorf("catalog: sqlite DSN needs a path")
		}
		if source != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(source), 0o750); err != nil {
				return nil, fmt.Errorf("catalog: create dirs: %w", err)
			}
		}
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		driver, source, d = "pgx", dsn, dialectPostgres
	default:
		return nil, fmt.Errorf("catalog: unsupported DSN %q (want sqlite:<path> or postgres://...)", dsn)
	}
	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", driver, err)
	}
	if d == dialectSQLite {
		// one writer; also keeps :memory: to a single shared database
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("catalog: ping %s: %w", driver, err)
	}
	c := &Catalog{db: db, dialect: d}
	if err := c.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Catalog) Close() error { return c.db.Close() }

var schema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id         TEXT PRIMARY KEY,
		tool       TEXT NOT NULL,
		version    TEXT NOT NULL,
		mode       TEXT NOT NULL,
		reference  TEXT NOT NULL,
		k          INTEGER NOT NULL,
		threshold  DOUBLE PRECISION NOT NULL,
		genomes    INTEGER NOT NULL,
		started_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS selections (
		run_id TEXT NOT NULL,
		rank   INTEGER NOT NULL,
		genome TEXT NOT NULL,
		PRIMARY KEY (run_id, rank)
	)`,
	`CREATE TABLE IF NOT EXISTS clusters (
		run_id         TEXT NOT NULL,
		genome         TEXT NOT NULL,
		cluster_id     INTEGER NOT NULL,
		representative INTEGER NOT NULL,
		PRIMARY KEY (run_id, genome)
	)`,
	`CREATE TABLE IF NOT EXISTS experiments (
		run_id  TEXT NOT NULL,
		gse     TEXT NOT NULL,
		status  TEXT NOT NULL,
		samples INTEGER NOT NULL,
		detail  TEXT NOT NULL,
		PRIMARY KEY (run_id, gse)
	)`,
}

func (c *Catalog) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := c.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("catalog: create schema: %w", err)
		}
	}
	return nil
}

// rebind rewrites '?' placeholders to $1..$n for Postgres.
func (c *Catalog) rebind(q string) string {
	if c.dialect != dialectPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Run is one row of the runs table.
type Run struct {
	ID        string
	Tool      string
	Version   string
	Mode      string
	Reference string
	K         int
	Threshold float64
	Genomes   int
	StartedAt time.Time
}

// RecordRun inserts r.
func (c *Catalog) RecordRun(ctx context.Context, r Run) error {
	_, err := c.db.ExecContext(ctx, c.rebind(`INSERT INTO runs (id, tool, version, mode, reference, k, threshold, genomes, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		r.ID, r.Tool, r.Version, r.Mode, r.Reference, r.K, r.Threshold, r.Genomes, r.StartedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("catalog: insert run %s: %w", r.ID, err)
	}
	return nil
}

// Runs lists recorded runs, oldest first.
func (c *Catalog) Runs(ctx context.Context) ([]Run, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT id, tool, version, mode, reference, k, threshold, genomes, started_at FROM runs ORDER BY started_at, id`)
	if err != nil {
		return nil, fmt.Errorf("catalog: select runs: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []Run
	for rows.Next() {
		var r Run
		var started string
		if err := rows.Scan(&r.ID, &r.Tool, &r.Version, &r.Mode, &r.Reference, &r.K, &r.Threshold, &r.Genomes, &started); err != nil {
			return nil, fmt.Errorf("catalog: scan run: %w", err)
		}
		if r.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("catalog: run %s: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// inTx runs fn inside a transaction.
func (c *Catalog) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
