// internal/selectapp/app.go
package selectapp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"rnaseqkit-core/cluster"
	"rnaseqkit-core/mash"
	"rnaseqkit-core/selection"
	"rnaseqkit/internal/appshell"
	"rnaseqkit/internal/blob"
	"rnaseqkit/internal/cmdutil"
	"rnaseqkit/internal/jsonutil"
	"rnaseqkit/internal/metrics"
	"rnaseqkit/internal/output"
	"rnaseqkit/internal/selectcli"
	"rnaseqkit/internal/tabio"
	"rnaseqkit/internal/version"
	"rnaseqkit/internal/writers"
	"rnaseqkit/pkg/api"
)

const tool = "rnaseqkit-select"

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriterSize(stdout, 64<<10)

	fs := selectcli.NewFlagSet(tool)
	fs.SetOutput(io.Discard) // silence default flag pkg

	if len(argv) == 0 {
		argv = []string{"-h"}
	}
	opts, err := selectcli.ParseArgs(fs, argv)
	if err != nil {
		return cmdutil.ParseExit(fs, outw, stderr, err, selectcli.PrintExamples)
	}
	if opts.Version {
		return cmdutil.Version(outw, stderr, tool)
	}

	stopProfile := appshell.StartCPUProfile(opts.CPUProfile)
	defer stopProfile()

	m := metrics.New(tool)
	code := run(ctx, opts, m, outw, stderr)
	if code == 0 {
		m.MarkSuccess()
	}
	if err := m.WriteFile(opts.MetricsFile); err != nil {
		cmdutil.Warnf(stderr, opts.Quiet, "metrics: %v", err)
	}
	return cmdutil.Finish(outw, stderr, code)
}

// exitCode maps domain errors to the input (2) or runtime (3) class.
// Open and read failures fall through to 3.
func exitCode(err error) int {
	var (
		parseErr     *mash.ParseError
		missingRef   *mash.MissingReferenceError
		refNotFound  *mash.ReferenceGenomeNotFoundError
		insufficient *selection.InsufficientGenomesError
	)
	switch {
	case errors.Is(err, context.Canceled):
		return 130
	case errors.As(err, &parseErr), errors.As(err, &missingRef), errors.As(err, &refNotFound), errors.As(err, &insufficient),
		errors.Is(err, selection.ErrInvalidCount):
		return 2
	default:
		return 3
	}
}

func loadTable(path string, opts selectcli.Options) (*mash.Table, error) {
	rc, err := tabio.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	records, err := mash.ReadRecords(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	markers := opts.Markers
	if opts.Reference != "" {
		markers = []string{opts.Reference}
	}
	return mash.Build(records, mash.Options{DefaultDistance: opts.DefaultDistance, ReferenceMarkers: markers})
}

func run(ctx context.Context, opts selectcli.Options, m *metrics.Metrics, outw *bufio.Writer, stderr io.Writer) int {
	started := time.Now().UTC()
	runID := uuid.NewString()

	done := m.Stage("load")
	table, err := loadTable(opts.Input, opts)
	done()
	if err != nil {
		return cmdutil.Fail(stderr, exitCode(err), err)
	}
	ref := table.Reference()
	m.GenomesLoaded.Set(float64(table.Len()))
	m.MissingPairs.Set(float64(table.Missing()))
	if n := table.Missing(); n > 0 {
		cmdutil.Warnf(stderr, opts.Quiet, "%d genome pairs missing from the table; using distance %g", n, table.DefaultDistance())
	}

	summary := api.SelectionV1{
		RunID:        runID,
		Version:      version.Version,
		Mode:         opts.Mode,
		Reference:    ref,
		Genomes:      table.Len(),
		MissingPairs: table.Missing(),
	}

	// Matrix labels: the farthest-point selection, or every genome.
	labels := table.Genomes()
	if opts.Mode != selectcli.ModeCluster {
		done = m.Stage("farthest")
		labels, err = selection.FarthestPoint(table, labels, ref, opts.Count)
		done()
		if err != nil {
			return cmdutil.Fail(stderr, exitCode(err), err)
		}
		summary.K = opts.Count
	}
	mat := table.Matrix(labels)
	for _, g := range opts.Exclude {
		next, ok := mat.Without(g)
		if !ok {
			cmdutil.Warnf(stderr, opts.Quiet, "%s not found in matrix. No changes made.", g)
			continue
		}
		mat = next
		summary.Excluded = append(summary.Excluded, g)
	}
	if opts.Mode != selectcli.ModeCluster {
		summary.Selected = mat.Labels()
		m.GenomesSelected.Set(float64(mat.Len()))
	}

	var res *cluster.Result
	if opts.Mode != selectcli.ModeFarthest {
		done = m.Stage("cluster")
		r, err := cluster.Select(mat, ref, opts.Threshold)
		done()
		if err != nil {
			return cmdutil.Fail(stderr, exitCode(err), err)
		}
		res = &r
		summary.Threshold = opts.Threshold
		m.Clusters.Set(float64(len(r.Representatives)))
		groups := r.Final.Clusters()
		for _, id := range r.Final.IDs() {
			for _, g := range groups[id] {
				summary.Clusters = append(summary.Clusters, api.ClusterMemberV1{Genome: g, ClusterID: id})
			}
		}
		for _, rep := range r.Representatives {
			summary.Representatives = append(summary.Representatives,
				api.RepresentativeV1{ClusterID: rep.ClusterID, Genome: rep.Genome, Size: rep.Size})
		}
	}
	if err := ctx.Err(); err != nil {
		return cmdutil.Fail(stderr, 130, err)
	}

	done = m.Stage("artifacts")
	s3 := opts.Config.Artifacts.S3
	store, err := blob.Open(ctx, blob.Config{
		Driver: blob.Driver(opts.Artifacts),
		Dir:    opts.OutDir,
		S3:     blob.S3Config{Bucket: s3.Bucket, Region: s3.Region, Endpoint: s3.Endpoint, PathStyle: s3.PathStyle},
	})
	if err != nil {
		done()
		return cmdutil.Fail(stderr, 3, err)
	}
	arts, err := writeArtifacts(ctx, store, m, runID, mat, summary.Selected, res)
	if err == nil {
		summary.Artifacts = arts
		var manifest []byte
		if manifest, err = jsonutil.MarshalPretty(summary); err == nil {
			var info api.ArtifactV1
			if info, err = put(ctx, store, m, runID, output.KeyManifest, "application/json", manifest); err == nil {
				err = verify(ctx, store, append(arts, info))
			}
		}
	}
	if err == nil {
		var stale []string
		stale, err = prune(ctx, store, arts)
		for _, key := range stale {
			cmdutil.Warnf(stderr, opts.Quiet, "removed stale artifact %s from a previous run", key)
		}
	}
	done()
	if err != nil {
		return cmdutil.Fail(stderr, exitCode(err), err)
	}
	if opts.Catalog != "" {
		if err := record(ctx, opts, summary, started, res); err != nil {
			return cmdutil.Fail(stderr, exitCode(err), fmt.Errorf("catalog: %w", err))
		}
	}

	if err := writers.WriteSelection(opts.Output, outw, summary); err != nil {
		return cmdutil.Fail(stderr, 3, err)
	}
	return 0
}
