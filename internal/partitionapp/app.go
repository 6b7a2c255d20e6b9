// internal/partitionapp/app.go
package partitionapp

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"rnaseqkit-core/partition"
	"rnaseqkit/internal/appshell"
	"rnaseqkit/internal/cmdutil"
	"rnaseqkit/internal/metrics"
	"rnaseqkit/internal/partitioncli"
	"rnaseqkit/internal/tabio"
)

const tool = "rnaseqkit-partition"

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriterSize(stdout, 4<<10)

	fs := partitioncli.NewFlagSet(tool)
	fs.SetOutput(io.Discard)
	if len(argv) == 0 {
		argv = []string{"-h"}
	}
	opts, err := partitioncli.ParseArgs(fs, argv)
	if err != nil {
		return cmdutil.ParseExit(fs, outw, stderr, err, partitioncli.PrintExamples)
	}
	if opts.Version {
		return cmdutil.Version(outw, stderr, tool)
	}
	defer appshell.StartCPUProfile(opts.CPUProfile)()

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

func run(ctx context.Context, opts partitioncli.Options, m *metrics.Metrics, outw *bufio.Writer, stderr io.Writer) int {
	rc, err := tabio.Open(opts.Input)
	if err != nil {
		return cmdutil.Fail(stderr, 2, err)
	}
	tab, err := partition.ReadTSV(rc)
	_ = rc.Close()
	if err != nil {
		return cmdutil.Fail(stderr, 2, fmt.Errorf("%s: %w", opts.Input, err))
	}
	col := tab.Column(opts.Column)
	if col < 0 {
		return cmdutil.Fail(stderr, 2, fmt.Errorf("%s: no %q column", opts.Input, opts.Column))
	}

	parts, err := partition.Split(partition.GroupBy(tab, col), opts.Parts)
	if err != nil {
		return cmdutil.Fail(stderr, 2, err)
	}
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return cmdutil.Fail(stderr, 3, err)
	}
	for i, part := range parts {
		if err := ctx.Err(); err != nil {
			return cmdutil.Fail(stderr, 130, err)
		}
		name := partition.FileName(opts.Prefix, i)
		n, err := writePart(filepath.Join(opts.OutDir, name), tab.Header, part)
		if err != nil {
			return cmdutil.Fail(stderr, 3, err)
		}
		m.RowsWritten.WithLabelValues(name).Add(float64(n))
		_, _ = fmt.Fprintf(outw, "Wrote %d rows to %s\n", n, name)
	}
	return 0
}

func writePart(path string, header []string, part []partition.Group) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	n, err := partition.WritePart(f, header, part)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return n, err
}
