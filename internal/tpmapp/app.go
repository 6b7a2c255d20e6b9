// internal/tpmapp/app.go
package tpmapp

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"rnaseqkit-core/quant"
	"rnaseqkit/internal/appshell"
	"rnaseqkit/internal/cmdutil"
	"rnaseqkit/internal/metrics"
	"rnaseqkit/internal/tabio"
	"rnaseqkit/internal/tpmcli"
	"rnaseqkit/internal/writers"
)

const tool = "rnaseqkit-tpm"

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriterSize(stdout, 64<<10)

	fs := tpmcli.NewFlagSet(tool)
	fs.SetOutput(io.Discard)
	if len(argv) == 0 {
		argv = []string{"-h"}
	}
	opts, err := tpmcli.ParseArgs(fs, argv)
	if err != nil {
		return cmdutil.ParseExit(fs, outw, stderr, err, tpmcli.PrintExamples)
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

func run(ctx context.Context, opts tpmcli.Options, m *metrics.Metrics, outw *bufio.Writer, stderr io.Writer) int {
	rc, err := tabio.Open(opts.Input)
	if err != nil {
		return cmdutil.Fail(stderr, 2, err)
	}
	list, err := quant.ReadQuant(rc)
	_ = rc.Close()
	if err != nil {
		return cmdutil.Fail(stderr, 2, fmt.Errorf("%s: %w", opts.Input, err))
	}
	rows, err := quant.SumOrthologs(list, opts.Genome)
	if err != nil {
		return cmdutil.Fail(stderr, 2, fmt.Errorf("%s: %w", opts.Input, err))
	}
	if len(rows) == 0 {
		cmdutil.Warnf(stderr, opts.Quiet, "no transcripts start with %q", opts.Genome+"|")
	}
	if err := ctx.Err(); err != nil {
		return cmdutil.Fail(stderr, 130, err)
	}

	dst, err := tabio.CreateOr(opts.Out, outw)
	if err != nil {
		return cmdutil.Fail(stderr, 3, err)
	}
	in, done := writers.StartGeneWriter(dst, opts.Output, !opts.NoHeader, 0)
	for _, r := range rows {
		in <- r
	}
	close(in)
	werr := <-done
	if cerr := dst.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return cmdutil.Fail(stderr, 3, werr)
	}
	m.RowsWritten.WithLabelValues("gene_tpm").Add(float64(len(rows)))
	if len(rows) == 0 {
		return 1
	}
	return 0
}
