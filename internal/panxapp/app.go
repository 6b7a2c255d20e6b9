// internal/panxapp/app.go
package panxapp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"rnaseqkit-core/panx"
	"rnaseqkit/internal/appshell"
	"rnaseqkit/internal/cmdutil"
	"rnaseqkit/internal/metrics"
	"rnaseqkit/internal/panxcli"
	"rnaseqkit/internal/tabio"
)

const tool = "rnaseqkit-panx"

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriterSize(stdout, 4<<10)

	fs := panxcli.NewFlagSet(tool)
	fs.SetOutput(io.Discard)
	if len(argv) == 0 {
		argv = []string{"-h"}
	}
	opts, err := panxcli.ParseArgs(fs, argv)
	if err != nil {
		return cmdutil.ParseExit(fs, outw, stderr, err, panxcli.PrintExamples)
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

func run(ctx context.Context, opts panxcli.Options, m *metrics.Metrics, outw *bufio.Writer, stderr io.Writer) int {
	if fi, err := os.Stat(opts.Dir); err != nil || !fi.IsDir() {
		return cmdutil.Fail(stderr, 2, fmt.Errorf("%s: not a directory", opts.Dir))
	}
	files, err := panx.Alignments(opts.Dir)
	if err != nil {
		return cmdutil.Fail(stderr, 2, err)
	}
	if len(files) == 0 {
		cmdutil.Warnf(stderr, opts.Quiet, "no *%s files in %s", panx.AlignmentSuffix, opts.Dir)
		return 1
	}

	fa, err := tabio.Create(opts.Fasta)
	if err != nil {
		return cmdutil.Fail(stderr, 3, err)
	}
	mp, err := tabio.Create(opts.Mapping)
	if err != nil {
		_ = fa.Close()
		return cmdutil.Fail(stderr, 3, err)
	}
	b, err := panx.NewBuilder(fa, mp)
	if err == nil {
		err = addAll(ctx, b, files)
	}
	if err == nil {
		err = b.Flush()
	}
	err = errors.Join(err, fa.Close(), mp.Close())
	if errors.Is(err, context.Canceled) {
		return cmdutil.Fail(stderr, 130, err)
	}
	if err != nil {
		return cmdutil.Fail(stderr, 3, err)
	}

	m.RowsWritten.WithLabelValues("fasta_records").Add(float64(b.Records()))
	_, _ = fmt.Fprintf(outw, "Wrote %d orthogroups (%d records) to %s and %s\n", b.Groups(), b.Records(), opts.Fasta, opts.Mapping)
	return 0
}

func addAll(ctx context.Context, b *panx.Builder, files []string) error {
	for _, fn := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		f, err := os.Open(fn)
		if err != nil {
			return err
		}
		_, err = b.Add(f)
		_ = f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", fn, err)
		}
	}
	return nil
}
