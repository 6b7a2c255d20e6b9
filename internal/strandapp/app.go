// internal/strandapp/app.go
package strandapp

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"rnaseqkit-core/strand"
	"rnaseqkit/internal/appshell"
	"rnaseqkit/internal/cmdutil"
	"rnaseqkit/internal/jsonutil"
	"rnaseqkit/internal/metrics"
	"rnaseqkit/internal/output"
	"rnaseqkit/internal/strandcli"
	"rnaseqkit/internal/tabio"
	"rnaseqkit/pkg/api"
)

const tool = "rnaseqkit-strand"

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriterSize(stdout, 4<<10)

	fs := strandcli.NewFlagSet(tool)
	fs.SetOutput(io.Discard)
	if len(argv) == 0 {
		argv = []string{"-h"}
	}
	opts, err := strandcli.ParseArgs(fs, argv)
	if err != nil {
		return cmdutil.ParseExit(fs, outw, stderr, err, strandcli.PrintExamples)
	}
	if opts.Version {
		return cmdutil.Version(outw, stderr, tool)
	}
	defer appshell.StartCPUProfile(opts.CPUProfile)()
	if err := ctx.Err(); err != nil {
		return cmdutil.Finish(outw, stderr, 130)
	}

	m := metrics.New(tool)
	code := run(opts, outw, stderr)
	if code == 0 {
		m.MarkSuccess()
	}
	if err := m.WriteFile(opts.MetricsFile); err != nil {
		cmdutil.Warnf(stderr, opts.Quiet, "metrics: %v", err)
	}
	return cmdutil.Finish(outw, stderr, code)
}

func run(opts strandcli.Options, outw *bufio.Writer, stderr io.Writer) int {
	rc, err := tabio.Open(opts.Input)
	if err != nil {
		return cmdutil.Fail(stderr, 2, err)
	}
	text, err := io.ReadAll(rc)
	_ = rc.Close()
	if err != nil {
		return cmdutil.Fail(stderr, 3, err)
	}

	fr := strand.Parse(text)
	code := strand.Classify(fr, opts.Threshold)
	if fr.Forward == 0 && fr.Reverse == 0 {
		cmdutil.Warnf(stderr, opts.Quiet, "%s: no strand fractions found; reporting unstranded", opts.Input)
	}

	dst, err := tabio.CreateOr(opts.Out, outw)
	if err != nil {
		return cmdutil.Fail(stderr, 3, err)
	}
	if opts.Output == output.FormatJSON {
		err = jsonutil.EncodePretty(dst, api.StrandV1{
			Code: int(code), Forward: fr.Forward, Reverse: fr.Reverse, Paired: fr.Paired, Source: opts.Input,
		})
	} else {
		_, err = fmt.Fprintln(dst, code)
	}
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return cmdutil.Fail(stderr, 3, err)
	}
	return 0
}
