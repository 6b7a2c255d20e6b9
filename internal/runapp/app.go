// internal/runapp/app.go
package runapp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"rnaseqkit/internal/appshell"
	"rnaseqkit/internal/catalog"
	"rnaseqkit/internal/cmdutil"
	"rnaseqkit/internal/metrics"
	"rnaseqkit/internal/runcli"
	"rnaseqkit/internal/tabio"
	"rnaseqkit/internal/version"
	"rnaseqkit/internal/workflow"
	"rnaseqkit/internal/writers"
	"rnaseqkit/pkg/api"
)

const tool = "rnaseqkit-run"

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriterSize(stdout, 4<<10)

	fs := runcli.NewFlagSet(tool)
	fs.SetOutput(io.Discard)
	if len(argv) == 0 {
		argv = []string{"-h"}
	}
	opts, err := runcli.ParseArgs(fs, argv)
	if err != nil {
		return cmdutil.ParseExit(fs, outw, stderr, err, runcli.PrintExamples)
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

func loadInputs(opts runcli.Options) ([]workflow.Experiment, map[string]bool, error) {
	rc, err := tabio.Open(opts.Metadata)
	if err != nil {
		return nil, nil, err
	}
	defer rc.Close()
	exps, err := workflow.ReadMetadata(rc)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", opts.Metadata, err)
	}
	finished, err := workflow.ReadFinished(opts.Finished)
	if err != nil {
		return nil, nil, err
	}
	return exps, finished, nil
}

func run(ctx context.Context, opts runcli.Options, m *metrics.Metrics, outw *bufio.Writer, stderr io.Writer) int {
	exps, finished, err := loadInputs(opts)
	if err != nil {
		return cmdutil.Fail(stderr, 2, err)
	}

	rl, err := cmdutil.OpenRunLog(stderr, opts.LogDir)
	if err != nil {
		return cmdutil.Fail(stderr, 3, err)
	}
	defer rl.Close()
	rl.Infof("%s %s run %s: %d experiments, %d finished", tool, version.Version, rl.ID, len(exps), len(finished))

	var runner workflow.Runner = workflow.ExecRunner{Stdout: stderr, Stderr: stderr}
	if opts.DryRun {
		runner = workflow.DryRunner{Log: rl}
	}
	p, err := workflow.New(workflow.Options{
		ProjectRoot:  opts.ProjectRoot,
		PipelineDir:  opts.PipelineDir,
		ResourceDir:  opts.ResourceDir,
		Image:        opts.Image,
		Threads:      opts.Threads,
		Cores:        opts.Cores,
		MemMB:        opts.MemMB,
		Pause:        opts.Pause,
		WaitInterval: opts.WaitInterval,
		WaitTimeout:  opts.WaitTimeout,
	}, runner, rl)
	if err != nil {
		return cmdutil.Fail(stderr, 2, err)
	}

	var cat *catalog.Catalog
	if opts.Catalog != "" {
		if cat, err = catalog.Open(ctx, opts.Catalog); err != nil {
			return cmdutil.Fail(stderr, 3, fmt.Errorf("catalog: %w", err))
		}
		defer cat.Close()
		if err := cat.RecordRun(ctx, catalog.Run{
			ID: rl.ID, Tool: tool, Version: version.Version, Mode: "workflow", StartedAt: time.Now().UTC(),
		}); err != nil {
			return cmdutil.Fail(stderr, 3, fmt.Errorf("catalog: %w", err))
		}
	}

	in, done := writers.StartExperimentWriter(outw, opts.Output, 0)
	failed := 0
	emit := func(o workflow.Outcome) {
		m.Experiments.WithLabelValues(o.Status).Inc()
		m.Samples.WithLabelValues("downloaded").Add(float64(len(o.Samples)))
		if o.Status == workflow.StatusFailed {
			failed++
		}
		if cat != nil {
			if err := cat.RecordExperiment(ctx, rl.ID, catalog.Experiment{
				GSE: o.GSE, Status: o.Status, Samples: len(o.Samples), Detail: o.Detail,
			}); err != nil {
				rl.Warnf("catalog: %s: %v", o.GSE, err)
			}
		}
		in <- api.ExperimentV1{
			RunID: rl.ID, GSE: o.GSE, Status: o.Status, Samples: o.Samples,
			Conditions: o.Conditions, Config: o.Config, Detail: o.Detail,
		}
	}

	stop := m.Stage("workflow")
	runErr := p.Run(ctx, exps, finished, emit)
	stop()
	close(in)
	werr := <-done

	switch {
	case errors.Is(runErr, context.Canceled):
		rl.Warnf("cancelled")
		return 130
	case runErr != nil:
		rl.Errorf("%v", runErr)
		return 3
	case werr != nil && !writers.IsBrokenPipe(werr):
		return cmdutil.Fail(stderr, 3, werr)
	case failed > 0:
		rl.Warnf("%d experiment(s) failed", failed)
		return 3
	}
	return 0
}
