// internal/runcli/options.go
package runcli

import (
	"flag"
	"fmt"
	"io"
	"time"

	"rnaseqkit/internal/clibase"
	"rnaseqkit/internal/output"
	"rnaseqkit/internal/workflow"
)

type Options struct {
	clibase.Common

	Metadata    string
	ResourceDir string

	ProjectRoot  string
	PipelineDir  string
	Image        string
	Threads      int
	Cores        int
	MemMB        int
	Pause        time.Duration
	WaitInterval time.Duration
	WaitTimeout  time.Duration
	Finished     string
	LogDir       string
	DryRun       bool
	Catalog      string
	Output       string
}

func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	clibase.UsageCommon(fs, name, "download, configure and run every experiment", func(out io.Writer, def func(string) string) {
		_, _ = fmt.Fprintln(out, "Usage:")
		_, _ = fmt.Fprintf(out, "  %s [options] metadata.tsv resource_dir\n", name)

		_, _ = fmt.Fprintln(out, "\nLayout:")
		_, _ = fmt.Fprintf(out, "      --project-root dir      Host dir bound to /mnt/project_root [%s]\n", def("project-root"))
		_, _ = fmt.Fprintf(out, "      --pipeline-dir dir      Holds Snakefile, scripts/ and gse_runs/ [%s]\n", def("pipeline-dir"))
		_, _ = fmt.Fprintln(out, "      --image file            Apptainer image [<project-root>/resources/build/rnaseq_vg.sif]")
		_, _ = fmt.Fprintf(out, "      --finished file         GSEs to skip, one per line [%s]\n", def("finished"))

		_, _ = fmt.Fprintln(out, "\nExecution:")
		_, _ = fmt.Fprintf(out, "      --threads int           fasterq-dump threads [%s]\n", def("threads"))
		_, _ = fmt.Fprintf(out, "      --cores int             snakemake --cores [%s]\n", def("cores"))
		_, _ = fmt.Fprintf(out, "      --mem-mb int            snakemake mem_mb resource [%s]\n", def("mem-mb"))
		_, _ = fmt.Fprintf(out, "      --pause duration        Pause after each download [%s]\n", def("pause"))
		_, _ = fmt.Fprintf(out, "      --wait-interval d       FASTQ readiness poll interval [%s]\n", def("wait-interval"))
		_, _ = fmt.Fprintf(out, "      --wait-timeout d        Give up on an experiment's reads after [%s]\n", def("wait-timeout"))
		_, _ = fmt.Fprintf(out, "  -n, --dry-run               Log commands instead of running them [%s]\n", def("dry-run"))

		_, _ = fmt.Fprintln(out, "\nOutput:")
		_, _ = fmt.Fprintln(out, "      --log-dir dir           Also write the run log to <dir>/<run id>.log")
		_, _ = fmt.Fprintln(out, "      --catalog dsn           Record outcomes (sqlite:path.db | postgres://...)")
		_, _ = fmt.Fprintf(out, "      --output string         Outcome stream on stdout: text | jsonl [%s]\n", def("output"))
	})
	return fs
}

// PrintExamples prints a short quickstart for rnaseqkit-run.
func PrintExamples(out io.Writer) {
	clibase.PrintExamples(out, "rnaseqkit-run", func(w io.Writer) {
		_, _ = fmt.Fprintln(w, "From the pipeline directory of a batch job:")
		_, _ = fmt.Fprintln(w, "  rnaseqkit-run --log-dir logs labeled03 /tmp/resources_$SLURM_JOB_ID")
		_, _ = fmt.Fprintln(w, "\nSee what would run:")
		_, _ = fmt.Fprintln(w, "  rnaseqkit-run --dry-run labeled03 /tmp/res")
	})
}

func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var o Options
	clibase.Register(fs, &o.Common)
	fs.StringVar(&o.ProjectRoot, "project-root", "..", "project root")
	fs.StringVar(&o.PipelineDir, "pipeline-dir", ".", "pipeline dir")
	fs.StringVar(&o.Image, "image", "", "apptainer image")
	fs.StringVar(&o.Finished, "finished", "../postprocessing_scripts/finished_null.txt", "finished GSE list")
	fs.IntVar(&o.Threads, "threads", 10, "fasterq-dump threads")
	fs.IntVar(&o.Cores, "cores", 10, "snakemake cores")
	fs.IntVar(&o.MemMB, "mem-mb", 102400, "snakemake mem_mb")
	fs.DurationVar(&o.Pause, "pause", 5*time.Second, "pause after each download")
	fs.DurationVar(&o.WaitInterval, "wait-interval", workflow.DefaultWaitInterval, "poll interval")
	fs.DurationVar(&o.WaitTimeout, "wait-timeout", workflow.DefaultWaitTimeout, "poll timeout")
	fs.BoolVar(&o.DryRun, "dry-run", false, "log commands only")
	fs.BoolVar(&o.DryRun, "n", false, "alias of --dry-run")
	fs.StringVar(&o.LogDir, "log-dir", "", "run log directory")
	fs.StringVar(&o.Catalog, "catalog", "", "results catalog DSN")
	fs.StringVar(&o.Output, "output", output.FormatText, "text | jsonl")

	pos, err := clibase.Parse(fs, &o.Common, argv)
	if err != nil || o.Version {
		return o, err
	}
	applyConfig(&o, clibase.Set(fs))
	if err := clibase.Validate(&o.Common); err != nil {
		return o, err
	}
	if err := clibase.RequireArgs(pos, 2, 2, "metadata TSV and resource dir"); err != nil {
		return o, err
	}
	o.Metadata, o.ResourceDir = pos[0], pos[1]

	switch {
	case o.Threads < 1 || o.Cores < 1 || o.MemMB < 1:
		return o, fmt.Errorf("--threads, --cores and --mem-mb must be >= 1")
	case o.Pause < 0 || o.WaitInterval <= 0 || o.WaitTimeout <= 0:
		return o, fmt.Errorf("--pause must be >= 0; --wait-interval and --wait-timeout must be > 0")
	}
	switch o.Output {
	case output.FormatText, output.FormatJSONL:
	default:
		return o, fmt.Errorf("--output must be text or jsonl (got %q)", o.Output)
	}
	return o, nil
}

// applyConfig fills options not given on the command line from [run] and [catalog].
func applyConfig(o *Options, set map[string]bool) {
	r := o.Config.Run
	str := func(name string, v *string, dst *string) {
		if v != nil && !set[name] {
			*dst = *v
		}
	}
	str("project-root", r.ProjectRoot, &o.ProjectRoot)
	str("image", r.Image, &o.Image)
	str("log-dir", r.LogDir, &o.LogDir)
	str("finished", r.Finished, &o.Finished)
	if r.Threads != nil && !set["threads"] {
		o.Threads = *r.Threads
	}
	if r.Cores != nil && !set["cores"] {
		o.Cores = *r.Cores
	}
	if r.Pause != nil && !set["pause"] {
		o.Pause = r.Pause.Duration
	}
	if r.WaitTimeout != nil && !set["wait-timeout"] {
		o.WaitTimeout = r.WaitTimeout.Duration
	}
	if o.Config.Catalog.DSN != "" && !set["catalog"] {
		o.Catalog = o.Config.Catalog.DSN
	}
}
