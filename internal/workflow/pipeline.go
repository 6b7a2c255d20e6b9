// internal/workflow/pipeline.go
package workflow

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

// Logger is the leveled log the pipeline reports to.
type Logger interface {
	Infof(format string, a ...any)
	Warnf(format string, a ...any)
	Errorf(format string, a ...any)
}

// Outcome statuses.
const (
	StatusDone    = "done"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// Outcome reports how one experiment ended.
type Outcome struct {
	GSE        string
	Status     string
	Samples    []string
	Conditions []string // characteristic of group1, group2, ...
	Config     string   // host path of the written config
	Detail     string
}

// Options configures a Pipeline. Zero values take the defaults below.
type Options struct {
	ProjectRoot  string // host dir bound to ContainerRoot
	PipelineDir  string // default <ProjectRoot>/pipeline
	ResourceDir  string // per-job copy of the reference resources
	Image        string // default <ProjectRoot>/resources/build/rnaseq_vg.sif
	Threads      int    // fasterq-dump threads, default 10
	Cores        int    // snakemake --cores, default 10
	MemMB        int    // snakemake mem_mb resource, default 102400
	Pause        time.Duration
	WaitInterval time.Duration
	WaitTimeout  time.Duration
}

func (o Options) withDefaults() Options {
	if o.PipelineDir == "" {
		o.PipelineDir = filepath.Join(o.ProjectRoot, "pipeline")
	}
	if o.Image == "" {
		o.Image = filepath.Join(o.ProjectRoot, "resources", "build", "rnaseq_vg.sif")
	}
	if o.Threads <= 0 {
		o.Threads = 10
	}
	if o.Cores <= 0 {
		o.Cores = 10
	}
	if o.MemMB <= 0 {
		o.MemMB = 102400
	}
	return o
}

// Pipeline runs experiments one after another.
type Pipeline struct {
	opts   Options
	runner Runner
	log    Logger
}

// New validates opts and fills defaults.
func New(opts Options, runner Runner, log Logger) (*Pipeline, error) {
	if opts.ProjectRoot == "" {
		return nil, errors.New("workflow: project root is required")
	}
	if opts.ResourceDir == "" {
		return nil, errors.New("workflow: resource dir is required")
	}
	opts = opts.withDefaults()
	for _, dir := range []*string{&opts.ProjectRoot, &opts.PipelineDir, &opts.ResourceDir, &opts.Image} {
		abs, err := filepath.Abs(*dir)
		if err != nil {
			return nil, err
		}
		*dir = abs
	}
	return &Pipeline{opts: opts, runner: runner, log: log}, nil
}

// RunDir is the Snakemake working directory of gse.
func (p *Pipeline) RunDir(gse string) string {
	return filepath.Join(p.opts.PipelineDir, "gse_runs", gse)
}

// DataDir holds the downloaded reads of gse.
func (p *Pipeline) DataDir(gse string) string {
	return filepath.Join(p.opts.ProjectRoot, "data", gse)
}

// Run processes experiments in order, calling emit once per experiment.
// Per-experiment problems become outcomes; Run itself fails only on
// resource preparation errors or cancellation.
func (p *Pipeline) Run(ctx context.Context, exps []Experiment, finished map[string]bool, emit func(Outcome)) error {
	if err := PrepareResources(p.opts.ProjectRoot, p.opts.ResourceDir, p.log); err != nil {
		return err
	}
	for _, e := range exps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if finished[e.GSE] {
			p.log.Infof("%s is in the finished list. Skipping.", e.GSE)
			emit(Outcome{GSE: e.GSE, Status: StatusSkipped, Detail: "finished"})
			continue
		}
		o, err := p.experiment(ctx, e)
		if err != nil {
			return err
		}
		emit(o)
	}
	p.log.Infof("All GSEs processed. No run directories deleted.")
	return nil
}

// experiment returns an error only when ctx is done.
func (p *Pipeline) experiment(ctx context.Context, e Experiment) (Outcome, error) {
	out := Outcome{GSE: e.GSE}
	runDir := p.RunDir(e.GSE)
	if _, err := os.Stat(runDir); err == nil {
		p.log.Infof("Directory for %s exists. Resuming...", e.GSE)
	}
	p.log.Infof("Processing GSE: %s", e.GSE)
	dataDir := p.DataDir(e.GSE)
	for _, d := range []string{runDir, dataDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return p.failed(out, err), nil
		}
	}

	dl := Downloader{Runner: p.runner, Log: p.log, Threads: p.opts.Threads, Pause: p.opts.Pause}
	chars := map[string]string{}
	var fastqs []string
	for _, s := range e.Samples {
		names, paths, err := dl.Download(ctx, s.GSM, dataDir)
		if err != nil {
			return out, err
		}
		for _, n := range names {
			chars[n] = s.Characteristic
		}
		fastqs = append(fastqs, paths...)
	}
	if len(chars) == 0 {
		p.log.Warnf("No valid samples found for %s. Skipping.", e.GSE)
		out.Status, out.Detail = StatusSkipped, "no valid samples"
		return out, nil
	}
	for n := range chars {
		out.Samples = append(out.Samples, n)
	}
	sort.Strings(out.Samples)

	cfg, labels := p.config(e.GSE, dataDir, chars)
	out.Conditions = labels
	out.Config = filepath.Join(runDir, e.GSE+"_config.yaml")
	if err := WriteConfig(out.Config, cfg); err != nil {
		return p.failed(out, err), nil
	}

	if err := WaitForFiles(ctx, fastqs, p.opts.WaitInterval, p.opts.WaitTimeout, p.log); err != nil {
		if ctx.Err() != nil {
			return out, ctx.Err()
		}
		p.log.Errorf("Not all FASTQ files for GSE %s were ready. Skipping.", e.GSE)
		out.Status, out.Detail = StatusFailed, err.Error()
		return out, nil
	}

	cfgInContainer, err := ContainerPath(p.opts.ProjectRoot, out.Config)
	if err != nil {
		return p.failed(out, err), nil
	}
	p.log.Infof("Attempting to unlock directory for %s...", e.GSE)
	if err := p.runner.Run(ctx, p.opts.ProjectRoot, p.UnlockCommand(cfgInContainer, runDir)...); err != nil {
		if ctx.Err() != nil {
			return out, ctx.Err()
		}
		p.log.Warnf("Unlock command failed: %v", err)
	} else {
		p.log.Infof("Successfully unlocked working directory.")
	}

	p.log.Infof("Executing main Snakemake command for %s...", e.GSE)
	if err := p.runner.Run(ctx, p.opts.ProjectRoot, p.SnakemakeCommand(cfgInContainer, runDir)...); err != nil {
		if ctx.Err() != nil {
			return out, ctx.Err()
		}
		p.log.Warnf("Snakemake failed for %s: %v", e.GSE, err)
		out.Status, out.Detail = StatusFailed, "snakemake: "+err.Error()
		return out, nil
	}
	out.Status = StatusDone
	return out, nil
}

func (p *Pipeline) failed(out Outcome, err error) Outcome {
	p.log.Errorf("%s: %v", out.GSE, err)
	out.Status, out.Detail = StatusFailed, err.Error()
	return out
}

func (p *Pipeline) config(gse, dataDir string, chars map[string]string) (ExperimentConfig, []string) {
	root := p.opts.ProjectRoot
	cp := func(host string) string {
		s, err := ContainerPath(root, host)
		if err != nil {
			return host
		}
		return s
	}
	res := func(name string) string { return cp(filepath.Join(p.opts.ResourceDir, filepath.FromSlash(name))) }

	groups, labels := Conditions(chars)
	cfg := ExperimentConfig{
		Experiment:              gse,
		Samples:                 make(map[string]SampleConfig, len(chars)),
		VGIndex:                 res(VGIndexName),
		Ref:                     ReferencePath,
		AnnotationGFF:           res(AnnotationGFFName),
		AnnotationBED:           res(AnnotationBEDName),
		CentrifugeIndexPath:     res(CentrifugeName),
		ScriptsDir:              cp(filepath.Join(p.opts.PipelineDir, "scripts")),
		CentrifugeOrganism:      CentrifugeOrganism,
		CentrifugeMinPercentage: CentrifugeMinPercentage,
		FastpMinKeptPercentage:  FastpMinKeptPercentage,
	}
	for name := range chars {
		sc := SampleConfig{
			R1:        cp(filepath.Join(dataDir, name+"_1.fastq")),
			Condition: groups[name],
		}
		if r2 := filepath.Join(dataDir, name+"_2.fastq"); exists(r2) {
			sc.R2 = cp(r2)
		}
		cfg.Samples[name] = sc
	}
	return cfg, labels
}

func (p *Pipeline) containerPrefix() []string {
	return []string{
		"apptainer", "exec",
		"--bind", p.opts.ProjectRoot + ":" + ContainerRoot,
		"--bind", "/tmp:/tmp",
		p.opts.Image,
	}
}

// UnlockCommand clears a stale Snakemake lock left by a killed job.
func (p *Pipeline) UnlockCommand(configInContainer, runDir string) []string {
	return append(p.containerPrefix(),
		"snakemake", "--unlock",
		"--snakefile", ContainerRoot+"/pipeline/Snakefile",
		"--configfile", configInContainer,
		"--directory", runDir,
	)
}

// SnakemakeCommand is the main run. Incomplete rules rerun and only
// missing inputs retrigger, so a restarted job resumes where it stopped.
func (p *Pipeline) SnakemakeCommand(configInContainer, runDir string) []string {
	return append(p.containerPrefix(),
		"snakemake",
		"--cores", strconv.Itoa(p.opts.Cores),
		"--resources", "mem_mb="+strconv.Itoa(p.opts.MemMB),
		"--rerun-incomplete",
		"--notemp",
		"--rerun-triggers", "input",
		"--snakefile", ContainerRoot+"/pipeline/Snakefile",
		"--configfile", configInContainer,
		"--directory", runDir,
		"all",
	)
}
