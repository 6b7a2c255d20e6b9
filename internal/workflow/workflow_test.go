package workflow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"
)

type testLog struct {
	mu    sync.Mutex
	lines []string
}

func (l *testLog) add(level, format string, a []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, level+" "+strings.TrimSpace(fmt.Sprintf(format, a...)))
}
func (l *testLog) Infof(format string, a ...any)  { l.add("INFO", format, a) }
func (l *testLog) Warnf(format string, a ...any)  { l.add("WARN", format, a) }
func (l *testLog) Errorf(format string, a ...any) { l.add("ERROR", format, a) }

func (l *testLog) contains(sub string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range l.lines {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// fakeRunner answers E-utility queries from a table and simulates
// fasterq-dump by writing the files it would produce.
type fakeRunner struct {
	mu            sync.Mutex
	runinfo       map[string]string
	paired        map[string]bool
	single        map[string]bool
	failSnakemake bool
	calls         [][]string
}

func (f *fakeRunner) Output(_ context.Context, stages ...[]string) ([]byte, error) {
	gsm := stages[0][len(stages[0])-1]
	out, ok := f.runinfo[gsm]
	if !ok {
		return nil, errors.New("exit status 1")
	}
	return []byte(out), nil
}

func (f *fakeRunner) Run(_ context.Context, _ string, argv ...string) error {
	f.mu.Lock()
	f.calls = append(f.calls, argv)
	f.mu.Unlock()
	switch argv[0] {
	case "fasterq-dump":
		srr, dir := argv[3], argv[5]
		write := func(name string) error {
			return os.WriteFile(filepath.Join(dir, name), []byte("@r\nACGT\n+\nIIII\n"), 0o644)
		}
		switch {
		case f.single[srr]:
			return write(srr + ".fastq")
		case f.paired[srr]:
			if err := write(srr + "_1.fastq"); err != nil {
				return err
			}
			return write(srr + "_2.fastq")
		default:
			return errors.New("exit status 3")
		}
	case "apptainer":
		if f.failSnakemake && argv[len(argv)-1] == "all" {
			return errors.New("exit status 1")
		}
	}
	return nil
}

func (f *fakeRunner) commands(prog string) [][]string {
	var out [][]string
	for _, c := range f.calls {
		if c[0] == prog {
			out = append(out, c)
		}
	}
	return out
}

func mkResources(t *testing.T, root string) {
	t.Helper()
	for _, name := range ResourceDirs {
		dir := filepath.Join(root, "resources", name, "sub")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "index"), []byte(name), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func newTestPipeline(t *testing.T, r Runner, log Logger) (*Pipeline, string) {
	t.Helper()
	root := t.TempDir()
	mkResources(t, root)
	p, err := New(Options{
		ProjectRoot:  root,
		ResourceDir:  filepath.Join(root, "job_resources"),
		WaitInterval: 5 * time.Millisecond,
		WaitTimeout:  time.Second,
	}, r, log)
	if err != nil {
		t.Fatal(err)
	}
	return p, root
}

func TestPipelineRun(t *testing.T) {
	fr := &fakeRunner{
		runinfo: map[string]string{
			"GSM1": "Run,ReleaseDate\nSRR1,2020\nSRR2,2020\n",
			"GSM2": "Run,ReleaseDate\nSRR3,2021\n",
		},
		paired: map[string]bool{"SRR1": true},
		single: map[string]bool{"SRR2": true, "SRR3": true},
	}
	log := &testLog{}
	p, root := newTestPipeline(t, fr, log)

	exps := []Experiment{
		{GSE: "GSE1", Samples: []Sample{{GSM: "GSM1", Characteristic: "wt"}, {GSM: "GSM2", Characteristic: "heat shock"}}},
		{GSE: "GSE2", Samples: []Sample{{GSM: "GSM5", Characteristic: "wt"}}},
		{GSE: "GSE3", Samples: []Sample{{GSM: "GSM9", Characteristic: "wt"}}},
	}
	var got []Outcome
	err := p.Run(context.Background(), exps, map[string]bool{"GSE2": true}, func(o Outcome) { got = append(got, o) })
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("outcomes = %+v", got)
	}
	if got[0].Status != StatusDone || got[1].Status != StatusSkipped || got[2].Status != StatusSkipped {
		t.Fatalf("statuses = %s %s %s", got[0].Status, got[1].Status, got[2].Status)
	}
	if want := []string{"GSM1_SRR1", "GSM1_SRR2", "GSM2_SRR3"}; !reflect.DeepEqual(got[0].Samples, want) {
		t.Fatalf("samples = %v", got[0].Samples)
	}
	if want := []string{"heat shock", "wt"}; !reflect.DeepEqual(got[0].Conditions, want) {
		t.Fatalf("conditions = %q", got[0].Conditions)
	}
	if got[2].Detail != "no valid samples" {
		t.Fatalf("GSE3 detail = %q", got[2].Detail)
	}

	cfg, err := readConfig(filepath.Join(root, "pipeline", "gse_runs", "GSE1", "GSE1_config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	s1 := cfg.Samples["GSM1_SRR1"]
	if s1.R1 != "/mnt/project_root/data/GSE1/GSM1_SRR1_1.fastq" || s1.R2 != "/mnt/project_root/data/GSE1/GSM1_SRR1_2.fastq" || s1.Condition != "group2" {
		t.Fatalf("GSM1_SRR1 = %+v", s1)
	}
	if s3 := cfg.Samples["GSM2_SRR3"]; s3.R2 != "" || s3.Condition != "group1" {
		t.Fatalf("GSM2_SRR3 = %+v", s3)
	}
	if cfg.VGIndex != "/mnt/project_root/job_resources/vg/ecoli_graph_test" || cfg.Ref != ReferencePath {
		t.Fatalf("config paths = %+v", cfg)
	}
	if _, err := os.Stat(filepath.Join(root, "job_resources", "centrifuge", "sub", "index")); err != nil {
		t.Fatalf("resources not copied: %v", err)
	}

	app := fr.commands("apptainer")
	if len(app) != 2 {
		t.Fatalf("apptainer calls = %d", len(app))
	}
	if !strings.Contains(strings.Join(app[0], " "), "snakemake --unlock") {
		t.Fatalf("first call should unlock: %v", app[0])
	}
	if last := app[1][len(app[1])-1]; last != "all" {
		t.Fatalf("main run target = %s", last)
	}
	if !log.contains("GSE2 is in the finished list") {
		t.Fatal("finished skip not logged")
	}
}

func TestPipelineSnakemakeFailure(t *testing.T) {
	fr := &fakeRunner{
		runinfo:       map[string]string{"GSM1": "Run\nSRR1\n"},
		single:        map[string]bool{"SRR1": true},
		failSnakemake: true,
	}
	p, _ := newTestPipeline(t, fr, &testLog{})
	var got []Outcome
	if err := p.Run(context.Background(), []Experiment{{GSE: "GSE7", Samples: []Sample{{GSM: "GSM1"}}}}, nil,
		func(o Outcome) { got = append(got, o) }); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Status != StatusFailed || !strings.HasPrefix(got[0].Detail, "snakemake") {
		t.Fatalf("outcome = %+v", got)
	}
}

func TestPipelineFailedDownloadSkipsSample(t *testing.T) {
	fr := &fakeRunner{runinfo: map[string]string{"GSM1": "Run\nSRR8\n"}}
	log := &testLog{}
	p, _ := newTestPipeline(t, fr, log)
	var got []Outcome
	if err := p.Run(context.Background(), []Experiment{{GSE: "GSE8", Samples: []Sample{{GSM: "GSM1"}}}}, nil,
		func(o Outcome) { got = append(got, o) }); err != nil {
		t.Fatal(err)
	}
	if got[0].Status != StatusSkipped || !log.contains("fasterq-dump failed for SRR8") {
		t.Fatalf("outcome = %+v log = %v", got[0], log.lines)
	}
}

func TestPipelineReusesDownloads(t *testing.T) {
	fr := &fakeRunner{runinfo: map[string]string{"GSM1": "Run\nSRR1\n"}}
	p, _ := newTestPipeline(t, fr, &testLog{})
	dir := p.DataDir("GSE9")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "GSM1_SRR1_1.fastq"), []byte("@r\nA\n+\nI\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	var got []Outcome
	if err := p.Run(context.Background(), []Experiment{{GSE: "GSE9", Samples: []Sample{{GSM: "GSM1"}}}}, nil,
		func(o Outcome) { got = append(got, o) }); err != nil {
		t.Fatal(err)
	}
	if got[0].Status != StatusDone || len(fr.commands("fasterq-dump")) != 0 {
		t.Fatalf("outcome = %+v, downloads = %d", got[0], len(fr.commands("fasterq-dump")))
	}
}

func TestPipelineCancelled(t *testing.T) {
	p, _ := newTestPipeline(t, &fakeRunner{}, &testLog{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := p.Run(ctx, []Experiment{{GSE: "GSE1"}}, nil, func(Outcome) { t.Fatal("no outcome expected") })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestWaitForFilesTimeout(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "x_1.fastq")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	log := &testLog{}
	err := WaitForFiles(context.Background(), []string{empty}, 5*time.Millisecond, 30*time.Millisecond, log)
	if !errors.Is(err, ErrFilesNotReady) {
		t.Fatalf("err = %v", err)
	}
	if !log.contains("0 bytes, flushing") {
		t.Fatal("empty file not reported")
	}
}

func TestExecRunnerPipeline(t *testing.T) {
	for _, prog := range []string{"printf", "tr"} {
		if _, err := exec.LookPath(prog); err != nil {
			t.Skipf("%s not available", prog)
		}
	}
	out, err := ExecRunner{}.Output(context.Background(),
		[]string{"printf", "Run,x\nSRR42,y\n"},
		[]string{"tr", "y", "z"},
	)
	if err != nil {
		t.Fatal(err)
	}
	if ids := RunIDs(out); len(ids) != 1 || ids[0] != "SRR42" {
		t.Fatalf("ids = %v from %q", ids, out)
	}
}

func TestDryRunnerRunsNothing(t *testing.T) {
	log := &testLog{}
	r := DryRunner{Log: log}
	if err := r.Run(context.Background(), "/x", "apptainer", "exec"); err != nil {
		t.Fatal(err)
	}
	out, err := r.Output(context.Background(), []string{"esearch", "-query", "GSM1"}, []string{"efetch"})
	if err != nil || out != nil {
		t.Fatalf("out=%q err=%v", out, err)
	}
	if !log.contains("dry-run: esearch -query GSM1 | efetch") {
		t.Fatalf("log = %v", log.lines)
	}
}
