// internal/workflow/download.go
package workflow

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// RunIDs extracts SRA run ids from `efetch -format runinfo` CSV: the first
// column of every line that names an SRR run.
func RunIDs(runinfo []byte) []string {
	var ids []string
	sc := bufio.NewScanner(bytes.NewReader(runinfo))
	for sc.Scan() {
		first, _, _ := strings.Cut(sc.Text(), ",")
		first = strings.TrimSpace(first)
		if strings.Contains(first, "SRR") {
			ids = append(ids, first)
		}
	}
	return ids
}

// Downloader fetches the FASTQ files of one GSM.
type Downloader struct {
	Runner  Runner
	Log     Logger
	Threads int
	Pause   time.Duration
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

// Download fetches every run of gsm into dir as <gsm>_<srr>_1.fastq (and _2
// for paired data). Runs already on disk are reused. Per-run failures are
// logged and the run dropped; only cancellation is returned as an error.
func (d Downloader) Download(ctx context.Context, gsm, dir string) (samples, fastqs []string, err error) {
	out, err := d.Runner.Output(ctx,
		[]string{"esearch", "-db", "sra", "-query", gsm},
		[]string{"efetch", "-format", "runinfo"},
	)
	if ctx.Err() != nil {
		return nil, nil, ctx.Err()
	}
	if err != nil {
		d.Log.Errorf("E-utility search failed for %s: %v", gsm, err)
		return nil, nil, nil
	}

	for _, srr := range RunIDs(out) {
		name := gsm + "_" + srr
		r1 := filepath.Join(dir, name+"_1.fastq")
		r2 := filepath.Join(dir, name+"_2.fastq")
		if exists(r1) {
			d.Log.Infof("FASTQ file for %s already exists. Skipping download.", srr)
			samples = append(samples, name)
			fastqs = append(fastqs, r1)
			if exists(r2) {
				fastqs = append(fastqs, r2)
			}
			continue
		}

		d.Log.Infof("Downloading and extracting %s to %s...", srr, name)
		threads := d.Threads
		if threads <= 0 {
			threads = 10
		}
		if err := d.Runner.Run(ctx, dir, "fasterq-dump", "--split-files", "--skip-technical", srr,
			"-O", dir, "--threads", strconv.Itoa(threads)); err != nil {
			if ctx.Err() != nil {
				return nil, nil, ctx.Err()
			}
			d.Log.Warnf("fasterq-dump failed for %s: %v. Skipping this sample.", srr, err)
			continue
		}

		got, err := renameRun(dir, srr, name)
		if err != nil {
			d.Log.Warnf("%s: %v", srr, err)
			continue
		}
		samples = append(samples, name)
		fastqs = append(fastqs, got...)

		if d.Pause > 0 {
			d.Log.Infof("Pausing for %s", d.Pause)
			select {
			case <-ctx.Done():
				return nil, nil, ctx.Err()
			case <-time.After(d.Pause):
			}
		}
	}
	return samples, fastqs, nil
}

var errNoFastq = errors.New("no expected FASTQ files found after fasterq-dump")

// renameRun moves fasterq-dump's <srr>.fastq or <srr>_{1,2}.fastq to the
// sample names.
func renameRun(dir, srr, name string) ([]string, error) {
	base := filepath.Join(dir, srr)
	r1 := filepath.Join(dir, name+"_1.fastq")
	switch {
	case exists(base + ".fastq"):
		if err := os.Rename(base+".fastq", r1); err != nil {
			return nil, err
		}
		return []string{r1}, nil
	case exists(base + "_1.fastq"):
		if err := os.Rename(base+"_1.fastq", r1); err != nil {
			return nil, err
		}
		out := []string{r1}
		if exists(base + "_2.fastq") {
			r2 := filepath.Join(dir, name+"_2.fastq")
			if err := os.Rename(base+"_2.fastq", r2); err != nil {
				return nil, err
			}
			out = append(out, r2)
		}
		return out, nil
	default:
		return nil, errNoFastq
	}
}
