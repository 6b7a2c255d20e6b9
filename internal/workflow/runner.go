// internal/workflow/runner.go
package workflow

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Runner executes external programs.
type Runner interface {
	// Run executes argv in dir, streaming its output.
	Run(ctx context.Context, dir string, argv ...string) error
	// Output runs stages as a shell-free pipeline and returns the last stage's stdout.
	Output(ctx context.Context, stages ...[]string) ([]byte, error)
}

// ExecRunner runs real processes.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

func (r ExecRunner) Run(ctx context.Context, dir string, argv ...string) error {
	if len(argv) == 0 {
		return errors.New("exec: empty command")
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", argv[0], err)
	}
	return nil
}

func (r ExecRunner) Output(ctx context.Context, stages ...[]string) ([]byte, error) {
	if len(stages) == 0 {
		return nil, errors.New("exec: empty pipeline")
	}
	cmds := make([]*exec.Cmd, len(stages))
	errs := make([]bytes.Buffer, len(stages))
	for i, argv := range stages {
		if len(argv) == 0 {
			return nil, errors.New("exec: empty pipeline stage")
		}
		cmds[i] = exec.CommandContext(ctx, argv[0], argv[1:]...)
		cmds[i].Stderr = &errs[i]
	}
	for i := 1; i < len(cmds); i++ {
		p, err := cmds[i-1].StdoutPipe()
		if err != nil {
			return nil, err
		}
		cmds[i].Stdin = p
	}
	var out bytes.Buffer
	cmds[len(cmds)-1].Stdout = &out

	for i, c := range cmds {
		if err := c.Start(); err != nil {
			for _, started := range cmds[:i] {
				_ = started.Process.Kill()
				_ = started.Wait()
			}
			return nil, fmt.Errorf("%s: %w", stages[i][0], err)
		}
	}
	var first error
	for i, c := range cmds {
		if err := c.Wait(); err != nil && first == nil {
			msg := strings.TrimSpace(errs[i].String())
			if msg != "" {
				first = fmt.Errorf("%s: %w: %s", stages[i][0], err, msg)
			} else {
				first = fmt.Errorf("%s: %w", stages[i][0], err)
			}
		}
	}
	return out.Bytes(), first
}

// DryRunner logs commands instead of running them. Output yields nothing,
// so no sample is ever downloaded in a dry run.
type DryRunner struct {
	Log Logger
}

func (r DryRunner) Run(_ context.Context, dir string, argv ...string) error {
	r.Log.Infof("dry-run (in %s): %s", dir, strings.Join(argv, " "))
	return nil
}

func (r DryRunner) Output(_ context.Context, stages ...[]string) ([]byte, error) {
	parts := make([]string, len(stages))
	for i, s := range stages {
		parts[i] = strings.Join(s, " ")
	}
	r.Log.Infof("dry-run: %s", strings.Join(parts, " | "))
	return nil, nil
}
