// internal/clibase/common.go
package clibase

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"rnaseqkit/internal/cliutil"
	"rnaseqkit/internal/config"
)

// Common holds CLI fields shared by every rnaseqkit tool.
type Common struct {
	ConfigFile  string
	MetricsFile string
	CPUProfile  string

	// Misc
	Quiet    bool
	Version  bool
	Help     bool
	Examples bool

	// Loaded from ConfigFile after parsing (zero value when none given).
	Config config.File
}

// sliceValue appends each value to a *[]string (repeatable flags)
type sliceValue struct{ dst *[]string }

func (s *sliceValue) String() string {
	if s.dst == nil {
		return ""
	}
	return strings.Join(*s.dst, ",")
}
func (s *sliceValue) Set(v string) error {
	*s.dst = append(*s.dst, v)
	return nil
}

// StringSlice returns a repeatable flag.Value writing into dst.
func StringSlice(dst *[]string) flag.Value { return &sliceValue{dst: dst} }

// Register wires shared flags onto fs.
func Register(fs *flag.FlagSet, c *Common) {
	fs.StringVar(&c.ConfigFile, "config", "", "TOML config file")
	fs.StringVar(&c.MetricsFile, "metrics-file", "", "write Prometheus textfile metrics here")
	fs.StringVar(&c.CPUProfile, "cpu-profile", "", "write a CPU profile into this directory")

	fs.BoolVar(&c.Quiet, "quiet", false, "suppress non-essential warnings [false]")
	fs.BoolVar(&c.Quiet, "q", false, "alias of --quiet")
	fs.BoolVar(&c.Version, "v", false, "print version and exit [false]")
	fs.BoolVar(&c.Version, "version", false, "print version and exit [false]")
	fs.BoolVar(&c.Help, "h", false, "show this help [false]")
	fs.BoolVar(&c.Help, "help", false, "show this help [false]")
	fs.BoolVar(&c.Examples, "examples", false, "show quickstart examples and exit [false]")
}

// Parse splits argv, parses flags and handles the shared early exits.
// It returns the positional arguments (globs expanded) and, when a config
// file was named, loads it into c.Config.
func Parse(fs *flag.FlagSet, c *Common, argv []string) ([]string, error) {
	flagArgs, posArgs := cliutil.SplitFlagsAndPositionals(fs, argv)
	if err := fs.Parse(flagArgs); err != nil {
		return nil, err
	}
	if c.Examples {
		return nil, ErrPrintedAndExitOK
	}
	if c.Help {
		return nil, flag.ErrHelp
	}
	if c.Version {
		return nil, nil
	}
	if c.ConfigFile != "" {
		f, err := config.Load(c.ConfigFile)
		if err != nil {
			return nil, err
		}
		c.Config = f
	}
	return cliutil.ExpandPositionals(posArgs)
}

// Set reports which flags were given explicitly on the command line.
// Config values only apply to flags that are not in the set.
func Set(fs *flag.FlagSet) map[string]bool {
	m := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { m[f.Name] = true })
	return m
}

// Validate applies shared CLI invariants used by all tools.
func Validate(c *Common) error {
	if c.MetricsFile != "" && strings.HasSuffix(c.MetricsFile, "/") {
		return errors.New("--metrics-file must name a file, not a directory")
	}
	return nil
}

// RequireArgs checks the positional count.
func RequireArgs(pos []string, lo, hi int, what string) error {
	switch {
	case len(pos) < lo:
		return fmt.Errorf("missing %s", what)
	case hi >= 0 && len(pos) > hi:
		return fmt.Errorf("too many arguments: %s", strings.Join(pos[hi:], " "))
	}
	return nil
}
