// internal/partitioncli/options.go
package partitioncli

import (
	"flag"
	"fmt"
	"io"

	"rnaseqkit-core/partition"
	"rnaseqkit/internal/clibase"
)

type Options struct {
	clibase.Common

	Input  string
	Parts  int
	Prefix string
	OutDir string
	Column string
}

func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	clibase.UsageCommon(fs, name, "split labeled metadata into balanced batches", func(out io.Writer, def func(string) string) {
		_, _ = fmt.Fprintln(out, "Usage:")
		_, _ = fmt.Fprintf(out, "  %s [options] labeled.txt\n", name)

		_, _ = fmt.Fprintln(out, "\nOptions:")
		_, _ = fmt.Fprintf(out, "  -n, --parts int             Number of output files [%s]\n", def("parts"))
		_, _ = fmt.Fprintf(out, "      --prefix string         Output name prefix; files are <prefix>01.. [%s]\n", def("prefix"))
		_, _ = fmt.Fprintf(out, "  -o, --out-dir dir           Output directory [%s]\n", def("out-dir"))
		_, _ = fmt.Fprintf(out, "      --column string         Experiment column to group on [%s]\n", def("column"))
	})
	return fs
}

// PrintExamples prints a short quickstart for rnaseqkit-partition.
func PrintExamples(out io.Writer) {
	clibase.PrintExamples(out, "rnaseqkit-partition", func(w io.Writer) {
		_, _ = fmt.Fprintln(w, "Ten batches, shortest experiments first in each:")
		_, _ = fmt.Fprintln(w, "  rnaseqkit-partition -n 10 --prefix labeled labeled.txt")
	})
}

func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var o Options
	clibase.Register(fs, &o.Common)
	fs.IntVar(&o.Parts, "parts", partition.DefaultParts, "number of parts")
	fs.IntVar(&o.Parts, "n", partition.DefaultParts, "alias of --parts")
	fs.StringVar(&o.Prefix, "prefix", "labeled", "output prefix")
	fs.StringVar(&o.OutDir, "out-dir", ".", "output directory")
	fs.StringVar(&o.OutDir, "o", ".", "alias of --out-dir")
	fs.StringVar(&o.Column, "column", partition.GroupColumn, "group column")

	pos, err := clibase.Parse(fs, &o.Common, argv)
	if err != nil || o.Version {
		return o, err
	}
	if err := clibase.Validate(&o.Common); err != nil {
		return o, err
	}
	if err := clibase.RequireArgs(pos, 1, 1, "metadata TSV (use - for stdin)"); err != nil {
		return o, err
	}
	o.Input = pos[0]
	if o.Parts < 1 {
		return o, fmt.Errorf("--parts must be >= 1 (got %d)", o.Parts)
	}
	if o.Prefix == "" {
		return o, fmt.Errorf("--prefix must not be empty")
	}
	return o, nil
}
