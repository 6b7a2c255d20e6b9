// internal/strandcli/options.go
package strandcli

import (
	"flag"
	"fmt"
	"io"

	"rnaseqkit-core/strand"
	"rnaseqkit/internal/clibase"
	"rnaseqkit/internal/output"
)

type Options struct {
	clibase.Common

	Input     string
	Threshold float64
	Out       string
	Output    string
}

func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	clibase.UsageCommon(fs, name, "featureCounts -s code from RSeQC infer_experiment.py", func(out io.Writer, def func(string) string) {
		_, _ = fmt.Fprintln(out, "Usage:")
		_, _ = fmt.Fprintf(out, "  %s [options] infer_experiment.txt\n", name)

		_, _ = fmt.Fprintln(out, "\nOptions:")
		_, _ = fmt.Fprintf(out, "  -t, --threshold float       Read fraction above which a library is stranded [%s]\n", def("threshold"))
		_, _ = fmt.Fprintf(out, "      --out file              Output file, - is stdout [%s]\n", def("out"))
		_, _ = fmt.Fprintf(out, "      --output string         text | json [%s]\n", def("output"))
	})
	return fs
}

// PrintExamples prints a short quickstart for rnaseqkit-strand.
func PrintExamples(out io.Writer) {
	clibase.PrintExamples(out, "rnaseqkit-strand", func(w io.Writer) {
		_, _ = fmt.Fprintln(w, "  infer_experiment.py -r genes.bed -i sample.bam > infer.txt")
		_, _ = fmt.Fprintln(w, "  rnaseqkit-strand --out sample.strand infer.txt")
	})
}

func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var o Options
	clibase.Register(fs, &o.Common)
	fs.Float64Var(&o.Threshold, "threshold", strand.DefaultThreshold, "stranded threshold")
	fs.Float64Var(&o.Threshold, "t", strand.DefaultThreshold, "alias of --threshold")
	fs.StringVar(&o.Out, "out", "-", "output file")
	fs.StringVar(&o.Output, "output", output.FormatText, "text | json")

	pos, err := clibase.Parse(fs, &o.Common, argv)
	if err != nil || o.Version {
		return o, err
	}
	if err := clibase.Validate(&o.Common); err != nil {
		return o, err
	}
	if err := clibase.RequireArgs(pos, 1, 1, "infer_experiment.py report (use - for stdin)"); err != nil {
		return o, err
	}
	o.Input = pos[0]
	if o.Threshold <= 0 || o.Threshold >= 1 {
		return o, fmt.Errorf("--threshold must be in (0,1) (got %g)", o.Threshold)
	}
	switch o.Output {
	case output.FormatText, output.FormatJSON:
	default:
		return o, fmt.Errorf("--output must be text or json (got %q)", o.Output)
	}
	return o, nil
}
