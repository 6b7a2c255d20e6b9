// internal/tpmcli/options.go
package tpmcli

import (
	"flag"
	"fmt"
	"io"

	"rnaseqkit-core/quant"
	"rnaseqkit/internal/clibase"
	"rnaseqkit/internal/output"
)

type Options struct {
	clibase.Common

	Input    string
	Genome   string
	Out      string
	Output   string
	NoHeader bool
}

func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	clibase.UsageCommon(fs, name, "per-orthogroup TPM from a salmon quant.sf", func(out io.Writer, def func(string) string) {
		_, _ = fmt.Fprintln(out, "Usage:")
		_, _ = fmt.Fprintf(out, "  %s [options] quant.sf\n", name)

		_, _ = fmt.Fprintln(out, "\nAggregation:")
		_, _ = fmt.Fprintf(out, "  -g, --genome string         Keep transcripts of this genome prefix [%s]\n", def("genome"))

		_, _ = fmt.Fprintln(out, "\nOutput:")
		_, _ = fmt.Fprintf(out, "      --out file              Output file; .gz/.sz compress, - is stdout [%s]\n", def("out"))
		_, _ = fmt.Fprintf(out, "      --output string         tsv | json | jsonl [%s]\n", def("output"))
		_, _ = fmt.Fprintf(out, "      --no-header             Omit the TSV header [%s]\n", def("no-header"))
	})
	return fs
}

// PrintExamples prints a short quickstart for rnaseqkit-tpm.
func PrintExamples(out io.Writer) {
	clibase.PrintExamples(out, "rnaseqkit-tpm", func(w io.Writer) {
		_, _ = fmt.Fprintln(w, "Gene-level TPM for W3110 from a pan-transcriptome quantification:")
		_, _ = fmt.Fprintln(w, "  rnaseqkit-tpm --out GSM1_SRR1.tpm.tsv salmon/GSM1_SRR1/quant.sf")
	})
}

func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var o Options
	clibase.Register(fs, &o.Common)
	fs.StringVar(&o.Genome, "genome", quant.DefaultGenomePrefix, "genome prefix")
	fs.StringVar(&o.Genome, "g", quant.DefaultGenomePrefix, "alias of --genome")
	fs.StringVar(&o.Out, "out", "-", "output file")
	fs.StringVar(&o.Output, "output", output.FormatTSV, "tsv | json | jsonl")
	fs.BoolVar(&o.NoHeader, "no-header", false, "omit the TSV header")

	pos, err := clibase.Parse(fs, &o.Common, argv)
	if err != nil || o.Version {
		return o, err
	}
	if err := clibase.Validate(&o.Common); err != nil {
		return o, err
	}
	if err := clibase.RequireArgs(pos, 1, 1, "quant.sf (use - for stdin)"); err != nil {
		return o, err
	}
	o.Input = pos[0]
	switch o.Output {
	case output.FormatTSV, output.FormatJSON, output.FormatJSONL:
	default:
		return o, fmt.Errorf("--output must be tsv, json or jsonl (got %q)", o.Output)
	}
	if o.Genome == "" {
		return o, fmt.Errorf("--genome must not be empty")
	}
	return o, nil
}
