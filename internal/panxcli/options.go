// internal/panxcli/options.go
package panxcli

import (
	"flag"
	"fmt"
	"io"

	"rnaseqkit/internal/clibase"
)

type Options struct {
	clibase.Common

	Dir     string
	Fasta   string
	Mapping string
}

func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	clibase.UsageCommon(fs, name, "core transcriptome from panX core-gene alignments", func(out io.Writer, def func(string) string) {
		_, _ = fmt.Fprintln(out, "Usage:")
		_, _ = fmt.Fprintf(out, "  %s [options] core_genes/\n", name)

		_, _ = fmt.Fprintln(out, "\nOutput:")
		_, _ = fmt.Fprintf(out, "      --fasta file            Combined FASTA; .gz/.sz compress [%s]\n", def("fasta"))
		_, _ = fmt.Fprintf(out, "      --mapping file          transcript_id -> orthogroup table [%s]\n", def("mapping"))
	})
	return fs
}

// PrintExamples prints a short quickstart for rnaseqkit-panx.
func PrintExamples(out io.Writer) {
	clibase.PrintExamples(out, "rnaseqkit-panx", func(w io.Writer) {
		_, _ = fmt.Fprintln(w, "  rnaseqkit-panx --fasta panx_core_transcriptome.fa core_genes/")
		_, _ = fmt.Fprintln(w, "  salmon index -t panx_core_transcriptome.fa -i panx_index")
	})
}

func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var o Options
	clibase.Register(fs, &o.Common)
	fs.StringVar(&o.Fasta, "fasta", "panx_core_transcriptome.fa", "combined FASTA")
	fs.StringVar(&o.Mapping, "mapping", "transcript_to_orthogroup.tsv", "mapping table")

	pos, err := clibase.Parse(fs, &o.Common, argv)
	if err != nil || o.Version {
		return o, err
	}
	if err := clibase.Validate(&o.Common); err != nil {
		return o, err
	}
	if err := clibase.RequireArgs(pos, 1, 1, "core gene alignment directory"); err != nil {
		return o, err
	}
	o.Dir = pos[0]
	if o.Fasta == o.Mapping {
		return o, fmt.Errorf("--fasta and --mapping must differ")
	}
	return o, nil
}
