// internal/selectcli/options.go
package selectcli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"rnaseqkit-core/cluster"
	"rnaseqkit-core/mash"
	"rnaseqkit/internal/clibase"
	"rnaseqkit/internal/output"
)

// Selection modes.
const (
	ModeFarthest = "farthest"
	ModeCluster  = "cluster"
	ModeBoth     = "both"
)

// DefaultCount is the number of genomes kept by farthest-point selection.
const DefaultCount = 51

type Options struct {
	clibase.Common

	Input string // mash dist table, "-" for stdin

	Mode            string
	Count           int
	Threshold       float64
	DefaultDistance float64
	Reference       string
	Markers         []string
	Exclude         []string

	OutDir    string
	Artifacts string // blob driver
	Catalog   string // DSN
	Output    string // stdout summary format
}

func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	clibase.UsageCommon(fs, name, "pick representative genomes from Mash distances", func(out io.Writer, def func(string) string) {
		_, _ = fmt.Fprintln(out, "Usage:")
		_, _ = fmt.Fprintf(out, "  %s [options] mash_distances.tsv\n", name)

		_, _ = fmt.Fprintln(out, "\nSelection:")
		_, _ = fmt.Fprintf(out, "      --mode string           farthest | cluster | both [%s]\n", def("mode"))
		_, _ = fmt.Fprintf(out, "  -k, --count int             Genomes kept by farthest-point selection [%s]\n", def("count"))
		_, _ = fmt.Fprintf(out, "  -t, --threshold float       Flat-cut height for average linkage [%s]\n", def("threshold"))
		_, _ = fmt.Fprintln(out, "      --reference string      Substring naming the reference genome (overrides --marker)")
		_, _ = fmt.Fprintln(out, "      --marker string         Reference marker; repeatable [GCF_000005845, K-12, CP000948]")
		_, _ = fmt.Fprintf(out, "      --default-distance f    Distance used for missing pairs [%s]\n", def("default-distance"))
		_, _ = fmt.Fprintln(out, "  -x, --exclude string        Drop a genome from the matrix after selection; repeatable")

		_, _ = fmt.Fprintln(out, "\nOutput:")
		_, _ = fmt.Fprintf(out, "  -o, --out-dir dir           Artifact directory for the fs driver [%s]\n", def("out-dir"))
		_, _ = fmt.Fprintln(out, "      --artifacts string      Artifact store: fs | s3 | memory [fs]")
		_, _ = fmt.Fprintln(out, "      --catalog dsn           Record the run (sqlite:path.db | postgres://...)")
		_, _ = fmt.Fprintf(out, "      --output string         Summary on stdout: text | json [%s]\n", def("output"))
	})
	return fs
}

// PrintExamples prints a short quickstart for rnaseqkit-select.
func PrintExamples(out io.Writer) {
	clibase.PrintExamples(out, "rnaseqkit-select", func(w io.Writer) {
		_, _ = fmt.Fprintln(w, "Pick 51 diverse genomes, then cluster them and keep one per cluster:")
		_, _ = fmt.Fprintln(w, "  mash dist -p 8 ref.msh genomes/*.fna > mash_distances.tsv")
		_, _ = fmt.Fprintln(w, "  rnaseqkit-select -k 51 -x genomes/GCF_021307345.1_ASM2130734v1_genomic.fna \\")
		_, _ = fmt.Fprintln(w, "    -o selection mash_distances.tsv")
		_, _ = fmt.Fprintln(w, "\nCluster every genome, artifacts to S3, run recorded in SQLite:")
		_, _ = fmt.Fprintln(w, "  RNASEQKIT_S3_BUCKET=runs rnaseqkit-select --mode cluster --artifacts s3 \\")
		_, _ = fmt.Fprintln(w, "    --catalog sqlite:runs.db mash_distances.tsv.gz")
	})
}

func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var o Options
	clibase.Register(fs, &o.Common)

	fs.StringVar(&o.Mode, "mode", ModeBoth, "farthest | cluster | both")
	fs.IntVar(&o.Count, "count", DefaultCount, "genomes kept by farthest-point selection")
	fs.IntVar(&o.Count, "k", DefaultCount, "alias of --count")
	fs.Float64Var(&o.Threshold, "threshold", cluster.DefaultThreshold, "flat-cut height")
	fs.Float64Var(&o.Threshold, "t", cluster.DefaultThreshold, "alias of --threshold")
	fs.Float64Var(&o.DefaultDistance, "default-distance", mash.DefaultMaxDistance, "distance for missing pairs")
	fs.StringVar(&o.Reference, "reference", "", "reference genome substring")
	fs.Var(clibase.StringSlice(&o.Markers), "marker", "reference marker (repeatable)")
	fs.Var(clibase.StringSlice(&o.Exclude), "exclude", "genome to drop (repeatable)")
	fs.Var(clibase.StringSlice(&o.Exclude), "x", "alias of --exclude")

	fs.StringVar(&o.OutDir, "out-dir", ".", "artifact directory")
	fs.StringVar(&o.OutDir, "o", ".", "alias of --out-dir")
	fs.StringVar(&o.Artifacts, "artifacts", "", "artifact store driver")
	fs.StringVar(&o.Catalog, "catalog", "", "results catalog DSN")
	fs.StringVar(&o.Output, "output", output.FormatText, "summary format")

	pos, err := clibase.Parse(fs, &o.Common, argv)
	if err != nil || o.Version {
		return o, err
	}
	applyConfig(&o, clibase.Set(fs))

	if err := clibase.Validate(&o.Common); err != nil {
		return o, err
	}
	if err := clibase.RequireArgs(pos, 1, 1, "mash distance table (use - for stdin)"); err != nil {
		return o, err
	}
	o.Input = pos[0]

	switch o.Mode {
	case ModeFarthest, ModeCluster, ModeBoth:
	default:
		return o, fmt.Errorf("--mode must be farthest, cluster or both (got %q)", o.Mode)
	}
	if o.Mode != ModeCluster && o.Count < 1 {
		return o, fmt.Errorf("--count must be >= 1 (got %d)", o.Count)
	}
	if o.Threshold < 0 {
		return o, fmt.Errorf("--threshold must be >= 0 (got %g)", o.Threshold)
	}
	if o.DefaultDistance <= 0 {
		return o, fmt.Errorf("--default-distance must be > 0 (got %g)", o.DefaultDistance)
	}
	switch o.Output {
	case output.FormatText, output.FormatJSON:
	default:
		return o, fmt.Errorf("--output must be text or json (got %q)", o.Output)
	}
	o.Reference = strings.TrimSpace(o.Reference)
	return o, nil
}

// applyConfig fills every option not given on the command line from the
// [select], [artifacts] and [catalog] config sections.
func applyConfig(o *Options, set map[string]bool) {
	sel := o.Config.Select
	if sel.Mode != nil && !set["mode"] {
		o.Mode = *sel.Mode
	}
	if sel.Count != nil && !set["count"] && !set["k"] {
		o.Count = *sel.Count
	}
	if sel.Threshold != nil && !set["threshold"] && !set["t"] {
		o.Threshold = *sel.Threshold
	}
	if sel.DefaultDistance != nil && !set["default-distance"] {
		o.DefaultDistance = *sel.DefaultDistance
	}
	if sel.Reference != nil && !set["reference"] {
		o.Reference = *sel.Reference
	}
	if len(sel.Markers) > 0 && !set["marker"] {
		o.Markers = append([]string(nil), sel.Markers...)
	}
	if len(sel.Exclude) > 0 && !set["exclude"] && !set["x"] {
		o.Exclude = append([]string(nil), sel.Exclude...)
	}
	art := o.Config.Artifacts
	if art.Driver != "" && !set["artifacts"] {
		o.Artifacts = art.Driver
	}
	if art.Dir != "" && !set["out-dir"] && !set["o"] {
		o.OutDir = art.Dir
	}
	if o.Config.Catalog.DSN != "" && !set["catalog"] {
		o.Catalog = o.Config.Catalog.DSN
	}
}
