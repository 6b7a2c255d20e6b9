// internal/clibase/usage.go
package clibase

import (
	"flag"
	"fmt"
	"io"

	"rnaseqkit/internal/version"
)

// UsageCommon installs a shared Usage() handler on fs.
// extra prints tool-specific sections (usage line, tool flags).
func UsageCommon(fs *flag.FlagSet, name, summary string, extra func(out io.Writer, def func(string) string)) {
	fs.Usage = func() {
		out := fs.Output()
		def := func(flagName string) string {
			if f := fs.Lookup(flagName); f != nil {
				return f.DefValue
			}
			return ""
		}

		// Header
		fmt.Fprintf(out, "%s – %s\n\n", name, summary)
		fmt.Fprintln(out, "Part of rnaseqkit, the E. coli pan-transcriptome RNA-seq toolkit")
		fmt.Fprintln(out, "License: MIT")
		fmt.Fprintf(out, "Version: %s\n\n", version.Version)

		if extra != nil {
			extra(out, def)
		}

		fmt.Fprintln(out, "\nMiscellaneous:")
		fmt.Fprintln(out, "      --config file           TOML config; explicit flags win over config values")
		fmt.Fprintln(out, "      --metrics-file file     Write Prometheus textfile metrics on exit")
		fmt.Fprintln(out, "      --cpu-profile dir       Write a CPU profile into dir")
		fmt.Fprintf(out, "  -q, --quiet                 Suppress non-essential warnings [%s]\n", def("quiet"))
		fmt.Fprintln(out, "      --examples              Show quickstart examples and exit")
		fmt.Fprintln(out, "  -v, --version               Print version and exit")
		fmt.Fprintln(out, "  -h, --help                  Show this help and exit")
	}
}
