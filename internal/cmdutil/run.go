package cmdutil

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"

	"rnaseqkit/internal/clibase"
	"rnaseqkit/internal/version"
	"rnaseqkit/internal/writers"
)

// Finish flushes outw and maps the outcome to an exit code. A downstream
// reader closing early (broken pipe) is not an error.
func Finish(outw *bufio.Writer, stderr io.Writer, code int) int {
	if err := outw.Flush(); writers.IsBrokenPipe(err) {
		return 0
	} else if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 3
	}
	return code
}

// Fail prints err and returns code.
func Fail(stderr io.Writer, code int, err error) int {
	_, _ = fmt.Fprintln(stderr, err)
	return code
}

// ParseExit handles a non-nil ParseArgs error: examples and help print to
// outw and exit 0; anything else prints the error plus usage and exits 2.
func ParseExit(fs *flag.FlagSet, outw *bufio.Writer, stderr io.Writer, err error, examples func(io.Writer)) int {
	switch {
	case errors.Is(err, clibase.ErrPrintedAndExitOK):
		if examples != nil {
			examples(outw)
		}
		return Finish(outw, stderr, 0)
	case errors.Is(err, flag.ErrHelp):
		fs.SetOutput(outw)
		fs.Usage()
		return Finish(outw, stderr, 0)
	}
	_, _ = fmt.Fprintln(stderr, err)
	fs.SetOutput(outw)
	fs.Usage()
	return Finish(outw, stderr, 2)
}

// Version prints "<tool> version X".
func Version(outw *bufio.Writer, stderr io.Writer, tool string) int {
	_, _ = fmt.Fprintf(outw, "%s version %s\n", tool, version.Version)
	return Finish(outw, stderr, 0)
}
