// Package output renders human-facing verdicts for the CLI with colored
// status tags. It is never used on a component's protocol stream; marker
// output must stay free of ANSI codes.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/jwalton/go-supportscolor"
)

var (
	green = "\033[32m"
	red   = "\033[31m"
	dim   = "\033[2m"
	reset = "\033[0m"
)

func init() {
	if !supportscolor.Stdout().SupportsColor {
		green, red, dim, reset = "", "", "", ""
	}
}

// PrintVerdict writes a colored [OK]/[FAIL] line for name.
func PrintVerdict(w io.Writer, ok bool, name string) {
	if ok {
		fmt.Fprintf(w, "%s[OK]%s %s\n", green, reset, name)
	} else {
		fmt.Fprintf(w, "%s[FAIL]%s %s\n", red, reset, name)
	}
}

// PrintDetail writes an indented detail line under a verdict. Details of
// the form "label: value" get a dimmed label.
func PrintDetail(w io.Writer, ok bool, detail string) {
	indent := "     " // aligns under "[OK] "
	if !ok {
		indent = "       " // aligns under "[FAIL] "
	}
	fmt.Fprintf(w, "%s%s\n", indent, formatLabel(detail))
}

func formatLabel(detail string) string {
	label, rest, found := strings.Cut(detail, ": ")
	if !found {
		return detail
	}
	return dim + label + ":" + reset + " " + rest
}
