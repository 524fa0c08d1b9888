package status

import (
	"fmt"
	"strings"
)

// ParseLine parses a status line back into a Result. It accepts the emitted
// grammar ("<var>=<STATUS>: <message>") and, for compatibility with older
// component templates, the legacy bare form ("OK=<message>" / "X=<message>")
// where the variable name itself carries the verdict. The legacy form is
// parse-only; Line never emits it.
func ParseLine(line, outputVar string) (Result, error) {
	line = strings.TrimRight(line, "\r\n")

	name, value, found := strings.Cut(line, "=")
	if !found {
		return Result{}, fmt.Errorf("not a status line: %q", line)
	}

	// Legacy grammar: the variable name is the verdict.
	switch name {
	case "OK":
		return Result{Status: OK, Message: value}, nil
	case "X":
		return Result{Status: Critical, Message: value}, nil
	}

	if name != outputVar {
		return Result{}, fmt.Errorf("unexpected output variable %q, want %q", name, outputVar)
	}

	for _, s := range []Status{OK, Warning, Critical, Error} {
		prefix := string(s) + ":"
		if strings.HasPrefix(value, prefix) {
			return Result{
				Status:  s,
				Message: strings.TrimPrefix(strings.TrimPrefix(value, prefix), " "),
			}, nil
		}
	}
	return Result{}, fmt.Errorf("status line %q has no recognized severity prefix", line)
}
