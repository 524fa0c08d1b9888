package markers

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var outputVarRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ValidOutputVar reports whether name is usable as a monitor output
// variable: letters, digits and underscore only.
func ValidOutputVar(name string) bool {
	return outputVarRe.MatchString(name)
}

// ValidationResult holds the outcome of transcript validation.
type ValidationResult struct {
	OK     bool
	Errors []string
}

// Validate checks a captured component transcript against the monitor
// output contract: exactly one of each marker, in strict order, and exactly
// one "<outputVar>=..." line inside the result block with no space after
// the equals sign.
func Validate(transcript, outputVar string) ValidationResult {
	if !ValidOutputVar(outputVar) {
		return invalid(fmt.Sprintf("invalid output variable %q: use only letters, digits, and underscore", outputVar))
	}

	lines := strings.Split(transcript, "\n")

	findAll := func(marker string) []int {
		var at []int
		for i, line := range lines {
			if strings.TrimSpace(line) == marker {
				at = append(at, i)
			}
		}
		return at
	}

	diagStart := findAll(StartDiagnostic)
	diagEnd := findAll(EndDiagnostic)
	resStart := findAll(StartResult)
	resEnd := findAll(EndResult)

	var errs []string
	for _, m := range []struct {
		marker string
		found  []int
	}{
		{StartDiagnostic, diagStart},
		{EndDiagnostic, diagEnd},
		{StartResult, resStart},
		{EndResult, resEnd},
	} {
		if len(m.found) != 1 {
			errs = append(errs, fmt.Sprintf("expected exactly one %q line, found %d", m.marker, len(m.found)))
		}
	}
	if len(errs) > 0 {
		return ValidationResult{Errors: errs}
	}

	ds, de, rs, re := diagStart[0], diagEnd[0], resStart[0], resEnd[0]
	if !(ds < de && de < rs && rs < re) {
		return invalid("marker order must be: Start Diagnostic, End Diagnostic, Start Result, End Result")
	}

	var resultLines []string
	for _, line := range lines[rs+1 : re] {
		if strings.TrimSpace(strings.TrimRight(line, "\r")) != "" {
			resultLines = append(resultLines, strings.TrimRight(line, "\r"))
		}
	}
	if len(resultLines) == 0 {
		return invalid("result block is empty; expected one output variable line")
	}

	prefix := outputVar + "="
	var matching []string
	for _, line := range resultLines {
		if strings.HasPrefix(line, prefix) && len(line) > len(prefix) {
			matching = append(matching, line)
		}
	}
	if len(matching) != 1 {
		return invalid(
			fmt.Sprintf("expected exactly one %q line inside the result block, found %d", prefix+"...", len(matching)),
			fmt.Sprintf("example: %s=OK: all checks passed", outputVar),
		)
	}
	if len(resultLines) > 1 {
		return invalid("result block must contain exactly one non-empty line (the output variable line)")
	}

	value := matching[0][len(prefix):]
	if unicode.IsSpace(rune(value[0])) {
		return invalid(fmt.Sprintf("no space after '=' (use '%s=OK: ...', not '%s= OK: ...')", outputVar, outputVar))
	}

	return ValidationResult{OK: true}
}

func invalid(errs ...string) ValidationResult {
	return ValidationResult{Errors: errs}
}
