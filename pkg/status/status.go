// Package status defines the result taxonomy of the monitor execution
// contract: a severity, a single-line message, and the zero/non-zero
// exit-code mapping the RMM host observes.
package status

import (
	"fmt"
	"strings"
)

// Status represents the severity of a monitor result.
type Status string

const (
	OK       Status = "OK"
	Warning  Status = "WARNING"
	Critical Status = "CRITICAL"
	Error    Status = "ERROR"
)

// ExitCode maps the status onto the host-visible exit code. The host only
// distinguishes zero from non-zero; severity is carried in the status line
// and the host-side alert priority setting, never in the exit code.
func (s Status) ExitCode() int {
	if s == OK {
		return 0
	}
	return 1
}

// Result holds the outcome of a single monitor invocation.
type Result struct {
	Status  Status
	Message string
}

// OK returns true if the result is healthy.
func (r Result) OK() bool {
	return r.Status == OK
}

// Line renders the result as the status line the host parses:
// "<outputVar>=<STATUS>: <message>". The message is flattened onto one line.
func (r Result) Line(outputVar string) string {
	return outputVar + "=" + string(r.Status) + ": " + flatten(r.Message)
}

// flatten collapses a message onto a single line. The result block admits
// exactly one line, so embedded newlines would corrupt the protocol.
func flatten(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", " ")
	msg = strings.ReplaceAll(msg, "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	return strings.TrimSpace(msg)
}

// Okf builds an OK result with a formatted message.
func Okf(format string, args ...interface{}) Result {
	return resultf(OK, format, args)
}

// Warningf builds a Warning result with a formatted message.
func Warningf(format string, args ...interface{}) Result {
	return resultf(Warning, format, args)
}

// Criticalf builds a Critical result with a formatted message.
func Criticalf(format string, args ...interface{}) Result {
	return resultf(Critical, format, args)
}

// Errorf builds an Error result with a formatted message.
func Errorf(format string, args ...interface{}) Result {
	return resultf(Error, format, args)
}

func resultf(s Status, format string, args []interface{}) Result {
	return Result{Status: s, Message: fmt.Sprintf(format, args...)}
}
