// Package monitor runs a check through the monitor execution contract:
// resolve the declared parameters, execute the check, and emit exactly one
// result block. Every path, including panics and timeouts, converges on the
// same result emission; the process never exits without result markers,
// since an unmarked exit is indistinguishable from a host-side execution
// failure.
package monitor

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mkarppi/rmmc/pkg/markers"
	"github.com/mkarppi/rmmc/pkg/param"
	"github.com/mkarppi/rmmc/pkg/status"
)

// DefaultOutputVar is the output variable name used when none is configured.
const DefaultOutputVar = "Status"

// Check is the caller-supplied monitor logic. It receives the resolved
// parameter values and a diagnostic writer for operator-visible progress
// lines, and returns the verdict. A returned error is converted to an
// Error-status result by the runner.
type Check func(vals param.Values, diag *markers.Writer) (status.Result, error)

// Runner executes one check per process invocation. The zero value emits to
// stdout, reads the real environment, uses the default output variable, and
// applies no timeout.
type Runner struct {
	OutputVar string          // defaults to DefaultOutputVar
	Params    []param.Spec    // declared parameter schema
	Getter    param.EnvGetter // injected for testing
	Timeout   time.Duration   // 0 means no bound on the check
	Out       io.Writer       // defaults to os.Stdout
}

// Run resolves parameters, executes the check, and emits the result block.
// It returns the host-visible exit code (0 for OK, non-zero otherwise); the
// caller performs the single os.Exit.
func (r *Runner) Run(check Check) int {
	out := r.Out
	if out == nil {
		out = os.Stdout
	}
	outputVar := r.OutputVar
	if outputVar == "" {
		outputVar = DefaultOutputVar
	}

	w := markers.NewWriter(out)
	w.OpenDiagnostic()

	result := r.execute(check, w)

	// WriteResult closes the diagnostic block first; the error path is
	// unreachable because execute produces exactly one result.
	if err := w.WriteResult(result.Line(outputVar)); err != nil {
		return 1
	}
	return result.Status.ExitCode()
}

func (r *Runner) execute(check Check, w *markers.Writer) (result status.Result) {
	defer func() {
		if rec := recover(); rec != nil {
			result = status.Errorf("check panicked: %v", rec)
		}
	}()

	resolver := &param.Resolver{Getter: r.Getter}
	vals, err := resolver.Resolve(r.Params...)
	if err != nil {
		// A missing required parameter is a configuration fault, never
		// silently defaulted.
		return status.Errorf("%v", err)
	}

	run := func() (status.Result, error) {
		return check(vals, w)
	}

	var res status.Result
	if r.Timeout > 0 {
		res, err = RunWithTimeout(r.Timeout, run)
	} else {
		res, err = run()
	}
	if err != nil {
		return status.Errorf("%v", err)
	}
	return res
}

// ErrTimeout reports a check that did not complete within its bound.
var ErrTimeout = fmt.Errorf("check timed out")

// RunWithTimeout executes fn in the background and waits at most d for it
// to finish. On expiry the background work is abandoned, not cancelled:
// there is no propagation into fn, and its goroutine is simply orphaned.
// The process is short-lived, so the leak ends at exit.
func RunWithTimeout(d time.Duration, fn func() (status.Result, error)) (status.Result, error) {
	type outcome struct {
		result status.Result
		err    error
	}

	done := make(chan outcome, 1)
	go func() {
		// A panic on this goroutine would kill the process before any
		// result markers are written, so it is caught here and surfaced
		// as an ordinary error for the caller to convert.
		defer func() {
			if rec := recover(); rec != nil {
				done <- outcome{err: fmt.Errorf("check panicked: %v", rec)}
			}
		}()
		res, err := fn()
		done <- outcome{result: res, err: err}
	}()

	select {
	case o := <-done:
		return o.result, o.err
	case <-time.After(d):
		return status.Result{}, fmt.Errorf("%w after %s", ErrTimeout, d)
	}
}
