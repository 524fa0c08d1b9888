// Package installer invokes an application installer synchronously and maps
// its exit code onto the deployment outcome taxonomy. The 3010/1641 values
// belong exclusively to this installer contract; the monitor exit protocol
// never uses them.
package installer

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// Outcome classifies an installer run.
type Outcome int

const (
	Failure Outcome = iota
	Success
	SuccessRebootRequired
	SuccessRebootInitiated
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "Success"
	case SuccessRebootRequired:
		return "SuccessRebootRequired"
	case SuccessRebootInitiated:
		return "SuccessRebootInitiated"
	default:
		return "Failure"
	}
}

// Succeeded reports whether the install landed, reboot pending or not.
func (o Outcome) Succeeded() bool {
	return o != Failure
}

// ExitCode maps the outcome back onto the exit code a deployment component
// reports to the host.
func (o Outcome) ExitCode() int {
	switch o {
	case Success:
		return 0
	case SuccessRebootRequired:
		return 3010
	case SuccessRebootInitiated:
		return 1641
	default:
		return 1
	}
}

// FromExitCode maps an installer's exit code onto an Outcome.
func FromExitCode(code int) Outcome {
	switch code {
	case 0:
		return Success
	case 3010:
		return SuccessRebootRequired
	case 1641:
		return SuccessRebootInitiated
	default:
		return Failure
	}
}

// Result carries the outcome plus context for the deployment report.
type Result struct {
	Outcome  Outcome
	ExitCode int // raw installer exit code, meaningful when launched
	Message  string
}

// Runner abstracts installer process launch for testability.
type Runner interface {
	// Run launches the installer and blocks until it exits, returning the
	// terminal exit code. err is non-nil only when the process could not be
	// launched or its exit code could not be observed.
	Run(path string, args []string) (exitCode int, err error)
}

// RealRunner launches installers with os/exec.
type RealRunner struct{}

func (r *RealRunner) Run(path string, args []string) (int, error) {
	cmd := exec.Command(path, args...)
	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return 0, err
}

// FileStater abstracts artifact existence checks for testability.
type FileStater interface {
	Stat(path string) (os.FileInfo, error)
}

// RealFileStater uses actual os.Stat.
type RealFileStater struct{}

func (r *RealFileStater) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

// Installer runs a single installer artifact. The artifact is expected at a
// path relative to the working directory, staged out-of-band by the host's
// file attachment mechanism.
type Installer struct {
	Runner Runner     // injected for testing
	Stater FileStater // injected for testing
}

// Install checks the artifact exists, launches it, and maps the exit code.
// A missing artifact or a launch fault is reported as a Failure result,
// never as an error: deployment components always exit through the same
// reporting path.
func (i *Installer) Install(path string, args []string) Result {
	runner := i.Runner
	if runner == nil {
		runner = &RealRunner{}
	}
	stater := i.Stater
	if stater == nil {
		stater = &RealFileStater{}
	}

	info, err := stater.Stat(path)
	if err != nil || info.IsDir() {
		return Result{
			Outcome: Failure,
			Message: fmt.Sprintf("installer artifact %s not found in working directory", path),
		}
	}

	code, err := runner.Run(path, args)
	if err != nil {
		return Result{
			Outcome: Failure,
			Message: fmt.Sprintf("installer failed to launch: %v", err),
		}
	}

	outcome := FromExitCode(code)
	return Result{
		Outcome:  outcome,
		ExitCode: code,
		Message:  fmt.Sprintf("installer exited with code %d (%s)", code, outcome),
	}
}
