package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mkarppi/rmmc/pkg/envfile"
	"github.com/mkarppi/rmmc/pkg/manifest"
	"github.com/mkarppi/rmmc/pkg/markers"
	"github.com/mkarppi/rmmc/pkg/output"
)

var (
	runVars        string
	runWorkdir     string
	runAttachments string
	runManifest    string
	runOutputVar   string
	runValidateOut bool
)

var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "Run a component script locally and capture its output",
	Long:  "Executes a .ps1 or .sh component in a scratch working directory with injected variables and staged attachments, the way the host agent would, and captures stdout/stderr to files.",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&runVars, "vars", "", "KEY=VALUE vars file injected into the environment")
	runCmd.Flags().StringVar(&runWorkdir, "workdir", "", "working directory for the run (default: fresh temp dir)")
	runCmd.Flags().StringVar(&runAttachments, "attachments", "", "directory of files staged into the working directory")
	runCmd.Flags().StringVar(&runManifest, "manifest", "", "component manifest supplying parameter defaults and the output variable")
	runCmd.Flags().StringVar(&runOutputVar, "output-var", "Status", "monitor output variable name")
	runCmd.Flags().BoolVar(&runValidateOut, "validate", false, "validate the captured output against the monitor contract")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	script, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	if _, err := os.Stat(script); err != nil {
		return fmt.Errorf("script not found: %w", err)
	}

	interpreter, err := interpreterFor(script)
	if err != nil {
		return err
	}

	env := os.Environ()
	outputVar := runOutputVar
	validate := runValidateOut

	if runManifest != "" {
		m, err := manifest.Load(runManifest)
		if err != nil {
			return err
		}
		log.Debug("manifest loaded", map[string]interface{}{"component": m.String()})
		env = append(env, m.Env()...)
		outputVar = m.ResolvedOutputVar()
		if m.Category == manifest.CategoryMonitor {
			validate = true
		}
	}
	if runVars != "" {
		vars, err := envfile.ParseFile(runVars)
		if err != nil {
			return err
		}
		for k, v := range vars {
			env = append(env, k+"="+v)
		}
	}

	workdir := runWorkdir
	if workdir == "" {
		workdir, err = os.MkdirTemp("", "rmmc-run-")
		if err != nil {
			return fmt.Errorf("create workdir: %w", err)
		}
	} else if err := os.MkdirAll(workdir, 0o755); err != nil {
		return fmt.Errorf("create workdir: %w", err)
	}

	if runAttachments != "" {
		if err := stageAttachments(runAttachments, workdir); err != nil {
			return err
		}
	}

	stdoutPath := filepath.Join(workdir, "stdout.txt")
	stderrPath := filepath.Join(workdir, "stderr.txt")

	log.Info("running component", map[string]interface{}{
		"script":  script,
		"workdir": workdir,
	})

	scriptExit, err := executeScript(interpreter, script, workdir, env, stdoutPath, stderrPath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	output.PrintVerdict(out, scriptExit == 0, filepath.Base(script))
	output.PrintDetail(out, scriptExit == 0, fmt.Sprintf("exit code: %d", scriptExit))
	output.PrintDetail(out, scriptExit == 0, fmt.Sprintf("workdir: %s", workdir))
	output.PrintDetail(out, scriptExit == 0, fmt.Sprintf("stdout: %s", stdoutPath))
	output.PrintDetail(out, scriptExit == 0, fmt.Sprintf("stderr: %s", stderrPath))

	exitCode = scriptExit

	if validate {
		transcript, err := os.ReadFile(stdoutPath) //nolint:gosec // path built above
		if err != nil {
			return fmt.Errorf("read captured stdout: %w", err)
		}
		v := markers.Validate(string(transcript), outputVar)
		output.PrintVerdict(out, v.OK, fmt.Sprintf("monitor output (%s=...)", outputVar))
		for _, e := range v.Errors {
			output.PrintDetail(out, false, e)
		}
		// A script that already failed keeps its own exit code; otherwise
		// surface the validation failure.
		if !v.OK && scriptExit == 0 {
			exitCode = 2
			return fmt.Errorf("monitor output failed validation")
		}
	}

	if scriptExit != 0 {
		return fmt.Errorf("script exited with code %d", scriptExit)
	}
	return nil
}

// interpreterFor picks the interpreter command line for a script path.
func interpreterFor(script string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(script)) {
	case ".ps1":
		return []string{"pwsh", "-NoProfile", "-NonInteractive", "-ExecutionPolicy", "Bypass", "-File"}, nil
	case ".sh":
		return []string{"bash"}, nil
	default:
		return nil, fmt.Errorf("unsupported script extension %q (want .ps1 or .sh)", filepath.Ext(script))
	}
}

func executeScript(interpreter []string, script, workdir string, env []string, stdoutPath, stderrPath string) (int, error) {
	stdout, err := os.Create(stdoutPath) //nolint:gosec // path built above
	if err != nil {
		return 0, fmt.Errorf("create stdout capture: %w", err)
	}
	defer stdout.Close()
	stderr, err := os.Create(stderrPath) //nolint:gosec // path built above
	if err != nil {
		return 0, fmt.Errorf("create stderr capture: %w", err)
	}
	defer stderr.Close()

	cmdline := append(append([]string{}, interpreter...), script)
	proc := exec.Command(cmdline[0], cmdline[1:]...) //nolint:gosec // intentional: running user-supplied script
	proc.Dir = workdir
	proc.Env = env
	proc.Stdout = stdout
	proc.Stderr = stderr

	err = proc.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return 0, fmt.Errorf("launch %s: %w", cmdline[0], err)
}

// stageAttachments copies the regular files of dir into workdir, simulating
// the host's file attachment mechanism. Subdirectories are ignored.
func stageAttachments(dir, workdir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("attachments directory: %w", err)
	}
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if err := copyFile(filepath.Join(dir, entry.Name()), filepath.Join(workdir, entry.Name())); err != nil {
			return fmt.Errorf("stage attachment %s: %w", entry.Name(), err)
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src) //nolint:gosec // intentional: staging user-supplied attachment
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst) //nolint:gosec // path built above
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
