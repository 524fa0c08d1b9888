package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkarppi/rmmc/pkg/installer"
	"github.com/mkarppi/rmmc/pkg/output"
)

var installArgs []string

var installCmd = &cobra.Command{
	Use:   "install <artifact>",
	Short: "Run an installer artifact and report the deployment outcome",
	Long:  "Launches the installer synchronously and maps its exit code onto the deployment outcome taxonomy (0 success, 3010/1641 success with reboot, anything else failure). The process exit code mirrors the outcome.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInstall,
}

func init() {
	installCmd.Flags().StringSliceVar(&installArgs, "args", nil, "arguments passed to the installer (comma-separated)")
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	artifact := args[0]

	log.Info("launching installer", map[string]interface{}{
		"artifact": artifact,
		"args":     installArgs,
	})

	inst := &installer.Installer{}
	res := inst.Install(artifact, installArgs)

	out := cmd.OutOrStdout()
	output.PrintVerdict(out, res.Outcome.Succeeded(), artifact)
	output.PrintDetail(out, res.Outcome.Succeeded(), fmt.Sprintf("outcome: %s", res.Outcome))
	output.PrintDetail(out, res.Outcome.Succeeded(), res.Message)

	exitCode = res.Outcome.ExitCode()
	if !res.Outcome.Succeeded() {
		return fmt.Errorf("install failed: %s", res.Message)
	}
	return nil
}
