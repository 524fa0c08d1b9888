package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mkarppi/rmmc/pkg/markers"
	"github.com/mkarppi/rmmc/pkg/output"
)

var validateOutputVar string

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a captured transcript against the monitor output contract",
	Long:  "Checks marker presence and order, and that the result block holds exactly one output variable line. Reads from stdin when the file is '-' or omitted.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateOutputVar, "output-var", "Status", "monitor output variable name")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	source := "-"
	if len(args) == 1 {
		source = args[0]
	}

	var (
		data []byte
		err  error
	)
	if source == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
		source = "<stdin>"
	} else {
		data, err = os.ReadFile(source) //nolint:gosec // intentional: reading user-supplied transcript
	}
	if err != nil {
		return fmt.Errorf("read transcript: %w", err)
	}

	result := markers.Validate(string(data), validateOutputVar)
	out := cmd.OutOrStdout()
	if result.OK {
		output.PrintVerdict(out, true, fmt.Sprintf("monitor output valid (%s)", source))
		return nil
	}

	output.PrintVerdict(out, false, fmt.Sprintf("monitor output invalid (%s)", source))
	for _, e := range result.Errors {
		output.PrintDetail(out, false, e)
	}
	exitCode = 2
	return fmt.Errorf("monitor output failed validation")
}
