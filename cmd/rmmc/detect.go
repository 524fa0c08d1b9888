package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkarppi/rmmc/pkg/markers"
	"github.com/mkarppi/rmmc/pkg/monitor"
	"github.com/mkarppi/rmmc/pkg/param"
	"github.com/mkarppi/rmmc/pkg/software"
	"github.com/mkarppi/rmmc/pkg/status"
)

var (
	detectUserScope bool
	detectFixture   string
	detectOutputVar string
	detectExpect    string
	detectTimeout   time.Duration
)

var detectCmd = &cobra.Command{
	Use:   "detect <pattern>",
	Short: "Run the software-detection monitor against the local machine or a fixture",
	Long:  "Scans the system uninstall registry subtrees (and optionally loaded user hives) for software whose display name contains the pattern, and emits the full monitor output protocol.",
	Args:  cobra.ExactArgs(1),
	RunE:  runDetect,
}

func init() {
	detectCmd.Flags().BoolVar(&detectUserScope, "user-scope", false, "also scan per-user hives when the system scan finds nothing")
	detectCmd.Flags().StringVar(&detectFixture, "fixture", "", "JSON registry fixture to scan instead of the live registry")
	detectCmd.Flags().StringVar(&detectOutputVar, "output-var", "Status", "monitor output variable name")
	detectCmd.Flags().StringVar(&detectExpect, "expect", "present", "alert condition: 'present' alerts when missing, 'absent' alerts when found")
	detectCmd.Flags().DurationVar(&detectTimeout, "timeout", 3*time.Second, "upper bound on the scan (0 disables)")
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	pattern := args[0]

	if detectExpect != "present" && detectExpect != "absent" {
		return fmt.Errorf("--expect must be 'present' or 'absent', got %q", detectExpect)
	}

	var (
		reader software.Reader
		err    error
	)
	if detectFixture != "" {
		reader, err = software.LoadFixture(detectFixture)
	} else {
		reader, err = systemRegistryReader()
	}
	if err != nil {
		return err
	}

	detector := &software.Detector{Reader: reader}
	runner := &monitor.Runner{
		OutputVar: detectOutputVar,
		Timeout:   detectTimeout,
		Out:       cmd.OutOrStdout(),
	}

	exitCode = runner.Run(func(_ param.Values, diag *markers.Writer) (status.Result, error) {
		diag.Diagf("scanning uninstall registry for %q (user scope: %v)", pattern, detectUserScope)
		det := detector.Detect(pattern, detectUserScope)
		for _, rec := range det.Records {
			if rec.Scope == software.ScopeUser {
				diag.Diagf("  %s %s (%s) [user: %s]", rec.DisplayName, rec.Version, rec.Publisher, rec.User)
			} else {
				diag.Diagf("  %s %s (%s) [system]", rec.DisplayName, rec.Version, rec.Publisher)
			}
		}

		expectPresent := detectExpect == "present"
		switch {
		case det.Found && expectPresent:
			return status.Okf("%d installed package(s) match %q", len(det.Records), pattern), nil
		case !det.Found && !expectPresent:
			return status.Okf("no installed package matches %q", pattern), nil
		case det.Found:
			return status.Criticalf("%d installed package(s) match %q, expected none", len(det.Records), pattern), nil
		default:
			return status.Criticalf("no installed package matches %q", pattern), nil
		}
	})
	return nil
}
