package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mkarppi/rmmc/internal/logger"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	logLevel string
	log      = logger.Nop()

	// exitCode is the process exit code chosen by the executed subcommand.
	// Commands set it instead of calling os.Exit so that every path unwinds
	// normally; the single exit happens in main.
	exitCode int
)

var rootCmd = &cobra.Command{
	Use:     "rmmc",
	Short:   "Develop and locally test RMM components",
	Long:    "rmmc runs, validates and exercises RMM component scripts against the monitor output contract before they are pasted into the platform console.",
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logger.New(logLevel, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		log = l
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if exitCode == 0 {
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}
