package main

import (
	"github.com/spf13/cobra"

	"github.com/mkarppi/rmmc/pkg/output"
	"github.com/mkarppi/rmmc/pkg/scaffold"
)

var (
	scaffoldCategory  string
	scaffoldOS        string
	scaffoldOutputVar string
	scaffoldVersion   string
	scaffoldRoot      string
	scaffoldForce     bool
	scaffoldDryRun    bool
)

var scaffoldCmd = &cobra.Command{
	Use:   "scaffold <name>",
	Short: "Generate a component skeleton from a template",
	Long:  "Renders a component script for the given category and OS into the repository's components tree. Monitor skeletons come pre-wired to the diagnostic and result marker protocol.",
	Args:  cobra.ExactArgs(1),
	RunE:  runScaffold,
}

func init() {
	scaffoldCmd.Flags().StringVar(&scaffoldCategory, "category", scaffold.CategoryMonitors, "component category: applications, scripts, or monitors")
	scaffoldCmd.Flags().StringVar(&scaffoldOS, "os", scaffold.OSWindows, "target OS: windows, macos, or linux")
	scaffoldCmd.Flags().StringVar(&scaffoldOutputVar, "output-var", "Status", "monitor output variable name")
	scaffoldCmd.Flags().StringVar(&scaffoldVersion, "version", "1.0.0", "component version stamped into the skeleton")
	scaffoldCmd.Flags().StringVar(&scaffoldRoot, "root", ".", "repository root holding the components tree")
	scaffoldCmd.Flags().BoolVar(&scaffoldForce, "force", false, "overwrite an existing component file")
	scaffoldCmd.Flags().BoolVar(&scaffoldDryRun, "dry-run", false, "show what would be generated without writing")
	rootCmd.AddCommand(scaffoldCmd)
}

func runScaffold(cmd *cobra.Command, args []string) error {
	plan, err := scaffold.Prepare(scaffold.Request{
		Name:      args[0],
		Category:  scaffoldCategory,
		OS:        scaffoldOS,
		OutputVar: scaffoldOutputVar,
		Version:   scaffoldVersion,
		Root:      scaffoldRoot,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if scaffoldDryRun {
		output.PrintVerdict(out, true, args[0]+" (dry run)")
		output.PrintDetail(out, true, "template: "+plan.Template)
		output.PrintDetail(out, true, "target: "+plan.Dest)
		return nil
	}

	if err := plan.Write(scaffoldForce); err != nil {
		return err
	}

	log.Info("component scaffolded", map[string]interface{}{
		"template": plan.Template,
		"target":   plan.Dest,
	})

	output.PrintVerdict(out, true, args[0])
	output.PrintDetail(out, true, "template: "+plan.Template)
	output.PrintDetail(out, true, "target: "+plan.Dest)
	output.PrintDetail(out, true, "next: edit "+plan.Dest+", then try: rmmc run "+plan.Dest)
	return nil
}
