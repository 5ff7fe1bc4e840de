// leafspine: sizing, building and exporting leaf-spine fabrics
//
// leafspine validates fabric parameters against the switch radix, builds
// the full topology (switches, hosts, links, addressing), searches for the
// smallest fabric for a host count, and hands the result to an emulator.
//
// Usage:
//
//	leafspine validate -s 2 -l 4 -H 10 -r 16   Check port budgets
//	leafspine build -s 2 -l 4 -H 10 -r 16      Build and print a topology
//	leafspine optimize --hosts 200 -r 48       Find the fewest-switch fabric
//	leafspine scale --hosts 100-500 --radix 16,32,48
//	leafspine export --plan lab.yml -o out/    Write emulator artifacts
//	leafspine publish --plan lab.yml           Publish to the Redis registry
//	leafspine plans list                       Stored plans
//	leafspine push --plan lab.yml --host lab01 Copy artifacts to a lab host
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/newtron-network/leafspine/pkg/cli"
	"github.com/newtron-network/leafspine/pkg/util"
	"github.com/newtron-network/leafspine/pkg/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.Red("error:"), err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		verbose bool
		jsonLog bool
		noColor bool
	)

	root := &cobra.Command{
		Use:               "leafspine",
		Short:             "Leaf-spine fabric planner",
		SilenceUsage:      true,
		SilenceErrors:     true,
		CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},
		Long: `leafspine sizes and builds two-tier leaf-spine fabrics.

Every spine connects to every leaf, every host to exactly one leaf, and one
port per switch is reserved for management. Fabrics can be given
explicitly (-s/-l/-H/-r), sized from a host count (optimize), or read from
a YAML plan file (--plan).`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				util.SetLogLevel("debug")
			} else {
				util.SetLogLevel("warn")
			}
			if jsonLog {
				util.SetJSONFormat()
			}
			if noColor {
				cli.SetColor(false)
			}
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	root.PersistentFlags().BoolVar(&jsonLog, "json-log", false, "log in JSON format")
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newValidateCmd(),
		newBuildCmd(),
		newOptimizeCmd(),
		newScaleCmd(),
		newPortsCmd(),
		newExportCmd(),
		newPublishCmd(),
		newRegistryCmd(),
		newPlansCmd(),
		newPushCmd(),
		newSettingsCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), version.Fields())
			}
			if version.Version == "dev" {
				fmt.Fprintln(cmd.OutOrStdout(), "leafspine dev build (use 'make build' for version info)")
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "leafspine %s\n", version.Info())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "JSON output")
	return cmd
}
