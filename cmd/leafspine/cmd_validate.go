package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/newtron-network/leafspine/pkg/cli"
	"github.com/newtron-network/leafspine/pkg/fabric"
)

func newValidateCmd() *cobra.Command {
	var f fabricFlags
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check fabric parameters against the switch radix",
		Long: `Check that every leaf (spines + hosts/leaf + 1) and every spine
(leaves + 1) fits within the switch radix.

  leafspine validate -s 2 -l 4 -H 10 -r 16`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := f.params()
			if err != nil {
				return err
			}
			verr := fabric.Validate(p)

			if jsonOut {
				result := struct {
					Params fabric.Params `json:"params"`
					Usage  fabric.Usage  `json:"usage"`
					Valid  bool          `json:"valid"`
					Error  string        `json:"error,omitempty"`
				}{Params: p, Usage: fabric.PortUsage(p), Valid: verr == nil}
				if verr != nil {
					result.Error = verr.Error()
				}
				if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
					return err
				}
				return verr
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Fabric: %s\n\n", p)
			printUsage(cmd, fabric.PortUsage(p))
			if verr != nil {
				return verr
			}
			fmt.Fprintf(out, "\n%s %d hosts on %d switches\n", cli.Green("valid:"), p.TotalHosts(), p.Spines+p.Leaves)
			return nil
		},
	}

	f.registerParams(cmd)
	cmd.Flags().BoolVar(&jsonOut, "json", false, "JSON output")
	return cmd
}

// printUsage renders per-tier port demand against the radix.
func printUsage(cmd *cobra.Command, u fabric.Usage) {
	t := cli.NewTableTo(cmd.OutOrStdout(), "TIER", "PORTS NEEDED", "RADIX", "UTILIZATION", "STATUS")
	t.Row("leaf", strconv.Itoa(u.LeafDemand), strconv.Itoa(u.Radix), cli.Utilization(u.LeafUtilization), cli.Status(u.LeafFits))
	t.Row("spine", strconv.Itoa(u.SpineDemand), strconv.Itoa(u.Radix), cli.Utilization(u.SpineUtilization), cli.Status(u.SpineFits))
	t.Flush()
}
