package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/newtron-network/leafspine/pkg/cli"
	"github.com/newtron-network/leafspine/pkg/fabric"
	"github.com/newtron-network/leafspine/pkg/util"
)

// maxScaleValues caps each axis of the scaling table.
const maxScaleValues = 256

func newScaleCmd() *cobra.Command {
	var (
		hostsSpec string
		radixSpec string
		jsonOut   bool
	)

	cmd := &cobra.Command{
		Use:   "scale",
		Short: "Tabulate optimal fabrics across host counts and radixes",
		Long: `Run the optimizer for every host count and radix combination.
Both flags take range notation ("20,50,100" or "16-18,24").

  leafspine scale --hosts 20,50,100,200 --radix 16,24,32,48`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			hosts, err := util.ExpandPositiveRange(hostsSpec, maxScaleValues)
			if err != nil {
				return fmt.Errorf("--hosts: %w", err)
			}
			radixes, err := util.ExpandPositiveRange(radixSpec, maxScaleValues)
			if err != nil {
				return fmt.Errorf("--radix: %w", err)
			}

			util.WithOperation("scale").Debugf("hosts %s, radix %s", util.CompactRange(hosts), util.CompactRange(radixes))
			rows := fabric.ScalingTable(hosts, radixes)
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), rows)
			}

			tbl := cli.NewTableTo(cmd.OutOrStdout(), "HOSTS", "RADIX", "SPINES", "LEAVES", "HOSTS/LEAF", "SWITCHES", "CAPACITY")
			for _, row := range rows {
				h, r := strconv.Itoa(row.TotalHosts), strconv.Itoa(row.Radix)
				c := row.Config
				if c == nil {
					tbl.Row(h, r, "-", "-", "-", cli.Red("none"), "-")
					continue
				}
				switches := strconv.Itoa(c.TotalSwitches)
				if c.Feasible() != nil {
					switches = cli.Yellow(switches + "*")
				}
				tbl.Row(h, r, strconv.Itoa(c.SpineCount), strconv.Itoa(c.LeafCount),
					strconv.Itoa(c.HostsPerLeaf), switches, strconv.Itoa(c.Capacity()))
			}
			tbl.Flush()
			return nil
		},
	}

	cmd.Flags().StringVar(&hostsSpec, "hosts", "", "host counts (range notation)")
	cmd.Flags().StringVar(&radixSpec, "radix", "", "switch radixes (range notation)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "JSON output")
	cmd.MarkFlagRequired("hosts")
	cmd.MarkFlagRequired("radix")
	return cmd
}
