package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/newtron-network/leafspine/pkg/cli"
	"github.com/newtron-network/leafspine/pkg/fabric"
	"github.com/newtron-network/leafspine/pkg/labgen"
	"github.com/newtron-network/leafspine/pkg/util"
)

func newPortsCmd() *cobra.Command {
	var (
		f       fabricFlags
		node    string
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "ports",
		Short: "Show port utilization, or the port map of one node",
		Long: `Without --node, show per-tier port demand against the radix.
With --node, build the topology and list that node's data-plane ports
(eth0 is reserved for management).

  leafspine ports -s 2 -l 4 -H 10 -r 16
  leafspine ports -s 2 -l 4 -H 10 -r 16 --node leaf1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if node == "" {
				if f.plan != "" {
					r, err := f.topology()
					if err != nil {
						return err
					}
					return showUsage(cmd, r.topology.Params, jsonOut)
				}
				p, err := f.params()
				if err != nil {
					return err
				}
				return showUsage(cmd, p, jsonOut)
			}

			r, err := f.topology()
			if err != nil {
				return err
			}
			if _, ok := r.topology.Switch(node); !ok {
				if _, ok := r.topology.Host(node); !ok {
					return util.NewNotFoundError("node", node)
				}
			}
			ifaces := labgen.NodeInterfaces(r.topology, node)
			if jsonOut {
				return writeJSON(out, ifaces)
			}

			fmt.Fprintf(out, "%s %s (%d of %d ports, eth0 management)\n\n",
				cli.Bold("Node:"), node, len(ifaces)+1, r.topology.Params.Radix)
			tbl := cli.NewTableTo(out, "PORT", "PEER", "PEER PORT", "CLASS")
			for _, i := range ifaces {
				tbl.Row(i.Name, i.Peer, i.PeerInterface, string(i.Class))
			}
			tbl.Flush()
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().StringVar(&node, "node", "", "show the port map of one switch or host")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "JSON output")
	return cmd
}

func showUsage(cmd *cobra.Command, p fabric.Params, jsonOut bool) error {
	u := fabric.PortUsage(p)
	if jsonOut {
		return writeJSON(cmd.OutOrStdout(), u)
	}
	printUsage(cmd, u)
	return nil
}
