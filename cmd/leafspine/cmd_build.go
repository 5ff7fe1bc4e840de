package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/newtron-network/leafspine/pkg/cli"
	"github.com/newtron-network/leafspine/pkg/fabric"
)

func newBuildCmd() *cobra.Command {
	var (
		f       fabricFlags
		jsonOut bool
		yamlOut bool
		summary bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a topology and print it",
		Long: `Build the full topology: switches, hosts with IP/MAC, and every link.

  leafspine build -s 2 -l 4 -H 10 -r 16
  leafspine build --plan lab.yml --json
  leafspine build -s 1 -l 2 -H 10 -r 16 --controller 10.0.0.5 --summary`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if jsonOut && yamlOut {
				return fmt.Errorf("--json and --yaml are mutually exclusive")
			}
			r, err := f.topology()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch {
			case jsonOut:
				return writeJSON(out, r.topology)
			case yamlOut:
				return writeYAML(out, r.topology)
			}

			if err := verifyTopology(r.topology); err != nil {
				return err
			}
			printStats(out, r.name, r.topology)
			if summary {
				return nil
			}
			printSwitches(out, r.topology)
			printHosts(out, r.topology)
			printLinks(out, r.topology)
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the topology as JSON")
	cmd.Flags().BoolVar(&yamlOut, "yaml", false, "print the topology as YAML")
	cmd.Flags().BoolVar(&summary, "summary", false, "print only the summary")
	return cmd
}

// verifyTopology runs the structural path check. Addressing overflow is
// only warned about; exporters reject it.
func verifyTopology(t *fabric.Topology) error {
	if err := fabric.VerifyPaths(t); err != nil {
		return fmt.Errorf("topology failed path verification: %w", err)
	}
	return nil
}

func printStats(w io.Writer, name string, t *fabric.Topology) {
	s := fabric.Analyze(t)
	fmt.Fprintf(w, "%s %s\n", cli.Bold("Topology:"), name)
	fmt.Fprintf(w, "  Parameters:        %s\n", t.Params)
	fmt.Fprintf(w, "  Switches:          %d (%d spines, %d leaves)\n", s.Switches, s.Spines, s.Leaves)
	fmt.Fprintf(w, "  Hosts:             %d\n", s.Hosts)
	fmt.Fprintf(w, "  Links:             %d (%d spine-leaf, %d leaf-host)\n", s.Links, s.SpineLeafLinks, s.LeafHostLinks)
	fmt.Fprintf(w, "  Diameter:          %d hops\n", s.DiameterHops)
	fmt.Fprintf(w, "  Uplink per leaf:   %g Mbit/s\n", s.UplinkBandwidth)
	fmt.Fprintf(w, "  Bisection:         %g Mbit/s\n", s.BisectionBandwidth)
	fmt.Fprintf(w, "  Oversubscription:  %s\n", formatOversubscription(s.Oversubscription))
	fmt.Fprintf(w, "  Spine failures:    %d tolerated\n", s.SpineFailuresTolerated)
	if c := t.Options.Controller; c != nil {
		fmt.Fprintf(w, "  Controller:        %s:%d\n", c.Host, c.Port)
	}
	fmt.Fprintf(w, "  Protocol:          %s\n", t.Options.Protocol)
	if err := fabric.VerifyAddressing(t); err != nil {
		fmt.Fprintf(w, "  %s host addressing overflows the 10.0.<leaf>.<pos> plan; export will fail\n", cli.Yellow("warning:"))
	}
}

func formatOversubscription(ratio float64) string {
	s := fmt.Sprintf("%.2f:1", ratio)
	if ratio > 1 {
		return cli.Yellow(s)
	}
	return cli.Green(s)
}

func printSwitches(w io.Writer, t *fabric.Topology) {
	fmt.Fprintf(w, "\n%s\n", cli.Bold("Switches"))
	tbl := cli.NewTableTo(w, "NAME", "TIER", "LINKS").WithPrefix("  ")
	for _, sw := range t.Switches {
		tbl.Row(sw.Name, string(sw.Tier), strconv.Itoa(len(t.LinksOf(sw.Name))))
	}
	tbl.Flush()
}

func printHosts(w io.Writer, t *fabric.Topology) {
	fmt.Fprintf(w, "\n%s\n", cli.Bold("Hosts"))
	tbl := cli.NewTableTo(w, "NAME", "LEAF", "IP", "MAC").WithPrefix("  ")
	for _, h := range t.Hosts {
		tbl.Row(h.Name, h.LeafName(), h.IP, h.MAC)
	}
	tbl.Flush()
}

func printLinks(w io.Writer, t *fabric.Topology) {
	fmt.Fprintf(w, "\n%s\n", cli.Bold("Links"))
	tbl := cli.NewTableTo(w, "A", "B", "CLASS", "BW", "DELAY").WithPrefix("  ")
	for _, l := range t.Links {
		tbl.Row(l.A, l.B, string(l.Class), strconv.FormatFloat(l.Bandwidth, 'f', -1, 64), l.Delay.String())
	}
	tbl.Flush()
}
