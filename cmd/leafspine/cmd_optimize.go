package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/newtron-network/leafspine/pkg/cli"
	"github.com/newtron-network/leafspine/pkg/fabric"
	"github.com/newtron-network/leafspine/pkg/util"
)

func newOptimizeCmd() *cobra.Command {
	var (
		hosts   int
		radix   int
		explain bool
		build   bool
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Find the fabric with the fewest switches for a host count",
		Long: `Search hosts-per-leaf values for the configuration that attaches at
least --hosts hosts with the fewest switches.

  leafspine optimize --hosts 200 -r 48
  leafspine optimize --hosts 20 -r 16 --explain
  leafspine optimize --hosts 20 -r 16 --build`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := resolveRadix(radix)
			if err != nil {
				return err
			}
			if hosts < 1 {
				return fmt.Errorf("--hosts must be at least 1")
			}

			var (
				best  fabric.Configuration
				ok    bool
				trace []fabric.Candidate
			)
			if explain {
				best, ok, trace = fabric.SearchTrace(hosts, r)
			} else {
				best, ok = fabric.Search(hosts, r)
			}
			out := cmd.OutOrStdout()

			if jsonOut {
				result := struct {
					TotalHosts int                   `json:"total_hosts"`
					Radix      int                   `json:"radix"`
					Config     *fabric.Configuration `json:"config"`
					Feasible   bool                  `json:"feasible"`
					Trace      []fabric.Candidate    `json:"trace,omitempty"`
				}{TotalHosts: hosts, Radix: r}
				if ok {
					result.Config = &best
					result.Feasible = best.Feasible() == nil
				}
				result.Trace = trace
				return writeJSON(out, result)
			}

			if explain {
				printTrace(out, trace)
				fmt.Fprintln(out)
			}
			if !ok {
				return fmt.Errorf("no configuration supports %d hosts with radix %d: %w", hosts, r, util.ErrInfeasible)
			}

			fmt.Fprintf(out, "%s %s\n", cli.Bold("Optimal:"), best)
			fmt.Fprintf(out, "  Capacity: %d hosts (%d spare)\n", best.Capacity(), best.Capacity()-hosts)
			ferr := best.Feasible()
			if ferr != nil {
				fmt.Fprintf(out, "  %s %v\n", cli.Yellow("warning:"), ferr)
			}

			if !build {
				return nil
			}
			if ferr != nil {
				return ferr
			}
			t, err := fabric.Build(best.Params())
			if err != nil {
				return err
			}
			fmt.Fprintln(out)
			printStats(out, defaultName, t)
			return nil
		},
	}

	cmd.Flags().IntVar(&hosts, "hosts", 0, "number of hosts to attach")
	cmd.Flags().IntVarP(&radix, "radix", "r", 0, "ports per switch")
	cmd.Flags().BoolVar(&explain, "explain", false, "show every candidate the search considered")
	cmd.Flags().BoolVar(&build, "build", false, "build the optimal topology and print its summary")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "JSON output")
	cmd.MarkFlagRequired("hosts")
	return cmd
}

func printTrace(w io.Writer, trace []fabric.Candidate) {
	tbl := cli.NewTableTo(w, "HOSTS/LEAF", "LEAVES", "SPINES", "SWITCHES", "RESULT")
	for _, c := range trace {
		spines, total := "-", "-"
		if c.Skip != fabric.SkipLeafFanout {
			spines = strconv.Itoa(c.SpineCount)
			total = strconv.Itoa(c.TotalSwitches)
		}
		result := cli.Dim("no gain")
		switch {
		case c.Skip != fabric.SkipNone:
			result = cli.Red("skip: " + string(c.Skip))
		case c.Best:
			result = cli.Green("best")
		}
		tbl.Row(strconv.Itoa(c.HostsPerLeaf), strconv.Itoa(c.LeafCount), spines, total, result)
	}
	tbl.Flush()
}
