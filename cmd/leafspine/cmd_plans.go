package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/newtron-network/leafspine/pkg/cli"
	"github.com/newtron-network/leafspine/pkg/store/sqlite"
)

// openPlanDB resolves: --db flag > LEAFSPINE_PLAN_DB env > settings > default.
func openPlanDB(flag string) (*sqlite.Repository, error) {
	path := resolveString(flag, envPlanDB, loadSettings().GetPlanDB())
	repo, err := sqlite.New(path)
	if err != nil {
		return nil, fmt.Errorf("plan database %s: %w", path, err)
	}
	return repo, nil
}

func newPlansCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "plans",
		Short: "Manage stored plans",
		Long: `Store built topologies by name in a local SQLite database.

  leafspine plans save --plan lab.yml
  leafspine plans save -s 2 -l 4 -H 10 -r 16 --name rack-a
  leafspine plans list
  leafspine plans show rack-a
  leafspine plans delete rack-a`,
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "plan database path")

	var f fabricFlags
	saveCmd := &cobra.Command{
		Use:   "save",
		Short: "Build a topology and store it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := f.topology()
			if err != nil {
				return err
			}
			repo, err := openPlanDB(dbPath)
			if err != nil {
				return err
			}
			defer repo.Close()

			if err := repo.SavePlan(cmd.Context(), sqlite.NewRecord(r.name, r.topology, r.targetHosts)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", cli.Green("saved"), r.name)
			return nil
		},
	}
	f.register(saveCmd)

	var listJSON bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openPlanDB(dbPath)
			if err != nil {
				return err
			}
			defer repo.Close()

			plans, err := repo.ListPlans(cmd.Context())
			if err != nil {
				return err
			}
			if listJSON {
				return writeJSON(cmd.OutOrStdout(), plans)
			}
			if len(plans) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no stored plans")
				return nil
			}
			tbl := cli.NewTableTo(cmd.OutOrStdout(), "NAME", "SPINES", "LEAVES", "HOSTS/LEAF", "RADIX", "TARGET", "UPDATED")
			for _, p := range plans {
				target := "-"
				if p.TargetHosts > 0 {
					target = strconv.Itoa(p.TargetHosts)
				}
				tbl.Row(p.Name, strconv.Itoa(p.Params.Spines), strconv.Itoa(p.Params.Leaves),
					strconv.Itoa(p.Params.HostsPerLeaf), strconv.Itoa(p.Params.Radix), target,
					p.UpdatedAt.Local().Format("2006-01-02 15:04"))
			}
			tbl.Flush()
			return nil
		},
	}
	listCmd.Flags().BoolVar(&listJSON, "json", false, "JSON output")

	var showJSON bool
	showCmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show a stored plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openPlanDB(dbPath)
			if err != nil {
				return err
			}
			defer repo.Close()

			rec, err := repo.GetPlan(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if showJSON {
				return writeJSON(cmd.OutOrStdout(), rec.Topology)
			}
			printStats(cmd.OutOrStdout(), rec.Name, rec.Topology)
			if rec.TargetHosts > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "  Sized for:         %d hosts\n", rec.TargetHosts)
			}
			return nil
		},
	}
	showCmd.Flags().BoolVar(&showJSON, "json", false, "print the stored topology as JSON")

	deleteCmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a stored plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openPlanDB(dbPath)
			if err != nil {
				return err
			}
			defer repo.Close()

			if err := repo.DeletePlan(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(saveCmd, listCmd, showCmd, deleteCmd)
	return cmd
}
