package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/newtron-network/leafspine/pkg/cli"
	"github.com/newtron-network/leafspine/pkg/settings"
	"github.com/newtron-network/leafspine/pkg/store/redisdb"
)

// redisFlags select the topology registry.
type redisFlags struct {
	addr string
	db   int
}

func (rf *redisFlags) register(cmd *cobra.Command, persistent bool) {
	fs := cmd.Flags()
	if persistent {
		fs = cmd.PersistentFlags()
	}
	fs.StringVar(&rf.addr, "redis", "", "registry address host:port (default from settings, then "+settings.DefaultRedisAddr+")")
	fs.IntVar(&rf.db, "db", -1, "registry database number (default from settings, then 0)")
}

// client resolves: --redis flag > LEAFSPINE_REDIS_ADDR env > settings > default.
func (rf *redisFlags) client(cmd *cobra.Command) (*redisdb.Client, error) {
	s := loadSettings()
	addr := resolveString(rf.addr, envRedisAddr, s.GetRedisAddr())
	db := rf.db
	if db < 0 {
		db = s.RedisDB
	}
	c := redisdb.New(addr, db)
	if err := c.Connect(cmd.Context()); err != nil {
		c.Close()
		return nil, fmt.Errorf("registry %s: %w", addr, err)
	}
	return c, nil
}

func newPublishCmd() *cobra.Command {
	var (
		f  fabricFlags
		rf redisFlags
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish a topology to the Redis registry",
		Long: `Publish a topology as SWITCH|<name>|<id>, HOST|<name>|<id>,
LINK|<name>|<a>~<b> and TOPOLOGY|<name> hashes, replacing any earlier
version of the same name in one transaction.

  leafspine publish --plan lab.yml --redis 10.0.0.5:6379`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := f.topology()
			if err != nil {
				return err
			}
			c, err := rf.client(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			if err := c.Publish(cmd.Context(), r.name, r.topology); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d switches, %d hosts, %d links)\n",
				cli.Green("published"), r.name, len(r.topology.Switches), len(r.topology.Hosts), len(r.topology.Links))
			return nil
		},
	}

	f.register(cmd)
	rf.register(cmd, false)
	return cmd
}

func newRegistryCmd() *cobra.Command {
	var rf redisFlags

	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect topologies published to Redis",
	}
	rf.register(cmd, true)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List published topologies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rf.client(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			names, err := c.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no published topologies")
				return nil
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show a published topology summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rf.client(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			s, err := c.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", cli.Bold("Topology:"), s.Name)
			fmt.Fprintf(out, "  Parameters: %s\n", s.Params)
			fmt.Fprintf(out, "  Counts:     %d switches, %d hosts, %d links\n", s.Switches, s.Hosts, s.Links)
			fmt.Fprintf(out, "  Protocol:   %s\n", s.Protocol)
			if s.Controller != "" {
				fmt.Fprintf(out, "  Controller: %s\n", s.Controller)
			}
			if !s.PublishedAt.IsZero() {
				fmt.Fprintf(out, "  Published:  %s\n", s.PublishedAt.Format("2006-01-02 15:04:05 MST"))
			}
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Remove a published topology",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rf.client(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			if err := c.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(listCmd, showCmd, deleteCmd)
	return cmd
}
