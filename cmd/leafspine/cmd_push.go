package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/newtron-network/leafspine/pkg/cli"
	"github.com/newtron-network/leafspine/pkg/remote"
)

func newPushCmd() *cobra.Command {
	var (
		f       fabricFlags
		target  remote.Target
		wait    time.Duration
		keyFile string
	)

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Copy emulator artifacts to a lab host over SSH",
		Long: `Render topology.json and <name>.clab.yml and write them to a lab host.

Host and user: flag > LEAFSPINE_LAB_HOST / LEAFSPINE_LAB_USER > settings.
The password is read from LEAFSPINE_LAB_PASSWORD; --key selects a private key.

  leafspine push --plan lab.yml --host lab01 --user ops --key ~/.ssh/id_ed25519
  leafspine push --plan lab.yml --wait 5m`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := f.topology()
			if err != nil {
				return err
			}
			files, err := renderArtifacts(r)
			if err != nil {
				return err
			}

			s := loadSettings()
			target.Host = resolveString(target.Host, envLabHost, s.LabHost)
			target.User = resolveString(target.User, envLabUser, s.LabUser)
			target.KeyFile = resolveString(keyFile, "", s.LabKeyFile)
			target.Password = os.Getenv(envLabPass)
			if target.Port == 0 {
				target.Port = s.LabPort
			}
			if target.Dir == "" {
				target.Dir = s.GetLabDir() + "/" + r.name
			}
			if target.Host == "" {
				return fmt.Errorf("lab host required: use --host, set %s, or run 'leafspine settings set lab_host <host>'", envLabHost)
			}

			ctx := cmd.Context()
			if wait > 0 {
				wctx, cancel := context.WithTimeout(ctx, wait)
				err := remote.WaitForSSH(wctx, target, 5*time.Second)
				cancel()
				if err != nil {
					return err
				}
			}
			if err := remote.Push(ctx, target, files); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d files to %s:%s\n", cli.Green("pushed"), len(files), target.Host, target.Dir)
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().StringVar(&target.Host, "host", "", "lab host")
	cmd.Flags().IntVar(&target.Port, "port", 0, "SSH port (default 22)")
	cmd.Flags().StringVar(&target.User, "user", "", "SSH user")
	cmd.Flags().StringVar(&keyFile, "key", "", "SSH private key file")
	cmd.Flags().StringVar(&target.Dir, "dir", "", "remote directory (default <lab_dir>/<name>)")
	cmd.Flags().BoolVar(&target.Sudo, "sudo", false, "write files with sudo")
	cmd.Flags().DurationVar(&wait, "wait", 0, "wait up to this long for SSH before pushing")
	return cmd
}
