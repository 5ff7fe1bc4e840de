package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/newtron-network/leafspine/pkg/labgen"
)

// Export formats.
const (
	formatEmulator = "emulator"
	formatClab     = "clab"
	formatAll      = "all"
)

func newExportCmd() *cobra.Command {
	var (
		f         fabricFlags
		outputDir string
		format    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write emulator artifacts for a topology",
		Long: `Write topology.json (plain emulator spec) and/or <name>.clab.yml
(containerlab topology) for a topology.

Output directory: -o flag > LEAFSPINE_OUTPUT_DIR > settings > current dir.

  leafspine export --plan lab.yml -o out/
  leafspine export -s 2 -l 2 -H 4 -r 8 --name lab1 --format clab`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := f.topology()
			if err != nil {
				return err
			}
			dir := resolveString(outputDir, envOutputDir, loadSettings().GetOutputDir())

			written, err := exportArtifacts(r, dir, format)
			if err != nil {
				return err
			}
			for _, path := range written {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			}
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory")
	cmd.Flags().StringVar(&format, "format", formatAll, "emulator, clab or all")
	return cmd
}

func exportArtifacts(r *resolved, dir, format string) ([]string, error) {
	var written []string
	switch format {
	case formatEmulator, formatClab, formatAll:
	default:
		return nil, fmt.Errorf("unknown format %q (valid: emulator, clab, all)", format)
	}
	if format == formatEmulator || format == formatAll {
		if err := labgen.GenerateEmulatorSpec(r.name, r.topology, dir); err != nil {
			return nil, err
		}
		written = append(written, filepath.Join(dir, labgen.EmulatorSpecFile))
	}
	if format == formatClab || format == formatAll {
		if err := labgen.GenerateClabTopology(r.name, r.topology, r.planDefaults(), dir); err != nil {
			return nil, err
		}
		written = append(written, filepath.Join(dir, labgen.ClabFileName(r.name)))
	}
	return written, nil
}

// renderArtifacts returns the export files in memory, keyed by file name.
func renderArtifacts(r *resolved) (map[string][]byte, error) {
	spec, err := labgen.RenderEmulatorSpec(r.name, r.topology)
	if err != nil {
		return nil, err
	}
	clab, err := labgen.RenderClabTopology(r.name, r.topology, r.planDefaults())
	if err != nil {
		return nil, err
	}
	return map[string][]byte{
		labgen.EmulatorSpecFile:     spec,
		labgen.ClabFileName(r.name): clab,
	}, nil
}
