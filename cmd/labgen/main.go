// Command labgen generates emulator artifacts (topology.json and a
// containerlab topology) from a leafspine plan file.
//
// Usage:
//
//	labgen -plan <file> -output <dir>
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/newtron-network/leafspine/pkg/fabric"
	"github.com/newtron-network/leafspine/pkg/labgen"
	"github.com/newtron-network/leafspine/pkg/util"
)

func main() {
	planFile := flag.String("plan", "", "Path to plan YAML file (required)")
	outputDir := flag.String("output", "", "Output directory for generated artifacts (required)")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	if *planFile == "" || *outputDir == "" {
		fmt.Fprintf(os.Stderr, "Usage: labgen -plan <file> -output <dir>\n")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if *verbose {
		util.SetLogLevel("debug")
	}

	plan, err := labgen.LoadPlan(*planFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	topo, cfg, err := plan.Resolve()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generating lab artifacts for plan %q\n", plan.Name)
	fmt.Printf("  Plan:    %s\n", *planFile)
	fmt.Printf("  Fabric:  %s\n", topo.Params)
	if cfg != nil {
		fmt.Printf("  Sized:   %d hosts requested, %d switches\n", plan.TargetHosts, cfg.TotalSwitches)
	}
	fmt.Printf("  Output:  %s\n", *outputDir)
	fmt.Println()

	if err := fabric.VerifyPaths(topo); err != nil {
		fmt.Fprintf(os.Stderr, "Error verifying topology: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Generating emulator spec...")
	if err := labgen.GenerateEmulatorSpec(plan.Name, topo, *outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating emulator spec: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("  %s\n", labgen.EmulatorSpecFile)

	fmt.Println("Generating containerlab topology...")
	if err := labgen.GenerateClabTopology(plan.Name, topo, plan.Defaults, *outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating containerlab topology: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("  %s\n", labgen.ClabFileName(plan.Name))

	fmt.Println()
	fmt.Println("Done.")
}
