package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/newtron-network/leafspine/pkg/fabric"
	"github.com/newtron-network/leafspine/pkg/labgen"
	"github.com/newtron-network/leafspine/pkg/settings"
	"github.com/newtron-network/leafspine/pkg/util"
)

// Environment variables consulted between flags and settings.
const (
	envSettings  = "LEAFSPINE_SETTINGS"
	envRadix     = "LEAFSPINE_RADIX"
	envOutputDir = "LEAFSPINE_OUTPUT_DIR"
	envRedisAddr = "LEAFSPINE_REDIS_ADDR"
	envPlanDB    = "LEAFSPINE_PLAN_DB"
	envLabHost   = "LEAFSPINE_LAB_HOST"
	envLabUser   = "LEAFSPINE_LAB_USER"
	envLabPass   = "LEAFSPINE_LAB_PASSWORD"
)

// defaultName names topologies built from flags.
const defaultName = "leafspine"

// settingsPath resolves the settings file: LEAFSPINE_SETTINGS > default.
func settingsPath() string {
	if p := os.Getenv(envSettings); p != "" {
		return p
	}
	return settings.DefaultSettingsPath()
}

// loadSettings reads settings, falling back to empty settings on error.
func loadSettings() *settings.Settings {
	s, err := settings.LoadFrom(settingsPath())
	if err != nil {
		util.Warnf("Ignoring unreadable settings file %s: %v", settingsPath(), err)
		return &settings.Settings{}
	}
	return s
}

// resolveString picks the first non-empty of flag, env and setting.
func resolveString(flag, env, setting string) string {
	if flag != "" {
		return flag
	}
	if v := os.Getenv(env); v != "" {
		return v
	}
	return setting
}

// resolveRadix resolves the switch radix from: -r flag > LEAFSPINE_RADIX env > settings > error.
func resolveRadix(flag int) (int, error) {
	if flag > 0 {
		return flag, nil
	}
	if v := os.Getenv(envRadix); v != "" {
		r, err := strconv.Atoi(v)
		if err != nil || r < 1 {
			return 0, fmt.Errorf("%s: invalid radix %q", envRadix, v)
		}
		return r, nil
	}
	if s := loadSettings(); s.DefaultRadix > 0 {
		return s.DefaultRadix, nil
	}
	return 0, fmt.Errorf("switch radix required: use -r <ports>, set %s, or run 'leafspine settings set radix <ports>'", envRadix)
}

// fabricFlags are the flags shared by every command that builds a
// topology: either a plan file or explicit parameters plus options.
type fabricFlags struct {
	plan         string
	name         string
	spines       int
	leaves       int
	hostsPerLeaf int
	radix        int

	controller     string
	protocol       string
	spineLeafBW    float64
	leafHostBW     float64
	spineLeafDelay string
	leafHostDelay  string
}

func (f *fabricFlags) registerParams(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.spines, "spines", "s", 0, "number of spine switches")
	cmd.Flags().IntVarP(&f.leaves, "leaves", "l", 0, "number of leaf switches")
	cmd.Flags().IntVarP(&f.hostsPerLeaf, "hosts-per-leaf", "H", 0, "hosts attached to each leaf")
	cmd.Flags().IntVarP(&f.radix, "radix", "r", 0, "ports per switch")
}

func (f *fabricFlags) register(cmd *cobra.Command) {
	f.registerParams(cmd)
	cmd.Flags().StringVarP(&f.plan, "plan", "p", "", "plan file (YAML); replaces the fabric flags")
	cmd.Flags().StringVar(&f.name, "name", "", "topology name (default: plan name or \"leafspine\")")
	cmd.Flags().StringVar(&f.controller, "controller", "", "remote controller host[:port]")
	cmd.Flags().StringVar(&f.protocol, "protocol", "", "switch protocol (default OpenFlow13)")
	cmd.Flags().Float64Var(&f.spineLeafBW, "spine-leaf-bw", 0, "spine-leaf bandwidth, Mbit/s (default 10)")
	cmd.Flags().Float64Var(&f.leafHostBW, "leaf-host-bw", 0, "leaf-host bandwidth, Mbit/s (default 1)")
	cmd.Flags().StringVar(&f.spineLeafDelay, "spine-leaf-delay", "", "spine-leaf delay (default 1ms)")
	cmd.Flags().StringVar(&f.leafHostDelay, "leaf-host-delay", "", "leaf-host delay (default 0.5ms)")
}

// params assembles Params from the flags, resolving the radix.
func (f *fabricFlags) params() (fabric.Params, error) {
	radix, err := resolveRadix(f.radix)
	if err != nil {
		return fabric.Params{}, err
	}
	return fabric.Params{
		Spines:       f.spines,
		Leaves:       f.leaves,
		HostsPerLeaf: f.hostsPerLeaf,
		Radix:        radix,
	}, nil
}

// options converts the option flags into a single resolved option set.
func (f *fabricFlags) options() (fabric.Option, error) {
	o := fabric.DefaultOptions()
	if f.controller != "" {
		host, port, err := util.SplitHostPort(f.controller, fabric.DefaultControllerPort)
		if err != nil {
			return nil, fmt.Errorf("--controller: %w", err)
		}
		o.Controller = &fabric.ControllerAddr{Host: host, Port: port}
	}
	if f.protocol != "" {
		o.Protocol = f.protocol
	}
	if f.spineLeafBW != 0 {
		o.Bandwidth.SpineLeaf = f.spineLeafBW
	}
	if f.leafHostBW != 0 {
		o.Bandwidth.LeafHost = f.leafHostBW
	}
	for _, d := range []struct {
		flag, value string
		dst         *fabric.Duration
	}{
		{"--spine-leaf-delay", f.spineLeafDelay, &o.Delay.SpineLeaf},
		{"--leaf-host-delay", f.leafHostDelay, &o.Delay.LeafHost},
	} {
		if d.value == "" {
			continue
		}
		v, err := fabric.ParseDuration(d.value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.flag, err)
		}
		*d.dst = v
	}
	return fabric.WithOptions(o), nil
}

// resolved is a built topology with where it came from.
type resolved struct {
	name        string
	topology    *fabric.Topology
	plan        *labgen.Plan
	config      *fabric.Configuration
	targetHosts int
}

// topology builds the topology from the plan file or the flags.
func (f *fabricFlags) topology() (*resolved, error) {
	if f.name != "" {
		if err := util.ValidateTopologyName(f.name); err != nil {
			return nil, fmt.Errorf("--name: %w", err)
		}
	}
	if f.plan != "" {
		plan, err := labgen.LoadPlan(f.plan)
		if err != nil {
			return nil, err
		}
		t, cfg, err := plan.Resolve()
		if err != nil {
			return nil, err
		}
		name := plan.Name
		if f.name != "" {
			name = f.name
		}
		return &resolved{name: name, topology: t, plan: plan, config: cfg, targetHosts: plan.TargetHosts}, nil
	}

	p, err := f.params()
	if err != nil {
		return nil, err
	}
	opt, err := f.options()
	if err != nil {
		return nil, err
	}
	t, err := fabric.Build(p, opt)
	if err != nil {
		return nil, err
	}
	name := f.name
	if name == "" {
		name = defaultName
	}
	return &resolved{name: name, topology: t}, nil
}

// planDefaults returns the containerlab image defaults of a plan, if any.
func (r *resolved) planDefaults() labgen.PlanDefaults {
	if r.plan == nil {
		return labgen.PlanDefaults{}
	}
	return r.plan.Defaults
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
