package labgen

import (
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/newtron-network/leafspine/pkg/fabric"
)

// Default containerlab images.
const (
	DefaultSwitchImage = "docker-sonic-vs:latest"
	DefaultHostImage   = "nicolaka/netshoot:latest"
)

// ClabTopology represents the containerlab topology YAML structure.
type ClabTopology struct {
	Name     string       `yaml:"name"`
	Topology ClabTopoSpec `yaml:"topology"`
}

// ClabTopoSpec contains the nodes and links sections.
type ClabTopoSpec struct {
	Nodes map[string]*ClabNode `yaml:"nodes"`
	Links []ClabLink           `yaml:"links"`
}

// ClabNode defines a single containerlab node.
type ClabNode struct {
	Kind   string            `yaml:"kind"`
	Image  string            `yaml:"image"`
	Cmd    string            `yaml:"cmd,omitempty"`
	Exec   []string          `yaml:"exec,omitempty"`
	Labels map[string]string `yaml:"labels,omitempty"`
	Env    map[string]string `yaml:"env,omitempty"`
}

// ClabLink defines a containerlab link.
type ClabLink struct {
	Endpoints []string `yaml:"endpoints"`
}

// kindFromImage detects the containerlab kind from a Docker image name.
func kindFromImage(image string) string {
	lower := strings.ToLower(image)
	switch {
	case strings.Contains(lower, "vrnetlab") || strings.Contains(lower, "sonic-vm"):
		return "sonic-vm"
	case strings.Contains(lower, "sonic"):
		return "sonic-vs"
	}
	return "linux"
}

// BuildClabTopology converts a topology into containerlab form. Ports are
// numbered sequentially per node in link order; eth0 stays the management
// interface. Hosts get their address and MAC through exec commands.
func BuildClabTopology(name string, t *fabric.Topology, defaults PlanDefaults) (*ClabTopology, error) {
	if err := fabric.VerifyAddressing(t); err != nil {
		return nil, fmt.Errorf("topology %s: %w", name, err)
	}

	switchImage := defaults.SwitchImage
	if switchImage == "" {
		switchImage = DefaultSwitchImage
	}
	switchKind := defaults.SwitchKind
	if switchKind == "" {
		switchKind = kindFromImage(switchImage)
	}
	hostImage := defaults.HostImage
	if hostImage == "" {
		hostImage = DefaultHostImage
	}

	clab := &ClabTopology{
		Name: name,
		Topology: ClabTopoSpec{
			Nodes: make(map[string]*ClabNode, len(t.Switches)+len(t.Hosts)),
			Links: make([]ClabLink, 0, len(t.Links)),
		},
	}

	for _, sw := range t.Switches {
		clab.Topology.Nodes[sw.Name] = &ClabNode{
			Kind:   switchKind,
			Image:  switchImage,
			Labels: map[string]string{"tier": string(sw.Tier), "protocol": t.Options.Protocol},
		}
	}
	for _, h := range t.Hosts {
		clab.Topology.Nodes[h.Name] = &ClabNode{
			Kind:  "linux",
			Image: hostImage,
			Cmd:   "sleep infinity",
			Exec: []string{
				"ip link set eth1 address " + h.MAC,
				"ip addr add " + h.IP + " dev eth1",
				"ip link set eth1 up",
			},
			Labels: map[string]string{"leaf": h.LeafName()},
		}
	}

	for _, lp := range assignPorts(t) {
		clab.Topology.Links = append(clab.Topology.Links, ClabLink{
			Endpoints: []string{lp.link.A + ":" + lp.aPort, lp.link.B + ":" + lp.bPort},
		})
	}
	return clab, nil
}

// RenderClabTopology returns the containerlab YAML for a topology.
func RenderClabTopology(name string, t *fabric.Topology, defaults PlanDefaults) ([]byte, error) {
	clab, err := BuildClabTopology(name, t, defaults)
	if err != nil {
		return nil, err
	}
	data, err := yaml.Marshal(clab)
	if err != nil {
		return nil, fmt.Errorf("marshalling containerlab YAML: %w", err)
	}
	return data, nil
}

// ClabFileName returns the containerlab file name for a topology.
func ClabFileName(name string) string {
	return name + ".clab.yml"
}

// GenerateClabTopology writes <name>.clab.yml into outputDir.
func GenerateClabTopology(name string, t *fabric.Topology, defaults PlanDefaults, outputDir string) error {
	data, err := RenderClabTopology(name, t, defaults)
	if err != nil {
		return err
	}
	return writeFile(filepath.Join(outputDir, ClabFileName(name)), data)
}
