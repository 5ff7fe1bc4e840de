// Package labgen loads leaf-spine plan files and generates emulator
// artifacts (a plain JSON topology spec and a containerlab topology)
// from built fabrics.
package labgen

import "github.com/newtron-network/leafspine/pkg/fabric"

// Plan is the top-level structure of a leaf-spine plan file. A plan either
// fixes the fabric shape explicitly or names a target host count for the
// optimizer to size.
type Plan struct {
	Name        string         `yaml:"name" json:"name"`
	Fabric      *FabricDef     `yaml:"fabric,omitempty" json:"fabric,omitempty"`
	TargetHosts int            `yaml:"target_hosts,omitempty" json:"target_hosts,omitempty"`
	Radix       int            `yaml:"radix" json:"radix"`
	Controller  *ControllerDef `yaml:"controller,omitempty" json:"controller,omitempty"`
	Links       LinksDef       `yaml:"links,omitempty" json:"links,omitempty"`
	Protocol    string         `yaml:"protocol,omitempty" json:"protocol,omitempty"`
	Defaults    PlanDefaults   `yaml:"defaults,omitempty" json:"defaults,omitempty"`
}

// FabricDef fixes the fabric shape.
type FabricDef struct {
	Spines       int `yaml:"spines" json:"spines"`
	Leaves       int `yaml:"leaves" json:"leaves"`
	HostsPerLeaf int `yaml:"hosts_per_leaf" json:"hosts_per_leaf"`
}

// ControllerDef is the remote controller address. Port defaults to 6633.
type ControllerDef struct {
	Host string `yaml:"host" json:"host"`
	Port int    `yaml:"port,omitempty" json:"port,omitempty"`
}

// LinksDef overrides link characteristics per link class.
type LinksDef struct {
	SpineLeaf LinkDef `yaml:"spine_leaf,omitempty" json:"spine_leaf,omitempty"`
	LeafHost  LinkDef `yaml:"leaf_host,omitempty" json:"leaf_host,omitempty"`
}

// LinkDef overrides one link class. Zero values keep the defaults.
type LinkDef struct {
	Bandwidth float64         `yaml:"bandwidth,omitempty" json:"bandwidth,omitempty"`
	Delay     fabric.Duration `yaml:"delay,omitempty" json:"delay,omitempty"`
}

// PlanDefaults contains container images used by the containerlab export.
type PlanDefaults struct {
	SwitchImage string `yaml:"switch_image,omitempty" json:"switch_image,omitempty"`
	SwitchKind  string `yaml:"switch_kind,omitempty" json:"switch_kind,omitempty"`
	HostImage   string `yaml:"host_image,omitempty" json:"host_image,omitempty"`
}

// Interface is one data-plane port of a node, numbered sequentially in
// link order. eth0 is reserved for management.
type Interface struct {
	Name          string           `json:"name"`
	Peer          string           `json:"peer"`
	PeerInterface string           `json:"peer_interface"`
	Class         fabric.LinkClass `json:"class"`
}
