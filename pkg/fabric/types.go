// Package fabric plans two-tier leaf-spine topologies.
//
// It holds the three pieces of planning logic: the port-budget constraint
// validator (Validate), the deterministic topology builder (Build), and the
// minimum-switch-count search (Search / FindOptimal). Everything here is pure
// computation over immutable values; a Topology, once returned, is never
// modified by this package and callers must treat it as read-only.
package fabric

import (
	"fmt"

	"github.com/newtron-network/leafspine/pkg/util"
)

// Tier identifies the layer a switch belongs to.
type Tier string

const (
	TierSpine Tier = "spine"
	TierLeaf  Tier = "leaf"
)

// LinkClass identifies the two kinds of links in a leaf-spine fabric.
type LinkClass string

const (
	ClassSpineLeaf LinkClass = "spine-leaf"
	ClassLeafHost  LinkClass = "leaf-host"
)

// Bound re-exports the validator's bound names so callers of this package
// need not import util to inspect a FeasibilityError.
type Bound = util.Bound

const (
	BoundLeafPorts  = util.BoundLeafPorts
	BoundSpinePorts = util.BoundSpinePorts
)

// FeasibilityError is returned by Validate and Build when a tier's port
// demand exceeds the switch radix.
type FeasibilityError = util.FeasibilityError

// Params are the four sizing inputs of a fabric. All must be >= 1.
type Params struct {
	Spines       int `json:"spines" yaml:"spines"`
	Leaves       int `json:"leaves" yaml:"leaves"`
	HostsPerLeaf int `json:"hosts_per_leaf" yaml:"hosts_per_leaf"`
	Radix        int `json:"radix" yaml:"radix"`
}

func (p Params) String() string {
	return fmt.Sprintf("spines=%d leaves=%d hosts/leaf=%d radix=%d", p.Spines, p.Leaves, p.HostsPerLeaf, p.Radix)
}

// TotalHosts is the host count a fabric with these parameters carries.
func (p Params) TotalHosts() int {
	return p.Leaves * p.HostsPerLeaf
}

// Switch is a spine or leaf switch. Name is derived from tier and index
// ("spine1", "leaf3").
type Switch struct {
	Name  string `json:"name" yaml:"name"`
	Tier  Tier   `json:"tier" yaml:"tier"`
	Index int    `json:"index" yaml:"index"`
}

func newSwitch(tier Tier, index int) Switch {
	return Switch{Name: SwitchName(tier, index), Tier: tier, Index: index}
}

// SwitchName returns the logical id of the index'th switch in a tier.
func SwitchName(tier Tier, index int) string {
	return fmt.Sprintf("%s%d", tier, index)
}

// Host is an end host attached to exactly one leaf. Seq is the global
// 1-based sequence number in leaf-major order; Leaf and Position are both
// 1-based and fully determine IP and MAC.
type Host struct {
	Name     string `json:"name" yaml:"name"`
	Seq      int    `json:"seq" yaml:"seq"`
	Leaf     int    `json:"leaf" yaml:"leaf"`
	Position int    `json:"position" yaml:"position"`
	IP       string `json:"ip" yaml:"ip"`
	MAC      string `json:"mac" yaml:"mac"`
}

// HostName returns the logical id of the seq'th host ("h7").
func HostName(seq int) string {
	return fmt.Sprintf("h%d", seq)
}

// LeafName returns the name of the leaf switch the host is attached to.
func (h Host) LeafName() string {
	return SwitchName(TierLeaf, h.Leaf)
}

// Link is an unordered endpoint pair. For spine-leaf links A is the spine;
// for leaf-host links A is the host.
type Link struct {
	A         string    `json:"a" yaml:"a"`
	B         string    `json:"b" yaml:"b"`
	Class     LinkClass `json:"class" yaml:"class"`
	Bandwidth float64   `json:"bandwidth" yaml:"bandwidth"`
	Delay     Duration  `json:"delay" yaml:"delay"`
	Loss      float64   `json:"loss" yaml:"loss"`
}

// Connects reports whether the link has name as one of its endpoints.
func (l Link) Connects(name string) bool {
	return l.A == name || l.B == name
}

// Peer returns the endpoint opposite name, or "" if name is not an endpoint.
func (l Link) Peer(name string) string {
	switch name {
	case l.A:
		return l.B
	case l.B:
		return l.A
	}
	return ""
}

// Topology is the complete description of a built fabric. Switches are all
// spines then all leaves; hosts are in sequence order; links are all
// spine-leaf links (spine-major) followed by all leaf-host links
// (leaf-major).
type Topology struct {
	Params   Params   `json:"params" yaml:"params"`
	Options  Options  `json:"options" yaml:"options"`
	Switches []Switch `json:"switches" yaml:"switches"`
	Hosts    []Host   `json:"hosts" yaml:"hosts"`
	Links    []Link   `json:"links" yaml:"links"`
}

// Spines returns the spine tier.
func (t *Topology) Spines() []Switch {
	return t.Switches[:t.Params.Spines]
}

// Leaves returns the leaf tier.
func (t *Topology) Leaves() []Switch {
	return t.Switches[t.Params.Spines:]
}

// Switch looks up a switch by name.
func (t *Topology) Switch(name string) (Switch, bool) {
	for _, s := range t.Switches {
		if s.Name == name {
			return s, true
		}
	}
	return Switch{}, false
}

// Host looks up a host by name.
func (t *Topology) Host(name string) (Host, bool) {
	for _, h := range t.Hosts {
		if h.Name == name {
			return h, true
		}
	}
	return Host{}, false
}

// HostsOn returns the hosts attached to the given 1-based leaf index.
func (t *Topology) HostsOn(leaf int) []Host {
	if leaf < 1 || leaf > t.Params.Leaves {
		return nil
	}
	start := (leaf - 1) * t.Params.HostsPerLeaf
	return t.Hosts[start : start+t.Params.HostsPerLeaf]
}

// LinksOf returns every link with name as an endpoint, in topology order.
func (t *Topology) LinksOf(name string) []Link {
	var out []Link
	for _, l := range t.Links {
		if l.Connects(name) {
			out = append(out, l)
		}
	}
	return out
}

// LinksByClass returns the links of one class, in topology order.
func (t *Topology) LinksByClass(class LinkClass) []Link {
	n := t.Params.Spines * t.Params.Leaves
	if class == ClassSpineLeaf {
		return t.Links[:n]
	}
	return t.Links[n:]
}
