package labgen

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/newtron-network/leafspine/pkg/fabric"
	"github.com/newtron-network/leafspine/pkg/util"
)

// LoadPlan parses a plan YAML file and validates required fields.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan file: %w", err)
	}
	return ParsePlan(data)
}

// ParsePlan parses plan YAML from memory.
func ParsePlan(data []byte) (*Plan, error) {
	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parsing plan YAML: %w", err)
	}
	if err := validatePlan(&plan); err != nil {
		return nil, fmt.Errorf("validating plan: %w", err)
	}
	return &plan, nil
}

func validatePlan(plan *Plan) error {
	if err := util.ValidateTopologyName(plan.Name); err != nil {
		return fmt.Errorf("plan: %w", err)
	}
	if plan.Radix < 1 {
		return fmt.Errorf("radix must be positive, got %d", plan.Radix)
	}

	switch {
	case plan.Fabric != nil && plan.TargetHosts != 0:
		return fmt.Errorf("fabric and target_hosts are mutually exclusive")
	case plan.Fabric == nil && plan.TargetHosts == 0:
		return fmt.Errorf("one of fabric or target_hosts is required")
	case plan.Fabric != nil:
		f := plan.Fabric
		if f.Spines < 1 || f.Leaves < 1 || f.HostsPerLeaf < 1 {
			return fmt.Errorf("fabric: spines, leaves and hosts_per_leaf must be positive")
		}
	case plan.TargetHosts < 0:
		return fmt.Errorf("target_hosts must be positive, got %d", plan.TargetHosts)
	}

	if plan.Controller != nil {
		if plan.Controller.Host == "" {
			return fmt.Errorf("controller: host is required")
		}
		if plan.Controller.Port < 0 || plan.Controller.Port > 65535 {
			return fmt.Errorf("controller: invalid port %d", plan.Controller.Port)
		}
	}

	for class, l := range map[string]LinkDef{"spine_leaf": plan.Links.SpineLeaf, "leaf_host": plan.Links.LeafHost} {
		if l.Bandwidth < 0 {
			return fmt.Errorf("links.%s: bandwidth must not be negative", class)
		}
		if l.Delay < 0 {
			return fmt.Errorf("links.%s: delay must not be negative", class)
		}
	}

	return nil
}

// Options converts the plan's optional settings into build options, keeping
// defaults for anything the plan leaves unset.
func (p *Plan) Options() fabric.Options {
	o := fabric.DefaultOptions()
	if p.Controller != nil {
		port := p.Controller.Port
		if port == 0 {
			port = fabric.DefaultControllerPort
		}
		o.Controller = &fabric.ControllerAddr{Host: p.Controller.Host, Port: port}
	}
	if p.Links.SpineLeaf.Bandwidth > 0 {
		o.Bandwidth.SpineLeaf = p.Links.SpineLeaf.Bandwidth
	}
	if p.Links.LeafHost.Bandwidth > 0 {
		o.Bandwidth.LeafHost = p.Links.LeafHost.Bandwidth
	}
	if p.Links.SpineLeaf.Delay > 0 {
		o.Delay.SpineLeaf = p.Links.SpineLeaf.Delay
	}
	if p.Links.LeafHost.Delay > 0 {
		o.Delay.LeafHost = p.Links.LeafHost.Delay
	}
	if p.Protocol != "" {
		o.Protocol = p.Protocol
	}
	return o
}

// Resolve sizes the fabric (searching when the plan gives a target host
// count) and builds it. The returned Configuration is nil for plans with an
// explicit fabric.
func (p *Plan) Resolve() (*fabric.Topology, *fabric.Configuration, error) {
	log := util.WithTopology(p.Name)

	var params fabric.Params
	var cfg *fabric.Configuration
	if p.Fabric != nil {
		params = fabric.Params{
			Spines:       p.Fabric.Spines,
			Leaves:       p.Fabric.Leaves,
			HostsPerLeaf: p.Fabric.HostsPerLeaf,
			Radix:        p.Radix,
		}
	} else {
		found, err := fabric.FindOptimal(p.TargetHosts, p.Radix)
		if err != nil {
			return nil, nil, err
		}
		if found == nil {
			return nil, nil, fmt.Errorf("no configuration supports %d hosts at radix %d: %w",
				p.TargetHosts, p.Radix, util.ErrInfeasible)
		}
		log.Infof("Sized fabric for %d hosts: %s", p.TargetHosts, found)
		cfg = found
		params = found.Params()
	}

	t, err := fabric.Build(params, fabric.WithOptions(p.Options()))
	if err != nil {
		return nil, cfg, fmt.Errorf("building %s: %w", p.Name, err)
	}
	return t, cfg, nil
}

// NodeInterfaces returns the data-plane interfaces of a node in link order.
// Leaves list their spine uplinks first, then their host ports.
func NodeInterfaces(t *fabric.Topology, nodeName string) []Interface {
	var ifaces []Interface
	for _, lp := range assignPorts(t) {
		switch nodeName {
		case lp.link.A:
			ifaces = append(ifaces, Interface{Name: lp.aPort, Peer: lp.link.B, PeerInterface: lp.bPort, Class: lp.link.Class})
		case lp.link.B:
			ifaces = append(ifaces, Interface{Name: lp.bPort, Peer: lp.link.A, PeerInterface: lp.aPort, Class: lp.link.Class})
		}
	}
	return ifaces
}

type linkPorts struct {
	link         fabric.Link
	aPort, bPort string
}

// assignPorts numbers each node's ports sequentially (eth1, eth2, ...) in
// the order its links appear in the topology.
func assignPorts(t *fabric.Topology) []linkPorts {
	next := make(map[string]int, len(t.Switches)+len(t.Hosts))
	port := func(node string) string {
		next[node]++
		return fmt.Sprintf("eth%d", next[node])
	}
	out := make([]linkPorts, 0, len(t.Links))
	for _, l := range t.Links {
		out = append(out, linkPorts{link: l, aPort: port(l.A), bPort: port(l.B)})
	}
	return out
}
