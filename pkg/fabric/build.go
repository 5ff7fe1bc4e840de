package fabric

import (
	"fmt"

	"github.com/newtron-network/leafspine/pkg/util"
)

// Build validates p and expands it into a full Topology.
//
// Validation runs first and unconditionally; on failure nothing is built
// and the validator's error is returned unchanged. The expansion is fully
// deterministic: calling Build twice with the same arguments yields
// structurally identical topologies.
func Build(p Params, opts ...Option) (*Topology, error) {
	if err := Validate(p); err != nil {
		return nil, err
	}
	o, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}

	switches, ok1 := addPorts(p.Spines, p.Leaves)
	hosts, ok2 := mulSizes(p.Leaves, p.HostsPerLeaf)
	mesh, ok3 := mulSizes(p.Spines, p.Leaves)
	links, ok4 := addPorts(mesh, hosts)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return nil, util.NewValidationError(fmt.Sprintf("fabric (%s) is too large to build", p))
	}

	log := util.WithParams(p.Spines, p.Leaves, p.HostsPerLeaf, p.Radix)
	log.Debug("Building leaf-spine topology")

	t := &Topology{
		Params:   p,
		Options:  o,
		Switches: make([]Switch, 0, switches),
		Hosts:    make([]Host, 0, hosts),
		Links:    make([]Link, 0, links),
	}

	for i := 1; i <= p.Spines; i++ {
		t.Switches = append(t.Switches, newSwitch(TierSpine, i))
	}
	for i := 1; i <= p.Leaves; i++ {
		t.Switches = append(t.Switches, newSwitch(TierLeaf, i))
	}
	spines, leaves := t.Spines(), t.Leaves()

	// Full bipartite mesh, spine-major.
	for _, spine := range spines {
		for _, leaf := range leaves {
			t.Links = append(t.Links, Link{
				A:         spine.Name,
				B:         leaf.Name,
				Class:     ClassSpineLeaf,
				Bandwidth: o.Bandwidth.SpineLeaf,
				Delay:     o.Delay.SpineLeaf,
			})
		}
	}
	log.Debugf("Created %d spine-leaf links", len(t.Links))

	seq := 1
	for _, leaf := range leaves {
		for pos := 1; pos <= p.HostsPerLeaf; pos++ {
			h := newHost(seq, leaf.Index, pos)
			t.Hosts = append(t.Hosts, h)
			t.Links = append(t.Links, Link{
				A:         h.Name,
				B:         leaf.Name,
				Class:     ClassLeafHost,
				Bandwidth: o.Bandwidth.LeafHost,
				Delay:     o.Delay.LeafHost,
			})
			seq++
		}
	}

	log.Debugf("Topology built: %d switches, %d hosts, %d links", len(t.Switches), len(t.Hosts), len(t.Links))
	return t, nil
}

// ValidateAndBuild is the collaborator-facing name for Build.
func ValidateAndBuild(p Params, opts ...Option) (*Topology, error) {
	return Build(p, opts...)
}

func newHost(seq, leaf, pos int) Host {
	return Host{
		Name:     HostName(seq),
		Seq:      seq,
		Leaf:     leaf,
		Position: pos,
		IP:       util.HostIPv4(leaf, pos),
		MAC:      util.HostMAC(leaf, pos),
	}
}
