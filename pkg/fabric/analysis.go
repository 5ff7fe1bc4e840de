package fabric

// Usage is the per-switch port accounting for one tier pair.
type Usage struct {
	Radix            int     `json:"radix"`
	LeafDemand       int     `json:"leaf_demand"`
	SpineDemand      int     `json:"spine_demand"`
	LeafUtilization  float64 `json:"leaf_utilization"`
	SpineUtilization float64 `json:"spine_utilization"`
	LeafFits         bool    `json:"leaf_fits"`
	SpineFits        bool    `json:"spine_fits"`
}

// Fits reports whether both tiers are within the radix.
func (u Usage) Fits() bool {
	return u.LeafFits && u.SpineFits
}

// PortUsage computes port demand and utilisation (percent of radix) for
// both tiers. It does not check that p is well formed.
func PortUsage(p Params) Usage {
	leaf, leafOK := leafPortDemand(p)
	spine, spineOK := spinePortDemand(p)
	u := Usage{
		Radix:       p.Radix,
		LeafDemand:  leaf,
		SpineDemand: spine,
	}
	u.LeafFits = leafOK && u.LeafDemand <= p.Radix
	u.SpineFits = spineOK && u.SpineDemand <= p.Radix
	if p.Radix > 0 {
		u.LeafUtilization = 100 * float64(u.LeafDemand) / float64(p.Radix)
		u.SpineUtilization = 100 * float64(u.SpineDemand) / float64(p.Radix)
	}
	return u
}

// Stats summarises a built topology.
type Stats struct {
	Spines         int `json:"spines"`
	Leaves         int `json:"leaves"`
	Hosts          int `json:"hosts"`
	Switches       int `json:"switches"`
	SpineLeafLinks int `json:"spine_leaf_links"`
	LeafHostLinks  int `json:"leaf_host_links"`
	Links          int `json:"links"`

	// DiameterHops is the number of links on the longest host-to-host
	// shortest path: 4 across leaves (host, leaf, spine, leaf, host),
	// 2 within a single leaf, 0 for a lone host.
	DiameterHops int `json:"diameter_hops"`

	// UplinkBandwidth is one leaf's aggregate capacity toward the spines.
	UplinkBandwidth float64 `json:"uplink_bandwidth"`

	// BisectionBandwidth is the spine-leaf capacity crossing a cut that
	// splits the leaves into two equal halves.
	BisectionBandwidth float64 `json:"bisection_bandwidth"`

	// Oversubscription is host-facing over spine-facing capacity per leaf;
	// 1.0 or less is non-blocking.
	Oversubscription float64 `json:"oversubscription"`

	// SpineFailuresTolerated is how many spines can fail with every leaf
	// pair still connected.
	SpineFailuresTolerated int `json:"spine_failures_tolerated"`
}

// Analyze derives Stats from a topology.
func Analyze(t *Topology) Stats {
	p := t.Params
	s := Stats{
		Spines:                 p.Spines,
		Leaves:                 p.Leaves,
		Hosts:                  len(t.Hosts),
		Switches:               len(t.Switches),
		SpineLeafLinks:         p.Spines * p.Leaves,
		LeafHostLinks:          p.TotalHosts(),
		Links:                  len(t.Links),
		SpineFailuresTolerated: p.Spines - 1,
	}

	switch {
	case p.Leaves > 1:
		s.DiameterHops = 4
	case s.Hosts > 1:
		s.DiameterHops = 2
	}

	bw := t.Options.Bandwidth
	s.UplinkBandwidth = float64(p.Spines) * bw.SpineLeaf
	s.BisectionBandwidth = float64(p.Leaves/2) * s.UplinkBandwidth
	if s.UplinkBandwidth > 0 {
		s.Oversubscription = float64(p.HostsPerLeaf) * bw.LeafHost / s.UplinkBandwidth
	}
	return s
}

// ScalingRow is one cell of a scaling table. Config is nil when the search
// found nothing.
type ScalingRow struct {
	TotalHosts int            `json:"total_hosts"`
	Radix      int            `json:"radix"`
	Config     *Configuration `json:"config,omitempty"`
}

// ScalingTable runs the search across every (hosts, radix) pair, hosts
// major, in the order given.
func ScalingTable(hosts, radixes []int) []ScalingRow {
	rows := make([]ScalingRow, 0, len(hosts)*len(radixes))
	for _, h := range hosts {
		for _, r := range radixes {
			row := ScalingRow{TotalHosts: h, Radix: r}
			if c, ok := Search(h, r); ok {
				row.Config = &c
			}
			rows = append(rows, row)
		}
	}
	return rows
}
