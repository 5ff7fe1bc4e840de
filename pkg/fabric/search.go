package fabric

import (
	"fmt"

	"github.com/newtron-network/leafspine/pkg/util"
)

// Configuration is the result of the optimal-configuration search.
type Configuration struct {
	SpineCount    int `json:"spine_count" yaml:"spine_count"`
	LeafCount     int `json:"leaf_count" yaml:"leaf_count"`
	HostsPerLeaf  int `json:"hosts_per_leaf" yaml:"hosts_per_leaf"`
	TotalSwitches int `json:"total_switches" yaml:"total_switches"`
	SwitchRadix   int `json:"switch_radix" yaml:"switch_radix"`
}

// Params converts the configuration into builder input.
func (c Configuration) Params() Params {
	return Params{Spines: c.SpineCount, Leaves: c.LeafCount, HostsPerLeaf: c.HostsPerLeaf, Radix: c.SwitchRadix}
}

// Capacity is the number of hosts the configuration can attach.
func (c Configuration) Capacity() int {
	return c.LeafCount * c.HostsPerLeaf
}

// Feasible runs the constraint validator over the configuration. The search
// uses its own aggregate capacity checks, which do not always agree with
// the validator's leaf bound; this reports the disagreement instead of
// hiding it.
func (c Configuration) Feasible() error {
	return Validate(c.Params())
}

func (c Configuration) String() string {
	return fmt.Sprintf("%d spines, %d leaves, %d hosts/leaf (%d switches, radix %d)",
		c.SpineCount, c.LeafCount, c.HostsPerLeaf, c.TotalSwitches, c.SwitchRadix)
}

// SkipReason explains why a search candidate was rejected.
type SkipReason string

const (
	SkipNone          SkipReason = ""
	SkipLeafFanout    SkipReason = "leaf-fanout"
	SkipSpineCapacity SkipReason = "spine-capacity"
)

// Candidate is one hosts-per-leaf value the search considered. SpineCount
// and TotalSwitches are zero when the candidate was skipped on leaf
// fan-out, since the search never computes them in that case. Best marks
// candidates that became the running best when visited.
type Candidate struct {
	HostsPerLeaf  int        `json:"hosts_per_leaf"`
	LeafCount     int        `json:"leaf_count"`
	SpineCount    int        `json:"spine_count,omitempty"`
	TotalSwitches int        `json:"total_switches,omitempty"`
	Skip          SkipReason `json:"skip,omitempty"`
	Best          bool       `json:"best,omitempty"`
}

// Search finds the configuration with the fewest switches that attaches at
// least totalHosts hosts using radix-port switches.
//
// One port per switch is reserved, so usable = radix-1. Candidate
// hosts-per-leaf values run from 1 to usable-1; for each, the leaf count is
// ceil(totalHosts/hpl) and the spine count is max(1, ceil(leaves/(usable-hpl))).
// A candidate is dropped when leaves exceed usable or exceed spines*usable.
// Ties keep the earliest (smallest hosts-per-leaf) candidate.
//
// ok is false when no candidate survives, or when totalHosts < 1.
func Search(totalHosts, radix int) (best Configuration, ok bool) {
	return search(totalHosts, radix, nil)
}

// SearchTrace runs Search and also returns every candidate considered, in
// iteration order.
func SearchTrace(totalHosts, radix int) (Configuration, bool, []Candidate) {
	var trace []Candidate
	best, ok := search(totalHosts, radix, func(c Candidate) {
		trace = append(trace, c)
	})
	return best, ok, trace
}

// FindOptimal is the collaborator-facing search contract. It separates
// malformed input (a *util.ValidationError) from a search that ran and
// found nothing (nil, nil).
func FindOptimal(totalHosts, radix int) (*Configuration, error) {
	err := (&util.ValidationBuilder{}).
		Add(totalHosts >= 1, "total hosts must be at least 1").
		Add(radix >= 1, "switch radix must be at least 1").
		Build()
	if err != nil {
		return nil, err
	}

	best, ok := Search(totalHosts, radix)
	if !ok {
		return nil, nil
	}
	return &best, nil
}

func search(totalHosts, radix int, visit func(Candidate)) (Configuration, bool) {
	var best Configuration
	found := false

	if totalHosts < 1 {
		return best, false
	}
	usable := radix - managementPorts
	if usable < 1 {
		return best, false
	}

	log := util.WithFields(map[string]interface{}{"hosts": totalHosts, "radix": radix})

	for hpl := 1; hpl < usable; hpl++ {
		c := Candidate{HostsPerLeaf: hpl, LeafCount: ceilDiv(totalHosts, hpl)}

		if c.LeafCount > usable {
			c.Skip = SkipLeafFanout
		} else {
			maxSpinesPerLeaf := usable - hpl
			c.SpineCount = max(1, ceilDiv(c.LeafCount, maxSpinesPerLeaf))
			c.TotalSwitches = c.SpineCount + c.LeafCount

			// leaves > spines*usable, without forming the product.
			if ceilDiv(c.LeafCount, usable) > c.SpineCount {
				c.Skip = SkipSpineCapacity
			} else if !found || c.TotalSwitches < best.TotalSwitches {
				best = Configuration{
					SpineCount:    c.SpineCount,
					LeafCount:     c.LeafCount,
					HostsPerLeaf:  hpl,
					TotalSwitches: c.TotalSwitches,
					SwitchRadix:   radix,
				}
				found = true
				c.Best = true
			}
		}

		if visit != nil {
			visit(c)
		}
	}

	if found {
		log.Debugf("Optimal configuration: %s", best)
	} else {
		log.Debug("No feasible configuration")
	}
	return best, found
}

// ceilDiv is ceil(a/b) for positive a and b.
func ceilDiv(a, b int) int {
	q := a / b
	if a%b != 0 {
		q++
	}
	return q
}
