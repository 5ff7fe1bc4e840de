package fabric

import (
	"math"

	"github.com/newtron-network/leafspine/pkg/util"
)

// managementPorts is the number of ports every switch holds back for
// management/uplink. It appears as the "+1" in both port-demand formulas
// and as the "-1" in the search's usable radix.
const managementPorts = 1

// Validate checks that p describes a physically realizable fabric.
//
// Malformed parameters (any value below 1) return a *util.ValidationError.
// Otherwise the leaf bound is checked first, then the spine bound; the
// first violation is returned as a *FeasibilityError carrying the demand
// and the budget. Validate never constructs anything.
func Validate(p Params) error {
	if err := p.check(); err != nil {
		return err
	}

	u := PortUsage(p)
	if !u.LeafFits {
		return util.NewFeasibilityError(util.BoundLeafPorts, u.LeafDemand, p.Radix)
	}
	if !u.SpineFits {
		return util.NewFeasibilityError(util.BoundSpinePorts, u.SpineDemand, p.Radix)
	}
	return nil
}

func (p Params) check() error {
	return (&util.ValidationBuilder{}).
		Add(p.Spines >= 1, "spine count must be at least 1").
		Add(p.Leaves >= 1, "leaf count must be at least 1").
		Add(p.HostsPerLeaf >= 1, "hosts per leaf must be at least 1").
		Add(p.Radix >= 1, "switch radix must be at least 1").
		Build()
}

// leafPortDemand is what one leaf needs: an uplink per spine, a port per
// host, and the management port. ok is false when the sum does not fit in
// an int; the demand is then saturated.
func leafPortDemand(p Params) (demand int, ok bool) {
	return addPorts(p.Spines, p.HostsPerLeaf, managementPorts)
}

// spinePortDemand is what one spine needs: a downlink per leaf and the
// management port.
func spinePortDemand(p Params) (demand int, ok bool) {
	return addPorts(p.Leaves, managementPorts)
}

// addPorts sums terms, saturating at the int range instead of wrapping.
func addPorts(terms ...int) (int, bool) {
	sum, ok := 0, true
	for _, v := range terms {
		switch {
		case v > 0 && sum > math.MaxInt-v:
			sum, ok = math.MaxInt, false
		case v < 0 && sum < math.MinInt-v:
			sum, ok = math.MinInt, false
		default:
			if ok {
				sum += v
			}
		}
	}
	return sum, ok
}

// mulSizes multiplies two non-negative counts; ok is false on overflow.
func mulSizes(a, b int) (int, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxInt/b {
		return math.MaxInt, false
	}
	return a * b, true
}
