package fabric

import (
	"fmt"

	"github.com/newtron-network/leafspine/pkg/util"
)

// VerifyPaths checks the structural guarantees of a built topology by
// walking its link set rather than trusting its parameters:
//   - no spine is linked to a host, and every host has exactly one leaf;
//   - every pair of leaves is joined by exactly Params.Spines two-hop
//     paths, each through a different spine.
func VerifyPaths(t *Topology) error {
	tiers := make(map[string]Tier, len(t.Switches))
	for _, s := range t.Switches {
		tiers[s.Name] = s.Tier
	}

	// spinesOf[leaf] is the set of spines linked to that leaf.
	spinesOf := make(map[string]map[string]int, t.Params.Leaves)
	hostUplinks := make(map[string]int, len(t.Hosts))

	for _, l := range t.Links {
		switch l.Class {
		case ClassSpineLeaf:
			if tiers[l.A] != TierSpine || tiers[l.B] != TierLeaf {
				return fmt.Errorf("spine-leaf link %s-%s does not join a spine to a leaf", l.A, l.B)
			}
			if spinesOf[l.B] == nil {
				spinesOf[l.B] = make(map[string]int)
			}
			spinesOf[l.B][l.A]++
		case ClassLeafHost:
			if tiers[l.B] != TierLeaf {
				return fmt.Errorf("host %s is attached to non-leaf %s", l.A, l.B)
			}
			hostUplinks[l.A]++
		default:
			return fmt.Errorf("link %s-%s has unknown class %q", l.A, l.B, l.Class)
		}
	}

	for _, h := range t.Hosts {
		if n := hostUplinks[h.Name]; n != 1 {
			return fmt.Errorf("host %s has %d leaf uplinks, want 1", h.Name, n)
		}
	}

	leaves := t.Leaves()
	for i := range leaves {
		for j := i + 1; j < len(leaves); j++ {
			a, b := leaves[i].Name, leaves[j].Name
			paths := 0
			for spine, n := range spinesOf[a] {
				if n != 1 {
					return fmt.Errorf("%s has %d links to %s, want 1", a, n, spine)
				}
				if spinesOf[b][spine] == 1 {
					paths++
				}
			}
			if paths != t.Params.Spines {
				return fmt.Errorf("%s and %s share %d disjoint paths, want %d", a, b, paths, t.Params.Spines)
			}
		}
	}
	return nil
}

// VerifyAddressing checks that every host address is unique, parses as a
// valid IPv4 /24 or 48-bit MAC, and sits in its leaf's 10.0.<leaf>.0/24.
// Fabrics with more than 99 leaves or 99 hosts per leaf produce
// addresses whose decimal MAC octets no longer fit two digits; those are
// reported here rather than rejected by Build.
func VerifyAddressing(t *Topology) error {
	v := &util.ValidationBuilder{}
	ips := make(map[string]string, len(t.Hosts))
	macs := make(map[string]string, len(t.Hosts))

	for _, h := range t.Hosts {
		if other, dup := ips[h.IP]; dup {
			v.AddErrorf("%s and %s share IP %s", other, h.Name, h.IP)
		}
		ips[h.IP] = h.Name
		if other, dup := macs[h.MAC]; dup {
			v.AddErrorf("%s and %s share MAC %s", other, h.Name, h.MAC)
		}
		macs[h.MAC] = h.Name

		if !util.IsValidIPv4CIDR(h.IP) {
			v.AddErrorf("%s: invalid IP %s", h.Name, h.IP)
		} else {
			ip, mask := util.SplitIPMask(h.IP)
			want := fmt.Sprintf("10.0.%d.0", h.Leaf)
			if mask != 24 || util.ComputeNetworkAddr(ip, mask) != want {
				v.AddErrorf("%s: IP %s outside leaf subnet %s/24", h.Name, h.IP, want)
			}
		}
		if !util.IsValidMAC(h.MAC) {
			v.AddErrorf("%s: invalid MAC %s", h.Name, h.MAC)
		}
	}
	return v.Build()
}
