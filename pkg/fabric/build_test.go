package fabric

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/newtron-network/leafspine/pkg/util"
)

func mustBuild(t *testing.T, p Params, opts ...Option) *Topology {
	t.Helper()
	topo, err := Build(p, opts...)
	if err != nil {
		t.Fatalf("Build(%v): %v", p, err)
	}
	return topo
}

func TestBuild_Counts(t *testing.T) {
	for spines := 1; spines <= 4; spines++ {
		for leaves := 1; leaves <= 6; leaves++ {
			for hpl := 1; hpl <= 5; hpl++ {
				p := Params{Spines: spines, Leaves: leaves, HostsPerLeaf: hpl, Radix: 16}
				topo := mustBuild(t, p)

				if got, want := len(topo.Switches), spines+leaves; got != want {
					t.Errorf("%v: switches = %d, want %d", p, got, want)
				}
				if got, want := len(topo.Hosts), leaves*hpl; got != want {
					t.Errorf("%v: hosts = %d, want %d", p, got, want)
				}
				if got, want := len(topo.Links), spines*leaves+leaves*hpl; got != want {
					t.Errorf("%v: links = %d, want %d", p, got, want)
				}
				if err := VerifyPaths(topo); err != nil {
					t.Errorf("%v: VerifyPaths: %v", p, err)
				}
				if err := VerifyAddressing(topo); err != nil {
					t.Errorf("%v: VerifyAddressing: %v", p, err)
				}
			}
		}
	}
}

func TestBuild_SwitchOrder(t *testing.T) {
	topo := mustBuild(t, Params{Spines: 2, Leaves: 4, HostsPerLeaf: 2, Radix: 16})

	want := []string{"spine1", "spine2", "leaf1", "leaf2", "leaf3", "leaf4"}
	if len(topo.Switches) != len(want) {
		t.Fatalf("switch count = %d, want %d", len(topo.Switches), len(want))
	}
	for i, name := range want {
		if topo.Switches[i].Name != name {
			t.Errorf("switch[%d] = %s, want %s", i, topo.Switches[i].Name, name)
		}
	}

	if s := topo.Switches[3]; s.Tier != TierLeaf || s.Index != 2 {
		t.Errorf("switch[3] = %+v, want leaf index 2", s)
	}
	if len(topo.Spines()) != 2 || len(topo.Leaves()) != 4 {
		t.Errorf("Spines()/Leaves() = %d/%d", len(topo.Spines()), len(topo.Leaves()))
	}
}

func TestBuild_HostAddressing(t *testing.T) {
	topo := mustBuild(t, Params{Spines: 2, Leaves: 4, HostsPerLeaf: 2, Radix: 16})

	tests := []struct {
		idx      int
		name     string
		leaf     int
		position int
		ip       string
		mac      string
	}{
		{0, "h1", 1, 1, "10.0.1.1/24", "00:00:00:00:01:01"},
		{1, "h2", 1, 2, "10.0.1.2/24", "00:00:00:00:01:02"},
		{2, "h3", 2, 1, "10.0.2.1/24", "00:00:00:00:02:01"},
		{7, "h8", 4, 2, "10.0.4.2/24", "00:00:00:00:04:02"},
	}

	for _, tt := range tests {
		h := topo.Hosts[tt.idx]
		if h.Name != tt.name || h.Seq != tt.idx+1 {
			t.Errorf("host[%d] = %s seq %d, want %s seq %d", tt.idx, h.Name, h.Seq, tt.name, tt.idx+1)
		}
		if h.Leaf != tt.leaf || h.Position != tt.position {
			t.Errorf("%s: leaf/pos = %d/%d, want %d/%d", h.Name, h.Leaf, h.Position, tt.leaf, tt.position)
		}
		if h.IP != tt.ip {
			t.Errorf("%s: IP = %s, want %s", h.Name, h.IP, tt.ip)
		}
		if h.MAC != tt.mac {
			t.Errorf("%s: MAC = %s, want %s", h.Name, h.MAC, tt.mac)
		}
		if h.LeafName() != SwitchName(TierLeaf, tt.leaf) {
			t.Errorf("%s: LeafName = %s", h.Name, h.LeafName())
		}
	}
}

func TestBuild_UniqueAddresses(t *testing.T) {
	topo := mustBuild(t, Params{Spines: 3, Leaves: 12, HostsPerLeaf: 12, Radix: 16})

	ips := make(map[string]bool)
	macs := make(map[string]bool)
	for _, h := range topo.Hosts {
		if ips[h.IP] {
			t.Errorf("duplicate IP %s", h.IP)
		}
		if macs[h.MAC] {
			t.Errorf("duplicate MAC %s", h.MAC)
		}
		ips[h.IP] = true
		macs[h.MAC] = true
	}
}

func TestBuild_LinkOrder(t *testing.T) {
	topo := mustBuild(t, Params{Spines: 2, Leaves: 4, HostsPerLeaf: 2, Radix: 16})

	tests := []struct {
		idx   int
		a, b  string
		class LinkClass
	}{
		{0, "spine1", "leaf1", ClassSpineLeaf},
		{1, "spine1", "leaf2", ClassSpineLeaf},
		{3, "spine1", "leaf4", ClassSpineLeaf},
		{4, "spine2", "leaf1", ClassSpineLeaf},
		{7, "spine2", "leaf4", ClassSpineLeaf},
		{8, "h1", "leaf1", ClassLeafHost},
		{9, "h2", "leaf1", ClassLeafHost},
		{10, "h3", "leaf2", ClassLeafHost},
		{15, "h8", "leaf4", ClassLeafHost},
	}

	for _, tt := range tests {
		l := topo.Links[tt.idx]
		if l.A != tt.a || l.B != tt.b || l.Class != tt.class {
			t.Errorf("link[%d] = %s-%s (%s), want %s-%s (%s)", tt.idx, l.A, l.B, l.Class, tt.a, tt.b, tt.class)
		}
	}

	if n := len(topo.LinksByClass(ClassSpineLeaf)); n != 8 {
		t.Errorf("spine-leaf links = %d, want 8", n)
	}
	if n := len(topo.LinksByClass(ClassLeafHost)); n != 8 {
		t.Errorf("leaf-host links = %d, want 8", n)
	}
}

func TestBuild_DefaultLinkClasses(t *testing.T) {
	topo := mustBuild(t, Params{Spines: 1, Leaves: 2, HostsPerLeaf: 1, Radix: 8})

	sl := topo.Links[0]
	if sl.Bandwidth != 10 || time.Duration(sl.Delay) != time.Millisecond || sl.Loss != 0 {
		t.Errorf("spine-leaf link = %+v, want bw 10 delay 1ms loss 0", sl)
	}
	lh := topo.Links[len(topo.Links)-1]
	if lh.Bandwidth != 1 || time.Duration(lh.Delay) != 500*time.Microsecond || lh.Loss != 0 {
		t.Errorf("leaf-host link = %+v, want bw 1 delay 0.5ms loss 0", lh)
	}
	if topo.Options.Protocol != "OpenFlow13" {
		t.Errorf("protocol = %q", topo.Options.Protocol)
	}
	if topo.Options.Controller != nil {
		t.Error("controller should be unset by default")
	}
}

func TestBuild_Options(t *testing.T) {
	topo := mustBuild(t, Params{Spines: 2, Leaves: 2, HostsPerLeaf: 1, Radix: 8},
		WithController("10.10.0.1", 0),
		WithLinkBandwidths(40, 10),
		WithLinkDelays(2*time.Millisecond, 100*time.Microsecond),
		WithProtocol("OpenFlow15"),
	)

	if c := topo.Options.Controller; c == nil || c.Host != "10.10.0.1" || c.Port != DefaultControllerPort {
		t.Errorf("controller = %+v", c)
	}
	for _, l := range topo.LinksByClass(ClassSpineLeaf) {
		if l.Bandwidth != 40 || time.Duration(l.Delay) != 2*time.Millisecond {
			t.Errorf("spine-leaf link %s-%s = %+v", l.A, l.B, l)
		}
	}
	for _, l := range topo.LinksByClass(ClassLeafHost) {
		if l.Bandwidth != 10 || time.Duration(l.Delay) != 100*time.Microsecond {
			t.Errorf("leaf-host link %s-%s = %+v", l.A, l.B, l)
		}
	}
	if topo.Options.Protocol != "OpenFlow15" {
		t.Errorf("protocol = %q", topo.Options.Protocol)
	}
}

func TestBuild_InvalidOptions(t *testing.T) {
	p := Params{Spines: 1, Leaves: 1, HostsPerLeaf: 1, Radix: 4}
	tests := []struct {
		name string
		opt  Option
	}{
		{"zero bandwidth", WithLinkBandwidths(0, 1)},
		{"negative delay", WithLinkDelays(-time.Millisecond, 0)},
		{"empty protocol", WithProtocol("")},
		{"empty controller host", WithController("", 6633)},
		{"bad controller port", WithController("10.0.0.1", 70000)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Build(p, tt.opt); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestBuild_RejectsInfeasible(t *testing.T) {
	topo, err := Build(Params{Spines: 10, Leaves: 20, HostsPerLeaf: 5, Radix: 8})
	if topo != nil {
		t.Error("no topology should be returned on failure")
	}
	var fe *FeasibilityError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FeasibilityError, got %v", err)
	}
	if fe.Bound != BoundLeafPorts || fe.Demand != 16 || fe.Budget != 8 {
		t.Errorf("unexpected error fields: %+v", fe)
	}
}

func TestBuild_Idempotent(t *testing.T) {
	p := Params{Spines: 3, Leaves: 5, HostsPerLeaf: 4, Radix: 16}
	a := mustBuild(t, p, WithController("127.0.0.1", 6653))
	b := mustBuild(t, p, WithController("127.0.0.1", 6653))

	if !reflect.DeepEqual(a, b) {
		t.Error("two builds with identical parameters differ")
	}
	if a.Options.Controller == b.Options.Controller {
		t.Error("builds should not share controller storage")
	}
}

func TestValidateAndBuild(t *testing.T) {
	p := Params{Spines: 2, Leaves: 3, HostsPerLeaf: 2, Radix: 8}
	a, err := ValidateAndBuild(p)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, mustBuild(t, p)) {
		t.Error("ValidateAndBuild should match Build")
	}
}

func TestTopology_Lookups(t *testing.T) {
	topo := mustBuild(t, Params{Spines: 2, Leaves: 3, HostsPerLeaf: 2, Radix: 8})

	if s, ok := topo.Switch("leaf2"); !ok || s.Tier != TierLeaf || s.Index != 2 {
		t.Errorf("Switch(leaf2) = %+v, %v", s, ok)
	}
	if _, ok := topo.Switch("leaf9"); ok {
		t.Error("Switch(leaf9) should not be found")
	}
	if h, ok := topo.Host("h4"); !ok || h.Leaf != 2 || h.Position != 2 {
		t.Errorf("Host(h4) = %+v, %v", h, ok)
	}

	on := topo.HostsOn(3)
	if len(on) != 2 || on[0].Name != "h5" || on[1].Name != "h6" {
		t.Errorf("HostsOn(3) = %+v", on)
	}
	if topo.HostsOn(0) != nil || topo.HostsOn(4) != nil {
		t.Error("HostsOn out of range should be nil")
	}

	// leaf1: two spine uplinks, two hosts
	links := topo.LinksOf("leaf1")
	if len(links) != 4 {
		t.Fatalf("LinksOf(leaf1) = %d links, want 4", len(links))
	}
	if links[0].Peer("leaf1") != "spine1" || links[1].Peer("leaf1") != "spine2" {
		t.Errorf("leaf1 uplink peers = %s, %s", links[0].Peer("leaf1"), links[1].Peer("leaf1"))
	}
	if links[0].Peer("h9") != "" {
		t.Error("Peer of a non-endpoint should be empty")
	}
}

func TestVerifyPaths_DetectsMissingMeshLink(t *testing.T) {
	topo := mustBuild(t, Params{Spines: 2, Leaves: 3, HostsPerLeaf: 1, Radix: 8})

	// Drop spine2-leaf3 from a copy.
	broken := *topo
	broken.Links = append([]Link(nil), topo.Links[:5]...)
	broken.Links = append(broken.Links, topo.Links[6:]...)

	if err := VerifyPaths(&broken); err == nil {
		t.Error("expected VerifyPaths to fail with a missing spine-leaf link")
	}
	if err := VerifyPaths(topo); err != nil {
		t.Errorf("original topology should verify: %v", err)
	}
}

func TestVerifyAddressing_DetectsDuplicate(t *testing.T) {
	topo := mustBuild(t, Params{Spines: 1, Leaves: 2, HostsPerLeaf: 2, Radix: 8})

	broken := *topo
	broken.Hosts = append([]Host(nil), topo.Hosts...)
	broken.Hosts[3].IP = broken.Hosts[0].IP

	if err := VerifyAddressing(&broken); err == nil {
		t.Error("expected VerifyAddressing to report the duplicate IP")
	}
}

func TestVerifyAddressing_WideFabric(t *testing.T) {
	// 120 leaves push the decimal MAC octet past two digits.
	topo := mustBuild(t, Params{Spines: 1, Leaves: 120, HostsPerLeaf: 1, Radix: 128})
	if err := VerifyAddressing(topo); err == nil {
		t.Error("expected VerifyAddressing to flag three-digit MAC octets")
	}
	if err := VerifyPaths(topo); err != nil {
		t.Errorf("VerifyPaths: %v", err)
	}
}

func TestBuild_TooLargeIsRejectedNotPanicking(t *testing.T) {
	p := Params{Spines: 1, Leaves: math.MaxInt / 4, HostsPerLeaf: 8, Radix: math.MaxInt / 2}
	if err := Validate(p); err != nil {
		t.Fatalf("Validate(%v) = %v, want nil", p, err)
	}
	topo, err := Build(p)
	if topo != nil {
		t.Error("no topology should be returned")
	}
	var ve *util.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
}

func TestBuild_OverflowingSpinesIsInfeasible(t *testing.T) {
	_, err := Build(Params{Spines: math.MaxInt, Leaves: 1, HostsPerLeaf: 1, Radix: 16})
	if !errors.Is(err, util.ErrInfeasible) {
		t.Fatalf("err = %v, want ErrInfeasible", err)
	}
}
