package fabric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortUsage(t *testing.T) {
	u := PortUsage(Params{Spines: 2, Leaves: 4, HostsPerLeaf: 2, Radix: 16})
	assert.Equal(t, 5, u.LeafDemand)
	assert.Equal(t, 5, u.SpineDemand)
	assert.InDelta(t, 31.25, u.LeafUtilization, 1e-9)
	assert.InDelta(t, 31.25, u.SpineUtilization, 1e-9)
	assert.True(t, u.Fits())

	u = PortUsage(Params{Spines: 10, Leaves: 20, HostsPerLeaf: 5, Radix: 8})
	assert.Equal(t, 16, u.LeafDemand)
	assert.Equal(t, 21, u.SpineDemand)
	assert.False(t, u.LeafFits)
	assert.False(t, u.SpineFits)
	assert.InDelta(t, 200.0, u.LeafUtilization, 1e-9)

	// Radix 0 must not divide by zero.
	u = PortUsage(Params{Spines: 1, Leaves: 1, HostsPerLeaf: 1})
	assert.Zero(t, u.LeafUtilization)
	assert.False(t, u.Fits())
}

func TestAnalyze(t *testing.T) {
	topo, err := Build(Params{Spines: 2, Leaves: 4, HostsPerLeaf: 2, Radix: 16})
	require.NoError(t, err)

	s := Analyze(topo)
	assert.Equal(t, 8, s.Hosts)
	assert.Equal(t, 6, s.Switches)
	assert.Equal(t, 8, s.SpineLeafLinks)
	assert.Equal(t, 8, s.LeafHostLinks)
	assert.Equal(t, 16, s.Links)
	assert.Equal(t, 4, s.DiameterHops)
	assert.Equal(t, 20.0, s.UplinkBandwidth)
	assert.Equal(t, 40.0, s.BisectionBandwidth)
	assert.InDelta(t, 0.1, s.Oversubscription, 1e-9)
	assert.Equal(t, 1, s.SpineFailuresTolerated)
}

func TestAnalyze_Diameter(t *testing.T) {
	tests := []struct {
		name string
		p    Params
		want int
	}{
		{"single host", Params{Spines: 1, Leaves: 1, HostsPerLeaf: 1, Radix: 4}, 0},
		{"single leaf", Params{Spines: 1, Leaves: 1, HostsPerLeaf: 2, Radix: 4}, 2},
		{"two leaves", Params{Spines: 1, Leaves: 2, HostsPerLeaf: 1, Radix: 4}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			topo, err := Build(tt.p)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Analyze(topo).DiameterHops)
		})
	}
}

func TestAnalyze_CustomBandwidth(t *testing.T) {
	topo, err := Build(Params{Spines: 1, Leaves: 2, HostsPerLeaf: 4, Radix: 8}, WithLinkBandwidths(10, 10))
	require.NoError(t, err)

	s := Analyze(topo)
	assert.InDelta(t, 4.0, s.Oversubscription, 1e-9)
	assert.Equal(t, 0, s.SpineFailuresTolerated)
}

func TestScalingTable(t *testing.T) {
	rows := ScalingTable([]int{20, 1000}, []int{4, 16})
	require.Len(t, rows, 4)

	assert.Equal(t, 20, rows[0].TotalHosts)
	assert.Equal(t, 4, rows[0].Radix)
	assert.Nil(t, rows[0].Config)

	require.NotNil(t, rows[1].Config)
	assert.Equal(t, 3, rows[1].Config.TotalSwitches)

	assert.Equal(t, 1000, rows[2].TotalHosts)
	assert.Nil(t, rows[2].Config)
	assert.Nil(t, rows[3].Config)
}
