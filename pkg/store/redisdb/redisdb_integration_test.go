//go:build integration

package redisdb

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newtron-network/leafspine/internal/testutil"
	"github.com/newtron-network/leafspine/pkg/fabric"
	"github.com/newtron-network/leafspine/pkg/util"
)

func TestPublishLoadDelete(t *testing.T) {
	rc := testutil.RedisClient(t)
	ctx := testutil.Context(t)
	c := NewFromClient(rc)
	require.NoError(t, c.Connect(ctx))

	big, err := fabric.Build(fabric.Params{Spines: 2, Leaves: 3, HostsPerLeaf: 2, Radix: 8})
	require.NoError(t, err)
	require.NoError(t, c.Publish(ctx, "lab1", big))
	// 5 switches + 6 hosts + 12 links + summary
	assert.Equal(t, 24, testutil.KeyCount(t, rc))

	host := testutil.ReadEntry(t, rc, "HOST|lab1|h6")
	assert.Equal(t, "10.0.3.2/24", host["ip"])

	// Republishing a smaller fabric leaves no stale keys behind.
	small, err := fabric.Build(fabric.Params{Spines: 1, Leaves: 1, HostsPerLeaf: 1, Radix: 4})
	require.NoError(t, err)
	require.NoError(t, c.Publish(ctx, "lab1", small))
	assert.Equal(t, 6, testutil.KeyCount(t, rc))

	s, err := c.Load(ctx, "lab1")
	require.NoError(t, err)
	assert.Equal(t, small.Params, s.Params)
	assert.Equal(t, 2, s.Links)

	names, err := c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"lab1"}, names)

	require.NoError(t, c.Delete(ctx, "lab1"))
	assert.Equal(t, 0, testutil.KeyCount(t, rc))

	_, err = c.Load(ctx, "lab1")
	assert.True(t, errors.Is(err, util.ErrNotFound))
	assert.True(t, errors.Is(c.Delete(ctx, "lab1"), util.ErrNotFound))
}

func TestDeleteLeavesOtherTopologies(t *testing.T) {
	rc := testutil.RedisClient(t)
	ctx := testutil.Context(t)
	c := NewFromClient(rc)
	require.NoError(t, c.Connect(ctx))

	topo, err := fabric.Build(fabric.Params{Spines: 1, Leaves: 1, HostsPerLeaf: 1, Radix: 4})
	require.NoError(t, err)
	require.NoError(t, c.Publish(ctx, "lab1", topo))
	require.NoError(t, c.Publish(ctx, "lab10", topo))
	assert.Equal(t, 12, testutil.KeyCount(t, rc))

	assert.True(t, errors.Is(c.Delete(ctx, "lab*"), util.ErrValidationFailed))
	assert.Equal(t, 12, testutil.KeyCount(t, rc))

	require.NoError(t, c.Delete(ctx, "lab1"))
	assert.Equal(t, 6, testutil.KeyCount(t, rc))
	_, err = c.Load(ctx, "lab10")
	require.NoError(t, err)
}
