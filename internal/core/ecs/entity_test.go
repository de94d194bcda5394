package ecs

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityID_Fields(t *testing.T) {
	id := NewEntityID(42, 7)
	assert.Equal(t, uint32(42), id.Index())
	assert.Equal(t, uint32(7), id.Version())
	assert.False(t, id.IsNull())
	assert.Equal(t, "42v7", id.String())

	assert.Equal(t, uint32(math.MaxUint32), Null.Index())
	assert.Equal(t, uint32(math.MaxUint32), Null.Version())
	assert.True(t, Null.IsNull())
	assert.Equal(t, "null", Null.String())
}

func TestEntityID32_Fields(t *testing.T) {
	id := NewEntityID32(0xFFFFE, 0xFFE)
	assert.Equal(t, uint32(0xFFFFE), id.Index())
	assert.Equal(t, uint32(0xFFE), id.Version())
	assert.False(t, id.IsNull())

	// Fields are masked to their widths.
	wide := NewEntityID32(1<<20|3, 1<<12|5)
	assert.Equal(t, uint32(3), wide.Index())
	assert.Equal(t, uint32(5), wide.Version())

	assert.Equal(t, uint32(0xFFFFF), Null32.Index())
	assert.Equal(t, uint32(0xFFF), Null32.Version())
	assert.True(t, Null32.IsNull())
}

// Known edge case pending product confirmation: null detection looks only at
// the version bits, so an id with a real index but the sentinel version is
// classified as null.
func TestEntityID_NullComparesVersionOnly(t *testing.T) {
	assert.True(t, NewEntityID(5, math.MaxUint32).IsNull())
	assert.True(t, NewEntityID32(5, 0xFFF).IsNull())
	assert.False(t, NewEntityID(math.MaxUint32, 0).IsNull(), "sentinel index alone is not null")
}

func TestCompose(t *testing.T) {
	assert.Equal(t, NewEntityID(9, 3), Compose[EntityID](9, 3))
	assert.Equal(t, NewEntityID32(9, 3), Compose[EntityID32](9, 3))
}

func TestEntityPool_CreateFreshIndices(t *testing.T) {
	p := NewEntityPool[EntityID]()
	a := p.Create()
	b := p.Create()
	assert.Equal(t, NewEntityID(0, 0), a)
	assert.Equal(t, NewEntityID(1, 0), b)
	assert.True(t, p.Alive(a))
	assert.True(t, p.Alive(b))
	assert.Equal(t, 2, p.Len())
	assert.Equal(t, 2, p.Cap())
}

func TestEntityPool_DestroyInvalidatesAndRecycles(t *testing.T) {
	p := NewEntityPool[EntityID]()
	a := p.Create()
	b := p.Create()

	require.True(t, p.Destroy(a))
	assert.False(t, p.Alive(a), "destroyed id must be invalid")
	assert.False(t, p.Destroy(a), "second destroy is a no-op")
	assert.Equal(t, 1, p.Len())

	require.True(t, p.Destroy(b))
	// Most recently freed index comes back first, with a bumped version.
	c := p.Create()
	assert.Equal(t, uint32(1), c.Index())
	assert.Equal(t, uint32(1), c.Version())
	d := p.Create()
	assert.Equal(t, NewEntityID(0, 1), d)

	assert.False(t, p.Alive(a), "stale id stays invalid after its index is reused")
	assert.False(t, p.Alive(b))
	assert.True(t, p.Alive(c))
	assert.Equal(t, 2, p.Cap(), "recycling keeps the index table small")
}

func TestEntityPool_RejectsUnknownIDs(t *testing.T) {
	p := NewEntityPool[EntityID]()
	a := p.Create()
	p.Destroy(a)

	// The stored version for index 0 is now 1, but index 0 is free.
	forged := NewEntityID(0, 1)
	assert.False(t, p.Alive(forged))
	assert.False(t, p.Destroy(forged))
	assert.False(t, p.Alive(NewEntityID(100, 0)))
	assert.False(t, p.Alive(Null))
	assert.Equal(t, 0, p.Len())
}

func TestEntityPool_RandomSequencesKeepValidity(t *testing.T) {
	p := NewEntityPool[EntityID32]()
	var live, dead []EntityID32
	for step := 0; step < 2000; step++ {
		if step%3 == 2 && len(live) > 0 {
			i := (step * 7) % len(live)
			id := live[i]
			require.True(t, p.Destroy(id))
			live = slices.Delete(live, i, i+1)
			dead = append(dead, id)
			continue
		}
		id := p.Create()
		require.True(t, p.Alive(id), "created id must be valid")
		live = append(live, id)
	}
	for _, id := range live {
		assert.True(t, p.Alive(id))
	}
	for _, id := range dead {
		assert.False(t, p.Alive(id), "stale id %v reported valid", id)
	}
	assert.Equal(t, len(live), p.Len())
}

// Wraparound may revalidate a long-stale id. This is accepted given the
// version width.
func TestEntityPool_VersionWrapSkipsSentinel(t *testing.T) {
	p := NewEntityPool[EntityID32]()
	first := p.Create()
	id := first
	for i := 0; i < 0xFFE; i++ {
		p.Destroy(id)
		id = p.Create()
	}
	assert.Equal(t, uint32(0xFFE), id.Version())

	p.Destroy(id)
	id = p.Create()
	assert.Equal(t, uint32(0), id.Version(), "wrap skips the sentinel version")
	assert.False(t, id.IsNull())
	assert.Equal(t, first, id)
	assert.True(t, p.Alive(first), "wrapped version revalidates the first id")
}

func TestEntityPool_AllYieldsLiveInIndexOrder(t *testing.T) {
	p := NewEntityPool[EntityID]()
	ids := []EntityID{p.Create(), p.Create(), p.Create(), p.Create()}
	p.Destroy(ids[1])

	got := slices.Collect(p.All())
	assert.Equal(t, []EntityID{ids[0], ids[2], ids[3]}, got)
}

func TestEntityPool_CloneIsIndependent(t *testing.T) {
	p := NewEntityPool[EntityID]()
	a := p.Create()
	b := p.Create()
	p.Destroy(a)

	c := p.Clone()
	assert.Equal(t, p.Create(), c.Create(), "clones recycle identically")

	c.Destroy(b)
	assert.True(t, p.Alive(b), "destroying in the clone leaves the source alone")
	assert.False(t, c.Alive(b))
}

func TestEntityPool_Reset(t *testing.T) {
	p := NewEntityPool[EntityID]()
	p.Reserve(64)
	p.Create()
	p.Create()
	p.Reset()
	assert.Equal(t, 0, p.Len())
	assert.Equal(t, NewEntityID(0, 0), p.Create())
}
