package ecs

import (
	"fmt"
	"iter"
	"math"

	"github.com/l1jgo/ecscore/internal/core/check"
)

// EntityID encodes a 32-bit index in the lower bits and a 32-bit version
// in the upper bits. The version increments on destroy to invalidate stale refs.
type EntityID uint64

// Null is the "no entity" sentinel: maximal index and maximal version.
const Null = EntityID(math.MaxUint64)

func NewEntityID(index uint32, version uint32) EntityID {
	return EntityID(uint64(version)<<32 | uint64(index))
}

func (id EntityID) Index() uint32   { return uint32(id) }
func (id EntityID) Version() uint32 { return uint32(id >> 32) }

// IsNull compares only the version field against Null's version. Any id whose
// version bits are all ones reads as null, whatever its index.
func (id EntityID) IsNull() bool { return id.Version() == Null.Version() }

func (id EntityID) String() string {
	if id.IsNull() {
		return "null"
	}
	return fmt.Sprintf("%dv%d", id.Index(), id.Version())
}

// EntityID32 is the compact identifier: 20-bit index, 12-bit version.
type EntityID32 uint32

const (
	index32Bits   = 20
	index32Mask   = 1<<index32Bits - 1
	version32Mask = 1<<(32-index32Bits) - 1
)

// Null32 is the 32-bit "no entity" sentinel.
const Null32 = EntityID32(math.MaxUint32)

func NewEntityID32(index uint32, version uint32) EntityID32 {
	return EntityID32((version&version32Mask)<<index32Bits | index&index32Mask)
}

func (id EntityID32) Index() uint32   { return uint32(id) & index32Mask }
func (id EntityID32) Version() uint32 { return uint32(id) >> index32Bits }
func (id EntityID32) IsNull() bool    { return id.Version() == Null32.Version() }

// Widen returns the 64-bit identifier with the same index and version. Pools
// and registries key on EntityID, so compact ids are widened at that
// boundary. Null32 widens to Null.
func (id EntityID32) Widen() EntityID {
	if id.IsNull() {
		return Null
	}
	return NewEntityID(id.Index(), id.Version())
}

func (id EntityID32) String() string {
	if id.IsNull() {
		return "null"
	}
	return fmt.Sprintf("%dv%d", id.Index(), id.Version())
}

// Handle is satisfied by both identifier widths.
type Handle interface {
	EntityID | EntityID32
	Index() uint32
	Version() uint32
	IsNull() bool
}

// Compose builds an identifier of width E from its fields.
func Compose[E Handle](index, version uint32) E {
	var zero E
	if _, ok := any(zero).(EntityID32); ok {
		return E(NewEntityID32(index, version))
	}
	return E(NewEntityID(index, version))
}

// limits returns the largest usable index and the version mask for E. The
// maximal index is reserved for the sentinel.
func limits[E Handle]() (maxIndex, versionMask uint32) {
	var zero E
	if _, ok := any(zero).(EntityID32); ok {
		return index32Mask - 1, version32Mask
	}
	return math.MaxUint32 - 1, math.MaxUint32
}

// entitySlot is the allocator's per-index record.
type entitySlot struct {
	version uint32
	live    bool
}

// EntityPool manages entity allocation with versioned indices and a free list.
type EntityPool[E Handle] struct {
	slots       []entitySlot
	freeList    []uint32
	alive       int
	maxIndex    uint32
	versionMask uint32
}

func NewEntityPool[E Handle]() *EntityPool[E] {
	maxIndex, versionMask := limits[E]()
	return &EntityPool[E]{
		slots:       make([]entitySlot, 0, 1024),
		freeList:    make([]uint32, 0, 256),
		maxIndex:    maxIndex,
		versionMask: versionMask,
	}
}

// Create recycles the most recently freed index, whose version was already
// bumped by Destroy, or issues a fresh index at version 0.
func (p *EntityPool[E]) Create() E {
	p.alive++
	if n := len(p.freeList); n > 0 {
		idx := p.freeList[n-1]
		p.freeList = p.freeList[:n-1]
		s := &p.slots[idx]
		s.live = true
		return Compose[E](idx, s.version)
	}
	idx := uint32(len(p.slots))
	check.That(len(p.slots) <= int(p.maxIndex), "entity index space exhausted (%d)", p.maxIndex)
	p.slots = append(p.slots, entitySlot{live: true})
	return Compose[E](idx, 0)
}

// Alive reports whether id is the live occupant of its index.
func (p *EntityPool[E]) Alive(id E) bool {
	idx := id.Index()
	if int(idx) >= len(p.slots) {
		return false
	}
	s := p.slots[idx]
	return s.live && s.version == id.Version()
}

// Destroy releases id and reports whether it was alive. Stale or unknown ids
// are ignored. The stored version wraps modulo the version width and skips
// the sentinel version, so a wrapped version may revalidate a very old id.
func (p *EntityPool[E]) Destroy(id E) bool {
	if !p.Alive(id) {
		return false // already destroyed (stale reference)
	}
	idx := id.Index()
	s := &p.slots[idx]
	s.live = false
	s.version = (s.version + 1) & p.versionMask
	if s.version == p.versionMask {
		s.version = 0
	}
	p.freeList = append(p.freeList, idx)
	p.alive--
	return true
}

// Len returns the number of live entities.
func (p *EntityPool[E]) Len() int { return p.alive }

// Cap returns the number of indices issued so far.
func (p *EntityPool[E]) Cap() int { return len(p.slots) }

// Reserve grows the index table so n indices fit without reallocation.
func (p *EntityPool[E]) Reserve(n int) {
	if n > cap(p.slots) {
		grown := make([]entitySlot, len(p.slots), n)
		copy(grown, p.slots)
		p.slots = grown
	}
}

// All yields live entities in index order.
func (p *EntityPool[E]) All() iter.Seq[E] {
	return func(yield func(E) bool) {
		for i, s := range p.slots {
			if !s.live {
				continue
			}
			if !yield(Compose[E](uint32(i), s.version)) {
				return
			}
		}
	}
}

// Clone returns an independent copy of the allocator state.
func (p *EntityPool[E]) Clone() *EntityPool[E] {
	c := *p
	c.slots = append(make([]entitySlot, 0, cap(p.slots)), p.slots...)
	c.freeList = append(make([]uint32, 0, cap(p.freeList)), p.freeList...)
	return &c
}

// Reset forgets every entity, including recycled versions.
func (p *EntityPool[E]) Reset() {
	p.slots = p.slots[:0]
	p.freeList = p.freeList[:0]
	p.alive = 0
}
