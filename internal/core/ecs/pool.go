package ecs

import (
	"fmt"
	"iter"
	"math"

	"go.uber.org/zap"

	"github.com/l1jgo/ecscore/internal/core/arena"
	"github.com/l1jgo/ecscore/internal/core/check"
	"github.com/l1jgo/ecscore/internal/core/event"
)

// DeletionPolicy decides what Remove does to the dense array. It is fixed
// when a pool is created.
type DeletionPolicy uint8

const (
	// SwapRemove moves the last element into the hole. Dense storage stays
	// packed; iteration order changes.
	SwapRemove DeletionPolicy = iota
	// InPlace leaves a hole that a later Add reuses. Surviving elements
	// keep their relative order.
	InPlace
)

func (p DeletionPolicy) String() string {
	switch p {
	case SwapRemove:
		return "swap_remove"
	case InPlace:
		return "in_place"
	default:
		return fmt.Sprintf("DeletionPolicy(%d)", uint8(p))
	}
}

// ParseDeletionPolicy accepts the names produced by String.
func ParseDeletionPolicy(s string) (DeletionPolicy, error) {
	switch s {
	case "swap_remove", "swap", "":
		return SwapRemove, nil
	case "in_place", "stable":
		return InPlace, nil
	}
	return 0, fmt.Errorf("unknown deletion policy %q", s)
}

// InPlaceDeleter lets a component type ask for InPlace pools by default.
type InPlaceDeleter interface {
	InPlaceDelete() bool
}

// Cloner lets a component type control how registry copies duplicate it.
// Values without Clone are copied by assignment.
type Cloner[T any] interface {
	Clone() T
}

// Removable is implemented by all component stores so the Registry can
// bulk-remove an entity's data from every store on destroy.
type Removable interface {
	Remove(id EntityID) bool
}

// Storage is the type-erased view of a Pool held by the Registry.
type Storage interface {
	Removable
	RemoveN(ids []EntityID) int
	TypeID() TypeID
	Policy() DeletionPolicy
	Has(id EntityID) bool
	Len() int
	Entities() []EntityID
	Clear()
	ShrinkToFit()
	Release()
	cloneStorage(a arena.Arena, log *zap.Logger) Storage
}

// noSlot marks an absent entity in the sparse array.
const noSlot = math.MaxUint32

// Pool stores the T components of a set of entities. A sparse array maps an
// entity index to a dense slot; dense slot i holds the owning EntityID in
// dense[i] and the value in values.At(i).
type Pool[T any] struct {
	sparse   []uint32
	dense    []EntityID
	holes    []uint32 // free dense slots, InPlace only
	values   *PagedBuffer[T]
	onAdd    *event.Channel[EntityID]
	onRemove *event.Channel[EntityID]
	log      *zap.Logger
	typeID   TypeID
	policy   DeletionPolicy
}

// NewPool returns an empty pool. A nil arena selects arena.Default, a nil
// logger discards output and pageSize <= 0 selects DefaultPageSize.
func NewPool[T any](policy DeletionPolicy, a arena.Arena, pageSize int, log *zap.Logger) *Pool[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pool[T]{
		values:   NewPagedBuffer[T](a, pageSize),
		onAdd:    event.NewChannel[EntityID](),
		onRemove: event.NewChannel[EntityID](),
		log:      log,
		typeID:   TypeIDOf[T](),
		policy:   policy,
	}
}

func (p *Pool[T]) TypeID() TypeID         { return p.typeID }
func (p *Pool[T]) Policy() DeletionPolicy { return p.policy }
func (p *Pool[T]) Pages() *PagedBuffer[T] { return p.values }

// OnAdd fires after new components are stored.
func (p *Pool[T]) OnAdd() *event.Channel[EntityID] {
	return p.onAdd
}

// OnRemove fires before the removed components are destroyed.
func (p *Pool[T]) OnRemove() *event.Channel[EntityID] {
	return p.onRemove
}

// Len returns the number of entities holding a component.
func (p *Pool[T]) Len() int { return len(p.dense) - len(p.holes) }

// DenseLen returns the dense array length, holes included.
func (p *Pool[T]) DenseLen() int { return len(p.dense) }

// Holes returns the number of InPlace holes awaiting reuse.
func (p *Pool[T]) Holes() int { return len(p.holes) }

func (p *Pool[T]) slotOf(id EntityID) (uint32, bool) {
	idx := id.Index()
	if int(idx) >= len(p.sparse) {
		return 0, false
	}
	slot := p.sparse[idx]
	if slot == noSlot || p.dense[slot] != id {
		return 0, false
	}
	return slot, true
}

// Has reports whether id holds a component. Stale ids report false.
func (p *Pool[T]) Has(id EntityID) bool {
	_, ok := p.slotOf(id)
	return ok
}

// Get returns id's component. id must be present.
func (p *Pool[T]) Get(id EntityID) *T {
	slot, ok := p.slotOf(id)
	check.That(ok, "pool %s: entity %s has no component", p.typeID, id)
	return p.values.At(int(slot))
}

// TryGet returns id's component, or nil and false.
func (p *Pool[T]) TryGet(id EntityID) (*T, bool) {
	slot, ok := p.slotOf(id)
	if !ok {
		return nil, false
	}
	return p.values.At(int(slot)), true
}

// Add attaches v to id and fires OnAdd. id must not already be present.
func (p *Pool[T]) Add(id EntityID, v T) *T {
	ptr, ok := p.insert(id, v)
	if !ok {
		return ptr
	}
	p.onAdd.Broadcast([]EntityID{id})
	return ptr
}

// AddN attaches a copy of v to every id and fires OnAdd once.
func (p *Pool[T]) AddN(ids []EntityID, v T) {
	added := make([]EntityID, 0, len(ids))
	for _, id := range ids {
		if _, ok := p.insert(id, v); ok {
			added = append(added, id)
		}
	}
	p.onAdd.Broadcast(added)
}

// Set overwrites id's component, adding it if absent. Only an add fires OnAdd.
func (p *Pool[T]) Set(id EntityID, v T) *T {
	if slot, ok := p.slotOf(id); ok {
		ptr := p.values.At(int(slot))
		*ptr = v
		return ptr
	}
	return p.Add(id, v)
}

func (p *Pool[T]) insert(id EntityID, v T) (*T, bool) {
	check.That(!id.IsNull(), "pool %s: add to null entity", p.typeID)
	idx := id.Index()
	if int(idx) < len(p.sparse) && p.sparse[idx] != noSlot {
		slot := p.sparse[idx]
		p.log.Error("component already present",
			zap.String("type", p.typeID.String()),
			zap.Stringer("entity", id),
			zap.Stringer("occupant", p.dense[slot]))
		check.Fail("pool %s: entity index %d already holds a component", p.typeID, idx)
		return p.values.At(int(slot)), false
	}

	var slot uint32
	if n := len(p.holes); n > 0 {
		slot = p.holes[n-1]
		p.holes = p.holes[:n-1]
		p.dense[slot] = id
	} else {
		slot = uint32(len(p.dense))
		p.dense = append(p.dense, id)
	}
	ptr, err := p.values.Insert(int(slot), v)
	if err != nil {
		p.log.Error("component page allocation failed",
			zap.String("type", p.typeID.String()), zap.Error(err))
		panic(fmt.Errorf("ecs: pool %s: %w", p.typeID, err))
	}
	p.ensureSparse(idx)
	p.sparse[idx] = slot
	return ptr, true
}

func (p *Pool[T]) ensureSparse(idx uint32) {
	if int(idx) < len(p.sparse) {
		return
	}
	// Grow by doubling or to idx+1, whichever is larger.
	oldLen := len(p.sparse)
	newLen := max(oldLen*2, int(idx)+1)
	grown := make([]uint32, newLen)
	copy(grown, p.sparse)
	for i := oldLen; i < newLen; i++ {
		grown[i] = noSlot
	}
	p.sparse = grown
}

// Remove detaches id's component and reports whether it was present. OnRemove
// fires before the value is destroyed.
func (p *Pool[T]) Remove(id EntityID) bool {
	if !p.Has(id) {
		return false
	}
	p.onRemove.Broadcast([]EntityID{id})
	// A handler may already have removed it.
	if slot, ok := p.slotOf(id); ok {
		p.erase(id, slot)
	}
	return true
}

// RemoveN detaches every present id, firing OnRemove once, and returns how
// many were removed. Duplicate ids count once.
func (p *Pool[T]) RemoveN(ids []EntityID) int {
	present := distinct(ids, p.Has)
	p.onRemove.Broadcast(present)
	for _, id := range present {
		if slot, ok := p.slotOf(id); ok {
			p.erase(id, slot)
		}
	}
	return len(present)
}

func (p *Pool[T]) erase(id EntityID, slot uint32) {
	last := uint32(len(p.dense) - 1)
	switch {
	case slot == last:
		p.values.RemoveAt(int(last))
		p.dense = p.dense[:last]
	case p.policy == InPlace:
		p.values.RemoveAt(int(slot))
		p.dense[slot] = Null
		p.holes = append(p.holes, slot)
	default:
		moved := p.dense[last]
		*p.values.At(int(slot)) = *p.values.At(int(last))
		p.values.RemoveAt(int(last))
		p.dense[slot] = moved
		p.sparse[moved.Index()] = slot
		p.dense = p.dense[:last]
	}
	p.sparse[id.Index()] = noSlot
}

// Entities returns the owning entities in dense order. Without holes the
// pool's own slice is returned; callers must not modify it.
func (p *Pool[T]) Entities() []EntityID {
	if len(p.holes) == 0 {
		return p.dense
	}
	out := make([]EntityID, 0, p.Len())
	for _, id := range p.dense {
		if id != Null {
			out = append(out, id)
		}
	}
	return out
}

// All yields entity/component pairs in dense order, skipping holes. Order is
// not stable across SwapRemove removals.
func (p *Pool[T]) All() iter.Seq2[EntityID, *T] {
	return func(yield func(EntityID, *T) bool) {
		for i := 0; i < len(p.dense); i++ {
			id := p.dense[i]
			if id == Null {
				continue
			}
			if !yield(id, p.values.At(i)) {
				return
			}
		}
	}
}

// Each calls fn for every entity/component pair in dense order.
func (p *Pool[T]) Each(fn func(EntityID, *T)) {
	for id, c := range p.All() {
		fn(id, c)
	}
}

// Compact squeezes InPlace holes out of the dense array, keeping order.
func (p *Pool[T]) Compact() {
	if len(p.holes) == 0 {
		return
	}
	w := 0
	for r, id := range p.dense {
		if id == Null {
			continue
		}
		if r != w {
			*p.values.At(w) = *p.values.At(r)
			p.dense[w] = id
			p.sparse[id.Index()] = uint32(w)
		}
		w++
	}
	for i := w; i < len(p.dense); i++ {
		p.values.RemoveAt(i)
	}
	p.dense = p.dense[:w]
	p.holes = p.holes[:0]
}

// ShrinkToFit frees pages past the dense array. Pools never shrink on their
// own.
func (p *Pool[T]) ShrinkToFit() {
	p.values.Shrink(len(p.dense))
}

// Clear removes every component, firing OnRemove once. Pages are kept.
func (p *Pool[T]) Clear() {
	if len(p.dense) == 0 {
		return
	}
	ids := append([]EntityID(nil), p.Entities()...)
	p.onRemove.Broadcast(ids)
	for i, id := range p.dense {
		if id != Null {
			p.sparse[id.Index()] = noSlot
		}
		p.values.RemoveAt(i)
	}
	p.dense = p.dense[:0]
	p.holes = p.holes[:0]
}

// Release frees every page. The pool must not be used afterwards.
func (p *Pool[T]) Release() {
	p.values.Release()
	p.sparse = nil
	p.dense = nil
	p.holes = nil
}

// Clone returns a deep copy backed by a. Values are duplicated through Clone
// when T implements Cloner[T]. Event bindings are not copied.
func (p *Pool[T]) Clone(a arena.Arena, log *zap.Logger) *Pool[T] {
	if log == nil {
		log = p.log
	}
	values, err := p.values.Clone(a, len(p.dense), cloneFunc[T]())
	if err != nil {
		log.Error("component page allocation failed during clone",
			zap.String("type", p.typeID.String()), zap.Error(err))
		panic(fmt.Errorf("ecs: clone pool %s: %w", p.typeID, err))
	}
	return &Pool[T]{
		sparse:   append([]uint32(nil), p.sparse...),
		dense:    append([]EntityID(nil), p.dense...),
		holes:    append([]uint32(nil), p.holes...),
		values:   values,
		onAdd:    event.NewChannel[EntityID](),
		onRemove: event.NewChannel[EntityID](),
		log:      log,
		typeID:   p.typeID,
		policy:   p.policy,
	}
}

func (p *Pool[T]) cloneStorage(a arena.Arena, log *zap.Logger) Storage {
	return p.Clone(a, log)
}

// distinct returns the ids accepted by keep, in order, without duplicates.
func distinct(ids []EntityID, keep func(EntityID) bool) []EntityID {
	out := make([]EntityID, 0, len(ids))
	var seen map[EntityID]struct{}
	if len(ids) > 1 {
		seen = make(map[EntityID]struct{}, len(ids))
	}
	for _, id := range ids {
		if !keep(id) {
			continue
		}
		if seen != nil {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
		}
		out = append(out, id)
	}
	return out
}

// cloneFunc returns T's Clone method as a function, or nil when T copies by
// assignment.
func cloneFunc[T any]() func(T) T {
	if _, ok := any(new(T)).(Cloner[T]); !ok {
		return nil
	}
	return func(v T) T {
		return any(&v).(Cloner[T]).Clone()
	}
}

// defaultPolicy returns InPlace when T asks for it, otherwise fallback.
func defaultPolicy[T any](fallback DeletionPolicy) DeletionPolicy {
	if d, ok := any(new(T)).(InPlaceDeleter); ok && d.InPlaceDelete() {
		return InPlace
	}
	return fallback
}
