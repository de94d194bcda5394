package ecs

import (
	"go.uber.org/zap"

	"github.com/l1jgo/ecscore/internal/core/check"
	"github.com/l1jgo/ecscore/internal/core/event"
)

// AssurePool returns T's pool, creating it with the registry's default
// policy (or InPlace if T implements InPlaceDeleter) on first use.
func AssurePool[T any](r *Registry) *Pool[T] {
	r.assertLive()
	if s, ok := r.pools[TypeIDOf[T]()]; ok {
		return s.(*Pool[T])
	}
	return newPoolIn[T](r, defaultPolicy[T](r.opts.policy))
}

// AssurePoolWith returns T's pool, creating it with policy on first use. An
// existing pool must have been created with the same policy.
func AssurePoolWith[T any](r *Registry, policy DeletionPolicy) *Pool[T] {
	r.assertLive()
	if s, ok := r.pools[TypeIDOf[T]()]; ok {
		check.That(s.Policy() == policy, "pool %s exists with policy %s, want %s",
			s.TypeID(), s.Policy(), policy)
		return s.(*Pool[T])
	}
	return newPoolIn[T](r, policy)
}

func newPoolIn[T any](r *Registry, policy DeletionPolicy) *Pool[T] {
	p := NewPool[T](policy, r.opts.arena, r.opts.pageSize, r.opts.log)
	r.register(p)
	r.opts.log.Debug("component pool created",
		zap.String("type", p.typeID.String()),
		zap.Stringer("policy", policy),
		zap.Int("page_size", r.opts.pageSize))
	return p
}

// AssureStorage is AssurePool keyed by a type id. id must have been issued
// by TypeIDOf.
func AssureStorage(r *Registry, id TypeID) Storage {
	r.assertLive()
	if s, ok := r.pools[id]; ok {
		return s
	}
	f := poolFactory(id)
	if f == nil {
		check.Fail("type id %d was never issued", id)
		return nil
	}
	return f(r)
}

// PoolOf returns T's pool, or nil if none was created.
func PoolOf[T any](r *Registry) *Pool[T] {
	r.assertLive()
	if s, ok := r.pools[TypeIDOf[T]()]; ok {
		return s.(*Pool[T])
	}
	return nil
}

// Add attaches v to a live entity. The entity must not already hold a T.
func Add[T any](r *Registry, id EntityID, v T) *T {
	check.That(r.Alive(id), "add %s to dead entity %s", TypeIDOf[T](), id)
	return AssurePool[T](r).Add(id, v)
}

// Set attaches or overwrites id's T.
func Set[T any](r *Registry, id EntityID, v T) *T {
	check.That(r.Alive(id), "set %s on dead entity %s", TypeIDOf[T](), id)
	return AssurePool[T](r).Set(id, v)
}

// Remove detaches id's T and reports whether it was present.
func Remove[T any](r *Registry, id EntityID) bool {
	p := PoolOf[T](r)
	return p != nil && p.Remove(id)
}

// Has reports whether id holds a T. It never creates a pool.
func Has[T any](r *Registry, id EntityID) bool {
	p := PoolOf[T](r)
	return p != nil && p.Has(id)
}

// Get returns id's T. id must hold one.
func Get[T any](r *Registry, id EntityID) *T {
	p := PoolOf[T](r)
	check.That(p != nil, "get %s: no such pool", TypeIDOf[T]())
	return p.Get(id)
}

// TryGet returns id's T, or nil and false.
func TryGet[T any](r *Registry, id EntityID) (*T, bool) {
	p := PoolOf[T](r)
	if p == nil {
		return nil, false
	}
	return p.TryGet(id)
}

// OnAdd returns the channel fired after T components are added.
func OnAdd[T any](r *Registry) *event.Channel[EntityID] {
	return AssurePool[T](r).OnAdd()
}

// OnRemove returns the channel fired before T components are removed.
func OnRemove[T any](r *Registry) *event.Channel[EntityID] {
	return AssurePool[T](r).OnRemove()
}
