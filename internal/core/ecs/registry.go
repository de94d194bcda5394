package ecs

import (
	"go.uber.org/zap"

	"github.com/l1jgo/ecscore/internal/core/arena"
	"github.com/l1jgo/ecscore/internal/core/check"
)

type options struct {
	arena    arena.Arena
	log      *zap.Logger
	pageSize int
	policy   DeletionPolicy
	capacity int
}

// Option configures a Registry.
type Option func(*options)

// WithArena routes page allocation through a. Default: arena.Default().
func WithArena(a arena.Arena) Option {
	return func(o *options) { o.arena = a }
}

// WithLogger sets the diagnostics logger. Default: zap.NewNop().
func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithPageSize sets the slots per component page. Default: DefaultPageSize.
func WithPageSize(n int) Option {
	return func(o *options) { o.pageSize = n }
}

// WithDeletionPolicy sets the policy for pools created without an explicit
// one. Default: SwapRemove.
func WithDeletionPolicy(p DeletionPolicy) Option {
	return func(o *options) { o.policy = p }
}

// WithCapacity pre-sizes the entity table.
func WithCapacity(n int) Option {
	return func(o *options) { o.capacity = n }
}

// Registry is the top-level ECS container. It owns the entity allocator,
// one pool per component type, one static value per type, and a deferred
// destruction queue.
//
// A Registry is not safe for concurrent use.
type Registry struct {
	entities     *EntityPool[EntityID]
	pools        map[TypeID]Storage
	stores       []Storage // creation order, for deterministic destroy
	statics      map[TypeID]static
	destroyQueue []EntityID
	spareQueue   []EntityID
	opts         options
	moved        bool
}

func NewRegistry(opts ...Option) *Registry {
	o := options{
		arena:    arena.Default(),
		log:      zap.NewNop(),
		pageSize: DefaultPageSize,
		policy:   SwapRemove,
	}
	for _, fn := range opts {
		fn(&o)
	}
	if o.arena == nil {
		o.arena = arena.Default()
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	if o.pageSize <= 0 {
		o.pageSize = DefaultPageSize
	}
	r := &Registry{
		entities:     NewEntityPool[EntityID](),
		pools:        make(map[TypeID]Storage, 16),
		stores:       make([]Storage, 0, 16),
		statics:      make(map[TypeID]static),
		destroyQueue: make([]EntityID, 0, 64),
		opts:         o,
	}
	if o.capacity > 0 {
		r.entities.Reserve(o.capacity)
	}
	return r
}

func (r *Registry) Logger() *zap.Logger           { return r.opts.log }
func (r *Registry) Arena() arena.Arena            { return r.opts.arena }
func (r *Registry) PageSize() int                 { return r.opts.pageSize }
func (r *Registry) DefaultPolicy() DeletionPolicy { return r.opts.policy }

// Moved reports whether the registry's state was transferred by Move.
func (r *Registry) Moved() bool { return r.moved }

func (r *Registry) assertLive() {
	check.That(!r.moved, "registry used after Move")
}

func (r *Registry) Create() EntityID {
	r.assertLive()
	return r.entities.Create()
}

// CreateN creates n entities.
func (r *Registry) CreateN(n int) []EntityID {
	r.assertLive()
	ids := make([]EntityID, n)
	for i := range ids {
		ids[i] = r.entities.Create()
	}
	return ids
}

func (r *Registry) Alive(id EntityID) bool {
	r.assertLive()
	return r.entities.Alive(id)
}

// Len returns the number of live entities.
func (r *Registry) Len() int {
	r.assertLive()
	return r.entities.Len()
}

// Entities returns the identifier allocator.
func (r *Registry) Entities() *EntityPool[EntityID] {
	r.assertLive()
	return r.entities
}

// Destroy removes id from every pool that holds it, then releases the id.
// Stale ids are ignored and report false.
func (r *Registry) Destroy(id EntityID) bool {
	r.assertLive()
	if !r.entities.Alive(id) {
		return false
	}
	for _, s := range r.stores {
		s.Remove(id)
	}
	return r.entities.Destroy(id)
}

// DestroyN destroys every live id, notifying each pool once, and returns
// how many were destroyed.
func (r *Registry) DestroyN(ids []EntityID) int {
	r.assertLive()
	live := distinct(ids, r.entities.Alive)
	for _, s := range r.stores {
		s.RemoveN(live)
	}
	n := 0
	for _, id := range live {
		if r.entities.Destroy(id) {
			n++
		}
	}
	return n
}

// MarkForDestruction queues an entity for end-of-tick cleanup.
func (r *Registry) MarkForDestruction(id EntityID) {
	r.assertLive()
	r.destroyQueue = append(r.destroyQueue, id)
}

// PendingDestruction returns the number of queued entities.
func (r *Registry) PendingDestruction() int { return len(r.destroyQueue) }

// FlushDestroyQueue destroys all queued entities and clears their components.
// Called by the cleanup system at the end of each tick.
// Entities queued by OnRemove handlers during the flush are destroyed in the
// same call.
func (r *Registry) FlushDestroyQueue() int {
	r.assertLive()
	n := 0
	for len(r.destroyQueue) > 0 {
		q := r.destroyQueue
		r.destroyQueue = r.spareQueue[:0]
		n += r.DestroyN(q)
		r.spareQueue = q
	}
	return n
}

// Storage returns the pool registered under id, or nil.
func (r *Registry) Storage(id TypeID) Storage {
	r.assertLive()
	return r.pools[id]
}

// Storages returns every pool in creation order.
func (r *Registry) Storages() []Storage {
	r.assertLive()
	return r.stores
}

func (r *Registry) register(s Storage) {
	r.pools[s.TypeID()] = s
	r.stores = append(r.stores, s)
}

// Stats is a snapshot of registry occupancy.
type Stats struct {
	Entities   int
	Capacity   int
	Pools      int
	Components int
	Statics    int
}

func (r *Registry) Stats() Stats {
	r.assertLive()
	st := Stats{
		Entities: r.entities.Len(),
		Capacity: r.entities.Cap(),
		Pools:    len(r.stores),
		Statics:  len(r.statics),
	}
	for _, s := range r.stores {
		st.Components += s.Len()
	}
	return st
}

// ShrinkToFit releases unused trailing pages of every pool.
func (r *Registry) ShrinkToFit() {
	r.assertLive()
	for _, s := range r.stores {
		s.ShrinkToFit()
	}
}

// Clone returns a deep copy: entity allocator, every pool and every static.
// Component and static values are duplicated through Clone when their type
// implements Cloner, otherwise by assignment. Event bindings are not copied;
// handlers bound on r stay bound to r.
func (r *Registry) Clone() *Registry {
	r.assertLive()
	c := &Registry{
		entities:     r.entities.Clone(),
		pools:        make(map[TypeID]Storage, len(r.pools)),
		stores:       make([]Storage, 0, len(r.stores)),
		statics:      make(map[TypeID]static, len(r.statics)),
		destroyQueue: append(make([]EntityID, 0, cap(r.destroyQueue)), r.destroyQueue...),
		opts:         r.opts,
	}
	for _, s := range r.stores {
		c.register(s.cloneStorage(r.opts.arena, r.opts.log))
	}
	for id, st := range r.statics {
		c.statics[id] = st.cloneStatic()
	}
	r.opts.log.Debug("registry cloned",
		zap.Int("entities", c.entities.Len()),
		zap.Int("pools", len(c.stores)),
		zap.Int("statics", len(c.statics)))
	return c
}

// Move transfers every pool, static, event binding and the entity allocator
// to a new Registry. Using r afterwards, other than Release, is a contract
// violation.
func (r *Registry) Move() *Registry {
	r.assertLive()
	m := &Registry{
		entities:     r.entities,
		pools:        r.pools,
		stores:       r.stores,
		statics:      r.statics,
		destroyQueue: r.destroyQueue,
		opts:         r.opts,
	}
	r.entities = nil
	r.pools = nil
	r.stores = nil
	r.statics = nil
	r.destroyQueue = nil
	r.spareQueue = nil
	r.moved = true
	return m
}

// Release frees every pool's pages back to the arena and forgets all state.
// It is a no-op on a moved registry.
func (r *Registry) Release() {
	if r.moved {
		return
	}
	for _, s := range r.stores {
		s.Release()
	}
	clear(r.pools)
	clear(r.statics)
	r.stores = r.stores[:0]
	r.destroyQueue = r.destroyQueue[:0]
	r.entities.Reset()
}
