package system

import (
	"github.com/l1jgo/ecscore/internal/component"
	"github.com/l1jgo/ecscore/internal/core/ecs"
)

// ObserveLifecycle keeps the Stats static's Spawned and Destroyed counters
// in step with the Name pool, which every spawned entity carries. The
// returned func unbinds both handlers.
func ObserveLifecycle(reg *ecs.Registry) (unbind func()) {
	ecs.GetOrSetStatic(reg, component.Stats{})
	onAdd := ecs.OnAdd[component.Name](reg)
	onRemove := ecs.OnRemove[component.Name](reg)

	added := onAdd.Bind(func(batch []ecs.EntityID) {
		ecs.GetStatic[component.Stats](reg).Spawned += len(batch)
	})
	removed := onRemove.Bind(func(batch []ecs.EntityID) {
		ecs.GetStatic[component.Stats](reg).Destroyed += len(batch)
	})
	return func() {
		onAdd.Unbind(added)
		onRemove.Unbind(removed)
	}
}
