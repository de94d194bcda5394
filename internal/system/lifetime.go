package system

import (
	"time"

	"github.com/l1jgo/ecscore/internal/component"
	"github.com/l1jgo/ecscore/internal/core/access"
	"github.com/l1jgo/ecscore/internal/core/ecs"
	"github.com/l1jgo/ecscore/internal/core/event"
	coresys "github.com/l1jgo/ecscore/internal/core/system"
)

// LifetimeSystem counts down Lifetime and queues expired entities for
// destruction. Phase 3 (PostUpdate).
type LifetimeSystem struct {
	reg *ecs.Registry
	acc *access.Access
	bus *event.Bus
}

func NewLifetimeSystem(reg *ecs.Registry, bus *event.Bus) *LifetimeSystem {
	return &LifetimeSystem{
		reg: reg,
		acc: access.New(reg, access.Writes[component.Lifetime]()),
		bus: bus,
	}
}

func (s *LifetimeSystem) Phase() coresys.Phase  { return coresys.PhasePostUpdate }
func (s *LifetimeSystem) Access() []access.Term { return s.acc.Terms() }

func (s *LifetimeSystem) Update(dt time.Duration) {
	secs := dt.Seconds()
	for id, l := range access.IterMut[component.Lifetime](s.acc) {
		if l.Remaining <= 0 {
			continue // already queued
		}
		l.Remaining -= secs
		if l.Remaining <= 0 {
			s.reg.MarkForDestruction(id)
			event.Emit(s.bus, Expired{Entity: id})
		}
	}
}
