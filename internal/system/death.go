package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/ecscore/internal/component"
	"github.com/l1jgo/ecscore/internal/core/access"
	"github.com/l1jgo/ecscore/internal/core/ecs"
	"github.com/l1jgo/ecscore/internal/core/event"
	coresys "github.com/l1jgo/ecscore/internal/core/system"
)

// DeathSystem tags entities whose health ran out with Dead and emits Died.
// Died handlers run on the next tick's dispatch; the built-in handler counts
// the death and queues the entity for cleanup. Phase 3 (PostUpdate).
type DeathSystem struct {
	reg *ecs.Registry
	acc *access.Access
	bus *event.Bus
	log *zap.Logger
}

func NewDeathSystem(reg *ecs.Registry, bus *event.Bus) *DeathSystem {
	ecs.GetOrSetStatic(reg, component.Stats{})
	s := &DeathSystem{
		reg: reg,
		acc: access.New(reg,
			access.Reads[component.Health](),
			access.Reads[component.Name](),
			access.Writes[component.Dead](),
			access.WritesStatic[component.Stats](),
		),
		bus: bus,
		log: reg.Logger(),
	}
	event.Subscribe(bus, s.onDied)
	return s
}

func (s *DeathSystem) Phase() coresys.Phase  { return coresys.PhasePostUpdate }
func (s *DeathSystem) Access() []access.Term { return s.acc.Terms() }

func (s *DeathSystem) Update(_ time.Duration) {
	for id, h := range access.Iter[component.Health](s.acc) {
		if h.HP > 0 || access.Has[component.Dead](s.acc, id) {
			continue
		}
		access.Add(s.acc, id, component.Dead{})
		name, _ := access.TryGet[component.Name](s.acc, id)
		event.Emit(s.bus, Died{Entity: id, Name: name.Value})
	}
}

func (s *DeathSystem) onDied(ev Died) {
	access.StaticMut[component.Stats](s.acc).Deaths++
	s.reg.MarkForDestruction(ev.Entity)
	s.log.Debug("entity died", zap.Stringer("entity", ev.Entity), zap.String("name", ev.Name))
}
