package system

import (
	"time"

	"github.com/l1jgo/ecscore/internal/component"
	"github.com/l1jgo/ecscore/internal/core/access"
	"github.com/l1jgo/ecscore/internal/core/ecs"
	coresys "github.com/l1jgo/ecscore/internal/core/system"
)

// ClockSystem advances the Clock static. Phase 0 (Input).
type ClockSystem struct {
	acc *access.Access
}

func NewClockSystem(reg *ecs.Registry) *ClockSystem {
	ecs.GetOrSetStatic(reg, component.Clock{})
	return &ClockSystem{acc: access.New(reg, access.WritesStatic[component.Clock]())}
}

func (s *ClockSystem) Phase() coresys.Phase  { return coresys.PhaseInput }
func (s *ClockSystem) Access() []access.Term { return s.acc.Terms() }

func (s *ClockSystem) Update(dt time.Duration) {
	c := access.StaticMut[component.Clock](s.acc)
	c.Tick++
	c.Elapsed += dt
}
