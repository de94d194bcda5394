package system

import (
	"time"

	"github.com/l1jgo/ecscore/internal/component"
	"github.com/l1jgo/ecscore/internal/core/access"
	"github.com/l1jgo/ecscore/internal/core/ecs"
	coresys "github.com/l1jgo/ecscore/internal/core/system"
)

// RegenSystem applies Health.Regen once per simulated second.
// Phase 3 (PostUpdate). Runs every tick; an accumulator gates the actual
// regen so the rate does not depend on the tick rate.
type RegenSystem struct {
	acc     *access.Access
	elapsed time.Duration
}

func NewRegenSystem(reg *ecs.Registry) *RegenSystem {
	return &RegenSystem{acc: access.New(reg, access.Writes[component.Health]())}
}

func (s *RegenSystem) Phase() coresys.Phase  { return coresys.PhasePostUpdate }
func (s *RegenSystem) Access() []access.Term { return s.acc.Terms() }

func (s *RegenSystem) Update(dt time.Duration) {
	s.elapsed += dt
	for s.elapsed >= time.Second {
		s.elapsed -= time.Second
		for _, h := range access.IterMut[component.Health](s.acc) {
			if h.HP <= 0 || h.Regen == 0 {
				continue
			}
			h.HP = min(h.HP+h.Regen, h.MaxHP)
		}
	}
}
