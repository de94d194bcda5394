package system

import (
	"time"

	"github.com/l1jgo/ecscore/internal/component"
	"github.com/l1jgo/ecscore/internal/core/access"
	"github.com/l1jgo/ecscore/internal/core/ecs"
	coresys "github.com/l1jgo/ecscore/internal/core/system"
)

// MovementSystem integrates Velocity into Position. When a Bounds static is
// set, entities bounce off its edges. Phase 2 (Update).
type MovementSystem struct {
	acc *access.Access
}

func NewMovementSystem(reg *ecs.Registry) *MovementSystem {
	return &MovementSystem{acc: access.New(reg,
		access.Writes[component.Position](),
		access.Writes[component.Velocity](),
		access.ReadsStatic[component.Bounds](),
	)}
}

func (s *MovementSystem) Phase() coresys.Phase  { return coresys.PhaseUpdate }
func (s *MovementSystem) Access() []access.Term { return s.acc.Terms() }

func (s *MovementSystem) Update(dt time.Duration) {
	secs := dt.Seconds()
	bounds, bounded := access.TryStatic[component.Bounds](s.acc)
	for id, v := range access.IterMut[component.Velocity](s.acc) {
		if !access.Has[component.Position](s.acc, id) {
			continue
		}
		p := access.GetMut[component.Position](s.acc, id)
		p.X += v.DX * secs
		p.Y += v.DY * secs
		if bounded {
			bounce(&p.X, &v.DX, bounds.MinX, bounds.MaxX)
			bounce(&p.Y, &v.DY, bounds.MinY, bounds.MaxY)
		}
	}
}

// bounce reflects x back inside [lo, hi] and flips the velocity d.
func bounce(x, d *float64, lo, hi float64) {
	switch {
	case *x < lo:
		*x = min(2*lo-*x, hi)
		*d = -*d
	case *x > hi:
		*x = max(2*hi-*x, lo)
		*d = -*d
	}
}
