package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/ecscore/internal/core/access"
	"github.com/l1jgo/ecscore/internal/core/ecs"
	coresys "github.com/l1jgo/ecscore/internal/core/system"
)

// CleanupSystem flushes the deferred entity destruction queue at tick end.
// Phase 4 (Cleanup).
type CleanupSystem struct {
	reg *ecs.Registry
	log *zap.Logger
}

func NewCleanupSystem(reg *ecs.Registry) *CleanupSystem {
	return &CleanupSystem{reg: reg, log: reg.Logger()}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

// Access is empty: destruction touches every pool, and the cleanup phase
// runs alone.
func (s *CleanupSystem) Access() []access.Term { return nil }

func (s *CleanupSystem) Update(_ time.Duration) {
	if n := s.reg.FlushDestroyQueue(); n > 0 {
		s.log.Debug("destroyed queued entities", zap.Int("count", n))
	}
}
