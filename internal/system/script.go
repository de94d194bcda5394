package system

import (
	"time"

	"github.com/l1jgo/ecscore/internal/core/access"
	coresys "github.com/l1jgo/ecscore/internal/core/system"
	"github.com/l1jgo/ecscore/internal/scripting"
)

// ScriptSystem runs the Lua on_tick hook. Phase 0 (Input).
type ScriptSystem struct {
	engine *scripting.Engine
	errors int
}

func NewScriptSystem(engine *scripting.Engine) *ScriptSystem {
	return &ScriptSystem{engine: engine}
}

func (s *ScriptSystem) Phase() coresys.Phase  { return coresys.PhaseInput }
func (s *ScriptSystem) Access() []access.Term { return s.engine.Terms() }

// Update logs script errors through the engine and keeps ticking.
func (s *ScriptSystem) Update(dt time.Duration) {
	if err := s.engine.Tick(dt); err != nil {
		s.errors++
	}
}

// Errors returns how many ticks ended in a script error.
func (s *ScriptSystem) Errors() int { return s.errors }
