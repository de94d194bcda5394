package system

import (
	"strconv"
	"time"

	"github.com/l1jgo/ecscore/internal/core/access"
)

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: feed external input, run scripts
	PhasePreUpdate               // 1: process last tick's events
	PhaseUpdate                  // 2: simulation logic
	PhasePostUpdate              // 3: decay, spawn, bookkeeping
	PhaseCleanup                 // 4: destroy queued entities
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhasePreUpdate:
		return "pre_update"
	case PhaseUpdate:
		return "update"
	case PhasePostUpdate:
		return "post_update"
	case PhaseCleanup:
		return "cleanup"
	}
	return "phase(" + strconv.Itoa(int(p)) + ")"
}

// System is the interface every ECS system implements. Access declares the
// components and statics Update touches; Plan uses it to batch systems that
// could share a tick slot.
type System interface {
	Phase() Phase
	Access() []access.Term
	Update(dt time.Duration)
}
