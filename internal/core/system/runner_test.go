package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/ecscore/internal/core/access"
)

type position struct{ X float64 }

type velocity struct{ DX float64 }

type health struct{ HP int }

type stub struct {
	name  string
	phase Phase
	terms []access.Term
	log   *[]string
}

func (s *stub) Phase() Phase           { return s.phase }
func (s *stub) Access() []access.Term  { return s.terms }
func (s *stub) Update(_ time.Duration) { *s.log = append(*s.log, s.name) }
func (s *stub) String() string         { return s.name }

func names(batches [][]System) [][]string {
	out := make([][]string, len(batches))
	for i, b := range batches {
		for _, s := range b {
			out[i] = append(out[i], s.(*stub).name)
		}
	}
	return out
}

func TestRunner_TickRunsPhasesInOrder(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(&stub{name: "cleanup", phase: PhaseCleanup, log: &log})
	r.Register(&stub{name: "move", phase: PhaseUpdate, log: &log})
	r.Register(&stub{name: "input", phase: PhaseInput, log: &log})
	r.Register(&stub{name: "collide", phase: PhaseUpdate, log: &log})

	r.Tick(time.Millisecond)
	assert.Equal(t, []string{"input", "move", "collide", "cleanup"}, log)
	assert.Len(t, r.Systems(), 4)
}

func TestRunner_TickPhase(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(&stub{name: "a", phase: PhaseInput, log: &log})
	r.Register(&stub{name: "b", phase: PhaseUpdate, log: &log})

	r.TickPhase(PhaseUpdate, 0)
	assert.Equal(t, []string{"b"}, log)
}

func TestRunner_PlanBatchesCompatibleSystems(t *testing.T) {
	var log []string
	r := NewRunner()
	sys := func(name string, terms ...access.Term) {
		r.Register(&stub{name: name, phase: PhaseUpdate, terms: terms, log: &log})
	}
	sys("move", access.Writes[position](), access.Reads[velocity]())
	sys("regen", access.Writes[health]())
	sys("render", access.Reads[position]())
	sys("drag", access.Writes[velocity]())
	sys("report", access.Reads[health](), access.Reads[velocity]())
	r.Register(&stub{name: "other", phase: PhaseCleanup, log: &log})

	got := names(r.Plan(PhaseUpdate))
	assert.Equal(t, [][]string{
		{"move", "regen"},
		{"render", "drag"},
		{"report"},
	}, got)

	assert.Empty(t, r.Plan(PhaseInput))
}

func TestRunner_PlanNeverReordersConflicts(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(&stub{name: "w1", phase: PhaseUpdate, terms: []access.Term{access.Writes[position]()}, log: &log})
	r.Register(&stub{name: "free", phase: PhaseUpdate, log: &log})
	r.Register(&stub{name: "w2", phase: PhaseUpdate, terms: []access.Term{access.Writes[position]()}, log: &log})
	r.Register(&stub{name: "r", phase: PhaseUpdate, terms: []access.Term{access.Reads[position]()}, log: &log})

	plan := r.Plan(PhaseUpdate)
	require.Len(t, plan, 3)
	assert.Equal(t, [][]string{{"w1", "free"}, {"w2"}, {"r"}}, names(plan))
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "update", PhaseUpdate.String())
	assert.Equal(t, "phase(9)", Phase(9).String())
}
