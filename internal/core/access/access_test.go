package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/ecscore/internal/core/ecs"
)

type position struct{ X, Y float64 }

type velocity struct{ DX, DY float64 }

type health struct{ HP int }

type settings struct{ Gravity float64 }

func TestNormalizeMergesToStrongerMode(t *testing.T) {
	terms := normalize([]Term{
		Reads[velocity](),
		Reads[position](),
		Writes[position](),
		Reads[position](),
		ReadsStatic[position](),
	})
	require.Len(t, terms, 3)
	for _, tm := range terms {
		if tm.Type == ecs.TypeIDOf[position]() && tm.Kind == KindComponent {
			assert.Equal(t, Write, tm.Mode)
		}
	}
	assert.Equal(t, KindStatic, terms[2].Kind, "statics sort after components")
}

func TestConflicts(t *testing.T) {
	tests := []struct {
		name string
		a, b []Term
		want bool
	}{
		{"disjoint writes", []Term{Writes[position]()}, []Term{Writes[velocity]()}, false},
		{"shared reads", []Term{Reads[position]()}, []Term{Reads[position](), Reads[velocity]()}, false},
		{"write vs read", []Term{Writes[position]()}, []Term{Reads[position]()}, true},
		{"read vs write", []Term{Reads[velocity](), Reads[position]()}, []Term{Writes[position]()}, true},
		{"write vs write", []Term{Writes[health]()}, []Term{Writes[health]()}, true},
		{"static write vs component read", []Term{WritesStatic[position]()}, []Term{Reads[position]()}, false},
		{"static write vs static read", []Term{WritesStatic[settings]()}, []Term{ReadsStatic[settings]()}, true},
		{"empty", nil, []Term{Writes[position]()}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Conflicts(tt.a, tt.b))
			assert.Equal(t, tt.want, Conflicts(tt.b, tt.a), "symmetric")
		})
	}
}

func TestNewResolvesPoolsEagerly(t *testing.T) {
	r := ecs.NewRegistry()
	assert.Nil(t, ecs.PoolOf[position](r))
	a := New(r, Reads[position](), Writes[velocity](), ReadsStatic[settings]())

	assert.NotNil(t, ecs.PoolOf[position](r))
	assert.NotNil(t, ecs.PoolOf[velocity](r))
	assert.Nil(t, ecs.PoolOf[settings](r), "statics do not create pools")
	assert.Same(t, r, a.Registry())
	assert.Len(t, a.Terms(), 3)
}

func TestMovementThroughAccess(t *testing.T) {
	r := ecs.NewRegistry()
	e1, e2 := r.Create(), r.Create()
	ecs.Add(r, e1, position{})
	ecs.Add(r, e1, velocity{DX: 1, DY: 2})
	ecs.Add(r, e2, position{X: 10})
	ecs.SetStatic(r, settings{Gravity: -1})

	a := New(r, Writes[position](), Reads[velocity](), ReadsStatic[settings]())
	g := Static[settings](a).Gravity
	for id, v := range Iter[velocity](a) {
		p := GetMut[position](a, id)
		p.X += v.DX
		p.Y += v.DY + g
	}
	assert.Equal(t, position{X: 1, Y: 1}, Get[position](a, e1))
	assert.Equal(t, position{X: 10}, Get[position](a, e2))
	assert.Equal(t, 2, Len[position](a))
}

func TestReadCopiesDoNotWriteThrough(t *testing.T) {
	r := ecs.NewRegistry()
	id := r.Create()
	ecs.Add(r, id, health{HP: 5})

	a := New(r, Reads[health]())
	v := Get[health](a, id)
	v.HP = 0
	for _, h := range Iter[health](a) {
		h.HP = 0
	}
	assert.Equal(t, 5, ecs.Get[health](r, id).HP)

	got, ok := TryGet[health](a, id)
	assert.True(t, ok)
	assert.Equal(t, 5, got.HP)
	_, ok = TryGet[health](a, r.Create())
	assert.False(t, ok)
	assert.True(t, Has[health](a, id))
}

func TestWriteOperations(t *testing.T) {
	r := ecs.NewRegistry()
	id := r.Create()
	a := New(r, Writes[health](), WritesStatic[settings]())

	Add(a, id, health{HP: 1})
	Set(a, id, health{HP: 2})
	for _, h := range IterMut[health](a) {
		h.HP *= 10
	}
	assert.Equal(t, 20, Get[health](a, id).HP)
	assert.True(t, Remove[health](a, id))
	assert.False(t, Has[health](a, id))

	_, ok := TryStatic[settings](a)
	assert.False(t, ok)
	SetStatic(a, settings{Gravity: 9})
	StaticMut[settings](a).Gravity++
	assert.Equal(t, 10.0, ecs.GetStatic[settings](r).Gravity)
}

func TestJoin(t *testing.T) {
	r := ecs.NewRegistry()
	e := r.CreateN(5)
	for _, id := range e {
		ecs.Add(r, id, position{})
	}
	ecs.Add(r, e[1], velocity{})
	ecs.Add(r, e[3], velocity{})

	a := New(r, Reads[position](), Reads[velocity]())
	var got []ecs.EntityID
	for id := range Join[position, velocity](a) {
		got = append(got, id)
	}
	assert.ElementsMatch(t, []ecs.EntityID{e[1], e[3]}, got)

	n := 0
	for range Join[velocity, position](a) {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestCovers(t *testing.T) {
	r := ecs.NewRegistry()
	a := New(r, Writes[position](), Reads[velocity](), ReadsStatic[settings]())

	assert.NoError(t, a.Covers(Reads[position](), Writes[position](), Reads[velocity](), ReadsStatic[settings]()))
	assert.ErrorIs(t, a.Covers(Writes[velocity]()), ErrReadOnly)
	assert.ErrorIs(t, a.Covers(WritesStatic[settings]()), ErrReadOnly)
	assert.ErrorIs(t, a.Covers(Reads[health]()), ErrNotCovered)
	assert.ErrorIs(t, a.Covers(ReadsStatic[position]()), ErrNotCovered, "a static is not its component")

	err := a.Covers(Reads[health](), Writes[velocity]())
	assert.ErrorIs(t, err, ErrNotCovered)
	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestNarrowSharesCachedPools(t *testing.T) {
	r := ecs.NewRegistry()
	id := r.Create()
	ecs.Add(r, id, position{X: 3})
	wide := New(r, Writes[position](), Writes[velocity]())

	narrow := wide.Narrow(Reads[position]())
	require.Len(t, narrow.Terms(), 1)
	assert.Equal(t, Read, narrow.Terms()[0].Mode)
	assert.Same(t, wide.pools[ecs.TypeIDOf[position]()], narrow.pools[ecs.TypeIDOf[position]()])
	assert.Equal(t, 3.0, Get[position](narrow, id).X)
}

func TestCompatible(t *testing.T) {
	r := ecs.NewRegistry()
	mover := New(r, Writes[position](), Reads[velocity]())
	render := New(r, Reads[position]())
	physics := New(r, Writes[velocity]())
	regen := New(r, Writes[health]())

	assert.False(t, mover.Compatible(render))
	assert.False(t, mover.Compatible(physics))
	assert.True(t, render.Compatible(physics))
	assert.True(t, mover.Compatible(regen))

	other := New(ecs.NewRegistry(), Writes[position]())
	assert.True(t, mover.Compatible(other), "separate registries share nothing")
}

func TestTermString(t *testing.T) {
	assert.Contains(t, Writes[position]().String(), "write component")
	assert.Contains(t, ReadsStatic[settings]().String(), "read static")
}

func TestNew_ResolvesTermLiterals(t *testing.T) {
	r := ecs.NewRegistry()
	id := r.Create()
	ecs.SetStatic(r, settings{Gravity: 2})

	a := New(r,
		Term{Type: ecs.TypeIDOf[position](), Mode: Write, Kind: KindComponent},
		Term{Type: ecs.TypeIDOf[settings](), Mode: Read, Kind: KindStatic},
	)
	require.NotNil(t, ecs.PoolOf[position](r), "pool created from the type id alone")

	Add(a, id, position{X: 1})
	assert.Equal(t, position{X: 1}, Get[position](a, id))
	assert.Equal(t, 2.0, Static[settings](a).Gravity)
	assert.NoError(t, a.Covers(ReadsStatic[settings](), Writes[position]()))
}

func TestNew_StaticTermsCreateNoPools(t *testing.T) {
	r := ecs.NewRegistry()
	ecs.SetStatic(r, settings{Gravity: 3})

	a := New(r, ReadsStatic[settings](), WritesStatic[health]())
	assert.Empty(t, r.Storages())
	assert.Equal(t, 3.0, Static[settings](a).Gravity)
	_, ok := TryStatic[health](a)
	assert.False(t, ok)
	SetStatic(a, health{HP: 4})
	assert.Equal(t, 4, ecs.GetStatic[health](r).HP)
}
