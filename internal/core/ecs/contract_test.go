//go:build !ecsrelease

package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/ecscore/internal/core/check"
)

func violates(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		rec := recover()
		require.NotNil(t, rec, "expected a contract violation")
		_, ok := rec.(*check.Violation)
		assert.True(t, ok, "panic value %v is not a *check.Violation", rec)
	}()
	fn()
}

func TestContract_GetMissingComponent(t *testing.T) {
	r := NewRegistry()
	id := r.Create()
	violates(t, func() { Get[position](r, id) })
	Add(r, r.Create(), position{})
	violates(t, func() { Get[position](r, id) })
}

func TestContract_AddTwice(t *testing.T) {
	r := NewRegistry()
	id := r.Create()
	Add(r, id, position{})
	violates(t, func() { Add(r, id, position{}) })
	assert.Equal(t, 1, PoolOf[position](r).Len())
}

func TestContract_AddToDeadEntity(t *testing.T) {
	r := NewRegistry()
	id := r.Create()
	r.Destroy(id)
	violates(t, func() { Add(r, id, position{}) })
	violates(t, func() { Set(r, id, position{}) })
}

func TestContract_AddToNull(t *testing.T) {
	p := NewPool[tag](SwapRemove, nil, 0, nil)
	violates(t, func() { p.Add(Null, tag{}) })
}

func TestContract_MissingStatic(t *testing.T) {
	r := NewRegistry()
	violates(t, func() { GetStatic[clock](r) })
}

func TestContract_PolicyMismatch(t *testing.T) {
	r := NewRegistry()
	AssurePool[position](r)
	violates(t, func() { AssurePoolWith[position](r, InPlace) })
}

func TestContract_UseAfterMove(t *testing.T) {
	r := NewRegistry()
	r.Move()
	violates(t, func() { r.Create() })
	violates(t, func() { AssurePool[position](r) })
	violates(t, func() { SetStatic(r, clock{}) })
	violates(t, func() { r.Clone() })
}

func TestContract_UnallocatedPage(t *testing.T) {
	b := NewPagedBuffer[vec2](nil, 4)
	violates(t, func() { b.At(3) })
}

func TestContract_AssureStorageUnknownID(t *testing.T) {
	r := NewRegistry()
	violates(t, func() { AssureStorage(r, TypeID(1<<30)) })
}
