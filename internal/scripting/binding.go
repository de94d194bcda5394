package scripting

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/l1jgo/ecscore/internal/core/access"
	"github.com/l1jgo/ecscore/internal/core/ecs"
)

// Codec converts a component to and from a Lua table. Decode merges the
// fields present in the table into v, leaving the others untouched.
type Codec[T any] struct {
	Encode func(L *lua.LState, v *T) *lua.LTable
	Decode func(t *lua.LTable, v *T) error
}

// binding is the type-erased face of a bound component.
type binding struct {
	name     string
	has      func(*access.Access, ecs.EntityID) bool
	get      func(*lua.LState, *access.Access, ecs.EntityID) lua.LValue
	set      func(*access.Access, ecs.EntityID, *lua.LTable) error
	remove   func(*access.Access, ecs.EntityID) bool
	entities func(*access.Access) []ecs.EntityID
}

// Bind exposes T to scripts under name. Binding a name twice replaces the
// earlier codec.
func Bind[T any](e *Engine, name string, c Codec[T]) {
	e.bindings[name] = binding{
		name: name,
		has:  access.Has[T],
		get: func(L *lua.LState, acc *access.Access, id ecs.EntityID) lua.LValue {
			v, ok := access.TryGet[T](acc, id)
			if !ok {
				return lua.LNil
			}
			return c.Encode(L, &v)
		},
		set: func(acc *access.Access, id ecs.EntityID, t *lua.LTable) error {
			v, _ := access.TryGet[T](acc, id)
			if err := c.Decode(t, &v); err != nil {
				return err
			}
			access.Set(acc, id, v)
			return nil
		},
		remove: access.Remove[T],
		entities: func(acc *access.Access) []ecs.EntityID {
			ids := make([]ecs.EntityID, 0, access.Len[T](acc))
			for id := range access.IterMut[T](acc) {
				ids = append(ids, id)
			}
			return ids
		},
	}
	e.addTerm(access.Writes[T]())
}
