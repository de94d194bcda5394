package scripting

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/l1jgo/ecscore/internal/component"
)

// BindDefaults registers the demo components:
//
//	position  {x, y}
//	velocity  {dx, dy}
//	health    {hp, max_hp, regen}
//	lifetime  {remaining}
//	name      {value, prefab}
//	inventory {{id, count}, ...}
func BindDefaults(e *Engine) {
	Bind(e, "position", Codec[component.Position]{
		Encode: func(L *lua.LState, v *component.Position) *lua.LTable {
			t := L.NewTable()
			t.RawSetString("x", lua.LNumber(v.X))
			t.RawSetString("y", lua.LNumber(v.Y))
			return t
		},
		Decode: func(t *lua.LTable, v *component.Position) error {
			setFloat(t, "x", &v.X)
			setFloat(t, "y", &v.Y)
			return nil
		},
	})
	Bind(e, "velocity", Codec[component.Velocity]{
		Encode: func(L *lua.LState, v *component.Velocity) *lua.LTable {
			t := L.NewTable()
			t.RawSetString("dx", lua.LNumber(v.DX))
			t.RawSetString("dy", lua.LNumber(v.DY))
			return t
		},
		Decode: func(t *lua.LTable, v *component.Velocity) error {
			setFloat(t, "dx", &v.DX)
			setFloat(t, "dy", &v.DY)
			return nil
		},
	})
	Bind(e, "health", Codec[component.Health]{
		Encode: func(L *lua.LState, v *component.Health) *lua.LTable {
			t := L.NewTable()
			t.RawSetString("hp", lua.LNumber(v.HP))
			t.RawSetString("max_hp", lua.LNumber(v.MaxHP))
			t.RawSetString("regen", lua.LNumber(v.Regen))
			return t
		},
		Decode: func(t *lua.LTable, v *component.Health) error {
			setInt32(t, "hp", &v.HP)
			setInt32(t, "max_hp", &v.MaxHP)
			setInt32(t, "regen", &v.Regen)
			if v.MaxHP == 0 {
				v.MaxHP = v.HP
			}
			if v.HP > v.MaxHP {
				return fmt.Errorf("hp %d exceeds max_hp %d", v.HP, v.MaxHP)
			}
			return nil
		},
	})
	Bind(e, "lifetime", Codec[component.Lifetime]{
		Encode: func(L *lua.LState, v *component.Lifetime) *lua.LTable {
			t := L.NewTable()
			t.RawSetString("remaining", lua.LNumber(v.Remaining))
			return t
		},
		Decode: func(t *lua.LTable, v *component.Lifetime) error {
			setFloat(t, "remaining", &v.Remaining)
			return nil
		},
	})
	Bind(e, "name", Codec[component.Name]{
		Encode: func(L *lua.LState, v *component.Name) *lua.LTable {
			t := L.NewTable()
			t.RawSetString("value", lua.LString(v.Value))
			t.RawSetString("prefab", lua.LString(v.Prefab))
			return t
		},
		Decode: func(t *lua.LTable, v *component.Name) error {
			if s, ok := lStr(t, "value"); ok {
				v.Value = s
			}
			if s, ok := lStr(t, "prefab"); ok {
				v.Prefab = s
			}
			return nil
		},
	})
	Bind(e, "inventory", Codec[component.Inventory]{
		Encode: func(L *lua.LState, v *component.Inventory) *lua.LTable {
			t := L.NewTable()
			for _, it := range v.Items {
				row := L.NewTable()
				row.RawSetString("id", lua.LNumber(it.ID))
				row.RawSetString("count", lua.LNumber(it.Count))
				t.Append(row)
			}
			return t
		},
		// The table replaces the whole item list.
		Decode: func(t *lua.LTable, v *component.Inventory) error {
			items := make([]component.Item, 0, t.Len())
			for i := 1; i <= t.Len(); i++ {
				row, ok := t.RawGetInt(i).(*lua.LTable)
				if !ok {
					return fmt.Errorf("inventory entry %d is not a table", i)
				}
				var it component.Item
				setInt32(row, "id", &it.ID)
				setInt32(row, "count", &it.Count)
				items = append(items, it)
			}
			v.Items = items
			return nil
		},
	})
}

func setFloat(t *lua.LTable, key string, dst *float64) {
	if n, ok := lNum(t, key); ok {
		*dst = n
	}
}

func setInt32(t *lua.LTable, key string, dst *int32) {
	if n, ok := lNum(t, key); ok {
		*dst = int32(n)
	}
}
