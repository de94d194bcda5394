package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/l1jgo/ecscore/internal/component"
	"github.com/l1jgo/ecscore/internal/core/access"
	"github.com/l1jgo/ecscore/internal/core/ecs"
	"github.com/l1jgo/ecscore/internal/data"
)

// Engine wraps a single gopher-lua VM bound to one registry.
// Single-goroutine access only (tick loop).
//
// Scripts see these globals:
//
//	create() -> id              destroy(id) -> bool      alive(id) -> bool
//	count() -> n                mark(id)                 log(msg)
//	set(name, id, tbl)          get(name, id) -> tbl|nil
//	has(name, id) -> bool       remove(name, id) -> bool
//	each(name, fn(id, tbl))     spawn(prefab, x, y) -> id
//
// Component names are registered with Bind. A global on_tick(dt, tick)
// function, if defined, runs on every Tick.
type Engine struct {
	vm       *lua.LState
	reg      *ecs.Registry
	log      *zap.Logger
	bindings map[string]binding
	terms    []access.Term
	acc      *access.Access
	prefabs  *data.PrefabTable
	ticks    uint64
}

// NewEngine creates a Lua VM with the registry API installed and the demo
// components bound.
func NewEngine(reg *ecs.Registry, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{
		vm:       vm,
		reg:      reg,
		log:      log,
		bindings: make(map[string]binding),
	}
	e.installAPI()
	BindDefaults(e)
	return e
}

// SetPrefabs enables the spawn global.
func (e *Engine) SetPrefabs(t *data.PrefabTable) {
	e.prefabs = t
	if t == nil {
		return
	}
	for _, term := range data.SpawnTerms() {
		e.addTerm(term)
	}
}

// Terms returns the access the engine's globals need.
func (e *Engine) Terms() []access.Term { return e.terms }

// Bound returns the registered component names, sorted.
func (e *Engine) Bound() []string {
	names := make([]string, 0, len(e.bindings))
	for n := range e.bindings {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (e *Engine) addTerm(t access.Term) {
	e.terms = append(e.terms, t)
	e.acc = nil
}

// view returns the descriptor over every bound type, rebuilt after Bind.
func (e *Engine) view() *access.Access {
	if e.acc == nil {
		e.acc = access.New(e.reg, e.terms...)
	}
	return e.acc
}

// Load runs a single .lua file, or every .lua file of a directory in name
// order. A missing path is not an error.
func (e *Engine) Load(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			e.log.Debug("lua script path missing", zap.String("path", path))
			return nil
		}
		return err
	}
	if info.IsDir() {
		return e.loadDir(path)
	}
	return e.DoFile(path)
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		if err := e.DoFile(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// DoFile runs one script file.
func (e *Engine) DoFile(path string) error {
	if err := e.vm.DoFile(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	e.log.Debug("loaded lua script", zap.String("file", path))
	return nil
}

// DoString runs a chunk of Lua source.
func (e *Engine) DoString(src string) error {
	if err := e.vm.DoString(src); err != nil {
		return fmt.Errorf("lua: %w", err)
	}
	return nil
}

// HasTickHook reports whether a script defined on_tick.
func (e *Engine) HasTickHook() bool {
	return e.vm.GetGlobal("on_tick") != lua.LNil
}

// Tick calls on_tick(dt_seconds, tick) if a script defined it.
func (e *Engine) Tick(dt time.Duration) error {
	e.ticks++
	fn := e.vm.GetGlobal("on_tick")
	if fn == lua.LNil {
		return nil
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, lua.LNumber(dt.Seconds()), lua.LNumber(e.ticks)); err != nil {
		e.log.Error("lua on_tick error", zap.Error(err))
		return fmt.Errorf("on_tick: %w", err)
	}
	return nil
}

// Global returns a script global, for tests and host code.
func (e *Engine) Global(name string) lua.LValue {
	return e.vm.GetGlobal(name)
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}

func (e *Engine) installAPI() {
	for name, fn := range map[string]lua.LGFunction{
		"create":  e.luaCreate,
		"destroy": e.luaDestroy,
		"alive":   e.luaAlive,
		"count":   e.luaCount,
		"mark":    e.luaMark,
		"log":     e.luaLog,
		"set":     e.luaSet,
		"get":     e.luaGet,
		"has":     e.luaHas,
		"remove":  e.luaRemove,
		"each":    e.luaEach,
		"spawn":   e.luaSpawn,
	} {
		e.vm.SetGlobal(name, e.vm.NewFunction(fn))
	}
}

// Entity ids travel as Lua numbers. Versions stay exact up to 2^21.
func pushEntity(L *lua.LState, id ecs.EntityID) {
	L.Push(lua.LNumber(id))
}

func checkEntity(L *lua.LState, n int) ecs.EntityID {
	return ecs.EntityID(uint64(L.CheckNumber(n)))
}

func (e *Engine) checkBinding(L *lua.LState, n int) binding {
	name := L.CheckString(n)
	b, ok := e.bindings[name]
	if !ok {
		L.ArgError(n, fmt.Sprintf("unknown component %q", name))
	}
	return b
}

func (e *Engine) luaCreate(L *lua.LState) int {
	pushEntity(L, e.reg.Create())
	return 1
}

func (e *Engine) luaDestroy(L *lua.LState) int {
	L.Push(lua.LBool(e.reg.Destroy(checkEntity(L, 1))))
	return 1
}

func (e *Engine) luaAlive(L *lua.LState) int {
	L.Push(lua.LBool(e.reg.Alive(checkEntity(L, 1))))
	return 1
}

func (e *Engine) luaCount(L *lua.LState) int {
	L.Push(lua.LNumber(e.reg.Len()))
	return 1
}

func (e *Engine) luaMark(L *lua.LState) int {
	e.reg.MarkForDestruction(checkEntity(L, 1))
	return 0
}

func (e *Engine) luaLog(L *lua.LState) int {
	e.log.Info("lua", zap.String("msg", L.CheckString(1)))
	return 0
}

func (e *Engine) luaSet(L *lua.LState) int {
	b := e.checkBinding(L, 1)
	id := checkEntity(L, 2)
	tbl := L.CheckTable(3)
	if !e.reg.Alive(id) {
		L.ArgError(2, fmt.Sprintf("entity %s is not alive", id))
	}
	if err := b.set(e.view(), id, tbl); err != nil {
		L.RaiseError("set %s: %s", b.name, err.Error())
	}
	return 0
}

func (e *Engine) luaGet(L *lua.LState) int {
	b := e.checkBinding(L, 1)
	L.Push(b.get(L, e.view(), checkEntity(L, 2)))
	return 1
}

func (e *Engine) luaHas(L *lua.LState) int {
	b := e.checkBinding(L, 1)
	L.Push(lua.LBool(b.has(e.view(), checkEntity(L, 2))))
	return 1
}

func (e *Engine) luaRemove(L *lua.LState) int {
	b := e.checkBinding(L, 1)
	L.Push(lua.LBool(b.remove(e.view(), checkEntity(L, 2))))
	return 1
}

// each snapshots the entity list first, so fn may add or remove freely.
func (e *Engine) luaEach(L *lua.LState) int {
	b := e.checkBinding(L, 1)
	fn := L.CheckFunction(2)
	acc := e.view()
	for _, id := range b.entities(acc) {
		v := b.get(L, acc, id)
		if v == lua.LNil {
			continue
		}
		L.Push(fn)
		pushEntity(L, id)
		L.Push(v)
		L.Call(2, 0)
	}
	return 0
}

func (e *Engine) luaSpawn(L *lua.LState) int {
	if e.prefabs == nil {
		L.RaiseError("spawn: no prefab table loaded")
		return 0
	}
	name := L.CheckString(1)
	p := e.prefabs.Get(name)
	if p == nil {
		L.ArgError(1, fmt.Sprintf("unknown prefab %q", name))
	}
	pos := component.Position{X: float64(L.OptNumber(2, 0)), Y: float64(L.OptNumber(3, 0))}
	pushEntity(L, data.Instantiate(e.view(), p, pos))
	return 1
}

// --- Lua helpers ---

// lNum reads a number field from a Lua table, reporting whether it was set.
func lNum(t *lua.LTable, key string) (float64, bool) {
	n, ok := t.RawGetString(key).(lua.LNumber)
	return float64(n), ok
}

// lStr reads a string field from a Lua table.
func lStr(t *lua.LTable, key string) (string, bool) {
	s, ok := t.RawGetString(key).(lua.LString)
	return string(s), ok
}
