package ecs

import (
	"reflect"
	"sync"
)

// TypeID is a stable, process-lifetime identifier for a Go type. It keys the
// registry's pools and statics.
type TypeID uint32

// typeRegistry is shared by every registry in the process.
var typeRegistry = struct {
	mu     sync.RWMutex
	ids    map[reflect.Type]TypeID
	byID   []reflect.Type
	assure []func(*Registry) Storage
}{
	ids: make(map[reflect.Type]TypeID, 64),
}

// TypeIDOf returns T's identifier, assigning the next free one on first use.
func TypeIDOf[T any]() TypeID {
	return typeIDFor(reflect.TypeFor[T](), assureStorage[T])
}

func assureStorage[T any](r *Registry) Storage { return AssurePool[T](r) }

func typeIDFor(t reflect.Type, assure func(*Registry) Storage) TypeID {
	typeRegistry.mu.RLock()
	id, ok := typeRegistry.ids[t]
	typeRegistry.mu.RUnlock()
	if ok {
		return id
	}

	typeRegistry.mu.Lock()
	defer typeRegistry.mu.Unlock()
	if id, ok := typeRegistry.ids[t]; ok {
		return id
	}
	id = TypeID(len(typeRegistry.byID))
	typeRegistry.ids[t] = id
	typeRegistry.byID = append(typeRegistry.byID, t)
	typeRegistry.assure = append(typeRegistry.assure, assure)
	return id
}

// TypeName returns the Go type name behind id, or "?" if id was never issued.
func TypeName(id TypeID) string {
	typeRegistry.mu.RLock()
	defer typeRegistry.mu.RUnlock()
	if int(id) >= len(typeRegistry.byID) {
		return "?"
	}
	return typeRegistry.byID[id].String()
}

// poolFactory returns the constructor recorded for id, or nil if id was
// never issued.
func poolFactory(id TypeID) func(*Registry) Storage {
	typeRegistry.mu.RLock()
	defer typeRegistry.mu.RUnlock()
	if int(id) >= len(typeRegistry.assure) {
		return nil
	}
	return typeRegistry.assure[id]
}

func (id TypeID) String() string { return TypeName(id) }
