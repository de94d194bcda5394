package ecs

import "github.com/l1jgo/ecscore/internal/core/check"

// static is a boxed registry singleton.
type static interface {
	cloneStatic() static
}

type staticBox[T any] struct {
	v T
}

func (b *staticBox[T]) cloneStatic() static {
	if dup := cloneFunc[T](); dup != nil {
		return &staticBox[T]{v: dup(b.v)}
	}
	return &staticBox[T]{v: b.v}
}

func staticOf[T any](r *Registry) *staticBox[T] {
	r.assertLive()
	if s, ok := r.statics[TypeIDOf[T]()]; ok {
		return s.(*staticBox[T])
	}
	return nil
}

// SetStatic stores v as the registry's single T, overwriting any previous
// value in place, and returns a pointer to it.
func SetStatic[T any](r *Registry, v T) *T {
	if b := staticOf[T](r); b != nil {
		b.v = v
		return &b.v
	}
	b := &staticBox[T]{v: v}
	r.statics[TypeIDOf[T]()] = b
	return &b.v
}

// GetStatic returns the registry's T. It must exist.
func GetStatic[T any](r *Registry) *T {
	b := staticOf[T](r)
	check.That(b != nil, "static %s not set", TypeIDOf[T]())
	return &b.v
}

// TryGetStatic returns the registry's T, or nil.
func TryGetStatic[T any](r *Registry) *T {
	if b := staticOf[T](r); b != nil {
		return &b.v
	}
	return nil
}

func HasStatic[T any](r *Registry) bool {
	return staticOf[T](r) != nil
}

// GetOrSetStatic returns the existing T, or stores and returns def.
func GetOrSetStatic[T any](r *Registry, def T) *T {
	if b := staticOf[T](r); b != nil {
		return &b.v
	}
	return SetStatic(r, def)
}

// RemoveStatic erases the registry's T and reports whether it existed.
func RemoveStatic[T any](r *Registry) bool {
	r.assertLive()
	id := TypeIDOf[T]()
	if _, ok := r.statics[id]; !ok {
		return false
	}
	delete(r.statics, id)
	return true
}
