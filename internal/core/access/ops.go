package access

import (
	"iter"

	"github.com/l1jgo/ecscore/internal/core/ecs"
)

// Has reports whether id holds a T.
func Has[T any](a *Access, id ecs.EntityID) bool {
	return resolve[T](a, Read).Has(id)
}

// Get returns a copy of id's T. id must hold one.
func Get[T any](a *Access, id ecs.EntityID) T {
	return *resolve[T](a, Read).Get(id)
}

// TryGet returns a copy of id's T and whether it was present.
func TryGet[T any](a *Access, id ecs.EntityID) (T, bool) {
	if v, ok := resolve[T](a, Read).TryGet(id); ok {
		return *v, true
	}
	var zero T
	return zero, false
}

// GetMut returns a pointer to id's T. Requires write access.
func GetMut[T any](a *Access, id ecs.EntityID) *T {
	return resolve[T](a, Write).Get(id)
}

// Add attaches v to id. Requires write access.
func Add[T any](a *Access, id ecs.EntityID, v T) *T {
	return resolve[T](a, Write).Add(id, v)
}

// Set attaches or overwrites id's T. Requires write access.
func Set[T any](a *Access, id ecs.EntityID, v T) *T {
	return resolve[T](a, Write).Set(id, v)
}

// Remove detaches id's T. Requires write access.
func Remove[T any](a *Access, id ecs.EntityID) bool {
	return resolve[T](a, Write).Remove(id)
}

// Len returns the number of T components.
func Len[T any](a *Access) int {
	return resolve[T](a, Read).Len()
}

// Iter yields every entity holding a T with a copy of its value.
func Iter[T any](a *Access) iter.Seq2[ecs.EntityID, T] {
	p := resolve[T](a, Read)
	return func(yield func(ecs.EntityID, T) bool) {
		for id, v := range p.All() {
			if !yield(id, *v) {
				return
			}
		}
	}
}

// IterMut yields every entity holding a T with a pointer to its value.
// Requires write access.
func IterMut[T any](a *Access) iter.Seq2[ecs.EntityID, *T] {
	return resolve[T](a, Write).All()
}

// Join yields the entities holding both an A and a B. The smaller pool
// drives the iteration.
func Join[A, B any](a *Access) iter.Seq[ecs.EntityID] {
	pa, pb := resolve[A](a, Read), resolve[B](a, Read)
	return ecs.Join(pa, pb)
}

// Static returns a copy of the registry's T static. It must exist.
func Static[T any](a *Access) T {
	resolveStatic[T](a, Read)
	return *ecs.GetStatic[T](a.reg)
}

// TryStatic returns a copy of the registry's T static and whether it exists.
func TryStatic[T any](a *Access) (T, bool) {
	resolveStatic[T](a, Read)
	if v := ecs.TryGetStatic[T](a.reg); v != nil {
		return *v, true
	}
	var zero T
	return zero, false
}

// StaticMut returns a pointer to the registry's T static. It must exist.
// Requires write access.
func StaticMut[T any](a *Access) *T {
	resolveStatic[T](a, Write)
	return ecs.GetStatic[T](a.reg)
}

// SetStatic stores v as the registry's T static. Requires write access.
func SetStatic[T any](a *Access, v T) *T {
	resolveStatic[T](a, Write)
	return ecs.SetStatic(a.reg, v)
}
