// Package access scopes what a piece of code may do to a registry.
//
// An Access is built from a list of terms, each granting read or write on
// one component pool or one static. Pools are resolved once, when the Access
// is built, and reused for its lifetime. Typed accessors check every call
// against the term list:
//
//	acc := access.New(reg, access.Writes[Position](), access.Reads[Velocity]())
//	for id, v := range access.Iter[Velocity](acc) {
//		access.GetMut[Position](acc, id).X += v.DX
//	}
//
// Two term lists may run concurrently when Conflicts reports false for them.
// Nothing here schedules or locks; the registry stays single-threaded.
package access

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/l1jgo/ecscore/internal/core/check"
	"github.com/l1jgo/ecscore/internal/core/ecs"
)

var (
	// ErrNotCovered is reported for a resource outside the descriptor.
	ErrNotCovered = errors.New("access: resource not covered")
	// ErrReadOnly is reported for write access to a read-only resource.
	ErrReadOnly = errors.New("access: resource is read-only")
)

// Access is a capability view over one registry. It does not own the pools
// it caches and is invalid once the registry is moved.
type Access struct {
	reg   *ecs.Registry
	terms []Term
	pools map[ecs.TypeID]ecs.Storage
}

// New builds a descriptor over reg, creating any component pool that does
// not exist yet.
func New(reg *ecs.Registry, terms ...Term) *Access {
	check.That(!reg.Moved(), "access: registry was moved")
	a := &Access{
		reg:   reg,
		terms: normalize(terms),
		pools: make(map[ecs.TypeID]ecs.Storage, len(terms)),
	}
	for _, t := range a.terms {
		if t.Kind == KindComponent {
			a.pools[t.Type] = ecs.AssureStorage(reg, t.Type)
		}
	}
	reg.Logger().Debug("access resolved",
		zap.Stringers("terms", a.terms),
		zap.Int("pools", len(a.pools)))
	return a
}

// Registry returns the registry the descriptor is bound to.
func (a *Access) Registry() *ecs.Registry { return a.reg }

// Terms returns the normalized term list.
func (a *Access) Terms() []Term { return slices.Clone(a.terms) }

func (a *Access) find(kind Kind, id ecs.TypeID) (Term, bool) {
	i, ok := slices.BinarySearchFunc(a.terms, resource{kind, id}, func(t Term, r resource) int {
		return cmp.Or(cmp.Compare(t.Kind, r.kind), cmp.Compare(t.Type, r.id))
	})
	if !ok {
		return Term{}, false
	}
	return a.terms[i], true
}

// Covers reports every requested term this descriptor cannot grant.
func (a *Access) Covers(terms ...Term) error {
	var errs []error
	for _, t := range terms {
		have, ok := a.find(t.Kind, t.Type)
		switch {
		case !ok:
			errs = append(errs, fmt.Errorf("%w: %s", ErrNotCovered, t))
		case t.Mode == Write && have.Mode == Read:
			errs = append(errs, fmt.Errorf("%w: %s", ErrReadOnly, t))
		}
	}
	return errors.Join(errs...)
}

// Narrow projects the descriptor onto a subset of its terms. Requesting a
// resource outside the descriptor, or write access to a read-only one, is a
// contract violation.
func (a *Access) Narrow(terms ...Term) *Access {
	a.assertLive()
	err := a.Covers(terms...)
	if err != nil {
		a.reg.Logger().Error("access narrowing rejected", zap.Error(err))
	}
	check.That(err == nil, "%v", err)
	n := &Access{
		reg:   a.reg,
		terms: normalize(terms),
		pools: make(map[ecs.TypeID]ecs.Storage, len(terms)),
	}
	for _, t := range n.terms {
		if t.Kind == KindComponent {
			n.pools[t.Type] = a.pools[t.Type]
		}
	}
	return n
}

// Compatible reports whether a and other may run concurrently. Descriptors
// over different registries never conflict.
func (a *Access) Compatible(other *Access) bool {
	if a.reg != other.reg {
		return true
	}
	return !Conflicts(a.terms, other.terms)
}

func (a *Access) assertLive() {
	check.That(!a.reg.Moved(), "access: registry was moved")
}

// resolve returns T's cached pool after checking the descriptor grants mode.
func resolve[T any](a *Access, mode Mode) *ecs.Pool[T] {
	a.assertLive()
	id := ecs.TypeIDOf[T]()
	t, ok := a.find(KindComponent, id)
	check.That(ok, "access: %s not covered", id)
	check.That(mode == Read || t.Mode == Write, "access: %s is read-only", id)
	return a.pools[id].(*ecs.Pool[T])
}

func resolveStatic[T any](a *Access, mode Mode) {
	a.assertLive()
	id := ecs.TypeIDOf[T]()
	t, ok := a.find(KindStatic, id)
	check.That(ok, "access: static %s not covered", id)
	check.That(mode == Read || t.Mode == Write, "access: static %s is read-only", id)
}
