package access

import (
	"cmp"
	"slices"

	"github.com/l1jgo/ecscore/internal/core/ecs"
)

// Mode is the access level a term grants.
type Mode uint8

const (
	Read Mode = iota
	Write
)

func (m Mode) String() string {
	if m == Write {
		return "write"
	}
	return "read"
}

// Kind separates component pools from registry statics. A component and a
// static of the same Go type are different resources.
type Kind uint8

const (
	KindComponent Kind = iota
	KindStatic
)

func (k Kind) String() string {
	if k == KindStatic {
		return "static"
	}
	return "component"
}

// Term grants one mode on one resource. Type must come from ecs.TypeIDOf;
// the Reads and Writes constructors fill every field.
type Term struct {
	Type ecs.TypeID
	Mode Mode
	Kind Kind
	Name string
}

func (t Term) String() string {
	return t.Mode.String() + " " + t.Kind.String() + " " + t.Name
}

func (t Term) key() resource { return resource{t.Kind, t.Type} }

type resource struct {
	kind Kind
	id   ecs.TypeID
}

func componentTerm[T any](m Mode) Term {
	id := ecs.TypeIDOf[T]()
	return Term{Type: id, Mode: m, Kind: KindComponent, Name: id.String()}
}

func staticTerm[T any](m Mode) Term {
	id := ecs.TypeIDOf[T]()
	return Term{Type: id, Mode: m, Kind: KindStatic, Name: id.String()}
}

// Reads grants read access to T components.
func Reads[T any]() Term { return componentTerm[T](Read) }

// Writes grants read and write access to T components.
func Writes[T any]() Term { return componentTerm[T](Write) }

// ReadsStatic grants read access to the registry's T static.
func ReadsStatic[T any]() Term { return staticTerm[T](Read) }

// WritesStatic grants read and write access to the registry's T static.
func WritesStatic[T any]() Term { return staticTerm[T](Write) }

// normalize merges duplicate resources to the stronger mode and sorts the
// result by kind, then type id.
func normalize(terms []Term) []Term {
	out := make([]Term, 0, len(terms))
	for _, t := range terms {
		i := slices.IndexFunc(out, func(o Term) bool { return o.key() == t.key() })
		if i < 0 {
			out = append(out, t)
			continue
		}
		if t.Mode > out[i].Mode {
			out[i].Mode = t.Mode
		}
	}
	slices.SortFunc(out, func(a, b Term) int {
		return cmp.Or(cmp.Compare(a.Kind, b.Kind), cmp.Compare(a.Type, b.Type))
	})
	return out
}

// Conflicts reports whether two term lists cannot run side by side: some
// resource is written by one list and accessed at all by the other.
func Conflicts(a, b []Term) bool {
	for _, x := range a {
		for _, y := range b {
			if x.key() != y.key() {
				continue
			}
			if x.Mode == Write || y.Mode == Write {
				return true
			}
		}
	}
	return false
}
