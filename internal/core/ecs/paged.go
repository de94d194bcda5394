package ecs

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/l1jgo/ecscore/internal/core/arena"
	"github.com/l1jgo/ecscore/internal/core/check"
)

// DefaultPageSize is the number of component slots per page.
const DefaultPageSize = 1024

// PagedBuffer is a growable array split into fixed-size pages. Pages are
// allocated on demand and never move, so a pointer into a page stays valid
// until that page is freed by Shrink or Release.
//
// Pointer-free element types live in arena memory. Element types holding
// pointers are allocated on the Go heap so the collector can scan them.
type PagedBuffer[T any] struct {
	pages    [][]T
	arena    arena.Arena
	pageSize int
	elemSize uintptr
	align    uintptr
	raw      bool // pages come from the arena
}

// NewPagedBuffer returns an empty buffer. A nil arena selects arena.Default
// and pageSize <= 0 selects DefaultPageSize.
func NewPagedBuffer[T any](a arena.Arena, pageSize int) *PagedBuffer[T] {
	if a == nil {
		a = arena.Default()
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	t := reflect.TypeFor[T]()
	return &PagedBuffer[T]{
		arena:    a,
		pageSize: pageSize,
		elemSize: t.Size(),
		align:    uintptr(t.Align()),
		raw:      t.Size() > 0 && !hasPointers(t),
	}
}

// PageSize returns the number of slots per page.
func (b *PagedBuffer[T]) PageSize() int { return b.pageSize }

// PageCount returns the number of page slots, allocated or not.
func (b *PagedBuffer[T]) PageCount() int { return len(b.pages) }

// Capacity is PageCount() * PageSize().
func (b *PagedBuffer[T]) Capacity() int { return len(b.pages) * b.pageSize }

// AllocatedPages counts pages that are backed by memory.
func (b *PagedBuffer[T]) AllocatedPages() int {
	n := 0
	for _, p := range b.pages {
		if p != nil {
			n++
		}
	}
	return n
}

// Reserve allocates whole pages until Capacity() >= n. Existing pages are
// never freed or moved.
func (b *PagedBuffer[T]) Reserve(n int) error {
	need := (n + b.pageSize - 1) / b.pageSize
	for len(b.pages) < need {
		b.pages = append(b.pages, nil)
	}
	for i := 0; i < need; i++ {
		if b.pages[i] != nil {
			continue
		}
		p, err := b.allocPage()
		if err != nil {
			return err
		}
		b.pages[i] = p
	}
	return nil
}

// Shrink frees trailing pages that hold no index below n. Nothing happens
// unless n <= Capacity()-PageSize().
func (b *PagedBuffer[T]) Shrink(n int) {
	keep := (n + b.pageSize - 1) / b.pageSize
	if keep >= len(b.pages) {
		return
	}
	for i := keep; i < len(b.pages); i++ {
		if b.pages[i] != nil {
			b.freePage(b.pages[i])
			b.pages[i] = nil
		}
	}
	b.pages = b.pages[:keep]
}

// FindPage returns the page holding index, or nil if it was never allocated.
func (b *PagedBuffer[T]) FindPage(index int) []T {
	pi := index / b.pageSize
	if pi >= len(b.pages) {
		return nil
	}
	return b.pages[pi]
}

// AssurePage returns the page holding index, allocating it if needed.
func (b *PagedBuffer[T]) AssurePage(index int) ([]T, error) {
	pi := index / b.pageSize
	for len(b.pages) <= pi {
		b.pages = append(b.pages, nil)
	}
	if b.pages[pi] == nil {
		p, err := b.allocPage()
		if err != nil {
			return nil, err
		}
		b.pages[pi] = p
	}
	return b.pages[pi], nil
}

// Insert stores v at index and returns a pointer to the slot.
func (b *PagedBuffer[T]) Insert(index int, v T) (*T, error) {
	p, err := b.AssurePage(index)
	if err != nil {
		return nil, err
	}
	slot := &p[index%b.pageSize]
	*slot = v
	return slot, nil
}

// At returns a pointer to the slot at index. The page must be allocated.
func (b *PagedBuffer[T]) At(index int) *T {
	p := b.FindPage(index)
	check.That(p != nil, "paged buffer: index %d is on an unallocated page", index)
	return &p[index%b.pageSize]
}

// RemoveAt resets the slot at index to the zero value. The page stays.
func (b *PagedBuffer[T]) RemoveAt(index int) {
	p := b.FindPage(index)
	if p == nil {
		return
	}
	var zero T
	p[index%b.pageSize] = zero
}

// Release frees every page.
func (b *PagedBuffer[T]) Release() {
	for i, p := range b.pages {
		if p != nil {
			b.freePage(p)
			b.pages[i] = nil
		}
	}
	b.pages = nil
}

// Clone copies the first n slots into a new buffer backed by a, passing each
// value through dup. Page layout, including unallocated gaps, is preserved.
func (b *PagedBuffer[T]) Clone(a arena.Arena, n int, dup func(T) T) (*PagedBuffer[T], error) {
	c := NewPagedBuffer[T](a, b.pageSize)
	c.pages = make([][]T, len(b.pages))
	for pi, src := range b.pages {
		if src == nil {
			continue
		}
		dst, err := c.allocPage()
		if err != nil {
			c.Release()
			return nil, err
		}
		base := pi * b.pageSize
		for off := range src {
			if base+off >= n {
				break
			}
			if dup != nil {
				dst[off] = dup(src[off])
			} else {
				dst[off] = src[off]
			}
		}
		c.pages[pi] = dst
	}
	return c, nil
}

func (b *PagedBuffer[T]) allocPage() ([]T, error) {
	if !b.raw {
		return make([]T, b.pageSize), nil
	}
	size := b.elemSize * uintptr(b.pageSize)
	ptr := b.arena.Alloc(size, b.align)
	if ptr == nil {
		return nil, fmt.Errorf("page of %d bytes: %w", size, arena.ErrOutOfMemory)
	}
	return unsafe.Slice((*T)(ptr), b.pageSize), nil
}

func (b *PagedBuffer[T]) freePage(p []T) {
	if !b.raw {
		clear(p)
		return
	}
	b.arena.Free(unsafe.Pointer(unsafe.SliceData(p)), b.elemSize*uintptr(b.pageSize))
}

// hasPointers reports whether values of t contain anything the collector
// must trace.
func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return true
	}
}
