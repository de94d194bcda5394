package arena

import (
	"sync"
	"unsafe"
)

// Budget caps the bytes a parent arena may hand out through it. Only blocks
// it issued are credited back on Free.
type Budget struct {
	parent Arena
	limit  uintptr

	mu   sync.Mutex
	used uintptr
	live map[unsafe.Pointer]uintptr
}

// NewBudget wraps parent with a ceiling of limit bytes. A nil parent uses
// Default().
func NewBudget(parent Arena, limit uintptr) *Budget {
	if parent == nil {
		parent = Default()
	}
	return &Budget{
		parent: parent,
		limit:  limit,
		live:   make(map[unsafe.Pointer]uintptr, 16),
	}
}

func (b *Budget) Alloc(size, align uintptr) unsafe.Pointer {
	b.mu.Lock()
	defer b.mu.Unlock()
	if size > b.limit-b.used {
		return nil
	}
	ptr := b.parent.Alloc(size, align)
	if ptr != nil {
		b.live[ptr] = size
		b.used += size
	}
	return ptr
}

func (b *Budget) Realloc(ptr unsafe.Pointer, oldSize, newSize uintptr) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	size, ok := b.live[ptr]
	if !ok || size != oldSize {
		return false
	}
	if newSize > oldSize && newSize-oldSize > b.limit-b.used {
		return false
	}
	if !b.parent.Realloc(ptr, oldSize, newSize) {
		return false
	}
	b.live[ptr] = newSize
	b.used = b.used - oldSize + newSize
	return true
}

// Free returns a block to the parent. Pointers the budget did not issue, or
// already freed, are ignored.
func (b *Budget) Free(ptr unsafe.Pointer, _ uintptr) {
	b.mu.Lock()
	defer b.mu.Unlock()
	size, ok := b.live[ptr]
	if !ok {
		return
	}
	delete(b.live, ptr)
	b.parent.Free(ptr, size)
	b.used -= size
}

// Used returns the bytes currently charged against the budget.
func (b *Budget) Used() uintptr {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.used
}

// Remaining returns the bytes still available.
func (b *Budget) Remaining() uintptr {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.limit - b.used
}
