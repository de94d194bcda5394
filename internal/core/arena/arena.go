// Package arena provides the raw memory provider behind component pages.
//
// # Overview
//
// Pools never allocate page memory themselves. Every page is requested from
// an Arena, which hands out aligned blocks and takes them back when a pool
// shrinks or is released:
//
//   - Alloc(size, align): return a block, or nil when the arena is exhausted
//   - Realloc(ptr, oldSize, newSize): resize a block in place
//   - Free(ptr, size): return a block
//
// # Implementations
//
// Heap: process-wide default, backed by the Go heap. Blocks stay reachable
// until freed, and Stats reports live bytes for tests and diagnostics.
//
// Budget: wraps another arena with a byte ceiling. Allocations past the
// ceiling fail, which lets callers exercise allocation failure.
//
// # Garbage collector
//
// Arena blocks are untyped bytes, so the collector does not scan them. Only
// pointer-free values may live in arena memory; the paged buffer keeps
// pointer-bearing component types on the typed Go heap.
//
// # Thread Safety
//
// Heap is safe for concurrent use because Default is shared by every
// registry in the process. Budget is not; give each registry its own.
package arena

import (
	"errors"
	"unsafe"
)

// ErrOutOfMemory indicates the arena could not satisfy an allocation.
var ErrOutOfMemory = errors.New("arena: allocation failed")

// Arena hands out raw, aligned memory blocks.
type Arena interface {
	// Alloc returns a zeroed block of size bytes aligned to align, or nil
	// when the request cannot be served. align must be a power of two.
	Alloc(size, align uintptr) unsafe.Pointer
	// Realloc resizes the block at ptr in place and reports success. The
	// block is never moved.
	Realloc(ptr unsafe.Pointer, oldSize, newSize uintptr) bool
	// Free returns a block obtained from Alloc.
	Free(ptr unsafe.Pointer, size uintptr)
}

// Stats is a point-in-time snapshot of arena usage.
type Stats struct {
	Allocs    int
	Frees     int
	LiveBytes uintptr
}

var defaultHeap = NewHeap()

// Default returns the process-wide general purpose arena.
func Default() Arena {
	return defaultHeap
}

func alignUp(n, align uintptr) uintptr {
	return (n + align - 1) &^ (align - 1)
}

func isPow2(n uintptr) bool {
	return n != 0 && n&(n-1) == 0
}
