package arena

import (
	"sync"
	"unsafe"
)

// Heap is an Arena backed by Go byte slices.
type Heap struct {
	mu    sync.Mutex
	live  map[unsafe.Pointer]heapBlock
	stats Stats
}

// heapBlock keeps the backing slice reachable until Free.
type heapBlock struct {
	buf  []byte
	size uintptr
	room uintptr // usable bytes from the aligned start
}

func NewHeap() *Heap {
	return &Heap{
		live: make(map[unsafe.Pointer]heapBlock, 64),
	}
}

func (h *Heap) Alloc(size, align uintptr) unsafe.Pointer {
	if size == 0 {
		return nil
	}
	if align == 0 {
		align = 1
	}
	if !isPow2(align) {
		return nil
	}
	buf := make([]byte, size+align-1)
	base := uintptr(unsafe.Pointer(&buf[0]))
	off := alignUp(base, align) - base
	ptr := unsafe.Pointer(&buf[off])

	h.mu.Lock()
	h.live[ptr] = heapBlock{buf: buf, size: size, room: uintptr(len(buf)) - off}
	h.stats.Allocs++
	h.stats.LiveBytes += size
	h.mu.Unlock()
	return ptr
}

func (h *Heap) Realloc(ptr unsafe.Pointer, oldSize, newSize uintptr) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	b, ok := h.live[ptr]
	if !ok || b.size != oldSize || newSize > b.room || newSize == 0 {
		return false
	}
	if newSize > oldSize {
		tail := unsafe.Slice((*byte)(unsafe.Add(ptr, oldSize)), newSize-oldSize)
		clear(tail)
	}
	h.stats.LiveBytes = h.stats.LiveBytes - oldSize + newSize
	b.size = newSize
	h.live[ptr] = b
	return true
}

func (h *Heap) Free(ptr unsafe.Pointer, _ uintptr) {
	if ptr == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	b, ok := h.live[ptr]
	if !ok {
		return
	}
	delete(h.live, ptr)
	h.stats.Frees++
	h.stats.LiveBytes -= b.size
}

// Stats returns current usage counters.
func (h *Heap) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stats
}
