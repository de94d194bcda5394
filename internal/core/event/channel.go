package event

// Handle identifies a binding on a Channel. The zero Handle is never issued.
type Handle uint64

type binding[E any] struct {
	h  Handle
	fn func([]E)
}

// Channel broadcasts batches of values to bound handlers, synchronously and
// in bind order. Handlers must not retain the batch slice after returning.
//
// Bind and Unbind replace the handler slice instead of editing it, so a
// handler may bind or unbind during a broadcast; the change applies from the
// next broadcast.
type Channel[E any] struct {
	bindings []binding[E]
	next     Handle
}

func NewChannel[E any]() *Channel[E] {
	return &Channel[E]{}
}

// Bind registers fn and returns a handle for Unbind.
func (c *Channel[E]) Bind(fn func(batch []E)) Handle {
	c.next++
	bs := make([]binding[E], len(c.bindings), len(c.bindings)+1)
	copy(bs, c.bindings)
	c.bindings = append(bs, binding[E]{h: c.next, fn: fn})
	return c.next
}

// Unbind removes the handler bound under h and reports whether it existed.
func (c *Channel[E]) Unbind(h Handle) bool {
	for i, b := range c.bindings {
		if b.h != h {
			continue
		}
		bs := make([]binding[E], 0, len(c.bindings)-1)
		bs = append(bs, c.bindings[:i]...)
		c.bindings = append(bs, c.bindings[i+1:]...)
		return true
	}
	return false
}

// Broadcast delivers batch to every handler. Empty batches are dropped.
func (c *Channel[E]) Broadcast(batch []E) {
	if len(batch) == 0 {
		return
	}
	for _, b := range c.bindings {
		b.fn(batch)
	}
}

// Len returns the number of bound handlers.
func (c *Channel[E]) Len() int { return len(c.bindings) }

// Clear unbinds every handler.
func (c *Channel[E]) Clear() { c.bindings = nil }
