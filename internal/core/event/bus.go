package event

import (
	"reflect"
	"sync"
)

// queue is the type-erased face of a typedQueue.
type queue interface {
	swap()
	dispatch()
}

// typedQueue holds one event type's buffers and handlers.
type typedQueue[T any] struct {
	front    []T
	back     []T
	handlers []func(T)
}

func (q *typedQueue[T]) swap() {
	q.front, q.back = q.back, q.front[:0]
}

func (q *typedQueue[T]) dispatch() {
	for _, ev := range q.front {
		for _, h := range q.handlers {
			h(ev)
		}
	}
}

// Bus is a double-buffered event bus. Events emitted in tick N are readable
// in tick N+1. SwapBuffers() is called at tick start by the dispatch system.
type Bus struct {
	mu     sync.Mutex // only protects handler registration
	queues map[reflect.Type]queue
	order  []queue // dispatch order, first use first
}

func NewBus() *Bus {
	return &Bus{
		queues: make(map[reflect.Type]queue),
	}
}

func queueOf[T any](b *Bus) *typedQueue[T] {
	t := reflect.TypeFor[T]()
	if q, ok := b.queues[t]; ok {
		return q.(*typedQueue[T])
	}
	q := &typedQueue[T]{}
	b.queues[t] = q
	b.order = append(b.order, q)
	return q
}

// Emit queues an event into the back buffer (will be readable next tick).
func Emit[T any](b *Bus, event T) {
	q := queueOf[T](b)
	q.back = append(q.back, event)
}

// Subscribe registers a typed handler for events of type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	q := queueOf[T](b)
	q.handlers = append(q.handlers, fn)
}

// Pending returns the number of T events waiting in the back buffer.
func Pending[T any](b *Bus) int {
	if q, ok := b.queues[reflect.TypeFor[T]()]; ok {
		return len(q.(*typedQueue[T]).back)
	}
	return 0
}

// SwapBuffers rotates back→front and clears the new back buffer.
// Called once at tick start.
func (b *Bus) SwapBuffers() {
	for _, q := range b.order {
		q.swap()
	}
}

// DispatchAll delivers all front-buffer events to their subscribed handlers.
func (b *Bus) DispatchAll() {
	for _, q := range b.order {
		q.dispatch()
	}
}
