package identity

import (
	"sync"

	"github.com/google/uuid"
)

// Publisher fans a value out to a set of subscriber callbacks. Every
// subscription is keyed by its own handle so it can be removed on its own.
type Publisher[T any] struct {
	mutex       sync.RWMutex
	subscribers map[uuid.UUID]func(T)
}

func NewPublisher[T any]() *Publisher[T] {
	return &Publisher[T]{
		subscribers: make(map[uuid.UUID]func(T)),
	}
}

// Subscribe registers fn & returns the func removing it. The returned func
// may be called any number of times.
func (p *Publisher[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	handle := uuid.New()

	p.mutex.Lock()
	p.subscribers[handle] = fn
	p.mutex.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mutex.Lock()
			defer p.mutex.Unlock()
			delete(p.subscribers, handle)
		})
	}
}

// Publish delivers v to every current subscriber. Callbacks run on the
// caller's goroutine, outside the publisher lock.
func (p *Publisher[T]) Publish(v T) {
	p.mutex.RLock()
	fns := make([]func(T), 0, len(p.subscribers))
	for _, fn := range p.subscribers {
		fns = append(fns, fn)
	}
	p.mutex.RUnlock()

	for _, fn := range fns {
		fn(v)
	}
}

// Len returns the number of active subscriptions
func (p *Publisher[T]) Len() int {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return len(p.subscribers)
}

// Close drops every subscriber
func (p *Publisher[T]) Close() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.subscribers = make(map[uuid.UUID]func(T))
}
