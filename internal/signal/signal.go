// Package signal provides the small set of push primitives the stage is
// wired with: ordered subjects, a latest-value cell that replays to new
// subscribers, a one-shot notification, and a group that scopes
// subscriptions to an owner's lifetime.
//
// Emission is synchronous. Subscribers run in registration order and a
// subscriber list is snapshotted before each emission, so subscribing or
// unsubscribing from inside a callback affects the next emission only.
package signal

import "sync"

// Subscription cancels a registered callback. Unsubscribe is idempotent.
type Subscription interface {
	Unsubscribe()
}

// Func adapts a plain function to a Subscription.
type Func func()

// Unsubscribe calls f.
func (f Func) Unsubscribe() {
	if f != nil {
		f()
	}
}

// Subject broadcasts values to every current subscriber.
// Subscribers attached after an emission never see it.
type Subject[T any] struct {
	mu     sync.Mutex
	nextID uint64
	subs   []subscriber[T]
	closed bool
}

type subscriber[T any] struct {
	id uint64
	fn func(T)
}

// Subscribe registers fn and returns the handle that removes it.
// Subscribing to a closed subject is a no-op.
func (s *Subject[T]) Subscribe(fn func(T)) Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Func(nil)
	}
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber[T]{id: id, fn: fn})

	var once sync.Once
	return Func(func() {
		once.Do(func() { s.remove(id) })
	})
}

func (s *Subject[T]) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
			return
		}
	}
}

// Emit delivers v to every subscriber registered at the time of the call.
func (s *Subject[T]) Emit(v T) {
	s.mu.Lock()
	subs := s.subs
	s.mu.Unlock()
	for _, sub := range subs {
		sub.fn(v)
	}
}

// Len reports the number of live subscribers.
func (s *Subject[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Close drops every subscriber and rejects new ones.
func (s *Subject[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.subs = nil
}

// Latest holds a current value. New subscribers immediately receive it,
// then every subsequent Set.
type Latest[T any] struct {
	mu      sync.Mutex
	value   T
	subject Subject[T]
}

// NewLatest creates a cell holding initial.
func NewLatest[T any](initial T) *Latest[T] {
	return &Latest[T]{value: initial}
}

// Value returns the current value.
func (l *Latest[T]) Value() T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.value
}

// Set stores v and broadcasts it.
func (l *Latest[T]) Set(v T) {
	l.mu.Lock()
	l.value = v
	l.mu.Unlock()
	l.subject.Emit(v)
}

// Subscribe replays the current value to fn, then follows updates.
func (l *Latest[T]) Subscribe(fn func(T)) Subscription {
	sub := l.subject.Subscribe(fn)
	fn(l.Value())
	return sub
}

// Once is a notification that fires at most one time. Subscribers that
// attach after it fired are called immediately with the fired value.
type Once[T any] struct {
	mu      sync.Mutex
	fired   bool
	value   T
	subject Subject[T]
}

// Fire delivers v to subscribers and completes the notification.
// It reports false if the notification had already fired.
func (o *Once[T]) Fire(v T) bool {
	o.mu.Lock()
	if o.fired {
		o.mu.Unlock()
		return false
	}
	o.fired = true
	o.value = v
	o.mu.Unlock()

	o.subject.Emit(v)
	o.subject.Close()
	return true
}

// Fired reports whether Fire has been called.
func (o *Once[T]) Fired() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.fired
}

// Subscribe registers fn for the single notification.
func (o *Once[T]) Subscribe(fn func(T)) Subscription {
	o.mu.Lock()
	if o.fired {
		v := o.value
		o.mu.Unlock()
		fn(v)
		return Func(nil)
	}
	o.mu.Unlock()
	return o.subject.Subscribe(fn)
}

// Group collects subscriptions owned by one scope and cancels them together.
type Group struct {
	mu    sync.Mutex
	subs  []Subscription
	ended bool
}

// Add ties subs to the group. Adding to an ended group cancels them at once.
func (g *Group) Add(subs ...Subscription) {
	g.mu.Lock()
	if g.ended {
		g.mu.Unlock()
		for _, s := range subs {
			s.Unsubscribe()
		}
		return
	}
	g.subs = append(g.subs, subs...)
	g.mu.Unlock()
}

// Unsubscribe cancels every subscription in the group and ends it.
func (g *Group) Unsubscribe() {
	g.mu.Lock()
	subs := g.subs
	g.subs = nil
	g.ended = true
	g.mu.Unlock()
	for _, s := range subs {
		s.Unsubscribe()
	}
}

// Ended reports whether the group has been cancelled.
func (g *Group) Ended() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ended
}
