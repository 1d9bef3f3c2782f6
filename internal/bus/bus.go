// Package bus provides an explicit in-process publish/subscribe channel.
// Components that need to emit events receive a Publisher instead of
// reaching for ambient global state.
package bus

import (
	"errors"
	"sync"
)

// Event is a published message. Room groups related events (e.g.
// "connectivity", "sync"); Name is the concrete event name.
type Event struct {
	Room    string
	Name    string
	Payload any
}

// Publisher is the write side of the bus.
type Publisher interface {
	Publish(room, name string, payload any) error
}

var ErrClosed = errors.New("bus closed")

// Bus is a buffered fan-out broker. Subscribers that fall behind lose
// events rather than blocking publishers.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]chan Event
	nextID int
	closed bool
}

func New() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Publish delivers the event to every subscriber. Non-blocking: a full
// subscriber channel drops the event for that subscriber only.
func (b *Bus) Publish(room, name string, payload any) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrClosed
	}

	ev := Event{Room: room, Name: name, Payload: payload}
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	return nil
}

// Subscribe registers a new subscriber with the given channel buffer and
// returns the event channel plus a cancel function. Cancel closes the
// channel.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Event, buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if c, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

// Close shuts the bus down and closes all subscriber channels.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
