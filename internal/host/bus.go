package host

import (
	"errors"
	"sync"

	"github.com/mithrel/cellmark/pkg/api"
)

// ErrBusClosed is returned when subscribing to a closed bus.
var ErrBusClosed = errors.New("selection bus closed")

// Bus fans selection events out to subscribers. Publish delivers to every
// handler in subscription order and returns when all have run, so events
// reach a handler strictly one after another.
type Bus struct {
	mu       sync.Mutex
	deliver  sync.Mutex
	next     int
	handlers map[int]SelectionHandler
	order    []int
	closed   bool
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[int]SelectionHandler)}
}

func (b *Bus) Subscribe(h SelectionHandler) (Unsubscribe, error) {
	if h == nil {
		return nil, errors.New("nil selection handler")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrBusClosed
	}
	id := b.next
	b.next++
	b.handlers[id] = h
	b.order = append(b.order, id)
	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}, nil
}

func (b *Bus) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.handlers, id)
	for i, v := range b.order {
		if v == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// Publish delivers ev to all current subscribers.
func (b *Bus) Publish(ev *api.SelectionEvent) {
	b.deliver.Lock()
	defer b.deliver.Unlock()
	b.mu.Lock()
	hs := make([]SelectionHandler, 0, len(b.order))
	for _, id := range b.order {
		hs = append(hs, b.handlers[id])
	}
	b.mu.Unlock()
	for _, h := range hs {
		h(ev)
	}
}

// Len returns the number of subscribers.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.order)
}

// Close drops all subscribers and rejects new ones.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.handlers = map[int]SelectionHandler{}
	b.order = nil
}
