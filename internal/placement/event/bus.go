package event

import (
	"context"
	"errors"
	"sync"

	"github.com/Lakshm1-R/placement-app/internal/placement/entity"
)

// ErrBusClosed is returned by Publish after Close.
var ErrBusClosed = errors.New("event bus is closed")

// Bus is an in-process queue of placement events between the use case and
// the Dispatcher.
type Bus struct {
	mu     sync.RWMutex
	closed bool
	queue  chan entity.Event
}

// NewBus returns a Bus holding up to capacity undelivered events.
func NewBus(capacity int) *Bus {
	return &Bus{queue: make(chan entity.Event, max(capacity, 1))}
}

// Publish enqueues event, waiting for room until ctx is done. The read lock
// is held across the send so Close cannot close the channel under it.
func (b *Bus) Publish(ctx context.Context, event entity.Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBusClosed
	}

	select {
	case b.queue <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe returns the receive side of the queue. It is closed by Close
// once every queued event has been handed out.
func (b *Bus) Subscribe() <-chan entity.Event {
	return b.queue
}

// Pending reports how many events are queued and not yet picked up.
func (b *Bus) Pending() int {
	return len(b.queue)
}

// Close stops accepting events. It is safe to call more than once.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.closed {
		b.closed = true
		close(b.queue)
	}
}
