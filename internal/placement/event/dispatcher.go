package event

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Lakshm1-R/placement-app/internal/pkg/pkglog"
	"github.com/Lakshm1-R/placement-app/internal/placement/entity"
)

// Sink receives every event taken off the bus.
type Sink interface {
	Deliver(ctx context.Context, event entity.Event) error
}

// Observer is told the outcome of every event the dispatcher handles.
type Observer interface {
	RecordDelivery(event, outcome string)
}

// Delivery outcomes reported to the Observer.
const (
	OutcomeDelivered = "delivered"
	OutcomeFailed    = "failed"
	OutcomeDuplicate = "duplicate"
)

const (
	defaultWorkers     = 4
	defaultBaseBackoff = 100 * time.Millisecond
	maxBackoff         = 30 * time.Second
	dedupeWindow       = 4096
)

type DispatcherConfig struct {
	Workers     int
	MaxRetries  int
	BaseBackoff time.Duration
	Observer    Observer
}

// Dispatcher drains a Bus with a pool of workers. A failed delivery is
// retried up to MaxRetries times with doubling delays. Events are
// deduplicated by ID over the most recent dedupeWindow IDs.
type Dispatcher struct {
	bus      *Bus
	sink     Sink
	workers  int
	retry    backoff
	observer Observer
	seen     *recentIDs
	wg       sync.WaitGroup
}

func NewDispatcher(bus *Bus, sink Sink, cfg DispatcherConfig) *Dispatcher {
	workers := cfg.Workers
	if workers < 1 {
		workers = defaultWorkers
	}
	base := cfg.BaseBackoff
	if base <= 0 {
		base = defaultBaseBackoff
	}

	return &Dispatcher{
		bus:      bus,
		sink:     sink,
		workers:  workers,
		retry:    backoff{attempts: max(cfg.MaxRetries, 0) + 1, base: base},
		observer: cfg.Observer,
		seen:     newRecentIDs(dedupeWindow),
	}
}

// Start launches the workers. Call it once.
func (d *Dispatcher) Start() {
	d.wg.Add(d.workers)
	for range d.workers {
		go func() {
			defer d.wg.Done()
			for event := range d.bus.Subscribe() {
				d.dispatch(event)
			}
		}()
	}
}

// Stop closes the bus and waits until queued events are delivered or ctx
// ends, whichever comes first.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.bus.Close()

	drained := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) dispatch(event entity.Event) {
	if d.sink == nil {
		return
	}

	ctx := context.Background()
	if event.CorrelationID != "" {
		ctx = pkglog.SetCorrelationID(ctx, event.CorrelationID)
	}

	if event.ID != "" && !d.seen.add(event.ID) {
		slog.InfoContext(ctx, "skip duplicate event", "event_id", event.ID, "event", string(event.Name), "batch", event.Batch)
		d.observe(event, OutcomeDuplicate)
		return
	}

	var err error
	for attempt := range d.retry.attempts {
		if attempt > 0 {
			time.Sleep(d.retry.delay(attempt))
		}
		if err = d.sink.Deliver(ctx, event); err == nil {
			d.observe(event, OutcomeDelivered)
			return
		}
		slog.DebugContext(ctx, "event delivery attempt failed", "event_id", event.ID, "attempt", attempt+1, "error", err)
	}

	slog.ErrorContext(ctx, "failed to deliver event after retries",
		"event_id", event.ID,
		"event", string(event.Name),
		"batch", event.Batch,
		"attempts", d.retry.attempts,
		"error", err,
	)
	d.observe(event, OutcomeFailed)
}

func (d *Dispatcher) observe(event entity.Event, outcome string) {
	if d.observer != nil {
		d.observer.RecordDelivery(string(event.Name), outcome)
	}
}

type backoff struct {
	attempts int
	base     time.Duration
}

// delay is the wait before the given retry: base, 2*base, 4*base... capped
// at maxBackoff.
func (b backoff) delay(retry int) time.Duration {
	d := b.base
	for i := 1; i < retry && d < maxBackoff; i++ {
		d *= 2
	}
	return min(d, maxBackoff)
}

// recentIDs remembers the last size IDs added, forgetting the oldest first.
type recentIDs struct {
	mu   sync.Mutex
	set  map[string]struct{}
	ring []string
	next int
}

func newRecentIDs(size int) *recentIDs {
	return &recentIDs{
		set:  make(map[string]struct{}, size),
		ring: make([]string, size),
	}
}

// add records id and reports whether it was not already present.
func (r *recentIDs) add(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.set[id]; ok {
		return false
	}
	if old := r.ring[r.next]; old != "" {
		delete(r.set, old)
	}
	r.ring[r.next] = id
	r.set[id] = struct{}{}
	r.next = (r.next + 1) % len(r.ring)
	return true
}
