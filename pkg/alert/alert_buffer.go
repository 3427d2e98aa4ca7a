package alert

import (
	"Pantry-Planner/domain"
	"Pantry-Planner/internal/metrics"
	"context"
	"sync"
)

// Scanner re-evaluates the whole pantry and publishes the resulting events.
type Scanner interface {
	ScanAndNotify(ctx context.Context) []domain.Event
}

type BufferOption func(*Buffer)

// WithScanner lets the first poll of a never-populated buffer trigger a scan.
func WithScanner(s Scanner) BufferOption {
	return func(b *Buffer) {
		b.scanner = s
	}
}

func WithBufferMetrics(m *metrics.Metrics) BufferOption {
	return func(b *Buffer) {
		b.metrics = m
	}
}

// Buffer is a bounded ring of low-stock and near-expiry alerts. Every entry
// gets the next id at enqueue time; ids are never reused, so cursors stay
// meaningful after the oldest entries are evicted.
type Buffer struct {
	mu        sync.RWMutex
	ring      []domain.BufferedAlert
	head      int // index of the oldest entry
	size      int
	lastID    int64
	populated bool

	scanner Scanner
	metrics *metrics.Metrics
}

func NewBuffer(cfg domain.AlertConfig, opts ...BufferOption) *Buffer {
	capacity := cfg.BufferCapacity
	if capacity <= 0 {
		capacity = domain.DefaultBufferCapacity
	}
	b := &Buffer{ring: make([]domain.BufferedAlert, capacity)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe attaches the buffer to the kinds it retains. Expiring snapshots
// and expired notices are not buffered.
func (b *Buffer) Subscribe(bus *Bus) {
	bus.Subscribe(domain.EventLowStock, b.Handle)
	bus.Subscribe(domain.EventNearExpiry, b.Handle)
}

// Handle appends event under the next id. Id assignment and insertion happen
// under one lock, so id order equals append order.
func (b *Buffer) Handle(_ context.Context, event domain.Event) error {
	b.mu.Lock()
	b.lastID++
	entry := domain.BufferedAlert{ID: b.lastID, Event: event}
	capacity := len(b.ring)
	if b.size < capacity {
		b.ring[(b.head+b.size)%capacity] = entry
		b.size++
	} else {
		b.ring[b.head] = entry
		b.head = (b.head + 1) % capacity
	}
	b.populated = true
	size, last := b.size, b.lastID
	b.mu.Unlock()

	b.metrics.AlertBuffered(size, last)
	return nil
}

// Poll returns the retained alerts with id > since in ascending order. The
// cursor is the highest buffered id when something new is returned, since
// when nothing is new, and 0 for an empty buffer. Entries evicted before the
// caller caught up are skipped silently.
func (b *Buffer) Poll(ctx context.Context, since int64) ([]domain.BufferedAlert, int64) {
	if b.scanner != nil && !b.isPopulated() {
		b.scanner.ScanAndNotify(ctx)
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.size == 0 {
		return []domain.BufferedAlert{}, 0
	}

	capacity := len(b.ring)
	out := []domain.BufferedAlert{}
	for i := 0; i < b.size; i++ {
		entry := b.ring[(b.head+i)%capacity]
		if entry.ID > since {
			out = append(out, entry)
		}
	}
	if len(out) == 0 {
		return out, since
	}
	return out, out[len(out)-1].ID
}

// Len reports the number of retained alerts.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size
}

func (b *Buffer) isPopulated() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.populated
}
