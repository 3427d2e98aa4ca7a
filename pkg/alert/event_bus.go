// Package alert contains the in-process event bus, the bounded alert buffer
// polled by clients, and the optional subscribers that sit on the bus.
package alert

import (
	"Pantry-Planner/domain"
	"Pantry-Planner/internal/metrics"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gofiber/fiber/v2/log"
)

var ErrHandlerFailure = errors.New("event handler failed")

// Handler reacts to one published event. Handlers run on the publisher's
// goroutine and must not publish back into the pantry store.
type Handler func(ctx context.Context, event domain.Event) error

// HandlerFailure describes a handler that returned an error or panicked.
type HandlerFailure struct {
	Kind       domain.EventKind
	Subscriber int
	Err        error
}

func (f *HandlerFailure) Error() string {
	return fmt.Sprintf("handler %d for %s: %v", f.Subscriber, f.Kind, f.Err)
}

func (f *HandlerFailure) Unwrap() error { return f.Err }

func (f *HandlerFailure) Is(target error) bool { return target == ErrHandlerFailure }

type subscription struct {
	kind    domain.EventKind
	handler Handler
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithFailureHandler receives every isolated handler failure.
func WithFailureHandler(fn func(*HandlerFailure)) BusOption {
	return func(b *Bus) {
		b.onFailure = fn
	}
}

func WithBusMetrics(m *metrics.Metrics) BusOption {
	return func(b *Bus) {
		b.metrics = m
	}
}

// Bus is a synchronous publish/subscribe dispatcher. Safe for concurrent use.
type Bus struct {
	mu        sync.RWMutex
	subs      []subscription
	onFailure func(*HandlerFailure)
	metrics   *metrics.Metrics
}

func NewBus(opts ...BusOption) *Bus {
	b := &Bus{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers handler for kind, or for every kind with domain.EventAny.
func (b *Bus) Subscribe(kind domain.EventKind, handler Handler) {
	if handler == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, subscription{kind: kind, handler: handler})
}

// Publish runs every matching handler in subscription order before
// returning. A failing handler never stops the others and is not reported to
// the caller.
func (b *Bus) Publish(ctx context.Context, event domain.Event) {
	b.mu.RLock()
	subs := b.subs[:len(b.subs):len(b.subs)]
	b.mu.RUnlock()

	b.metrics.EventPublished(string(event.Kind))

	for i, sub := range subs {
		if sub.kind != domain.EventAny && sub.kind != event.Kind {
			continue
		}
		if err := invoke(ctx, sub.handler, event); err != nil {
			b.fail(&HandlerFailure{Kind: event.Kind, Subscriber: i, Err: err})
		}
	}
}

func invoke(ctx context.Context, handler Handler, event domain.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return handler(ctx, event)
}

func (b *Bus) fail(failure *HandlerFailure) {
	b.metrics.HandlerFailed(string(failure.Kind))
	log.Errorw("event handler failed", "kind", failure.Kind, "subscriber", failure.Subscriber, "error", failure.Err)
	if b.onFailure != nil {
		b.onFailure(failure)
	}
}
