package alert

import (
	"Pantry-Planner/domain"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2/log"
)

var ErrMailQueueFull = errors.New("alert mail queue is full")

// SendFunc delivers one plain-text mail.
type SendFunc func(to, subject, body string) error

// Mailer turns pantry alerts into mail digests. Handle only enqueues; Run
// does the sending, so Publish never waits on SMTP.
type Mailer struct {
	to    string
	send  SendFunc
	queue chan domain.Event
}

func NewMailer(to string, send SendFunc, queueSize int) *Mailer {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Mailer{
		to:    to,
		send:  send,
		queue: make(chan domain.Event, queueSize),
	}
}

func (m *Mailer) Subscribe(bus *Bus) {
	bus.Subscribe(domain.EventLowStock, m.Handle)
	bus.Subscribe(domain.EventNearExpiry, m.Handle)
	bus.Subscribe(domain.EventExpired, m.Handle)
}

func (m *Mailer) Handle(_ context.Context, event domain.Event) error {
	select {
	case m.queue <- event:
		return nil
	default:
		return ErrMailQueueFull
	}
}

// Run sends queued alerts until ctx is done. Alerts that are already queued
// when a send starts go out in the same mail.
func (m *Mailer) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case first := <-m.queue:
			batch := m.drain(first)
			subject := fmt.Sprintf("Pantry: %d alert(s)", len(batch))
			if err := m.send(m.to, subject, Digest(batch)); err != nil {
				log.Errorw("sending alert mail", "to", m.to, "alerts", len(batch), "error", err)
			}
		}
	}
}

func (m *Mailer) drain(first domain.Event) []domain.Event {
	batch := []domain.Event{first}
	for {
		select {
		case ev := <-m.queue:
			batch = append(batch, ev)
		default:
			return batch
		}
	}
}

// Digest renders one line per alert.
func Digest(events []domain.Event) string {
	var b strings.Builder
	for _, ev := range events {
		switch ev.Kind {
		case domain.EventLowStock:
			fmt.Fprintf(&b, "- %s is low: %g %s left (threshold %g)\n", ev.Name, ev.Quantity, ev.Unit, ev.Threshold)
		case domain.EventNearExpiry:
			fmt.Fprintf(&b, "- %s expires in %d day(s)\n", ev.Name, ev.DaysLeft)
		case domain.EventExpired:
			fmt.Fprintf(&b, "- %s expired %d day(s) ago\n", ev.Name, -ev.DaysLeft)
		default:
			fmt.Fprintf(&b, "- %s: %s\n", ev.Name, ev.Kind)
		}
	}
	return b.String()
}
