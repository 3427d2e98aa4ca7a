package alert

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

// Scheduler runs a pantry scan on a fixed interval in the background.
type Scheduler struct {
	scanner  Scanner
	interval time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewScheduler(scanner Scanner, interval time.Duration) *Scheduler {
	return &Scheduler{scanner: scanner, interval: interval}
}

// Start begins the scan loop. Non-blocking; a zero interval disables it.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running || s.interval <= 0 {
		return
	}
	childCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	go s.loop(childCtx, s.done)
	log.Infow("pantry scan scheduler started", "interval", s.interval.String())
}

// Stop cancels the loop and waits for an in-flight scan to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.cancel()
	s.running = false
	done := s.done
	s.mu.Unlock()

	<-done
	log.Info("pantry scan scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			events := s.scanner.ScanAndNotify(ctx)
			log.Debugw("scheduled pantry scan", "events", len(events))
		}
	}
}
