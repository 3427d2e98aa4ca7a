package pantry

import (
	"Pantry-Planner/domain"
	"Pantry-Planner/internal/utils"
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Publisher receives the events raised by pantry mutations.
type Publisher interface {
	Publish(ctx context.Context, event domain.Event)
}

type StoreOption func(*Store)

// WithClock overrides the time source used for expiry math and event stamps.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// WithLocation sets the zone in which "today" is evaluated.
func WithLocation(loc *time.Location) StoreOption {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// Store is the in-memory pantry, keyed by canonical ingredient name. It is
// the authority for duplicate/not-found checks and for stock and expiry
// alerts. Safe for concurrent use; events are published after the lock is
// released.
type Store struct {
	mu      sync.RWMutex
	records map[string]*domain.IngredientRecord
	cfg     domain.AlertConfig
	bus     Publisher
	now     func() time.Time
	loc     *time.Location
}

func NewStore(cfg domain.AlertConfig, bus Publisher, opts ...StoreOption) *Store {
	s := &Store{
		records: make(map[string]*domain.IngredientRecord),
		cfg:     cfg,
		bus:     bus,
		now:     time.Now,
		loc:     time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore replaces the pantry contents without evaluating alerts. Later
// records win on a canonical key collision.
func (s *Store) Restore(records []domain.IngredientRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]*domain.IngredientRecord, len(records))
	for _, rec := range records {
		key := utils.NormalizeName(rec.Name)
		if key == "" {
			continue
		}
		cp := rec.Clone()
		s.records[key] = &cp
	}
}

func (s *Store) Add(ctx context.Context, rec domain.IngredientRecord) (domain.IngredientRecord, error) {
	key := utils.NormalizeName(rec.Name)
	if key == "" {
		return domain.IngredientRecord{}, domain.ErrEmptyIngredientName
	}
	if rec.Quantity < 0 {
		return domain.IngredientRecord{}, domain.ErrInvalidQuantity
	}

	s.mu.Lock()
	if _, exists := s.records[key]; exists {
		s.mu.Unlock()
		return domain.IngredientRecord{}, domain.ErrDuplicateIngredient
	}
	stored := rec.Clone()
	stored.Name = strings.TrimSpace(stored.Name)
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	stored.Clamped = false
	s.records[key] = &stored
	out := stored.Clone()
	events := s.evaluate(stored, s.now())
	s.mu.Unlock()

	s.publish(ctx, events)
	return out, nil
}

// UpdateQuantity adds delta to the record's quantity. A result below zero is
// clamped to zero and the record is flagged as Clamped.
func (s *Store) UpdateQuantity(ctx context.Context, name string, delta float64) (domain.IngredientRecord, error) {
	key := utils.NormalizeName(name)

	s.mu.Lock()
	rec, ok := s.records[key]
	if !ok {
		s.mu.Unlock()
		return domain.IngredientRecord{}, domain.ErrIngredientNotFound
	}
	rec.Quantity += delta
	rec.Clamped = rec.Quantity < 0
	if rec.Clamped {
		rec.Quantity = 0
	}
	out := rec.Clone()
	events := s.evaluate(*rec, s.now())
	s.mu.Unlock()

	s.publish(ctx, events)
	return out, nil
}

// Restock adds purchased stock: it tops up a record with the same canonical
// key and unit, or creates one when the key is absent. A non-nil expiry is
// kept only if it is earlier than the stored one.
func (s *Store) Restock(ctx context.Context, rec domain.IngredientRecord) (domain.IngredientRecord, bool, error) {
	key := utils.NormalizeName(rec.Name)
	if key == "" {
		return domain.IngredientRecord{}, false, domain.ErrEmptyIngredientName
	}
	if rec.Quantity < 0 {
		return domain.IngredientRecord{}, false, domain.ErrInvalidQuantity
	}

	s.mu.Lock()
	created := false
	stored, ok := s.records[key]
	switch {
	case !ok:
		cp := rec.Clone()
		cp.Name = strings.TrimSpace(cp.Name)
		if cp.ID == "" {
			cp.ID = uuid.NewString()
		}
		stored = &cp
		s.records[key] = stored
		created = true
	case stored.Unit != rec.Unit:
		s.mu.Unlock()
		return domain.IngredientRecord{}, false, domain.ErrUnitMismatch
	default:
		stored.Quantity += rec.Quantity
		stored.Clamped = false
		if rec.ExpiryDate != nil && (stored.ExpiryDate == nil || rec.ExpiryDate.Before(*stored.ExpiryDate)) {
			d := *rec.ExpiryDate
			stored.ExpiryDate = &d
		}
	}
	out := stored.Clone()
	events := s.evaluate(*stored, s.now())
	s.mu.Unlock()

	s.publish(ctx, events)
	return out, created, nil
}

// Remove deletes the record. No alerts are raised.
func (s *Store) Remove(_ context.Context, name string) (domain.IngredientRecord, error) {
	key := utils.NormalizeName(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok {
		return domain.IngredientRecord{}, domain.ErrIngredientNotFound
	}
	delete(s.records, key)
	return rec.Clone(), nil
}

// reset puts back a record as it was before a failed write, or drops it when
// it did not exist. No alerts are raised.
func (s *Store) reset(name string, prev domain.IngredientRecord, existed bool) {
	key := utils.NormalizeName(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !existed {
		delete(s.records, key)
		return
	}
	cp := prev.Clone()
	s.records[key] = &cp
}

func (s *Store) Get(name string) (domain.IngredientRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[utils.NormalizeName(name)]
	if !ok {
		return domain.IngredientRecord{}, false
	}
	return rec.Clone(), true
}

// Snapshot returns a copy of every record, ordered by canonical key.
func (s *Store) Snapshot() []domain.IngredientRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.records))
	for key := range s.records {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]domain.IngredientRecord, 0, len(keys))
	for _, key := range keys {
		out = append(out, s.records[key].Clone())
	}
	return out
}

// ScanAndNotify re-evaluates every record and publishes a fresh batch: an
// ExpiringSnapshot for each dated item at or inside the expiry window
// (expired items included), followed by the record's regular alerts. Calls
// are not de-duplicated against each other. The published events are
// returned in publish order.
func (s *Store) ScanAndNotify(ctx context.Context) []domain.Event {
	now := s.now()
	records := s.Snapshot()

	var events []domain.Event
	for _, rec := range records {
		if days, ok := s.daysUntil(rec, now); ok && days <= s.cfg.ExpiryWindowDays {
			events = append(events, domain.Event{
				Kind:     domain.EventExpiringSnapshot,
				Name:     rec.Name,
				At:       now,
				DaysLeft: days,
			})
		}
		events = append(events, s.evaluate(rec, now)...)
	}

	s.publish(ctx, events)
	return events
}

// Evaluate reports the alerts that currently apply to rec without publishing.
func (s *Store) Evaluate(rec domain.IngredientRecord) []domain.Event {
	return s.evaluate(rec, s.now())
}

func (s *Store) evaluate(rec domain.IngredientRecord, now time.Time) []domain.Event {
	var events []domain.Event

	if threshold, ok := s.cfg.Threshold(rec.Unit); ok && rec.Quantity <= threshold {
		events = append(events, domain.Event{
			Kind:      domain.EventLowStock,
			Name:      rec.Name,
			At:        now,
			Unit:      rec.Unit,
			Quantity:  rec.Quantity,
			Threshold: threshold,
		})
	}

	if days, ok := s.daysUntil(rec, now); ok {
		switch {
		case days < 0:
			events = append(events, domain.Event{Kind: domain.EventExpired, Name: rec.Name, At: now, DaysLeft: days})
		case days <= s.cfg.ExpiryWindowDays:
			events = append(events, domain.Event{Kind: domain.EventNearExpiry, Name: rec.Name, At: now, DaysLeft: days})
		}
	}
	return events
}

// daysUntil counts calendar days from today (in the store's zone) to the
// record's expiry date.
func (s *Store) daysUntil(rec domain.IngredientRecord, now time.Time) (int, bool) {
	if rec.ExpiryDate == nil {
		return 0, false
	}
	ty, tm, td := now.In(s.loc).Date()
	today := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	ey, em, ed := rec.ExpiryDate.Date()
	expiry := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)
	return int(expiry.Sub(today).Hours() / 24), true
}

func (s *Store) publish(ctx context.Context, events []domain.Event) {
	if s.bus == nil {
		return
	}
	for _, ev := range events {
		s.bus.Publish(ctx, ev)
	}
}
