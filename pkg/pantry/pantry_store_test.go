package pantry

import (
	"Pantry-Planner/domain"
	"Pantry-Planner/pkg/alert"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type recorder struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *recorder) Publish(_ context.Context, event domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) kinds() []domain.EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.EventKind, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Kind)
	}
	return out
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

func testConfig() domain.AlertConfig {
	return domain.AlertConfig{
		LowStockThresholds: map[string]float64{"g": 50, "pcs": 1},
		ExpiryWindowDays:   3,
		BufferCapacity:     10,
	}
}

func newTestStore(bus Publisher) *Store {
	return NewStore(testConfig(), bus,
		WithClock(func() time.Time { return testNow }),
		WithLocation(time.UTC),
	)
}

func inDays(n int) *time.Time {
	d := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
	return &d
}

func TestStoreAddRejectsDuplicateCanonicalKey(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(&recorder{})

	added, err := store.Add(ctx, domain.IngredientRecord{Name: "Tomatoes", Unit: "pcs", Quantity: 4})
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)
	assert.Equal(t, "Tomatoes", added.Name)

	_, err = store.Add(ctx, domain.IngredientRecord{Name: " tomato ", Unit: "pcs", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrDuplicateIngredient)
	assert.Len(t, store.Snapshot(), 1)
}

func TestStoreAddValidation(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(nil)

	_, err := store.Add(ctx, domain.IngredientRecord{Name: "  ", Unit: "g"})
	assert.ErrorIs(t, err, domain.ErrEmptyIngredientName)

	_, err = store.Add(ctx, domain.IngredientRecord{Name: "flour", Unit: "g", Quantity: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestStoreNotFound(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(&recorder{})

	_, err := store.UpdateQuantity(ctx, "saffron", 1)
	assert.ErrorIs(t, err, domain.ErrIngredientNotFound)

	_, err = store.Remove(ctx, "saffron")
	assert.ErrorIs(t, err, domain.ErrIngredientNotFound)
}

func TestStoreUpdateQuantityClampsAtZero(t *testing.T) {
	ctx := context.Background()
	bus := &recorder{}
	store := newTestStore(bus)

	_, err := store.Add(ctx, domain.IngredientRecord{Name: "flour", Unit: "g", Quantity: 100})
	require.NoError(t, err)
	assert.Empty(t, bus.kinds())

	rec, err := store.UpdateQuantity(ctx, "Flour", -150)
	require.NoError(t, err)
	assert.Equal(t, 0.0, rec.Quantity)
	assert.True(t, rec.Clamped)
	assert.Equal(t, []domain.EventKind{domain.EventLowStock}, bus.kinds())

	rec, err = store.UpdateQuantity(ctx, "flour", 200)
	require.NoError(t, err)
	assert.Equal(t, 200.0, rec.Quantity)
	assert.False(t, rec.Clamped)
}

func TestStoreLowStockBoundary(t *testing.T) {
	tests := []struct {
		name     string
		unit     string
		quantity float64
		alert    bool
	}{
		{"equal to threshold", "g", 50, true},
		{"below threshold", "g", 10, true},
		{"above threshold", "g", 51, false},
		{"unit without threshold", "kg", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := &recorder{}
			store := newTestStore(bus)

			_, err := store.Add(context.Background(), domain.IngredientRecord{Name: "sugar", Unit: tt.unit, Quantity: tt.quantity})
			require.NoError(t, err)

			if !tt.alert {
				assert.Empty(t, bus.kinds())
				return
			}
			require.Len(t, bus.events, 1)
			ev := bus.events[0]
			assert.Equal(t, domain.EventLowStock, ev.Kind)
			assert.Equal(t, "sugar", ev.Name)
			assert.Equal(t, tt.quantity, ev.Quantity)
			assert.Equal(t, 50.0, ev.Threshold)
			assert.Equal(t, testNow, ev.At)
		})
	}
}

func TestStoreExpiryAlerts(t *testing.T) {
	tests := []struct {
		name string
		days int
		want []domain.EventKind
	}{
		{"inside window", 2, []domain.EventKind{domain.EventNearExpiry}},
		{"window edge", 3, []domain.EventKind{domain.EventNearExpiry}},
		{"today", 0, []domain.EventKind{domain.EventNearExpiry}},
		{"outside window", 4, []domain.EventKind{}},
		{"already expired", -1, []domain.EventKind{domain.EventExpired}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := &recorder{}
			store := newTestStore(bus)

			_, err := store.Add(context.Background(), domain.IngredientRecord{
				Name: "milk", Unit: "l", Quantity: 1, ExpiryDate: inDays(tt.days),
			})
			require.NoError(t, err)

			assert.Equal(t, tt.want, bus.kinds())
			if len(tt.want) > 0 {
				assert.Equal(t, tt.days, bus.events[0].DaysLeft)
			}
		})
	}
}

func TestStoreRemoveRaisesNothing(t *testing.T) {
	ctx := context.Background()
	bus := &recorder{}
	store := newTestStore(bus)

	_, err := store.Add(ctx, domain.IngredientRecord{Name: "eggs", Unit: "pcs", Quantity: 1})
	require.NoError(t, err)
	bus.reset()

	removed, err := store.Remove(ctx, "egg")
	require.NoError(t, err)
	assert.Equal(t, "eggs", removed.Name)
	assert.Empty(t, bus.kinds())
	_, ok := store.Get("eggs")
	assert.False(t, ok)
}

func TestStoreRestock(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(&recorder{})

	_, err := store.Add(ctx, domain.IngredientRecord{Name: "rice", Unit: "g", Quantity: 500, ExpiryDate: inDays(30)})
	require.NoError(t, err)

	rec, created, err := store.Restock(ctx, domain.IngredientRecord{Name: "Rice", Unit: "g", Quantity: 250, ExpiryDate: inDays(10)})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 750.0, rec.Quantity)
	assert.Equal(t, *inDays(10), *rec.ExpiryDate)

	rec, _, err = store.Restock(ctx, domain.IngredientRecord{Name: "rice", Unit: "g", Quantity: 1, ExpiryDate: inDays(60)})
	require.NoError(t, err)
	assert.Equal(t, *inDays(10), *rec.ExpiryDate, "earlier expiry is kept")

	_, _, err = store.Restock(ctx, domain.IngredientRecord{Name: "rice", Unit: "kg", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrUnitMismatch)

	rec, created, err = store.Restock(ctx, domain.IngredientRecord{Name: "basil", Unit: "pcs", Quantity: 3})
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, rec.ID)
}

func TestStoreScanAndNotify(t *testing.T) {
	ctx := context.Background()
	bus := &recorder{}
	store := newTestStore(bus)

	store.Restore([]domain.IngredientRecord{
		{ID: "1", Name: "milk", Unit: "l", Quantity: 1, ExpiryDate: inDays(1)},
		{ID: "2", Name: "cream", Unit: "ml", Quantity: 200, ExpiryDate: inDays(-2)},
		{ID: "3", Name: "flour", Unit: "g", Quantity: 10},
		{ID: "4", Name: "rice", Unit: "g", Quantity: 900, ExpiryDate: inDays(40)},
	})
	assert.Empty(t, bus.kinds(), "restore raises nothing")

	events := store.ScanAndNotify(ctx)

	// snapshot order is by canonical key: cream, flour, milk, rice
	want := []domain.EventKind{
		domain.EventExpiringSnapshot, domain.EventExpired,
		domain.EventLowStock,
		domain.EventExpiringSnapshot, domain.EventNearExpiry,
	}
	got := make([]domain.EventKind, 0, len(events))
	for _, ev := range events {
		got = append(got, ev.Kind)
	}
	assert.Equal(t, want, got)
	assert.Equal(t, want, bus.kinds())

	bus.reset()
	store.ScanAndNotify(ctx)
	assert.Equal(t, want, bus.kinds(), "scans are not de-duplicated")
}

func TestStoreHandlersMayReadStore(t *testing.T) {
	ctx := context.Background()
	bus := alert.NewBus()
	store := newTestStore(bus)

	var seen int
	bus.Subscribe(domain.EventLowStock, func(context.Context, domain.Event) error {
		seen = len(store.Snapshot())
		return nil
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = store.Add(ctx, domain.IngredientRecord{Name: "flour", Unit: "g", Quantity: 1})
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publishing under the store lock deadlocked")
	}
	assert.Equal(t, 1, seen)
}

func TestStorePipelineIntoBuffer(t *testing.T) {
	ctx := context.Background()
	bus := alert.NewBus()
	store := newTestStore(bus)
	buffer := alert.NewBuffer(testConfig(), alert.WithScanner(store))
	buffer.Subscribe(bus)

	store.Restore([]domain.IngredientRecord{
		{ID: "1", Name: "flour", Unit: "g", Quantity: 10},
	})

	entries, cursor := buffer.Poll(ctx, 0)
	require.Len(t, entries, 1, "first poll scans the pantry")
	assert.Equal(t, domain.EventLowStock, entries[0].Event.Kind)

	_, err := store.UpdateQuantity(ctx, "flour", -5)
	require.NoError(t, err)

	entries, cursor = buffer.Poll(ctx, cursor)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(2), cursor)
	assert.Equal(t, 5.0, entries[0].Event.Quantity)
}
