package plan

import (
	"Pantry-Planner/domain"
	"Pantry-Planner/entities"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) PlanService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "plans.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.PlanSlot{}))
	return NewPlanService(NewPlanRepository(db))
}

func TestSetSlotAndGetWeek(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	plan, err := svc.SetSlot(ctx, 2026, 11, "Monday", "LUNCH", " Chicken Curry ")
	require.NoError(t, err)
	assert.Equal(t, "Chicken Curry", plan.Days[domain.Monday][domain.Lunch])

	plan, err = svc.SetSlot(ctx, 2026, 11, "monday", "lunch", "Omelette")
	require.NoError(t, err)
	assert.Equal(t, "Omelette", plan.Days[domain.Monday][domain.Lunch])
	assert.Len(t, plan.Days, 1)

	other, err := svc.GetWeek(ctx, 2026, 12)
	require.NoError(t, err)
	assert.Empty(t, other.Days)
}

func TestSetSlotValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.SetSlot(ctx, 2026, 11, "funday", "lunch", "Soup")
	assert.ErrorIs(t, err, domain.ErrInvalidDay)

	_, err = svc.SetSlot(ctx, 2026, 11, "monday", "brunch", "Soup")
	assert.ErrorIs(t, err, domain.ErrInvalidSlot)

	_, err = svc.SetSlot(ctx, 2026, 54, "monday", "lunch", "Soup")
	assert.ErrorIs(t, err, domain.ErrInvalidWeek)

	// 2026 has 53 ISO weeks, 2027 does not
	_, err = svc.SetSlot(ctx, 2026, 53, "monday", "lunch", "Soup")
	assert.NoError(t, err)
	_, err = svc.SetSlot(ctx, 2027, 53, "monday", "lunch", "Soup")
	assert.ErrorIs(t, err, domain.ErrInvalidWeek)
}

func TestClearSlot(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.SetSlot(ctx, 2026, 11, "friday", "dinner", "Pizza")
	require.NoError(t, err)

	require.NoError(t, svc.ClearSlot(ctx, 2026, 11, "friday", "dinner"))
	assert.ErrorIs(t, svc.ClearSlot(ctx, 2026, 11, "friday", "dinner"), domain.ErrSlotNotFound)

	plan, err := svc.GetWeek(ctx, 2026, 11)
	require.NoError(t, err)
	assert.Empty(t, plan.Days)
}

func TestGetWeekResponseDerivesDates(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.SetSlot(ctx, 2026, 11, "wednesday", "breakfast", "Omelette")
	require.NoError(t, err)

	res, err := svc.GetWeekResponse(ctx, 2026, 11)
	require.NoError(t, err)
	require.Len(t, res.Days, 7)
	assert.Equal(t, domain.Monday, res.Days[0].Day)
	assert.Equal(t, "2026-03-09", res.Days[0].Date)
	assert.Equal(t, "2026-03-15", res.Days[6].Date)
	assert.Equal(t, "Omelette", res.Days[2].Slots[domain.Breakfast])
}
