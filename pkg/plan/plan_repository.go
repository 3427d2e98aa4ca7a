package plan

import (
	"Pantry-Planner/entities"
	"context"
	"errors"

	"gorm.io/gorm"
)

type (
	PlanRepository interface {
		GetWeek(ctx context.Context, year, week int) ([]*entities.PlanSlot, error)
		UpsertSlot(ctx context.Context, slot *entities.PlanSlot) error
		DeleteSlot(ctx context.Context, year, week int, day, slot string) (bool, error)
	}

	planRepository struct {
		db *gorm.DB
	}
)

func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepository{db: db}
}

func (r *planRepository) GetWeek(ctx context.Context, year, week int) ([]*entities.PlanSlot, error) {
	var slots []*entities.PlanSlot
	if err := r.db.WithContext(ctx).
		Where("year = ? AND week = ?", year, week).
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *planRepository) UpsertSlot(ctx context.Context, slot *entities.PlanSlot) error {
	var existing entities.PlanSlot
	err := r.db.WithContext(ctx).
		Where("year = ? AND week = ? AND day = ? AND slot = ?", slot.Year, slot.Week, slot.Day, slot.Slot).
		First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return r.db.WithContext(ctx).Create(slot).Error
		}
		return err
	}

	slot.ID = existing.ID
	return r.db.WithContext(ctx).Model(&existing).Update("recipe_name", slot.RecipeName).Error
}

func (r *planRepository) DeleteSlot(ctx context.Context, year, week int, day, slot string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("year = ? AND week = ? AND day = ? AND slot = ?", year, week, day, slot).
		Delete(&entities.PlanSlot{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
