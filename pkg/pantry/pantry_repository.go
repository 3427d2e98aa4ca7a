package pantry

import (
	"Pantry-Planner/entities"
	"context"
	"errors"

	"gorm.io/gorm"
)

type (
	PantryRepository interface {
		GetAll(ctx context.Context) ([]*entities.Ingredient, error)
		GetByKey(ctx context.Context, key string) (*entities.Ingredient, error)
		Save(ctx context.Context, ingredient *entities.Ingredient) error
		DeleteByKey(ctx context.Context, key string) error
		CreatePurchase(ctx context.Context, purchase *entities.Purchase) error
		GetPurchases(ctx context.Context, page, limit int) ([]*entities.Purchase, int64, error)
	}

	pantryRepository struct {
		db *gorm.DB
	}
)

func NewPantryRepository(db *gorm.DB) PantryRepository {
	return &pantryRepository{db: db}
}

func (r *pantryRepository) GetAll(ctx context.Context) ([]*entities.Ingredient, error) {
	var ingredients []*entities.Ingredient
	if err := r.db.WithContext(ctx).Order("canonical_key asc").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (r *pantryRepository) GetByKey(ctx context.Context, key string) (*entities.Ingredient, error) {
	var ingredient entities.Ingredient
	if err := r.db.WithContext(ctx).Where("canonical_key = ?", key).First(&ingredient).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

// Save inserts or updates the row identified by the ingredient's key.
func (r *pantryRepository) Save(ctx context.Context, ingredient *entities.Ingredient) error {
	existing, err := r.GetByKey(ctx, ingredient.Key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return r.db.WithContext(ctx).Create(ingredient).Error
		}
		return err
	}
	ingredient.ID = existing.ID
	ingredient.CreatedAt = existing.CreatedAt
	return r.db.WithContext(ctx).Save(ingredient).Error
}

func (r *pantryRepository) DeleteByKey(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("canonical_key = ?", key).Delete(&entities.Ingredient{}).Error
}

func (r *pantryRepository) CreatePurchase(ctx context.Context, purchase *entities.Purchase) error {
	return r.db.WithContext(ctx).Create(purchase).Error
}

func (r *pantryRepository) GetPurchases(ctx context.Context, page, limit int) ([]*entities.Purchase, int64, error) {
	var purchases []*entities.Purchase
	var count int64

	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).Model(&entities.Purchase{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Preload("Items").
		Order("purchased_at desc").
		Offset(offset).
		Limit(limit).
		Find(&purchases).Error; err != nil {
		return nil, 0, err
	}

	return purchases, count, nil
}
