package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PlanSlot is one filled meal slot. The calendar date is derived from
// (Year, Week, Day) and never stored.
type PlanSlot struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Year       int       `gorm:"uniqueIndex:idx_plan_slot" json:"year"`
	Week       int       `gorm:"uniqueIndex:idx_plan_slot" json:"week"`
	Day        string    `gorm:"uniqueIndex:idx_plan_slot" json:"day"`
	Slot       string    `gorm:"uniqueIndex:idx_plan_slot" json:"slot"`
	RecipeName string    `json:"recipe_name"`

	CreatedAt int64 `gorm:"autoCreateTime" json:"-"`
	UpdatedAt int64 `gorm:"autoUpdateTime" json:"-"`
}

func (p *PlanSlot) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
