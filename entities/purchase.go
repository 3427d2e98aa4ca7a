package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Purchase struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Year        int       `json:"year"`
	Week        int       `json:"week"`
	PurchasedAt time.Time `gorm:"type:timestamp" json:"purchased_at"`

	Items []PurchaseItem `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE" json:"items"`
	Timestamp
}

func (p *Purchase) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type PurchaseItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	PurchaseID uuid.UUID `gorm:"type:uuid;index" json:"purchase_id"`
	Key        string    `gorm:"column:canonical_key" json:"key"`
	Name       string    `json:"name"`
	Unit       string    `json:"unit"`
	Quantity   float64   `json:"quantity"`
}

func (pi *PurchaseItem) BeforeCreate(tx *gorm.DB) error {
	if pi.ID == uuid.Nil {
		pi.ID = uuid.New()
	}
	return nil
}
