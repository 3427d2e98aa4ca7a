package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Ingredient struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Key        string     `gorm:"column:canonical_key;uniqueIndex;not null" json:"key"`
	Name       string     `json:"name"`
	Unit       string     `json:"unit"`
	Quantity   float64    `json:"quantity"`
	ExpiryDate *time.Time `gorm:"type:date" json:"expiry_date,omitempty"`
	Tags       string     `json:"tags"`
	Clamped    bool       `json:"clamped"`

	Timestamp
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TagList splits the comma-joined tag column.
func (i *Ingredient) TagList() []string {
	if i.Tags == "" {
		return nil
	}
	return strings.Split(i.Tags, ",")
}

func JoinTags(tags []string) string {
	return strings.Join(tags, ",")
}
