package model

import "github.com/google/uuid"

// Item is a tracked stock-keeping unit. Quantity only changes through the
// stock service, which pairs every change with a ledger entry.
type Item struct {
	BaseModel
	Name       string    `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	CategoryID uuid.UUID `gorm:"type:uuid;not null;index" json:"category_id" validate:"uuid_required"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty" validate:"-"`
	Quantity   int       `gorm:"not null;default:0" json:"quantity" validate:"gte=0"`
	Threshold  int       `gorm:"not null;default:0" json:"threshold" validate:"gte=0"`
}

// LowStock reports whether the item has fallen under its reorder threshold.
func (i *Item) LowStock() bool {
	return i.Quantity < i.Threshold
}
