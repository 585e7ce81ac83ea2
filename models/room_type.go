package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RoomType struct {
	ID uint `gorm:"primaryKey" json:"id"`

	TypeName    string `gorm:"size:100;uniqueIndex" json:"typeName"`
	Description string `json:"description"`

	// Capacity is optional: nil means the capacity is unknown and is not enforced.
	Capacity *int `gorm:"column:capacity" json:"capacity,omitempty"`

	PricePerNight decimal.NullDecimal `gorm:"column:price_per_night;type:decimal(10,2)" json:"pricePerNight"`

	CreatedAt time.Time      `json:"createdAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
