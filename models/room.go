package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RoomStatus string

const (
	RoomAvailable   RoomStatus = "AVAILABLE"
	RoomOccupied    RoomStatus = "OCCUPIED"
	RoomReserved    RoomStatus = "RESERVED"
	RoomMaintenance RoomStatus = "MAINTENANCE"
)

func (s RoomStatus) Valid() bool {
	switch s {
	case RoomAvailable, RoomOccupied, RoomReserved, RoomMaintenance:
		return true
	}
	return false
}

type Room struct {
	gorm.Model

	// RoomTypeID stays nullable so a room without a type never gets FK=0.
	RoomTypeID *uint      `json:"roomTypeId,omitempty" gorm:"column:room_type_id"`
	RoomNumber string     `json:"roomNumber" gorm:"column:room_number;uniqueIndex;type:varchar(50)"`
	Status     RoomStatus `json:"status" gorm:"column:status;type:varchar(20);index;default:AVAILABLE"`
	Floor      string     `json:"floor" gorm:"type:varchar(10)"`

	// DefaultRate is the room's own nightly price, used when neither a rate plan
	// nor the room type prices the stay.
	DefaultRate decimal.Decimal `json:"defaultRate" gorm:"column:default_rate;type:decimal(10,2);default:0"`
	Description string          `json:"description" gorm:"type:text"`

	RoomType *RoomType `json:"roomType,omitempty" gorm:"foreignKey:RoomTypeID"`
}

// Capacity returns the maximum number of guests, if the room type declares one.
func (r Room) Capacity() (int, bool) {
	if r.RoomType == nil || r.RoomType.Capacity == nil {
		return 0, false
	}
	return *r.RoomType.Capacity, true
}
