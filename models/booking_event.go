package models

import (
	"time"

	"gorm.io/datatypes"
)

type LifecycleEvent string

const (
	EventCreate   LifecycleEvent = "create"
	EventConfirm  LifecycleEvent = "confirm"
	EventCheckIn  LifecycleEvent = "check-in"
	EventCheckOut LifecycleEvent = "check-out"
	EventCancel   LifecycleEvent = "cancel"
	EventNoShow   LifecycleEvent = "no-show"
)

// BookingEvent is the audit row written together with every lifecycle transition.
type BookingEvent struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	BookingID uint `gorm:"index;column:booking_id" json:"bookingId"`
	RoomID    uint `gorm:"column:room_id" json:"roomId"`

	Event      LifecycleEvent `gorm:"size:20" json:"event"`
	FromStatus BookingStatus  `gorm:"size:20" json:"fromStatus"`
	ToStatus   BookingStatus  `gorm:"size:20" json:"toStatus"`

	RoomStatusBefore RoomStatus `gorm:"size:20" json:"roomStatusBefore"`
	RoomStatusAfter  RoomStatus `gorm:"size:20" json:"roomStatusAfter"`

	Payload    datatypes.JSON `gorm:"column:payload" json:"payload,omitempty"`
	OccurredAt time.Time      `gorm:"index" json:"occurredAt"`
}
