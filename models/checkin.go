package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CheckIn struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// CheckInID is the human readable identifier, e.g. CI20250101001.
	CheckInID string `gorm:"column:check_in_id;size:20;uniqueIndex" json:"checkInId"`

	BookingID *uint `gorm:"column:booking_id;index" json:"bookingId,omitempty"`
	GuestID   uint  `gorm:"column:guest_id;index" json:"guestId"`
	RoomID    uint  `gorm:"column:room_id;index:idx_checkin_room_time,priority:1" json:"roomId"`

	ActualCheckInTime    time.Time  `gorm:"column:actual_check_in_time;index:idx_checkin_room_time,priority:2" json:"actualCheckInTime"`
	ExpectedCheckOutDate *time.Time `gorm:"column:expected_check_out_date;type:date" json:"expectedCheckOutDate,omitempty"`

	NumberOfGuests int             `gorm:"column:number_of_guests;default:1" json:"numberOfGuests"`
	AdvancePayment decimal.Decimal `gorm:"column:advance_payment;type:decimal(10,2);default:0" json:"advancePayment"`
	TotalAmount    decimal.Decimal `gorm:"column:total_amount;type:decimal(10,2);default:0" json:"totalAmount"`
	PaymentStatus  PaymentStatus   `gorm:"column:payment_status;size:10;default:PENDING;index" json:"paymentStatus"`

	IDProofVerified bool   `gorm:"column:id_proof_verified;default:false" json:"idProofVerified"`
	AssignedStaff   string `gorm:"column:assigned_staff;size:100" json:"assignedStaff,omitempty"`
	RemarksNotes    string `gorm:"column:remarks_notes;type:text" json:"remarksNotes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Booking *Booking `gorm:"foreignKey:BookingID" json:"booking,omitempty"`
	Guest   *Guest   `gorm:"foreignKey:GuestID" json:"guest,omitempty"`
	Room    *Room    `gorm:"foreignKey:RoomID" json:"room,omitempty"`
}

func (c CheckIn) RemainingAmount() decimal.Decimal {
	return c.TotalAmount.Sub(c.AdvancePayment)
}

// PaymentPercentage is zero when nothing is owed.
func (c CheckIn) PaymentPercentage() decimal.Decimal {
	if !c.TotalAmount.IsPositive() {
		return decimal.Zero
	}
	return c.AdvancePayment.Div(c.TotalAmount).Mul(decimal.NewFromInt(100)).Round(2)
}

func (c CheckIn) IsWalkIn() bool {
	return c.BookingID == nil
}

func (c CheckIn) DaysSinceCheckIn(now time.Time) int {
	return NightsBetween(c.ActualCheckInTime, now)
}
