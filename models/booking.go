package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingPending    BookingStatus = "PENDING"
	BookingConfirmed  BookingStatus = "CONFIRMED"
	BookingCheckedIn  BookingStatus = "CHECKED_IN"
	BookingCheckedOut BookingStatus = "CHECKED_OUT"
	BookingCanceled   BookingStatus = "CANCELED"
	BookingNoShow     BookingStatus = "NO_SHOW"
)

// BlockingStatuses are the booking states that hold a room for their date range.
var BlockingStatuses = []BookingStatus{BookingConfirmed, BookingCheckedIn}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCheckedIn, BookingCheckedOut, BookingCanceled, BookingNoShow:
		return true
	}
	return false
}

func (s BookingStatus) Blocking() bool {
	return s == BookingConfirmed || s == BookingCheckedIn
}

func (s BookingStatus) Terminal() bool {
	return s == BookingCheckedOut || s == BookingCanceled || s == BookingNoShow
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentPartial   PaymentStatus = "PARTIAL"
	PaymentPaid      PaymentStatus = "PAID"
	PaymentRefunded  PaymentStatus = "REFUNDED"
	PaymentCancelled PaymentStatus = "CANCELLED"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPartial, PaymentPaid, PaymentRefunded, PaymentCancelled:
		return true
	}
	return false
}

// DerivePaymentStatus maps an advance against a total onto PENDING/PARTIAL/PAID.
func DerivePaymentStatus(advance, total decimal.Decimal) PaymentStatus {
	switch {
	case !advance.IsPositive():
		return PaymentPending
	case total.IsPositive() && advance.GreaterThanOrEqual(total):
		return PaymentPaid
	default:
		return PaymentPartial
	}
}

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ReferenceCode string `gorm:"column:reference_code;size:64;uniqueIndex" json:"referenceCode"`

	GuestID    uint  `gorm:"index;column:guest_id" json:"guestId"`
	RoomID     uint  `gorm:"column:room_id;index:idx_booking_room_range,priority:1" json:"roomId"`
	RatePlanID *uint `gorm:"column:rate_plan_id" json:"ratePlanId,omitempty"`

	// Dates are stored as calendar dates; CheckOutDate is exclusive.
	CheckInDate  time.Time `gorm:"column:check_in_date;type:date;index:idx_booking_room_range,priority:2" json:"checkInDate"`
	CheckOutDate time.Time `gorm:"column:check_out_date;type:date;index:idx_booking_room_range,priority:3" json:"checkOutDate"`

	Adults   int `gorm:"column:number_of_adults;default:1" json:"adults"`
	Children int `gorm:"column:number_of_children;default:0" json:"children"`

	Status BookingStatus `gorm:"column:status;size:20;index;default:CONFIRMED" json:"status"`

	TotalAmount    decimal.Decimal `gorm:"column:total_amount;type:decimal(10,2)" json:"totalAmount"`
	AdvancePayment decimal.Decimal `gorm:"column:advance_payment;type:decimal(10,2);default:0" json:"advancePayment"`
	PaymentStatus  PaymentStatus   `gorm:"column:payment_status;size:10;default:PENDING" json:"paymentStatus"`

	SpecialRequests string `gorm:"column:special_requests;type:text" json:"specialRequests,omitempty"`

	ActualCheckInTime  *time.Time `gorm:"column:actual_check_in_time" json:"actualCheckInTime,omitempty"`
	ActualCheckOutTime *time.Time `gorm:"column:actual_check_out_time" json:"actualCheckOutTime,omitempty"`

	Guest    *Guest    `gorm:"foreignKey:GuestID;references:ID" json:"guest,omitempty"`
	Room     *Room     `gorm:"foreignKey:RoomID;references:ID" json:"room,omitempty"`
	RatePlan *RatePlan `gorm:"foreignKey:RatePlanID;references:ID" json:"ratePlan,omitempty"`
}

// Nights is the number of whole days between check-in and check-out.
func (b Booking) Nights() int {
	return NightsBetween(b.CheckInDate, b.CheckOutDate)
}

func (b Booking) TotalGuests() int {
	return b.Adults + b.Children
}

func (b Booking) RemainingAmount() decimal.Decimal {
	return b.TotalAmount.Sub(b.AdvancePayment)
}

func (b Booking) CanCheckIn() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}

func (b Booking) CanCheckOut() bool {
	return b.Status == BookingCheckedIn
}

func (b Booking) CanCancel() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}

func (b Booking) CanConfirm() bool {
	return b.Status == BookingPending
}

func (b Booking) CanMarkNoShow() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}

func (b Booking) IsActive() bool {
	return b.Status == BookingCheckedIn
}

// DateOnly truncates t to midnight UTC of its calendar date in t's own location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NightsBetween counts calendar days from in to out; zero or negative when out is not after in.
func NightsBetween(in, out time.Time) int {
	return int(DateOnly(out).Sub(DateOnly(in)).Hours() / 24)
}
