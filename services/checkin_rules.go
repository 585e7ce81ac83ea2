package services

import (
	"fmt"
	"strings"
	"time"

	"hotel-pms/models"
)

// checkInClockSkew is how far into the future a check-in timestamp may be.
const checkInClockSkew = time.Hour

// FormatCheckInID renders prefix+YYYYMMDD+NNN, e.g. CI20250101001.
func FormatCheckInID(prefix string, day time.Time, seq int) string {
	return fmt.Sprintf("%s%03d", CheckInIDPrefix(prefix, day), seq)
}

// CheckInIDPrefix is the per-day part shared by every id issued on day.
func CheckInIDPrefix(prefix string, day time.Time) string {
	if prefix == "" {
		prefix = "CI"
	}
	return prefix + day.Format("20060102")
}

// ApplyCheckInDefaults fills the fields a desk clerk usually leaves blank.
func ApplyCheckInDefaults(c *models.CheckIn, now time.Time) {
	if c.ActualCheckInTime.IsZero() {
		c.ActualCheckInTime = now
	}
	if c.NumberOfGuests <= 0 {
		c.NumberOfGuests = 1
	}
	c.AdvancePayment = c.AdvancePayment.Round(2)
	c.TotalAmount = c.TotalAmount.Round(2)
	c.AssignedStaff = strings.TrimSpace(c.AssignedStaff)
	c.RemarksNotes = strings.TrimSpace(c.RemarksNotes)
}

// settleCheckIn takes the total and expected checkout from the linked booking
// when the clerk left them blank, then derives the payment status.
func settleCheckIn(c *models.CheckIn, booking *models.Booking) {
	if booking != nil {
		if c.TotalAmount.IsZero() {
			c.TotalAmount = booking.TotalAmount.Round(2)
		}
		if c.ExpectedCheckOutDate == nil {
			checkout := booking.CheckOutDate
			c.ExpectedCheckOutDate = &checkout
		}
	}
	if c.PaymentStatus == "" {
		c.PaymentStatus = models.DerivePaymentStatus(c.AdvancePayment, c.TotalAmount)
	}
}

// ValidCheckInPaymentStatus reports whether s may be stored on a check-in.
func ValidCheckInPaymentStatus(s models.PaymentStatus) bool {
	switch s {
	case models.PaymentPending, models.PaymentPartial, models.PaymentPaid, models.PaymentRefunded:
		return true
	}
	return false
}

// ValidateCheckIn checks a check-in on its own and against its booking, if any.
func ValidateCheckIn(c models.CheckIn, booking *models.Booking, now time.Time) error {
	if c.GuestID == 0 {
		return newError(ErrInvalidInput, "guest is required")
	}
	if c.RoomID == 0 {
		return newError(ErrInvalidInput, "room is required")
	}
	if booking != nil {
		if booking.GuestID != c.GuestID {
			return &Error{
				Kind:      ErrGuestBookingMismatch,
				Message:   fmt.Sprintf("guest %d does not match booking %d (guest %d)", c.GuestID, booking.ID, booking.GuestID),
				BookingID: booking.ID,
				CheckInID: c.ID,
			}
		}
		if booking.RoomID != c.RoomID {
			return &Error{
				Kind:      ErrInvalidInput,
				Message:   fmt.Sprintf("room %d is not the room of booking %d", c.RoomID, booking.ID),
				BookingID: booking.ID,
				RoomID:    c.RoomID,
			}
		}
	}
	if c.ActualCheckInTime.After(now.Add(checkInClockSkew)) {
		return &Error{Kind: ErrInvalidDateRange, Message: "check-in time cannot be in the future", CheckInID: c.ID}
	}
	if c.ExpectedCheckOutDate != nil && !models.DateOnly(*c.ExpectedCheckOutDate).After(models.DateOnly(c.ActualCheckInTime)) {
		r := NewDateRange(c.ActualCheckInTime, *c.ExpectedCheckOutDate)
		return &Error{Kind: ErrInvalidDateRange, Message: "expected check-out date must be after check-in date", CheckInID: c.ID, Range: &r}
	}
	if c.NumberOfGuests < 1 {
		return newError(ErrInvalidInput, "number of guests must be at least 1")
	}
	if c.AdvancePayment.IsNegative() || c.TotalAmount.IsNegative() {
		return newError(ErrInvalidInput, "amounts cannot be negative")
	}
	if c.AdvancePayment.GreaterThan(c.TotalAmount) {
		return &Error{
			Kind:      ErrPaymentOverAdvance,
			Message:   fmt.Sprintf("advance payment %s exceeds total amount %s", c.AdvancePayment.StringFixed(2), c.TotalAmount.StringFixed(2)),
			CheckInID: c.ID,
		}
	}
	if !ValidCheckInPaymentStatus(c.PaymentStatus) {
		return newError(ErrInvalidInput, "invalid payment status %q", c.PaymentStatus)
	}
	return nil
}

// CheckInDay is the calendar day containing t as a [day, day+1) range.
func CheckInDay(t time.Time) DateRange {
	from := models.DateOnly(t)
	return DateRange{From: from, To: from.AddDate(0, 0, 1)}
}

// ValidateSameDay rejects a second check-in to the same room on one day.
// existing must already exclude the check-in being validated.
func ValidateSameDay(c models.CheckIn, existing []models.CheckIn) error {
	day := CheckInDay(c.ActualCheckInTime)
	for _, other := range existing {
		if other.RoomID != c.RoomID || (c.ID != 0 && other.ID == c.ID) {
			continue
		}
		if models.DateOnly(other.ActualCheckInTime).Equal(day.From) {
			return &Error{
				Kind:      ErrSameDayRoomConflict,
				Message:   fmt.Sprintf("room %d already has check-in %s on %s", c.RoomID, other.CheckInID, day.From.Format("2006-01-02")),
				RoomID:    c.RoomID,
				CheckInID: other.ID,
				Range:     &day,
			}
		}
	}
	return nil
}

// CheckInWindow maps a list preset to a date range. ok is false for an
// unknown or empty preset.
func CheckInWindow(preset string, now time.Time) (DateRange, bool) {
	today := models.DateOnly(now)
	switch strings.ToLower(strings.TrimSpace(preset)) {
	case "today":
		return DateRange{From: today, To: today.AddDate(0, 0, 1)}, true
	case "yesterday":
		return DateRange{From: today.AddDate(0, 0, -1), To: today}, true
	case "this_week", "week":
		// weeks start on Monday
		offset := (int(today.Weekday()) + 6) % 7
		start := today.AddDate(0, 0, -offset)
		return DateRange{From: start, To: start.AddDate(0, 0, 7)}, true
	case "this_month", "month":
		start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		return DateRange{From: start, To: start.AddDate(0, 1, 0)}, true
	}
	return DateRange{}, false
}

// checkInFromBooking prefills a check-in form from a booking.
func checkInFromBooking(b models.Booking, now time.Time) models.CheckIn {
	id := b.ID
	checkout := b.CheckOutDate
	c := models.CheckIn{
		BookingID:            &id,
		GuestID:              b.GuestID,
		RoomID:               b.RoomID,
		ActualCheckInTime:    now,
		ExpectedCheckOutDate: &checkout,
		NumberOfGuests:       b.TotalGuests(),
		AdvancePayment:       b.AdvancePayment,
		TotalAmount:          b.TotalAmount,
		RemarksNotes:         b.SpecialRequests,
		Guest:                b.Guest,
		Room:                 b.Room,
	}
	if c.NumberOfGuests < 1 {
		c.NumberOfGuests = 1
	}
	c.PaymentStatus = models.DerivePaymentStatus(c.AdvancePayment, c.TotalAmount)
	return c
}
