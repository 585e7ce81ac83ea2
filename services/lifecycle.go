package services

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"hotel-pms/models"
)

// Mutation is everything one lifecycle transition changes. The store commits
// it as a unit so booking and room status never diverge.
type Mutation struct {
	Booking models.Booking
	// Room is nil when the transition leaves the room untouched.
	Room  *models.Room
	Event models.BookingEvent
}

type transitionRule struct {
	guard func(models.Booking) bool
	to    models.BookingStatus
}

var transitionRules = map[models.LifecycleEvent]transitionRule{
	models.EventConfirm:  {guard: models.Booking.CanConfirm, to: models.BookingConfirmed},
	models.EventCheckIn:  {guard: models.Booking.CanCheckIn, to: models.BookingCheckedIn},
	models.EventCheckOut: {guard: models.Booking.CanCheckOut, to: models.BookingCheckedOut},
	models.EventCancel:   {guard: models.Booking.CanCancel, to: models.BookingCanceled},
	models.EventNoShow:   {guard: models.Booking.CanMarkNoShow, to: models.BookingNoShow},
}

// EntersBlocking reports whether the event moves a booking from a
// non-blocking status into one that holds the room.
func EntersBlocking(b models.Booking, ev models.LifecycleEvent) bool {
	rule, ok := transitionRules[ev]
	return ok && !b.Status.Blocking() && rule.to.Blocking()
}

func invalidTransition(b models.Booking, ev models.LifecycleEvent, why string) *Error {
	msg := fmt.Sprintf("cannot %s booking %d in status %s", ev, b.ID, b.Status)
	if why != "" {
		msg += ": " + why
	}
	return &Error{Kind: ErrInvalidTransition, Message: msg, BookingID: b.ID, RoomID: b.RoomID}
}

// ApplyTransition computes the mutation set for ev without touching storage.
// On error nothing is returned to apply.
func ApplyTransition(b models.Booking, room models.Room, ev models.LifecycleEvent, now time.Time) (Mutation, error) {
	rule, ok := transitionRules[ev]
	if !ok {
		return Mutation{}, invalidTransition(b, ev, "unknown event")
	}
	if !rule.guard(b) {
		return Mutation{}, invalidTransition(b, ev, "")
	}
	if room.ID != b.RoomID {
		return Mutation{}, newError(ErrInvalidInput, "room %d is not the room of booking %d", room.ID, b.ID)
	}
	if ev == models.EventNoShow && models.DateOnly(now).Before(models.DateOnly(b.CheckInDate)) {
		return Mutation{}, invalidTransition(b, ev, "check-in date has not arrived")
	}

	next := b
	next.Status = rule.to
	roomBefore := room.Status
	roomAfter := room.Status

	switch ev {
	case models.EventCheckIn:
		t := now
		next.ActualCheckInTime = &t
		roomAfter = models.RoomOccupied
	case models.EventCheckOut:
		t := now
		next.ActualCheckOutTime = &t
		roomAfter = models.RoomAvailable
	case models.EventCancel, models.EventNoShow:
		if room.Status == models.RoomReserved {
			roomAfter = models.RoomAvailable
		}
		if ev == models.EventCancel && next.PaymentStatus == models.PaymentPending {
			next.PaymentStatus = models.PaymentCancelled
		}
	}

	m := Mutation{Booking: next}
	if roomAfter != roomBefore {
		r := room
		r.Status = roomAfter
		m.Room = &r
	}
	m.Event = models.BookingEvent{
		BookingID:        b.ID,
		RoomID:           room.ID,
		Event:            ev,
		FromStatus:       b.Status,
		ToStatus:         next.Status,
		RoomStatusBefore: roomBefore,
		RoomStatusAfter:  roomAfter,
		Payload:          mutationPayload(next, m.Room),
		OccurredAt:       now,
	}
	return m, nil
}

func mutationPayload(b models.Booking, room *models.Room) datatypes.JSON {
	payload := map[string]any{
		"booking": map[string]any{
			"id":                    b.ID,
			"status":                b.Status,
			"payment_status":        b.PaymentStatus,
			"actual_check_in_time":  b.ActualCheckInTime,
			"actual_check_out_time": b.ActualCheckOutTime,
		},
	}
	if room != nil {
		payload["room"] = map[string]any{"id": room.ID, "status": room.Status}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

// ValidateStayDates checks checkout > checkin and, when creating, that the
// stay does not start before today.
func ValidateStayDates(checkIn, checkOut, now time.Time, creating bool) error {
	if checkIn.IsZero() || checkOut.IsZero() {
		return newError(ErrInvalidDateRange, "check-in and check-out dates are required")
	}
	r := NewDateRange(checkIn, checkOut)
	if !r.To.After(r.From) {
		return &Error{Kind: ErrInvalidDateRange, Message: "check-out date must be after check-in date", Range: &r}
	}
	if creating && r.From.Before(models.DateOnly(now)) {
		return &Error{Kind: ErrInvalidDateRange, Message: "check-in date cannot be in the past", Range: &r}
	}
	return nil
}

// ValidateBooking checks everything about a booking that does not need
// other bookings: dates, guest counts and room capacity.
func ValidateBooking(b models.Booking, room models.Room, now time.Time, creating bool) error {
	if err := ValidateStayDates(b.CheckInDate, b.CheckOutDate, now, creating); err != nil {
		if e, ok := AsError(err); ok {
			e.BookingID = b.ID
			e.RoomID = room.ID
		}
		return err
	}
	if b.Adults < 1 {
		return newError(ErrInvalidInput, "at least one adult is required")
	}
	if b.Children < 0 {
		return newError(ErrInvalidInput, "children cannot be negative")
	}
	if capacity, ok := room.Capacity(); ok && b.TotalGuests() > capacity {
		return &Error{
			Kind:      ErrCapacityExceeded,
			Message:   fmt.Sprintf("total guests (%d) exceeds room capacity (%d)", b.TotalGuests(), capacity),
			BookingID: b.ID,
			RoomID:    room.ID,
		}
	}
	if b.AdvancePayment.IsNegative() {
		return newError(ErrInvalidInput, "advance payment cannot be negative")
	}
	if b.AdvancePayment.GreaterThan(b.TotalAmount) {
		return &Error{
			Kind:      ErrPaymentOverAdvance,
			Message:   fmt.Sprintf("advance payment %s exceeds total amount %s", b.AdvancePayment.StringFixed(2), b.TotalAmount.StringFixed(2)),
			BookingID: b.ID,
		}
	}
	return nil
}
