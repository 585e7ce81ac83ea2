package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Error kinds. Match with errors.Is(err, ErrCapacityExceeded).
var (
	ErrInvalidDateRange     = errors.New("invalid_date_range")
	ErrCapacityExceeded     = errors.New("capacity_exceeded")
	ErrAvailabilityConflict = errors.New("availability_conflict")
	ErrInvalidTransition    = errors.New("invalid_transition")
	ErrGuestBookingMismatch = errors.New("guest_booking_mismatch")
	ErrPaymentOverAdvance   = errors.New("payment_over_advance")
	ErrSameDayRoomConflict  = errors.New("same_day_room_conflict")
	ErrAlreadyCheckedIn     = errors.New("already_checked_in")
	ErrNotFound             = errors.New("not_found")
	ErrInvalidInput         = errors.New("invalid_input")
)

// DateRange is a half-open [From, To) span of calendar dates.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

func (r DateRange) String() string {
	return fmt.Sprintf("[%s, %s)", r.From.Format("2006-01-02"), r.To.Format("2006-01-02"))
}

// Error carries the kind plus the ids and ranges the caller needs for messaging.
type Error struct {
	Kind    error
	Message string

	BookingID   uint
	RoomID      uint
	CheckInID   uint
	Range       *DateRange
	ConflictIDs []uint
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.Error())
	if e.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}
	return sb.String()
}

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func notFound(resource string, id uint) *Error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf("%s %d not found", resource, id)}
}

// AsError unwraps err into *Error when it is one.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
