package services

import (
	"context"
	"errors"
	"time"

	"hotel-pms/models"
)

// ErrDuplicateKey is returned by a Store when a unique index rejects a write.
var ErrDuplicateKey = errors.New("duplicate_key")

// Store is the datastore collaborator the booking engine runs against.
// Lookups that miss return an error wrapping ErrNotFound, except
// CheckInByBooking which returns (nil, nil).
type Store interface {
	// InTx runs fn inside one unit of work; every call on the Store passed to
	// fn belongs to that transaction.
	InTx(ctx context.Context, fn func(tx Store) error) error

	Room(ctx context.Context, id uint, forUpdate bool) (*models.Room, error)
	RoomsByStatus(ctx context.Context, status models.RoomStatus) ([]models.Room, error)
	SaveRoom(ctx context.Context, room *models.Room) error
	Guest(ctx context.Context, id uint) (*models.Guest, error)
	RatePlan(ctx context.Context, id uint) (*models.RatePlan, error)

	Booking(ctx context.Context, id uint, forUpdate bool) (*models.Booking, error)
	// BookingsOverlapping returns bookings whose [check_in, check_out) overlaps r.
	// roomID 0 matches every room.
	BookingsOverlapping(ctx context.Context, roomID uint, r DateRange, statuses []models.BookingStatus) ([]models.Booking, error)
	CreateBooking(ctx context.Context, b *models.Booking) error
	SaveBooking(ctx context.Context, b *models.Booking) error
	ListBookings(ctx context.Context, f BookingFilter) ([]models.Booking, int64, error)
	RecordEvent(ctx context.Context, ev *models.BookingEvent) error
	BookingEvents(ctx context.Context, bookingID uint) ([]models.BookingEvent, error)
	// ApplyMutation writes the booking, the room (when changed) and the audit event.
	ApplyMutation(ctx context.Context, m *Mutation) error

	CheckIn(ctx context.Context, id uint) (*models.CheckIn, error)
	CheckInByBooking(ctx context.Context, bookingID uint) (*models.CheckIn, error)
	CheckInsOnDay(ctx context.Context, roomID uint, day DateRange, excludeID uint) ([]models.CheckIn, error)
	CountCheckInIDs(ctx context.Context, prefix string) (int64, error)
	CreateCheckIn(ctx context.Context, c *models.CheckIn) error
	SaveCheckIn(ctx context.Context, c *models.CheckIn) error
	ListCheckIns(ctx context.Context, f CheckInFilter) ([]models.CheckIn, int64, error)
	CheckInStats(ctx context.Context, today DateRange) (*CheckInStats, error)
}

type BookingFilter struct {
	Search   string
	Status   models.BookingStatus
	GuestID  uint
	RoomID   uint
	Page     int
	PageSize int
}

type CheckInFilter struct {
	Search        string
	PaymentStatus models.PaymentStatus
	IDVerified    *bool
	// Window limits actual_check_in_time to [From, To) when set.
	Window   *DateRange
	Page     int
	PageSize int
}

// Normalize clamps paging values to sane defaults.
func Normalize(page, size, def int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = def
	}
	if size > 100 {
		size = 100
	}
	return page, size
}

type PaymentSummary struct {
	PaymentStatus models.PaymentStatus `json:"paymentStatus"`
	Count         int64                `json:"count"`
}

type CheckInStats struct {
	TotalCheckIns     int64            `json:"totalCheckIns"`
	TodaysCheckIns    int64            `json:"todaysCheckIns"`
	PendingPayments   int64            `json:"pendingPayments"`
	UnverifiedIDs     int64            `json:"unverifiedIds"`
	AvailableRooms    int64            `json:"availableRooms"`
	PaymentSummary    []PaymentSummary `json:"paymentSummary"`
	RecentCheckIns    []models.CheckIn `json:"recentCheckIns"`
	TodaysCheckInList []models.CheckIn `json:"todaysCheckInList"`
}

// EventPublisher receives lifecycle messages after their transaction commits.
type EventPublisher interface {
	Publish(ctx context.Context, msg LifecycleMessage) error
}

// LifecycleMessage is the broker payload for a committed transition.
type LifecycleMessage struct {
	BookingID  uint                  `json:"booking_id"`
	CheckInID  string                `json:"check_in_id,omitempty"`
	RoomID     uint                  `json:"room_id"`
	Event      models.LifecycleEvent `json:"event"`
	FromStatus models.BookingStatus  `json:"from_status,omitempty"`
	ToStatus   models.BookingStatus  `json:"to_status,omitempty"`
	RoomStatus models.RoomStatus     `json:"room_status,omitempty"`
	OccurredAt time.Time             `json:"occurred_at"`
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, LifecycleMessage) error { return nil }

// CheckInSequence hands out the next per-day sequence number for check-in ids.
type CheckInSequence interface {
	Next(ctx context.Context, tx Store, prefix string) (int, error)
}

// StoreSequence counts existing ids sharing the day prefix.
type StoreSequence struct{}

func (StoreSequence) Next(ctx context.Context, tx Store, prefix string) (int, error) {
	n, err := tx.CountCheckInIDs(ctx, prefix)
	if err != nil {
		return 0, err
	}
	return int(n) + 1, nil
}
