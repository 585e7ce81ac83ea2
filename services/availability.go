package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"hotel-pms/models"
)

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Back-to-back stays (one ends the day the other starts) do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// NewDateRange normalizes both ends to calendar dates.
func NewDateRange(from, to time.Time) DateRange {
	return DateRange{From: models.DateOnly(from), To: models.DateOnly(to)}
}

// FindConflicts filters bookings down to the blocking ones on roomID that
// overlap [checkIn, checkOut). excludeID drops the booking being edited.
func FindConflicts(bookings []models.Booking, roomID uint, checkIn, checkOut time.Time, excludeID uint) []models.Booking {
	r := NewDateRange(checkIn, checkOut)
	out := []models.Booking{}
	for _, b := range bookings {
		if b.RoomID != roomID || !b.Status.Blocking() {
			continue
		}
		if excludeID != 0 && b.ID == excludeID {
			continue
		}
		if Overlaps(r.From, r.To, models.DateOnly(b.CheckInDate), models.DateOnly(b.CheckOutDate)) {
			out = append(out, b)
		}
	}
	return out
}

// FilterAvailableRooms keeps AVAILABLE rooms with no blocking booking
// overlapping r and enough capacity for totalGuests (rooms without a known
// capacity always pass).
func FilterAvailableRooms(rooms []models.Room, bookings []models.Booking, r DateRange, totalGuests int) []models.Room {
	booked := make(map[uint]struct{}, len(bookings))
	for _, b := range bookings {
		if b.Status.Blocking() && Overlaps(r.From, r.To, models.DateOnly(b.CheckInDate), models.DateOnly(b.CheckOutDate)) {
			booked[b.RoomID] = struct{}{}
		}
	}

	out := []models.Room{}
	for _, room := range rooms {
		if room.Status != models.RoomAvailable {
			continue
		}
		if _, taken := booked[room.ID]; taken {
			continue
		}
		if capacity, ok := room.Capacity(); ok && totalGuests > 0 && capacity < totalGuests {
			continue
		}
		out = append(out, room)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoomNumber < out[j].RoomNumber })
	return out
}

func conflictError(room models.Room, r DateRange, conflicts []models.Booking) *Error {
	ids := make([]uint, 0, len(conflicts))
	for _, c := range conflicts {
		ids = append(ids, c.ID)
	}
	label := room.RoomNumber
	if label == "" {
		label = fmt.Sprintf("#%d", room.ID)
	}
	return &Error{
		Kind:        ErrAvailabilityConflict,
		Message:     fmt.Sprintf("room %s is not available for %s", label, r),
		RoomID:      room.ID,
		Range:       &r,
		ConflictIDs: ids,
	}
}

// ensureAvailable runs the conflict query inside the caller's unit of work.
func ensureAvailable(ctx context.Context, tx Store, room models.Room, checkIn, checkOut time.Time, excludeID uint) error {
	r := NewDateRange(checkIn, checkOut)
	candidates, err := tx.BookingsOverlapping(ctx, room.ID, r, models.BlockingStatuses)
	if err != nil {
		return err
	}
	if conflicts := FindConflicts(candidates, room.ID, r.From, r.To, excludeID); len(conflicts) > 0 {
		return conflictError(room, r, conflicts)
	}
	return nil
}

type AvailabilityService struct {
	Store Store
	Now   func() time.Time
}

func NewAvailabilityService(store Store) *AvailabilityService {
	return &AvailabilityService{Store: store, Now: time.Now}
}

// FindConflicts returns the blocking bookings on roomID overlapping the range.
func (s *AvailabilityService) FindConflicts(ctx context.Context, roomID uint, checkIn, checkOut time.Time, excludeID uint) ([]models.Booking, error) {
	r := NewDateRange(checkIn, checkOut)
	candidates, err := s.Store.BookingsOverlapping(ctx, roomID, r, models.BlockingStatuses)
	if err != nil {
		return nil, err
	}
	return FindConflicts(candidates, roomID, r.From, r.To, excludeID), nil
}

// SearchAvailable lists rooms bookable for the whole range.
func (s *AvailabilityService) SearchAvailable(ctx context.Context, checkIn, checkOut time.Time, totalGuests int) ([]models.Room, error) {
	if err := ValidateStayDates(checkIn, checkOut, s.Now(), true); err != nil {
		return nil, err
	}
	if totalGuests < 0 {
		return nil, newError(ErrInvalidInput, "guest count cannot be negative")
	}

	rooms, err := s.Store.RoomsByStatus(ctx, models.RoomAvailable)
	if err != nil {
		return nil, err
	}
	r := NewDateRange(checkIn, checkOut)
	blockers, err := s.Store.BookingsOverlapping(ctx, 0, r, models.BlockingStatuses)
	if err != nil {
		return nil, err
	}
	return FilterAvailableRooms(rooms, blockers, r, totalGuests), nil
}
