package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"hotel-pms/models"
)

const maxCheckInIDAttempts = 5

// CheckInService records arrivals at the desk and keeps any linked booking
// in step with the lifecycle machine.
type CheckInService struct {
	Store    Store
	Bookings *BookingService
	Sequence CheckInSequence
	Prefix   string
	Now      func() time.Time
}

func NewCheckInService(store Store, bookings *BookingService, seq CheckInSequence, prefix string) *CheckInService {
	if seq == nil {
		seq = StoreSequence{}
	}
	return &CheckInService{Store: store, Bookings: bookings, Sequence: seq, Prefix: prefix, Now: time.Now}
}

// Create validates and stores a check-in. With a booking the booking moves
// to CHECKED_IN through the lifecycle machine; a walk-in only occupies the room.
func (s *CheckInService) Create(ctx context.Context, c models.CheckIn) (*models.CheckIn, error) {
	now := s.Now()
	if c.GuestID == 0 || c.RoomID == 0 {
		return nil, newError(ErrInvalidInput, "guest and room are required")
	}
	ApplyCheckInDefaults(&c, now)
	c.ID = 0
	c.CheckInID = strings.TrimSpace(c.CheckInID)
	c.Booking, c.Guest, c.Room = nil, nil, nil

	var (
		m           *Mutation
		walkInEvent *LifecycleMessage
	)
	err := s.Store.InTx(ctx, func(tx Store) error {
		if _, err := tx.Guest(ctx, c.GuestID); err != nil {
			return err
		}
		room, err := tx.Room(ctx, c.RoomID, true)
		if err != nil {
			return err
		}

		var booking *models.Booking
		if c.BookingID != nil {
			if booking, err = tx.Booking(ctx, *c.BookingID, true); err != nil {
				return err
			}
			existing, err := tx.CheckInByBooking(ctx, booking.ID)
			if err != nil {
				return err
			}
			if existing != nil {
				return &Error{
					Kind:      ErrAlreadyCheckedIn,
					Message:   fmt.Sprintf("booking %d already has check-in %s", booking.ID, existing.CheckInID),
					BookingID: booking.ID,
					CheckInID: existing.ID,
				}
			}
		}

		settleCheckIn(&c, booking)
		if err := ValidateCheckIn(c, booking, now); err != nil {
			return err
		}
		sameDay, err := tx.CheckInsOnDay(ctx, c.RoomID, CheckInDay(c.ActualCheckInTime), 0)
		if err != nil {
			return err
		}
		if err := ValidateSameDay(c, sameDay); err != nil {
			return err
		}

		switch {
		case booking != nil && booking.CanCheckIn():
			plain := *booking
			plain.Guest, plain.Room, plain.RatePlan = nil, nil, nil
			planned, err := s.Bookings.planTransition(ctx, tx, plain, *room, models.EventCheckIn, now)
			if err != nil {
				return err
			}
			m = &planned
		case booking != nil && booking.Status == models.BookingCheckedIn:
			// already moved through the lifecycle, only the record is missing
			if room.Status != models.RoomOccupied {
				room.Status = models.RoomOccupied
				if err := tx.SaveRoom(ctx, room); err != nil {
					return err
				}
			}
		case booking != nil:
			return invalidTransition(*booking, models.EventCheckIn, "")
		default:
			if room.Status == models.RoomOccupied || room.Status == models.RoomMaintenance {
				return &Error{
					Kind:    ErrAvailabilityConflict,
					Message: fmt.Sprintf("room %s is %s", room.RoomNumber, room.Status),
					RoomID:  room.ID,
				}
			}
			// a walk-in must not take a room promised to an arriving booking
			from := models.DateOnly(c.ActualCheckInTime)
			to := from.AddDate(0, 0, 1)
			if c.ExpectedCheckOutDate != nil {
				to = models.DateOnly(*c.ExpectedCheckOutDate)
			}
			if err := ensureAvailable(ctx, tx, *room, from, to, 0); err != nil {
				return err
			}
			room.Status = models.RoomOccupied
			if err := tx.SaveRoom(ctx, room); err != nil {
				return err
			}
			walkInEvent = &LifecycleMessage{
				RoomID:     room.ID,
				Event:      models.EventCheckIn,
				RoomStatus: models.RoomOccupied,
				OccurredAt: now,
			}
		}

		if err := s.insert(ctx, tx, &c, now); err != nil {
			return err
		}
		if m != nil {
			return tx.ApplyMutation(ctx, m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("check-in %s recorded for room %d (walk-in=%t)", c.CheckInID, c.RoomID, c.IsWalkIn())
	switch {
	case m != nil:
		s.Bookings.publishMutation(ctx, *m, c.CheckInID)
	case walkInEvent != nil:
		walkInEvent.CheckInID = c.CheckInID
		s.Bookings.publish(ctx, *walkInEvent)
	}
	return &c, nil
}

// insert stores c, generating its id when none was supplied and retrying
// when a concurrent check-in took the same sequence number.
func (s *CheckInService) insert(ctx context.Context, tx Store, c *models.CheckIn, now time.Time) error {
	if c.CheckInID != "" {
		err := tx.CreateCheckIn(ctx, c)
		if errors.Is(err, ErrDuplicateKey) {
			return newError(ErrInvalidInput, "check-in id %s already exists", c.CheckInID)
		}
		return err
	}

	prefix := CheckInIDPrefix(s.Prefix, now)
	seq, err := s.Sequence.Next(ctx, tx, prefix)
	if err != nil {
		return err
	}
	for attempt := 0; attempt < maxCheckInIDAttempts; attempt++ {
		c.CheckInID = FormatCheckInID(s.Prefix, now, seq+attempt)
		err = tx.CreateCheckIn(ctx, c)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrDuplicateKey) {
			return err
		}
		log.Printf("check-in id %s taken, retrying", c.CheckInID)
	}
	c.CheckInID = ""
	return fmt.Errorf("could not allocate a check-in id after %d attempts: %w", maxCheckInIDAttempts, err)
}

// Update edits a check-in in place. The booking link and the room are fixed
// once recorded, so no lifecycle transition runs here.
func (s *CheckInService) Update(ctx context.Context, id uint, in models.CheckIn) (*models.CheckIn, error) {
	now := s.Now()

	var updated models.CheckIn
	err := s.Store.InTx(ctx, func(tx Store) error {
		existing, err := tx.CheckIn(ctx, id)
		if err != nil {
			return err
		}
		if in.RoomID != 0 && in.RoomID != existing.RoomID {
			return &Error{Kind: ErrInvalidInput, Message: "the room of a check-in cannot be changed", CheckInID: id, RoomID: existing.RoomID}
		}
		if in.BookingID != nil && (existing.BookingID == nil || *in.BookingID != *existing.BookingID) {
			return &Error{Kind: ErrInvalidInput, Message: "the booking of a check-in cannot be changed", CheckInID: id}
		}

		c := *existing
		c.Booking, c.Guest, c.Room = nil, nil, nil
		if in.GuestID != 0 && in.GuestID != c.GuestID {
			if _, err := tx.Guest(ctx, in.GuestID); err != nil {
				return err
			}
			c.GuestID = in.GuestID
		}
		if !in.ActualCheckInTime.IsZero() {
			c.ActualCheckInTime = in.ActualCheckInTime
		}
		if in.ExpectedCheckOutDate != nil {
			c.ExpectedCheckOutDate = in.ExpectedCheckOutDate
		}
		if in.NumberOfGuests > 0 {
			c.NumberOfGuests = in.NumberOfGuests
		}
		c.AdvancePayment = in.AdvancePayment.Round(2)
		c.TotalAmount = in.TotalAmount.Round(2)
		c.PaymentStatus = in.PaymentStatus
		if c.PaymentStatus == "" {
			c.PaymentStatus = models.DerivePaymentStatus(c.AdvancePayment, c.TotalAmount)
		}
		c.IDProofVerified = in.IDProofVerified
		c.AssignedStaff = strings.TrimSpace(in.AssignedStaff)
		c.RemarksNotes = strings.TrimSpace(in.RemarksNotes)

		var booking *models.Booking
		if c.BookingID != nil {
			if booking, err = tx.Booking(ctx, *c.BookingID, false); err != nil {
				return err
			}
		}
		if err := ValidateCheckIn(c, booking, now); err != nil {
			return err
		}
		sameDay, err := tx.CheckInsOnDay(ctx, c.RoomID, CheckInDay(c.ActualCheckInTime), c.ID)
		if err != nil {
			return err
		}
		if err := ValidateSameDay(c, sameDay); err != nil {
			return err
		}
		if err := tx.SaveCheckIn(ctx, &c); err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

type QuickCheckIn struct {
	GuestID              uint
	RoomID               uint
	NumberOfGuests       int
	ExpectedCheckOutDate *time.Time
	TotalAmount          decimal.Decimal
	AdvancePayment       decimal.Decimal
	AssignedStaff        string
}

// Quick records a walk-in with only the essentials.
func (s *CheckInService) Quick(ctx context.Context, q QuickCheckIn) (*models.CheckIn, error) {
	return s.Create(ctx, models.CheckIn{
		GuestID:              q.GuestID,
		RoomID:               q.RoomID,
		NumberOfGuests:       q.NumberOfGuests,
		ExpectedCheckOutDate: q.ExpectedCheckOutDate,
		TotalAmount:          q.TotalAmount,
		AdvancePayment:       q.AdvancePayment,
		AssignedStaff:        q.AssignedStaff,
	})
}

// PrefillFromBooking returns an unsaved check-in populated from the booking.
func (s *CheckInService) PrefillFromBooking(ctx context.Context, bookingID uint) (*models.CheckIn, error) {
	b, err := s.Store.Booking(ctx, bookingID, false)
	if err != nil {
		return nil, err
	}
	existing, err := s.Store.CheckInByBooking(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &Error{
			Kind:      ErrAlreadyCheckedIn,
			Message:   fmt.Sprintf("booking %d already has check-in %s", b.ID, existing.CheckInID),
			BookingID: b.ID,
			CheckInID: existing.ID,
		}
	}
	if !b.CanCheckIn() && b.Status != models.BookingCheckedIn {
		return nil, invalidTransition(*b, models.EventCheckIn, "")
	}
	c := checkInFromBooking(*b, s.Now())
	return &c, nil
}

func (s *CheckInService) VerifyIDProof(ctx context.Context, id uint) (*models.CheckIn, error) {
	return s.patch(ctx, id, func(c *models.CheckIn) error {
		c.IDProofVerified = true
		return nil
	})
}

func (s *CheckInService) UpdatePaymentStatus(ctx context.Context, id uint, status models.PaymentStatus) (*models.CheckIn, error) {
	if !ValidCheckInPaymentStatus(status) {
		return nil, newError(ErrInvalidInput, "invalid payment status %q", status)
	}
	return s.patch(ctx, id, func(c *models.CheckIn) error {
		c.PaymentStatus = status
		return nil
	})
}

func (s *CheckInService) patch(ctx context.Context, id uint, fn func(*models.CheckIn) error) (*models.CheckIn, error) {
	var updated models.CheckIn
	err := s.Store.InTx(ctx, func(tx Store) error {
		c, err := tx.CheckIn(ctx, id)
		if err != nil {
			return err
		}
		c.Booking, c.Guest, c.Room = nil, nil, nil
		if err := fn(c); err != nil {
			return err
		}
		if err := tx.SaveCheckIn(ctx, c); err != nil {
			return err
		}
		updated = *c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *CheckInService) Get(ctx context.Context, id uint) (*models.CheckIn, error) {
	return s.Store.CheckIn(ctx, id)
}

// List applies the optional date preset (today, yesterday, this_week,
// this_month) on top of f.
func (s *CheckInService) List(ctx context.Context, f CheckInFilter, preset string) ([]models.CheckIn, int64, error) {
	if preset != "" && preset != "all" {
		window, ok := CheckInWindow(preset, s.Now())
		if !ok {
			return nil, 0, newError(ErrInvalidInput, "unknown date range %q", preset)
		}
		f.Window = &window
	}
	if f.PaymentStatus != "" && !ValidCheckInPaymentStatus(f.PaymentStatus) {
		return nil, 0, newError(ErrInvalidInput, "invalid payment status %q", f.PaymentStatus)
	}
	f.Page, f.PageSize = Normalize(f.Page, f.PageSize, 10)
	f.Search = strings.TrimSpace(f.Search)
	return s.Store.ListCheckIns(ctx, f)
}

func (s *CheckInService) Dashboard(ctx context.Context) (*CheckInStats, error) {
	return s.Store.CheckInStats(ctx, CheckInDay(s.Now()))
}
