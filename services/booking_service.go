// services/booking_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hotel-pms/models"
)

// BookingService runs booking creation, edits and lifecycle transitions,
// each inside a single unit of work on the Store.
type BookingService struct {
	Store  Store
	Events EventPublisher
	Now    func() time.Time
}

func NewBookingService(store Store, events EventPublisher) *BookingService {
	if events == nil {
		events = noopPublisher{}
	}
	return &BookingService{Store: store, Events: events, Now: time.Now}
}

// BookingInput carries the editable fields of a booking.
type BookingInput struct {
	GuestID         uint
	RoomID          uint
	RatePlanID      *uint
	CheckInDate     time.Time
	CheckOutDate    time.Time
	Adults          int
	Children        int
	Status          models.BookingStatus
	TotalAmount     decimal.Decimal
	AdvancePayment  decimal.Decimal
	SpecialRequests string
}

func newReferenceCode() string {
	return "BK" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}

// loadPricingInputs fetches the locked room and the optional rate plan.
func loadPricingInputs(ctx context.Context, tx Store, roomID uint, ratePlanID *uint) (*models.Room, *models.RatePlan, error) {
	room, err := tx.Room(ctx, roomID, true)
	if err != nil {
		return nil, nil, err
	}
	var plan *models.RatePlan
	if ratePlanID != nil && *ratePlanID != 0 {
		if plan, err = tx.RatePlan(ctx, *ratePlanID); err != nil {
			return nil, nil, err
		}
	}
	return room, plan, nil
}

// Create validates and stores a new booking. Initial status is CONFIRMED
// unless PENDING is requested.
func (s *BookingService) Create(ctx context.Context, in BookingInput) (*models.Booking, error) {
	now := s.Now()

	status := in.Status
	if status == "" {
		status = models.BookingConfirmed
	}
	if status != models.BookingConfirmed && status != models.BookingPending {
		return nil, newError(ErrInvalidInput, "a new booking can only be %s or %s", models.BookingConfirmed, models.BookingPending)
	}
	if err := ValidateStayDates(in.CheckInDate, in.CheckOutDate, now, true); err != nil {
		return nil, err
	}

	var created models.Booking
	err := s.Store.InTx(ctx, func(tx Store) error {
		if _, err := tx.Guest(ctx, in.GuestID); err != nil {
			return err
		}
		room, plan, err := loadPricingInputs(ctx, tx, in.RoomID, in.RatePlanID)
		if err != nil {
			return err
		}

		b := models.Booking{
			ReferenceCode:   newReferenceCode(),
			GuestID:         in.GuestID,
			RoomID:          room.ID,
			RatePlanID:      in.RatePlanID,
			CheckInDate:     models.DateOnly(in.CheckInDate),
			CheckOutDate:    models.DateOnly(in.CheckOutDate),
			Adults:          in.Adults,
			Children:        in.Children,
			Status:          status,
			TotalAmount:     in.TotalAmount.Round(2),
			AdvancePayment:  in.AdvancePayment.Round(2),
			SpecialRequests: strings.TrimSpace(in.SpecialRequests),
		}
		if b.TotalAmount.IsZero() {
			b.TotalAmount = ComputeTotal(*room, plan, b.Nights(), b.TotalGuests())
		}
		b.PaymentStatus = models.DerivePaymentStatus(b.AdvancePayment, b.TotalAmount)

		if err := ValidateBooking(b, *room, now, true); err != nil {
			return err
		}
		if err := ensureAvailable(ctx, tx, *room, b.CheckInDate, b.CheckOutDate, 0); err != nil {
			return err
		}

		if err := tx.CreateBooking(ctx, &b); err != nil {
			return err
		}
		ev := models.BookingEvent{
			BookingID:        b.ID,
			RoomID:           room.ID,
			Event:            models.EventCreate,
			ToStatus:         b.Status,
			RoomStatusBefore: room.Status,
			RoomStatusAfter:  room.Status,
			Payload:          mutationPayload(b, nil),
			OccurredAt:       now,
		}
		if err := tx.RecordEvent(ctx, &ev); err != nil {
			return err
		}
		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("booking %d (%s) created for room %d %s", created.ID, created.ReferenceCode, created.RoomID, NewDateRange(created.CheckInDate, created.CheckOutDate))
	s.publish(ctx, LifecycleMessage{
		BookingID:  created.ID,
		RoomID:     created.RoomID,
		Event:      models.EventCreate,
		ToStatus:   created.Status,
		OccurredAt: now,
	})
	return &created, nil
}

// Update edits a booking. Past check-in dates are allowed here, the booking
// is excluded from its own conflict check and its status is left alone.
func (s *BookingService) Update(ctx context.Context, id uint, in BookingInput) (*models.Booking, error) {
	now := s.Now()

	var updated models.Booking
	err := s.Store.InTx(ctx, func(tx Store) error {
		// room before booking, the lock order of every lifecycle path
		room, plan, err := loadPricingInputs(ctx, tx, in.RoomID, in.RatePlanID)
		if err != nil {
			return err
		}
		existing, err := tx.Booking(ctx, id, true)
		if err != nil {
			return err
		}
		if existing.Status.Terminal() {
			return invalidTransition(*existing, "edit", "booking is closed")
		}
		if in.RoomID != existing.RoomID && existing.Status == models.BookingCheckedIn {
			return invalidTransition(*existing, "edit", "a checked-in booking cannot change rooms")
		}
		if in.GuestID != existing.GuestID {
			if _, err := tx.Guest(ctx, in.GuestID); err != nil {
				return err
			}
		}

		b := *existing
		b.GuestID = in.GuestID
		b.RoomID = room.ID
		b.RatePlanID = in.RatePlanID
		b.CheckInDate = models.DateOnly(in.CheckInDate)
		b.CheckOutDate = models.DateOnly(in.CheckOutDate)
		b.Adults = in.Adults
		b.Children = in.Children
		b.TotalAmount = in.TotalAmount.Round(2)
		b.AdvancePayment = in.AdvancePayment.Round(2)
		b.SpecialRequests = strings.TrimSpace(in.SpecialRequests)
		b.Guest, b.Room, b.RatePlan = nil, nil, nil

		if b.TotalAmount.IsZero() {
			b.TotalAmount = ComputeTotal(*room, plan, b.Nights(), b.TotalGuests())
		}
		if b.PaymentStatus != models.PaymentRefunded && b.PaymentStatus != models.PaymentCancelled {
			b.PaymentStatus = models.DerivePaymentStatus(b.AdvancePayment, b.TotalAmount)
		}

		if err := ValidateBooking(b, *room, now, false); err != nil {
			return err
		}
		if err := ensureAvailable(ctx, tx, *room, b.CheckInDate, b.CheckOutDate, b.ID); err != nil {
			return err
		}
		if err := tx.SaveBooking(ctx, &b); err != nil {
			return err
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// lockBookingRoom locks the booking's room and then the booking itself.
// Check-in takes the same two locks in the same order.
func lockBookingRoom(ctx context.Context, tx Store, id uint) (*models.Booking, *models.Room, error) {
	peek, err := tx.Booking(ctx, id, false)
	if err != nil {
		return nil, nil, err
	}
	room, err := tx.Room(ctx, peek.RoomID, true)
	if err != nil {
		return nil, nil, err
	}
	b, err := tx.Booking(ctx, id, true)
	if err != nil {
		return nil, nil, err
	}
	if b.RoomID != room.ID {
		return nil, nil, &Error{
			Kind:      ErrAvailabilityConflict,
			Message:   fmt.Sprintf("booking %d moved to another room, retry", id),
			BookingID: id,
			RoomID:    b.RoomID,
		}
	}
	return b, room, nil
}

// planTransition validates ev for b and returns the mutation to apply. It
// performs reads only. Entering a blocking status from PENDING re-checks
// availability in the same unit of work.
func (s *BookingService) planTransition(ctx context.Context, tx Store, b models.Booking, room models.Room, ev models.LifecycleEvent, now time.Time) (Mutation, error) {
	m, err := ApplyTransition(b, room, ev, now)
	if err != nil {
		return Mutation{}, err
	}
	if EntersBlocking(b, ev) {
		if err := ensureAvailable(ctx, tx, room, b.CheckInDate, b.CheckOutDate, b.ID); err != nil {
			return Mutation{}, err
		}
	}
	return m, nil
}

// Transition fires ev on booking id and commits the resulting mutation set.
func (s *BookingService) Transition(ctx context.Context, id uint, ev models.LifecycleEvent) (*models.Booking, error) {
	now := s.Now()

	var m Mutation
	err := s.Store.InTx(ctx, func(tx Store) error {
		b, room, err := lockBookingRoom(ctx, tx, id)
		if err != nil {
			return err
		}
		plain := *b
		plain.Guest, plain.Room, plain.RatePlan = nil, nil, nil

		if m, err = s.planTransition(ctx, tx, plain, *room, ev, now); err != nil {
			return err
		}
		return tx.ApplyMutation(ctx, &m)
	})
	if err != nil {
		if errors.Is(err, ErrInvalidTransition) {
			log.Printf("booking %d: %v", id, err)
		}
		return nil, err
	}

	s.publishMutation(ctx, m, "")
	return &m.Booking, nil
}

func (s *BookingService) Confirm(ctx context.Context, id uint) (*models.Booking, error) {
	return s.Transition(ctx, id, models.EventConfirm)
}

func (s *BookingService) CheckIn(ctx context.Context, id uint) (*models.Booking, error) {
	return s.Transition(ctx, id, models.EventCheckIn)
}

func (s *BookingService) CheckOut(ctx context.Context, id uint) (*models.Booking, error) {
	return s.Transition(ctx, id, models.EventCheckOut)
}

func (s *BookingService) Cancel(ctx context.Context, id uint) (*models.Booking, error) {
	return s.Transition(ctx, id, models.EventCancel)
}

func (s *BookingService) MarkNoShow(ctx context.Context, id uint) (*models.Booking, error) {
	return s.Transition(ctx, id, models.EventNoShow)
}

// RecordPayment adds amount to the booking's advance payment.
func (s *BookingService) RecordPayment(ctx context.Context, id uint, amount decimal.Decimal) (*models.Booking, error) {
	if !amount.IsPositive() {
		return nil, newError(ErrInvalidInput, "payment amount must be positive")
	}

	var updated models.Booking
	err := s.Store.InTx(ctx, func(tx Store) error {
		b, err := tx.Booking(ctx, id, true)
		if err != nil {
			return err
		}
		if b.Status == models.BookingCanceled || b.Status == models.BookingNoShow {
			return invalidTransition(*b, "pay", "booking is "+string(b.Status))
		}
		next := b.AdvancePayment.Add(amount.Round(2))
		if next.GreaterThan(b.TotalAmount) {
			return &Error{
				Kind:      ErrPaymentOverAdvance,
				Message:   "payment of " + amount.StringFixed(2) + " exceeds the remaining " + b.RemainingAmount().StringFixed(2),
				BookingID: b.ID,
			}
		}
		b.AdvancePayment = next
		b.PaymentStatus = models.DerivePaymentStatus(next, b.TotalAmount)
		b.Guest, b.Room, b.RatePlan = nil, nil, nil
		if err := tx.SaveBooking(ctx, b); err != nil {
			return err
		}
		updated = *b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Quote prices a prospective stay without creating anything.
func (s *BookingService) Quote(ctx context.Context, roomID uint, ratePlanID *uint, checkIn, checkOut time.Time, occupancy int) (PriceQuote, error) {
	if err := ValidateStayDates(checkIn, checkOut, s.Now(), false); err != nil {
		return PriceQuote{}, err
	}
	room, err := s.Store.Room(ctx, roomID, false)
	if err != nil {
		return PriceQuote{}, err
	}
	var plan *models.RatePlan
	if ratePlanID != nil && *ratePlanID != 0 {
		if plan, err = s.Store.RatePlan(ctx, *ratePlanID); err != nil {
			return PriceQuote{}, err
		}
	}
	return QuoteStay(*room, plan, models.NightsBetween(checkIn, checkOut), occupancy), nil
}

func (s *BookingService) Get(ctx context.Context, id uint) (*models.Booking, error) {
	return s.Store.Booking(ctx, id, false)
}

func (s *BookingService) History(ctx context.Context, id uint) ([]models.BookingEvent, error) {
	if _, err := s.Store.Booking(ctx, id, false); err != nil {
		return nil, err
	}
	return s.Store.BookingEvents(ctx, id)
}

func (s *BookingService) List(ctx context.Context, f BookingFilter) ([]models.Booking, int64, error) {
	f.Page, f.PageSize = Normalize(f.Page, f.PageSize, 10)
	f.Search = strings.TrimSpace(f.Search)
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, newError(ErrInvalidInput, "unknown booking status %q", f.Status)
	}
	return s.Store.ListBookings(ctx, f)
}

func (s *BookingService) publishMutation(ctx context.Context, m Mutation, checkInID string) {
	msg := LifecycleMessage{
		BookingID:  m.Booking.ID,
		CheckInID:  checkInID,
		RoomID:     m.Event.RoomID,
		Event:      m.Event.Event,
		FromStatus: m.Event.FromStatus,
		ToStatus:   m.Event.ToStatus,
		RoomStatus: m.Event.RoomStatusAfter,
		OccurredAt: m.Event.OccurredAt,
	}
	s.publish(ctx, msg)
}

// publish is best-effort: the transition already committed.
func (s *BookingService) publish(ctx context.Context, msg LifecycleMessage) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, msg); err != nil {
		log.Printf("warning: publish %s for booking %d failed: %v", msg.Event, msg.BookingID, err)
	}
}
