package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"hotel-pms/models"
)

const (
	roomTwin   uint = 1 // 101, capacity 2
	roomSuite  uint = 2 // 102, no type, default rate 1000
	roomRepair uint = 3 // 103, under maintenance
	guestAnna  uint = 11
	guestBen   uint = 12
)

type fixture struct {
	store    *memStore
	events   *recordingPublisher
	bookings *BookingService
	checkIns *CheckInService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newMemStore()

	twinType := &models.RoomType{ID: 21, TypeName: "Twin", Capacity: intPtr(2),
		PricePerNight: decimal.NullDecimal{Decimal: decimal.NewFromInt(1500), Valid: true}}
	store.rooms[roomTwin] = models.Room{RoomNumber: "101", Status: models.RoomAvailable, RoomTypeID: &twinType.ID, RoomType: twinType}
	store.rooms[roomSuite] = models.Room{RoomNumber: "102", Status: models.RoomAvailable, DefaultRate: decimal.NewFromInt(1000)}
	store.rooms[roomRepair] = models.Room{RoomNumber: "103", Status: models.RoomMaintenance, DefaultRate: decimal.NewFromInt(900)}
	for id, r := range store.rooms {
		r.ID = id
		store.rooms[id] = r
	}
	store.guests[guestAnna] = models.Guest{ID: guestAnna, FirstName: "Anna", LastName: "Berg", Email: "anna@example.com"}
	store.guests[guestBen] = models.Guest{ID: guestBen, FirstName: "Ben", LastName: "Cole", Email: "ben@example.com"}
	store.plans[31] = models.RatePlan{ID: 31, Code: "BAR", Active: true, NightlyRate: decimal.NewFromInt(800), IncludedGuests: 2, MinNights: 1}

	events := &recordingPublisher{}
	bookings := NewBookingService(store, events)
	bookings.Now = fixedClock
	checkIns := NewCheckInService(store, bookings, nil, "CI")
	checkIns.Now = fixedClock

	return &fixture{store: store, events: events, bookings: bookings, checkIns: checkIns}
}

func stay(guest, room uint, from, to int) BookingInput {
	return BookingInput{GuestID: guest, RoomID: room, CheckInDate: day(from), CheckOutDate: day(to), Adults: 1}
}
