package services

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"hotel-pms/models"
)

func TestApplyTransitionCheckInAndOut(t *testing.T) {
	b := booking(5, roomTwin, models.BookingConfirmed, 0, 2)
	room := models.Room{RoomNumber: "101", Status: models.RoomAvailable}
	room.ID = roomTwin

	m, err := ApplyTransition(b, room, models.EventCheckIn, testNow)
	require.NoError(t, err)
	require.Equal(t, models.BookingCheckedIn, m.Booking.Status)
	require.NotNil(t, m.Booking.ActualCheckInTime)
	require.Equal(t, testNow, *m.Booking.ActualCheckInTime)
	require.NotNil(t, m.Room)
	require.Equal(t, models.RoomOccupied, m.Room.Status)
	require.Equal(t, models.BookingConfirmed, m.Event.FromStatus)
	require.Equal(t, models.BookingCheckedIn, m.Event.ToStatus)
	require.Equal(t, models.RoomAvailable, m.Event.RoomStatusBefore)
	require.Equal(t, models.RoomOccupied, m.Event.RoomStatusAfter)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(m.Event.Payload, &payload))
	require.Contains(t, payload, "room")

	// input is untouched
	require.Equal(t, models.BookingConfirmed, b.Status)

	_, err = ApplyTransition(m.Booking, *m.Room, models.EventCheckIn, testNow)
	require.True(t, errors.Is(err, ErrInvalidTransition))

	out, err := ApplyTransition(m.Booking, *m.Room, models.EventCheckOut, testNow.Add(48*time.Hour))
	require.NoError(t, err)
	require.Equal(t, models.BookingCheckedOut, out.Booking.Status)
	require.NotNil(t, out.Booking.ActualCheckOutTime)
	require.Equal(t, models.RoomAvailable, out.Room.Status)

	_, err = ApplyTransition(out.Booking, *out.Room, models.EventCancel, testNow)
	require.True(t, errors.Is(err, ErrInvalidTransition))
}

func TestApplyTransitionCancel(t *testing.T) {
	b := booking(6, roomSuite, models.BookingPending, 1, 2)
	b.PaymentStatus = models.PaymentPending
	room := models.Room{Status: models.RoomReserved}
	room.ID = roomSuite

	m, err := ApplyTransition(b, room, models.EventCancel, testNow)
	require.NoError(t, err)
	require.Equal(t, models.BookingCanceled, m.Booking.Status)
	require.Equal(t, models.PaymentCancelled, m.Booking.PaymentStatus)
	require.Equal(t, models.RoomAvailable, m.Room.Status)

	// a room that never changed is left out of the mutation
	room.Status = models.RoomAvailable
	b.PaymentStatus = models.PaymentPartial
	m, err = ApplyTransition(b, room, models.EventCancel, testNow)
	require.NoError(t, err)
	require.Nil(t, m.Room)
	require.Equal(t, models.PaymentPartial, m.Booking.PaymentStatus)
}

func TestApplyTransitionGuards(t *testing.T) {
	room := models.Room{Status: models.RoomAvailable}
	room.ID = roomSuite

	cases := []struct {
		name   string
		status models.BookingStatus
		event  models.LifecycleEvent
		ok     bool
	}{
		{"confirm pending", models.BookingPending, models.EventConfirm, true},
		{"confirm confirmed", models.BookingConfirmed, models.EventConfirm, false},
		{"check out confirmed", models.BookingConfirmed, models.EventCheckOut, false},
		{"cancel checked in", models.BookingCheckedIn, models.EventCancel, false},
		{"cancel checked out", models.BookingCheckedOut, models.EventCancel, false},
		{"no-show canceled", models.BookingCanceled, models.EventNoShow, false},
		{"unknown event", models.BookingConfirmed, models.LifecycleEvent("teleport"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ApplyTransition(booking(1, roomSuite, tc.status, 0, 2), room, tc.event, testNow)
			if tc.ok {
				require.NoError(t, err)
				return
			}
			require.True(t, errors.Is(err, ErrInvalidTransition), "got %v", err)
		})
	}
}

func TestApplyTransitionNoShowWaitsForArrivalDate(t *testing.T) {
	room := models.Room{Status: models.RoomAvailable}
	room.ID = roomSuite
	b := booking(1, roomSuite, models.BookingConfirmed, 2, 4)

	_, err := ApplyTransition(b, room, models.EventNoShow, testNow)
	require.True(t, errors.Is(err, ErrInvalidTransition))

	m, err := ApplyTransition(b, room, models.EventNoShow, day(2))
	require.NoError(t, err)
	require.Equal(t, models.BookingNoShow, m.Booking.Status)
}

func TestApplyTransitionWrongRoom(t *testing.T) {
	room := models.Room{Status: models.RoomAvailable}
	room.ID = roomTwin
	_, err := ApplyTransition(booking(1, roomSuite, models.BookingConfirmed, 0, 2), room, models.EventCheckIn, testNow)
	require.True(t, errors.Is(err, ErrInvalidInput))
}

func TestValidateStayDates(t *testing.T) {
	err := ValidateStayDates(day(1), day(1), testNow, true)
	require.True(t, errors.Is(err, ErrInvalidDateRange))
	e, ok := AsError(err)
	require.True(t, ok)
	require.NotNil(t, e.Range)

	require.True(t, errors.Is(ValidateStayDates(day(2), day(1), testNow, false), ErrInvalidDateRange))
	require.True(t, errors.Is(ValidateStayDates(day(-1), day(1), testNow, true), ErrInvalidDateRange))
	require.NoError(t, ValidateStayDates(day(-1), day(1), testNow, false))
	require.NoError(t, ValidateStayDates(day(0), day(1), testNow, true))
}

func TestValidateBooking(t *testing.T) {
	cap2 := models.Room{RoomType: &models.RoomType{Capacity: intPtr(2)}}
	cap2.ID = roomTwin

	b := booking(0, roomTwin, models.BookingConfirmed, 1, 3)
	b.Adults, b.Children = 2, 1
	b.TotalAmount = decimal.NewFromInt(3000)
	err := ValidateBooking(b, cap2, testNow, true)
	require.True(t, errors.Is(err, ErrCapacityExceeded))

	b.Children = 0
	require.NoError(t, ValidateBooking(b, cap2, testNow, true))

	b.AdvancePayment = decimal.NewFromInt(3001)
	require.True(t, errors.Is(ValidateBooking(b, cap2, testNow, true), ErrPaymentOverAdvance))

	b.AdvancePayment = decimal.Zero
	b.Adults = 0
	require.True(t, errors.Is(ValidateBooking(b, cap2, testNow, true), ErrInvalidInput))

	// unknown capacity is not enforced
	b.Adults = 9
	noType := models.Room{}
	noType.ID = roomTwin
	require.NoError(t, ValidateBooking(b, noType, testNow, true))
}
