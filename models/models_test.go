package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestNightsBetween(t *testing.T) {
	in := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	require.Equal(t, 3, NightsBetween(in, in.AddDate(0, 0, 3)))
	require.Equal(t, 0, NightsBetween(in, in))
	require.Equal(t, -1, NightsBetween(in, in.AddDate(0, 0, -1)))

	// time of day is ignored
	late := time.Date(2025, 1, 1, 23, 30, 0, 0, time.UTC)
	require.Equal(t, 1, NightsBetween(late, time.Date(2025, 1, 2, 0, 5, 0, 0, time.UTC)))
}

func TestRatePlanRate(t *testing.T) {
	plan := RatePlan{
		ID:             7,
		Active:         true,
		NightlyRate:    decimal.NewFromInt(800),
		IncludedGuests: 2,
		ExtraGuestRate: decimal.NewFromInt(150),
		MinNights:      2,
		MaxOccupancy:   intPtr(4),
	}

	total, rpErr := plan.Rate(3, 2)
	require.Nil(t, rpErr)
	require.Equal(t, "2400.00", total.StringFixed(2))

	total, rpErr = plan.Rate(2, 3)
	require.Nil(t, rpErr)
	require.Equal(t, "1900.00", total.StringFixed(2))

	_, rpErr = plan.Rate(1, 2)
	require.NotNil(t, rpErr)
	require.Equal(t, RatePlanBelowMinNights, rpErr.Reason)

	_, rpErr = plan.Rate(3, 5)
	require.NotNil(t, rpErr)
	require.Equal(t, RatePlanOccupancyExceeded, rpErr.Reason)

	_, rpErr = plan.Rate(0, 2)
	require.NotNil(t, rpErr)
	require.Equal(t, RatePlanInvalidNights, rpErr.Reason)

	plan.Active = false
	_, rpErr = plan.Rate(3, 2)
	require.NotNil(t, rpErr)
	require.Equal(t, RatePlanInactive, rpErr.Reason)
	require.Contains(t, rpErr.Error(), "rate plan 7")
}

func TestBookingGuards(t *testing.T) {
	cases := []struct {
		status                            BookingStatus
		checkIn, checkOut, cancel, noShow bool
	}{
		{BookingPending, true, false, true, true},
		{BookingConfirmed, true, false, true, true},
		{BookingCheckedIn, false, true, false, false},
		{BookingCheckedOut, false, false, false, false},
		{BookingCanceled, false, false, false, false},
		{BookingNoShow, false, false, false, false},
	}
	for _, tc := range cases {
		b := Booking{Status: tc.status}
		require.Equal(t, tc.checkIn, b.CanCheckIn(), tc.status)
		require.Equal(t, tc.checkOut, b.CanCheckOut(), tc.status)
		require.Equal(t, tc.cancel, b.CanCancel(), tc.status)
		require.Equal(t, tc.noShow, b.CanMarkNoShow(), tc.status)
	}
	require.True(t, Booking{Status: BookingPending}.CanConfirm())
	require.False(t, Booking{Status: BookingConfirmed}.CanConfirm())
}

func TestDerivePaymentStatus(t *testing.T) {
	total := decimal.NewFromInt(3000)
	require.Equal(t, PaymentPending, DerivePaymentStatus(decimal.Zero, total))
	require.Equal(t, PaymentPartial, DerivePaymentStatus(decimal.NewFromInt(500), total))
	require.Equal(t, PaymentPaid, DerivePaymentStatus(total, total))
}

func TestCheckInDerivedAmounts(t *testing.T) {
	c := CheckIn{TotalAmount: decimal.NewFromInt(3000), AdvancePayment: decimal.NewFromInt(750)}
	require.Equal(t, "2250.00", c.RemainingAmount().StringFixed(2))
	require.Equal(t, "25.00", c.PaymentPercentage().StringFixed(2))
	require.True(t, c.IsWalkIn())

	free := CheckIn{}
	require.True(t, free.PaymentPercentage().IsZero())
	require.True(t, free.RemainingAmount().IsZero())

	id := uint(3)
	require.False(t, CheckIn{BookingID: &id}.IsWalkIn())
}

func TestGuestDeriveMemberID(t *testing.T) {
	_, ok := Guest{ID: 42, LoyaltyLevel: LoyaltyBronze}.DeriveMemberID()
	require.False(t, ok)

	_, ok = Guest{LoyaltyLevel: LoyaltyGold}.DeriveMemberID()
	require.False(t, ok)

	id, ok := Guest{ID: 42, LoyaltyLevel: LoyaltyGold}.DeriveMemberID()
	require.True(t, ok)
	require.Equal(t, "GOL000042", id)

	require.Equal(t, "Ada Lovelace", Guest{FirstName: "Ada", LastName: "Lovelace"}.FullName())
}

func TestRoomCapacity(t *testing.T) {
	_, ok := Room{}.Capacity()
	require.False(t, ok)

	_, ok = Room{RoomType: &RoomType{}}.Capacity()
	require.False(t, ok)

	c, ok := Room{RoomType: &RoomType{Capacity: intPtr(3)}}.Capacity()
	require.True(t, ok)
	require.Equal(t, 3, c)
}
