package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RatePlan is a pricing policy that produces a stay total from nights and
// occupancy, independently of the room's own rate.
type RatePlan struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"size:32;uniqueIndex" json:"code"`
	Name string `gorm:"size:150" json:"name"`

	Active         bool            `gorm:"not null" json:"active"`
	NightlyRate    decimal.Decimal `gorm:"type:decimal(10,2)" json:"nightlyRate"`
	IncludedGuests int             `gorm:"default:2" json:"includedGuests"`
	ExtraGuestRate decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"extraGuestRate"`
	MinNights      int             `gorm:"default:1" json:"minNights"`
	MaxOccupancy   *int            `json:"maxOccupancy,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type RatePlanFailure string

const (
	RatePlanInactive          RatePlanFailure = "inactive"
	RatePlanInvalidNights     RatePlanFailure = "invalid_nights"
	RatePlanBelowMinNights    RatePlanFailure = "below_min_nights"
	RatePlanOccupancyExceeded RatePlanFailure = "occupancy_exceeded"
	RatePlanNotPriced         RatePlanFailure = "not_priced"
)

// RatePlanError explains why a rate plan could not price a stay.
type RatePlanError struct {
	PlanID uint
	Reason RatePlanFailure
	Detail string
}

func (e *RatePlanError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("rate plan %d: %s", e.PlanID, e.Reason)
	}
	return fmt.Sprintf("rate plan %d: %s (%s)", e.PlanID, e.Reason, e.Detail)
}

// Rate computes the total for the stay. The nightly rate covers IncludedGuests;
// every guest above that adds ExtraGuestRate per night.
func (p RatePlan) Rate(nights, occupancy int) (decimal.Decimal, *RatePlanError) {
	if !p.Active {
		return decimal.Zero, &RatePlanError{PlanID: p.ID, Reason: RatePlanInactive}
	}
	if nights <= 0 {
		return decimal.Zero, &RatePlanError{PlanID: p.ID, Reason: RatePlanInvalidNights, Detail: fmt.Sprintf("nights=%d", nights)}
	}
	if p.MinNights > 0 && nights < p.MinNights {
		return decimal.Zero, &RatePlanError{
			PlanID: p.ID,
			Reason: RatePlanBelowMinNights,
			Detail: fmt.Sprintf("nights=%d min=%d", nights, p.MinNights),
		}
	}
	if p.MaxOccupancy != nil && occupancy > *p.MaxOccupancy {
		return decimal.Zero, &RatePlanError{
			PlanID: p.ID,
			Reason: RatePlanOccupancyExceeded,
			Detail: fmt.Sprintf("occupancy=%d max=%d", occupancy, *p.MaxOccupancy),
		}
	}
	if !p.NightlyRate.IsPositive() {
		return decimal.Zero, &RatePlanError{PlanID: p.ID, Reason: RatePlanNotPriced}
	}

	perNight := p.NightlyRate
	if extra := occupancy - p.IncludedGuests; extra > 0 && p.ExtraGuestRate.IsPositive() {
		perNight = perNight.Add(p.ExtraGuestRate.Mul(decimal.NewFromInt(int64(extra))))
	}
	return perNight.Mul(decimal.NewFromInt(int64(nights))).Round(2), nil
}
