package services

import (
	"log"

	"github.com/shopspring/decimal"

	"hotel-pms/models"
)

type PriceSource string

const (
	SourceRatePlan    PriceSource = "rate_plan"
	SourceRoomType    PriceSource = "room_type"
	SourceRoomDefault PriceSource = "room_default"
	SourceNone        PriceSource = "none"
)

// PriceQuote is a priced stay plus the source that priced it. Warning is set
// when a rate plan was supplied but could not price the stay.
type PriceQuote struct {
	Total   decimal.Decimal `json:"total"`
	Nights  int             `json:"nights"`
	Source  PriceSource     `json:"source"`
	Warning string          `json:"warning,omitempty"`
}

// QuoteStay prices a stay: an applicable rate plan first, then the room
// type's nightly price, then the room's own default rate.
func QuoteStay(room models.Room, plan *models.RatePlan, nights, occupancy int) PriceQuote {
	q := PriceQuote{Total: decimal.Zero, Nights: nights, Source: SourceNone}
	if nights <= 0 {
		return q
	}

	if plan != nil {
		total, rpErr := plan.Rate(nights, occupancy)
		if rpErr == nil {
			q.Total = total.Round(2)
			q.Source = SourceRatePlan
			return q
		}
		q.Warning = rpErr.Error()
		log.Printf("pricing: %v, falling back for room %d", rpErr, room.ID)
	}

	n := decimal.NewFromInt(int64(nights))
	if room.RoomType != nil && room.RoomType.PricePerNight.Valid {
		q.Total = room.RoomType.PricePerNight.Decimal.Mul(n).Round(2)
		q.Source = SourceRoomType
		return q
	}
	if room.DefaultRate.IsPositive() {
		q.Total = room.DefaultRate.Mul(n).Round(2)
		q.Source = SourceRoomDefault
	}
	return q
}

// ComputeTotal returns only the total of QuoteStay.
func ComputeTotal(room models.Room, plan *models.RatePlan, nights, occupancy int) decimal.Decimal {
	return QuoteStay(room, plan, nights, occupancy).Total
}
