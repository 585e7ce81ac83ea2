package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"hotel-pms/models"
)

type RatePlanService struct {
	DB *gorm.DB
}

func NewRatePlanService(db *gorm.DB) *RatePlanService {
	return &RatePlanService{DB: db}
}

func checkRatePlan(p *models.RatePlan) error {
	p.Code = strings.ToUpper(strings.TrimSpace(p.Code))
	p.Name = strings.TrimSpace(p.Name)
	if p.Code == "" || p.Name == "" {
		return newError(ErrInvalidInput, "code and name are required")
	}
	if p.NightlyRate.IsNegative() || p.ExtraGuestRate.IsNegative() {
		return newError(ErrInvalidInput, "rates cannot be negative")
	}
	if p.IncludedGuests < 0 || p.MinNights < 0 {
		return newError(ErrInvalidInput, "included guests and minimum nights cannot be negative")
	}
	if p.MaxOccupancy != nil && *p.MaxOccupancy < 1 {
		return newError(ErrInvalidInput, "max occupancy must be at least 1")
	}
	p.NightlyRate = p.NightlyRate.Round(2)
	p.ExtraGuestRate = p.ExtraGuestRate.Round(2)
	return nil
}

func (s *RatePlanService) Create(ctx context.Context, p *models.RatePlan) error {
	if err := checkRatePlan(p); err != nil {
		return err
	}
	p.ID = 0
	return dbError(s.DB.WithContext(ctx).Create(p).Error, "rate plan "+p.Code, 0)
}

func (s *RatePlanService) List(ctx context.Context, activeOnly bool) ([]models.RatePlan, error) {
	q := s.DB.WithContext(ctx)
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var plans []models.RatePlan
	err := q.Order("code ASC").Find(&plans).Error
	return plans, err
}

func (s *RatePlanService) GetByID(ctx context.Context, id uint) (*models.RatePlan, error) {
	var p models.RatePlan
	if err := s.DB.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, dbError(err, "rate plan", id)
	}
	return &p, nil
}

// Update replaces the plan. Existing bookings keep the total they were priced at.
func (s *RatePlanService) Update(ctx context.Context, id uint, in models.RatePlan) (*models.RatePlan, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.ID = existing.ID
	in.CreatedAt = existing.CreatedAt
	if err := checkRatePlan(&in); err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Save(&in).Error; err != nil {
		return nil, dbError(err, "rate plan "+in.Code, id)
	}
	return &in, nil
}

// SetActive toggles a plan without touching its prices.
func (s *RatePlanService) SetActive(ctx context.Context, id uint, active bool) (*models.RatePlan, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Model(p).Update("active", active).Error; err != nil {
		return nil, err
	}
	p.Active = active
	return p, nil
}
