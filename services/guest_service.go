package services

import (
	"context"
	"log"
	"strings"

	"gorm.io/gorm"

	"hotel-pms/models"
)

type GuestService struct {
	DB *gorm.DB
}

func NewGuestService(db *gorm.DB) *GuestService {
	return &GuestService{DB: db}
}

func normalizeGuest(g *models.Guest) error {
	g.FirstName = strings.TrimSpace(g.FirstName)
	g.LastName = strings.TrimSpace(g.LastName)
	g.Email = strings.ToLower(strings.TrimSpace(g.Email))
	if g.FirstName == "" || g.LastName == "" {
		return newError(ErrInvalidInput, "first and last name are required")
	}
	if g.Email == "" {
		return newError(ErrInvalidInput, "email is required")
	}
	if g.LoyaltyLevel == "" {
		g.LoyaltyLevel = models.LoyaltyBronze
	}
	switch g.LoyaltyLevel {
	case models.LoyaltyBronze, models.LoyaltySilver, models.LoyaltyGold, models.LoyaltyPlatinum, models.LoyaltyDiamond:
	default:
		return newError(ErrInvalidInput, "unknown loyalty level %q", g.LoyaltyLevel)
	}
	return nil
}

// Create takes a pointer so the generated id and member id flow back.
func (s *GuestService) Create(ctx context.Context, guest *models.Guest) error {
	log.Printf("➡️ GuestService.Create email=%s", guest.Email)
	if err := normalizeGuest(guest); err != nil {
		return err
	}
	guest.ID = 0
	guest.MemberID = nil

	err := s.DB.WithContext(ctx).Create(guest).Error
	log.Printf("⬅️ GuestService.Create id=%d (err: %v)", guest.ID, err)
	return dbError(err, "guest", guest.ID)
}

// List searches name, email and phone, newest first.
func (s *GuestService) List(ctx context.Context, search string, page, size int) ([]models.Guest, int64, error) {
	page, size = Normalize(page, size, 20)

	q := s.DB.WithContext(ctx).Model(&models.Guest{})
	if search = strings.TrimSpace(search); search != "" {
		like := "%" + search + "%"
		q = q.Where("first_name LIKE ? OR last_name LIKE ? OR email LIKE ? OR contact_number LIKE ?", like, like, like, like)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var guests []models.Guest
	err := q.Order("id DESC").Offset((page - 1) * size).Limit(size).Find(&guests).Error
	if err != nil {
		log.Printf("⬅️ GuestService.List error: %v", err)
		return nil, 0, err
	}
	return guests, total, nil
}

func (s *GuestService) GetByID(ctx context.Context, id uint) (*models.Guest, error) {
	var guest models.Guest
	if err := s.DB.WithContext(ctx).First(&guest, id).Error; err != nil {
		return nil, dbError(err, "guest", id)
	}
	return &guest, nil
}

func (s *GuestService) Update(ctx context.Context, id uint, in models.Guest) (*models.Guest, error) {
	log.Printf("➡️ GuestService.Update id=%d", id)
	guest, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	in.ID = guest.ID
	in.CreatedAt = guest.CreatedAt
	if guest.LoyaltyLevel == in.LoyaltyLevel || in.LoyaltyLevel == "" {
		in.MemberID = guest.MemberID
	} else {
		// tier changed, AfterSave derives a fresh member id
		in.MemberID = nil
	}
	if err := normalizeGuest(&in); err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Save(&in).Error; err != nil {
		return nil, dbError(err, "guest", id)
	}
	return &in, nil
}

// Delete refuses while the guest still has open bookings.
func (s *GuestService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	var open int64
	err := s.DB.WithContext(ctx).Model(&models.Booking{}).
		Where("guest_id = ? AND status IN ?", id, []models.BookingStatus{models.BookingPending, models.BookingConfirmed, models.BookingCheckedIn}).
		Count(&open).Error
	if err != nil {
		return err
	}
	if open > 0 {
		log.Printf("⚠️ GuestService.Delete blocked id=%d open=%d", id, open)
		return newError(ErrInvalidInput, "guest %d has %d open bookings", id, open)
	}
	return s.DB.WithContext(ctx).Delete(&models.Guest{}, id).Error
}
