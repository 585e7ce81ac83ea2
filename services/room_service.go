package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotel-pms/models"
)

// RoomService maintains the room and room type registry.
type RoomService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{DB: db, Now: time.Now}
}

func (s *RoomService) checkRoom(ctx context.Context, room *models.Room) error {
	room.RoomNumber = strings.TrimSpace(room.RoomNumber)
	if room.RoomNumber == "" {
		return newError(ErrInvalidInput, "room number is required")
	}
	if room.Status == "" {
		room.Status = models.RoomAvailable
	}
	if !room.Status.Valid() {
		return newError(ErrInvalidInput, "invalid room status %q", room.Status)
	}
	if room.DefaultRate.IsNegative() {
		return newError(ErrInvalidInput, "default rate cannot be negative")
	}
	room.DefaultRate = room.DefaultRate.Round(2)
	if room.RoomTypeID != nil {
		if *room.RoomTypeID == 0 {
			room.RoomTypeID = nil
		} else if _, err := s.GetType(ctx, *room.RoomTypeID); err != nil {
			return err
		}
	}
	return nil
}

func (s *RoomService) Create(ctx context.Context, room *models.Room) error {
	if err := s.checkRoom(ctx, room); err != nil {
		return err
	}
	room.ID = 0
	room.RoomType = nil
	return dbError(s.DB.WithContext(ctx).Create(room).Error, "room", 0)
}

func (s *RoomService) List(ctx context.Context, status models.RoomStatus, roomTypeID uint) ([]models.Room, error) {
	q := s.DB.WithContext(ctx).Preload("RoomType")
	if status != "" {
		if !status.Valid() {
			return nil, newError(ErrInvalidInput, "invalid room status %q", status)
		}
		q = q.Where("status = ?", status)
	}
	if roomTypeID != 0 {
		q = q.Where("room_type_id = ?", roomTypeID)
	}
	var rooms []models.Room
	err := q.Order("room_number ASC").Find(&rooms).Error
	return rooms, err
}

func (s *RoomService) GetByID(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	if err := s.DB.WithContext(ctx).Preload("RoomType").First(&room, id).Error; err != nil {
		return nil, dbError(err, "room", id)
	}
	return &room, nil
}

// Update edits descriptive fields. Status changes go through UpdateStatus.
func (s *RoomService) Update(ctx context.Context, id uint, in models.Room) (*models.Room, error) {
	room, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	room.RoomNumber = in.RoomNumber
	room.RoomTypeID = in.RoomTypeID
	room.Floor = in.Floor
	room.DefaultRate = in.DefaultRate
	room.Description = in.Description
	if err := s.checkRoom(ctx, room); err != nil {
		return nil, err
	}
	room.RoomType = nil
	if err := s.DB.WithContext(ctx).Save(room).Error; err != nil {
		return nil, dbError(err, "room", id)
	}
	return s.GetByID(ctx, id)
}

// UpdateStatus is the housekeeping override. OCCUPIED is entered and left
// only through check-in and checkout, so an occupied room is refused.
func (s *RoomService) UpdateStatus(ctx context.Context, id uint, status models.RoomStatus) (*models.Room, error) {
	if !status.Valid() {
		return nil, newError(ErrInvalidInput, "invalid room status %q", status)
	}
	if status == models.RoomOccupied {
		return nil, newError(ErrInvalidInput, "rooms become OCCUPIED only through check-in")
	}

	var room models.Room
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&room, id).Error; err != nil {
			return dbError(err, "room", id)
		}
		if room.Status == models.RoomOccupied {
			log.Printf("⚠️ RoomService.UpdateStatus refused room=%d %s -> %s", id, room.Status, status)
			return &Error{
				Kind:    ErrInvalidTransition,
				Message: fmt.Sprintf("room %s is occupied, check the guest out first", room.RoomNumber),
				RoomID:  id,
			}
		}
		return tx.Model(&models.Room{}).Where("id = ?", id).Update("status", status).Error
	})
	if err != nil {
		return nil, err
	}
	room.Status = status
	return &room, nil
}

// Delete refuses while blocking bookings still hold the room from today on.
func (s *RoomService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	var held int64
	err := s.DB.WithContext(ctx).Model(&models.Booking{}).
		Where("room_id = ? AND status IN ? AND check_out_date > ?", id, models.BlockingStatuses, models.DateOnly(s.Now())).
		Count(&held).Error
	if err != nil {
		return err
	}
	if held > 0 {
		return &Error{Kind: ErrAvailabilityConflict, Message: "room still has upcoming bookings", RoomID: id}
	}
	return s.DB.WithContext(ctx).Delete(&models.Room{}, id).Error
}

func (s *RoomService) CreateType(ctx context.Context, rt *models.RoomType) error {
	rt.TypeName = strings.TrimSpace(rt.TypeName)
	if rt.TypeName == "" {
		return newError(ErrInvalidInput, "type name is required")
	}
	if rt.Capacity != nil && *rt.Capacity < 1 {
		return newError(ErrInvalidInput, "capacity must be at least 1")
	}
	if rt.PricePerNight.Valid && rt.PricePerNight.Decimal.IsNegative() {
		return newError(ErrInvalidInput, "price per night cannot be negative")
	}
	rt.ID = 0
	return dbError(s.DB.WithContext(ctx).Create(rt).Error, "room type", 0)
}

func (s *RoomService) ListTypes(ctx context.Context) ([]models.RoomType, error) {
	var types []models.RoomType
	err := s.DB.WithContext(ctx).Order("type_name ASC").Find(&types).Error
	return types, err
}

func (s *RoomService) GetType(ctx context.Context, id uint) (*models.RoomType, error) {
	var rt models.RoomType
	if err := s.DB.WithContext(ctx).First(&rt, id).Error; err != nil {
		return nil, dbError(err, "room type", id)
	}
	return &rt, nil
}

// DeleteType refuses while rooms still reference the type.
func (s *RoomService) DeleteType(ctx context.Context, id uint) error {
	if _, err := s.GetType(ctx, id); err != nil {
		return err
	}
	var used int64
	if err := s.DB.WithContext(ctx).Model(&models.Room{}).Where("room_type_id = ?", id).Count(&used).Error; err != nil {
		return err
	}
	if used > 0 {
		return newError(ErrInvalidInput, "room type %d is used by %d rooms", id, used)
	}
	return s.DB.WithContext(ctx).Delete(&models.RoomType{}, id).Error
}
