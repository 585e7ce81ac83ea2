// Package repository implements services.Store on gorm and MySQL.
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotel-pms/models"
	"hotel-pms/services"
)

const dateLayout = "2006-01-02"

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

var _ services.Store = (*GormStore)(nil)

func (s *GormStore) with(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func locked(q *gorm.DB, forUpdate bool) *gorm.DB {
	if forUpdate {
		return q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

// wrap maps gorm misses to services.ErrNotFound and unique violations to
// services.ErrDuplicateKey.
func wrap(err error, resource string, id uint) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &services.Error{Kind: services.ErrNotFound, Message: fmt.Sprintf("%s %d not found", resource, id)}
	case services.IsDuplicateKey(err):
		return fmt.Errorf("%w: %v", services.ErrDuplicateKey, err)
	}
	return err
}

func (s *GormStore) InTx(ctx context.Context, fn func(tx services.Store) error) error {
	return s.with(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

// Room loads the room with its type. With forUpdate the room row stays
// locked until the surrounding transaction ends.
func (s *GormStore) Room(ctx context.Context, id uint, forUpdate bool) (*models.Room, error) {
	var room models.Room
	if err := locked(s.with(ctx), forUpdate).First(&room, id).Error; err != nil {
		return nil, wrap(err, "room", id)
	}
	if room.RoomTypeID != nil {
		var rt models.RoomType
		err := s.with(ctx).First(&rt, *room.RoomTypeID).Error
		switch {
		case err == nil:
			room.RoomType = &rt
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}
	}
	return &room, nil
}

func (s *GormStore) RoomsByStatus(ctx context.Context, status models.RoomStatus) ([]models.Room, error) {
	var rooms []models.Room
	err := s.with(ctx).Preload("RoomType").
		Where("status = ?", status).
		Order("room_number ASC").
		Find(&rooms).Error
	return rooms, err
}

func (s *GormStore) SaveRoom(ctx context.Context, room *models.Room) error {
	return wrap(s.with(ctx).Omit(clause.Associations).Save(room).Error, "room", room.ID)
}

func (s *GormStore) Guest(ctx context.Context, id uint) (*models.Guest, error) {
	var g models.Guest
	if err := s.with(ctx).First(&g, id).Error; err != nil {
		return nil, wrap(err, "guest", id)
	}
	return &g, nil
}

func (s *GormStore) RatePlan(ctx context.Context, id uint) (*models.RatePlan, error) {
	var p models.RatePlan
	if err := s.with(ctx).First(&p, id).Error; err != nil {
		return nil, wrap(err, "rate plan", id)
	}
	return &p, nil
}

// Booking preloads guest, room and rate plan on plain reads. Locked reads
// return the bare row.
func (s *GormStore) Booking(ctx context.Context, id uint, forUpdate bool) (*models.Booking, error) {
	q := s.with(ctx)
	if forUpdate {
		q = locked(q, true)
	} else {
		q = q.Preload("Guest").Preload("Room.RoomType").Preload("RatePlan")
	}
	var b models.Booking
	if err := q.First(&b, id).Error; err != nil {
		return nil, wrap(err, "booking", id)
	}
	return &b, nil
}

func (s *GormStore) BookingsOverlapping(ctx context.Context, roomID uint, r services.DateRange, statuses []models.BookingStatus) ([]models.Booking, error) {
	q := s.with(ctx).
		Where("status IN ?", statuses).
		Where("check_in_date < ? AND check_out_date > ?", r.To.Format(dateLayout), r.From.Format(dateLayout))
	if roomID != 0 {
		q = q.Where("room_id = ?", roomID)
	}
	var out []models.Booking
	err := q.Order("check_in_date ASC, id ASC").Find(&out).Error
	return out, err
}

func (s *GormStore) CreateBooking(ctx context.Context, b *models.Booking) error {
	return wrap(s.with(ctx).Omit(clause.Associations).Create(b).Error, "booking", 0)
}

func (s *GormStore) SaveBooking(ctx context.Context, b *models.Booking) error {
	return wrap(s.with(ctx).Omit(clause.Associations).Save(b).Error, "booking", b.ID)
}

func (s *GormStore) ListBookings(ctx context.Context, f services.BookingFilter) ([]models.Booking, int64, error) {
	q := s.with(ctx).Model(&models.Booking{}).
		Joins("LEFT JOIN guests ON guests.id = bookings.guest_id").
		Joins("LEFT JOIN rooms ON rooms.id = bookings.room_id")
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("guests.first_name LIKE ? OR guests.last_name LIKE ? OR guests.email LIKE ? OR rooms.room_number LIKE ? OR bookings.reference_code LIKE ?",
			like, like, like, like, like)
	}
	if f.Status != "" {
		q = q.Where("bookings.status = ?", f.Status)
	}
	if f.GuestID != 0 {
		q = q.Where("bookings.guest_id = ?", f.GuestID)
	}
	if f.RoomID != 0 {
		q = q.Where("bookings.room_id = ?", f.RoomID)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []models.Booking
	err := q.Preload("Guest").Preload("Room.RoomType").Preload("RatePlan").
		Order("bookings.created_at DESC").
		Offset((f.Page - 1) * f.PageSize).Limit(f.PageSize).
		Find(&out).Error
	return out, total, err
}

func (s *GormStore) RecordEvent(ctx context.Context, ev *models.BookingEvent) error {
	return s.with(ctx).Create(ev).Error
}

func (s *GormStore) BookingEvents(ctx context.Context, bookingID uint) ([]models.BookingEvent, error) {
	var out []models.BookingEvent
	err := s.with(ctx).Where("booking_id = ?", bookingID).Order("occurred_at ASC, id ASC").Find(&out).Error
	return out, err
}

// ApplyMutation writes booking, room status and audit row. Callers run it
// inside InTx so the three commit together.
func (s *GormStore) ApplyMutation(ctx context.Context, m *services.Mutation) error {
	if err := s.SaveBooking(ctx, &m.Booking); err != nil {
		return err
	}
	if m.Room != nil {
		err := s.with(ctx).Model(&models.Room{}).Where("id = ?", m.Room.ID).Update("status", m.Room.Status).Error
		if err != nil {
			return err
		}
	}
	return s.RecordEvent(ctx, &m.Event)
}

func (s *GormStore) CheckIn(ctx context.Context, id uint) (*models.CheckIn, error) {
	var c models.CheckIn
	err := s.with(ctx).Preload("Booking").Preload("Guest").Preload("Room").First(&c, id).Error
	if err != nil {
		return nil, wrap(err, "check-in", id)
	}
	return &c, nil
}

func (s *GormStore) CheckInByBooking(ctx context.Context, bookingID uint) (*models.CheckIn, error) {
	var out []models.CheckIn
	if err := s.with(ctx).Where("booking_id = ?", bookingID).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

func (s *GormStore) CheckInsOnDay(ctx context.Context, roomID uint, day services.DateRange, excludeID uint) ([]models.CheckIn, error) {
	q := s.with(ctx).
		Where("room_id = ?", roomID).
		Where("actual_check_in_time >= ? AND actual_check_in_time < ?", day.From, day.To)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var out []models.CheckIn
	err := q.Find(&out).Error
	return out, err
}

func (s *GormStore) CountCheckInIDs(ctx context.Context, prefix string) (int64, error) {
	var n int64
	err := s.with(ctx).Model(&models.CheckIn{}).Where("check_in_id LIKE ?", prefix+"%").Count(&n).Error
	return n, err
}

func (s *GormStore) CreateCheckIn(ctx context.Context, c *models.CheckIn) error {
	return wrap(s.with(ctx).Omit(clause.Associations).Create(c).Error, "check-in", 0)
}

func (s *GormStore) SaveCheckIn(ctx context.Context, c *models.CheckIn) error {
	return wrap(s.with(ctx).Omit(clause.Associations).Save(c).Error, "check-in", c.ID)
}

func (s *GormStore) checkInQuery(ctx context.Context, f services.CheckInFilter) *gorm.DB {
	q := s.with(ctx).Model(&models.CheckIn{}).
		Joins("LEFT JOIN guests ON guests.id = check_ins.guest_id").
		Joins("LEFT JOIN rooms ON rooms.id = check_ins.room_id")
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("check_ins.check_in_id LIKE ? OR guests.first_name LIKE ? OR guests.last_name LIKE ? OR guests.email LIKE ? OR rooms.room_number LIKE ?",
			like, like, like, like, like)
	}
	if f.PaymentStatus != "" {
		q = q.Where("check_ins.payment_status = ?", f.PaymentStatus)
	}
	if f.IDVerified != nil {
		q = q.Where("check_ins.id_proof_verified = ?", *f.IDVerified)
	}
	if f.Window != nil {
		q = q.Where("check_ins.actual_check_in_time >= ? AND check_ins.actual_check_in_time < ?", f.Window.From, f.Window.To)
	}
	return q
}

func (s *GormStore) ListCheckIns(ctx context.Context, f services.CheckInFilter) ([]models.CheckIn, int64, error) {
	var total int64
	if err := s.checkInQuery(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []models.CheckIn
	err := s.checkInQuery(ctx, f).
		Preload("Booking").Preload("Guest").Preload("Room").
		Order("check_ins.actual_check_in_time DESC").
		Offset((f.Page - 1) * f.PageSize).Limit(f.PageSize).
		Find(&out).Error
	return out, total, err
}

func (s *GormStore) CheckInStats(ctx context.Context, today services.DateRange) (*services.CheckInStats, error) {
	st := &services.CheckInStats{}
	db := s.with(ctx)
	counts := []struct {
		dst   *int64
		model any
		where string
		args  []any
	}{
		{&st.TotalCheckIns, &models.CheckIn{}, "1 = 1", nil},
		{&st.TodaysCheckIns, &models.CheckIn{}, "actual_check_in_time >= ? AND actual_check_in_time < ?", []any{today.From, today.To}},
		{&st.PendingPayments, &models.CheckIn{}, "payment_status = ?", []any{models.PaymentPending}},
		{&st.UnverifiedIDs, &models.CheckIn{}, "id_proof_verified = ?", []any{false}},
		{&st.AvailableRooms, &models.Room{}, "status = ?", []any{models.RoomAvailable}},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Where(c.where, c.args...).Count(c.dst).Error; err != nil {
			return nil, err
		}
	}

	err := db.Model(&models.CheckIn{}).
		Select("payment_status, COUNT(*) AS count").
		Group("payment_status").
		Scan(&st.PaymentSummary).Error
	if err != nil {
		return nil, err
	}

	err = db.Preload("Guest").Preload("Room").
		Order("actual_check_in_time DESC").Limit(5).
		Find(&st.RecentCheckIns).Error
	if err != nil {
		return nil, err
	}
	err = db.Preload("Guest").Preload("Room").
		Where("actual_check_in_time >= ? AND actual_check_in_time < ?", today.From, today.To).
		Order("actual_check_in_time ASC").
		Find(&st.TodaysCheckInList).Error
	if err != nil {
		return nil, err
	}
	return st, nil
}
