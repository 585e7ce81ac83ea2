package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hotel-pms/models"
	"hotel-pms/services"
)

func newMockStore(t *testing.T) (*GormStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{Conn: db, SkipInitializeWithVersion: true}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return NewGormStore(gdb), mock
}

func TestRoomNotFound(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery("SELECT \\* FROM `rooms`").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.Room(context.Background(), 7, false)
	require.True(t, errors.Is(err, services.ErrNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomForUpdateLoadsType(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery("SELECT \\* FROM `rooms` .*FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "room_number", "status", "room_type_id", "default_rate"}).
			AddRow(1, "101", "AVAILABLE", 3, "1000.00"))
	mock.ExpectQuery("SELECT \\* FROM `room_types`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "type_name", "capacity"}).AddRow(3, "Twin", 2))

	room, err := store.Room(context.Background(), 1, true)
	require.NoError(t, err)
	require.Equal(t, "101", room.RoomNumber)
	require.Equal(t, "1000.00", room.DefaultRate.StringFixed(2))
	capacity, ok := room.Capacity()
	require.True(t, ok)
	require.Equal(t, 2, capacity)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingsOverlappingQuery(t *testing.T) {
	store, mock := newMockStore(t)
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 2)

	mock.ExpectQuery("FROM `bookings` WHERE status IN .*check_in_date < \\? AND check_out_date > \\?.*room_id = \\?").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "2025-01-03", "2025-01-01", 2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "room_id", "status", "check_in_date", "check_out_date"}).
			AddRow(5, 2, "CONFIRMED", from.AddDate(0, 0, 1), from.AddDate(0, 0, 4)))

	got, err := store.BookingsOverlapping(context.Background(), 2, services.DateRange{From: from, To: to}, models.BlockingStatuses)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, models.BookingConfirmed, got[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCheckInDuplicateKey(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec("INSERT INTO `check_ins`").
		WillReturnError(&mysqldrv.MySQLError{Number: 1062, Message: "Duplicate entry 'CI20250101001'"})

	err := store.CreateCheckIn(context.Background(), &models.CheckIn{CheckInID: "CI20250101001", GuestID: 1, RoomID: 1})
	require.True(t, errors.Is(err, services.ErrDuplicateKey))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyMutationCommitsTogether(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `bookings` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `rooms` SET `status`=\\?").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `booking_events`").WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectCommit()

	m := mutation()
	err := store.InTx(context.Background(), func(tx services.Store) error {
		return tx.ApplyMutation(context.Background(), &m)
	})
	require.NoError(t, err)
	require.Equal(t, uint(9), m.Event.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyMutationRollsBack(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `bookings` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `rooms` SET `status`=\\?").WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectRollback()

	m := mutation()
	err := store.InTx(context.Background(), func(tx services.Store) error {
		return tx.ApplyMutation(context.Background(), &m)
	})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckInByBookingNone(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery("SELECT \\* FROM `check_ins` WHERE booking_id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	c, err := store.CheckInByBooking(context.Background(), 4)
	require.NoError(t, err)
	require.Nil(t, c)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSequenceFallsBackToRowCount(t *testing.T) {
	store, mock := newMockStore(t)
	for i := 0; i < 2; i++ {
		mock.ExpectQuery("SELECT count\\(\\*\\) FROM `check_ins` WHERE check_in_id LIKE \\?").
			WithArgs("CI20250101%").
			WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(4))
	}

	n, err := NewRedisSequence(nil).Next(context.Background(), store, "CI20250101")
	require.NoError(t, err)
	require.Equal(t, 5, n)

	// unreachable redis degrades to the same answer
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	t.Cleanup(func() { _ = client.Close() })
	n, err = NewRedisSequence(client).Next(context.Background(), store, "CI20250101")
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func mutation() services.Mutation {
	in := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	now := in.Add(14 * time.Hour)
	b := models.Booking{ID: 3, GuestID: 1, RoomID: 2, CheckInDate: in, CheckOutDate: in.AddDate(0, 0, 2),
		Adults: 1, Status: models.BookingConfirmed}
	room := models.Room{RoomNumber: "102", Status: models.RoomAvailable}
	room.ID = 2
	m, err := services.ApplyTransition(b, room, models.EventCheckIn, now)
	if err != nil {
		panic(err)
	}
	return m
}
