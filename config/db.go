package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hotel-pms/models"
)

var DB *gorm.DB

func intPtr(v int) *int { return &v }

// SeedDatabase fills an empty database with room types, rooms and a rate plan.
func SeedDatabase(db *gorm.DB) {
	var rtCount int64
	db.Model(&models.RoomType{}).Count(&rtCount)
	if rtCount == 0 {
		price := func(v int64) decimal.NullDecimal {
			return decimal.NullDecimal{Decimal: decimal.NewFromInt(v), Valid: true}
		}
		roomTypes := []models.RoomType{
			{TypeName: "Standard", Description: "Standard Room", Capacity: intPtr(2), PricePerNight: price(1200)},
			{TypeName: "Superior", Description: "Superior Room", Capacity: intPtr(3), PricePerNight: price(1800)},
			{TypeName: "Deluxe", Description: "Deluxe Room", Capacity: intPtr(4), PricePerNight: price(2500)},
			{TypeName: "Connecting", Description: "Connecting Room", Capacity: intPtr(5), PricePerNight: price(3200)},
		}
		if err := db.Create(&roomTypes).Error; err != nil {
			log.Printf("warning: failed to seed room types: %v", err)
		} else {
			log.Println("RoomTypes seeded")
		}
	}

	var roomCount int64
	db.Model(&models.Room{}).Count(&roomCount)
	if roomCount == 0 {
		var types []models.RoomType
		db.Order("id ASC").Find(&types)
		rooms := make([]models.Room, 0, len(types)*2)
		for i := range types {
			floor := i + 1
			for n := 1; n <= 2; n++ {
				rooms = append(rooms, models.Room{
					RoomTypeID: &types[i].ID,
					RoomNumber: fmt.Sprintf("%d%02d", floor, n),
					Status:     models.RoomAvailable,
					Floor:      fmt.Sprint(floor),
				})
			}
		}
		if len(rooms) > 0 {
			if err := db.Create(&rooms).Error; err != nil {
				log.Printf("warning: failed to seed rooms: %v", err)
			} else {
				log.Printf("Rooms seeded (%d)", len(rooms))
			}
		}
	}

	var planCount int64
	db.Model(&models.RatePlan{}).Count(&planCount)
	if planCount == 0 {
		bar := models.RatePlan{
			Code:           "BAR",
			Name:           "Best Available Rate",
			Active:         true,
			NightlyRate:    decimal.NewFromInt(1500),
			IncludedGuests: 2,
			ExtraGuestRate: decimal.NewFromInt(300),
			MinNights:      1,
		}
		if err := db.Create(&bar).Error; err != nil {
			log.Printf("warning: failed to seed rate plan: %v", err)
		}
	}
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	// stay dates are UTC calendar dates, keep the driver from shifting them
	if q.Get("loc") == "" {
		q.Set("loc", "UTC")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "hotel_pms")

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		user, pass, host, port, dbName,
	)
	return dsn, nil
}

func ConnectDatabase(cfg Config) (*gorm.DB, error) {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return nil, err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  cfg.DBLogLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:  newLogger,
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		log.Printf("info: cannot get raw sql.DB: %v", err)
	}

	// parent -> child order
	if err := db.AutoMigrate(
		&models.RoomType{},
		&models.Room{},
		&models.Guest{},
		&models.RatePlan{},
		&models.Booking{},
		&models.BookingEvent{},
		&models.CheckIn{},
	); err != nil {
		return nil, err
	}

	if cfg.SeedData {
		SeedDatabase(db)
	}
	DB = db
	return db, nil
}
