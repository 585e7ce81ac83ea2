package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"hotel-pms/config"
	"hotel-pms/controllers"
	"hotel-pms/queue"
	"hotel-pms/repository"
	"hotel-pms/routes"
	"hotel-pms/services"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}
	cfg := config.Load()

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Database connect failed: %v", err)
	}
	log.Println("✅ Database connection established and migrations applied.")

	store := repository.NewGormStore(db)

	redisClient := config.NewRedisClient(cfg)
	if redisClient != nil {
		defer redisClient.Close()
	}
	sequence := repository.NewRedisSequence(redisClient)

	var events services.EventPublisher
	if cfg.RabbitMQURL != "" {
		events = queue.NewPublisher(cfg.RabbitMQURL)
		log.Printf("🔧 Lifecycle events -> queue %s", queue.LifecycleQueue)
	} else {
		log.Println("⚠️  RABBITMQ_URL not set; lifecycle events are not published")
	}

	// Initialize services
	bookingService := services.NewBookingService(store, events)
	availabilityService := services.NewAvailabilityService(store)
	checkInService := services.NewCheckInService(store, bookingService, sequence, cfg.CheckInIDPrefix)
	guestService := services.NewGuestService(db)
	roomService := services.NewRoomService(db)
	ratePlanService := services.NewRatePlanService(db)

	controllers.RegisterValidators()
	router := routes.SetupRouter(routes.Controllers{
		Guests:    controllers.NewGuestController(guestService),
		Rooms:     controllers.NewRoomController(roomService),
		RatePlans: controllers.NewRatePlanController(ratePlanService),
		Bookings:  controllers.NewBookingController(bookingService, availabilityService),
		CheckIns:  controllers.NewCheckInController(checkInService),
	}, cfg.CORSOrigins)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("⚠️  Shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Println("✅ Server stopped gracefully")
}
