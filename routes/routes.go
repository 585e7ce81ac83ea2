package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"hotel-pms/controllers"
	"hotel-pms/middleware"
)

// Controllers bundles the handlers the router mounts.
type Controllers struct {
	Guests    *controllers.GuestController
	Rooms     *controllers.RoomController
	RatePlans *controllers.RatePlanController
	Bookings  *controllers.BookingController
	CheckIns  *controllers.CheckInController
}

func corsConfig(origins []string) cors.Config {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}
}

// SetupRouter wires middleware and the /api routes.
func SetupRouter(ctl Controllers, corsOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger())
	r.Use(cors.New(corsConfig(corsOrigins)))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		rooms := api.Group("/rooms")
		{
			rooms.GET("", ctl.Rooms.GetRooms)
			rooms.POST("", ctl.Rooms.CreateRoom)
			rooms.GET("/:id", ctl.Rooms.GetRoom)
			rooms.PUT("/:id", ctl.Rooms.UpdateRoom)
			rooms.PATCH("/:id/status", ctl.Rooms.UpdateRoomStatus)
			rooms.DELETE("/:id", ctl.Rooms.DeleteRoom)
		}

		roomTypes := api.Group("/room-types")
		{
			roomTypes.GET("", ctl.Rooms.GetRoomTypes)
			roomTypes.POST("", ctl.Rooms.CreateRoomType)
			roomTypes.GET("/:id", ctl.Rooms.GetRoomType)
			roomTypes.DELETE("/:id", ctl.Rooms.DeleteRoomType)
		}

		plans := api.Group("/rate-plans")
		{
			plans.GET("", ctl.RatePlans.GetRatePlans)
			plans.POST("", ctl.RatePlans.CreateRatePlan)
			plans.GET("/:id", ctl.RatePlans.GetRatePlan)
			plans.PUT("/:id", ctl.RatePlans.UpdateRatePlan)
			plans.PATCH("/:id/active", ctl.RatePlans.SetRatePlanActive)
		}

		guests := api.Group("/guests")
		{
			guests.GET("", ctl.Guests.GetGuests)
			guests.POST("", ctl.Guests.CreateGuest)
			guests.GET("/:id", ctl.Guests.GetGuestByID)
			guests.PUT("/:id", ctl.Guests.UpdateGuest)
			guests.DELETE("/:id", ctl.Guests.DeleteGuest)
		}

		bookings := api.Group("/bookings")
		{
			bookings.GET("", ctl.Bookings.GetBookings)
			bookings.POST("", ctl.Bookings.CreateBooking)

			// static paths before /:id
			bookings.GET("/search", ctl.Bookings.SearchAvailableRooms)
			bookings.GET("/quote", ctl.Bookings.QuoteStay)

			bookings.GET("/:id", ctl.Bookings.GetBookingDetails)
			bookings.PUT("/:id", ctl.Bookings.UpdateBooking)
			bookings.POST("/:id/confirm", ctl.Bookings.ConfirmBooking())
			bookings.POST("/:id/check-in", ctl.Bookings.CheckInBooking())
			bookings.POST("/:id/check-out", ctl.Bookings.CheckoutBooking())
			bookings.POST("/:id/cancel", ctl.Bookings.CancelBooking())
			bookings.POST("/:id/no-show", ctl.Bookings.MarkNoShow())
			bookings.POST("/:id/payments", ctl.Bookings.RecordPayment)
		}

		checkIns := api.Group("/check-ins")
		{
			checkIns.GET("", ctl.CheckIns.GetCheckIns)
			checkIns.POST("", ctl.CheckIns.CreateCheckIn)
			checkIns.POST("/quick", ctl.CheckIns.QuickCheckIn)
			checkIns.GET("/dashboard", ctl.CheckIns.Dashboard)
			checkIns.GET("/from-booking/:bookingId", ctl.CheckIns.FromBooking)

			checkIns.GET("/:id", ctl.CheckIns.GetCheckIn)
			checkIns.PUT("/:id", ctl.CheckIns.UpdateCheckIn)
			checkIns.PATCH("/:id/verify-id", ctl.CheckIns.VerifyIDProof)
			checkIns.PATCH("/:id/payment-status", ctl.CheckIns.UpdatePaymentStatus)
		}
	}

	return r
}
