package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"hotel-pms/controllers"
	"hotel-pms/middleware"
	"hotel-pms/repository"
	"hotel-pms/services"
)

func newRouter(origins []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	store := repository.NewGormStore(nil)
	bookings := services.NewBookingService(store, nil)
	return SetupRouter(Controllers{
		Guests:    controllers.NewGuestController(services.NewGuestService(nil)),
		Rooms:     controllers.NewRoomController(services.NewRoomService(nil)),
		RatePlans: controllers.NewRatePlanController(services.NewRatePlanService(nil)),
		Bookings:  controllers.NewBookingController(bookings, services.NewAvailabilityService(store)),
		CheckIns:  controllers.NewCheckInController(services.NewCheckInService(store, bookings, nil, "CI")),
	}, origins)
}

func TestHealth(t *testing.T) {
	r := newRouter(nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	require.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestRoutesRegistered(t *testing.T) {
	r := newRouter(nil)

	want := map[string]bool{
		"GET /api/bookings/search":                   false,
		"GET /api/bookings/quote":                    false,
		"POST /api/bookings/:id/no-show":             false,
		"POST /api/bookings/:id/payments":            false,
		"GET /api/check-ins/from-booking/:bookingId": false,
		"PATCH /api/check-ins/:id/payment-status":    false,
		"PATCH /api/rate-plans/:id/active":           false,
		"PATCH /api/rooms/:id/status":                false,
	}
	for _, rt := range r.Routes() {
		key := rt.Method + " " + rt.Path
		if _, ok := want[key]; ok {
			want[key] = true
		}
	}
	for route, seen := range want {
		require.True(t, seen, route)
	}
}

func TestCORSPreflight(t *testing.T) {
	r := newRouter([]string{"http://localhost:5173"})

	req := httptest.NewRequest(http.MethodOptions, "/api/bookings", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}
