// controllers/booking_controller.go
package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"hotel-pms/models"
	"hotel-pms/services"
	"hotel-pms/utils"
)

// ---------------------------
// Payload / DTOs
// ---------------------------

type BookingRequest struct {
	GuestID         uint                 `json:"guestId" binding:"required"`
	RoomID          uint                 `json:"roomId" binding:"required"`
	RatePlanID      *uint                `json:"ratePlanId"`
	CheckInDate     string               `json:"checkInDate" binding:"required"`
	CheckOutDate    string               `json:"checkOutDate" binding:"required"`
	Adults          int                  `json:"adults" binding:"gte=0"`
	Children        int                  `json:"children" binding:"gte=0"`
	Status          models.BookingStatus `json:"status" binding:"omitempty,booking_status"`
	TotalAmount     decimal.Decimal      `json:"totalAmount"`
	AdvancePayment  decimal.Decimal      `json:"advancePayment"`
	SpecialRequests string               `json:"specialRequests"`
}

func (r BookingRequest) toInput() (services.BookingInput, error) {
	in, err := utils.ParseDate(r.CheckInDate)
	if err != nil {
		return services.BookingInput{}, err
	}
	out, err := utils.ParseDate(r.CheckOutDate)
	if err != nil {
		return services.BookingInput{}, err
	}
	adults := r.Adults
	if adults == 0 {
		adults = 1
	}
	return services.BookingInput{
		GuestID:         r.GuestID,
		RoomID:          r.RoomID,
		RatePlanID:      r.RatePlanID,
		CheckInDate:     in,
		CheckOutDate:    out,
		Adults:          adults,
		Children:        r.Children,
		Status:          r.Status,
		TotalAmount:     r.TotalAmount,
		AdvancePayment:  r.AdvancePayment,
		SpecialRequests: r.SpecialRequests,
	}, nil
}

type PaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// bookingView adds the derived amounts the front desk shows.
type bookingView struct {
	*models.Booking
	Nights          int             `json:"nights"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
}

func viewBooking(b *models.Booking) bookingView {
	return bookingView{Booking: b, Nights: b.Nights(), RemainingAmount: b.RemainingAmount()}
}

// ---------------------------
// Controller
// ---------------------------

type BookingController struct {
	Bookings     *services.BookingService
	Availability *services.AvailabilityService
}

func NewBookingController(bookings *services.BookingService, availability *services.AvailabilityService) *BookingController {
	return &BookingController{Bookings: bookings, Availability: availability}
}

// GET /bookings?search=&status=&guestId=&roomId=&page=&pageSize=
func (ctrl *BookingController) GetBookings(c *gin.Context) {
	f := services.BookingFilter{
		Search:   c.Query("search"),
		Status:   models.BookingStatus(strings.ToUpper(c.Query("status"))),
		Page:     utils.IntOrDefault(c.Query("page"), 1),
		PageSize: utils.IntOrDefault(c.Query("pageSize"), 10),
	}
	if raw := c.Query("guestId"); raw != "" {
		id, err := utils.ParseID(raw)
		if err != nil {
			respondBadRequest(c, "error.invalidGuestId", err)
			return
		}
		f.GuestID = id
	}
	if raw := c.Query("roomId"); raw != "" {
		id, err := utils.ParseID(raw)
		if err != nil {
			respondBadRequest(c, "error.invalidRoomId", err)
			return
		}
		f.RoomID = id
	}

	list, total, err := ctrl.Bookings.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	page, size := services.Normalize(f.Page, f.PageSize, 10)
	views := make([]bookingView, 0, len(list))
	for i := range list {
		views = append(views, viewBooking(&list[i]))
	}
	utils.JSONPage(c, http.StatusOK, views, total, page, size)
}

// POST /bookings
func (ctrl *BookingController) CreateBooking(c *gin.Context) {
	var req BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "error.invalidPayload", err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		respondBadRequest(c, "error.invalidDate", err)
		return
	}

	b, err := ctrl.Bookings.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, viewBooking(b))
}

// GET /bookings/:id
func (ctrl *BookingController) GetBookingDetails(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	b, err := ctrl.Bookings.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	events, err := ctrl.Bookings.History(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"booking": viewBooking(b), "events": events})
}

// PUT /bookings/:id
func (ctrl *BookingController) UpdateBooking(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "error.invalidPayload", err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		respondBadRequest(c, "error.invalidDate", err)
		return
	}

	b, err := ctrl.Bookings.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, viewBooking(b))
}

// GET /bookings/search?checkIn=&checkOut=&guests=
func (ctrl *BookingController) SearchAvailableRooms(c *gin.Context) {
	in, err := utils.ParseDate(c.Query("checkIn"))
	if err != nil {
		respondBadRequest(c, "error.invalidDate", err)
		return
	}
	out, err := utils.ParseDate(c.Query("checkOut"))
	if err != nil {
		respondBadRequest(c, "error.invalidDate", err)
		return
	}

	rooms, err := ctrl.Availability.SearchAvailable(c.Request.Context(), in, out, utils.IntOrDefault(c.Query("guests"), 0))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

// GET /bookings/quote?roomId=&ratePlanId=&checkIn=&checkOut=&guests=
func (ctrl *BookingController) QuoteStay(c *gin.Context) {
	roomID, err := utils.ParseID(c.Query("roomId"))
	if err != nil {
		respondBadRequest(c, "error.invalidRoomId", err)
		return
	}
	var planID *uint
	if raw := c.Query("ratePlanId"); raw != "" {
		id, err := utils.ParseID(raw)
		if err != nil {
			respondBadRequest(c, "error.invalidRatePlanId", err)
			return
		}
		planID = &id
	}
	in, err := utils.ParseDate(c.Query("checkIn"))
	if err != nil {
		respondBadRequest(c, "error.invalidDate", err)
		return
	}
	out, err := utils.ParseDate(c.Query("checkOut"))
	if err != nil {
		respondBadRequest(c, "error.invalidDate", err)
		return
	}

	q, err := ctrl.Bookings.Quote(c.Request.Context(), roomID, planID, in, out, utils.IntOrDefault(c.Query("guests"), 1))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, q)
}

func (ctrl *BookingController) transition(fn func(*services.BookingService, *gin.Context, uint) (*models.Booking, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		b, err := fn(ctrl.Bookings, c, id)
		if err != nil {
			respondError(c, err)
			return
		}
		utils.JSONSuccess(c, http.StatusOK, viewBooking(b))
	}
}

// POST /bookings/:id/confirm
func (ctrl *BookingController) ConfirmBooking() gin.HandlerFunc {
	return ctrl.transition(func(s *services.BookingService, c *gin.Context, id uint) (*models.Booking, error) {
		return s.Confirm(c.Request.Context(), id)
	})
}

// POST /bookings/:id/check-in
func (ctrl *BookingController) CheckInBooking() gin.HandlerFunc {
	return ctrl.transition(func(s *services.BookingService, c *gin.Context, id uint) (*models.Booking, error) {
		return s.CheckIn(c.Request.Context(), id)
	})
}

// POST /bookings/:id/check-out
func (ctrl *BookingController) CheckoutBooking() gin.HandlerFunc {
	return ctrl.transition(func(s *services.BookingService, c *gin.Context, id uint) (*models.Booking, error) {
		return s.CheckOut(c.Request.Context(), id)
	})
}

// POST /bookings/:id/cancel
func (ctrl *BookingController) CancelBooking() gin.HandlerFunc {
	return ctrl.transition(func(s *services.BookingService, c *gin.Context, id uint) (*models.Booking, error) {
		return s.Cancel(c.Request.Context(), id)
	})
}

// POST /bookings/:id/no-show
func (ctrl *BookingController) MarkNoShow() gin.HandlerFunc {
	return ctrl.transition(func(s *services.BookingService, c *gin.Context, id uint) (*models.Booking, error) {
		return s.MarkNoShow(c.Request.Context(), id)
	})
}

// POST /bookings/:id/payments
func (ctrl *BookingController) RecordPayment(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "error.invalidPayload", err)
		return
	}
	b, err := ctrl.Bookings.RecordPayment(c.Request.Context(), id, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, viewBooking(b))
}
