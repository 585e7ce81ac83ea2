package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"hotel-pms/models"
	"hotel-pms/services"
	"hotel-pms/utils"
)

type CheckInRequest struct {
	CheckInID            string               `json:"checkInId" binding:"max=20"`
	BookingID            *uint                `json:"bookingId"`
	GuestID              uint                 `json:"guestId" binding:"required"`
	RoomID               uint                 `json:"roomId" binding:"required"`
	ActualCheckInTime    string               `json:"actualCheckInTime"`
	ExpectedCheckOutDate string               `json:"expectedCheckOutDate"`
	NumberOfGuests       int                  `json:"numberOfGuests" binding:"gte=0"`
	AdvancePayment       decimal.Decimal      `json:"advancePayment"`
	TotalAmount          decimal.Decimal      `json:"totalAmount"`
	PaymentStatus        models.PaymentStatus `json:"paymentStatus" binding:"omitempty,payment_status"`
	IDProofVerified      bool                 `json:"idProofVerified"`
	AssignedStaff        string               `json:"assignedStaff" binding:"max=100"`
	RemarksNotes         string               `json:"remarksNotes"`
}

func (r CheckInRequest) toModel() (models.CheckIn, error) {
	c := models.CheckIn{
		CheckInID:       r.CheckInID,
		BookingID:       r.BookingID,
		GuestID:         r.GuestID,
		RoomID:          r.RoomID,
		NumberOfGuests:  r.NumberOfGuests,
		AdvancePayment:  r.AdvancePayment,
		TotalAmount:     r.TotalAmount,
		PaymentStatus:   r.PaymentStatus,
		IDProofVerified: r.IDProofVerified,
		AssignedStaff:   r.AssignedStaff,
		RemarksNotes:    r.RemarksNotes,
	}
	if c.BookingID != nil && *c.BookingID == 0 {
		c.BookingID = nil
	}
	if r.ActualCheckInTime != "" {
		t, err := utils.ParseDate(r.ActualCheckInTime)
		if err != nil {
			return c, err
		}
		c.ActualCheckInTime = t
	}
	out, err := utils.ParseOptionalDate(r.ExpectedCheckOutDate)
	if err != nil {
		return c, err
	}
	c.ExpectedCheckOutDate = out
	return c, nil
}

type QuickCheckInRequest struct {
	GuestID              uint            `json:"guestId" binding:"required"`
	RoomID               uint            `json:"roomId" binding:"required"`
	NumberOfGuests       int             `json:"numberOfGuests" binding:"gte=0"`
	ExpectedCheckOutDate string          `json:"expectedCheckOutDate"`
	TotalAmount          decimal.Decimal `json:"totalAmount"`
	AdvancePayment       decimal.Decimal `json:"advancePayment"`
	AssignedStaff        string          `json:"assignedStaff" binding:"max=100"`
}

type PaymentStatusRequest struct {
	PaymentStatus models.PaymentStatus `json:"paymentStatus" binding:"required,payment_status"`
}

type checkInView struct {
	*models.CheckIn
	RemainingAmount   decimal.Decimal `json:"remainingAmount"`
	PaymentPercentage decimal.Decimal `json:"paymentPercentage"`
	IsWalkIn          bool            `json:"isWalkIn"`
	DaysSinceCheckIn  int             `json:"daysSinceCheckIn"`
}

func viewCheckIn(c *models.CheckIn, now time.Time) checkInView {
	return checkInView{
		CheckIn:           c,
		RemainingAmount:   c.RemainingAmount(),
		PaymentPercentage: c.PaymentPercentage(),
		IsWalkIn:          c.IsWalkIn(),
		DaysSinceCheckIn:  c.DaysSinceCheckIn(now),
	}
}

type CheckInController struct {
	CheckIns *services.CheckInService
}

func NewCheckInController(svc *services.CheckInService) *CheckInController {
	return &CheckInController{CheckIns: svc}
}

func (ctrl *CheckInController) now() time.Time {
	return ctrl.CheckIns.Now()
}

// GET /check-ins?search=&paymentStatus=&dateRange=&idVerified=&page=&pageSize=
func (ctrl *CheckInController) GetCheckIns(c *gin.Context) {
	verified, err := utils.ParseOptionalBool(c.Query("idVerified"))
	if err != nil {
		respondBadRequest(c, "error.invalidFilter", err)
		return
	}
	f := services.CheckInFilter{
		Search:        c.Query("search"),
		PaymentStatus: models.PaymentStatus(strings.ToUpper(c.Query("paymentStatus"))),
		IDVerified:    verified,
		Page:          utils.IntOrDefault(c.Query("page"), 1),
		PageSize:      utils.IntOrDefault(c.Query("pageSize"), 10),
	}

	list, total, err := ctrl.CheckIns.List(c.Request.Context(), f, c.Query("dateRange"))
	if err != nil {
		respondError(c, err)
		return
	}
	now := ctrl.now()
	views := make([]checkInView, 0, len(list))
	for i := range list {
		views = append(views, viewCheckIn(&list[i], now))
	}
	page, size := services.Normalize(f.Page, f.PageSize, 10)
	utils.JSONPage(c, http.StatusOK, views, total, page, size)
}

// POST /check-ins
func (ctrl *CheckInController) CreateCheckIn(c *gin.Context) {
	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "error.invalidPayload", err)
		return
	}
	in, err := req.toModel()
	if err != nil {
		respondBadRequest(c, "error.invalidDate", err)
		return
	}

	created, err := ctrl.CheckIns.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, viewCheckIn(created, ctrl.now()))
}

// POST /check-ins/quick
func (ctrl *CheckInController) QuickCheckIn(c *gin.Context) {
	var req QuickCheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "error.invalidPayload", err)
		return
	}
	out, err := utils.ParseOptionalDate(req.ExpectedCheckOutDate)
	if err != nil {
		respondBadRequest(c, "error.invalidDate", err)
		return
	}

	created, err := ctrl.CheckIns.Quick(c.Request.Context(), services.QuickCheckIn{
		GuestID:              req.GuestID,
		RoomID:               req.RoomID,
		NumberOfGuests:       req.NumberOfGuests,
		ExpectedCheckOutDate: out,
		TotalAmount:          req.TotalAmount,
		AdvancePayment:       req.AdvancePayment,
		AssignedStaff:        req.AssignedStaff,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, viewCheckIn(created, ctrl.now()))
}

// GET /check-ins/from-booking/:bookingId
func (ctrl *CheckInController) FromBooking(c *gin.Context) {
	id, ok := idParam(c, "bookingId")
	if !ok {
		return
	}
	prefill, err := ctrl.CheckIns.PrefillFromBooking(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, viewCheckIn(prefill, ctrl.now()))
}

// GET /check-ins/dashboard
func (ctrl *CheckInController) Dashboard(c *gin.Context) {
	stats, err := ctrl.CheckIns.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, stats)
}

// GET /check-ins/:id
func (ctrl *CheckInController) GetCheckIn(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	ci, err := ctrl.CheckIns.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, viewCheckIn(ci, ctrl.now()))
}

// PUT /check-ins/:id
func (ctrl *CheckInController) UpdateCheckIn(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "error.invalidPayload", err)
		return
	}
	in, err := req.toModel()
	if err != nil {
		respondBadRequest(c, "error.invalidDate", err)
		return
	}

	updated, err := ctrl.CheckIns.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, viewCheckIn(updated, ctrl.now()))
}

// PATCH /check-ins/:id/verify-id
func (ctrl *CheckInController) VerifyIDProof(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	ci, err := ctrl.CheckIns.VerifyIDProof(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, viewCheckIn(ci, ctrl.now()))
}

// PATCH /check-ins/:id/payment-status
func (ctrl *CheckInController) UpdatePaymentStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req PaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "error.invalidPaymentStatus", err)
		return
	}
	ci, err := ctrl.CheckIns.UpdatePaymentStatus(c.Request.Context(), id, req.PaymentStatus)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, viewCheckIn(ci, ctrl.now()))
}
