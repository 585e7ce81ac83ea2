package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-pms/services"
	"hotel-pms/utils"
)

var errorStatus = []struct {
	kind   error
	status int
	code   string
}{
	{services.ErrNotFound, http.StatusNotFound, "error.notFound"},
	{services.ErrInvalidInput, http.StatusBadRequest, "error.invalidInput"},
	{services.ErrInvalidDateRange, http.StatusBadRequest, "error.invalidDateRange"},
	{services.ErrCapacityExceeded, http.StatusUnprocessableEntity, "error.capacityExceeded"},
	{services.ErrGuestBookingMismatch, http.StatusUnprocessableEntity, "error.guestBookingMismatch"},
	{services.ErrPaymentOverAdvance, http.StatusUnprocessableEntity, "error.paymentOverAdvance"},
	{services.ErrAvailabilityConflict, http.StatusConflict, "error.availabilityConflict"},
	{services.ErrInvalidTransition, http.StatusConflict, "error.invalidTransition"},
	{services.ErrSameDayRoomConflict, http.StatusConflict, "error.sameDayRoomConflict"},
	{services.ErrAlreadyCheckedIn, http.StatusConflict, "error.alreadyCheckedIn"},
}

func errorDetails(e *services.Error) gin.H {
	d := gin.H{}
	if e.BookingID != 0 {
		d["bookingId"] = e.BookingID
	}
	if e.RoomID != 0 {
		d["roomId"] = e.RoomID
	}
	if e.CheckInID != 0 {
		d["checkInId"] = e.CheckInID
	}
	if e.Range != nil {
		d["range"] = gin.H{
			"from": e.Range.From.Format("2006-01-02"),
			"to":   e.Range.To.Format("2006-01-02"),
		}
	}
	if len(e.ConflictIDs) > 0 {
		d["conflictingBookingIds"] = e.ConflictIDs
	}
	return d
}

// respondError maps a service error kind onto the HTTP envelope.
func respondError(c *gin.Context, err error) {
	for _, m := range errorStatus {
		if !errors.Is(err, m.kind) {
			continue
		}
		msg := err.Error()
		var details gin.H
		if e, ok := services.AsError(err); ok {
			msg = e.Message
			details = errorDetails(e)
		}
		utils.JSONError(c, m.status, m.code, msg, details)
		return
	}

	log.Printf("unhandled error on %s %s: %v", c.Request.Method, c.FullPath(), err)
	utils.JSONError(c, http.StatusInternalServerError, "error.internal", "internal server error", nil)
}

func respondBadRequest(c *gin.Context, code string, err error) {
	utils.JSONError(c, http.StatusBadRequest, code, err.Error(), nil)
}

// idParam reads a numeric path parameter, answering 400 when it is not one.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := utils.ParseID(c.Param(name))
	if err != nil {
		respondBadRequest(c, "error.invalidId", err)
		return 0, false
	}
	return id, true
}
