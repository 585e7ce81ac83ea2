package controllers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"hotel-pms/models"
	"hotel-pms/services"
)

// RegisterValidators adds the enum validators used in request binding tags.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("booking_status", func(fl validator.FieldLevel) bool {
		return models.BookingStatus(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("payment_status", func(fl validator.FieldLevel) bool {
		return services.ValidCheckInPaymentStatus(models.PaymentStatus(fl.Field().String()))
	})
	_ = v.RegisterValidation("room_status", func(fl validator.FieldLevel) bool {
		return models.RoomStatus(fl.Field().String()).Valid()
	})
}
