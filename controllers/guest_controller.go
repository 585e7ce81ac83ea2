package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-pms/models"
	"hotel-pms/services"
	"hotel-pms/utils"
)

type GuestController struct {
	GuestSvc *services.GuestService
}

// NewGuestController Constructor
func NewGuestController(svc *services.GuestService) *GuestController {
	return &GuestController{
		GuestSvc: svc,
	}
}

// GET /guests?search=&page=&pageSize=
func (c *GuestController) GetGuests(ctx *gin.Context) {
	page := utils.IntOrDefault(ctx.Query("page"), 1)
	size := utils.IntOrDefault(ctx.Query("pageSize"), 10)

	guests, total, err := c.GuestSvc.List(ctx.Request.Context(), ctx.Query("search"), page, size)
	if err != nil {
		respondError(ctx, err)
		return
	}
	page, size = services.Normalize(page, size, 10)
	utils.JSONPage(ctx, http.StatusOK, guests, total, page, size)
}

func (c *GuestController) GetGuestByID(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	guest, err := c.GuestSvc.GetByID(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.JSONSuccess(ctx, http.StatusOK, guest)
}

func (c *GuestController) CreateGuest(ctx *gin.Context) {
	var guest models.Guest
	if err := ctx.ShouldBindJSON(&guest); err != nil {
		log.Printf("❌ CreateGuest bind error: %v", err)
		respondBadRequest(ctx, "error.invalidPayload", err)
		return
	}
	guest.ID = 0
	guest.MemberID = nil

	if err := c.GuestSvc.Create(ctx.Request.Context(), &guest); err != nil {
		respondError(ctx, err)
		return
	}
	utils.JSONSuccess(ctx, http.StatusCreated, guest)
}

func (c *GuestController) UpdateGuest(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	var in models.Guest
	if err := ctx.ShouldBindJSON(&in); err != nil {
		respondBadRequest(ctx, "error.invalidPayload", err)
		return
	}

	updated, err := c.GuestSvc.Update(ctx.Request.Context(), id, in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.JSONSuccess(ctx, http.StatusOK, updated)
}

func (c *GuestController) DeleteGuest(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.GuestSvc.Delete(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
