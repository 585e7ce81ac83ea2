package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-pms/models"
	"hotel-pms/services"
	"hotel-pms/utils"
)

type RatePlanController struct {
	Plans *services.RatePlanService
}

func NewRatePlanController(svc *services.RatePlanService) *RatePlanController {
	return &RatePlanController{Plans: svc}
}

type RatePlanActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// GET /rate-plans?active=true
func (ctrl *RatePlanController) GetRatePlans(c *gin.Context) {
	active, err := utils.ParseOptionalBool(c.Query("active"))
	if err != nil {
		respondBadRequest(c, "error.invalidFilter", err)
		return
	}
	plans, err := ctrl.Plans.List(c.Request.Context(), active != nil && *active)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, plans)
}

func (ctrl *RatePlanController) GetRatePlan(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	p, err := ctrl.Plans.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, p)
}

func (ctrl *RatePlanController) CreateRatePlan(c *gin.Context) {
	var p models.RatePlan
	if err := c.ShouldBindJSON(&p); err != nil {
		respondBadRequest(c, "error.invalidPayload", err)
		return
	}
	if err := ctrl.Plans.Create(c.Request.Context(), &p); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, p)
}

func (ctrl *RatePlanController) UpdateRatePlan(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in models.RatePlan
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "error.invalidPayload", err)
		return
	}
	p, err := ctrl.Plans.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, p)
}

// PATCH /rate-plans/:id/active
func (ctrl *RatePlanController) SetRatePlanActive(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req RatePlanActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "error.invalidPayload", err)
		return
	}
	p, err := ctrl.Plans.SetActive(c.Request.Context(), id, *req.Active)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, p)
}
