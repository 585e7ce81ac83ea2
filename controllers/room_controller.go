package controllers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hotel-pms/models"
	"hotel-pms/services"
	"hotel-pms/utils"
)

type RoomController struct {
	Rooms *services.RoomService
}

func NewRoomController(svc *services.RoomService) *RoomController {
	return &RoomController{Rooms: svc}
}

type RoomStatusRequest struct {
	Status models.RoomStatus `json:"status" binding:"required,room_status"`
}

// ----------------------------------------------------
// Rooms (GET /api/rooms?status=&roomTypeId=)
// ----------------------------------------------------

func (ctrl *RoomController) GetRooms(c *gin.Context) {
	var typeID uint
	if raw := c.Query("roomTypeId"); raw != "" {
		id, err := utils.ParseID(raw)
		if err != nil {
			respondBadRequest(c, "error.invalidFilter", err)
			return
		}
		typeID = id
	}
	status := models.RoomStatus(strings.ToUpper(c.Query("status")))

	rooms, err := ctrl.Rooms.List(c.Request.Context(), status, typeID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

func (ctrl *RoomController) GetRoom(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	room, err := ctrl.Rooms.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

func (ctrl *RoomController) CreateRoom(c *gin.Context) {
	var room models.Room
	if err := c.ShouldBindJSON(&room); err != nil {
		log.Printf("❌ JSON BINDING ERROR (400): %v", err)
		respondBadRequest(c, "error.invalidPayload", err)
		return
	}
	if err := ctrl.Rooms.Create(c.Request.Context(), &room); err != nil {
		respondError(c, err)
		return
	}
	log.Printf("✅ Room %s created (id=%d)", room.RoomNumber, room.ID)
	utils.JSONSuccess(c, http.StatusCreated, room)
}

func (ctrl *RoomController) UpdateRoom(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in models.Room
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "error.invalidPayload", err)
		return
	}
	room, err := ctrl.Rooms.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// PATCH /api/rooms/:id/status
func (ctrl *RoomController) UpdateRoomStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req RoomStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "error.invalidRoomStatus", err)
		return
	}
	room, err := ctrl.Rooms.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	log.Printf("➡️ Room %d status -> %s", id, req.Status)
	utils.JSONSuccess(c, http.StatusOK, room)
}

func (ctrl *RoomController) DeleteRoom(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := ctrl.Rooms.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
