package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/talari-hunar/boxoffice/internal/service/coordinator"
)

type SeatHandler struct {
	service coordinator.UseCase
}

type reserveSeatsRequest struct {
	VenueID string   `json:"venueId"`
	SeatIDs []string `json:"seatIds"`
}

type reservedSeatsResponse struct {
	VenueID       string   `json:"venueId"`
	ReservedSeats []string `json:"reservedSeats"`
}

func NewSeatHandler(service coordinator.UseCase) *SeatHandler {
	return &SeatHandler{service: service}
}

func (h *SeatHandler) Register(router *gin.RouterGroup) {
	router.GET("/reserved-seats", h.get)
	router.POST("/reserved-seats", h.reserve)
	router.DELETE("/reserved-seats", h.release)
}

func (h *SeatHandler) get(c *gin.Context) {
	venueID := c.Query("venueId")
	reserved, err := h.service.ReservedSeats(venueID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, reservedSeatsResponse{VenueID: venueID, ReservedSeats: reserved})
}

func (h *SeatHandler) reserve(c *gin.Context) {
	var req reserveSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	current, err := h.service.ReserveSeats(c.Request.Context(), req.VenueID, req.SeatIDs)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"venueId":       req.VenueID,
		"reservedSeats": current,
	})
}

func (h *SeatHandler) release(c *gin.Context) {
	// empty venueId clears every venue
	venueID := c.Query("venueId")
	if err := h.service.ReleaseSeats(c.Request.Context(), venueID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
