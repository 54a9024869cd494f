package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/talari-hunar/boxoffice/internal/venue"
)

// VenueHandler serves the static seat-map reference data sellers use to
// render a hall and to translate venue names into venueId keys.
type VenueHandler struct{}

func NewVenueHandler() *VenueHandler {
	return &VenueHandler{}
}

func (h *VenueHandler) Register(router *gin.RouterGroup) {
	router.GET("/venues/:name/layout", h.layout)
}

func (h *VenueHandler) layout(c *gin.Context) {
	c.JSON(http.StatusOK, venue.Layout(c.Param("name")))
}
