package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/talari-hunar/boxoffice/internal/domain"
	"github.com/talari-hunar/boxoffice/internal/service/coordinator"
)

type SalesHandler struct {
	service coordinator.UseCase
}

type deleteTicketRequest struct {
	SaleID   string `json:"saleId"`
	TicketID string `json:"ticketId"`
}

func NewSalesHandler(service coordinator.UseCase) *SalesHandler {
	return &SalesHandler{service: service}
}

func (h *SalesHandler) Register(router *gin.RouterGroup) {
	router.GET("/sales", h.list)
	router.POST("/sales", h.record)
	router.PATCH("/sales", h.deleteTicket)
	router.DELETE("/sales", h.reset)
	router.GET("/sales/report", h.report)
}

func (h *SalesHandler) list(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sales": h.service.ListSales()})
}

func (h *SalesHandler) record(c *gin.Context) {
	var sale domain.Sale
	if err := c.ShouldBindJSON(&sale); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stored, err := h.service.RecordSale(c.Request.Context(), sale)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "sale": stored})
}

// deleteTicket removes a single ticket from a sale. The response carries the
// remaining sale (null when the last ticket deleted the whole sale) and the
// removed ticket.
func (h *SalesHandler) deleteTicket(c *gin.Context) {
	var req deleteTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	remaining, removed, err := h.service.DeleteTicket(c.Request.Context(), req.SaleID, req.TicketID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"sale":          remaining,
		"deletedTicket": removed,
	})
}

func (h *SalesHandler) reset(c *gin.Context) {
	if err := h.service.ResetAll(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *SalesHandler) report(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Report())
}
