package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	bookingsvc "github.com/dlawiz83/SkillSwap/internal/booking/service"
	"github.com/dlawiz83/SkillSwap/internal/gateway/middlewares"
)

type BookingHandler struct {
	svc *bookingsvc.BookingSvc
}

func NewBookingHandler(svc *bookingsvc.BookingSvc) *BookingHandler {
	return &BookingHandler{svc: svc}
}

// POST /v1/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	var in struct {
		PeerID string `json:"peer_id" binding:"required"`
		SlotID string `json:"slot_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := h.svc.Book(c.Request.Context(), middlewares.UserID(c), in.PeerID, in.SlotID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"booking": b})
}

// GET /v1/bookings
func (h *BookingHandler) List(c *gin.Context) {
	out, err := h.svc.ListByUser(c.Request.Context(), middlewares.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": out})
}

// GET /v1/bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	b, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

// POST /v1/bookings/:id/cancel
func (h *BookingHandler) Cancel(c *gin.Context) {
	b, err := h.svc.Cancel(c.Request.Context(), c.Param("id"), middlewares.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}
