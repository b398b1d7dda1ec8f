package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dlawiz83/SkillSwap/internal/gateway/middlewares"
	karmasvc "github.com/dlawiz83/SkillSwap/internal/karma/service"
	matchsvc "github.com/dlawiz83/SkillSwap/internal/match/service"
	profilesvc "github.com/dlawiz83/SkillSwap/internal/profile/service"
)

type ProfileHandler struct {
	svc       *profilesvc.ProfileSvc
	discovery *matchsvc.Discovery
	ledger    *karmasvc.Ledger
}

func NewProfileHandler(svc *profilesvc.ProfileSvc, discovery *matchsvc.Discovery, ledger *karmasvc.Ledger) *ProfileHandler {
	return &ProfileHandler{svc: svc, discovery: discovery, ledger: ledger}
}

// GET /v1/users/me
func (h *ProfileHandler) GetMe(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), middlewares.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": p})
}

// GET /v1/users/:id
func (h *ProfileHandler) GetByID(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": p})
}

// PUT /v1/users/me/skills
func (h *ProfileHandler) UpdateSkills(c *gin.Context) {
	var in struct {
		Teach []string `json:"teach"`
		Learn []string `json:"learn"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.UpdateSkills(c.Request.Context(), middlewares.UserID(c), in.Teach, in.Learn)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": p})
}

// POST /v1/users/me/availability
func (h *ProfileHandler) AddAvailability(c *gin.Context) {
	var in struct {
		Day  string `json:"day" binding:"required"`
		Time string `json:"time" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	slot, err := h.svc.AddAvailability(c.Request.Context(), middlewares.UserID(c), in.Day, in.Time)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"slot": slot})
}

// DELETE /v1/users/me/availability/:slotId
func (h *ProfileHandler) RemoveAvailability(c *gin.Context) {
	if err := h.svc.RemoveAvailability(c.Request.Context(), middlewares.UserID(c), c.Param("slotId")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /v1/peers returns the ranked discovery feed.
func (h *ProfileHandler) Discover(c *gin.Context) {
	ranked, err := h.discovery.Discover(c.Request.Context(), middlewares.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"peers": ranked})
}

// GET /v1/users/me/karma
func (h *ProfileHandler) KarmaHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	entries, err := h.ledger.History(c.Request.Context(), middlewares.UserID(c), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	balance, err := h.ledger.Balance(c.Request.Context(), middlewares.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance, "entries": entries})
}
