package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dlawiz83/SkillSwap/internal/gateway/middlewares"
	matchsvc "github.com/dlawiz83/SkillSwap/internal/match/service"
)

type MatchHandler struct {
	svc *matchsvc.RequestSvc
}

func NewMatchHandler(svc *matchsvc.RequestSvc) *MatchHandler {
	return &MatchHandler{svc: svc}
}

// POST /v1/matches
func (h *MatchHandler) Create(c *gin.Context) {
	var in struct {
		ToUserID string `json:"to_user_id" binding:"required"`
		Skill    string `json:"skill" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req, err := h.svc.Create(c.Request.Context(), middlewares.UserID(c), in.ToUserID, in.Skill)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"request": req})
}

// GET /v1/matches?box=incoming|sent|accepted
func (h *MatchHandler) List(c *gin.Context) {
	userID := middlewares.UserID(c)
	ctx := c.Request.Context()
	switch c.DefaultQuery("box", "incoming") {
	case "sent":
		out, err := h.svc.Sent(ctx, userID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"requests": out})
	case "accepted":
		out, err := h.svc.Accepted(ctx, userID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"requests": out})
	default:
		out, err := h.svc.Incoming(ctx, userID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"requests": out})
	}
}

// POST /v1/matches/:id/accept
func (h *MatchHandler) Accept(c *gin.Context) {
	req, err := h.svc.Accept(c.Request.Context(), c.Param("id"), middlewares.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": req})
}

// POST /v1/matches/:id/reject
func (h *MatchHandler) Reject(c *gin.Context) {
	req, err := h.svc.Reject(c.Request.Context(), c.Param("id"), middlewares.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": req})
}
