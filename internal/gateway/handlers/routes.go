package handlers

import (
	"github.com/gin-gonic/gin"

	authsvc "github.com/dlawiz83/SkillSwap/internal/auth/service"
	bookingsvc "github.com/dlawiz83/SkillSwap/internal/booking/service"
	"github.com/dlawiz83/SkillSwap/internal/gateway/middlewares"
	karmasvc "github.com/dlawiz83/SkillSwap/internal/karma/service"
	matchsvc "github.com/dlawiz83/SkillSwap/internal/match/service"
	profilesvc "github.com/dlawiz83/SkillSwap/internal/profile/service"
)

// Deps carries every service the HTTP surface needs.
type Deps struct {
	Auth      *authsvc.AuthSvc
	Profiles  *profilesvc.ProfileSvc
	Discovery *matchsvc.Discovery
	Requests  *matchsvc.RequestSvc
	Bookings  *bookingsvc.BookingSvc
	Ledger    *karmasvc.Ledger
}

func Register(r *gin.Engine, d Deps) {
	a := NewAuthHandler(d.Auth)
	ph := NewProfileHandler(d.Profiles, d.Discovery, d.Ledger)
	mh := NewMatchHandler(d.Requests)
	bh := NewBookingHandler(d.Bookings)

	v1 := r.Group("/v1")
	{
		v1.POST("/auth/register", a.Register)
		v1.POST("/auth/login", a.Login)

		secured := v1.Group("")
		secured.Use(middlewares.JWTAuth())
		{
			secured.GET("/users/me", ph.GetMe)
			secured.GET("/users/me/karma", ph.KarmaHistory)
			secured.PUT("/users/me/skills", ph.UpdateSkills)
			secured.POST("/users/me/availability", ph.AddAvailability)
			secured.DELETE("/users/me/availability/:slotId", ph.RemoveAvailability)
			secured.GET("/users/:id", ph.GetByID)
			secured.GET("/peers", ph.Discover)

			secured.POST("/matches", mh.Create)
			secured.GET("/matches", mh.List)
			secured.POST("/matches/:id/accept", mh.Accept)
			secured.POST("/matches/:id/reject", mh.Reject)

			secured.POST("/bookings", bh.Create)
			secured.GET("/bookings", bh.List)
			secured.GET("/bookings/:id", bh.Get)
			secured.POST("/bookings/:id/cancel", bh.Cancel)
		}
	}
}
