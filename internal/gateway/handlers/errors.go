package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	authdomain "github.com/dlawiz83/SkillSwap/internal/auth/domain"
	bookingdomain "github.com/dlawiz83/SkillSwap/internal/booking/domain"
	karmadomain "github.com/dlawiz83/SkillSwap/internal/karma/domain"
	matchdomain "github.com/dlawiz83/SkillSwap/internal/match/domain"
	profiledomain "github.com/dlawiz83/SkillSwap/internal/profile/domain"
)

// writeError maps domain sentinels to HTTP statuses. Anything
// unrecognized is a 500; those are the only errors worth paging over.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, profiledomain.ErrNotFound),
		errors.Is(err, profiledomain.ErrSlotNotFound),
		errors.Is(err, matchdomain.ErrNotFound),
		errors.Is(err, bookingdomain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, matchdomain.ErrNotAuthorized),
		errors.Is(err, bookingdomain.ErrNotAuthorized),
		errors.Is(err, profiledomain.ErrNotOwner):
		status = http.StatusForbidden
	case errors.Is(err, authdomain.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, karmadomain.ErrInsufficientKarma),
		errors.Is(err, matchdomain.ErrDuplicatePending),
		errors.Is(err, matchdomain.ErrInvalidTransition),
		errors.Is(err, bookingdomain.ErrInvalidTransition),
		errors.Is(err, authdomain.ErrEmailTaken):
		status = http.StatusConflict
	case errors.Is(err, bookingdomain.ErrSlotUnavailable),
		errors.Is(err, bookingdomain.ErrMatchRequired),
		errors.Is(err, bookingdomain.ErrSelfBooking),
		errors.Is(err, matchdomain.ErrSelfRequest),
		errors.Is(err, profiledomain.ErrEmptySkillSet),
		errors.Is(err, karmadomain.ErrInvalidAmount),
		errors.Is(err, karmadomain.ErrSelfTransfer):
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
