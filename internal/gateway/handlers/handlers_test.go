package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	authdomain "github.com/dlawiz83/SkillSwap/internal/auth/domain"
	authrepo "github.com/dlawiz83/SkillSwap/internal/auth/repository"
	authsvc "github.com/dlawiz83/SkillSwap/internal/auth/service"
	bookingdomain "github.com/dlawiz83/SkillSwap/internal/booking/domain"
	bookingrepo "github.com/dlawiz83/SkillSwap/internal/booking/repository"
	bookingsvc "github.com/dlawiz83/SkillSwap/internal/booking/service"
	karmadomain "github.com/dlawiz83/SkillSwap/internal/karma/domain"
	karmarepo "github.com/dlawiz83/SkillSwap/internal/karma/repository"
	karmasvc "github.com/dlawiz83/SkillSwap/internal/karma/service"
	matchdomain "github.com/dlawiz83/SkillSwap/internal/match/domain"
	matchrepo "github.com/dlawiz83/SkillSwap/internal/match/repository"
	matchsvc "github.com/dlawiz83/SkillSwap/internal/match/service"
	profiledomain "github.com/dlawiz83/SkillSwap/internal/profile/domain"
	profilerepo "github.com/dlawiz83/SkillSwap/internal/profile/repository"
	profilesvc "github.com/dlawiz83/SkillSwap/internal/profile/service"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&profiledomain.Profile{}, &profiledomain.AvailabilitySlot{},
		&karmadomain.Entry{}, &matchdomain.Request{},
		&bookingdomain.Booking{}, &authdomain.Credential{},
	))

	ledger := karmasvc.NewLedger(db, karmarepo.NewLedgerRepo(db), nil)
	profiles := profilesvc.NewProfileSvc(db, profilerepo.NewProfileRepo(db), ledger)
	requests := matchsvc.NewRequestSvc(matchrepo.NewRequestRepo(db), profiles, nil)
	bookings := bookingsvc.NewBookingSvc(db, bookingrepo.NewBookingRepo(db), profiles, requests, ledger, nil)

	r := gin.New()
	Register(r, Deps{
		Auth:      authsvc.NewAuthSvc(db, authrepo.NewCredentialRepo(db), profiles, time.Hour),
		Profiles:  profiles,
		Discovery: matchsvc.NewDiscovery(profiles, nil),
		Requests:  requests,
		Bookings:  bookings,
		Ledger:    ledger,
	})
	return r
}

func do(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

// signUp registers and logs a user in, returning (id, token).
func signUp(t *testing.T, r *gin.Engine, email, name string) (string, string) {
	t.Helper()
	w := do(t, r, http.MethodPost, "/v1/auth/register", "", gin.H{
		"email": email, "password": "password123", "name": name, "handle": name,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, r, http.MethodPost, "/v1/auth/login", "", gin.H{
		"email": email, "password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out struct {
		User struct {
			ID string `json:"ID"`
		} `json:"user"`
		AccessToken string `json:"access_token"`
	}
	decode(t, w, &out)
	require.NotEmpty(t, out.AccessToken)
	return out.User.ID, out.AccessToken
}

func TestAuthRequired(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/v1/users/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, r, http.MethodGet, "/v1/users/me", "not-a-token", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/v1/auth/register", "", gin.H{
		"email": "not-an-email", "password": "password123", "name": "X",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/v1/auth/register", "", gin.H{
		"email": "a@example.com", "password": "short", "name": "X",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDuplicateEmailConflict(t *testing.T) {
	r := newTestRouter(t)
	signUp(t, r, "a@example.com", "Alice")

	w := do(t, r, http.MethodPost, "/v1/auth/register", "", gin.H{
		"email": "a@example.com", "password": "password123", "name": "Alice2",
	})
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestSwapFlow(t *testing.T) {
	r := newTestRouter(t)
	_, aliceTok := signUp(t, r, "alice@example.com", "Alice")
	bobID, bobTok := signUp(t, r, "bob@example.com", "Bob")

	// Skills: Alice wants guitar, Bob teaches it and wants spanish.
	w := do(t, r, http.MethodPut, "/v1/users/me/skills", aliceTok, gin.H{
		"teach": []string{"Spanish"}, "learn": []string{"Guitar"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = do(t, r, http.MethodPut, "/v1/users/me/skills", bobTok, gin.H{
		"teach": []string{"Guitar"}, "learn": []string{"Spanish"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Bob publishes a slot.
	w = do(t, r, http.MethodPost, "/v1/users/me/availability", bobTok, gin.H{
		"day": "Monday", "time": "18:00",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var slotOut struct {
		Slot struct {
			ID string `json:"ID"`
		} `json:"slot"`
	}
	decode(t, w, &slotOut)

	// Alice sees Bob ranked as a mutual match.
	w = do(t, r, http.MethodGet, "/v1/peers", aliceTok, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var peersOut struct {
		Peers []struct {
			Score int `json:"score"`
		} `json:"peers"`
	}
	decode(t, w, &peersOut)
	require.Len(t, peersOut.Peers, 1)
	require.Equal(t, 85, peersOut.Peers[0].Score)

	// Request and accept.
	w = do(t, r, http.MethodPost, "/v1/matches", aliceTok, gin.H{
		"to_user_id": bobID, "skill": "Guitar",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var reqOut struct {
		Request struct {
			ID string `json:"ID"`
		} `json:"request"`
	}
	decode(t, w, &reqOut)

	// Alice cannot answer her own request.
	w = do(t, r, http.MethodPost, "/v1/matches/"+reqOut.Request.ID+"/accept", aliceTok, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, r, http.MethodPost, "/v1/matches/"+reqOut.Request.ID+"/accept", bobTok, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Book Bob's slot; Alice pays one karma.
	w = do(t, r, http.MethodPost, "/v1/bookings", aliceTok, gin.H{
		"peer_id": bobID, "slot_id": slotOut.Slot.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var bookOut struct {
		Booking struct {
			ID     string `json:"ID"`
			Status string `json:"Status"`
		} `json:"booking"`
	}
	decode(t, w, &bookOut)
	require.Equal(t, "CONFIRMED", bookOut.Booking.Status)

	// The slot cannot be double booked.
	w = do(t, r, http.MethodPost, "/v1/bookings", aliceTok, gin.H{
		"peer_id": bobID, "slot_id": slotOut.Slot.ID,
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Balances reflect the payment.
	var karmaOut struct {
		Balance int `json:"balance"`
	}
	w = do(t, r, http.MethodGet, "/v1/users/me/karma", aliceTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &karmaOut)
	require.Equal(t, 4, karmaOut.Balance)

	w = do(t, r, http.MethodGet, "/v1/users/me/karma", bobTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &karmaOut)
	require.Equal(t, 6, karmaOut.Balance)

	// Bob cancels; the karma flows back.
	w = do(t, r, http.MethodPost, "/v1/bookings/"+bookOut.Booking.ID+"/cancel", bobTok, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, r, http.MethodGet, "/v1/users/me/karma", aliceTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &karmaOut)
	require.Equal(t, 5, karmaOut.Balance)

	// A second cancel conflicts.
	w = do(t, r, http.MethodPost, "/v1/bookings/"+bookOut.Booking.ID+"/cancel", aliceTok, nil)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestBookingWithoutMatch(t *testing.T) {
	r := newTestRouter(t)
	_, aliceTok := signUp(t, r, "alice@example.com", "Alice")
	bobID, bobTok := signUp(t, r, "bob@example.com", "Bob")

	w := do(t, r, http.MethodPost, "/v1/users/me/availability", bobTok, gin.H{
		"day": "Monday", "time": "18:00",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var slotOut struct {
		Slot struct {
			ID string `json:"ID"`
		} `json:"slot"`
	}
	decode(t, w, &slotOut)

	w = do(t, r, http.MethodPost, "/v1/bookings", aliceTok, gin.H{
		"peer_id": bobID, "slot_id": slotOut.Slot.ID,
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestDuplicateMatchRequestConflict(t *testing.T) {
	r := newTestRouter(t)
	_, aliceTok := signUp(t, r, "alice@example.com", "Alice")
	bobID, _ := signUp(t, r, "bob@example.com", "Bob")

	w := do(t, r, http.MethodPost, "/v1/matches", aliceTok, gin.H{
		"to_user_id": bobID, "skill": "Guitar",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, r, http.MethodPost, "/v1/matches", aliceTok, gin.H{
		"to_user_id": bobID, "skill": "Guitar",
	})
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestMatchBoxes(t *testing.T) {
	r := newTestRouter(t)
	_, aliceTok := signUp(t, r, "alice@example.com", "Alice")
	bobID, bobTok := signUp(t, r, "bob@example.com", "Bob")

	w := do(t, r, http.MethodPost, "/v1/matches", aliceTok, gin.H{
		"to_user_id": bobID, "skill": "Guitar",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var listOut struct {
		Requests []struct {
			ID string `json:"ID"`
		} `json:"requests"`
	}
	w = do(t, r, http.MethodGet, "/v1/matches?box=incoming", bobTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &listOut)
	require.Len(t, listOut.Requests, 1)

	w = do(t, r, http.MethodGet, "/v1/matches?box=sent", aliceTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &listOut)
	require.Len(t, listOut.Requests, 1)

	w = do(t, r, http.MethodPost, "/v1/matches/"+listOut.Requests[0].ID+"/reject", bobTok, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/v1/matches?box=accepted", aliceTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &listOut)
	require.Empty(t, listOut.Requests)
}

func TestAvailabilityOwnership(t *testing.T) {
	r := newTestRouter(t)
	_, aliceTok := signUp(t, r, "alice@example.com", "Alice")
	_, bobTok := signUp(t, r, "bob@example.com", "Bob")

	w := do(t, r, http.MethodPost, "/v1/users/me/availability", aliceTok, gin.H{
		"day": "Monday", "time": "18:00",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var slotOut struct {
		Slot struct {
			ID string `json:"ID"`
		} `json:"slot"`
	}
	decode(t, w, &slotOut)

	w = do(t, r, http.MethodDelete, "/v1/users/me/availability/"+slotOut.Slot.ID, bobTok, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, r, http.MethodDelete, "/v1/users/me/availability/"+slotOut.Slot.ID, aliceTok, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
}
