package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hospitality-booking/internal/middleware"
	"github.com/iliyamo/hospitality-booking/internal/utils"
)

// SessionHandler starts and ends guest sessions.
type SessionHandler struct {
	Sessions Sessions
	Secret   string
	TokenTTL time.Duration
}

type sessionResponse struct {
	SessionID string    `json:"session_id"`
	Token     string    `json:"token"`
	Expires   time.Time `json:"expires"`
}

// Create handles POST /v1/sessions.  The returned token authenticates all
// other guest endpoints.
func (h *SessionHandler) Create(c echo.Context) error {
	s := h.Sessions.Create()
	tok, err := utils.NewSessionToken(h.Secret, s.ID, h.TokenTTL, time.Now())
	if err != nil {
		_ = h.Sessions.End(s.ID)
		return apiError(c, http.StatusInternalServerError, "internal", "could not issue session token")
	}
	return c.JSON(http.StatusCreated, sessionResponse{SessionID: s.ID, Token: tok.Token, Expires: tok.Exp})
}

// End handles DELETE /v1/sessions.  It cancels any running search; ending
// an already ended session is not an error.
func (h *SessionHandler) End(c echo.Context) error {
	_ = h.Sessions.End(middleware.SessionID(c))
	return c.NoContent(http.StatusNoContent)
}
