// Package handler exposes the guest API: sessions, search criteria,
// searching, booking hand-off and landing page content.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hospitality-booking/internal/middleware"
	"github.com/iliyamo/hospitality-booking/internal/session"
)

// Sessions is the part of session.Manager the handlers use.
type Sessions interface {
	Create() *session.Session
	Get(id string) (*session.Session, error)
	End(id string) error
	Len() int
}

// apiError writes the standard {"error", "message"} body.
func apiError(c echo.Context, status int, code, msg string) error {
	return c.JSON(status, echo.Map{"error": code, "message": msg})
}

// currentSession resolves the session named by the request's token.  It
// writes the 401 itself when the session is gone, so callers return the
// error untouched when ok is false.
func currentSession(c echo.Context, sessions Sessions) (s *session.Session, ok bool, err error) {
	s, gerr := sessions.Get(middleware.SessionID(c))
	if errors.Is(gerr, session.ErrNotFound) {
		return nil, false, apiError(c, http.StatusUnauthorized, "session_expired", "session has ended, start a new one")
	}
	if gerr != nil {
		return nil, false, apiError(c, http.StatusInternalServerError, "internal", gerr.Error())
	}
	return s, true, nil
}
