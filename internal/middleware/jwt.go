package middleware // reusable HTTP middleware for the guest API

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hospitality-booking/internal/utils"
)

// SessionIDKey is the echo context key holding the authenticated session id.
const SessionIDKey = "session_id"

// SessionAuth validates the Bearer session token and stores its subject
// under SessionIDKey.  Whether the session is still alive is left to the
// handlers.
func SessionAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized", "message": "missing bearer token"})
			}
			id, err := utils.ParseSessionToken(secret, strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized", "message": "invalid session token"})
			}
			c.Set(SessionIDKey, id)
			return next(c)
		}
	}
}

// SessionID returns the id stored by SessionAuth, or "" outside it.
func SessionID(c echo.Context) string {
	s, _ := c.Get(SessionIDKey).(string)
	return s
}
