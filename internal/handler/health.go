package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is used by load balancers and monitoring systems to verify that
// the service is running.  It also reports how many guest sessions are
// tracked.
func Health(sessions Sessions) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok", "sessions": sessions.Len()})
	}
}
