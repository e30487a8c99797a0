package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hospitality-booking/internal/model"
	"github.com/iliyamo/hospitality-booking/internal/repository"
)

// IntentLister is implemented by *repository.IntentRepo.
type IntentLister interface {
	ListRecent(ctx context.Context, limit int) ([]model.BookingIntent, error)
}

// IntentHandler exposes the booking intent audit trail.  Repo is nil when
// no database is configured.
type IntentHandler struct {
	Repo IntentLister
}

type intentView struct {
	ID        uint64    `json:"id"`
	SessionID string    `json:"session_id"`
	UnitID    string    `json:"unit_id"`
	Kind      string    `json:"kind"`
	Target    string    `json:"target"`
	Auto      bool      `json:"auto"`
	CreatedAt time.Time `json:"created_at"`
}

// Recent handles GET /v1/booking-intents/recent?limit=N (default 20).
func (h *IntentHandler) Recent(c echo.Context) error {
	if h.Repo == nil {
		return apiError(c, http.StatusServiceUnavailable, "unavailable", "booking intent audit is not configured")
	}
	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return apiError(c, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
		}
		limit = n
	}
	rows, err := h.Repo.ListRecent(c.Request().Context(), limit)
	if errors.Is(err, repository.ErrUnavailable) {
		return apiError(c, http.StatusServiceUnavailable, "unavailable", "booking intent audit is not configured")
	}
	if err != nil {
		return apiError(c, http.StatusInternalServerError, "database_error", "could not load booking intents")
	}
	out := make([]intentView, 0, len(rows))
	for _, r := range rows {
		out = append(out, intentView{ID: r.ID, SessionID: r.SessionID, UnitID: r.UnitID, Kind: r.Kind, Target: r.Target, Auto: r.Auto, CreatedAt: r.CreatedAt})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
