package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hospitality-booking/internal/booking"
	"github.com/iliyamo/hospitality-booking/internal/model"
	"github.com/iliyamo/hospitality-booking/internal/search"
	"github.com/iliyamo/hospitality-booking/internal/session"
)

// SearchHandler runs searches and serves their paged results.
type SearchHandler struct {
	Sessions Sessions
}

// searchResponse carries two counts.  Page.TotalItems and Page.TotalPages
// count the rooms the guest can actually page through and book; clients
// page with those.  UpstreamTotal is the API's own totalElements, which
// also counts rooms filtered out as unavailable, and is informational.
type searchResponse struct {
	State         search.State           `json:"state"`
	Error         string                 `json:"error,omitempty"`
	UpstreamTotal int                    `json:"upstream_total"`
	Page          model.SearchResultPage `json:"page"`
	Intent        *booking.Intent        `json:"intent,omitempty"`
}

func searchView(snap search.Snapshot, page model.SearchResultPage) searchResponse {
	if page.Items == nil {
		page.Items = []model.BookableUnit{}
	}
	return searchResponse{
		State:         snap.State,
		Error:         snap.Err,
		UpstreamTotal: snap.TotalItems,
		Page:          page,
		Intent:        snap.Intent,
	}
}

// Search handles POST /v1/search.  An empty result is a normal 200 with
// state "empty".  A failed search answers 502, or 504 on timeout, with the
// error state in the body.
func (h *SearchHandler) Search(c echo.Context) error {
	s, ok, err := currentSession(c, h.Sessions)
	if !ok {
		return err
	}
	if _, err := s.Search(c.Request().Context()); err != nil {
		if errors.Is(err, session.ErrLocationRequired) {
			return apiError(c, http.StatusUnprocessableEntity, "location_required", err.Error())
		}
		return apiError(c, http.StatusInternalServerError, "internal", err.Error())
	}
	snap, page := s.Results(0)
	status := http.StatusOK
	if snap.State == search.StateError {
		status = http.StatusBadGateway
		if snap.Err == search.ErrTimeout.Error() {
			status = http.StatusGatewayTimeout
		}
	}
	return c.JSON(status, searchView(snap, page))
}

// Results handles GET /v1/search?page=N.  The page is clamped to the
// available range.
func (h *SearchHandler) Results(c echo.Context) error {
	s, ok, err := currentSession(c, h.Sessions)
	if !ok {
		return err
	}
	n := 0
	if p := c.QueryParam("page"); p != "" {
		v, perr := strconv.Atoi(p)
		if perr != nil {
			return apiError(c, http.StatusBadRequest, "invalid_page", "page must be an integer")
		}
		n = max(v, 1)
	}
	snap, page := s.Results(n)
	return c.JSON(http.StatusOK, searchView(snap, page))
}

// Cancel handles POST /v1/search/cancel.
func (h *SearchHandler) Cancel(c echo.Context) error {
	s, ok, err := currentSession(c, h.Sessions)
	if !ok {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"cancelled": s.CancelSearch()})
}

// Book handles POST /v1/rooms/:id/book.  With ?redirect=true the guest is
// sent straight to the target with a 303.
func (h *SearchHandler) Book(c echo.Context) error {
	s, ok, err := currentSession(c, h.Sessions)
	if !ok {
		return err
	}
	in, err := s.Book(c.Request().Context(), c.Param("id"))
	if errors.Is(err, session.ErrUnitNotFound) {
		return apiError(c, http.StatusNotFound, "room_not_found", err.Error())
	}
	if err != nil {
		return apiError(c, http.StatusInternalServerError, "internal", err.Error())
	}
	if redirect, _ := strconv.ParseBool(c.QueryParam("redirect")); redirect {
		return c.Redirect(http.StatusSeeOther, in.Target())
	}
	return c.JSON(http.StatusOK, in)
}
