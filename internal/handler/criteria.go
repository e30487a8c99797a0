package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hospitality-booking/internal/criteria"
	"github.com/iliyamo/hospitality-booking/internal/model"
)

// CriteriaHandler edits the session's search criteria.
type CriteriaHandler struct {
	Sessions Sessions
}

type criteriaResponse struct {
	Criteria  model.SearchCriteria `json:"criteria"`
	CanSearch bool                 `json:"can_search"`
}

func criteriaView(st *criteria.Store) criteriaResponse {
	return criteriaResponse{Criteria: st.Snapshot(), CanSearch: st.CanSearch()}
}

// Get handles GET /v1/criteria.
func (h *CriteriaHandler) Get(c echo.Context) error {
	s, ok, err := currentSession(c, h.Sessions)
	if !ok {
		return err
	}
	return c.JSON(http.StatusOK, criteriaView(s.Criteria))
}

type locationRequest struct {
	LocationID *int64 `json:"location_id"`
}

// SetLocation handles PUT /v1/criteria/location.  A null location_id
// means all locations.
func (h *CriteriaHandler) SetLocation(c echo.Context) error {
	s, ok, err := currentSession(c, h.Sessions)
	if !ok {
		return err
	}
	var req locationRequest
	if err := c.Bind(&req); err != nil {
		return apiError(c, http.StatusBadRequest, "invalid_body", "expected {\"location_id\": number|null}")
	}
	s.Criteria.SetLocation(req.LocationID)
	return c.JSON(http.StatusOK, criteriaView(s.Criteria))
}

type datesRequest struct {
	CheckIn  *string `json:"check_in"`
	CheckOut *string `json:"check_out"`
	Clear    bool    `json:"clear"`
}

// SetDates handles PUT /v1/criteria/dates.  Dates are YYYY-MM-DD.  Check-in
// is applied before check-out; a check-out not after check-in is refused
// with 422 and leaves the criteria as they were after check-in.
func (h *CriteriaHandler) SetDates(c echo.Context) error {
	s, ok, err := currentSession(c, h.Sessions)
	if !ok {
		return err
	}
	var req datesRequest
	if err := c.Bind(&req); err != nil {
		return apiError(c, http.StatusBadRequest, "invalid_body", "expected check_in, check_out or clear")
	}
	if req.Clear {
		s.Criteria.ClearDates()
		return c.JSON(http.StatusOK, criteriaView(s.Criteria))
	}

	var in, out time.Time
	if req.CheckIn != nil {
		if in, err = time.Parse(time.DateOnly, *req.CheckIn); err != nil {
			return apiError(c, http.StatusBadRequest, "invalid_date", "check_in must be YYYY-MM-DD")
		}
	}
	if req.CheckOut != nil {
		if out, err = time.Parse(time.DateOnly, *req.CheckOut); err != nil {
			return apiError(c, http.StatusBadRequest, "invalid_date", "check_out must be YYYY-MM-DD")
		}
	}
	if req.CheckIn != nil {
		s.Criteria.SetCheckIn(in)
	}
	if req.CheckOut != nil && !s.Criteria.SetCheckOut(out) {
		return apiError(c, http.StatusUnprocessableEntity, "invalid_checkout", "check_out must be after check_in")
	}
	return c.JSON(http.StatusOK, criteriaView(s.Criteria))
}

type guestsRequest struct {
	Field string `json:"field"`
	Delta int    `json:"delta"`
}

// AdjustGuests handles POST /v1/criteria/guests.  Counters never go below
// their floor; a decrement past it is a no-op, not an error.
func (h *CriteriaHandler) AdjustGuests(c echo.Context) error {
	s, ok, err := currentSession(c, h.Sessions)
	if !ok {
		return err
	}
	var req guestsRequest
	if err := c.Bind(&req); err != nil {
		return apiError(c, http.StatusBadRequest, "invalid_body", "expected {\"field\": string, \"delta\": number}")
	}
	field, valid := criteria.ParseGuestField(req.Field)
	if !valid {
		return apiError(c, http.StatusBadRequest, "invalid_field", "field must be adults, children or rooms")
	}
	value := s.Criteria.SetGuests(field, req.Delta)
	return c.JSON(http.StatusOK, echo.Map{"field": field, "value": value, "criteria": s.Criteria.Snapshot()})
}
