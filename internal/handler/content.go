package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hospitality-booking/internal/content"
	"github.com/iliyamo/hospitality-booking/internal/model"
)

// HeroLoader is implemented by *content.Loader.
type HeroLoader interface {
	Hero(ctx context.Context) (content.HeroResult, error)
}

// ContentHandler serves landing page content.
type ContentHandler struct {
	Loader HeroLoader
}

// Hero handles GET /v1/content/hero.
func (h *ContentHandler) Hero(c echo.Context) error {
	res, err := h.Loader.Hero(c.Request().Context())
	if errors.Is(err, content.ErrUpstream) {
		return apiError(c, http.StatusBadGateway, "content_unavailable", "hero sections could not be loaded")
	}
	if err != nil {
		return apiError(c, http.StatusInternalServerError, "internal", err.Error())
	}
	if res.Sections == nil {
		res.Sections = []model.HeroSection{}
	}
	return c.JSON(http.StatusOK, res)
}
