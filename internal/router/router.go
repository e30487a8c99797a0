package router // package router defines how HTTP routes are registered for the API

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hospitality-booking/internal/handler"
	"github.com/iliyamo/hospitality-booking/internal/middleware"
)

// RegisterRoutes registers the operational endpoints: health check and,
// when metrics is non-nil, the Prometheus scrape endpoint.
func RegisterRoutes(e *echo.Echo, sessions handler.Sessions, metrics http.Handler) {
	e.GET("/healthz", handler.Health(sessions))
	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics))
	}
}

// Guest bundles the handlers behind session authentication.
type Guest struct {
	Sessions *handler.SessionHandler
	Criteria *handler.CriteriaHandler
	Search   *handler.SearchHandler
}

// RegisterGuest registers the session-scoped API under /v1.  Starting a
// session is the only unauthenticated route; searching and booking are
// also rate limited.
func RegisterGuest(e *echo.Echo, g Guest, secret string, limiter echo.MiddlewareFunc) {
	e.POST("/v1/sessions", g.Sessions.Create)

	auth := e.Group("/v1")
	auth.Use(middleware.SessionAuth(secret))
	auth.DELETE("/sessions", g.Sessions.End)

	auth.GET("/criteria", g.Criteria.Get)
	auth.PUT("/criteria/location", g.Criteria.SetLocation)
	auth.PUT("/criteria/dates", g.Criteria.SetDates)
	auth.POST("/criteria/guests", g.Criteria.AdjustGuests)

	auth.GET("/search", g.Search.Results)
	auth.POST("/search/cancel", g.Search.Cancel)
	if limiter != nil {
		auth.POST("/search", g.Search.Search, limiter)
		auth.POST("/rooms/:id/book", g.Search.Book, limiter)
	} else {
		auth.POST("/search", g.Search.Search)
		auth.POST("/rooms/:id/book", g.Search.Book)
	}
}

// RegisterPublic registers unauthenticated read endpoints.
func RegisterPublic(e *echo.Echo, content *handler.ContentHandler, intents *handler.IntentHandler) {
	e.GET("/v1/content/hero", content.Hero)
	e.GET("/v1/booking-intents/recent", intents.Recent)
}
