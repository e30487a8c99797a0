package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hospitality-booking/internal/config"
	"github.com/iliyamo/hospitality-booking/internal/utils"
)

func TestSessionAuth(t *testing.T) {
	e := echo.New()
	h := SessionAuth("secret")(func(c echo.Context) error {
		return c.String(http.StatusOK, SessionID(c))
	})
	tok, err := utils.NewSessionToken("secret", "sess-1", time.Hour, time.Now())
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		code   int
		body   string
	}{
		{"valid", "Bearer " + tok.Token, http.StatusOK, "sess-1"},
		{"missing", "", http.StatusUnauthorized, "missing bearer token"},
		{"bad", "Bearer nope", http.StatusUnauthorized, "invalid session token"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			require.NoError(t, h(e.NewContext(req, rec)))
			assert.Equal(t, tc.code, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.body)
		})
	}
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/search", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/search")
	c.Set(SessionIDKey, "s-9")

	cfg := config.RateLimitConfig{Prefix: "rl"}
	for strategy, want := range map[string]string{
		"ip_session_route": "rl:ip:10.0.0.1:session:s-9:route:POST /v1/search",
		"session":          "rl:session:s-9",
		"ip_route":         "rl:ip:10.0.0.1:route:POST /v1/search",
		"bogus":            "rl:ip:10.0.0.1:session:s-9:route:POST /v1/search",
	} {
		cfg.KeyStrategy = strategy
		assert.Equal(t, want, buildRateKey(cfg, c), strategy)
	}
}

func TestTokenBucketWithoutRedisPassesThrough(t *testing.T) {
	e := echo.New()
	mw := NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil, nil)
	calls := 0
	h := mw(func(c echo.Context) error { calls++; return c.NoContent(http.StatusNoContent) })
	for i := 0; i < 50; i++ {
		rec := httptest.NewRecorder()
		require.NoError(t, h(e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}
	assert.Equal(t, 50, calls)
}
