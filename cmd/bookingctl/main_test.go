package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDeeplink(t *testing.T) {
	out, err := run(t, "deeplink", "10", "--engine", "https://engine.example/book", "--reg-code", "REG",
		"--check-in", "2025-03-01", "--check-out", "2025-03-03", "--adults", "2")
	require.NoError(t, err)
	assert.Equal(t, "https://engine.example/book?targetTemplate=4&regCode=REG&curr=INR"+
		"&arrDate=01/03/2025&depDate=03/03/2025&arr_date=01/03/2025&dep_date=03/03/2025&adult_1=2\n", out)

	out, err = run(t, "deeplink", "10")
	require.NoError(t, err)
	assert.Equal(t, "/hotels/room/10\n", out)

	_, err = run(t, "deeplink", "10", "--check-in", "2025-03-03", "--check-out", "2025-03-01")
	assert.Error(t, err)
}

func TestSearch(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"content": [
			{"roomId": 1, "roomName": "Twin", "bookable": true, "active": true, "status": "AVAILABLE", "basePrice": 3000},
			{"roomId": 2, "roomName": "Suite", "bookable": true, "active": true, "status": "AVAILABLE", "basePrice": 9000}
		]}`))
	}))
	defer srv.Close()

	out, err := run(t, "search", "--api", srv.URL, "--location", "5")
	require.NoError(t, err)
	assert.Contains(t, query, "locationId=5")
	assert.Contains(t, out, "Page 1/1 (2 rooms)")
	assert.Contains(t, out, "Suite")
	assert.NotContains(t, out, "booking target")
}

func TestSearchUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := run(t, "search", "--api", srv.URL)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "search failed"))
}

func TestHero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/hero-sections", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id": 1, "title": "Lobby", "mediaUrl": "https://cdn/l.jpg", "displayOrder": 1}]`))
	}))
	defer srv.Close()

	out, err := run(t, "hero", "--api", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Lobby")
}
