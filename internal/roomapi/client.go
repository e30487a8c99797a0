// Package roomapi is the HTTP client for the room search API.  It returns
// raw response bodies; shape handling lives in package normalize.
package roomapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PropertyTypeHotel is the only property type this service searches.
const PropertyTypeHotel = "Hotel"

// ISODate is the yyyy-MM-dd layout the API expects for stay dates.
const ISODate = "2006-01-02"

// SearchPath is the room search endpoint relative to the base URL.
const SearchPath = "/api/rooms/search"

const maxBodyBytes = 8 << 20

// Query holds the search request parameters.  Nil fields and a zero
// MinOccupancy are left out of the request.
type Query struct {
	PropertyType string
	Page         int
	Size         int
	LocationID   *int64
	CheckIn      *time.Time
	CheckOut     *time.Time
	MinOccupancy int
}

// Values encodes q as URL query parameters.
func (q Query) Values() url.Values {
	v := url.Values{}
	pt := q.PropertyType
	if pt == "" {
		pt = PropertyTypeHotel
	}
	v.Set("propertyType", pt)
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("size", strconv.Itoa(q.Size))
	if q.LocationID != nil {
		v.Set("locationId", strconv.FormatInt(*q.LocationID, 10))
	}
	if q.CheckIn != nil {
		v.Set("checkIn", q.CheckIn.Format(ISODate))
	}
	if q.CheckOut != nil {
		v.Set("checkOut", q.CheckOut.Format(ISODate))
	}
	if q.MinOccupancy > 0 {
		v.Set("minOccupancy", strconv.Itoa(q.MinOccupancy))
	}
	return v
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("room search api returned status %d: %s", e.Code, e.Body)
}

// ErrEmptyBaseURL is returned by NewClient without a base URL.
var ErrEmptyBaseURL = errors.New("roomapi: base url is required")

type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient returns a client for baseURL.  A nil httpClient gets a
// default one with a 30 second timeout; per-search deadlines come from ctx.
func NewClient(baseURL string, httpClient *http.Client, log *slog.Logger) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrEmptyBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{baseURL: baseURL, httpClient: httpClient, log: log.With("component", "roomapi")}, nil
}

// SearchRooms runs q and returns the raw response body.
func (c *Client) SearchRooms(ctx context.Context, q Query) ([]byte, error) {
	u := c.baseURL + SearchPath + "?" + q.Values().Encode()
	return c.get(ctx, u)
}

// Get fetches an arbitrary path under the base URL.  The content loader
// uses it for hero sections.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	return c.get(ctx, c.baseURL+"/"+strings.TrimLeft(path, "/"))
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	reqID := uuid.NewString()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)

	c.log.Debug("sending request", "url", u, "request_id", reqID)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", reqID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body %s: %w", reqID, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := string(body)
		if len(snippet) > 256 {
			snippet = snippet[:256]
		}
		return nil, &StatusError{Code: resp.StatusCode, Body: snippet}
	}
	return body, nil
}
