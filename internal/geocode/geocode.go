// Package geocode resolves free-text addresses to coordinates through a
// Nominatim-compatible search endpoint.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/paulmach/orb"
)

var (
	ErrEmptyAddress = errors.New("empty address")
	ErrNoMatch      = errors.New("address not found")
)

// Geocoder turns an address into a point (longitude, latitude).
type Geocoder interface {
	Geocode(ctx context.Context, address string) (orb.Point, error)
}

// Client queries a Nominatim-compatible search endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// NewClient returns a Client for baseURL. Every request sends userAgent.
func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
	}
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode returns the first match for address as a lon/lat point.
func (c *Client) Geocode(ctx context.Context, address string) (orb.Point, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return orb.Point{}, ErrEmptyAddress
	}

	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return orb.Point{}, fmt.Errorf("build geocode request: %w", err)
	}
	// Nominatim's usage policy requires an identifying agent.
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return orb.Point{}, fmt.Errorf("geocode %q: %w", address, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return orb.Point{}, fmt.Errorf("geocode %q: unexpected status %s", address, resp.Status)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return orb.Point{}, fmt.Errorf("decode geocode response: %w", err)
	}
	if len(results) == 0 {
		return orb.Point{}, fmt.Errorf("%w: %q", ErrNoMatch, address)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return orb.Point{}, fmt.Errorf("parse latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return orb.Point{}, fmt.Errorf("parse longitude %q: %w", results[0].Lon, err)
	}
	return orb.Point{lon, lat}, nil
}

// Noop never resolves anything. Used when geocoding is switched off.
type Noop struct{}

// Geocode always fails with ErrNoMatch.
func (Noop) Geocode(context.Context, string) (orb.Point, error) {
	return orb.Point{}, ErrNoMatch
}
