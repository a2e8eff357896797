package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/paulmach/orb"
)

func TestGeocodeParsesFirstResult(t *testing.T) {
	var gotQuery, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotQuery = r.URL.Query().Get("q")
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"33.7490","lon":"-84.3880","display_name":"Atlanta"},{"lat":"0","lon":"0"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "arborcost-test", time.Second)
	p, err := c.Geocode(context.Background(), "  100 Peachtree St Atlanta GA ")
	if err != nil {
		t.Fatalf("geocode: %v", err)
	}
	if p != (orb.Point{-84.388, 33.749}) {
		t.Fatalf("unexpected point %v", p)
	}
	if gotQuery != "100 Peachtree St Atlanta GA" {
		t.Fatalf("unexpected query %q", gotQuery)
	}
	if gotAgent != "arborcost-test" {
		t.Fatalf("unexpected user agent %q", gotAgent)
	}
}

func TestGeocodeFailures(t *testing.T) {
	body := `[]`
	status := http.StatusOK
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()
	c := NewClient(srv.URL, "arborcost-test", time.Second)
	ctx := context.Background()

	if _, err := c.Geocode(ctx, "   "); !errors.Is(err, ErrEmptyAddress) {
		t.Fatalf("expected empty address error, got %v", err)
	}
	if _, err := c.Geocode(ctx, "nowhere"); !errors.Is(err, ErrNoMatch) {
		t.Fatalf("expected no match, got %v", err)
	}

	body = `[{"lat":"north","lon":"1"}]`
	if _, err := c.Geocode(ctx, "bad coords"); err == nil {
		t.Fatalf("expected parse failure")
	}

	status = http.StatusTooManyRequests
	body = `{}`
	if _, err := c.Geocode(ctx, "throttled"); err == nil {
		t.Fatalf("expected status failure")
	}
}
