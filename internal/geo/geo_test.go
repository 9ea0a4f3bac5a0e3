package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/antlbn/Timezone-bot/internal/capture"
	"github.com/antlbn/Timezone-bot/internal/config"
)

func TestCountryFlag(t *testing.T) {
	cases := []struct{ in, want string }{
		{"DE", "🇩🇪"},
		{"de", "🇩🇪"},
		{"JP", "🇯🇵"},
		{"", ""},
		{"D", ""},
		{"DEU", ""},
		{"1X", ""},
	}
	for _, c := range cases {
		if got := CountryFlag(c.in); got != c.want {
			t.Fatalf("CountryFlag(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTimezoneByOffset(t *testing.T) {
	cases := []struct {
		in   float64
		zone string
		city string
	}{
		{3.0, "Europe/Moscow", "UTC+3"},
		{3.4, "Europe/Moscow", "UTC+3"},
		{3.6, "Asia/Dubai", "UTC+4"},
		{-4.6, "America/New_York", "UTC-5"},
		{0, "Europe/London", "UTC+0"},
		{14, "Pacific/Auckland", "UTC+12"},
		{-14, "Etc/GMT+12", "UTC-12"},
	}
	for _, c := range cases {
		got := TimezoneByOffset(c.in)
		if got.Timezone != c.zone || got.City != c.city {
			t.Fatalf("TimezoneByOffset(%v) = %+v, want %s/%s", c.in, got, c.city, c.zone)
		}
	}
}

func TestTitleCase(t *testing.T) {
	if got := titleCase("new york"); got != "New York" {
		t.Fatalf("titleCase = %q", got)
	}
	if got := titleCase("BERLIN"); got != "Berlin" {
		t.Fatalf("titleCase = %q", got)
	}
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestLookupCity(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "berlin" {
			t.Errorf("query = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"52.5170365","lon":"13.3888599","display_name":"Berlin, Germany","address":{"country_code":"de"}}]`))
	}))

	got, err := c.LookupCity(context.Background(), "berlin")
	if err != nil {
		t.Fatalf("LookupCity: %v", err)
	}
	if got.Timezone != "Europe/Berlin" {
		t.Fatalf("timezone = %q", got.Timezone)
	}
	if got.City != "Berlin" || got.Flag != "🇩🇪" || got.CountryCode != "DE" {
		t.Fatalf("result = %+v", got)
	}
	if got.DisplayName != "Berlin" {
		t.Fatalf("display name = %q", got.DisplayName)
	}
}

func TestLookupCity_NotFound(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	if _, err := c.LookupCity(context.Background(), "nowhere-at-all"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestResolveInput_TimeFirst(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("geocoder called for a time input")
	}))
	c.now = func() time.Time {
		return time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	}

	tables, err := config.LoadCaptureTables("")
	if err != nil {
		t.Fatalf("load tables: %v", err)
	}
	ex, err := capture.New(tables, nil)
	if err != nil {
		t.Fatalf("new extractor: %v", err)
	}

	// Clock showing 15:30 against 12:00 UTC → offset +3.5 → UTC+4.
	got, err := c.ResolveInput(context.Background(), "15:30", ex)
	if err != nil {
		t.Fatalf("ResolveInput: %v", err)
	}
	if got.Timezone != "Asia/Dubai" || got.City != "UTC+4" {
		t.Fatalf("result = %+v", got)
	}
}
