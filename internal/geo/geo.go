// Package geo resolves user input (a city name or a current local time)
// into a location with an IANA timezone. Geocoding goes through a
// Nominatim-compatible HTTP endpoint; coordinates map to a zone locally.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/ringsaturn/tzf"

	"github.com/antlbn/Timezone-bot/internal/capture"
	"github.com/antlbn/Timezone-bot/internal/domain"
)

// ErrNotFound reports an input that resolved to no known location.
var ErrNotFound = errors.New("location not found")

const userAgent = "timezone-bot"

// Client geocodes city names and maps coordinates to timezones.
type Client struct {
	httpc   *http.Client
	baseURL string
	finder  tzf.F
	now     func() time.Time
}

// NewClient builds a Client against a Nominatim-compatible base URL.
// The embedded timezone shapes load once here; reuse the Client.
func NewClient(baseURL string) (*Client, error) {
	finder, err := tzf.NewDefaultFinder()
	if err != nil {
		return nil, fmt.Errorf("timezone finder: %w", err)
	}
	return &Client{
		httpc:   &http.Client{Timeout: 5 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		finder:  finder,
		now:     time.Now,
	}, nil
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Address     struct {
		CountryCode string `json:"country_code"`
	} `json:"address"`
}

// LookupCity geocodes a city name and derives its timezone from the
// returned coordinates. First match wins; ambiguous names are not
// disambiguated further.
func (c *Client) LookupCity(ctx context.Context, name string) (*domain.GeoResult, error) {
	q := url.Values{}
	q.Set("q", name)
	q.Set("format", "json")
	q.Set("limit", "1")
	q.Set("accept-language", "en")
	q.Set("addressdetails", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode %q: %w", name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode %q: status %d", name, resp.StatusCode)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("geocode %q: %w", name, err)
	}
	if len(places) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	p := places[0]
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("geocode %q: bad latitude %q", name, p.Lat)
	}
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("geocode %q: bad longitude %q", name, p.Lon)
	}

	zone := c.finder.GetTimezoneName(lon, lat)
	if zone == "" {
		return nil, fmt.Errorf("%w: no timezone for %q", ErrNotFound, name)
	}

	code := strings.ToUpper(p.Address.CountryCode)
	display := p.DisplayName
	if i := strings.Index(display, ","); i >= 0 {
		display = display[:i]
	}

	return &domain.GeoResult{
		City:        titleCase(name),
		Timezone:    zone,
		CountryCode: code,
		Flag:        CountryFlag(code),
		DisplayName: display,
	}, nil
}

// ResolveInput resolves free-form input, time pattern first: "15:30"
// means "my clock shows 15:30 right now" and beats city geocoding,
// which would happily match "19:53" to some village. Falls back to
// LookupCity.
func (c *Client) ResolveInput(ctx context.Context, input string, ex *capture.Extractor) (*domain.GeoResult, error) {
	input = strings.TrimSpace(input)

	if times := ex.ExtractTimes(input); len(times) > 0 {
		if t, err := domain.ParseTimeString(times[0]); err == nil {
			nowUTC := c.now().UTC()
			offset := float64(t.Hour) + float64(t.Minute)/60 -
				(float64(nowUTC.Hour()) + float64(nowUTC.Minute())/60)
			// Day boundary: a clock ahead by 20h is really behind by 4h.
			if offset > 12 {
				offset -= 24
			} else if offset < -12 {
				offset += 24
			}
			r := TimezoneByOffset(offset)
			return &r, nil
		}
	}

	return c.LookupCity(ctx, input)
}

// offsetZones maps whole-hour UTC offsets to a representative IANA zone.
var offsetZones = map[int]string{
	-12: "Etc/GMT+12",
	-11: "Pacific/Midway",
	-10: "Pacific/Honolulu",
	-9:  "America/Anchorage",
	-8:  "America/Los_Angeles",
	-7:  "America/Denver",
	-6:  "America/Chicago",
	-5:  "America/New_York",
	-4:  "America/Halifax",
	-3:  "America/Sao_Paulo",
	-2:  "Atlantic/South_Georgia",
	-1:  "Atlantic/Azores",
	0:   "Europe/London",
	1:   "Europe/Paris",
	2:   "Europe/Helsinki",
	3:   "Europe/Moscow",
	4:   "Asia/Dubai",
	5:   "Asia/Karachi",
	6:   "Asia/Dhaka",
	7:   "Asia/Bangkok",
	8:   "Asia/Singapore",
	9:   "Asia/Tokyo",
	10:  "Australia/Sydney",
	11:  "Pacific/Noumea",
	12:  "Pacific/Auckland",
}

// TimezoneByOffset picks a representative zone for a UTC offset in
// hours, rounded to the nearest whole hour and clamped to ±12.
func TimezoneByOffset(offsetHours float64) domain.GeoResult {
	rounded := int(offsetHours + 0.5)
	if offsetHours < 0 {
		rounded = int(offsetHours - 0.5)
	}
	if rounded > 12 {
		rounded = 12
	}
	if rounded < -12 {
		rounded = -12
	}

	zone, ok := offsetZones[rounded]
	if !ok {
		zone = "Etc/UTC"
	}

	sign := "+"
	if rounded < 0 {
		sign = ""
	}
	return domain.GeoResult{
		City:     fmt.Sprintf("UTC%s%d", sign, rounded),
		Timezone: zone,
		Flag:     "🌐",
	}
}

// CountryFlag converts an ISO-3166 alpha-2 code to its emoji flag.
// Anything but two ASCII letters yields an empty string.
func CountryFlag(code string) string {
	if len(code) != 2 {
		return ""
	}
	var b strings.Builder
	for _, r := range strings.ToUpper(code) {
		if r < 'A' || r > 'Z' {
			return ""
		}
		b.WriteRune(0x1F1E6 + r - 'A')
	}
	return b.String()
}

// titleCase uppercases the first letter of each word: "new york" →
// "New York".
func titleCase(s string) string {
	prevLetter := false
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) {
			if !prevLetter {
				prevLetter = true
				return unicode.ToUpper(r)
			}
			prevLetter = true
			return unicode.ToLower(r)
		}
		prevLetter = false
		return r
	}, s)
}
