// Package tz projects a wall-clock time between IANA timezones and
// reports current UTC offsets for sort ordering. Both operations
// degrade instead of failing: a reply with a slightly wrong detail
// beats no reply.
package tz

import (
	"time"

	"github.com/antlbn/Timezone-bot/internal/domain"
)

// Offset returns the current UTC offset of tzID in fractional hours,
// DST-aware at call time. Unresolvable zones report 0, which clusters
// them with UTC in sort order; acceptable for ordering-only use.
func Offset(tzID string) float64 {
	loc, err := time.LoadLocation(tzID)
	if err != nil {
		return 0
	}
	_, secs := time.Now().In(loc).Zone()
	return float64(secs) / 3600
}

// Convert parses timeStr, places it on ref's calendar date in fromTZ and
// projects it into toTZ. It returns the converted "HH:MM" string and the
// calendar-day delta between the two zoned results (-1, 0 or +1 for any
// realistic pair, computed as the actual date difference). Any failure —
// unparseable string, unknown zone — returns the input unchanged with
// offset 0.
func Convert(timeStr, fromTZ, toTZ string, ref time.Time) (string, int) {
	t, err := domain.ParseTimeString(timeStr)
	if err != nil {
		return timeStr, 0
	}

	fromLoc, err := time.LoadLocation(fromTZ)
	if err != nil {
		return timeStr, 0
	}
	toLoc, err := time.LoadLocation(toTZ)
	if err != nil {
		return timeStr, 0
	}

	src := time.Date(ref.Year(), ref.Month(), ref.Day(), t.Hour, t.Minute, 0, 0, fromLoc)
	dst := src.In(toLoc)

	return dst.Format("15:04"), dayDelta(src, dst)
}

// dayDelta is the signed difference in calendar days between two
// instants as observed in their own locations.
func dayDelta(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}
