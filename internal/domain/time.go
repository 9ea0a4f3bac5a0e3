package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/antlbn/Timezone-bot/internal/nlp"
)

// ErrInvalidTimeFormat reports a time string none of the parsing
// strategies could interpret. Callers decide whether to surface it
// (re-prompt the user) or suppress it; it is never coerced to a default.
var ErrInvalidTimeFormat = errors.New("invalid time format")

// TimeOfDay is a wall-clock time with no date and no timezone.
type TimeOfDay struct {
	Hour   int // 0..23
	Minute int // 0..59
}

// NewTimeOfDay validates ranges before construction; out-of-range input
// from any parsing path is a parse failure, not a clamped value.
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 {
		return TimeOfDay{}, fmt.Errorf("%w: hour %d", ErrInvalidTimeFormat, hour)
	}
	if minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: minute %d", ErrInvalidTimeFormat, minute)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// String renders the canonical HH:MM form.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// ParseTimeString converts one extracted time string into a TimeOfDay.
//
// Strategies, fast path first:
//  1. 24h "H:MM"/"HH:MM" — colon present, no am/pm marker, both parts numeric.
//  2. 12h "H[:MM] am/pm" — marker stripped, 12am→0 / 12pm→12 rule applied.
//  3. Natural language ("в 9 вечера", "tomorrow at 8:00") — the date
//     component of the interpretation is ignored.
//
// Returns ErrInvalidTimeFormat when all three fail.
func ParseTimeString(s string) (TimeOfDay, error) {
	upper := strings.ToUpper(strings.TrimSpace(s))

	isAM := strings.Contains(upper, "AM")
	isPM := strings.Contains(upper, "PM")

	if strings.Contains(upper, ":") && !isAM && !isPM {
		if t, ok := parse24h(upper); ok {
			return t, nil
		}
	} else if isAM || isPM {
		if t, ok := parse12h(upper, isPM); ok {
			return t, nil
		}
	}

	// Slow path: single-value natural language interpretation.
	if at, ok := nlp.Default().ParseTime(s, time.Now()); ok {
		return TimeOfDay{Hour: at.Hour(), Minute: at.Minute()}, nil
	}

	return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
}

func parse24h(s string) (TimeOfDay, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return TimeOfDay{}, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return TimeOfDay{}, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return TimeOfDay{}, false
	}
	t, err := NewTimeOfDay(h, m)
	if err != nil {
		return TimeOfDay{}, false
	}
	return t, true
}

func parse12h(s string, pm bool) (TimeOfDay, bool) {
	s = strings.ReplaceAll(s, "AM", "")
	s = strings.ReplaceAll(s, "PM", "")
	s = strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))

	var h, m int
	var err error
	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		if len(parts) != 2 {
			return TimeOfDay{}, false
		}
		if h, err = strconv.Atoi(strings.TrimSpace(parts[0])); err != nil {
			return TimeOfDay{}, false
		}
		if m, err = strconv.Atoi(strings.TrimSpace(parts[1])); err != nil {
			return TimeOfDay{}, false
		}
	} else {
		if h, err = strconv.Atoi(s); err != nil {
			return TimeOfDay{}, false
		}
	}

	if h < 1 || h > 12 {
		return TimeOfDay{}, false
	}
	switch {
	case pm && h != 12:
		h += 12
	case !pm && h == 12:
		h = 0
	}

	t, err := NewTimeOfDay(h, m)
	if err != nil {
		return TimeOfDay{}, false
	}
	return t, true
}

// ValidateTZ checks that tz is a valid IANA location.
func ValidateTZ(tz string) (string, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return "", err
	}
	return loc.String(), nil
}
