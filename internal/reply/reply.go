// Package reply renders the one-line conversion summary a time mention
// produces. Output is deterministic for identical inputs; golden tests
// depend on that.
package reply

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/antlbn/Timezone-bot/internal/domain"
	"github.com/antlbn/Timezone-bot/internal/tz"
)

// HelpHint trails every reply on its own line.
const HelpHint = "/tb_help"

// Formatter carries the display knobs. Zero DisplayLimit means
// unlimited. Now is swappable for deterministic tests.
type Formatter struct {
	DisplayLimit  int
	ShowUsernames bool
	Now           func() time.Time
}

// New returns a Formatter with the given knobs.
func New(displayLimit int, showUsernames bool) *Formatter {
	return &Formatter{
		DisplayLimit:  displayLimit,
		ShowUsernames: showUsernames,
		Now:           time.Now,
	}
}

// Conversion builds the reply for one mentioned time:
//
//	Anton: 10:30 Sarajevo 🇧🇦 | 16:30 Paris 🇫🇷 | 18:30⁺¹ Moscow 🇷🇺
//	/tb_help
//
// Recipients sharing the sender's city are excluded. The rest are
// sorted ascending by current UTC offset (stable), truncated to the
// display limit, grouped by exact timezone, and converted per group.
func (f *Formatter) Conversion(originalTime, senderCity, senderTZ, senderFlag string, members []domain.MemberLocation, senderName string) string {
	now := f.now()

	display := normalizeTime(originalTime)

	others := make([]domain.MemberLocation, 0, len(members))
	for _, m := range members {
		if m.City == senderCity {
			continue
		}
		others = append(others, m)
	}

	sender := senderLine(display, senderCity, senderFlag, senderName)
	if len(others) == 0 {
		return sender + "\n" + HelpHint
	}

	// Sort before truncating so the limit keeps the nearest timezones,
	// not an arbitrary storage prefix. Stable sort preserves first-seen
	// order within equal offsets.
	sort.SliceStable(others, func(i, j int) bool {
		return tz.Offset(others[i].Timezone) < tz.Offset(others[j].Timezone)
	})

	eligible := len(others)
	shown := others
	if f.DisplayLimit > 0 && eligible > f.DisplayLimit {
		shown = others[:f.DisplayLimit]
	}

	parts := []string{sender}
	for _, g := range groupByTimezone(shown) {
		converted, dayOff := tz.Convert(originalTime, senderTZ, g.tzID, now)
		parts = append(parts, g.render(converted, dayOff, f.ShowUsernames))
	}

	line := strings.Join(parts, " | ")
	if f.DisplayLimit > 0 && eligible > f.DisplayLimit {
		line += " | ... +" + strconv.Itoa(eligible-f.DisplayLimit) + " more"
	}
	return line + "\n" + HelpHint
}

func (f *Formatter) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}

// normalizeTime renders any parseable input as HH:MM for display; an
// unparseable string is shown as typed rather than blocking the reply.
func normalizeTime(s string) string {
	t, err := domain.ParseTimeString(s)
	if err != nil {
		return s
	}
	return t.String()
}

func senderLine(display, city, flag, name string) string {
	part := display + " " + city + " " + flag
	if name != "" {
		part = name + ": " + part
	}
	return part
}

type group struct {
	tzID    string
	members []domain.MemberLocation
}

// groupByTimezone groups an already-sorted slice by exact timezone id,
// preserving the slice's order both across and within groups.
func groupByTimezone(members []domain.MemberLocation) []group {
	index := make(map[string]int, len(members))
	var groups []group
	for _, m := range members {
		i, ok := index[m.Timezone]
		if !ok {
			i = len(groups)
			index[m.Timezone] = i
			groups = append(groups, group{tzID: m.Timezone})
		}
		groups[i].members = append(groups[i].members, m)
	}
	return groups
}

func (g group) render(converted string, dayOff int, showUsernames bool) string {
	timeDisplay := converted
	switch dayOff {
	case 1:
		timeDisplay += "⁺¹"
	case -1:
		timeDisplay += "⁻¹"
	}

	cities := make([]string, 0, len(g.members))
	for _, m := range g.members {
		cities = append(cities, m.City)
	}

	part := timeDisplay + " " + strings.Join(cities, ", ") + " " + g.members[0].Flag

	if showUsernames {
		var mentions []string
		for _, m := range g.members {
			if m.Username != "" {
				mentions = append(mentions, "@"+m.Username)
			}
		}
		if len(mentions) > 0 {
			part += " " + strings.Join(mentions, ", ")
		}
	}
	return part
}
