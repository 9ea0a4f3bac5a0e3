package reply

import (
	"strings"
	"testing"
	"time"

	"github.com/antlbn/Timezone-bot/internal/domain"
)

// Zones without DST keep expected strings stable year-round.
var (
	dubai    = "Asia/Dubai"    // UTC+4
	shanghai = "Asia/Shanghai" // UTC+8
	tokyo    = "Asia/Tokyo"    // UTC+9
)

func fixedNow() time.Time {
	return time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
}

func newFormatter(limit int, usernames bool) *Formatter {
	f := New(limit, usernames)
	f.Now = fixedNow
	return f
}

func member(city, tzID, flag, username string) domain.MemberLocation {
	return domain.MemberLocation{
		UserID:   1,
		Platform: "telegram",
		City:     city,
		Timezone: tzID,
		Flag:     flag,
		Username: username,
	}
}

func TestConversion_NoRecipients(t *testing.T) {
	f := newFormatter(10, true)
	got := f.Conversion("14:00", "Dubai", dubai, "🇦🇪", nil, "")
	want := "14:00 Dubai 🇦🇪\n" + HelpHint
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if strings.Contains(got, "|") {
		t.Fatalf("sender-only reply carries a separator: %q", got)
	}
}

func TestConversion_SelfExclusionByCity(t *testing.T) {
	f := newFormatter(10, true)
	members := []domain.MemberLocation{member("Dubai", dubai, "🇦🇪", "")}
	got := f.Conversion("14:00", "Dubai", dubai, "🇦🇪", members, "Anton")
	want := "Anton: 14:00 Dubai 🇦🇪\n" + HelpHint
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestConversion_TwoZonesSortedByOffset(t *testing.T) {
	f := newFormatter(10, true)
	// Listed Tokyo-first; output must sort ascending by offset.
	members := []domain.MemberLocation{
		member("Tokyo", tokyo, "🇯🇵", ""),
		member("Shanghai", shanghai, "🇨🇳", ""),
	}
	got := f.Conversion("14:00", "Dubai", dubai, "🇦🇪", members, "Anton")
	want := "Anton: 14:00 Dubai 🇦🇪 | 18:00 Shanghai 🇨🇳 | 19:00 Tokyo 🇯🇵\n" + HelpHint
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestConversion_DayMarkers(t *testing.T) {
	f := newFormatter(10, true)

	forward := f.Conversion("22:00", "Dubai", dubai, "🇦🇪",
		[]domain.MemberLocation{member("Tokyo", tokyo, "🇯🇵", "")}, "")
	if !strings.Contains(forward, "03:00⁺¹ Tokyo") {
		t.Fatalf("forward marker missing: %q", forward)
	}

	backward := f.Conversion("02:00", "Tokyo", tokyo, "🇯🇵",
		[]domain.MemberLocation{member("Dubai", dubai, "🇦🇪", "")}, "")
	if !strings.Contains(backward, "21:00⁻¹ Dubai") {
		t.Fatalf("backward marker missing: %q", backward)
	}

	same := f.Conversion("14:00", "Dubai", dubai, "🇦🇪",
		[]domain.MemberLocation{member("Shanghai", shanghai, "🇨🇳", "")}, "")
	if strings.Contains(same, "⁺¹") || strings.Contains(same, "⁻¹") {
		t.Fatalf("unexpected day marker: %q", same)
	}
}

func TestConversion_GroupsShareOneSegment(t *testing.T) {
	f := newFormatter(10, true)
	members := []domain.MemberLocation{
		member("Shanghai", shanghai, "🇨🇳", "li"),
		member("Beijing", shanghai, "🇨🇳", ""),
		member("Tokyo", tokyo, "🇯🇵", "aki"),
	}
	got := f.Conversion("14:00", "Dubai", dubai, "🇦🇪", members, "")
	want := "14:00 Dubai 🇦🇪 | 18:00 Shanghai, Beijing 🇨🇳 @li | 19:00 Tokyo 🇯🇵 @aki\n" + HelpHint
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestConversion_UsernamesHidden(t *testing.T) {
	f := newFormatter(10, false)
	members := []domain.MemberLocation{member("Tokyo", tokyo, "🇯🇵", "aki")}
	got := f.Conversion("14:00", "Dubai", dubai, "🇦🇪", members, "")
	if strings.Contains(got, "@aki") {
		t.Fatalf("mention rendered with usernames disabled: %q", got)
	}
}

func TestConversion_Truncation(t *testing.T) {
	f := newFormatter(1, true)
	members := []domain.MemberLocation{
		member("Tokyo", tokyo, "🇯🇵", ""),
		member("Shanghai", shanghai, "🇨🇳", ""),
		member("Dubai City", dubai, "🇦🇪", ""),
	}
	got := f.Conversion("14:00", "London", "Europe/London", "🇬🇧", members, "")
	line := strings.Split(got, "\n")[0]
	if !strings.HasSuffix(line, "... +2 more") {
		t.Fatalf("truncation suffix missing: %q", got)
	}
	// Limit keeps the nearest timezone after sorting: Dubai at +4.
	if !strings.Contains(got, "Dubai City") || strings.Contains(got, "Tokyo") {
		t.Fatalf("wrong entries survived truncation: %q", got)
	}
}

func TestConversion_UnlimitedWhenZero(t *testing.T) {
	f := newFormatter(0, true)
	members := []domain.MemberLocation{
		member("Tokyo", tokyo, "🇯🇵", ""),
		member("Shanghai", shanghai, "🇨🇳", ""),
	}
	got := f.Conversion("14:00", "Dubai", dubai, "🇦🇪", members, "")
	if strings.Contains(got, "more") {
		t.Fatalf("unexpected truncation with limit 0: %q", got)
	}
}

func TestConversion_NormalizesDisplayTime(t *testing.T) {
	f := newFormatter(10, true)
	got := f.Conversion("5 pm", "Dubai", dubai, "🇦🇪", nil, "")
	want := "17:00 Dubai 🇦🇪\n" + HelpHint
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	raw := f.Conversion("whenever", "Dubai", dubai, "🇦🇪", nil, "")
	if !strings.HasPrefix(raw, "whenever ") {
		t.Fatalf("unparseable display time not echoed: %q", raw)
	}
}

func TestConversion_Deterministic(t *testing.T) {
	f := newFormatter(2, true)
	members := []domain.MemberLocation{
		member("Tokyo", tokyo, "🇯🇵", "aki"),
		member("Shanghai", shanghai, "🇨🇳", ""),
		member("Beijing", shanghai, "🇨🇳", "li"),
	}
	first := f.Conversion("9:30", "Dubai", dubai, "🇦🇪", members, "Anton")
	for i := 0; i < 5; i++ {
		if got := f.Conversion("9:30", "Dubai", dubai, "🇦🇪", members, "Anton"); got != first {
			t.Fatalf("non-deterministic output:\n%q\n%q", first, got)
		}
	}
}
