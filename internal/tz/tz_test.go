package tz

import (
	"testing"
	"time"
)

func TestOffset_KnownZones(t *testing.T) {
	if got := Offset("Asia/Tokyo"); got != 9 {
		t.Fatalf("Tokyo offset = %v, want 9", got)
	}
	if got := Offset("UTC"); got != 0 {
		t.Fatalf("UTC offset = %v, want 0", got)
	}
	// Half-hour zone stays fractional.
	if got := Offset("Asia/Kolkata"); got != 5.5 {
		t.Fatalf("Kolkata offset = %v, want 5.5", got)
	}
}

func TestOffset_InvalidZoneDegrades(t *testing.T) {
	if got := Offset("invalid/zone"); got != 0 {
		t.Fatalf("invalid zone offset = %v, want 0", got)
	}
}

func TestConvert_Identity(t *testing.T) {
	got, off := Convert("14:00", "Europe/Berlin", "Europe/Berlin", time.Now())
	if got != "14:00" || off != 0 {
		t.Fatalf("identity conversion = (%q, %d)", got, off)
	}
}

func TestConvert_FixedOffsetPair(t *testing.T) {
	// Tokyo is one hour ahead of Shanghai year-round; neither observes DST.
	ref := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	got, off := Convert("14:00", "Asia/Shanghai", "Asia/Tokyo", ref)
	if got != "15:00" || off != 0 {
		t.Fatalf("Shanghai→Tokyo = (%q, %d), want (\"15:00\", 0)", got, off)
	}
}

func TestConvert_DayForward(t *testing.T) {
	ref := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	got, off := Convert("23:00", "Europe/London", "Asia/Tokyo", ref)
	if off != 1 {
		t.Fatalf("London 23:00 → Tokyo = (%q, %d), want day offset +1", got, off)
	}
}

func TestConvert_DayBackward(t *testing.T) {
	ref := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	got, off := Convert("01:00", "Asia/Tokyo", "America/Los_Angeles", ref)
	if off != -1 {
		t.Fatalf("Tokyo 01:00 → LA = (%q, %d), want day offset -1", got, off)
	}
}

func TestConvert_DegradesOnBadInput(t *testing.T) {
	if got, off := Convert("14:00", "invalid/zone", "Asia/Tokyo", time.Now()); got != "14:00" || off != 0 {
		t.Fatalf("bad source zone = (%q, %d)", got, off)
	}
	if got, off := Convert("garbage text", "UTC", "Asia/Tokyo", time.Now()); got != "garbage text" || off != 0 {
		t.Fatalf("unparseable time = (%q, %d)", got, off)
	}
	if got, off := Convert("5 pm", "UTC", "Asia/Tokyo", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)); got != "02:00" || off != 1 {
		t.Fatalf("12h input = (%q, %d), want (\"02:00\", 1)", got, off)
	}
}
