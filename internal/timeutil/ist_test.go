package timeutil

import (
	"testing"
	"time"
)

func TestParseBackendBothPrecisions(t *testing.T) {
	for _, value := range []string{"2025-11-24T14:30:00", "2025-11-24T14:30"} {
		got, err := ParseBackend(value)
		if err != nil {
			t.Fatalf("ParseBackend(%q) failed: %v", value, err)
		}
		if got.Hour() != 14 || got.Minute() != 30 {
			t.Fatalf("ParseBackend(%q) = %v", value, got)
		}
		if got.Location() != IST {
			t.Fatalf("expected IST location, got %v", got.Location())
		}
	}
}

func TestParseBackendRejectsGarbage(t *testing.T) {
	if _, err := ParseBackend("24-11-2025 14:30"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestFormatDisplay(t *testing.T) {
	if got := FormatDisplay("2025-11-24T14:30:00"); got != "24 Nov 2025, 2:30 PM" {
		t.Fatalf("unexpected display format %q", got)
	}
	// Unparseable values pass through untouched.
	if got := FormatDisplay("n/a"); got != "n/a" {
		t.Fatalf("expected raw fallback, got %q", got)
	}
}

func TestISTOffset(t *testing.T) {
	_, offset := time.Date(2025, 1, 15, 12, 0, 0, 0, IST).Zone()
	if offset != 5*3600+1800 {
		t.Fatalf("expected +05:30 offset, got %d", offset)
	}
}
