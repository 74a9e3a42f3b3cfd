package check

import (
	"testing"
	"time"
)

func TestNormalizeOffset(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"+02:00", "+02:00", true},
		{"-05:00", "-05:00", true},
		{"+0200", "+02:00", true},
		{"-0930", "-09:30", true},
		{"UTC+2", "+02:00", true},
		{"utc-5", "-05:00", true},
		{"GMT+5:30", "+05:30", true},
		{"GMT-8", "-08:00", true},
		{"+2", "+02:00", true},
		{"-9:30", "-09:30", true},
		{"2", "+02:00", true},
		{" +02:00 ", "+02:00", true},
		{"", "", false},
		{"noon", "", false},
		{"2024:07:15 12:00:00", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizeOffset(tt.in)
		if ok != tt.ok {
			t.Errorf("NormalizeOffset(%q): ok=%v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("NormalizeOffset(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseOffset(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"+02:00", 2 * time.Hour},
		{"-05:00", -5 * time.Hour},
		{"+05:30", 5*time.Hour + 30*time.Minute},
		{"Z", 0},
		{"+00:00", 0},
	}
	for _, tt := range tests {
		got, err := ParseOffset(tt.in)
		if err != nil {
			t.Errorf("ParseOffset(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseOffset(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseOffset("2:00"); err == nil {
		t.Error("expected error for non-canonical offset")
	}
}

func TestFormatOffsetHHMM_RoundTrip(t *testing.T) {
	for _, s := range []string{"+02:00", "-05:00", "+05:30", "+00:00", "-09:45"} {
		d, err := ParseOffset(s)
		if err != nil {
			t.Fatalf("ParseOffset(%q): %v", s, err)
		}
		if got := FormatOffsetHHMM(d); got != s {
			t.Errorf("FormatOffsetHHMM(ParseOffset(%q)) = %q", s, got)
		}
	}
}
