package timeparse

import (
	"errors"
	"testing"
	"time"
)

func TestParseAcceptedLayouts(t *testing.T) {
	tests := []struct {
		in   string
		want TimeOfDay
	}{
		{"1:05 PM", Of(13, 5, 0)},
		{"01:05 PM", Of(13, 5, 0)},
		{"13:05", Of(13, 5, 0)},
		{"1:05:30 PM", Of(13, 5, 30)},
		{"13:05:30", Of(13, 5, 30)},
		{"12:00 AM", Of(0, 0, 0)},
		{"12:30 PM", Of(12, 30, 0)},
		{"09:00 am", Of(9, 0, 0)},
		{"  10:20 AM  ", Of(10, 20, 0)},
		{"00:00", Of(0, 0, 0)},
		{"23:59:59", Of(23, 59, 59)},
	}

	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Errorf("Parse(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestParseSameInstantAcrossLayouts(t *testing.T) {
	a, err := Parse("1:05 PM")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	b, err := Parse("13:05")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if a != b {
		t.Fatalf("expected 1:05 PM == 13:05, got %s and %s", a, b)
	}
}

func TestParseRejects(t *testing.T) {
	for _, in := range []string{"", "   ", "noon", "25:00", "13:05 PM", "10:60", "10", "10:20 XM", "10:20:11:00", "9:5", "9:5 PM"} {
		_, err := Parse(in)
		if err == nil {
			t.Errorf("Parse(%q) expected error", in)
			continue
		}
		if !errors.Is(err, ErrInvalidTimeFormat) {
			t.Errorf("Parse(%q) error %v is not ErrInvalidTimeFormat", in, err)
		}
		var fe *InvalidTimeFormatError
		if !errors.As(err, &fe) || fe.Text != in {
			t.Errorf("Parse(%q) error does not carry the original text: %v", in, err)
		}
	}
}

func TestDurationSameDay(t *testing.T) {
	tests := []struct {
		start, end, want string
	}{
		{"09:00 AM", "10:30 AM", "01:30"},
		{"9:00", "9:00", "00:00"},
		{"08:15:59", "08:16:58", "00:00"},
		{"08:15:00", "08:16:59", "00:01"},
		{"11:45 AM", "1:05 PM", "01:20"},
		{"00:00", "23:59:59", "23:59"},
	}

	for _, tt := range tests {
		got, err := Duration(tt.start, tt.end)
		if err != nil {
			t.Errorf("Duration(%q, %q) error: %v", tt.start, tt.end, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Duration(%q, %q) = %q, want %q", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestDurationWrapsPastMidnight(t *testing.T) {
	got, err := Duration("11:00 PM", "01:30 AM")
	if err != nil {
		t.Fatalf("Duration: %v", err)
	}
	if got != "02:30" {
		t.Fatalf("expected 02:30, got %s", got)
	}

	start, _ := Parse("23:00")
	end, _ := Parse("01:30")
	if raw := Between(start, end); raw != -21*time.Hour-30*time.Minute {
		t.Fatalf("Between should be the raw difference, got %v", raw)
	}
}

func TestDurationInvalidInput(t *testing.T) {
	_, err := Duration("bogus", "10:00")
	if !errors.Is(err, ErrDuration) || !errors.Is(err, ErrInvalidTimeFormat) {
		t.Fatalf("expected ErrDuration wrapping ErrInvalidTimeFormat, got %v", err)
	}
	_, err = Duration("10:00", "later")
	if !errors.Is(err, ErrDuration) {
		t.Fatalf("expected ErrDuration, got %v", err)
	}
}

func TestFormatDuration(t *testing.T) {
	if got := FormatDuration(90*time.Minute + 59*time.Second); got != "01:30" {
		t.Errorf("got %s", got)
	}
	if got := FormatDuration(-time.Minute); got != "00:00" {
		t.Errorf("negative should clamp, got %s", got)
	}
}

func TestParseDuration(t *testing.T) {
	m, err := ParseDuration("01:30")
	if err != nil || m != 90 {
		t.Fatalf("ParseDuration(01:30) = %d, %v", m, err)
	}
	if _, err := ParseDuration("1h30"); err == nil {
		t.Fatal("expected error")
	}
	if _, err := ParseDuration("01:75"); err == nil {
		t.Fatal("expected error for minutes > 59")
	}
}

func TestFormatClockAndDate(t *testing.T) {
	now := time.Date(2024, time.March, 5, 14, 7, 33, 0, time.Local)
	if got := FormatClock(now); got != "02:07 PM" {
		t.Errorf("FormatClock = %q", got)
	}
	if got := FormatDate(now); got != "03/05/2024" {
		t.Errorf("FormatDate = %q", got)
	}
	if !Valid(FormatClock(now)) {
		t.Error("clock form must parse")
	}
}
