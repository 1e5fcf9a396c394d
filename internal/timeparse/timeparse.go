package timeparse

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidTimeFormat = errors.New("invalid time format")
	ErrDuration          = errors.New("error calculating duration")
)

// InvalidTimeFormatError reports a time string that matched none of the
// accepted layouts.
type InvalidTimeFormatError struct {
	Text string
}

func (e *InvalidTimeFormatError) Error() string {
	return fmt.Sprintf("invalid time format %q: use HH:MM AM/PM or HH:MM:SS AM/PM", e.Text)
}

func (e *InvalidTimeFormatError) Unwrap() error { return ErrInvalidTimeFormat }

// Layouts are tried in order; the first one that parses wins.
var Layouts = []string{
	"3:04 PM",    // 12-hour without seconds (e.g. "10:20 AM")
	"15:04",      // 24-hour without seconds
	"3:04:05 PM", // 12-hour with seconds (e.g. "10:20:11 AM")
	"15:04:05",   // 24-hour with seconds
}

const (
	// ClockLayout is the form used when a time is filled in from the clock.
	ClockLayout = "03:04 PM"
	// DateLayout is the calendar date stamped on tasks when they start.
	DateLayout = "01/02/2006"
)

// TimeOfDay is a wall-clock time with no date component, held as the
// offset from midnight.
type TimeOfDay struct {
	offset time.Duration
}

// Of builds a TimeOfDay from its clock fields.
func Of(hour, minute, second int) TimeOfDay {
	return TimeOfDay{offset: time.Duration(hour)*time.Hour +
		time.Duration(minute)*time.Minute +
		time.Duration(second)*time.Second}
}

func (t TimeOfDay) Hour() int   { return int(t.offset / time.Hour) }
func (t TimeOfDay) Minute() int { return int(t.offset%time.Hour) / int(time.Minute) }
func (t TimeOfDay) Second() int { return int(t.offset%time.Minute) / int(time.Second) }

// Sub returns t-u. The result is negative when t is earlier in the day.
func (t TimeOfDay) Sub(u TimeOfDay) time.Duration {
	return t.offset - u.offset
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
}

// Parse reads text in any of the accepted Layouts. The AM/PM marker is
// matched case-insensitively.
func Parse(text string) (TimeOfDay, error) {
	value := strings.ToUpper(strings.TrimSpace(text))
	if value != "" {
		for _, layout := range Layouts {
			if t, err := time.Parse(layout, value); err == nil {
				return Of(t.Hour(), t.Minute(), t.Second()), nil
			}
		}
	}
	return TimeOfDay{}, &InvalidTimeFormatError{Text: text}
}

// Valid reports whether text parses.
func Valid(text string) bool {
	_, err := Parse(text)
	return err == nil
}

// Between is the raw difference end-start with no midnight handling.
func Between(start, end TimeOfDay) time.Duration {
	return end.Sub(start)
}

// Elapsed is the time worked from start to end. An end earlier than start
// is taken to be on the following day, so the result is always in [0, 24h).
func Elapsed(start, end TimeOfDay) time.Duration {
	d := Between(start, end)
	if d < 0 {
		d += 24 * time.Hour
	}
	return d
}

// FormatDuration renders d as zero-padded HH:MM, truncating seconds.
// Negative values render as 00:00.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	minutes := int(d / time.Minute)
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseDuration reads an HH:MM duration back into minutes.
func ParseDuration(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if h < 0 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return h*60 + m, nil
}

// Duration parses both times and returns the elapsed time as HH:MM.
func Duration(startText, endText string) (string, error) {
	start, err := Parse(startText)
	if err != nil {
		return "", fmt.Errorf("%w: start: %w", ErrDuration, err)
	}
	end, err := Parse(endText)
	if err != nil {
		return "", fmt.Errorf("%w: end: %w", ErrDuration, err)
	}
	return FormatDuration(Elapsed(start, end)), nil
}

// FormatClock renders t the way a "use current time" entry is filled in.
func FormatClock(t time.Time) string {
	return t.Format(ClockLayout)
}

// FormatDate renders the local calendar date of t.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
