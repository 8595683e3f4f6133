package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// DateLayout is the calendar date format used in tags and file names.
	DateLayout = "2006-01-02"
	// ClockLayout is the wall-clock format used in tags.
	ClockLayout = "15:04"
	// MinutesPerDay bounds clock values; "24:00" is accepted as end of day.
	MinutesPerDay = 24 * 60
)

var weekdayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Weekday returns the day of week of t with Monday=0 .. Sunday=6.
func Weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// WeekdayName returns the English name of a Monday=0 weekday index.
func WeekdayName(d int) string {
	if d < 0 || d > 6 {
		return fmt.Sprintf("weekday(%d)", d)
	}
	return weekdayNames[d]
}

// MinuteOfDay returns minutes since local midnight of t.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// ParseClock parses "HH:MM" into minutes since midnight. "24:00" is valid.
// Complexity: O(1).
func ParseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok || len(hh) != 2 || len(mm) != 2 {
		return 0, fmt.Errorf("ParseClock(%q): %w", s, ErrInvalidClock)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("ParseClock(%q): %w", s, ErrInvalidClock)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("ParseClock(%q): %w", s, ErrInvalidClock)
	}
	if h < 0 || m < 0 || m > 59 || h > 24 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("ParseClock(%q): %w", s, ErrInvalidClock)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseDate parses "YYYY-MM-DD" as local midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("ParseDate(%q): %w", s, ErrInvalidDate)
	}
	return d, nil
}

// At combines a date and a clock string into an instant in loc.
func At(date, clock string, loc *time.Location) (time.Time, error) {
	d, err := ParseDate(date, loc)
	if err != nil {
		return time.Time{}, err
	}
	m, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return d.Add(time.Duration(m) * time.Minute), nil
}

// Midnight truncates t to local midnight in its own location.
func Midnight(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, t.Location())
}
