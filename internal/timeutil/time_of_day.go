package timeutil

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidTime = errors.New("invalid time")

var timeOfDayRegex = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*([aApP][mM])?$`)

// TimeOfDay is a wall clock time in 24h form.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay accepts "H:MM" / "HH:MM" with an optional AM/PM suffix.
// With a suffix the hour must be 1..12, without one 0..23.
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	m := timeOfDayRegex.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return TimeOfDay{}, fmt.Errorf("%w: [%s]", ErrInvalidTime, raw)
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if minute > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: [%s] minute out of range", ErrInvalidTime, raw)
	}

	suffix := strings.ToLower(m[3])
	if suffix == "" {
		if hour > 23 {
			return TimeOfDay{}, fmt.Errorf("%w: [%s] hour out of range", ErrInvalidTime, raw)
		}
		return TimeOfDay{Hour: hour, Minute: minute}, nil
	}

	if hour < 1 || hour > 12 {
		return TimeOfDay{}, fmt.Errorf("%w: [%s] hour out of range", ErrInvalidTime, raw)
	}
	hour %= 12
	if suffix == "pm" {
		hour += 12
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// Label renders the time as "h:mm AM/PM".
func (t TimeOfDay) Label() string {
	return FormatTimeLabel(t.Hour, t.Minute)
}

// String renders the time as "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// NextOccurrence returns the first instant at or after now (in now's location)
// whose wall clock reads t.
func (t TimeOfDay) NextOccurrence(now time.Time) time.Time {
	candidate := time.Date(now.Year(), now.Month(), now.Day(), t.Hour, t.Minute, 0, 0, now.Location())
	if candidate.Before(now) {
		candidate = candidate.AddDate(0, 0, 1)
	}
	return candidate
}

func FormatTimeLabel(hour24, minute int) string {
	hour24 = ((hour24 % 24) + 24) % 24
	minute = min(59, max(0, minute))
	suffix := "AM"
	if hour24 >= 12 {
		suffix = "PM"
	}
	hour12 := hour24 % 12
	if hour12 == 0 {
		hour12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour12, minute, suffix)
}

// NormalizeTimeString parses raw time input and returns its canonical label.
func NormalizeTimeString(raw string) (string, error) {
	t, err := ParseTimeOfDay(raw)
	if err != nil {
		return "", err
	}
	return t.Label(), nil
}
