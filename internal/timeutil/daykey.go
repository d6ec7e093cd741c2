package timeutil

import (
	"fmt"
	"time"
)

// DayKeyLayout is the YYYY-MM-DD calendar date layout used to key daily entries.
const DayKeyLayout = "2006-01-02"

func DayKey(t time.Time) string {
	return t.Format(DayKeyLayout)
}

func ParseDayKey(key string) (time.Time, error) {
	t, err := time.Parse(DayKeyLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse day key [%s]: %w", key, err)
	}
	return t, nil
}

func IsDayKey(key string) bool {
	_, err := time.Parse(DayKeyLayout, key)
	return err == nil
}

// ShiftDayKey moves a day key by the given number of calendar days.
func ShiftDayKey(key string, days int) (string, error) {
	t, err := ParseDayKey(key)
	if err != nil {
		return "", err
	}
	return DayKey(t.AddDate(0, 0, days)), nil
}

// Calendar resolves "today" in the user's local time zone.
type Calendar struct {
	now      func() time.Time
	location *time.Location
}

func NewCalendar(now func() time.Time, location *time.Location) *Calendar {
	if now == nil {
		now = time.Now
	}
	if location == nil {
		location = time.Local
	}
	return &Calendar{
		now:      now,
		location: location,
	}
}

func (c *Calendar) Now() time.Time {
	return c.now().In(c.location)
}

func (c *Calendar) TodayKey() string {
	return DayKey(c.Now())
}

func (c *Calendar) Location() *time.Location {
	return c.location
}
