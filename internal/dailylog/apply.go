// Package dailylog applies user log input to day entries. Malformed numeric
// input never errors: the mutation is simply not applied.
package dailylog

import (
	"fmt"
	"strings"

	"github.com/2beens/maxpot/internal/entry"
	"github.com/2beens/maxpot/internal/timeutil"
	"github.com/2beens/maxpot/internal/trainingload"
)

type Mode string

const (
	// ModeAdd increments the running total.
	ModeAdd Mode = "add"
	// ModeEdit overwrites with an absolute value.
	ModeEdit Mode = "edit"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "", ModeAdd:
		return ModeAdd, nil
	case ModeEdit:
		return ModeEdit, nil
	}
	return "", fmt.Errorf("unknown mode [%s]", s)
}

// Mutation changes a day entry in place and reports whether it did anything.
type Mutation func(e *entry.DayEntry) bool

// Apply runs m against the entry for dateKey (creating it when missing) and
// recomputes the cached training load. Other days, today included, are untouched.
// Days after today are never logged.
func Apply(s *entry.State, dateKey string, m Mutation) bool {
	if !timeutil.IsDayKey(dateKey) || dateKey > s.TodayKey {
		return false
	}
	e, ok := s.History[dateKey]
	if !ok {
		e = entry.NewDayEntry(dateKey)
	}
	if e.WorkoutSessions == nil {
		e.WorkoutSessions = []entry.WorkoutSession{}
	}
	if !m(&e) {
		return false
	}
	e.TrainingLoad = trainingload.DayLoad(e.WorkoutSessions)
	s.History[dateKey] = e
	return true
}
