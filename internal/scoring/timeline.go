package scoring

import (
	"sort"

	"github.com/2beens/maxpot/internal/entry"
	"github.com/2beens/maxpot/internal/timeutil"
)

const trailingWindow = 7

// DayScores is one point on the readiness timeline. Readiness is nil for days
// where nothing was logged.
type DayScores struct {
	DateKey               string `json:"dateKey"`
	Readiness             *int   `json:"readiness"`
	SleepPct              int    `json:"sleepPct"`
	HydrationPct          int    `json:"hydrationPct"`
	ElectrolytePct        int    `json:"electrolytePct"`
	EffectiveHydrationPct int    `json:"effectiveHydrationPct"`
	WorkoutPct            int    `json:"workoutPct"`
}

// merge returns history plus today (today wins), sorted by day key.
func merge(history []entry.DayEntry, today entry.DayEntry) []entry.DayEntry {
	byKey := make(map[string]entry.DayEntry, len(history)+1)
	for _, e := range history {
		byKey[e.DateKey] = e
	}
	if today.DateKey != "" {
		byKey[today.DateKey] = today
	}
	merged := make([]entry.DayEntry, 0, len(byKey))
	for _, e := range byKey {
		merged = append(merged, e)
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].DateKey < merged[j].DateKey
	})
	return merged
}

// Timeline scores every distinct day in history and today, ascending. Sleep
// consistency and workout load look at the entry plus the six entries before it.
func Timeline(history []entry.DayEntry, today entry.DayEntry, goals entry.Goals) []DayScores {
	merged := merge(history, today)
	points := make([]DayScores, 0, len(merged))
	for i, e := range merged {
		window := merged[max(0, i-trailingWindow+1) : i+1]
		points = append(points, scoreDay(e, window, goals))
	}
	return points
}

// TodayScores returns the timeline point for today.
func TodayScores(history []entry.DayEntry, today entry.DayEntry, goals entry.Goals) DayScores {
	merged := merge(history, today)
	for i, e := range merged {
		if e.DateKey == today.DateKey {
			return scoreDay(e, merged[max(0, i-trailingWindow+1):i+1], goals)
		}
	}
	return scoreDay(today, []entry.DayEntry{today}, goals)
}

func scoreDay(e entry.DayEntry, window []entry.DayEntry, goals entry.Goals) DayScores {
	hours := make([]float64, 0, len(window))
	counts := make([]int, 0, len(window))
	for _, w := range window {
		hours = append(hours, w.SleepHr)
		counts = append(counts, w.WorkoutCount())
	}

	sleep := SleepScore(e.SleepHr, hours)
	hydration := HydrationScore(e.WaterMl, goals.WaterMl)
	electrolyte := ElectrolyteBalanceScore(e.Electrolytes)
	effective := EffectiveHydrationScore(hydration, electrolyte)
	workout := WorkoutLoadScore(counts)

	scores := DayScores{
		DateKey:               e.DateKey,
		SleepPct:              sleep,
		HydrationPct:          hydration,
		ElectrolytePct:        electrolyte,
		EffectiveHydrationPct: effective,
		WorkoutPct:            workout,
	}
	if !isInactive(e) {
		readiness := Readiness(sleep, effective, workout)
		scores.Readiness = &readiness
	}
	return scores
}

func isInactive(e entry.DayEntry) bool {
	return e.WaterMl == 0 && e.SleepHr == 0 && e.WorkoutCount() == 0 && !e.ElectrolyteLogged
}

// MeetsDailyTargets requires the water goal, 90% of the sleep goal and
// min(1, workout goal) sessions.
func MeetsDailyTargets(e entry.DayEntry, goals entry.Goals) bool {
	return e.WaterMl >= goals.WaterMl &&
		e.SleepHr >= 0.9*goals.SleepHr &&
		e.WorkoutCount() >= min(1, goals.Workout)
}

// ConsistencyStreak counts consecutive calendar days, ending today, that meet
// the daily targets. A missing day ends the streak.
func ConsistencyStreak(history []entry.DayEntry, today entry.DayEntry, goals entry.Goals) int {
	byKey := make(map[string]entry.DayEntry, len(history)+1)
	for _, e := range history {
		byKey[e.DateKey] = e
	}
	byKey[today.DateKey] = today

	streak := 0
	key := today.DateKey
	for {
		e, ok := byKey[key]
		if !ok || !MeetsDailyTargets(e, goals) {
			return streak
		}
		streak++

		prev, err := timeutil.ShiftDayKey(key, -1)
		if err != nil {
			return streak
		}
		key = prev
	}
}
