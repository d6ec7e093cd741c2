// Package scoring derives 0..100 scores, readiness and streaks from daily entries.
package scoring

import (
	"math"

	"github.com/2beens/maxpot/internal/entry"
	"github.com/2beens/maxpot/pkg"
)

const (
	sleepReferenceHours = 8.0
	sleepSigmaHours     = 1.2
	optimalWeeklyCount  = 5.0
)

// coreMinerals are the minerals that count towards the balance score.
var coreMinerals = []entry.Mineral{entry.Sodium, entry.Potassium, entry.Magnesium, entry.Calcium}

// SleepQuantityScore is a Gaussian around a fixed 8h reference.
func SleepQuantityScore(hours float64) int {
	z := (hours - sleepReferenceHours) / sleepSigmaHours
	return pkg.RoundInt(100 * math.Exp(-0.5*z*z))
}

// SleepConsistencyScore rewards a low standard deviation of nightly hours.
func SleepConsistencyScore(hours []float64) int {
	return pkg.RoundInt(20 + 80*pkg.Clamp01(1-pkg.StdDev(hours)/2))
}

// SleepScore blends tonight's quantity with the trailing consistency (hours must include today).
func SleepScore(todayHours float64, trailingHours []float64) int {
	quantity := float64(SleepQuantityScore(todayHours))
	consistency := float64(SleepConsistencyScore(trailingHours))
	return pkg.RoundInt(0.7*quantity + 0.3*consistency)
}

// HydrationScore is neutral (50) when no goal is set.
func HydrationScore(ml, goalMl float64) int {
	if goalMl <= 0 {
		return 50
	}
	return pkg.RoundInt(100 * pkg.Clamp01(ml/goalMl))
}

func ElectrolyteBalanceScore(e entry.Electrolytes) int {
	count := 0
	for _, m := range coreMinerals {
		if e.Get(m) > 0 {
			count++
		}
	}
	return pkg.RoundInt(100 * float64(count) / float64(len(coreMinerals)))
}

func EffectiveHydrationScore(hydration, electrolyteBalance int) int {
	return pkg.RoundInt(0.7*float64(hydration) + 0.3*float64(electrolyteBalance))
}

// WorkoutLoadScore peaks at five sessions across the window, with a floor of 50.
func WorkoutLoadScore(sessionCounts []int) int {
	sum := 0
	for _, c := range sessionCounts {
		sum += c
	}
	distance := math.Abs(float64(sum)-optimalWeeklyCount) / optimalWeeklyCount
	return pkg.RoundInt(50 + 50*pkg.Clamp01(1-distance))
}

func Readiness(sleep, effectiveHydration, workout int) int {
	return pkg.RoundInt(pkg.Mean([]float64{float64(sleep), float64(effectiveHydration), float64(workout)}))
}

// Progress holds the home screen goal completion tiles.
type Progress struct {
	WaterPct       int `json:"waterPct"`
	SleepPct       int `json:"sleepPct"`
	WorkoutPct     int `json:"workoutPct"`
	ElectrolytePct int `json:"electrolytePct"`
}

func ProgressOf(today entry.DayEntry, goals entry.Goals) Progress {
	return Progress{
		WaterPct:       progressPct(today.WaterMl, goals.WaterMl),
		SleepPct:       progressPct(today.SleepHr, goals.SleepHr),
		WorkoutPct:     progressPct(float64(today.WorkoutCount()), float64(goals.Workout)),
		ElectrolytePct: ElectrolyteBalanceScore(today.Electrolytes),
	}
}

func progressPct(value, goal float64) int {
	if goal <= 0 {
		goal = 1
	}
	return pkg.RoundInt(pkg.Clamp01(value/goal) * 100)
}
