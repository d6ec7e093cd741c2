package analysis

import (
	"github.com/2beens/maxpot/internal/entry"
	"github.com/2beens/maxpot/internal/trainingload"
	"github.com/2beens/maxpot/pkg"
)

const (
	recentLoadsWindow = 28
	sleepStatsWindow  = 6
	defaultSleepGoal  = 8.0
)

// Workout is a normalized session as sent to the analytics service.
type Workout struct {
	Date string `json:"date"`
	trainingload.Session
}

// DailyRequest is the daily analysis payload.
type DailyRequest struct {
	UserID                  string    `json:"user_id"`
	Date                    string    `json:"date"`
	TotalHydrationMl        float64   `json:"total_hydration_ml"`
	TotalSodiumMg           float64   `json:"total_sodium_mg"`
	TotalPotassiumMg        float64   `json:"total_potassium_mg"`
	TotalMagnesiumMg        float64   `json:"total_magnesium_mg"`
	TotalCalciumMg          float64   `json:"total_calcium_mg"`
	TotalSleepHours         float64   `json:"total_sleep_hours"`
	SleepConsistencyMinutes *float64  `json:"sleep_consistency_minutes"`
	SleepDebtHours          *float64  `json:"sleep_debt_hours"`
	Workouts                []Workout `json:"workouts"`
	// nil means "not provided": the analytics service then keeps its own history.
	RecentTrainingLoads []float64 `json:"recent_training_loads"`
}

type Insight struct {
	Category string `json:"category"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

type Recommendation struct {
	Message  string `json:"message"`
	Category string `json:"category"`
}

// DailyAnalysis is the analytics service response. The tracker shows it
// as-is and never feeds it back into local scoring.
type DailyAnalysis struct {
	Date                    string                   `json:"date"`
	Readiness               float64                  `json:"readiness"`
	HydrationScore          float64                  `json:"hydration_score"`
	HydrationTargetMl       float64                  `json:"hydration_target_ml"`
	HydrationIntakeMl       float64                  `json:"hydration_intake_ml"`
	SodiumScore             float64                  `json:"sodium_score"`
	SodiumIntakeMg          float64                  `json:"sodium_intake_mg"`
	SodiumTargetMg          float64                  `json:"sodium_target_mg"`
	SleepScore              float64                  `json:"sleep_score"`
	SleepHours              float64                  `json:"sleep_hours"`
	SleepConsistencyMinutes *float64                 `json:"sleep_consistency_minutes"`
	SleepDebtHours          *float64                 `json:"sleep_debt_hours"`
	ACWR                    float64                  `json:"acwr"`
	TrainingLoadToday       float64                  `json:"training_load_today"`
	SessionBreakdown        []trainingload.Breakdown `json:"session_breakdown"`
	Insights                []Insight                `json:"insights"`
	Recommendations         []Recommendation         `json:"recommendations"`
}

// BuildDailyRequest assembles today's payload from the state: today's totals,
// normalized workouts, sleep stats and the last 28 history loads. Only days
// before today count as history.
func BuildDailyRequest(userID string, state *entry.State) DailyRequest {
	today := state.Today()

	past := state.PastEntries()
	recent := pkg.Tail(past, recentLoadsWindow)
	loads := make([]float64, 0, len(recent))
	for _, e := range recent {
		loads = append(loads, e.TrainingLoad)
	}

	workouts := make([]Workout, 0, len(today.WorkoutSessions))
	for _, s := range today.WorkoutSessions {
		workouts = append(workouts, Workout{
			Date:    state.TodayKey,
			Session: trainingload.Normalize(s),
		})
	}

	goal := state.Goals.SleepHr
	if goal <= 0 {
		goal = defaultSleepGoal
	}
	stdMinutes, debt := SleepStats(past, today.SleepHr, goal)

	return DailyRequest{
		UserID:                  userID,
		Date:                    state.TodayKey,
		TotalHydrationMl:        today.WaterMl,
		TotalSodiumMg:           today.Electrolytes.Sodium,
		TotalPotassiumMg:        today.Electrolytes.Potassium,
		TotalMagnesiumMg:        today.Electrolytes.Magnesium,
		TotalCalciumMg:          today.Electrolytes.Calcium,
		TotalSleepHours:         today.SleepHr,
		SleepConsistencyMinutes: finitePtr(stdMinutes),
		SleepDebtHours:          finitePtr(debt),
		Workouts:                workouts,
		RecentTrainingLoads:     loads,
	}
}

// SleepStats returns the standard deviation (in minutes) and the debt (in hours
// against goal) of the last 6 past days plus today.
func SleepStats(past []entry.DayEntry, todaySleep, goal float64) (float64, float64) {
	window := pkg.Tail(past, sleepStatsWindow)
	hours := make([]float64, 0, len(window)+1)
	for _, e := range window {
		hours = append(hours, e.SleepHr)
	}
	hours = append(hours, todaySleep)

	total := 0.0
	for _, h := range hours {
		total += h
	}
	debt := goal*float64(len(hours)) - total
	if debt < 0 {
		debt = 0
	}
	return pkg.StdDev(hours) * 60, debt
}

func finitePtr(x float64) *float64 {
	if !pkg.IsFinite(x) {
		return nil
	}
	return &x
}
