package analyzer

import (
	"fmt"

	"github.com/2beens/maxpot/internal/analysis"
	"github.com/2beens/maxpot/internal/trainingload"
	"github.com/2beens/maxpot/pkg"
)

const (
	sodiumPerSweatLitreMg = 700.0
	maxHydrationScore     = 120.0

	sleepDurationWeight    = 60.0
	sleepConsistencyWeight = 25.0
	sleepDebtWeight        = 15.0
	sleepNoGoalScore       = 40.0
	consistencyCapMinutes  = 90.0
	debtCapHours           = 7.0

	lowScoreThreshold   = 70.0
	sleepScoreThreshold = 75.0
	acwrHigh            = 1.5
	acwrCritical        = 1.7
	acwrLow             = 0.8
	acwrLowMinDays      = 7
)

const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// TrainingAddonMl estimates extra fluid need from today's training minutes.
func TrainingAddonMl(p UserProfile, workouts []analysis.Workout) float64 {
	minutes := 0.0
	for _, w := range workouts {
		minutes += w.DurationMin
	}
	return minutes / 60 * p.sweatRate() * 1000 * p.climateFactor()
}

func HydrationTargetMl(p UserProfile, addonMl float64) float64 {
	return p.hydrationMultiplier()*p.WeightKg + addonMl
}

func SodiumTargetMg(addonMl float64) float64 {
	return max(0, sodiumPerSweatLitreMg*addonMl/1000)
}

// SleepScore blends duration against goal, night-to-night consistency and debt.
func SleepScore(hours, goal, consistencyMinutes, debtHours float64) float64 {
	duration := sleepNoGoalScore
	if goal > 0 {
		duration = sleepDurationWeight * min(hours/goal, 1)
	}
	consistency := sleepConsistencyWeight * (1 - min(consistencyMinutes/consistencyCapMinutes, 1))
	debt := sleepDebtWeight * (1 - min(debtHours/debtCapHours, 1))
	return pkg.Clamp(duration+consistency+debt, 0, 100)
}

// AnalyzeDay scores one day for a profile. recentLoads are prior daily loads,
// oldest first; today's load is appended before the ACWR is computed.
func AnalyzeDay(p UserProfile, req analysis.DailyRequest, recentLoads []float64) analysis.DailyAnalysis {
	addon := TrainingAddonMl(p, req.Workouts)
	hydrationTarget := HydrationTargetMl(p, addon)
	hydrationScore := pkg.Clamp(100*req.TotalHydrationMl/max(hydrationTarget, 1), 0, maxHydrationScore)

	sodiumTarget := SodiumTargetMg(addon)
	sodiumScore := 100.0
	if sodiumTarget > 0 {
		sodiumScore = 100 - 100*abs(req.TotalSodiumMg-sodiumTarget)/sodiumTarget
	}
	sodiumScore = pkg.Clamp(sodiumScore, 0, 100)

	consistency := valueOrZero(req.SleepConsistencyMinutes)
	debt := valueOrZero(req.SleepDebtHours)
	sleepScore := SleepScore(req.TotalSleepHours, p.SleepHoursGoal, consistency, debt)

	breakdowns := make([]trainingload.Breakdown, 0, len(req.Workouts))
	todayLoad := 0.0
	for _, w := range req.Workouts {
		b := trainingload.BreakdownOf(w.Session)
		breakdowns = append(breakdowns, b)
		todayLoad += b.Total
	}
	loads := make([]float64, 0, len(recentLoads)+1)
	loads = append(loads, recentLoads...)
	loads = append(loads, todayLoad)
	acwr := trainingload.ACWR(loads)
	trendScore := pkg.Clamp(trainingload.ACWRScore(acwr), 0, 100)

	readiness := pkg.Clamp(
		0.4*sleepScore+
			0.3*trendScore+
			0.2*pkg.Clamp(hydrationScore, 0, 100)+
			0.1*sodiumScore,
		0, 100,
	)

	insights := []analysis.Insight{}
	recs := []analysis.Recommendation{}

	if hydrationScore < lowScoreThreshold {
		insights = append(insights, analysis.Insight{
			Category: "hydration",
			Message:  "Hydration below target today.",
			Severity: SeverityWarning,
		})
		deficit := max(0, hydrationTarget-req.TotalHydrationMl)
		recs = append(recs, analysis.Recommendation{
			Message:  fmt.Sprintf("Add roughly %d ml of fluids across the evening.", int(deficit)),
			Category: "hydration",
		})
	}

	if sodiumScore < lowScoreThreshold && sodiumTarget > 0 {
		insights = append(insights, analysis.Insight{
			Category: "electrolytes",
			Message:  "Electrolyte intake ran below the sweat estimate.",
			Severity: SeverityWarning,
		})
		recs = append(recs, analysis.Recommendation{
			Message:  "Consider an extra 400-600 mg of sodium for tomorrow's training.",
			Category: "electrolytes",
		})
	}

	if sleepScore < sleepScoreThreshold {
		insights = append(insights, analysis.Insight{
			Category: "sleep",
			Message:  "Sleep score dipped below the optimal range.",
			Severity: SeverityInfo,
		})
	}

	switch {
	case acwr > acwrHigh:
		severity := SeverityWarning
		if acwr >= acwrCritical {
			severity = SeverityCritical
		}
		insights = append(insights, analysis.Insight{
			Category: "training",
			Message:  "ACWR trending high, risk of overreaching.",
			Severity: severity,
		})
		recs = append(recs, analysis.Recommendation{
			Message:  "Plan a lighter or restorative session tomorrow.",
			Category: "training",
		})
	case acwr < acwrLow && len(loads) >= acwrLowMinDays:
		insights = append(insights, analysis.Insight{
			Category: "training",
			Message:  "ACWR is low; base fitness may detrain.",
			Severity: SeverityInfo,
		})
	}

	return analysis.DailyAnalysis{
		Date:                    req.Date,
		Readiness:               readiness,
		HydrationScore:          pkg.Clamp(hydrationScore, 0, 100),
		HydrationTargetMl:       hydrationTarget,
		HydrationIntakeMl:       req.TotalHydrationMl,
		SodiumScore:             sodiumScore,
		SodiumIntakeMg:          req.TotalSodiumMg,
		SodiumTargetMg:          sodiumTarget,
		SleepScore:              sleepScore,
		SleepHours:              req.TotalSleepHours,
		SleepConsistencyMinutes: &consistency,
		SleepDebtHours:          &debt,
		ACWR:                    acwr,
		TrainingLoadToday:       todayLoad,
		SessionBreakdown:        breakdowns,
		Insights:                insights,
		Recommendations:         recs,
	}
}

func valueOrZero(x *float64) float64 {
	if x == nil {
		return 0
	}
	return *x
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
