package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/2beens/maxpot/internal/entry"
	"github.com/2beens/maxpot/pkg"
)

type Metric string

const (
	MetricWater    Metric = "water"
	MetricSleep    Metric = "sleep"
	MetricWorkouts Metric = "workouts"
)

func ParseMetric(s string) (Metric, error) {
	switch m := Metric(strings.ToLower(s)); m {
	case MetricWater, MetricSleep, MetricWorkouts:
		return m, nil
	}
	return "", fmt.Errorf("unknown metric [%s]", s)
}

type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(s)); p {
	case PeriodWeek, PeriodMonth, PeriodYear:
		return p, nil
	}
	return "", fmt.Errorf("unknown period [%s]", s)
}

func (p Period) Days() int {
	switch p {
	case PeriodMonth:
		return 30
	case PeriodYear:
		return 365
	default:
		return 7
	}
}

type SeriesPoint struct {
	DateKey string  `json:"dateKey"`
	Value   float64 `json:"value"`
}

// Series takes the last period.Days() entries (ascending) and extracts metric.
func Series(entries []entry.DayEntry, metric Metric, period Period) []SeriesPoint {
	window := pkg.Tail(entries, period.Days())
	points := make([]SeriesPoint, 0, len(window))
	for _, e := range window {
		points = append(points, SeriesPoint{DateKey: e.DateKey, Value: metricValue(e, metric)})
	}
	return points
}

func metricValue(e entry.DayEntry, metric Metric) float64 {
	switch metric {
	case MetricSleep:
		return e.SleepHr
	case MetricWorkouts:
		return e.TrainingLoad
	default:
		return e.WaterMl
	}
}

// Trend compares the last 7 values with the 7 before them.
type Trend struct {
	ChangePct float64 `json:"changePct"`
	Message   string  `json:"message"`
}

// WeekOverWeek needs at least 14 values.
func WeekOverWeek(metric Metric, values []float64) (Trend, bool) {
	if len(values) < 14 {
		return Trend{}, false
	}
	last14 := pkg.Tail(values, 14)
	prev := pkg.Mean(last14[:7])
	curr := pkg.Mean(last14[7:])

	var change float64
	switch {
	case prev == 0 && curr == 0:
		change = 0
	case prev == 0:
		change = 100
	default:
		change = (curr - prev) / prev * 100
	}

	word := "better"
	if change < 0 {
		word = "worse"
	}
	return Trend{
		ChangePct: change,
		Message:   fmt.Sprintf("%s is %d%% %s this week vs last.", metricLabel(metric), int(math.Abs(pkg.Round(change))), word),
	}, true
}

func metricLabel(m Metric) string {
	switch m {
	case MetricSleep:
		return "Sleep"
	case MetricWorkouts:
		return "Workouts"
	default:
		return "Hydration"
	}
}

func SeriesValues(points []SeriesPoint) []float64 {
	values := make([]float64, 0, len(points))
	for _, p := range points {
		values = append(values, p.Value)
	}
	return values
}
