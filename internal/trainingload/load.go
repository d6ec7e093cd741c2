package trainingload

import (
	"github.com/2beens/maxpot/internal/entry"
	"github.com/2beens/maxpot/pkg"
)

// IntensityPoints scores a single set by its effort. A set before failure
// scores 10 at 0 RIR (or less) down to 5 at 5 RIR (or more), and 6 when the
// RIR is unknown.
func IntensityPoints(effort entry.Effort, rir *int) int {
	switch effort {
	case entry.EffortPastFailure:
		return 12
	case entry.EffortToFailure:
		return 10
	case entry.EffortBeforeFailure:
		if rir == nil {
			return 6
		}
		return 10 - pkg.ClampInt(*rir, 0, 5)
	default:
		return 6
	}
}

func (d SetDetail) effort() entry.Effort {
	switch {
	case d.PastFailure:
		return entry.EffortPastFailure
	case d.ToFailure:
		return entry.EffortToFailure
	default:
		return entry.EffortBeforeFailure
	}
}

func (d SetDetail) intensityPoints() int {
	return IntensityPoints(d.effort(), d.RIR)
}

// Breakdown splits a normalized session's load into its sRPE and strength parts.
type Breakdown struct {
	SRPELoad      float64 `json:"srpe_load"`
	StrengthBonus float64 `json:"strength_bonus"`
	Total         float64 `json:"total"`
}

func BreakdownOf(s Session) Breakdown {
	srpe := s.SessionRPE * s.DurationMin
	bonus := 0.0
	for _, set := range s.Sets {
		reps := 0
		if set.Reps != nil {
			reps = *set.Reps
		}
		bonus += float64(set.intensityPoints()*reps) / 10
	}
	return Breakdown{
		SRPELoad:      srpe,
		StrengthBonus: bonus,
		Total:         srpe + bonus,
	}
}

// SessionLoad is session RPE times duration, plus a per-set bonus for strength work.
func SessionLoad(s entry.WorkoutSession) float64 {
	return BreakdownOf(Normalize(s)).Total
}

func DayLoad(sessions []entry.WorkoutSession) float64 {
	total := 0.0
	for _, s := range sessions {
		total += SessionLoad(s)
	}
	return total
}

// ACWR is the acute:chronic workload ratio: mean of the last 7 loads over
// mean of the last 28. A non-positive chronic mean is treated as 1.
func ACWR(loads []float64) float64 {
	if len(loads) == 0 {
		return 0
	}
	acute := pkg.Mean(pkg.Tail(loads, 7))
	chronic := pkg.Mean(pkg.Tail(loads, 28))
	if chronic <= 0 {
		chronic = 1
	}
	return acute / chronic
}

// ACWRScore maps a ratio onto 0..100 with the sweet spot at 0.8..1.3.
func ACWRScore(acwr float64) float64 {
	switch {
	case acwr <= 0:
		return 0
	case acwr >= 0.8 && acwr <= 1.3:
		return 85 + 15*(1-abs(acwr-1)/0.3)
	case acwr < 0.8:
		if acwr <= 0.4 {
			return 40
		}
		return 60 + (acwr-0.6)*125
	case acwr >= 1.8:
		return 35
	case acwr <= 1.5:
		return 85 - ((acwr-1.3)/0.2)*25
	default:
		return 60 - ((acwr-1.5)/0.2)*15
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

type Summary struct {
	Count       int     `json:"count"`
	Recent7dAvg float64 `json:"recent_7d_avg"`
	OverallAvg  float64 `json:"overall_avg"`
}

func Summarize(loads []float64) Summary {
	return Summary{
		Count:       len(loads),
		Recent7dAvg: pkg.Mean(pkg.Tail(loads, 7)),
		OverallAvg:  pkg.Mean(loads),
	}
}
