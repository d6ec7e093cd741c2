package trainingload

import (
	"math"

	"github.com/2beens/maxpot/internal/entry"
	"github.com/2beens/maxpot/pkg"
)

const (
	KindStrength     = "strength"
	KindConditioning = "conditioning"

	ModalityRunningSteady = "running_steady"
	ModalityRunningSprint = "running_sprint"

	defaultReps = 8
)

// SetDetail is a strength set in analysis form.
type SetDetail struct {
	Reps        *int `json:"reps"`
	RIR         *int `json:"rir"`
	ToFailure   bool `json:"to_failure"`
	PastFailure bool `json:"past_failure"`
}

type ConditioningDetail struct {
	Modality  string   `json:"modality"`
	DistanceM *float64 `json:"distance_m"`
	Pace      *float64 `json:"pace"`
}

// Session is the normalized, analysis-friendly shape of any workout session.
type Session struct {
	Type               string              `json:"type"`
	DurationMin        float64             `json:"duration_min"`
	SessionRPE         float64             `json:"session_rpe"`
	Sets               []SetDetail         `json:"sets"`
	ConditioningDetail *ConditioningDetail `json:"conditioning_detail,omitempty"`
}

// workout is one session variant.
type workout interface {
	normalize() Session
}

type strengthWorkout struct {
	sets []entry.StrengthSet
}

type steadyRun struct {
	run entry.SteadyRun
}

type sprintRun struct {
	run entry.SprintRun
}

type otherWorkout struct {
	sessionType string
	durationMin float64
	sessionRPE  float64
}

func variantOf(s entry.WorkoutSession) workout {
	switch s.Type {
	case entry.SessionStrength:
		w := strengthWorkout{}
		if s.Strength != nil {
			w.sets = s.Strength.Sets
		}
		return w
	case entry.SessionRunningSteady:
		w := steadyRun{}
		if s.RunningSteady != nil {
			w.run = *s.RunningSteady
		}
		return w
	case entry.SessionRunningSprint:
		w := sprintRun{}
		if s.RunningSprint != nil {
			w.run = *s.RunningSprint
		}
		return w
	default:
		return otherWorkout{
			sessionType: string(s.Type),
			durationMin: finiteOrZero(s.DurationMin),
			sessionRPE:  finiteOrZero(s.SessionRPE),
		}
	}
}

// Normalize converts a logged session into its analysis shape.
func Normalize(s entry.WorkoutSession) Session {
	return variantOf(s).normalize()
}

func (w strengthWorkout) normalize() Session {
	sets := make([]SetDetail, 0, len(w.sets))
	points := make([]float64, 0, len(w.sets))
	for _, set := range w.sets {
		detail := normalizeSet(set)
		sets = append(sets, detail)
		points = append(points, float64(detail.intensityPoints()))
	}

	avg := 6.0
	if len(points) > 0 {
		avg = pkg.Mean(points)
	}

	return Session{
		Type:        KindStrength,
		DurationMin: math.Max(30, float64(len(w.sets)*5+20)),
		SessionRPE:  pkg.Clamp(pkg.Round(avg*0.8), 4, 10),
		Sets:        sets,
	}
}

func normalizeSet(set entry.StrengthSet) SetDetail {
	reps := defaultReps
	if set.Reps != nil {
		reps = *set.Reps
	}

	rir := 0
	switch {
	case set.RIR != nil:
		rir = *set.RIR
	case set.Effort == entry.EffortBeforeFailure:
		rir = 2
	}

	return SetDetail{
		Reps:        &reps,
		RIR:         &rir,
		ToFailure:   set.Effort == entry.EffortToFailure,
		PastFailure: set.Effort == entry.EffortPastFailure,
	}
}

func (w steadyRun) normalize() Session {
	perceived := w.run.Perceived
	if perceived == 0 || !pkg.IsFinite(perceived) {
		perceived = 5
	}
	return Session{
		Type:        KindConditioning,
		DurationMin: math.Max(0, finite(w.run.Minutes)),
		SessionRPE:  pkg.Clamp(perceived, 1, 10),
		Sets:        []SetDetail{},
		ConditioningDetail: &ConditioningDetail{
			Modality: ModalityRunningSteady,
		},
	}
}

func (w sprintRun) normalize() Session {
	pct := pkg.Clamp(finite(w.run.PerceivedPct), 0, 100)
	distance := math.Max(0, finite(w.run.DistanceM))
	return Session{
		Type:        KindConditioning,
		DurationMin: math.Max(10, distance/80),
		SessionRPE:  pkg.Clamp(pkg.Round(pct/100*10), 5, 10),
		Sets:        []SetDetail{},
		ConditioningDetail: &ConditioningDetail{
			Modality:  ModalityRunningSprint,
			DistanceM: &distance,
		},
	}
}

func (w otherWorkout) normalize() Session {
	return Session{
		Type:        w.sessionType,
		DurationMin: w.durationMin,
		SessionRPE:  w.sessionRPE,
		Sets:        []SetDetail{},
	}
}

func finite(x float64) float64 {
	if !pkg.IsFinite(x) {
		return 0
	}
	return x
}

func finiteOrZero(x *float64) float64 {
	if x == nil {
		return 0
	}
	return finite(*x)
}
