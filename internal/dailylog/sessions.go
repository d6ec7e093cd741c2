package dailylog

import (
	"math"
	"time"

	"github.com/2beens/maxpot/internal/entry"
	"github.com/2beens/maxpot/pkg"
)

const (
	sessionIDLayout = "2006-01-02T15:04:05.000Z"
	maxSetsPerLog   = 50
)

// SessionID derives a unique session id from the current UTC time,
// advancing by a millisecond until it no longer collides with e's sessions.
func SessionID(e entry.DayEntry, now time.Time) string {
	t := now.UTC().Truncate(time.Millisecond)
	for {
		id := t.Format(sessionIDLayout)
		if !e.HasSession(id) {
			return id
		}
		t = t.Add(time.Millisecond)
	}
}

// SetInput is raw per-set form input.
type SetInput struct {
	Effort string `json:"effort"`
	RIR    string `json:"rir"`
	Reps   string `json:"reps"`
}

// NewStrengthSession builds a strength session from form input. Effort defaults
// to before_failure; rir (clamped 0..5) is kept only for before_failure sets.
func NewStrengthSession(id string, numSets string, sets []SetInput) entry.WorkoutSession {
	n := 0
	if v, ok := pkg.ParseNumber(numSets); ok {
		n = min(maxSetsPerLog, max(0, int(math.Floor(v))))
	}

	out := make([]entry.StrengthSet, 0, n)
	for i := 0; i < n; i++ {
		var in SetInput
		if i < len(sets) {
			in = sets[i]
		}

		effort := entry.Effort(in.Effort)
		if !effort.IsValid() {
			effort = entry.EffortBeforeFailure
		}
		set := entry.StrengthSet{Idx: i + 1, Effort: effort}
		if effort == entry.EffortBeforeFailure {
			rir := 0
			if v, ok := pkg.ParseNumber(in.RIR); ok {
				rir = pkg.ClampInt(pkg.RoundInt(v), 0, 5)
			}
			set.RIR = &rir
		}
		if v, ok := pkg.ParseNumber(in.Reps); ok && v > 0 {
			reps := pkg.RoundInt(v)
			set.Reps = &reps
		}
		out = append(out, set)
	}

	return entry.WorkoutSession{
		ID:       id,
		Type:     entry.SessionStrength,
		Strength: &entry.Strength{Sets: out},
	}
}

// NewSteadyRunSession clamps perceived exertion to 1..10, defaulting to 1.
func NewSteadyRunSession(id string, minutes, perceived string) entry.WorkoutSession {
	m, _ := pkg.ParseNumber(minutes)
	p, ok := pkg.ParseNumber(perceived)
	if !ok || p == 0 {
		p = 1
	}
	return entry.WorkoutSession{
		ID:   id,
		Type: entry.SessionRunningSteady,
		RunningSteady: &entry.SteadyRun{
			Minutes:   math.Max(0, m),
			Perceived: pkg.Clamp(p, 1, 10),
		},
	}
}

// NewSprintSession clamps perceived effort to 0..100%.
func NewSprintSession(id string, distanceM, perceivedPct string) entry.WorkoutSession {
	d, _ := pkg.ParseNumber(distanceM)
	p, _ := pkg.ParseNumber(perceivedPct)
	return entry.WorkoutSession{
		ID:   id,
		Type: entry.SessionRunningSprint,
		RunningSprint: &entry.SprintRun{
			DistanceM:    math.Max(0, d),
			PerceivedPct: pkg.Clamp(p, 0, 100),
		},
	}
}

// NewOtherSession logs any other activity by duration and session RPE.
func NewOtherSession(id string, sessionType string, durationMin, sessionRPE string) entry.WorkoutSession {
	d, _ := pkg.ParseNumber(durationMin)
	r, _ := pkg.ParseNumber(sessionRPE)
	d = math.Max(0, d)
	r = pkg.Clamp(r, 0, 10)
	return entry.WorkoutSession{
		ID:          id,
		Type:        entry.SessionType(sessionType),
		DurationMin: &d,
		SessionRPE:  &r,
	}
}
