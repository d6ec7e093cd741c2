package entry

type SessionType string

const (
	SessionStrength      SessionType = "strength"
	SessionRunningSteady SessionType = "running_steady"
	SessionRunningSprint SessionType = "running_sprint"
)

type Effort string

const (
	EffortBeforeFailure Effort = "before_failure"
	EffortToFailure     Effort = "to_failure"
	EffortPastFailure   Effort = "past_failure"
)

func (e Effort) IsValid() bool {
	switch e {
	case EffortBeforeFailure, EffortToFailure, EffortPastFailure:
		return true
	}
	return false
}

type StrengthSet struct {
	Idx    int    `json:"idx"`
	Effort Effort `json:"effort"`
	// RIR (reps in reserve, 0..5) is only meaningful for before_failure sets.
	RIR  *int `json:"rir,omitempty"`
	Reps *int `json:"reps,omitempty"`
}

type Strength struct {
	Sets []StrengthSet `json:"sets"`
}

type SteadyRun struct {
	Minutes   float64 `json:"minutes"`
	Perceived float64 `json:"perceived"`
}

type SprintRun struct {
	DistanceM    float64 `json:"distance_m"`
	PerceivedPct float64 `json:"perceivedPct"`
}

// WorkoutSession is a logged workout. Exactly one payload matches Type;
// sessions of any other type carry DurationMin and SessionRPE instead.
type WorkoutSession struct {
	ID            string      `json:"id"`
	Type          SessionType `json:"type"`
	Strength      *Strength   `json:"strength,omitempty"`
	RunningSteady *SteadyRun  `json:"running_steady,omitempty"`
	RunningSprint *SprintRun  `json:"running_sprint,omitempty"`
	DurationMin   *float64    `json:"duration_min,omitempty"`
	SessionRPE    *float64    `json:"session_rpe,omitempty"`
}

// Clone copies the session including its payload and set pointers.
func (s WorkoutSession) Clone() WorkoutSession {
	c := s
	if s.Strength != nil {
		sets := make([]StrengthSet, len(s.Strength.Sets))
		for i, set := range s.Strength.Sets {
			set.RIR = clonePtr(set.RIR)
			set.Reps = clonePtr(set.Reps)
			sets[i] = set
		}
		c.Strength = &Strength{Sets: sets}
	}
	c.RunningSteady = clonePtr(s.RunningSteady)
	c.RunningSprint = clonePtr(s.RunningSprint)
	c.DurationMin = clonePtr(s.DurationMin)
	c.SessionRPE = clonePtr(s.SessionRPE)
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
