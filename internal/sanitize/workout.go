package sanitize

import (
	"github.com/2beens/maxpot/internal/entry"
	"github.com/2beens/maxpot/pkg"
)

// WorkoutSessions drops non-object items and makes session ids unique.
func WorkoutSessions(raw any) []entry.WorkoutSession {
	sessions := []entry.WorkoutSession{}
	items, ok := list(raw)
	if !ok {
		return sessions
	}
	for _, item := range items {
		m, ok := object(item)
		if !ok {
			continue
		}
		sessions = append(sessions, workoutSession(m))
	}

	ids := make([]string, len(sessions))
	for i, s := range sessions {
		ids[i] = s.ID
	}
	uniqueIDs(ids, "session-legacy")
	for i := range sessions {
		sessions[i].ID = ids[i]
	}
	return sessions
}

func workoutSession(m map[string]any) entry.WorkoutSession {
	id, _ := str(m["id"])
	sessionType, _ := str(m["type"])
	s := entry.WorkoutSession{
		ID:   id,
		Type: entry.SessionType(sessionType),
	}

	switch s.Type {
	case entry.SessionStrength:
		s.Strength = &entry.Strength{Sets: strengthSets(m["strength"])}
	case entry.SessionRunningSteady:
		run := entry.SteadyRun{}
		if p, ok := object(m["running_steady"]); ok {
			run.Minutes = nonNegative(p["minutes"], 0)
			run.Perceived = nonNegative(p["perceived"], 0)
		}
		s.RunningSteady = &run
	case entry.SessionRunningSprint:
		run := entry.SprintRun{}
		if p, ok := object(m["running_sprint"]); ok {
			run.DistanceM = nonNegative(p["distance_m"], 0)
			run.PerceivedPct = pkg.Clamp(nonNegative(p["perceivedPct"], 0), 0, 100)
		}
		s.RunningSprint = &run
	default:
		s.DurationMin = optionalNumber(m["duration_min"])
		s.SessionRPE = optionalNumber(m["session_rpe"])
	}
	return s
}

func strengthSets(raw any) []entry.StrengthSet {
	sets := []entry.StrengthSet{}
	payload, ok := object(raw)
	if !ok {
		return sets
	}
	items, ok := list(payload["sets"])
	if !ok {
		return sets
	}
	for i, item := range items {
		m, ok := object(item)
		if !ok {
			continue
		}
		effort, _ := str(m["effort"])
		set := entry.StrengthSet{
			Idx:    nonNegativeInt(m["idx"], i+1),
			Effort: entry.Effort(effort),
		}
		if rir, ok := number(m["rir"]); ok {
			v := pkg.ClampInt(pkg.RoundInt(rir), 0, 5)
			set.RIR = &v
		}
		if reps, ok := number(m["reps"]); ok {
			v := max(0, pkg.RoundInt(reps))
			set.Reps = &v
		}
		sets = append(sets, set)
	}
	return sets
}
