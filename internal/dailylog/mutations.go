package dailylog

import (
	"slices"

	"github.com/2beens/maxpot/internal/entry"
	"github.com/2beens/maxpot/pkg"
)

type WaterUnit string

const (
	UnitMl      WaterUnit = "ml"
	UnitBottles WaterUnit = "bottles"
)

// Water logs volume in millilitres or in bottles ("3/4" style fractions allowed).
func Water(mode Mode, unit WaterUnit, raw string, bottleMl float64) Mutation {
	return func(e *entry.DayEntry) bool {
		var ml float64
		if unit == UnitBottles {
			bottles, ok := pkg.ParseFractionOrNumber(raw)
			if !ok {
				return false
			}
			ml = pkg.Round(bottles * bottleMl)
		} else {
			v, ok := pkg.ParseNumber(raw)
			if !ok {
				return false
			}
			ml = v
		}

		if mode == ModeEdit {
			if ml < 0 {
				return false
			}
			e.WaterMl = ml
			return true
		}
		if ml <= 0 {
			return false
		}
		e.WaterMl += ml
		return true
	}
}

// Sleep logs hours, rounded to two decimals.
func Sleep(mode Mode, raw string) Mutation {
	return func(e *entry.DayEntry) bool {
		hours, ok := pkg.ParseNumber(raw)
		if !ok {
			return false
		}
		if mode == ModeEdit {
			if hours < 0 {
				return false
			}
			e.SleepHr = pkg.RoundTo(hours, 2)
			return true
		}
		if hours <= 0 {
			return false
		}
		e.SleepHr = pkg.RoundTo(e.SleepHr+hours, 2)
		return true
	}
}

// Electrolyte logs a single mineral in whole milligrams.
func Electrolyte(mode Mode, mineral entry.Mineral, raw string) Mutation {
	return func(e *entry.DayEntry) bool {
		if !mineral.IsValid() {
			return false
		}
		mg, ok := pkg.ParseNumber(raw)
		if !ok {
			return false
		}
		amount := pkg.Round(mg)

		if mode == ModeEdit {
			if amount < 0 {
				return false
			}
			e.Electrolytes.Set(mineral, amount)
			e.ElectrolyteLogged = e.Electrolytes.AnyPositive()
			return true
		}
		if amount <= 0 {
			return false
		}
		e.Electrolytes.Set(mineral, e.Electrolytes.Get(mineral)+amount)
		e.ElectrolyteLogged = true
		return true
	}
}

// ElectrolyteBatch adds every mineral with a positive amount. Blank or
// malformed amounts and unknown minerals are skipped.
func ElectrolyteBatch(amounts map[entry.Mineral]string) Mutation {
	return func(e *entry.DayEntry) bool {
		applied := false
		for _, mineral := range entry.Minerals {
			raw, ok := amounts[mineral]
			if !ok {
				continue
			}
			inc := safePositiveInt(raw)
			if inc <= 0 {
				continue
			}
			e.Electrolytes.Set(mineral, e.Electrolytes.Get(mineral)+float64(inc))
			applied = true
		}
		if applied {
			e.ElectrolyteLogged = true
		}
		return applied
	}
}

func safePositiveInt(raw string) int {
	v, ok := pkg.ParseNumber(raw)
	if !ok {
		return 0
	}
	return max(0, pkg.RoundInt(v))
}

// AddWorkout appends a session. Sessions reusing an existing id are rejected.
func AddWorkout(session entry.WorkoutSession) Mutation {
	return func(e *entry.DayEntry) bool {
		if session.ID == "" || e.HasSession(session.ID) {
			return false
		}
		e.WorkoutSessions = append(e.WorkoutSessions, session)
		return true
	}
}

// RemoveWorkout drops the session with the given id.
func RemoveWorkout(id string) Mutation {
	return func(e *entry.DayEntry) bool {
		idx := slices.IndexFunc(e.WorkoutSessions, func(s entry.WorkoutSession) bool {
			return s.ID == id
		})
		if idx < 0 {
			return false
		}
		e.WorkoutSessions = slices.Delete(e.WorkoutSessions, idx, idx+1)
		return true
	}
}
