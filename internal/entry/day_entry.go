package entry

// DayEntry is everything logged for one local calendar day.
type DayEntry struct {
	DateKey           string           `json:"dateKey"`
	WaterMl           float64          `json:"waterMl"`
	SleepHr           float64          `json:"sleepHr"`
	Electrolytes      Electrolytes     `json:"electrolytes"`
	ElectrolyteLogged bool             `json:"electrolyteLogged"`
	WorkoutSessions   []WorkoutSession `json:"workoutSessions"`
	// TrainingLoad is derived from WorkoutSessions and recomputed on every change.
	TrainingLoad float64 `json:"trainingLoad"`
}

func NewDayEntry(dateKey string) DayEntry {
	return DayEntry{
		DateKey:         dateKey,
		WorkoutSessions: []WorkoutSession{},
	}
}

func (d DayEntry) WorkoutCount() int {
	return len(d.WorkoutSessions)
}

// IsEmpty reports whether nothing at all was logged for the day.
func (d DayEntry) IsEmpty() bool {
	return d.WaterMl == 0 &&
		d.SleepHr == 0 &&
		len(d.WorkoutSessions) == 0 &&
		!d.ElectrolyteLogged &&
		!d.Electrolytes.AnyPositive()
}

func (d DayEntry) HasSession(id string) bool {
	for _, s := range d.WorkoutSessions {
		if s.ID == id {
			return true
		}
	}
	return false
}
