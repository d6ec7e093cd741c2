package entry

type Goals struct {
	WaterMl       float64 `json:"waterMl"`
	SleepHr       float64 `json:"sleepHr"`
	Workout       int     `json:"workout"`
	Electrolyte   float64 `json:"electrolyte"`
	WaterBottleMl float64 `json:"waterBottleMl"`
}

func DefaultGoals() Goals {
	return Goals{
		WaterMl:       2500,
		SleepHr:       8,
		Workout:       1,
		Electrolyte:   100,
		WaterBottleMl: 500,
	}
}
