package entry

type ReminderKey string

const (
	ReminderWater        ReminderKey = "water"
	ReminderElectrolytes ReminderKey = "electrolytes"
	ReminderSleep        ReminderKey = "sleep"
	ReminderWorkouts     ReminderKey = "workouts"
)

var ReminderKeys = []ReminderKey{ReminderWater, ReminderElectrolytes, ReminderSleep, ReminderWorkouts}

func (k ReminderKey) IsValid() bool {
	switch k {
	case ReminderWater, ReminderElectrolytes, ReminderSleep, ReminderWorkouts:
		return true
	}
	return false
}

func (k ReminderKey) Message() string {
	switch k {
	case ReminderWater:
		return "Time to hydrate. Log a bottle in MaxPot."
	case ReminderElectrolytes:
		return "Stay balanced. Add electrolytes if you've trained or sweated today."
	case ReminderSleep:
		return "Wind-down reminder. Aim for consistent sleep tonight."
	case ReminderWorkouts:
		return "Training check-in. Schedule or log your workout for today."
	}
	return "Check in with MaxPot today."
}

type Reminder struct {
	Enabled bool   `json:"enabled"`
	Time    string `json:"time"`
}

type Reminders map[ReminderKey]Reminder

func DefaultReminders() Reminders {
	return Reminders{
		ReminderWater:        {Enabled: false, Time: "9:00 AM"},
		ReminderElectrolytes: {Enabled: false, Time: "1:00 PM"},
		ReminderSleep:        {Enabled: false, Time: "10:00 PM"},
		ReminderWorkouts:     {Enabled: false, Time: "5:00 PM"},
	}
}

func (r Reminders) Clone() Reminders {
	out := make(Reminders, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
