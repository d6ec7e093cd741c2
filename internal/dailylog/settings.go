package dailylog

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/2beens/maxpot/internal/entry"
	"github.com/2beens/maxpot/internal/timeutil"
	"github.com/2beens/maxpot/pkg"
)

var ErrPacketInvalid = errors.New("invalid electrolyte packet")

// GoalsPatch carries optional goal updates; nil fields are left as they are.
type GoalsPatch struct {
	WaterMl       *float64 `json:"waterMl"`
	SleepHr       *float64 `json:"sleepHr"`
	Workout       *float64 `json:"workout"`
	Electrolyte   *float64 `json:"electrolyte"`
	WaterBottleMl *float64 `json:"waterBottleMl"`
}

// UpdateGoals applies finite, non-negative values from the patch.
func UpdateGoals(s *entry.State, patch GoalsPatch) bool {
	changed := false
	set := func(dst *float64, v *float64) {
		if v == nil || !pkg.IsFinite(*v) || *v < 0 || *dst == *v {
			return
		}
		*dst = *v
		changed = true
	}
	set(&s.Goals.WaterMl, patch.WaterMl)
	set(&s.Goals.SleepHr, patch.SleepHr)
	set(&s.Goals.Electrolyte, patch.Electrolyte)
	set(&s.Goals.WaterBottleMl, patch.WaterBottleMl)
	if w := patch.Workout; w != nil && pkg.IsFinite(*w) && *w >= 0 {
		if rounded := pkg.RoundInt(*w); rounded != s.Goals.Workout {
			s.Goals.Workout = rounded
			changed = true
		}
	}
	return changed
}

// NewPacket validates raw packet input. A name and at least one positive
// mineral amount are required.
func NewPacket(id, name string, amounts map[entry.Mineral]string) (entry.ElectrolytePacket, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return entry.ElectrolytePacket{}, fmt.Errorf("%w: name is required", ErrPacketInvalid)
	}
	p := entry.ElectrolytePacket{ID: id, Name: name}
	for _, mineral := range entry.Minerals {
		if raw, ok := amounts[mineral]; ok {
			p.Set(mineral, float64(safePositiveInt(raw)))
		}
	}
	if !p.AnyPositive() {
		return entry.ElectrolytePacket{}, fmt.Errorf("%w: at least one mineral amount is required", ErrPacketInvalid)
	}
	return p, nil
}

// AddPacket puts the packet first, the newest packets lead the list.
func AddPacket(s *entry.State, p entry.ElectrolytePacket) {
	s.ElectrolytePackets = append([]entry.ElectrolytePacket{p}, s.ElectrolytePackets...)
}

func RemovePacket(s *entry.State, id string) bool {
	idx := slices.IndexFunc(s.ElectrolytePackets, func(p entry.ElectrolytePacket) bool {
		return p.ID == id
	})
	if idx < 0 {
		return false
	}
	s.ElectrolytePackets = slices.Delete(s.ElectrolytePackets, idx, idx+1)
	return true
}

// PacketAmounts turns a packet into batch input for ElectrolyteBatch.
func PacketAmounts(p entry.ElectrolytePacket) map[entry.Mineral]string {
	amounts := make(map[entry.Mineral]string, len(entry.Minerals))
	for _, mineral := range entry.Minerals {
		if v := p.Get(mineral); v > 0 {
			amounts[mineral] = fmt.Sprintf("%g", v)
		}
	}
	return amounts
}

func SetReminderEnabled(s *entry.State, key entry.ReminderKey, enabled bool) bool {
	if !key.IsValid() {
		return false
	}
	r := s.Reminders[key]
	if r.Enabled == enabled {
		return false
	}
	r.Enabled = enabled
	s.Reminders[key] = r
	return true
}

// SetReminderTime stores the normalized label. Invalid input keeps the
// previous value and returns timeutil.ErrInvalidTime.
func SetReminderTime(s *entry.State, key entry.ReminderKey, raw string) (bool, error) {
	if !key.IsValid() {
		return false, fmt.Errorf("unknown reminder [%s]", key)
	}
	label, err := timeutil.NormalizeTimeString(raw)
	if err != nil {
		return false, err
	}
	r := s.Reminders[key]
	if r.Time == label {
		return false, nil
	}
	r.Time = label
	s.Reminders[key] = r
	return true, nil
}

type ReminderSchedule struct {
	Key     entry.ReminderKey `json:"key"`
	Enabled bool              `json:"enabled"`
	Time    string            `json:"time"`
	Message string            `json:"message"`
	// NextAt is set only for enabled reminders with a readable time.
	NextAt *time.Time `json:"nextAt,omitempty"`
}

// ReminderSchedules lists every reminder in a fixed order with its next fire time after now.
func ReminderSchedules(r entry.Reminders, now time.Time) []ReminderSchedule {
	out := make([]ReminderSchedule, 0, len(entry.ReminderKeys))
	for _, key := range entry.ReminderKeys {
		reminder := r[key]
		schedule := ReminderSchedule{
			Key:     key,
			Enabled: reminder.Enabled,
			Time:    reminder.Time,
			Message: key.Message(),
		}
		if reminder.Enabled {
			if tod, err := timeutil.ParseTimeOfDay(reminder.Time); err == nil {
				next := tod.NextOccurrence(now)
				schedule.NextAt = &next
			}
		}
		out = append(out, schedule)
	}
	return out
}
