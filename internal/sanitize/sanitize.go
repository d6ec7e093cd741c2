// Package sanitize turns loosely typed, possibly corrupt persisted data into
// canonical tracker values. Every function is idempotent and never fails:
// anything unusable falls back to defaults field by field.
package sanitize

import (
	"encoding/json"
	"maps"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/maxpot/internal/entry"
	"github.com/2beens/maxpot/internal/timeutil"
	"github.com/2beens/maxpot/internal/trainingload"
)

func Goals(raw any) entry.Goals {
	g := entry.DefaultGoals()
	m, ok := object(raw)
	if !ok {
		return g
	}
	g.WaterMl = nonNegative(m["waterMl"], g.WaterMl)
	g.SleepHr = nonNegative(m["sleepHr"], g.SleepHr)
	g.Workout = nonNegativeInt(m["workout"], g.Workout)
	g.Electrolyte = nonNegative(m["electrolyte"], g.Electrolyte)
	g.WaterBottleMl = nonNegative(m["waterBottleMl"], g.WaterBottleMl)
	return g
}

func Electrolytes(raw any) entry.Electrolytes {
	var e entry.Electrolytes
	m, ok := object(raw)
	if !ok {
		return e
	}
	for _, mineral := range entry.Minerals {
		e.Set(mineral, nonNegative(m[string(mineral)], 0))
	}
	return e
}

// DayEntry sanitizes a single day. Entries without a valid day key use fallbackKey.
// Training load is always recomputed from the sessions.
func DayEntry(raw any, fallbackKey string) entry.DayEntry {
	m, ok := object(raw)
	if !ok {
		return entry.NewDayEntry(fallbackKey)
	}

	key := fallbackKey
	if k, ok := str(m["dateKey"]); ok && timeutil.IsDayKey(k) {
		key = k
	}

	d := entry.NewDayEntry(key)
	d.WaterMl = nonNegative(m["waterMl"], 0)
	d.SleepHr = nonNegative(m["sleepHr"], 0)
	d.Electrolytes = Electrolytes(m["electrolytes"])
	if logged, ok := m["electrolyteLogged"].(bool); ok {
		d.ElectrolyteLogged = logged
	} else {
		d.ElectrolyteLogged = d.Electrolytes.AnyPositive()
	}
	d.WorkoutSessions = WorkoutSessions(m["workoutSessions"])
	d.TrainingLoad = trainingload.DayLoad(d.WorkoutSessions)
	return d
}

// History keeps only entries carrying a valid day key; later duplicates win.
func History(raw any) entry.History {
	h := entry.History{}
	items, ok := list(raw)
	if !ok {
		return h
	}
	for _, item := range items {
		m, ok := object(item)
		if !ok {
			continue
		}
		key, ok := str(m["dateKey"])
		if !ok || !timeutil.IsDayKey(key) {
			continue
		}
		h[key] = DayEntry(m, key)
	}
	return h
}

func Packets(raw any) []entry.ElectrolytePacket {
	packets := []entry.ElectrolytePacket{}
	items, ok := list(raw)
	if !ok {
		return packets
	}
	for _, item := range items {
		m, ok := object(item)
		if !ok {
			continue
		}
		id, _ := str(m["id"])
		name, _ := str(m["name"])

		p := entry.ElectrolytePacket{ID: id, Name: name}
		for _, mineral := range entry.Minerals {
			p.Set(mineral, float64(nonNegativeInt(m[string(mineral)], 0)))
		}
		packets = append(packets, p)
	}

	ids := make([]string, len(packets))
	for i, p := range packets {
		ids[i] = p.ID
	}
	uniqueIDs(ids, "pkt-legacy")
	for i := range packets {
		packets[i].ID = ids[i]
	}
	return packets
}

func Reminders(raw any) entry.Reminders {
	r := entry.DefaultReminders()
	m, ok := object(raw)
	if !ok {
		return r
	}
	for _, key := range entry.ReminderKeys {
		item, ok := object(m[string(key)])
		if !ok {
			continue
		}
		reminder := r[key]
		reminder.Enabled = truthy(item["enabled"])
		if t, ok := str(item["time"]); ok {
			reminder.Time = t
		}
		r[key] = reminder
	}
	return r
}

func Preferences(raw any) map[string]any {
	m, ok := object(raw)
	if !ok {
		return map[string]any{}
	}
	return maps.Clone(m)
}

// State sanitizes a decoded document. The document's "today" is folded into
// history under its own day key, then today moves to todayKey.
func State(raw any, todayKey string) *entry.State {
	s := entry.NewState(todayKey)
	m, ok := object(raw)
	if !ok {
		return s
	}

	s.Goals = Goals(m["goals"])
	s.History = History(m["history"])
	if todayRaw, ok := object(m["today"]); ok {
		today := DayEntry(todayRaw, todayKey)
		s.History[today.DateKey] = today
	}
	s.ElectrolytePackets = Packets(m["electrolytePackets"])
	s.Reminders = Reminders(m["reminders"])
	s.Preferences = Preferences(m["preferences"])

	s.TodayKey = ""
	s.Rollover(todayKey)
	return s
}

// Decode parses a persisted document. Malformed input yields a default state.
func Decode(data []byte, todayKey string) *entry.State {
	if len(data) == 0 {
		return entry.NewState(todayKey)
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Warnf("sanitize: unparsable state document, using defaults: %s", err)
		return entry.NewState(todayKey)
	}
	return State(raw, todayKey)
}
