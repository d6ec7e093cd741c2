package entry

import (
	"maps"
	"slices"
	"time"
)

// History holds day entries keyed by their day key. Today's entry lives here too.
type History map[string]DayEntry

// Sorted returns entries in ascending day-key order.
func (h History) Sorted() []DayEntry {
	keys := slices.Sorted(maps.Keys(h))
	entries := make([]DayEntry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, h[k])
	}
	return entries
}

// State is one user's complete tracker state.
type State struct {
	Goals              Goals
	TodayKey           string
	History            History
	ElectrolytePackets []ElectrolytePacket
	Reminders          Reminders
	Preferences        map[string]any
}

// NewState builds a fresh default state with an empty entry for todayKey.
func NewState(todayKey string) *State {
	s := &State{
		Goals:              DefaultGoals(),
		TodayKey:           todayKey,
		History:            History{},
		ElectrolytePackets: []ElectrolytePacket{},
		Reminders:          DefaultReminders(),
		Preferences:        map[string]any{},
	}
	s.History[todayKey] = NewDayEntry(todayKey)
	return s
}

func (s *State) Today() DayEntry {
	if e, ok := s.History[s.TodayKey]; ok {
		return e
	}
	return NewDayEntry(s.TodayKey)
}

// Rollover moves "today" to todayKey, creating an empty entry if none exists.
// Previous days stay in History untouched. Reports whether anything changed.
func (s *State) Rollover(todayKey string) bool {
	_, exists := s.History[todayKey]
	if s.TodayKey == todayKey && exists {
		return false
	}
	s.TodayKey = todayKey
	if !exists {
		s.History[todayKey] = NewDayEntry(todayKey)
	}
	return true
}

// PastEntries returns all entries before today, ascending.
func (s *State) PastEntries() []DayEntry {
	out := make([]DayEntry, 0, len(s.History))
	for _, e := range s.History.Sorted() {
		if e.DateKey < s.TodayKey {
			out = append(out, e)
		}
	}
	return out
}

// Document is the persisted wire shape of a State.
type Document struct {
	Goals              Goals               `json:"goals"`
	Today              DayEntry            `json:"today"`
	History            []DayEntry          `json:"history"`
	ElectrolytePackets []ElectrolytePacket `json:"electrolytePackets"`
	Reminders          Reminders           `json:"reminders"`
	Preferences        map[string]any      `json:"preferences"`
	UpdatedAt          int64               `json:"updatedAt"`
}

func (s *State) Document(updatedAt time.Time) Document {
	packets := s.ElectrolytePackets
	if packets == nil {
		packets = []ElectrolytePacket{}
	}
	prefs := s.Preferences
	if prefs == nil {
		prefs = map[string]any{}
	}
	return Document{
		Goals:              s.Goals,
		Today:              s.Today(),
		History:            s.History.Sorted(),
		ElectrolytePackets: packets,
		Reminders:          s.Reminders,
		Preferences:        prefs,
		UpdatedAt:          updatedAt.UnixMilli(),
	}
}

// Clone returns a deep copy safe to hand out to readers.
func (s *State) Clone() *State {
	c := &State{
		Goals:              s.Goals,
		TodayKey:           s.TodayKey,
		History:            make(History, len(s.History)),
		ElectrolytePackets: slices.Clone(s.ElectrolytePackets),
		Reminders:          s.Reminders.Clone(),
		Preferences:        clonePreferences(s.Preferences),
	}
	for k, e := range s.History {
		if e.WorkoutSessions != nil {
			sessions := make([]WorkoutSession, len(e.WorkoutSessions))
			for i, session := range e.WorkoutSessions {
				sessions[i] = session.Clone()
			}
			e.WorkoutSessions = sessions
		}
		c.History[k] = e
	}
	return c
}

func clonePreferences(p map[string]any) map[string]any {
	if p == nil {
		return nil
	}
	out := make(map[string]any, len(p))
	for k, v := range p {
		out[k] = cloneJSONValue(v)
	}
	return out
}

// cloneJSONValue copies the containers produced by encoding/json.
func cloneJSONValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return clonePreferences(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneJSONValue(item)
		}
		return out
	default:
		return v
	}
}
