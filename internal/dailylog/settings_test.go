package dailylog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/maxpot/internal/entry"
	"github.com/2beens/maxpot/internal/timeutil"
)

func ptr(v float64) *float64 { return &v }

func TestUpdateGoals(t *testing.T) {
	s := entry.NewState(todayKey)
	changed := UpdateGoals(s, GoalsPatch{WaterMl: ptr(3000), SleepHr: ptr(-1), Workout: ptr(2.4)})
	assert.True(t, changed)
	assert.Equal(t, 3000.0, s.Goals.WaterMl)
	assert.Equal(t, 8.0, s.Goals.SleepHr)
	assert.Equal(t, 2, s.Goals.Workout)

	assert.False(t, UpdateGoals(s, GoalsPatch{WaterMl: ptr(3000)}))
	assert.False(t, UpdateGoals(s, GoalsPatch{}))
}

func TestPackets(t *testing.T) {
	s := entry.NewState(todayKey)

	_, err := NewPacket("pkt-1", "  ", map[entry.Mineral]string{entry.Sodium: "100"})
	assert.ErrorIs(t, err, ErrPacketInvalid)
	_, err = NewPacket("pkt-1", "Mix", map[entry.Mineral]string{entry.Sodium: "0", entry.Calcium: "abc"})
	assert.ErrorIs(t, err, ErrPacketInvalid)

	first, err := NewPacket("pkt-1", "Mix", map[entry.Mineral]string{entry.Sodium: "500.4", entry.Potassium: "200"})
	require.NoError(t, err)
	assert.Equal(t, 500.0, first.Sodium)
	AddPacket(s, first)

	second, err := NewPacket("pkt-2", "Salt tab", map[entry.Mineral]string{entry.Sodium: "215"})
	require.NoError(t, err)
	AddPacket(s, second)

	require.Len(t, s.ElectrolytePackets, 2)
	assert.Equal(t, "pkt-2", s.ElectrolytePackets[0].ID)

	amounts := PacketAmounts(first)
	assert.Equal(t, map[entry.Mineral]string{entry.Sodium: "500", entry.Potassium: "200"}, amounts)

	e := entry.NewDayEntry(todayKey)
	require.True(t, ElectrolyteBatch(amounts)(&e))
	assert.Equal(t, 500.0, e.Electrolytes.Sodium)

	assert.True(t, RemovePacket(s, "pkt-1"))
	assert.False(t, RemovePacket(s, "pkt-1"))
	require.Len(t, s.ElectrolytePackets, 1)
}

func TestReminders(t *testing.T) {
	s := entry.NewState(todayKey)

	assert.True(t, SetReminderEnabled(s, entry.ReminderWater, true))
	assert.False(t, SetReminderEnabled(s, entry.ReminderWater, true))
	assert.False(t, SetReminderEnabled(s, entry.ReminderKey("nap"), true))

	changed, err := SetReminderTime(s, entry.ReminderSleep, "22:45")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "10:45 PM", s.Reminders[entry.ReminderSleep].Time)

	changed, err = SetReminderTime(s, entry.ReminderSleep, "25:00")
	assert.ErrorIs(t, err, timeutil.ErrInvalidTime)
	assert.False(t, changed)
	assert.Equal(t, "10:45 PM", s.Reminders[entry.ReminderSleep].Time)

	_, err = SetReminderTime(s, entry.ReminderKey("nap"), "9:00")
	assert.Error(t, err)
}

func TestReminderSchedules(t *testing.T) {
	s := entry.NewState(todayKey)
	require.True(t, SetReminderEnabled(s, entry.ReminderWater, true))
	require.True(t, SetReminderEnabled(s, entry.ReminderSleep, true))
	s.Reminders[entry.ReminderSleep] = entry.Reminder{Enabled: true, Time: "garbage"}

	now := time.Date(2025, 3, 10, 11, 30, 0, 0, time.UTC)
	schedules := ReminderSchedules(s.Reminders, now)
	require.Len(t, schedules, len(entry.ReminderKeys))

	water := schedules[0]
	assert.Equal(t, entry.ReminderWater, water.Key)
	assert.Equal(t, entry.ReminderWater.Message(), water.Message)
	require.NotNil(t, water.NextAt)
	// 9:00 AM already passed today
	assert.Equal(t, time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC), *water.NextAt)

	assert.False(t, schedules[1].Enabled)
	assert.Nil(t, schedules[1].NextAt)
	assert.Nil(t, schedules[2].NextAt)
}
