package dailylog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/maxpot/internal/entry"
)

func TestNewStrengthSession(t *testing.T) {
	s := NewStrengthSession("id", "3", []SetInput{
		{Effort: "to_failure", RIR: "3"},
		{Effort: "before_failure", RIR: "9", Reps: "10"},
	})
	assert.Equal(t, entry.SessionStrength, s.Type)
	require.NotNil(t, s.Strength)
	require.Len(t, s.Strength.Sets, 3)

	first := s.Strength.Sets[0]
	assert.Equal(t, 1, first.Idx)
	assert.Equal(t, entry.EffortToFailure, first.Effort)
	assert.Nil(t, first.RIR)

	second := s.Strength.Sets[1]
	assert.Equal(t, 5, *second.RIR)
	assert.Equal(t, 10, *second.Reps)

	third := s.Strength.Sets[2]
	assert.Equal(t, 3, third.Idx)
	assert.Equal(t, entry.EffortBeforeFailure, third.Effort)
	assert.Equal(t, 0, *third.RIR)
	assert.Nil(t, third.Reps)
}

func TestNewStrengthSession_BadSetCount(t *testing.T) {
	for _, raw := range []string{"", "abc", "-2"} {
		s := NewStrengthSession("id", raw, nil)
		assert.Empty(t, s.Strength.Sets, raw)
	}
	s := NewStrengthSession("id", "2.7", nil)
	assert.Len(t, s.Strength.Sets, 2)
	s = NewStrengthSession("id", "100000", nil)
	assert.Len(t, s.Strength.Sets, maxSetsPerLog)
}

func TestNewSteadyRunSession(t *testing.T) {
	s := NewSteadyRunSession("id", "-10", "")
	require.NotNil(t, s.RunningSteady)
	assert.Equal(t, 0.0, s.RunningSteady.Minutes)
	assert.Equal(t, 1.0, s.RunningSteady.Perceived)

	s = NewSteadyRunSession("id", "35", "12")
	assert.Equal(t, 35.0, s.RunningSteady.Minutes)
	assert.Equal(t, 10.0, s.RunningSteady.Perceived)
}

func TestNewSprintSession(t *testing.T) {
	s := NewSprintSession("id", "400", "130")
	require.NotNil(t, s.RunningSprint)
	assert.Equal(t, 400.0, s.RunningSprint.DistanceM)
	assert.Equal(t, 100.0, s.RunningSprint.PerceivedPct)

	s = NewSprintSession("id", "x", "-5")
	assert.Equal(t, 0.0, s.RunningSprint.DistanceM)
	assert.Equal(t, 0.0, s.RunningSprint.PerceivedPct)
}

func TestNewOtherSession(t *testing.T) {
	s := NewOtherSession("id", "yoga", "45", "4")
	assert.Equal(t, entry.SessionType("yoga"), s.Type)
	assert.Equal(t, 45.0, *s.DurationMin)
	assert.Equal(t, 4.0, *s.SessionRPE)
}
