package tracker_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/2beens/maxpot/internal/analysis"
	"github.com/2beens/maxpot/internal/auth"
	"github.com/2beens/maxpot/internal/dailylog"
	"github.com/2beens/maxpot/internal/entry"
	"github.com/2beens/maxpot/internal/telemetry/metrics"
	"github.com/2beens/maxpot/internal/tracker"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type handlerFixture struct {
	router  *mux.Router
	service *tracker.Service
	deps    serviceDeps
}

func newHandlerFixture(t *testing.T, stored *entry.State, withAnalysis bool) *handlerFixture {
	t.Helper()
	service, deps := newTestService(t, time.Hour, withAnalysis)
	deps.repo.EXPECT().Load(gomock.Any(), "user1", "2025-03-10").Return(stored, nil).AnyTimes()
	deps.repo.EXPECT().Save(gomock.Any(), "user1", gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	router := mux.NewRouter()
	tracker.NewHandler(service, metrics.NewTestManager()).SetupRoutes(router)

	t.Cleanup(func() {
		closeService(t, service)
	})

	return &handlerFixture{
		router:  router,
		service: service,
		deps:    deps,
	}
}

func (f *handlerFixture) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req = req.WithContext(auth.ContextWithUserID(req.Context(), "user1"))
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func decodeMutation(t *testing.T, rr *httptest.ResponseRecorder) tracker.MutationResponse {
	t.Helper()
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var resp tracker.MutationResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func historyState(days int) *entry.State {
	state := entry.NewState("2025-03-10")
	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -days)
	for i := 0; i < days; i++ {
		key := start.AddDate(0, 0, i).Format("2006-01-02")
		e := entry.NewDayEntry(key)
		e.WaterMl = 2500
		e.SleepHr = 6
		if i >= 7 {
			e.SleepHr = 8
		}
		e.WorkoutSessions = []entry.WorkoutSession{{ID: key, Type: "yoga"}}
		state.History[key] = e
	}
	return state
}

func TestHandler_RequiresUser(t *testing.T) {
	f := newHandlerFixture(t, nil, false)

	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/state", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHandler_Options(t *testing.T) {
	f := newHandlerFixture(t, nil, false)

	rr := f.do(http.MethodOptions, "/log/water", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "POST, OPTIONS", rr.Header().Get("Allow"))
}

func TestHandler_GetState(t *testing.T) {
	f := newHandlerFixture(t, nil, false)

	rr := f.do(http.MethodGet, "/state", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp tracker.StateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "2025-03-10", resp.State.Today.DateKey)
	assert.Equal(t, entry.DefaultGoals(), resp.State.Goals)
	assert.Len(t, resp.State.Reminders, 4)
	assert.Empty(t, resp.SaveError)
}

func TestHandler_LogWater(t *testing.T) {
	f := newHandlerFixture(t, nil, false)

	resp := decodeMutation(t, f.do(http.MethodPost, "/log/water", `{"value": 500}`))
	assert.True(t, resp.Applied)
	assert.Equal(t, 500.0, resp.State.Today.WaterMl)
	assert.Equal(t, 20, resp.Progress.WaterPct)

	resp = decodeMutation(t, f.do(http.MethodPost, "/log/water", `{"value": "1/2", "unit": "bottles"}`))
	assert.True(t, resp.Applied)
	assert.Equal(t, 750.0, resp.State.Today.WaterMl)

	resp = decodeMutation(t, f.do(http.MethodPost, "/log/water", `{"value": "abc"}`))
	assert.False(t, resp.Applied)
	assert.Equal(t, 750.0, resp.State.Today.WaterMl)

	resp = decodeMutation(t, f.do(http.MethodPost, "/log/water", `{"value": "1200", "mode": "edit"}`))
	assert.True(t, resp.Applied)
	assert.Equal(t, 1200.0, resp.State.Today.WaterMl)
}

func TestHandler_LogWater_BadRequests(t *testing.T) {
	f := newHandlerFixture(t, nil, false)

	for name, body := range map[string]string{
		"empty body":   ``,
		"bad json":     `{"value":`,
		"unknown unit": `{"value": 1, "unit": "gallons"}`,
		"unknown mode": `{"value": 1, "mode": "replace"}`,
		"bad date":     `{"value": 1, "date": "10/03/2025"}`,
		"object value": `{"value": {"ml": 1}}`,
	} {
		t.Run(name, func(t *testing.T) {
			rr := f.do(http.MethodPost, "/log/water", body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestHandler_LogSleep_PastDay(t *testing.T) {
	f := newHandlerFixture(t, nil, false)

	resp := decodeMutation(t, f.do(http.MethodPost, "/log/sleep", `{"date": "2025-03-09", "mode": "edit", "value": "7.456"}`))
	assert.True(t, resp.Applied)
	assert.Zero(t, resp.State.Today.SleepHr)

	require.Len(t, resp.State.History, 2)
	assert.Equal(t, "2025-03-09", resp.State.History[0].DateKey)
	assert.Equal(t, 7.46, resp.State.History[0].SleepHr)
}

func TestHandler_LogSleep_FutureDayNotApplied(t *testing.T) {
	f := newHandlerFixture(t, nil, false)

	resp := decodeMutation(t, f.do(http.MethodPost, "/log/sleep", `{"date": "2025-03-20", "mode": "edit", "value": 8}`))
	assert.False(t, resp.Applied)
	require.Len(t, resp.State.History, 1)
	assert.Equal(t, "2025-03-10", resp.State.History[0].DateKey)
}

func TestHandler_LogElectrolytes(t *testing.T) {
	f := newHandlerFixture(t, nil, false)

	rr := f.do(http.MethodPost, "/log/electrolyte", `{"mineral": "zinc", "value": 10}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	resp := decodeMutation(t, f.do(http.MethodPost, "/log/electrolyte", `{"mineral": "magnesium", "value": "120.6"}`))
	assert.True(t, resp.Applied)
	assert.Equal(t, 121.0, resp.State.Today.Electrolytes.Magnesium)
	assert.True(t, resp.State.Today.ElectrolyteLogged)

	resp = decodeMutation(t, f.do(http.MethodPost, "/log/electrolytes/batch",
		`{"amounts": {"sodium": "100", "potassium": "", "chloride": "50"}}`))
	assert.True(t, resp.Applied)
	assert.Equal(t, 100.0, resp.State.Today.Electrolytes.Sodium)
	assert.Zero(t, resp.State.Today.Electrolytes.Potassium)
	assert.Equal(t, 50.0, resp.State.Today.Electrolytes.Chloride)

	resp = decodeMutation(t, f.do(http.MethodPost, "/log/electrolytes/batch", `{"amounts": {"sodium": "-5"}}`))
	assert.False(t, resp.Applied)
}

func TestHandler_Packets(t *testing.T) {
	f := newHandlerFixture(t, nil, false)

	rr := f.do(http.MethodPost, "/packets", `{"name": "  ", "amounts": {"sodium": 500}}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = f.do(http.MethodPost, "/packets", `{"name": "LMNT", "amounts": {"sodium": "0"}}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = f.do(http.MethodPost, "/packets", `{"name": "LMNT", "amounts": {"sodium": 1000, "potassium": "200", "magnesium": 60}}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	var created tracker.MutationResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	require.Len(t, created.State.ElectrolytePackets, 1)
	packet := created.State.ElectrolytePackets[0]
	assert.Equal(t, "LMNT", packet.Name)
	assert.NotEmpty(t, packet.ID)

	resp := decodeMutation(t, f.do(http.MethodPost, "/log/electrolytes/batch", fmt.Sprintf(`{"packetId": %q}`, packet.ID)))
	assert.True(t, resp.Applied)
	assert.Equal(t, 1000.0, resp.State.Today.Electrolytes.Sodium)
	assert.Equal(t, 200.0, resp.State.Today.Electrolytes.Potassium)
	assert.Equal(t, 60.0, resp.State.Today.Electrolytes.Magnesium)

	resp = decodeMutation(t, f.do(http.MethodPost, "/log/electrolytes/batch", `{"packetId": "missing"}`))
	assert.False(t, resp.Applied)

	resp = decodeMutation(t, f.do(http.MethodDelete, "/packets/"+packet.ID, ""))
	assert.True(t, resp.Applied)
	assert.Empty(t, resp.State.ElectrolytePackets)

	resp = decodeMutation(t, f.do(http.MethodDelete, "/packets/"+packet.ID, ""))
	assert.False(t, resp.Applied)
}

func TestHandler_Workouts(t *testing.T) {
	f := newHandlerFixture(t, nil, false)

	rr := f.do(http.MethodPost, "/log/workout", `{"numSets": 2}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	resp := decodeMutation(t, f.do(http.MethodPost, "/log/workout",
		`{"type": "strength", "numSets": "2", "sets": [{"effort": "to_failure", "reps": 8}, {"rir": "9", "reps": "10"}]}`))
	assert.True(t, resp.Applied)
	require.Len(t, resp.State.Today.WorkoutSessions, 1)
	session := resp.State.Today.WorkoutSessions[0]
	assert.Equal(t, "2025-03-10T09:30:00.000Z", session.ID)
	require.NotNil(t, session.Strength)
	require.Len(t, session.Strength.Sets, 2)
	assert.Equal(t, entry.EffortToFailure, session.Strength.Sets[0].Effort)
	assert.Nil(t, session.Strength.Sets[0].RIR)
	require.NotNil(t, session.Strength.Sets[1].RIR)
	assert.Equal(t, 5, *session.Strength.Sets[1].RIR)
	assert.Positive(t, resp.State.Today.TrainingLoad)

	// same clock instant, the id moves on by a millisecond
	resp = decodeMutation(t, f.do(http.MethodPost, "/log/workout", `{"type": "running_steady", "minutes": 30, "perceived": 6}`))
	require.Len(t, resp.State.Today.WorkoutSessions, 2)
	assert.Equal(t, "2025-03-10T09:30:00.001Z", resp.State.Today.WorkoutSessions[1].ID)

	rr = f.do(http.MethodDelete, "/log/not-a-date/workout/"+session.ID, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	resp = decodeMutation(t, f.do(http.MethodDelete, "/log/2025-03-10/workout/"+session.ID, ""))
	assert.True(t, resp.Applied)
	require.Len(t, resp.State.Today.WorkoutSessions, 1)
	assert.Equal(t, entry.SessionRunningSteady, resp.State.Today.WorkoutSessions[0].Type)

	resp = decodeMutation(t, f.do(http.MethodDelete, "/log/2025-03-10/workout/"+session.ID, ""))
	assert.False(t, resp.Applied)
}

func TestHandler_UpdateGoals(t *testing.T) {
	f := newHandlerFixture(t, nil, false)

	resp := decodeMutation(t, f.do(http.MethodPut, "/goals", `{"waterMl": 3000, "sleepHr": -1, "workout": 2.4}`))
	assert.True(t, resp.Applied)
	assert.Equal(t, 3000.0, resp.State.Goals.WaterMl)
	assert.Equal(t, 8.0, resp.State.Goals.SleepHr)
	assert.Equal(t, 2, resp.State.Goals.Workout)

	resp = decodeMutation(t, f.do(http.MethodPut, "/goals", `{"waterMl": 3000}`))
	assert.False(t, resp.Applied)
}

func TestHandler_UpdateReminder(t *testing.T) {
	f := newHandlerFixture(t, nil, false)

	rr := f.do(http.MethodPut, "/reminders/stretching", `{"enabled": true}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = f.do(http.MethodPut, "/reminders/water", `{"enabled": true, "time": "25:00"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = f.do(http.MethodGet, "/state", "")
	var state tracker.StateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &state))
	assert.Equal(t, entry.DefaultReminders()[entry.ReminderWater], state.State.Reminders[entry.ReminderWater])

	resp := decodeMutation(t, f.do(http.MethodPut, "/reminders/water", `{"enabled": true, "time": "7:05 pm"}`))
	assert.True(t, resp.Applied)
	assert.Equal(t, entry.Reminder{Enabled: true, Time: "7:05 PM"}, resp.State.Reminders[entry.ReminderWater])
}

func TestHandler_GetReminders(t *testing.T) {
	f := newHandlerFixture(t, nil, false)

	decodeMutation(t, f.do(http.MethodPut, "/reminders/sleep", `{"enabled": true, "time": "22:15"}`))

	rr := f.do(http.MethodGet, "/reminders", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var resp map[string][]dailylog.ReminderSchedule
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	reminders := resp["reminders"]
	require.Len(t, reminders, len(entry.ReminderKeys))
	for _, r := range reminders {
		if r.Key != entry.ReminderSleep {
			assert.Nil(t, r.NextAt, r.Key)
			continue
		}
		assert.Equal(t, "10:15 PM", r.Time)
		assert.NotEmpty(t, r.Message)
		require.NotNil(t, r.NextAt)
		assert.True(t, r.NextAt.Equal(time.Date(2025, 3, 10, 22, 15, 0, 0, time.UTC)))
	}
}

func TestHandler_Scores(t *testing.T) {
	f := newHandlerFixture(t, historyState(14), false)

	rr := f.do(http.MethodGet, "/streak", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var streak map[string]int
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &streak))
	// today is empty, so it breaks the streak
	assert.Equal(t, 0, streak["streak"])

	rr = f.do(http.MethodGet, "/readiness/timeline", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var timeline struct {
		Points []map[string]any `json:"points"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &timeline))
	require.Len(t, timeline.Points, 15)
	assert.Nil(t, timeline.Points[14]["readiness"])
	assert.NotNil(t, timeline.Points[0]["readiness"])

	rr = f.do(http.MethodGet, "/scores/today", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var today tracker.TodayScoresResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &today))
	assert.Equal(t, "2025-03-10", today.Scores.DateKey)
	assert.Nil(t, today.Scores.Readiness)
	assert.Zero(t, today.Progress.WaterPct)
}

func TestHandler_Series(t *testing.T) {
	f := newHandlerFixture(t, historyState(14), false)

	rr := f.do(http.MethodGet, "/series/steps/week", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = f.do(http.MethodGet, "/series/sleep/decade", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = f.do(http.MethodGet, "/series/sleep/week", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var week tracker.SeriesResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &week))
	assert.Len(t, week.Points, 7)
	assert.Equal(t, "2025-03-10", week.Points[6].DateKey)
	assert.Nil(t, week.Trend)

	rr = f.do(http.MethodGet, "/series/sleep/month", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var month tracker.SeriesResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &month))
	assert.Len(t, month.Points, 15)
	require.NotNil(t, month.Trend)
	assert.Contains(t, month.Trend.Message, "Sleep is")
	assert.Contains(t, month.Trend.Message, "this week vs last.")
}

func TestHandler_Analysis(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		f := newHandlerFixture(t, nil, false)

		rr := f.do(http.MethodPost, "/analysis/refresh", "")
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

		rr = f.do(http.MethodGet, "/analysis", "")
		require.Equal(t, http.StatusOK, rr.Code)
		var resp tracker.AnalysisResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.False(t, resp.Enabled)
		assert.Nil(t, resp.Analysis)
	})

	t.Run("refresh", func(t *testing.T) {
		f := newHandlerFixture(t, nil, true)
		gomock.InOrder(
			f.deps.analysis.EXPECT().AnalyzeDaily(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, req analysis.DailyRequest) (*analysis.DailyAnalysis, error) {
					assert.Equal(t, "user1", req.UserID)
					assert.Empty(t, req.RecentTrainingLoads)
					return &analysis.DailyAnalysis{Date: req.Date, Readiness: 64.5}, nil
				},
			),
			f.deps.analysis.EXPECT().AnalyzeDaily(gomock.Any(), gomock.Any()).Return(nil, fmt.Errorf("analytics service returned 503")),
		)

		rr := f.do(http.MethodPost, "/analysis/refresh", "")
		require.Equal(t, http.StatusOK, rr.Code)
		var resp tracker.AnalysisResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.True(t, resp.Enabled)
		require.NotNil(t, resp.Analysis)
		assert.Equal(t, 64.5, resp.Analysis.Readiness)
		assert.NotNil(t, resp.AnalyzedAt)

		rr = f.do(http.MethodPost, "/analysis/refresh", "")
		require.Equal(t, http.StatusBadGateway, rr.Code)
		resp = tracker.AnalysisResponse{}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "analytics service returned 503", resp.AnalysisError)
		// the last good result stays visible
		require.NotNil(t, resp.Analysis)
		assert.Equal(t, 64.5, resp.Analysis.Readiness)
	})
}
