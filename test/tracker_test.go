//go:build integration

package test

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/2beens/maxpot/internal/auth"
	"github.com/2beens/maxpot/internal/entry"
	"github.com/2beens/maxpot/internal/tracker"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) storedDocument(userID string) (*entry.Document, error) {
	var raw []byte
	if err := s.DB.QueryRow(`SELECT document FROM user_state WHERE user_id = $1`, userID).Scan(&raw); err != nil {
		return nil, err
	}
	var doc entry.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *IntegrationTestSuite) TestTracker_LogAndPersist() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signIn := signUpAndIn(ctx, t, s.httpClient, auth.Credentials{
		Username: gofakeit.Username(),
		Password: gofakeit.Password(true, true, true, false, false, 12),
	})

	status, body := doAuthorized(ctx, t, s.httpClient, signIn.Token, http.MethodPost, "/log/water", `{"value": 500}`)
	require.Equal(t, http.StatusOK, status, string(body))
	status, body = doAuthorized(ctx, t, s.httpClient, signIn.Token, http.MethodPost, "/log/water", `{"value": "1/2", "unit": "bottles"}`)
	require.Equal(t, http.StatusOK, status, string(body))
	status, body = doAuthorized(ctx, t, s.httpClient, signIn.Token, http.MethodPost, "/log/workout",
		`{"type": "running_steady", "minutes": 40, "perceived": 7}`)
	require.Equal(t, http.StatusOK, status, string(body))

	var mutation tracker.MutationResponse
	require.NoError(t, json.Unmarshal(body, &mutation))
	assert.True(t, mutation.Applied)
	assert.Equal(t, 750.0, mutation.State.Today.WaterMl)
	require.Len(t, mutation.State.Today.WorkoutSessions, 1)

	// the debounced save lands shortly after the last mutation
	require.Eventually(t, func() bool {
		doc, err := s.storedDocument(signIn.UserID)
		if err != nil {
			return false
		}
		return doc.Today.WaterMl == 750 && len(doc.Today.WorkoutSessions) == 1
	}, 5*time.Second, 50*time.Millisecond)

	doc, err := s.storedDocument(signIn.UserID)
	require.NoError(t, err)
	assert.Equal(t, entry.DefaultGoals(), doc.Goals)
	assert.Positive(t, doc.Today.TrainingLoad)
	assert.Positive(t, doc.UpdatedAt)

	status, body = doAuthorized(ctx, t, s.httpClient, signIn.Token, http.MethodGet, "/scores/today", "")
	require.Equal(t, http.StatusOK, status, string(body))
	var scores tracker.TodayScoresResponse
	require.NoError(t, json.Unmarshal(body, &scores))
	assert.Equal(t, 30, scores.Progress.WaterPct)
}

func (s *IntegrationTestSuite) TestTracker_UsersAreIsolated() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := signUpAndIn(ctx, t, s.httpClient, auth.Credentials{Username: gofakeit.Username(), Password: "first-pass"})
	second := signUpAndIn(ctx, t, s.httpClient, auth.Credentials{Username: gofakeit.Username(), Password: "second-pass"})

	status, body := doAuthorized(ctx, t, s.httpClient, first.Token, http.MethodPost, "/log/sleep", `{"value": 7.5}`)
	require.Equal(t, http.StatusOK, status, string(body))

	status, body = doAuthorized(ctx, t, s.httpClient, second.Token, http.MethodGet, "/state", "")
	require.Equal(t, http.StatusOK, status, string(body))
	var state tracker.StateResponse
	require.NoError(t, json.Unmarshal(body, &state))
	assert.Zero(t, state.State.Today.SleepHr)

	status, _ = doAuthorized(ctx, t, s.httpClient, second.Token, http.MethodPost, "/analysis/refresh", "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
}
