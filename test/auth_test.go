//go:build integration

package test

import (
	"context"
	"net/http"

	"github.com/2beens/maxpot/internal/auth"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestSignUpSignInSignOut() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	creds := auth.Credentials{
		Username: gofakeit.Username(),
		Password: gofakeit.Password(true, true, true, false, false, 16),
	}
	signIn := signUpAndIn(ctx, t, s.httpClient, creds)

	resp := postCredentials(ctx, t, s.httpClient, "signup", creds)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	require.NoError(t, resp.Body.Close())

	resp = postCredentials(ctx, t, s.httpClient, "signin", auth.Credentials{Username: creds.Username, Password: "wrong"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NoError(t, resp.Body.Close())

	status, _ := doAuthorized(ctx, t, s.httpClient, signIn.Token, http.MethodGet, "/state", "")
	assert.Equal(t, http.StatusOK, status)

	status, _ = doAuthorized(ctx, t, s.httpClient, signIn.Token, http.MethodGet, "/a/signout", "")
	assert.Equal(t, http.StatusOK, status)

	status, _ = doAuthorized(ctx, t, s.httpClient, signIn.Token, http.MethodGet, "/state", "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func (s *IntegrationTestSuite) TestTrackerRequiresToken() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	status, _ := doAuthorized(ctx, t, s.httpClient, "", http.MethodGet, "/state", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = doAuthorized(ctx, t, s.httpClient, "not-a-token", http.MethodPost, "/log/water", `{"value": 250}`)
	assert.Equal(t, http.StatusUnauthorized, status)
}
