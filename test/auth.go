//go:build integration

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/2beens/maxpot/internal/auth"

	"github.com/stretchr/testify/require"
)

func postCredentials(ctx context.Context, t *testing.T, client *http.Client, path string, creds auth.Credentials) *http.Response {
	t.Helper()
	credsJson, err := json.Marshal(creds)
	require.NoError(t, err)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/a/%s", serverEndpoint, path), bytes.NewBuffer(credsJson))
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	require.NoError(t, err)
	return resp
}

// signUpAndIn creates the account and returns a fresh session token for it.
func signUpAndIn(ctx context.Context, t *testing.T, client *http.Client, creds auth.Credentials) auth.SignInResponse {
	t.Helper()

	resp := postCredentials(ctx, t, client, "signup", creds)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NoError(t, resp.Body.Close())

	resp = postCredentials(ctx, t, client, "signin", creds)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var signInResp auth.SignInResponse
	require.NoError(t, json.Unmarshal(respBytes, &signInResp))
	require.NotEmpty(t, signInResp.Token)
	require.NotEmpty(t, signInResp.UserID)

	return signInResp
}

func doAuthorized(ctx context.Context, t *testing.T, client *http.Client, token, method, path, body string) (int, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(auth.TokenHeader, token)
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, respBytes
}
