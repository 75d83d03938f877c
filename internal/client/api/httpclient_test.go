package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestLogin_OK(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "a@b.c", body["email"])
		require.Equal(t, "secret", body["password"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"user":          map[string]string{"id": "u-1", "email": "a@b.c"},
			"user_type":     "employee",
			"access_token":  "acc-1",
			"refresh_token": "ref-1",
		})
	})

	c := NewHTTPClient(srv.URL, time.Second, nil)
	res, err := c.Login(context.Background(), "a@b.c", []byte("secret"))
	require.NoError(t, err)
	require.Equal(t, "acc-1", res.AccessToken)
	require.Equal(t, "ref-1", res.RefreshToken)
	require.Equal(t, "employee", string(res.UserType))
}

func TestLogin_IncompleteTokenPairFails(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user":         map[string]string{"id": "u-1"},
			"user_type":    "employee",
			"access_token": "acc-1",
		})
	})

	c := NewHTTPClient(srv.URL, time.Second, nil)
	_, err := c.Login(context.Background(), "a@b.c", []byte("secret"))
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestVerifyToken_OK(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/auth/verify", r.URL.Path)
		require.Equal(t, "Bearer acc-1", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user":      map[string]string{"id": "u-1", "email": "a@b.c"},
			"user_type": "employer",
		})
	})

	c := NewHTTPClient(srv.URL, time.Second, nil)
	res, err := c.VerifyToken(context.Background(), "acc-1")
	require.NoError(t, err)
	require.Equal(t, "employer", string(res.UserType))
	require.Contains(t, string(res.User), "u-1")
}

func TestVerifyToken_Unauthorized(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	c := NewHTTPClient(srv.URL, time.Second, nil)
	_, err := c.VerifyToken(context.Background(), "bad")
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestVerifyToken_ServerErrorIsUnavailable(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	c := NewHTTPClient(srv.URL, time.Second, nil)
	_, err := c.VerifyToken(context.Background(), "acc")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestVerifyToken_ConnectionErrorIsUnavailable(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close() // уже закрыт, любой запрос упадёт

	c := NewHTTPClient(srv.URL, time.Second, nil)
	_, err := c.VerifyToken(context.Background(), "acc")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestRefreshToken_OK(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/refresh", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "ref-1", body["refresh_token"])

		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "acc-new"})
	})

	c := NewHTTPClient(srv.URL, time.Second, nil)
	token, err := c.RefreshToken(context.Background(), "ref-1")
	require.NoError(t, err)
	require.Equal(t, "acc-new", token)
}

func TestRefreshToken_EmptyTokenFails(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{})
	})

	c := NewHTTPClient(srv.URL, time.Second, nil)
	_, err := c.RefreshToken(context.Background(), "ref-1")
	require.Error(t, err)
}

func TestRefreshToken_Rejected(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	c := NewHTTPClient(srv.URL, time.Second, nil)
	_, err := c.RefreshToken(context.Background(), "ref-1")
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestNotifyLogout_SendsBothTokens(t *testing.T) {
	var gotAuth string
	var gotBody map[string]string

	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/logout", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
	})

	c := NewHTTPClient(srv.URL, time.Second, nil)
	err := c.NotifyLogout(context.Background(), "acc-1", "ref-1")
	require.NoError(t, err)
	require.Equal(t, "Bearer acc-1", gotAuth)
	require.Equal(t, "ref-1", gotBody["refresh_token"])
}
