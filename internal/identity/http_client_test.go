package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "glimpse/pkg/domain-errors"
)

func TestClientLogin(t *testing.T) {
	t.Run("maps snake_case payload", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/v1/auth/login", r.URL.Path)

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "alice", body["username"])

			_ = json.NewEncoder(w).Encode(map[string]string{
				"access_token":  "A",
				"refresh_token": "R",
			})
		}))
		defer srv.Close()

		pair, err := NewClient(srv.URL).Login(context.Background(), "alice", "password123")
		require.NoError(t, err)
		assert.Equal(t, TokenPair{AccessToken: "A", RefreshToken: "R"}, pair)
	})

	t.Run("missing token fields fail typed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "A"})
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL).Login(context.Background(), "alice", "password123")
		assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
	})

	t.Run("non-2xx fails as auth failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, `{"detail":"Invalid credentials"}`, http.StatusUnauthorized)
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL).Login(context.Background(), "alice", "wrong")
		assert.Equal(t, dErrors.CodeAuthFailure, dErrors.CodeOf(err))
	})
}

func TestClientProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/me", r.URL.Path)
		assert.Equal(t, "access_token=A", r.Header.Get("Cookie"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":         7,
			"username":   "alice",
			"avatar_key": "avatars/x.png",
		})
	}))
	defer srv.Close()

	profile, err := NewClient(srv.URL).Profile(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, Profile{ID: "7", Username: "alice", AvatarKey: "avatars/x.png"}, profile)
}

func TestClientRefresh(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/auth/refresh", r.URL.Path)
		assert.Equal(t, "refresh_token=R", r.Header.Get("Cookie"))
		_ = json.NewEncoder(w).Encode(map[string]string{
			"access_token":  "A2",
			"refresh_token": "R2",
		})
	}))
	defer srv.Close()

	pair, err := NewClient(srv.URL).Refresh(context.Background(), "R")
	require.NoError(t, err)
	assert.Equal(t, TokenPair{AccessToken: "A2", RefreshToken: "R2"}, pair)
}

func TestClientRegister(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/auth/register", r.URL.Path)
			w.WriteHeader(http.StatusCreated)
		}))
		defer srv.Close()

		err := NewClient(srv.URL).Register(context.Background(), Registration{
			Username: "alice", Email: "alice@example.com", Password: "password123",
		})
		assert.NoError(t, err)
	})

	t.Run("conflict surfaces backend detail", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"detail": "User with that username or email already exists",
			})
		}))
		defer srv.Close()

		err := NewClient(srv.URL).Register(context.Background(), Registration{
			Username: "alice", Email: "alice@example.com", Password: "password123",
		})
		assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
		assert.Equal(t, "User with that username or email already exists", dErrors.MessageOf(err))
	})
}
