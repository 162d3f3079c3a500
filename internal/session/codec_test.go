package session

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glimpse/internal/identity"
	dErrors "glimpse/pkg/domain-errors"
)

func authorizedUser() *identity.AuthorizedUser {
	return &identity.AuthorizedUser{
		Profile:   identity.Profile{ID: "u1", Username: "alice", AvatarKey: "k"},
		TokenPair: identity.TokenPair{AccessToken: "A", RefreshToken: "R"},
	}
}

func TestCodecRoundTrip(t *testing.T) {
	codec := NewCodec("secret", "glimpse", time.Hour)

	token, err := codec.Issue(authorizedUser())
	require.NoError(t, err)

	sess, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", sess.UserID)
	assert.Equal(t, "alice", sess.Username)
	assert.Equal(t, "k", sess.AvatarURL)
	assert.Equal(t, "A", sess.AccessToken)
}

func TestSessionViewNeverCarriesRefreshToken(t *testing.T) {
	codec := NewCodec("secret", "glimpse", time.Hour)

	token, err := codec.Issue(authorizedUser())
	require.NoError(t, err)

	// The signed claims do carry the refresh token.
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"refresh_token":"R"`)

	// The decoded view, serialized whole, does not.
	sess, err := codec.Decode(token)
	require.NoError(t, err)
	serialized, err := json.Marshal(sess)
	require.NoError(t, err)
	assert.NotContains(t, string(serialized), "R\"")
	assert.NotContains(t, string(serialized), "refresh")
}

func TestCodecDecodeFailures(t *testing.T) {
	codec := NewCodec("secret", "glimpse", time.Hour)

	t.Run("empty token", func(t *testing.T) {
		_, err := codec.Decode("")
		assert.Equal(t, dErrors.CodeSessionInvalid, dErrors.CodeOf(err))
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := codec.Decode("not.a.jwt")
		assert.Equal(t, dErrors.CodeSessionInvalid, dErrors.CodeOf(err))
	})

	t.Run("tampered signature", func(t *testing.T) {
		token, err := codec.Issue(authorizedUser())
		require.NoError(t, err)

		other := NewCodec("other-secret", "glimpse", time.Hour)
		_, err = other.Decode(token)
		assert.Equal(t, dErrors.CodeSessionInvalid, dErrors.CodeOf(err))
	})

	t.Run("expired token", func(t *testing.T) {
		expired := NewCodec("secret", "glimpse", -time.Minute)
		token, err := expired.Issue(authorizedUser())
		require.NoError(t, err)

		_, err = expired.Decode(token)
		assert.Equal(t, dErrors.CodeSessionInvalid, dErrors.CodeOf(err))
	})
}

type fakeRefresher struct {
	gotToken string
	pair     identity.TokenPair
	err      error
}

func (f *fakeRefresher) Refresh(_ context.Context, refreshToken string) (identity.TokenPair, error) {
	f.gotToken = refreshToken
	return f.pair, f.err
}

func renewTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRenew(t *testing.T) {
	codec := NewCodec("secret", "glimpse", time.Hour)

	t.Run("re-issues with the fresh pair", func(t *testing.T) {
		token, err := codec.Issue(authorizedUser())
		require.NoError(t, err)

		refresher := &fakeRefresher{pair: identity.TokenPair{AccessToken: "A2", RefreshToken: "R2"}}
		renewer := NewRenewer(codec, refresher, renewTestLogger())

		renewed, err := renewer.Renew(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, "R", refresher.gotToken, "renewal must use the embedded refresh token")

		sess, err := codec.Decode(renewed)
		require.NoError(t, err)
		assert.Equal(t, "A2", sess.AccessToken)
		assert.Equal(t, "u1", sess.UserID)
	})

	t.Run("refused refresh reads as no session", func(t *testing.T) {
		token, err := codec.Issue(authorizedUser())
		require.NoError(t, err)

		renewer := NewRenewer(codec, &fakeRefresher{err: errors.New("revoked")}, renewTestLogger())
		_, err = renewer.Renew(context.Background(), token)
		assert.Equal(t, dErrors.CodeSessionInvalid, dErrors.CodeOf(err))
	})

	t.Run("invalid session cannot renew", func(t *testing.T) {
		refresher := &fakeRefresher{}
		renewer := NewRenewer(codec, refresher, renewTestLogger())

		_, err := renewer.Renew(context.Background(), "garbage")
		assert.Equal(t, dErrors.CodeSessionInvalid, dErrors.CodeOf(err))
		assert.Empty(t, refresher.gotToken)
	})
}
