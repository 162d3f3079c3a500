package session

import (
	"context"
	"log/slog"

	"glimpse/internal/identity"
	dErrors "glimpse/pkg/domain-errors"
)

// TokenRefresher trades a refresh token for a fresh pair upstream.
type TokenRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (identity.TokenPair, error)
}

// Renewer re-issues session tokens using the refresh token carried inside
// the signed claims. It is the only consumer of that claim.
type Renewer struct {
	codec     *Codec
	refresher TokenRefresher
	logger    *slog.Logger
}

// NewRenewer constructs a session renewer.
func NewRenewer(codec *Codec, refresher TokenRefresher, logger *slog.Logger) *Renewer {
	return &Renewer{codec: codec, refresher: refresher, logger: logger}
}

// Renew decodes a still-valid session token, exchanges its refresh token for
// a new pair, and signs a replacement session. An invalid session or a
// refused refresh both surface as "no session".
func (r *Renewer) Renew(ctx context.Context, token string) (string, error) {
	full, err := r.codec.decode(token)
	if err != nil {
		return "", err
	}

	pair, err := r.refresher.Refresh(ctx, full.RefreshToken)
	if err != nil {
		r.logger.WarnContext(ctx, "session renewal refused", "user_id", full.UserID, "error", err)
		return "", dErrors.Wrap(err, dErrors.CodeSessionInvalid, "session renewal refused")
	}

	return r.codec.Issue(&identity.AuthorizedUser{
		Profile: identity.Profile{
			ID:        full.UserID,
			Username:  full.Username,
			AvatarKey: full.AvatarURL,
		},
		TokenPair: pair,
	})
}
