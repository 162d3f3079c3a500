// Package session issues and verifies the signed stateless session token the
// browser holds, and owns the auth cookie transport. The refresh token is
// embedded in the signed claims but structurally absent from the read view,
// so page-rendering code can never observe it.
package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"glimpse/internal/identity"
	dErrors "glimpse/pkg/domain-errors"
)

// Session is the read-only projection handed to guards and handlers. It
// deliberately has no refresh-token field.
type Session struct {
	UserID      string
	Username    string
	AvatarURL   string
	AccessToken string
}

// claims is the full signed record. Only the codec sees it.
type claims struct {
	UserID       string `json:"user_id"`
	Username     string `json:"username"`
	AvatarURL    string `json:"avatar_url"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	jwt.RegisteredClaims
}

// Codec signs and verifies session tokens. Stateless signed tokens were
// chosen over a server-side session store so the tier scales horizontally
// without shared session state.
type Codec struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
}

// NewCodec builds a session codec with the given HMAC signing key.
func NewCodec(signingKey string, issuer string, ttl time.Duration) *Codec {
	return &Codec{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		ttl:        ttl,
	}
}

// Issue signs a session token for a freshly authorized user.
func (c *Codec) Issue(user *identity.AuthorizedUser) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID:       user.ID,
		Username:     user.Username,
		AvatarURL:    user.AvatarKey,
		AccessToken:  user.AccessToken,
		RefreshToken: user.RefreshToken,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    c.issuer,
			ID:        uuid.NewString(),
		},
	})

	signed, err := token.SignedString(c.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign session token")
	}
	return signed, nil
}

// Decode verifies a session token and returns the read view. Malformed,
// tampered or expired tokens uniformly decode to "no session".
func (c *Codec) Decode(token string) (*Session, error) {
	full, err := c.decode(token)
	if err != nil {
		return nil, err
	}
	return &Session{
		UserID:      full.UserID,
		Username:    full.Username,
		AvatarURL:   full.AvatarURL,
		AccessToken: full.AccessToken,
	}, nil
}

func (c *Codec) decode(token string) (*claims, error) {
	if token == "" {
		return nil, dErrors.New(dErrors.CodeSessionInvalid, "no session")
	}

	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return c.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeSessionInvalid, "session expired")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeSessionInvalid, "invalid session token")
	}
	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeSessionInvalid, "invalid session token")
	}

	full, ok := parsed.Claims.(*claims)
	if !ok {
		return nil, dErrors.New(dErrors.CodeSessionInvalid, "invalid session claims")
	}
	return full, nil
}
