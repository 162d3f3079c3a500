package identity

import (
	"context"
	"log/slog"
	"net/mail"
	"unicode/utf8"

	dErrors "glimpse/pkg/domain-errors"
)

// Authenticator exchanges credentials for a token pair.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (TokenPair, error)
}

// ProfileFetcher loads the profile belonging to an access token.
type ProfileFetcher interface {
	Profile(ctx context.Context, accessToken string) (Profile, error)
}

// Registrar creates a new account upstream.
type Registrar interface {
	Register(ctx context.Context, reg Registration) error
}

// Service is the credential exchange. Both capabilities are constructor
// injected so tests exercise the authorization decision without transport.
type Service struct {
	auth      Authenticator
	profiles  ProfileFetcher
	registrar Registrar
	logger    *slog.Logger
}

// NewService constructs the credential exchange service.
func NewService(auth Authenticator, profiles ProfileFetcher, registrar Registrar, logger *slog.Logger) *Service {
	return &Service{
		auth:      auth,
		profiles:  profiles,
		registrar: registrar,
		logger:    logger,
	}
}

// Authorize validates credentials, exchanges them for tokens and combines the
// result with the user's profile. Any dependency failure yields a uniform
// auth failure; callers cannot distinguish bad credentials from an identity
// provider outage.
func (s *Service) Authorize(ctx context.Context, creds Credentials) (*AuthorizedUser, error) {
	if creds.Username == "" || creds.Password == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "username and password are required")
	}

	tokens, err := s.auth.Login(ctx, creds.Username, creds.Password)
	if err != nil {
		s.logger.WarnContext(ctx, "login rejected", "username", creds.Username, "error", err)
		return nil, dErrors.Wrap(err, dErrors.CodeAuthFailure, "authentication failed")
	}

	profile, err := s.profiles.Profile(ctx, tokens.AccessToken)
	if err != nil {
		s.logger.WarnContext(ctx, "profile fetch failed after login", "username", creds.Username, "error", err)
		return nil, dErrors.Wrap(err, dErrors.CodeAuthFailure, "authentication failed")
	}

	return &AuthorizedUser{Profile: profile, TokenPair: tokens}, nil
}

// Register validates the registration fields locally and creates the account
// upstream. Upstream rejections carry the backend's detail message through.
func (s *Service) Register(ctx context.Context, reg Registration) error {
	if err := validateRegistration(reg); err != nil {
		return err
	}
	return s.registrar.Register(ctx, reg)
}

func validateRegistration(reg Registration) error {
	if n := utf8.RuneCountInString(reg.Username); n < 3 || n > 30 {
		return dErrors.New(dErrors.CodeValidation, "username must be between 3 and 30 characters")
	}
	if _, err := mail.ParseAddress(reg.Email); err != nil {
		return dErrors.New(dErrors.CodeValidation, "invalid email address")
	}
	if n := utf8.RuneCountInString(reg.Password); n < 8 || n > 128 {
		return dErrors.New(dErrors.CodeValidation, "password must be between 8 and 128 characters")
	}
	return nil
}
