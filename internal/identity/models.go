// Package identity exchanges user credentials for tokens issued by the
// backend identity API and fetches the minimal profile that seeds a session.
package identity

// Credentials is the transient username/password pair. It is validated
// non-empty before use and never persisted.
type Credentials struct {
	Username string
	Password string
}

// TokenPair holds the opaque bearer tokens issued by the identity service.
// The refresh token must never reach any value readable by page code.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Profile is the minimal user projection fetched once per login.
type Profile struct {
	ID        string
	Username  string
	AvatarKey string
}

// AuthorizedUser combines profile and tokens. It is constructed only by
// Service.Authorize and lives for the duration of the login call.
type AuthorizedUser struct {
	Profile
	TokenPair
}

// Registration is the input for creating a new account.
type Registration struct {
	Username string
	Email    string
	Password string
}
