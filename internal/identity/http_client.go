package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	dErrors "glimpse/pkg/domain-errors"
)

// Client is the HTTP-backed implementation of Authenticator, ProfileFetcher
// and Registrar against the backend identity API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds an identity client for the given backend base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type profileResponse struct {
	ID        json.Number `json:"id"`
	Username  string      `json:"username"`
	AvatarKey string      `json:"avatar_key"`
}

// Login exchanges a username/password pair for tokens via
// POST /api/v1/auth/login.
func (c *Client) Login(ctx context.Context, username, password string) (TokenPair, error) {
	body, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return TokenPair{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/auth/login", bytes.NewReader(body))
	if err != nil {
		return TokenPair{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	var tokens tokenResponse
	if err := c.do(req, http.StatusOK, &tokens); err != nil {
		return TokenPair{}, err
	}
	return mapTokenPair(tokens)
}

// Profile fetches the caller's profile via GET /api/v1/me. The backend
// authenticates the call through the access token cookie.
func (c *Client) Profile(ctx context.Context, accessToken string) (Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/me", nil)
	if err != nil {
		return Profile{}, err
	}
	req.Header.Set("Cookie", "access_token="+accessToken)

	var profile profileResponse
	if err := c.do(req, http.StatusOK, &profile); err != nil {
		return Profile{}, err
	}
	return mapProfile(profile)
}

// Refresh trades a refresh token for a fresh pair via
// POST /api/v1/auth/refresh. The backend reads the token from its cookie.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/auth/refresh", nil)
	if err != nil {
		return TokenPair{}, err
	}
	req.Header.Set("Cookie", "refresh_token="+refreshToken)

	var tokens tokenResponse
	if err := c.do(req, http.StatusOK, &tokens); err != nil {
		return TokenPair{}, err
	}
	return mapTokenPair(tokens)
}

// Register creates an account via POST /api/v1/auth/register. Upstream
// rejections surface the backend's detail message as a validation failure.
func (c *Client) Register(ctx context.Context, reg Registration) error {
	body, err := json.Marshal(map[string]string{
		"username": reg.Username,
		"email":    reg.Email,
		"password": reg.Password,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/auth/register", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUpstream, "identity service unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusCreated || resp.StatusCode == http.StatusOK {
		return nil
	}

	var failure struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&failure); err != nil || failure.Detail == "" {
		return dErrors.New(dErrors.CodeUpstream, fmt.Sprintf("registration failed with status %d", resp.StatusCode))
	}
	return dErrors.New(dErrors.CodeValidation, failure.Detail)
}

func (c *Client) do(req *http.Request, wantStatus int, dst any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUpstream, "identity service unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return dErrors.New(dErrors.CodeAuthFailure, fmt.Sprintf("identity service returned status %d", resp.StatusCode))
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "malformed identity response")
	}
	return nil
}

// mapTokenPair converts the snake_case wire payload, asserting that both
// required token fields are present rather than passing zero values through.
func mapTokenPair(resp tokenResponse) (TokenPair, error) {
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		return TokenPair{}, dErrors.New(dErrors.CodeValidation, "token response missing required fields")
	}
	return TokenPair{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}, nil
}

// mapProfile converts the wire profile, requiring id and username.
func mapProfile(resp profileResponse) (Profile, error) {
	if resp.ID.String() == "" || resp.Username == "" {
		return Profile{}, dErrors.New(dErrors.CodeValidation, "profile response missing required fields")
	}
	return Profile{
		ID:        resp.ID.String(),
		Username:  resp.Username,
		AvatarKey: resp.AvatarKey,
	}, nil
}
