package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	goSession "github.com/MrEthical07/goSession"
)

const maxErrorBodySize = 64 << 10

// Config defines a public type used by goSession APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	// BaseURL is the auth endpoint prefix, e.g.
	// "https://app.example.edu/api/accounts/auth".
	BaseURL string

	LoginPath       string
	RefreshPath     string
	LogoutPath      string
	CurrentUserPath string

	Timeout time.Duration
}

// DefaultConfig describes the defaultconfig operation and its observable behavior.
//
// DefaultConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:         baseURL,
		LoginPath:       "/login/",
		RefreshPath:     "/refresh/",
		LogoutPath:      "/logout/",
		CurrentUserPath: "/current-user/",
		Timeout:         10 * time.Second,
	}
}

// Client implements goSession.AuthAPI over HTTP.
type Client struct {
	config Config
	http   *http.Client
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New(cfg Config, httpClient *http.Client) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("auth api base url is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{config: cfg, http: httpClient}, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type logoutRequest struct {
	Refresh string `json:"refresh"`
}

type grantResponse struct {
	Access  string                 `json:"access"`
	Refresh string                 `json:"refresh"`
	User    *goSession.UserProfile `json:"user"`
}

type currentUserResponse struct {
	User *goSession.UserProfile `json:"user"`
}

type errorResponse struct {
	Detail string `json:"detail"`
	Error  string `json:"error"`
}

// Login describes the login operation and its observable behavior.
//
// Login may return an error when input validation, dependency calls, or security checks fail.
// Login does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) Login(ctx context.Context, email, password string) (*goSession.TokenGrant, error) {
	var grant grantResponse
	err := c.postJSON(ctx, c.config.LoginPath, loginRequest{Email: email, Password: password}, &grant)
	if err != nil {
		return nil, err
	}

	return &goSession.TokenGrant{
		AccessToken:  grant.Access,
		RefreshToken: grant.Refresh,
		User:         grant.User,
	}, nil
}

// Refresh describes the refresh operation and its observable behavior.
//
// Refresh may return an error when input validation, dependency calls, or security checks fail.
// Refresh does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*goSession.TokenGrant, error) {
	var grant grantResponse
	err := c.postJSON(ctx, c.config.RefreshPath, refreshRequest{Refresh: refreshToken}, &grant)
	if err != nil {
		return nil, err
	}

	return &goSession.TokenGrant{
		AccessToken:  grant.Access,
		RefreshToken: grant.Refresh,
		User:         grant.User,
	}, nil
}

// Logout describes the logout operation and its observable behavior.
//
// Logout may return an error when input validation, dependency calls, or security checks fail.
// Logout does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	return c.postJSON(ctx, c.config.LogoutPath, logoutRequest{Refresh: refreshToken}, nil)
}

// CurrentUser describes the currentuser operation and its observable behavior.
//
// CurrentUser may return an error when input validation, dependency calls, or security checks fail.
// CurrentUser does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) CurrentUser(ctx context.Context, accessToken string) (*goSession.UserProfile, error) {
	req, err := http.NewRequestWithContext(goSession.WithoutAuth(ctx), http.MethodGet, c.config.BaseURL+c.config.CurrentUserPath, nil)
	if err != nil {
		return nil, fmt.Errorf("build current-user request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("current-user request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apiError(resp)
	}

	var decoded currentUserResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode current-user response: %w", err)
	}
	if decoded.User == nil {
		return nil, fmt.Errorf("current-user response missing user")
	}
	return decoded.User, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any, out any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(goSession.WithoutAuth(ctx), http.MethodPost, c.config.BaseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// apiError maps a non-2xx response to *goSession.APIError, preferring the
// server's human-readable message when the body carries one.
func apiError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))

	var decoded errorResponse
	message := ""
	if json.Unmarshal(body, &decoded) == nil {
		switch {
		case decoded.Detail != "":
			message = decoded.Detail
		case decoded.Error != "":
			message = decoded.Error
		}
	}

	return &goSession.APIError{StatusCode: resp.StatusCode, Message: message}
}
