package goSession

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/MrEthical07/goSession/internal/flows"
	"github.com/MrEthical07/goSession/token"
	"golang.org/x/sync/singleflight"
)

// Session is the single-instance session engine. It owns the credential
// store, the auth API client, and the in-flight refresh marker, and is meant
// to be injected into every consumer (transport, route authorizer, UI glue)
// rather than reached through ambient globals.
//
// All methods are safe for concurrent use after [Builder.Build].
type Session struct {
	config  Config
	store   CredentialStore
	api     AuthAPI
	metrics *Metrics

	refreshGroup singleflight.Group

	onExpired func(returnTo string)
	now       func() time.Time
}

func (s *Session) metricInc(id MetricID) {
	if s.metrics.Enabled() {
		s.metrics.Inc(id)
	}
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Session) MetricsSnapshot() MetricsSnapshot {
	return s.metrics.Snapshot()
}

// Login exchanges credentials at the login endpoint and persists the returned
// token pair and profile. A server rejection maps to [ErrInvalidCredentials]
// carrying the server's message; transport failures map to [ErrNetworkFailure]
// and persist nothing.
func (s *Session) Login(ctx context.Context, email, password string) (*UserProfile, error) {
	grant, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.metricInc(MetricLoginFailure)

		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.IsRejection() {
			return nil, fmt.Errorf("%w: %s", ErrInvalidCredentials, apiErr.Message)
		}
		return nil, fmt.Errorf("%w: %v", ErrNetworkFailure, err)
	}

	if grant.AccessToken == "" || grant.RefreshToken == "" {
		s.metricInc(MetricLoginFailure)
		return nil, fmt.Errorf("login response: %w", ErrIncompleteCredential)
	}
	// A grant whose access token cannot even be decoded would poison every
	// later state query; reject it before persisting. Expiry is not checked
	// here, an expired-but-well-formed token still stores fine.
	if _, err := token.Decode(grant.AccessToken); err != nil {
		s.metricInc(MetricLoginFailure)
		return nil, fmt.Errorf("login response: %w", err)
	}

	cred := Credential{AccessToken: grant.AccessToken, RefreshToken: grant.RefreshToken}
	if err := s.store.Save(cred, grant.User); err != nil {
		s.metricInc(MetricLoginFailure)
		return nil, fmt.Errorf("persist credentials: %w", err)
	}

	s.metricInc(MetricLoginSuccess)
	return grant.User, nil
}

// Logout notifies the logout endpoint best-effort and always clears local
// state. Logging out always succeeds from the client's perspective: a failed
// server call is logged and swallowed. The session-expired hook is not fired
// for a caller-initiated logout.
func (s *Session) Logout(ctx context.Context) error {
	err := flows.RunLogout(ctx, flows.LogoutDeps{
		CurrentRefreshToken: s.currentRefreshToken,
		Notify:              s.api.Logout,
		Clear:               s.store.Clear,
		Warn:                log.Printf,
	})
	if err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}

	s.metricInc(MetricLogout)
	return nil
}

// HydrateProfile returns the cached profile, or fetches it from the
// current-user endpoint when only tokens survived a restart, persisting the
// result alongside the existing credential pair.
func (s *Session) HydrateProfile(ctx context.Context) (*UserProfile, error) {
	if profile, err := s.store.LoadProfile(); err == nil && profile != nil {
		return profile, nil
	}

	cred, err := s.store.Load()
	if err != nil || !cred.Complete() {
		return nil, ErrNoSession
	}

	profile, err := s.api.CurrentUser(ctx, cred.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileUnavailable, err)
	}

	if err := s.store.Save(cred, profile); err != nil {
		return nil, fmt.Errorf("persist profile: %w", err)
	}

	s.metricInc(MetricProfileHydrated)
	return profile, nil
}

func (s *Session) currentRefreshToken() (string, error) {
	cred, err := s.store.Load()
	if err != nil {
		return "", err
	}
	return cred.RefreshToken, nil
}

// teardown clears all persisted session state and notifies the navigation
// layer. returnTo preserves the page the user was trying to reach so it can
// be restored after re-authentication.
func (s *Session) teardown(returnTo string) {
	if err := s.store.Clear(); err != nil {
		log.Print("goSession: credential clear failed during teardown")
	}
	s.metricInc(MetricSessionTeardown)

	if s.onExpired != nil {
		s.onExpired(returnTo)
	}
}
