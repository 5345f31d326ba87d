package goSession

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/MrEthical07/goSession/internal/flows"
)

// Refresh exchanges the stored refresh token for a new token pair. The
// exchange is single-flight: callers arriving while an exchange is in flight
// attach to it and receive the shared outcome instead of issuing a second
// network call. On any failure the store is cleared and the session-expired
// hook fires; the in-flight marker is always removed once the outcome has
// been delivered, so a later call starts a fresh attempt.
func (s *Session) Refresh(ctx context.Context) (Credential, error) {
	// singleflight reports shared=true to every caller in a batch, including
	// the one that ran the exchange; only callers that did not execute count
	// as coalesced.
	executed := false
	v, err, _ := s.refreshGroup.Do("refresh", func() (interface{}, error) {
		executed = true
		return s.runRefresh(ctx)
	})
	if !executed {
		s.metricInc(MetricRefreshCoalesced)
	}
	if err != nil {
		return Credential{}, err
	}
	return v.(Credential), nil
}

// RefreshIfNeeded refreshes proactively when the access token is inside the
// configured expiry window and a refresh token exists. It is a no-op
// otherwise, making it cheap to call on every navigation.
func (s *Session) RefreshIfNeeded(ctx context.Context) error {
	if !s.IsExpiringSoon(s.config.Token.ExpirySoonWindow) {
		return nil
	}

	refreshToken, err := s.currentRefreshToken()
	if err != nil || refreshToken == "" {
		return nil
	}

	_, err = s.Refresh(ctx)
	return err
}

func (s *Session) runRefresh(ctx context.Context) (Credential, error) {
	// The outcome is shared by waiters whose own contexts may be torn down
	// first; detach from the initiating caller and bound the exchange by the
	// configured timeout so it can never stay pending indefinitely.
	exchangeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.Refresh.Timeout)
	defer cancel()

	var grantProfile *UserProfile

	result := flows.RunRefresh(exchangeCtx, flows.RefreshDeps{
		CurrentRefreshToken: s.currentRefreshToken,
		Exchange: func(ctx context.Context, refreshToken string) (string, string, error) {
			grant, err := s.api.Refresh(ctx, refreshToken)
			if err != nil {
				return "", "", err
			}
			if grant.AccessToken == "" {
				return "", "", errors.New("refresh response missing access token")
			}
			grantProfile = grant.User
			return grant.AccessToken, grant.RefreshToken, nil
		},
		Persist: func(access, refresh string) error {
			profile := grantProfile
			if profile == nil {
				if cached, err := s.store.LoadProfile(); err == nil {
					profile = cached
				}
			}
			return s.store.Save(Credential{AccessToken: access, RefreshToken: refresh}, profile)
		},
		Clear: s.store.Clear,
		Warn:  log.Printf,
	})

	switch result.Failure {
	case flows.RefreshFailureNone:
		s.metricInc(MetricRefreshSuccess)
		return Credential{AccessToken: result.AccessToken, RefreshToken: result.RefreshToken}, nil

	case flows.RefreshFailureNoToken:
		s.metricInc(MetricRefreshNoToken)
		s.teardown(returnToFromContext(ctx))
		return Credential{}, ErrNoRefreshToken

	default:
		s.metricInc(MetricRefreshFailure)
		s.teardown(returnToFromContext(ctx))
		if result.Err != nil {
			return Credential{}, fmt.Errorf("%w: %v", ErrRefreshFailed, result.Err)
		}
		return Credential{}, ErrRefreshFailed
	}
}
