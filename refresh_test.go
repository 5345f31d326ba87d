package goSession

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRefreshRotatesAndPersists(t *testing.T) {
	st := &stubStore{
		cred: Credential{AccessToken: "old-access", RefreshToken: "old-refresh"},
	}
	api := &stubAPI{
		refresh: func(_ context.Context, refreshToken string) (*TokenGrant, error) {
			if refreshToken != "old-refresh" {
				t.Fatalf("unexpected refresh token: %s", refreshToken)
			}
			return &TokenGrant{AccessToken: "new-access", RefreshToken: "new-refresh", User: testProfile()}, nil
		},
	}

	session := newTestSession(t, st, api)

	cred, err := session.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if cred.AccessToken != "new-access" || cred.RefreshToken != "new-refresh" {
		t.Fatalf("unexpected credential: %+v", cred)
	}

	stored, _ := st.Load()
	if stored != cred {
		t.Fatalf("persisted credential %+v does not match returned %+v", stored, cred)
	}
	if profile, _ := st.LoadProfile(); profile == nil || profile.ID != 42 {
		t.Fatalf("expected grant profile persisted, got %+v", profile)
	}
	if got := session.MetricsSnapshot().Counters[MetricRefreshSuccess]; got != 1 {
		t.Fatalf("expected 1 refresh success, got %d", got)
	}
	if got := session.MetricsSnapshot().Counters[MetricRefreshCoalesced]; got != 0 {
		t.Fatalf("solo caller must not count as coalesced, got %d", got)
	}
}

func TestRefreshKeepsOldTokenWhenServerDoesNotRotate(t *testing.T) {
	st := &stubStore{
		cred: Credential{AccessToken: "old-access", RefreshToken: "old-refresh"},
	}
	api := &stubAPI{
		refresh: func(context.Context, string) (*TokenGrant, error) {
			return &TokenGrant{AccessToken: "new-access"}, nil
		},
	}

	session := newTestSession(t, st, api)

	cred, err := session.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if cred.RefreshToken != "old-refresh" {
		t.Fatalf("expected old refresh token retained, got %q", cred.RefreshToken)
	}
}

func TestRefreshWithoutTokenFailsFast(t *testing.T) {
	var hookReturnTo *string
	api := &stubAPI{
		refresh: func(context.Context, string) (*TokenGrant, error) {
			t.Fatal("no network call expected without a refresh token")
			return nil, nil
		},
	}
	st := &stubStore{}

	session, err := New().
		WithStore(st).
		WithAPI(api).
		WithMetricsEnabled(true).
		WithSessionExpiredHook(func(returnTo string) { hookReturnTo = &returnTo }).
		Build()
	if err != nil {
		t.Fatalf("build session: %v", err)
	}

	_, err = session.Refresh(context.Background())
	if !errors.Is(err, ErrNoRefreshToken) {
		t.Fatalf("expected ErrNoRefreshToken, got %v", err)
	}
	if hookReturnTo == nil {
		t.Fatal("expected session-expired hook to fire")
	}
	if got := session.MetricsSnapshot().Counters[MetricRefreshNoToken]; got != 1 {
		t.Fatalf("expected 1 no-token refresh, got %d", got)
	}
}

func TestRefreshExchangeFailureTearsDown(t *testing.T) {
	var hookReturnTo string
	hookFired := false
	st := &stubStore{
		cred:    Credential{AccessToken: "a", RefreshToken: "r"},
		profile: testProfile(),
	}
	api := &stubAPI{
		refresh: func(context.Context, string) (*TokenGrant, error) {
			return nil, &APIError{StatusCode: 401, Message: "Token revoked"}
		},
	}

	session, err := New().
		WithStore(st).
		WithAPI(api).
		WithMetricsEnabled(true).
		WithSessionExpiredHook(func(returnTo string) {
			hookFired = true
			hookReturnTo = returnTo
		}).
		Build()
	if err != nil {
		t.Fatalf("build session: %v", err)
	}

	_, err = session.Refresh(WithReturnTo(context.Background(), "/cds/admin"))
	if !errors.Is(err, ErrRefreshFailed) {
		t.Fatalf("expected ErrRefreshFailed, got %v", err)
	}
	if cred, _ := st.Load(); !cred.Empty() {
		t.Fatalf("expected cleared store, got %+v", cred)
	}
	if !hookFired {
		t.Fatal("expected session-expired hook to fire")
	}
	if hookReturnTo != "/cds/admin" {
		t.Fatalf("expected returnTo /cds/admin, got %q", hookReturnTo)
	}
}

func TestRefreshTimeoutFailsAndTearsDown(t *testing.T) {
	hookFired := false
	st := &stubStore{
		cred: Credential{AccessToken: "a", RefreshToken: "r"},
	}
	api := &stubAPI{
		refresh: func(ctx context.Context, _ string) (*TokenGrant, error) {
			// Outlive the exchange deadline; the bounded context must expire.
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}

	cfg := DefaultConfig()
	cfg.Refresh.Timeout = 20 * time.Millisecond

	session, err := New().
		WithConfig(cfg).
		WithStore(st).
		WithAPI(api).
		WithMetricsEnabled(true).
		WithSessionExpiredHook(func(string) { hookFired = true }).
		Build()
	if err != nil {
		t.Fatalf("build session: %v", err)
	}

	if _, err := session.Refresh(context.Background()); !errors.Is(err, ErrRefreshFailed) {
		t.Fatalf("expected ErrRefreshFailed after timeout, got %v", err)
	}
	if cred, _ := st.Load(); !cred.Empty() {
		t.Fatalf("expected cleared store after timeout, got %+v", cred)
	}
	if !hookFired {
		t.Fatal("expected session-expired hook to fire")
	}
	if got := session.MetricsSnapshot().Counters[MetricRefreshFailure]; got != 1 {
		t.Fatalf("expected 1 refresh failure, got %d", got)
	}
}

func TestRefreshPersistFailureTearsDown(t *testing.T) {
	st := &stubStore{
		cred:    Credential{AccessToken: "a", RefreshToken: "r"},
		saveErr: errors.New("disk full"),
	}
	api := &stubAPI{
		refresh: func(context.Context, string) (*TokenGrant, error) {
			return &TokenGrant{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil
		},
	}

	session := newTestSession(t, st, api)

	if _, err := session.Refresh(context.Background()); !errors.Is(err, ErrRefreshFailed) {
		t.Fatalf("expected ErrRefreshFailed, got %v", err)
	}
	if st.clearCalls == 0 {
		t.Fatal("expected store cleared after persist failure")
	}
}

func TestRefreshRecoversAfterFailedAttempt(t *testing.T) {
	// The in-flight marker must be removed after a failure so a later login
	// plus refresh starts a fresh attempt.
	st := &stubStore{
		cred: Credential{AccessToken: "a", RefreshToken: "r"},
	}
	calls := 0
	api := &stubAPI{
		refresh: func(context.Context, string) (*TokenGrant, error) {
			calls++
			if calls == 1 {
				return nil, errors.New("transient")
			}
			return &TokenGrant{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil
		},
	}

	session := newTestSession(t, st, api)

	if _, err := session.Refresh(context.Background()); err == nil {
		t.Fatal("expected first refresh to fail")
	}

	st.mu.Lock()
	st.cred = Credential{AccessToken: "a2", RefreshToken: "r2"}
	st.mu.Unlock()

	if _, err := session.Refresh(context.Background()); err != nil {
		t.Fatalf("expected second refresh to succeed, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 exchange calls, got %d", calls)
	}
}

func TestRefreshIfNeededSkipsFreshToken(t *testing.T) {
	st := &stubStore{
		cred: Credential{
			AccessToken:  mintAccessToken(t, time.Now().Add(time.Hour)),
			RefreshToken: "r",
		},
	}
	api := &stubAPI{
		refresh: func(context.Context, string) (*TokenGrant, error) {
			t.Fatal("fresh token must not trigger a refresh")
			return nil, nil
		},
	}

	session := newTestSession(t, st, api)

	if err := session.RefreshIfNeeded(context.Background()); err != nil {
		t.Fatalf("RefreshIfNeeded failed: %v", err)
	}
}

func TestRefreshIfNeededRefreshesExpiringToken(t *testing.T) {
	st := &stubStore{
		cred: Credential{
			AccessToken:  mintAccessToken(t, time.Now().Add(2*time.Minute)),
			RefreshToken: "r",
		},
	}
	refreshed := false
	api := &stubAPI{
		refresh: func(context.Context, string) (*TokenGrant, error) {
			refreshed = true
			return &TokenGrant{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil
		},
	}

	session := newTestSession(t, st, api)

	if err := session.RefreshIfNeeded(context.Background()); err != nil {
		t.Fatalf("RefreshIfNeeded failed: %v", err)
	}
	if !refreshed {
		t.Fatal("expected a refresh for a token inside the expiry window")
	}
}

func TestRefreshIfNeededNoRefreshTokenIsNoOp(t *testing.T) {
	st := &stubStore{
		cred: Credential{AccessToken: mintAccessToken(t, time.Now().Add(time.Second))},
	}
	api := &stubAPI{
		refresh: func(context.Context, string) (*TokenGrant, error) {
			t.Fatal("missing refresh token must not trigger an exchange")
			return nil, nil
		},
	}

	session := newTestSession(t, st, api)

	if err := session.RefreshIfNeeded(context.Background()); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
}
