package goSession

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testSigningKey = []byte("test-signing-key")

// stubStore is an in-memory CredentialStore with injectable failures.
type stubStore struct {
	mu      sync.Mutex
	cred    Credential
	profile *UserProfile

	saveErr  error
	loadErr  error
	clearErr error

	saveCalls  int
	clearCalls int
}

func (s *stubStore) Save(cred Credential, profile *UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveCalls++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.cred = cred
	s.profile = profile
	return nil
}

func (s *stubStore) Load() (Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return Credential{}, s.loadErr
	}
	return s.cred, nil
}

func (s *stubStore) LoadProfile() (*UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.profile, nil
}

func (s *stubStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearCalls++
	if s.clearErr != nil {
		return s.clearErr
	}
	s.cred = Credential{}
	s.profile = nil
	return nil
}

// stubAPI is an AuthAPI whose behavior is supplied per test.
type stubAPI struct {
	login       func(ctx context.Context, email, password string) (*TokenGrant, error)
	refresh     func(ctx context.Context, refreshToken string) (*TokenGrant, error)
	logout      func(ctx context.Context, refreshToken string) error
	currentUser func(ctx context.Context, accessToken string) (*UserProfile, error)
}

func (a *stubAPI) Login(ctx context.Context, email, password string) (*TokenGrant, error) {
	if a.login == nil {
		return nil, errors.New("login not stubbed")
	}
	return a.login(ctx, email, password)
}

func (a *stubAPI) Refresh(ctx context.Context, refreshToken string) (*TokenGrant, error) {
	if a.refresh == nil {
		return nil, errors.New("refresh not stubbed")
	}
	return a.refresh(ctx, refreshToken)
}

func (a *stubAPI) Logout(ctx context.Context, refreshToken string) error {
	if a.logout == nil {
		return nil
	}
	return a.logout(ctx, refreshToken)
}

func (a *stubAPI) CurrentUser(ctx context.Context, accessToken string) (*UserProfile, error) {
	if a.currentUser == nil {
		return nil, errors.New("current-user not stubbed")
	}
	return a.currentUser(ctx, accessToken)
}

func newTestSession(t *testing.T, st CredentialStore, api AuthAPI) *Session {
	t.Helper()

	session, err := New().
		WithStore(st).
		WithAPI(api).
		WithMetricsEnabled(true).
		Build()
	if err != nil {
		t.Fatalf("build session: %v", err)
	}
	return session
}

func mintAccessToken(t *testing.T, expiry time.Time) string {
	t.Helper()
	return mintAccessTokenWithClaims(t, jwt.MapClaims{
		"user_id":      int64(42),
		"email":        "alice@example.edu",
		"name":         "Alice",
		"role":         "STUDENT",
		"is_superuser": false,
		"exp":          expiry.Unix(),
	})
}

func mintAccessTokenWithClaims(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSigningKey)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func testProfile() *UserProfile {
	return &UserProfile{
		ID:          42,
		Email:       "alice@example.edu",
		Name:        "Alice",
		Role:        "STUDENT",
		IsVerified:  true,
		Permissions: []string{"cds.view"},
	}
}
