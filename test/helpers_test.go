//go:build integration
// +build integration

package test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/httpapi"
	"github.com/MrEthical07/goSession/store"
	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

var integrationSigningKey = []byte("integration-signing-key")

// fakeBackend is an in-process auth server with revocable access tokens and
// rotating refresh tokens.
type fakeBackend struct {
	mu             sync.Mutex
	validAccess    map[string]bool
	currentRefresh string
	refreshCalls   int
	refreshFails   bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{validAccess: map[string]bool{}}
}

func (b *fakeBackend) revokeAllAccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for k := range b.validAccess {
		b.validAccess[k] = false
	}
}

func (b *fakeBackend) failRefreshes() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refreshFails = true
}

func (b *fakeBackend) refreshCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.refreshCalls
}

func (b *fakeBackend) issueGrant(t *testing.T) map[string]any {
	t.Helper()

	claims := jwt.MapClaims{
		"user_id":      int64(1),
		"email":        "alice@example.edu",
		"name":         "Alice",
		"role":         "STUDENT",
		"is_superuser": false,
		"exp":          time.Now().Add(time.Hour).Unix(),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(integrationSigningKey)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.validAccess[access] = true
	b.currentRefresh = "refresh-" + access[len(access)-8:]

	return map[string]any{
		"access":  access,
		"refresh": b.currentRefresh,
		"user": map[string]any{
			"id":    1,
			"email": "alice@example.edu",
			"name":  "Alice",
			"role":  "STUDENT",
		},
	}
}

func (b *fakeBackend) authorized(r *http.Request) bool {
	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.validAccess[raw]
}

func (b *fakeBackend) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/accounts/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Password != "correct-horse" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, b.issueGrant(t))
	})

	mux.HandleFunc("POST /api/accounts/auth/refresh/", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Refresh string `json:"refresh"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		b.mu.Lock()
		b.refreshCalls++
		fails := b.refreshFails
		current := b.currentRefresh
		b.mu.Unlock()

		if fails || body.Refresh == "" || body.Refresh != current {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Token revoked"})
			return
		}
		writeJSON(w, http.StatusOK, b.issueGrant(t))
	})

	mux.HandleFunc("POST /api/accounts/auth/logout/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	})

	mux.HandleFunc("GET /api/accounts/auth/current-user/", func(w http.ResponseWriter, r *http.Request) {
		if !b.authorized(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Token expired"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"user": map[string]any{"id": 1, "email": "alice@example.edu", "role": "STUDENT"}})
	})

	mux.HandleFunc("GET /protected", func(w http.ResponseWriter, r *http.Request) {
		if !b.authorized(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Token expired"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": "ok"})
	})

	return mux
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type fixture struct {
	backend *fakeBackend
	server  *httptest.Server
	session *goSession.Session

	expiredMu sync.Mutex
	expired   []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{backend: newFakeBackend()}
	f.server = httptest.NewServer(f.backend.handler(t))
	t.Cleanup(f.server.Close)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	api, err := httpapi.New(httpapi.DefaultConfig(f.server.URL+"/api/accounts/auth"), nil)
	if err != nil {
		t.Fatalf("httpapi.New failed: %v", err)
	}

	f.session, err = goSession.New().
		WithStore(store.NewRedis(rdb, "it")).
		WithAPI(api).
		WithMetricsEnabled(true).
		WithSessionExpiredHook(func(returnTo string) {
			f.expiredMu.Lock()
			defer f.expiredMu.Unlock()
			f.expired = append(f.expired, returnTo)
		}).
		Build()
	if err != nil {
		t.Fatalf("build session: %v", err)
	}
	return f
}

func (f *fixture) expiredEvents() []string {
	f.expiredMu.Lock()
	defer f.expiredMu.Unlock()
	return append([]string(nil), f.expired...)
}
