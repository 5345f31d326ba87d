package goSession

import (
	"errors"
	"fmt"

	"github.com/MrEthical07/goSession/token"
)

var (
	// ErrMalformedToken is the root-level alias of [token.ErrMalformed];
	// errors.Is matches it against any token decode failure.
	ErrMalformedToken = token.ErrMalformed
	// ErrNoRefreshToken is an exported constant or variable used by the session engine.
	ErrNoRefreshToken = errors.New("no refresh token")
	// ErrRefreshFailed is an exported constant or variable used by the session engine.
	ErrRefreshFailed = errors.New("refresh failed")
	// ErrInvalidCredentials is an exported constant or variable used by the session engine.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNetworkFailure is an exported constant or variable used by the session engine.
	ErrNetworkFailure = errors.New("network failure")
	// ErrNoSession is an exported constant or variable used by the session engine.
	ErrNoSession = errors.New("no active session")
	// ErrProfileUnavailable is an exported constant or variable used by the session engine.
	ErrProfileUnavailable = errors.New("profile unavailable")
	// ErrIncompleteCredential is an exported constant or variable used by the session engine.
	ErrIncompleteCredential = errors.New("incomplete credential pair")
	// ErrBodyNotReplayable is an exported constant or variable used by the session engine.
	ErrBodyNotReplayable = errors.New("request body not replayable")
	// ErrSessionNotReady is returned by [Builder.Build] when the engine cannot
	// be constructed, either because a required dependency is missing or the
	// builder was already consumed.
	ErrSessionNotReady = errors.New("session engine not initialized")
)

// APIError carries the HTTP status and the server's human-readable message for
// a rejected auth endpoint call. Transport-level failures are never APIErrors.
type APIError struct {
	StatusCode int
	Message    string
}

// Error describes the error operation and its observable behavior.
//
// Error does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("auth api status %d", e.StatusCode)
	}
	return fmt.Sprintf("auth api status %d: %s", e.StatusCode, e.Message)
}

// IsRejection reports whether the error represents an auth server rejection
// (4xx) rather than a transient transport or server-side failure.
func (e *APIError) IsRejection() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}
