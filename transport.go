package goSession

import (
	"io"
	"net/http"

	"github.com/google/uuid"
)

const (
	headerAuthorization = "Authorization"
	headerRequestID     = "X-Request-ID"
	bearerPrefix        = "Bearer "
)

// Transport is an [http.RoundTripper] that wraps every outgoing API call in
// the two-phase interceptor contract: before send it attaches the current
// bearer token without blocking, and after an unauthorized response it runs
// exactly one coordinated refresh followed by at most one retry of the
// original request. A second 401 after the retry is surfaced as final.
//
// Requests whose context is marked with [WithoutAuth] pass straight through.
type Transport struct {
	session *Session
	base    http.RoundTripper
}

// NewTransport describes the newtransport operation and its observable behavior.
//
// NewTransport does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewTransport(session *Session, base http.RoundTripper) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{session: session, base: base}
}

// Client returns an http.Client whose transport attaches the session's
// bearer token and performs the refresh-and-retry-once handling.
func (s *Session) Client() *http.Client {
	return &http.Client{Transport: NewTransport(s, nil)}
}

// RoundTrip implements [http.RoundTripper].
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if withoutAuthFromContext(req.Context()) {
		return t.base.RoundTrip(req)
	}

	// The correlation ID stays stable across the retry so both attempts are
	// attributable to one logical request.
	requestID := uuid.NewString()

	first := t.authorize(req, requestID, "")
	resp, err := t.base.RoundTrip(first)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	cred, refreshErr := t.session.Refresh(req.Context())
	if refreshErr != nil {
		// Teardown already ran inside Refresh; the original 401 is the
		// caller's answer.
		t.session.metricInc(MetricAuthorizationFinal)
		return resp, nil
	}

	retry, replayErr := t.replay(req, requestID, cred.AccessToken)
	if replayErr != nil {
		return resp, nil
	}
	drainAndClose(resp)

	t.session.metricInc(MetricRetryAfterRefresh)
	retried, err := t.base.RoundTrip(retry)
	if err != nil {
		return nil, err
	}
	if retried.StatusCode == http.StatusUnauthorized {
		t.session.metricInc(MetricAuthorizationFinal)
	}
	return retried, nil
}

// authorize clones req and attaches the bearer token currently in the store.
// overrideToken, when non-empty, wins over the stored token. The before-send
// phase never blocks on a refresh.
func (t *Transport) authorize(req *http.Request, requestID, overrideToken string) *http.Request {
	clone := req.Clone(req.Context())

	accessToken := overrideToken
	if accessToken == "" {
		if cred, err := t.session.store.Load(); err == nil {
			accessToken = cred.AccessToken
		}
	}

	if accessToken != "" {
		clone.Header.Set(headerAuthorization, bearerPrefix+accessToken)
	}
	clone.Header.Set(headerRequestID, requestID)
	return clone
}

// replay rebuilds the original request for the single post-refresh retry.
// Requests with a consumed, non-replayable body cannot be retried.
func (t *Transport) replay(req *http.Request, requestID, accessToken string) (*http.Request, error) {
	if req.Body != nil && req.GetBody == nil {
		return nil, ErrBodyNotReplayable
	}

	clone := t.authorize(req, requestID, accessToken)
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		clone.Body = body
	}
	return clone, nil
}

func drainAndClose(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
