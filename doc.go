// Package goSession provides a client-side session and authorization engine for
// JWT-based APIs: persistent credential storage, unverified claims decoding,
// staleness detection with clock-skew tolerance, single-flight token refresh,
// a retry-once HTTP transport, and role-gated route authorization.
//
// The package is the client counterpart of a token-issuing auth server. It never
// verifies token signatures — authenticity is established by the issuing server's
// prior acceptance of credentials; decoded claims are advisory only.
//
// Session methods are safe to call from multiple goroutines after initialization
// through [Builder.Build]. Concurrent refresh attempts are collapsed into a single
// network call whose outcome is shared by every waiter.
//
// # Architecture boundaries
//
// goSession is the public surface. It exposes [Session], [Builder], [Config],
// sentinel errors, and value types ([Credential], [UserProfile], MetricsSnapshot).
// Credential persistence lives in the store sub-package, claims decoding in token,
// route policy evaluation in route, and the HTTP endpoint client in httpapi.
//
// # What this package must NOT do
//
//   - Verify token signatures or otherwise act as a token issuer.
//   - Render UI, validate forms, or own navigation — embedders react to
//     authorization decisions and the session-expired hook.
//   - Issue more than one refresh network call for any set of concurrent
//     staleness detections.
package goSession
