// Package httpapi implements the goSession.AuthAPI boundary over HTTP
// against the four auth endpoints: login, refresh, logout, and current-user.
//
// Every request carries the goSession.WithoutAuth context marker so that a
// session whose http.Client routes through the goSession.Transport cannot
// re-enter the interceptor from inside a refresh.
//
// # Architecture boundaries
//
// This package owns endpoint shapes and error mapping only. Persistence,
// single-flight coordination, and retry policy belong to the Session.
//
// # What this package must NOT do
//
//   - Touch the credential store.
//   - Retry requests or coordinate refreshes.
//   - Interpret token contents.
package httpapi
