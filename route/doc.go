// Package route evaluates static per-route access policies against the
// current session: allow, redirect to login, redirect to the unauthorized
// page, or redirect to the role-appropriate landing page.
//
// The decision table is evaluated in order, first match wins:
//
//  1. public routes are always allowed.
//  2. guest-only routes redirect authenticated users to their landing page.
//  3. auth-required routes redirect anonymous users to login, preserving the
//     requested path as a return target.
//  4. role-restricted routes redirect users outside the allowed set to the
//     unauthorized page; superuser status satisfies any role check.
//  5. everything else is allowed, with a best-effort background refresh when
//     the access token is expiring soon.
//
// # Architecture boundaries
//
// This package translates navigation semantics into Session queries. It does
// NOT decode tokens, touch the credential store, or perform refresh I/O
// itself — refresh is delegated to the Session's coordinator.
//
// # What this package must NOT do
//
//   - Block a navigation on a refresh network call.
//   - Interpret token contents directly.
//   - Mutate session state beyond triggering the proactive refresh.
package route
