// Package store provides credential persistence backends for the goSession
// engine: in-memory for tests and ephemeral processes, a JSON file for
// single-host clients surviving restarts, and Redis for client replicas that
// share one refreshed token pair.
//
// Every backend enforces the both-or-neither credential invariant: a half
// pair is rejected at Save and loads as absent, and Clear never leaves a
// partially-cleared state observable.
//
// # Architecture boundaries
//
// This package owns key/value persistence only. Expiry detection, refresh
// policy, and role evaluation belong to the Session engine and the route
// package.
//
// # What this package must NOT do
//
//   - Decode or interpret token contents.
//   - Perform refresh or any auth endpoint I/O.
//   - Make authorization decisions.
package store
