// Package flows contains pure-function orchestrators for Session operations
// with real sequencing concerns (refresh rotation, logout teardown).
//
// Each flow function accepts a typed dependency struct and returns results
// without side-effects beyond those dependencies. This design enables
// exhaustive unit testing with mock dependencies and keeps the Session type
// thin.
//
// # Architecture boundaries
//
// Flow functions coordinate calls to the credential store and the auth API.
// They do NOT own any of these resources — ownership stays with the Session.
//
// # What this package must NOT do
//
//   - Hold mutable state between calls.
//   - Import goSession (to avoid import cycles).
//   - Perform I/O directly — all I/O is mediated through dependency funcs.
package flows
