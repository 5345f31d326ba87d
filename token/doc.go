// Package token decodes the unverified payload of bearer access tokens into
// structured claims for expiry and identity checks on the client side.
//
// Decoding is advisory only: the package never verifies a signature and a
// decoded token is never treated as proof of authenticity. Authenticity is
// established solely by the issuing server's prior acceptance of credentials.
//
// # Architecture boundaries
//
// This package owns claim extraction and expiry arithmetic. Staleness policy
// (skew leeway, expiring-soon windows) belongs to the Session engine.
//
// # What this package must NOT do
//
//   - Verify signatures or hold signing keys.
//   - Perform I/O of any kind.
//   - Import goSession (no upward imports).
package token
