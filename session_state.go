package goSession

import (
	"time"

	"github.com/MrEthical07/goSession/token"
)

// claims loads and decodes the current access token. A missing pair, a half
// pair, and a malformed token all collapse to nil — state queries never
// surface decode or storage errors.
func (s *Session) claims() *token.Claims {
	cred, err := s.store.Load()
	if err != nil || !cred.Complete() {
		return nil
	}

	claims, err := token.Decode(cred.AccessToken)
	if err != nil {
		return nil
	}
	return claims
}

// IsAuthenticated reports whether a complete credential pair exists and the
// access token, shortened by the configured clock-skew leeway, has not
// expired. A missing refresh token forces false even when the access token
// is still technically unexpired.
func (s *Session) IsAuthenticated() bool {
	remaining, ok := s.timeToExpiry()
	return ok && remaining > 0
}

// IsExpiringSoon reports whether time-to-expiry is at or below within. A
// token that is absent, malformed, or missing its expiry claim counts as
// expiring now.
func (s *Session) IsExpiringSoon(within time.Duration) bool {
	remaining, ok := s.timeToExpiry()
	if !ok {
		return true
	}
	return remaining <= within
}

// TimeToExpiry returns the skew-adjusted time until the access token expires
// and whether a decodable token with an expiry claim exists at all.
func (s *Session) TimeToExpiry() (time.Duration, bool) {
	return s.timeToExpiry()
}

func (s *Session) timeToExpiry() (time.Duration, bool) {
	claims := s.claims()
	if claims == nil {
		return 0, false
	}

	expiry := claims.ExpiryTime()
	if expiry.IsZero() {
		return 0, false
	}

	return expiry.Add(-s.config.Token.Leeway).Sub(s.now()), true
}

// CurrentUser returns the cached profile when present, otherwise a profile
// synthesized from the decoded access token claims, otherwise nil. Never
// performs network I/O; see [Session.HydrateProfile] for the fetching path.
func (s *Session) CurrentUser() *UserProfile {
	if profile, err := s.store.LoadProfile(); err == nil && profile != nil {
		return profile
	}

	claims := s.claims()
	if claims == nil {
		return nil
	}

	return &UserProfile{
		ID:          claims.UserID,
		Email:       claims.Email,
		Name:        claims.Name,
		Role:        claims.Role,
		IsSuperuser: claims.IsSuperuser,
		Permissions: claims.Permissions,
	}
}

// HasRole reports whether the current user's normalized role equals role.
// Superuser status does NOT satisfy HasRole; role-restricted route policies
// apply the superuser bypass themselves.
func (s *Session) HasRole(role Role) bool {
	user := s.CurrentUser()
	if user == nil || role == RoleUnknown {
		return false
	}
	return user.NormalizedRole() == role
}

// HasPermission reports whether the current user carries the named
// permission.
func (s *Session) HasPermission(permission string) bool {
	return s.CurrentUser().HasPermission(permission)
}

// IsSuperuser reports whether the current user has superuser status.
func (s *Session) IsSuperuser() bool {
	user := s.CurrentUser()
	return user != nil && user.IsSuperuser
}
