package goSession

import (
	"context"
	"strings"
)

// Role is the canonical role identifier carried in token claims and user
// profiles. Comparison is case-sensitive exact match; raw server values are
// normalized at the boundary with [NormalizeRole].
type Role string

const (
	// RoleStudent is an exported constant or variable used by the session engine.
	RoleStudent Role = "STUDENT"
	// RoleCDSOwner is an exported constant or variable used by the session engine.
	RoleCDSOwner Role = "CDS_OWNER"
	// RoleLaundryStaff is an exported constant or variable used by the session engine.
	RoleLaundryStaff Role = "LAUNDRY_STAFF"
	// RoleEntrepreneur is an exported constant or variable used by the session engine.
	RoleEntrepreneur Role = "ENTREPRENEUR"
	// RoleUnknown satisfies no role-restricted policy.
	RoleUnknown Role = ""
)

// NormalizeRole maps a raw role string from the server to the canonical
// enumerated set. Unrecognized values map to [RoleUnknown], which satisfies
// no restricted route policy.
func NormalizeRole(raw string) Role {
	switch Role(strings.ToUpper(strings.TrimSpace(raw))) {
	case RoleStudent:
		return RoleStudent
	case RoleCDSOwner:
		return RoleCDSOwner
	case RoleLaundryStaff:
		return RoleLaundryStaff
	case RoleEntrepreneur:
		return RoleEntrepreneur
	default:
		return RoleUnknown
	}
}

// Credential is the opaque bearer token pair. Both tokens are present or
// neither is — a half pair is never persisted and loads as absent.
type Credential struct {
	AccessToken  string
	RefreshToken string
}

// Complete reports whether both tokens are present.
func (c Credential) Complete() bool {
	return c.AccessToken != "" && c.RefreshToken != ""
}

// Empty reports whether neither token is present.
func (c Credential) Empty() bool {
	return c.AccessToken == "" && c.RefreshToken == ""
}

// UserProfile is the cached, human-usable projection of the authenticated
// user. Written only by successful login, refresh, and profile-fetch
// operations; destroyed on logout or irrecoverable refresh failure.
type UserProfile struct {
	ID          int64    `json:"id"`
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	Phone       string   `json:"phone,omitempty"`
	Role        string   `json:"role"`
	IsSuperuser bool     `json:"is_superuser"`
	IsVerified  bool     `json:"is_verified,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`
}

// NormalizedRole returns the canonical role of the profile.
func (p *UserProfile) NormalizedRole() Role {
	if p == nil {
		return RoleUnknown
	}
	return NormalizeRole(p.Role)
}

// HasPermission reports whether the profile carries the named permission.
func (p *UserProfile) HasPermission(permission string) bool {
	if p == nil {
		return false
	}
	for _, granted := range p.Permissions {
		if granted == permission {
			return true
		}
	}
	return false
}

// CredentialStore is the persistence contract for the token pair and the
// denormalized profile snapshot. All operations are synchronous and idempotent
// from the engine's point of view, and survive process restart for the
// persisted backends. Clear must never leave a partially-cleared state
// observable. The store sub-package ships Memory, File, and Redis backends.
type CredentialStore interface {
	Save(cred Credential, profile *UserProfile) error
	Load() (Credential, error)
	LoadProfile() (*UserProfile, error)
	Clear() error
}

// TokenGrant is the token material returned by the auth server from a
// successful login or refresh exchange. RefreshToken is empty when the server
// does not rotate it; User is nil when the response carries no profile.
type TokenGrant struct {
	AccessToken  string
	RefreshToken string
	User         *UserProfile
}

// AuthAPI is the boundary contract to the auth server endpoints. The httpapi
// sub-package ships the HTTP implementation; tests substitute stubs. Rejected
// calls return *APIError; transport failures return transport errors.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*TokenGrant, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenGrant, error)
	Logout(ctx context.Context, refreshToken string) error
	CurrentUser(ctx context.Context, accessToken string) (*UserProfile, error)
}
