package route

import (
	"context"
	"time"

	goSession "github.com/MrEthical07/goSession"
)

// Action defines a public type used by goSession APIs.
//
// Action instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Action int

const (
	// ActionAllow is an exported constant or variable used by the session engine.
	ActionAllow Action = iota
	// ActionRedirectLogin is an exported constant or variable used by the session engine.
	ActionRedirectLogin
	// ActionRedirectForbidden is an exported constant or variable used by the session engine.
	ActionRedirectForbidden
	// ActionRedirectHome is an exported constant or variable used by the session engine.
	ActionRedirectHome
)

// Policy is the static access declaration for one route, supplied by the
// embedding application and consumed read-only.
type Policy struct {
	Public       bool
	RequiresAuth bool
	GuestOnly    bool
	AllowedRoles []goSession.Role
}

// Decision is the outcome of one policy evaluation. Target is the redirect
// path for the redirect actions; ReturnTo carries the originally-requested
// path when the user is sent to login.
type Decision struct {
	Action   Action
	Target   string
	ReturnTo string
}

// Session is the read surface the authorizer needs. *goSession.Session
// satisfies it.
type Session interface {
	IsAuthenticated() bool
	CurrentUser() *goSession.UserProfile
	IsExpiringSoon(within time.Duration) bool
	RefreshIfNeeded(ctx context.Context) error
}

// Config defines a public type used by goSession APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	LoginPath          string
	ForbiddenPath      string
	DefaultLandingPath string
	// LandingPaths maps each role to its post-login landing page, used when
	// an authenticated user hits a guest-only route.
	LandingPaths map[goSession.Role]string
	// ExpirySoonWindow gates the opportunistic background refresh on allowed
	// navigations.
	ExpirySoonWindow time.Duration
	ProactiveRefresh bool
}

// DefaultConfig describes the defaultconfig operation and its observable behavior.
//
// DefaultConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func DefaultConfig() Config {
	return Config{
		LoginPath:          "/login",
		ForbiddenPath:      "/unauthorized",
		DefaultLandingPath: "/home",
		LandingPaths: map[goSession.Role]string{
			goSession.RoleStudent:      "/home",
			goSession.RoleCDSOwner:     "/cds/admin",
			goSession.RoleLaundryStaff: "/laundry/admin",
			goSession.RoleEntrepreneur: "/entrepreneur/dashboard",
		},
		ExpirySoonWindow: 5 * time.Minute,
		ProactiveRefresh: true,
	}
}

// Authorizer evaluates route policies once per navigation.
type Authorizer struct {
	session Session
	config  Config
}

// NewAuthorizer describes the newauthorizer operation and its observable behavior.
//
// NewAuthorizer does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewAuthorizer(session Session, cfg Config) *Authorizer {
	return &Authorizer{session: session, config: cfg}
}

// Authorize evaluates the decision table for a navigation to path under
// policy. It never blocks on network I/O: the proactive refresh on an
// allowed navigation runs in the background.
func (a *Authorizer) Authorize(ctx context.Context, path string, policy Policy) Decision {
	if policy.Public {
		return Decision{Action: ActionAllow}
	}

	authenticated := a.session.IsAuthenticated()

	if policy.GuestOnly && authenticated {
		return Decision{
			Action: ActionRedirectHome,
			Target: a.landingFor(a.session.CurrentUser()),
		}
	}

	if policy.RequiresAuth && !authenticated {
		return Decision{
			Action:   ActionRedirectLogin,
			Target:   a.config.LoginPath,
			ReturnTo: path,
		}
	}

	if authenticated && len(policy.AllowedRoles) > 0 && !a.roleAllowed(policy.AllowedRoles) {
		return Decision{
			Action: ActionRedirectForbidden,
			Target: a.config.ForbiddenPath,
		}
	}

	if a.config.ProactiveRefresh && authenticated && a.session.IsExpiringSoon(a.config.ExpirySoonWindow) {
		go func() {
			_ = a.session.RefreshIfNeeded(context.WithoutCancel(ctx))
		}()
	}

	return Decision{Action: ActionAllow}
}

// roleAllowed applies the superuser bypass and exact-match role comparison.
// An unrecognized role value satisfies no restricted policy.
func (a *Authorizer) roleAllowed(allowed []goSession.Role) bool {
	user := a.session.CurrentUser()
	if user == nil {
		return false
	}
	if user.IsSuperuser {
		return true
	}

	role := user.NormalizedRole()
	if role == goSession.RoleUnknown {
		return false
	}
	for _, candidate := range allowed {
		if role == candidate {
			return true
		}
	}
	return false
}

func (a *Authorizer) landingFor(user *goSession.UserProfile) string {
	if user != nil {
		if path, ok := a.config.LandingPaths[user.NormalizedRole()]; ok && path != "" {
			return path
		}
	}
	return a.config.DefaultLandingPath
}
