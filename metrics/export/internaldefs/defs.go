package internaldefs

import (
	goSession "github.com/MrEthical07/goSession"
)

// CounterDef defines a public type used by goSession APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   goSession.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the session engine.
var CounterDefs = []CounterDef{
	{ID: goSession.MetricLoginSuccess, Name: "gosession_login_success_total", Help: "Successful login attempts."},
	{ID: goSession.MetricLoginFailure, Name: "gosession_login_failure_total", Help: "Failed login attempts."},
	{ID: goSession.MetricRefreshSuccess, Name: "gosession_refresh_success_total", Help: "Successful refresh operations."},
	{ID: goSession.MetricRefreshFailure, Name: "gosession_refresh_failure_total", Help: "Failed refresh operations."},
	{ID: goSession.MetricRefreshCoalesced, Name: "gosession_refresh_coalesced_total", Help: "Refresh calls coalesced into an already in-flight exchange."},
	{ID: goSession.MetricRefreshNoToken, Name: "gosession_refresh_no_token_total", Help: "Refresh attempts with no stored refresh token."},
	{ID: goSession.MetricRetryAfterRefresh, Name: "gosession_retry_after_refresh_total", Help: "Requests replayed after a recovery refresh."},
	{ID: goSession.MetricAuthorizationFinal, Name: "gosession_authorization_final_total", Help: "Requests whose authorization failure was returned to the caller."},
	{ID: goSession.MetricLogout, Name: "gosession_logout_total", Help: "Logout operations."},
	{ID: goSession.MetricSessionTeardown, Name: "gosession_session_teardown_total", Help: "Local session teardown operations."},
	{ID: goSession.MetricProfileHydrated, Name: "gosession_profile_hydrated_total", Help: "Profile hydrations fetched from the server."},
}
