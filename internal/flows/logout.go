package flows

import (
	"context"
)

// LogoutDeps captures logout flow dependencies.
type LogoutDeps struct {
	CurrentRefreshToken func() (string, error)
	Notify              func(ctx context.Context, refreshToken string) error
	Clear               func() error
	Warn                func(string, ...any)
}

// RunLogout notifies the server best-effort and always clears local state.
// The server notification can never block local teardown; its failure is
// logged and swallowed. Only a clear failure is returned.
func RunLogout(ctx context.Context, deps LogoutDeps) error {
	refreshToken, err := deps.CurrentRefreshToken()
	if err == nil && refreshToken != "" {
		if notifyErr := deps.Notify(ctx, refreshToken); notifyErr != nil && deps.Warn != nil {
			deps.Warn("goSession: server logout notification failed")
		}
	}

	return deps.Clear()
}
