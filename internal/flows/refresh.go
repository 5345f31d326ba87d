package flows

import (
	"context"
)

// RefreshFailureKind classifies refresh flow failures for root-level mapping.
type RefreshFailureKind int

const (
	RefreshFailureNone RefreshFailureKind = iota
	RefreshFailureNoToken
	RefreshFailureExchange
	RefreshFailurePersist
)

// RefreshResult carries either the persisted token pair or failure metadata.
type RefreshResult struct {
	Failure      RefreshFailureKind
	Err          error
	AccessToken  string
	RefreshToken string
}

// RefreshDeps captures refresh flow dependencies.
type RefreshDeps struct {
	CurrentRefreshToken func() (string, error)
	Exchange            func(ctx context.Context, refreshToken string) (access, refresh string, err error)
	Persist             func(access, refresh string) error
	Clear               func() error
	Warn                func(string, ...any)
}

// RunRefresh executes the refresh exchange and persistence logic without root
// package dependencies. A missing refresh token fails without a network call.
// Exchange and persistence failures clear the credential store before
// returning so no stale session outlives a failed rotation.
func RunRefresh(ctx context.Context, deps RefreshDeps) RefreshResult {
	refreshToken, err := deps.CurrentRefreshToken()
	if err != nil || refreshToken == "" {
		return RefreshResult{
			Failure: RefreshFailureNoToken,
			Err:     err,
		}
	}

	access, next, err := deps.Exchange(ctx, refreshToken)
	if err != nil {
		if clearErr := deps.Clear(); clearErr != nil && deps.Warn != nil {
			deps.Warn("goSession: credential clear failed after refresh exchange error")
		}
		return RefreshResult{
			Failure: RefreshFailureExchange,
			Err:     err,
		}
	}

	if next == "" {
		// server did not rotate the refresh token
		next = refreshToken
	}

	if err := deps.Persist(access, next); err != nil {
		if clearErr := deps.Clear(); clearErr != nil && deps.Warn != nil {
			deps.Warn("goSession: credential clear failed after persist error")
		}
		return RefreshResult{
			Failure: RefreshFailurePersist,
			Err:     err,
		}
	}

	return RefreshResult{
		Failure:      RefreshFailureNone,
		AccessToken:  access,
		RefreshToken: next,
	}
}
