package goSession

import (
	"fmt"
	"time"
)

// Builder defines a public type used by goSession APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config

	store CredentialStore
	api   AuthAPI

	onExpired func(returnTo string)

	built bool
}

// New describes the new operation and its observable behavior.
//
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithStore describes the withstore operation and its observable behavior.
//
// WithStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithStore(store CredentialStore) *Builder {
	b.store = store
	return b
}

// WithAPI describes the withapi operation and its observable behavior.
//
// WithAPI does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAPI(api AuthAPI) *Builder {
	b.api = api
	return b
}

// WithSessionExpiredHook registers the callback fired after an irrecoverable
// refresh failure has torn the session down. returnTo carries the path the
// user was trying to reach, or "" when none was recorded. The hook runs on
// the goroutine that detected the failure and must not block.
func (b *Builder) WithSessionExpiredHook(hook func(returnTo string)) *Builder {
	b.onExpired = hook
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Session, error) {
	if b.built {
		return nil, fmt.Errorf("%w: builder already used", ErrSessionNotReady)
	}

	if err := b.config.Validate(); err != nil {
		return nil, err
	}
	if b.store == nil {
		return nil, fmt.Errorf("%w: credential store required", ErrSessionNotReady)
	}
	if b.api == nil {
		return nil, fmt.Errorf("%w: auth api required", ErrSessionNotReady)
	}

	b.built = true

	return &Session{
		config:    b.config,
		store:     b.store,
		api:       b.api,
		metrics:   NewMetrics(b.config.Metrics),
		onExpired: b.onExpired,
		now:       time.Now,
	}, nil
}
