package goSession

import "context"

type withoutAuthContextKey struct{}
type returnToContextKey struct{}

// WithoutAuth marks ctx so the [Transport] passes the request through without
// attaching a bearer token or retrying on 401. The auth endpoints themselves
// are always called this way to keep a rejected refresh from re-entering the
// interceptor.
func WithoutAuth(ctx context.Context) context.Context {
	return context.WithValue(ctx, withoutAuthContextKey{}, true)
}

// WithReturnTo attaches the navigation path the caller was trying to reach.
// If the request forces a session teardown, the path is handed to the
// session-expired hook so it can be restored after re-authentication.
func WithReturnTo(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, returnToContextKey{}, path)
}

func withoutAuthFromContext(ctx context.Context) bool {
	if ctx == nil {
		return false
	}

	skip, _ := ctx.Value(withoutAuthContextKey{}).(bool)
	return skip
}

func returnToFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	path, _ := ctx.Value(returnToContextKey{}).(string)
	return path
}
