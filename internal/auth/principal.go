// Package auth carries the authenticated principal through request contexts.
// Authentication itself happens upstream (an auth proxy or the transport
// binding); the core only ever sees the resolved user name.
package auth

import "context"

type principalKey struct{}

// ContextWithPrincipal returns a context carrying the authenticated user name.
func ContextWithPrincipal(ctx context.Context, userName string) context.Context {
	return context.WithValue(ctx, principalKey{}, userName)
}

// PrincipalFromContext extracts the authenticated user name from the context.
// The second return value is false when the request is unauthenticated.
func PrincipalFromContext(ctx context.Context) (string, bool) {
	userName, ok := ctx.Value(principalKey{}).(string)
	if !ok || userName == "" {
		return "", false
	}

	return userName, true
}
