package middleware

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/linkmark/internal/auth"
)

// PrincipalHeader is the header carrying the authenticated user name, set by
// the upstream auth proxy. Requests without it stay anonymous; user-scoped
// handlers reject them.
const PrincipalHeader = "Remote-User"

// Authentication extracts the authenticated principal from the request and
// puts it on the context. It never rejects: redirects work anonymously, and
// user-scoped operations enforce the principal themselves.
func Authentication(_ huma.API) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if userName := ctx.Header(PrincipalHeader); userName != "" {
			newCtx := auth.ContextWithPrincipal(ctx.Context(), userName)
			ctx = huma.WithContext(ctx, newCtx)
		}

		next(ctx)
	}
}
