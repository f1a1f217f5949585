package handlers

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/linkmark/internal/ratelimit"
)

// RegisterRoutes registers all bookmark routes with per-endpoint rate limit
// configuration. The URL scheme mirrors the short-link layout: /b/{hash} for
// anonymous links and /u/{username}/b/{hash} for user-scoped ones.
func RegisterRoutes(api huma.API, bookmarks *BookmarkHandler, redirects *RedirectHandler) {
	// Write operations get strict limits.
	writeLimits := ratelimit.EndpointConfig{
		Limits: []ratelimit.LimitConfig{
			{Window: time.Minute, Max: 10},
			{Window: time.Hour, Max: 100},
			{Window: 24 * time.Hour, Max: 500},
		},
	}

	// Redirects are the high-traffic read path.
	readLimits := ratelimit.EndpointConfig{
		Limits: []ratelimit.LimitConfig{
			{Window: time.Minute, Max: 1000},
		},
	}

	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/b/new",
		Summary:     "Shorten a URL into a bookmark",
		Description: "Creates a bookmark for the authenticated user, deduplicating the long URL globally.",
		Tags:        []string{"Bookmarks"},
		Metadata:    map[string]any{ratelimit.MetadataKey: writeLimits},
	}, bookmarks.CreateBookmark)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/u/{username}/b/{hash}/edit",
		Summary:     "Get bookmark edit data",
		Description: "Returns the edit form data for a bookmark owned by the authenticated user.",
		Tags:        []string{"Bookmarks"},
	}, bookmarks.EditBookmark)

	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/u/{username}/b/{hash}/edit",
		Summary:     "Update bookmark slug and keywords",
		Description: "Replaces the slug and keyword set of a bookmark owned by the authenticated user.",
		Tags:        []string{"Bookmarks"},
		Metadata:    map[string]any{ratelimit.MetadataKey: writeLimits},
	}, bookmarks.UpdateBookmark)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/b/{globalHash}",
		Summary:     "Redirect by global hash",
		Description: "Redirects to the long URL behind a global hash, without a user context.",
		Tags:        []string{"Redirects"},
		Metadata:    map[string]any{ratelimit.MetadataKey: readLimits},
	}, redirects.RedirectGlobal)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/u/{username}/b/{hash}",
		Summary:     "Redirect by user hash or slug",
		Description: "Redirects to the long URL behind a user's bookmark hash or slug.",
		Tags:        []string{"Redirects"},
		Metadata:    map[string]any{ratelimit.MetadataKey: readLimits},
	}, redirects.Redirect)
}
