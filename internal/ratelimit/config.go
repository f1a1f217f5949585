package ratelimit

import "time"

// MetadataKey is the key used to store rate limit config in huma operation
// metadata.
const MetadataKey = "rateLimit"

// LimitConfig is a single request budget over a time window.
type LimitConfig struct {
	Window time.Duration
	Max    int64
}

// EndpointConfig defines per-endpoint rate limit configuration, attached to
// huma operations via the Metadata field. Endpoints without a config fall
// back to the default limiter.
type EndpointConfig struct {
	// Limits defines custom rate limits for this endpoint. Every listed
	// window is tracked independently and all must allow the request.
	Limits []LimitConfig

	// Disabled skips rate limiting entirely for this endpoint.
	Disabled bool
}
