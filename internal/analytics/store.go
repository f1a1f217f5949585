package analytics

import "context"

// Store defines the interface for persisting analytics events.
type Store interface {
	SaveBookmarkCreated(ctx context.Context, event *BookmarkCreatedEvent) error
	SaveLinkAccessed(ctx context.Context, event *LinkAccessedEvent) error
}
