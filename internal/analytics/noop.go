package analytics

import (
	"context"

	"go.uber.org/zap"
)

// NoopStore is an analytics.Store that only logs events. Used when no
// analytics database is configured.
type NoopStore struct {
	logger *zap.Logger
}

// NewNoopStore creates a new logging no-op analytics store.
func NewNoopStore(logger *zap.Logger) *NoopStore {
	return &NoopStore{logger: logger}
}

func (n *NoopStore) SaveBookmarkCreated(_ context.Context, event *BookmarkCreatedEvent) error {
	n.logger.Info("bookmark created event received",
		zap.String("owner", event.Owner),
		zap.String("hash", event.Hash),
		zap.String("longUrl", event.LongURL),
		zap.Time("createdAt", event.CreatedAt),
	)

	return nil
}

func (n *NoopStore) SaveLinkAccessed(_ context.Context, event *LinkAccessedEvent) error {
	n.logger.Info("link accessed event received",
		zap.String("owner", event.Owner),
		zap.String("key", event.Key),
		zap.Time("accessedAt", event.AccessedAt),
		zap.String("referrer", event.Referrer),
	)

	return nil
}
