package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/serroba/linkmark/internal/analytics"
	"github.com/serroba/linkmark/internal/messaging"
	"github.com/serroba/linkmark/internal/shortener"
	"go.uber.org/zap"
)

// RedirectHandler resolves short links to their long URLs. Redirection needs
// no authentication: short links are meant to be shared.
type RedirectHandler struct {
	service         *shortener.Service
	publishAccessed messaging.Publish[analytics.LinkAccessedEvent]
	logger          *zap.Logger
}

// NewRedirectHandler creates a new redirect handler.
func NewRedirectHandler(
	service *shortener.Service,
	publishAccessed messaging.Publish[analytics.LinkAccessedEvent],
	logger *zap.Logger,
) *RedirectHandler {
	return &RedirectHandler{
		service:         service,
		publishAccessed: publishAccessed,
		logger:          logger,
	}
}

// Redirect resolves a user-scoped short link (generated hash or slug).
func (h *RedirectHandler) Redirect(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	bookmark, err := h.service.Expand(ctx, req.Username, req.Hash)
	if err != nil {
		if errors.Is(err, shortener.ErrNotFound) {
			return nil, huma.Error404NotFound("unknown bookmark")
		}

		return nil, huma.Error500InternalServerError("failed to resolve bookmark")
	}

	h.publishAccessedEvent(ctx, req.Username, req.Hash, bookmark.LongURL.URL)

	resp := &RedirectResponse{Status: http.StatusMovedPermanently}
	resp.Headers.Location = bookmark.LongURL.URL

	return resp, nil
}

// RedirectGlobal resolves a long URL by its global hash, independent of any
// owner.
func (h *RedirectHandler) RedirectGlobal(ctx context.Context, req *GlobalRedirectRequest) (*RedirectResponse, error) {
	long, err := h.service.ExpandGlobal(ctx, req.GlobalHash)
	if err != nil {
		if errors.Is(err, shortener.ErrNotFound) {
			return nil, huma.Error404NotFound("unknown short link")
		}

		return nil, huma.Error500InternalServerError("failed to resolve short link")
	}

	h.publishAccessedEvent(ctx, "", req.GlobalHash, long.URL)

	resp := &RedirectResponse{Status: http.StatusMovedPermanently}
	resp.Headers.Location = long.URL

	return resp, nil
}

func (h *RedirectHandler) publishAccessedEvent(ctx context.Context, owner, key, longURL string) {
	meta := RequestMetaFromContext(ctx)

	event := &analytics.LinkAccessedEvent{
		ID:         uuid.NewString(),
		Owner:      owner,
		Key:        key,
		LongURL:    longURL,
		AccessedAt: time.Now(),
		ClientIP:   meta.ClientIP,
		UserAgent:  meta.UserAgent,
		Referrer:   meta.Referrer,
	}

	if err := h.publishAccessed(event); err != nil {
		h.logger.Error("failed to publish link accessed event",
			zap.String("key", event.Key),
			zap.Error(err),
		)
	}
}
