package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/serroba/linkmark/internal/analytics"
	"github.com/serroba/linkmark/internal/auth"
	"github.com/serroba/linkmark/internal/messaging"
	"github.com/serroba/linkmark/internal/shortener"
	"go.uber.org/zap"
)

// BookmarkHandler exposes the shortening core over HTTP: bookmark creation,
// the edit view model, and updates. All three operations require an
// authenticated principal.
type BookmarkHandler struct {
	service         *shortener.Service
	shortLinkPrefix string
	publishCreated  messaging.Publish[analytics.BookmarkCreatedEvent]
	logger          *zap.Logger
}

// NewBookmarkHandler creates a new bookmark handler. shortLinkPrefix must end
// with a path separator (normalized once at startup).
func NewBookmarkHandler(
	service *shortener.Service,
	shortLinkPrefix string,
	publishCreated messaging.Publish[analytics.BookmarkCreatedEvent],
	logger *zap.Logger,
) *BookmarkHandler {
	return &BookmarkHandler{
		service:         service,
		shortLinkPrefix: shortLinkPrefix,
		publishCreated:  publishCreated,
		logger:          logger,
	}
}

func (h *BookmarkHandler) CreateBookmark(ctx context.Context, req *CreateBookmarkRequest) (*CreateBookmarkResponse, error) {
	user, err := h.authenticatedUser(ctx)
	if err != nil {
		return nil, err
	}

	bookmark, err := h.service.Shorten(ctx, user, req.Body.LongURL, req.Body.Slug, req.Body.Keywords)
	if err != nil {
		return nil, mapServiceError(err)
	}

	h.publishCreatedEvent(ctx, bookmark)

	resp := &CreateBookmarkResponse{Status: http.StatusCreated}
	resp.Headers.Location = h.shortLinkPrefix + "u/" + bookmark.Owner + "/b/" + string(bookmark.Hash) + "/edit"
	resp.Body = h.bookmarkView(bookmark)

	return resp, nil
}

func (h *BookmarkHandler) EditBookmark(ctx context.Context, req *EditBookmarkRequest) (*EditBookmarkResponse, error) {
	user, err := h.authenticatedUser(ctx)
	if err != nil {
		return nil, err
	}

	if req.Username != user.UserName {
		return nil, huma.Error403Forbidden("bookmark belongs to another user")
	}

	bookmark, err := h.service.Expand(ctx, user.UserName, req.Hash)
	if err != nil {
		return nil, mapServiceError(err)
	}

	return &EditBookmarkResponse{Body: h.bookmarkView(bookmark)}, nil
}

func (h *BookmarkHandler) UpdateBookmark(ctx context.Context, req *UpdateBookmarkRequest) (*EditBookmarkResponse, error) {
	user, err := h.authenticatedUser(ctx)
	if err != nil {
		return nil, err
	}

	if req.Username != user.UserName {
		return nil, huma.Error403Forbidden("bookmark belongs to another user")
	}

	bookmark, err := h.service.Update(ctx, user, req.Hash, req.Body.Slug, req.Body.Keywords)
	if err != nil {
		return nil, mapServiceError(err)
	}

	return &EditBookmarkResponse{Body: h.bookmarkView(bookmark)}, nil
}

// authenticatedUser resolves the request principal to a User. A missing
// principal is a fatal precondition for user-scoped operations.
func (h *BookmarkHandler) authenticatedUser(ctx context.Context) (*shortener.User, error) {
	principal, ok := auth.PrincipalFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("authentication missing")
	}

	user, err := h.service.GetUser(ctx, principal)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to resolve user")
	}

	return user, nil
}

func (h *BookmarkHandler) bookmarkView(bookmark *shortener.Bookmark) BookmarkView {
	return BookmarkView{
		Hash:             string(bookmark.Hash),
		Slug:             bookmark.Slug,
		LongURL:          bookmark.LongURL.URL,
		ShortURL:         h.shortLinkPrefix + "u/" + bookmark.Owner + "/b/" + bookmark.ShortKey(),
		GlobalShortURL:   h.shortLinkPrefix + "b/" + string(bookmark.LongURL.Hash),
		SelectedKeywords: shortener.JoinKeywordNames(bookmark.Keywords),
	}
}

func (h *BookmarkHandler) publishCreatedEvent(ctx context.Context, bookmark *shortener.Bookmark) {
	meta := RequestMetaFromContext(ctx)

	keywords := make([]string, len(bookmark.Keywords))
	for i, k := range bookmark.Keywords {
		keywords[i] = k.Name
	}

	event := &analytics.BookmarkCreatedEvent{
		ID:         uuid.NewString(),
		Owner:      bookmark.Owner,
		Hash:       string(bookmark.Hash),
		Slug:       bookmark.Slug,
		LongURL:    bookmark.LongURL.URL,
		GlobalHash: string(bookmark.LongURL.Hash),
		Keywords:   keywords,
		CreatedAt:  bookmark.CreatedAt,
		ClientIP:   meta.ClientIP,
		UserAgent:  meta.UserAgent,
	}

	if err := h.publishCreated(event); err != nil {
		h.logger.Error("failed to publish bookmark created event",
			zap.String("hash", event.Hash),
			zap.Error(err),
		)
	}
}

// mapServiceError translates core errors to transport status codes. The core
// never throws across this seam; the mapping lives here only.
func mapServiceError(err error) error {
	switch {
	case errors.Is(err, shortener.ErrNotFound):
		return huma.Error404NotFound("unknown bookmark")
	case errors.Is(err, shortener.ErrSlugConflict):
		return huma.Error409Conflict("slug already in use")
	case errors.Is(err, shortener.ErrInvalidSlug):
		return huma.Error422UnprocessableEntity("invalid slug")
	case errors.Is(err, shortener.ErrInvalidURL):
		return huma.Error422UnprocessableEntity("invalid url")
	default:
		return huma.Error500InternalServerError("operation failed")
	}
}
