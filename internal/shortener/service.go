package shortener

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// CodeGenerator generates fresh bookmark hashes. Generated values must stay
// within BookmarkHashAlphabet.
type CodeGenerator func() string

// maxHashAttempts bounds the retries when a generated or derived hash is
// already occupied. Hitting the bound means the keyspace is effectively
// exhausted for this input and the request fails with ErrHashExhausted.
const maxHashAttempts = 5

// Service implements the URL-shortening and bookmark core: global dedup of
// long URLs, per-user bookmark allocation, slug reservation, and keyword
// tagging.
type Service struct {
	repo         Repository
	generateHash CodeGenerator
	logger       *zap.Logger
}

// NewService creates the shortening service.
func NewService(repo Repository, generator CodeGenerator, logger *zap.Logger) *Service {
	return &Service{
		repo:         repo,
		generateHash: generator,
		logger:       logger,
	}
}

// GetUser resolves an authenticated principal name to a User, creating the
// record on first sight.
func (s *Service) GetUser(ctx context.Context, userName string) (*User, error) {
	if userName == "" {
		return nil, errors.New("user name must not be empty")
	}

	return s.repo.EnsureUser(ctx, userName)
}

// Shorten creates a bookmark for rawURL owned by owner. The long URL is
// deduplicated globally: shortening the same URL twice, by any users, yields
// the same LongURL hash. The optional slug is reserved within the owner's
// namespace, and the keyword string is parsed and attached after the bookmark
// commits.
func (s *Service) Shorten(ctx context.Context, owner *User, rawURL, slug, keywordString string) (*Bookmark, error) {
	if owner == nil {
		return nil, errors.New("owner is required")
	}

	if slug != "" && !ValidSlug(slug) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSlug, slug)
	}

	long, err := s.lookupOrMintLongURL(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	bookmark, err := s.allocateBookmark(ctx, owner, long, slug)
	if err != nil {
		return nil, err
	}

	bookmark.Keywords = s.attachKeywords(ctx, bookmark, keywordString)

	return bookmark, nil
}

// Expand resolves a per-user lookup key to its bookmark. The generated-hash
// namespace is tried first; when the key is valid slug syntax the slug
// namespace is tried as fallback. The two keyspaces are disjoint (hashes
// carry no lowercase letters, slugs start with one), so a key can match at
// most one bookmark.
func (s *Service) Expand(ctx context.Context, owner, hashOrSlug string) (*Bookmark, error) {
	bookmark, err := s.repo.GetBookmark(ctx, owner, Code(hashOrSlug))
	if err == nil {
		return bookmark, nil
	}

	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if !ValidSlug(hashOrSlug) {
		return nil, ErrNotFound
	}

	return s.repo.GetBookmarkBySlug(ctx, owner, hashOrSlug)
}

// ExpandGlobal resolves a LongURL by its global hash, independent of any
// owner. Supports anonymous short-link redirection.
func (s *Service) ExpandGlobal(ctx context.Context, globalHash string) (*LongURL, error) {
	return s.repo.GetLongURLByHash(ctx, Code(globalHash))
}

// Update replaces the slug and keyword set of an existing bookmark. An empty
// slug clears it; the keyword set is always replaced in full. The long URL
// and owner never change.
func (s *Service) Update(ctx context.Context, owner *User, hash, slug, keywordString string) (*Bookmark, error) {
	if owner == nil {
		return nil, errors.New("owner is required")
	}

	if slug != "" && !ValidSlug(slug) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSlug, slug)
	}

	bookmark, err := s.repo.GetBookmark(ctx, owner.UserName, Code(hash))
	if err != nil {
		return nil, err
	}

	bookmark.Slug = slug
	bookmark.UpdatedAt = time.Now()

	if err := s.repo.UpdateBookmark(ctx, bookmark); err != nil {
		return nil, err
	}

	bookmark.Keywords = s.attachKeywords(ctx, bookmark, keywordString)

	return bookmark, nil
}

// lookupOrMintLongURL returns the existing LongURL for rawURL or mints a new
// one. The store's URL uniqueness constraint makes concurrent identical
// requests converge on a single row; hash collisions with different URLs are
// resolved by salted re-hashing within the retry budget.
func (s *Service) lookupOrMintLongURL(ctx context.Context, rawURL string) (*LongURL, error) {
	normalized, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	long, err := s.repo.GetLongURLByURL(ctx, normalized)
	if err == nil {
		return long, nil
	}

	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	for attempt := 0; attempt < maxHashAttempts; attempt++ {
		long := &LongURL{
			URL:       normalized,
			Hash:      GlobalHash(normalized, attempt),
			CreatedAt: time.Now(),
		}

		err := s.repo.SaveLongURL(ctx, long)
		if errors.Is(err, ErrHashTaken) {
			continue
		}

		if err != nil {
			return nil, err
		}

		// The insert may have been a no-op if a concurrent request won the
		// race; reread so every caller sees the canonical row.
		return s.repo.GetLongURLByURL(ctx, normalized)
	}

	s.logger.Error("global hash space exhausted",
		zap.String("url", normalized),
		zap.Int("attempts", maxHashAttempts),
	)

	return nil, ErrHashExhausted
}

// allocateBookmark inserts a bookmark with a fresh per-user hash, retrying
// on hash collisions within the owner's namespace.
func (s *Service) allocateBookmark(ctx context.Context, owner *User, long *LongURL, slug string) (*Bookmark, error) {
	for attempt := 0; attempt < maxHashAttempts; attempt++ {
		bookmark := &Bookmark{
			Owner:     owner.UserName,
			Hash:      Code(s.generateHash()),
			Slug:      slug,
			LongURL:   long,
			CreatedAt: time.Now(),
		}
		bookmark.UpdatedAt = bookmark.CreatedAt

		err := s.repo.SaveBookmark(ctx, bookmark)
		if errors.Is(err, ErrHashTaken) {
			continue
		}

		if err != nil {
			return nil, err
		}

		return bookmark, nil
	}

	s.logger.Error("bookmark hash space exhausted",
		zap.String("owner", owner.UserName),
		zap.Int("attempts", maxHashAttempts),
	)

	return nil, ErrHashExhausted
}

// attachKeywords replaces the bookmark's keyword set. Keywords are
// non-critical metadata: a failure here leaves the bookmark valid with a
// stale set and is logged rather than rolled back.
func (s *Service) attachKeywords(ctx context.Context, bookmark *Bookmark, keywordString string) []Keyword {
	names := ParseKeywordNames(keywordString)

	keywords, err := s.repo.ReplaceKeywords(ctx, bookmark.Owner, bookmark.Hash, names)
	if err != nil {
		s.logger.Warn("keyword attach failed, bookmark saved without tags",
			zap.String("owner", bookmark.Owner),
			zap.String("hash", string(bookmark.Hash)),
			zap.Error(err),
		)

		return bookmark.Keywords
	}

	return keywords
}
