package store

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/linkmark/internal/shortener"
)

// Cache wraps a shortener.Repository with Redis caching for the two hot
// redirect lookups: global hash and per-user bookmark resolution. Writes go
// through to the underlying repository and update the cache afterwards;
// slug and keyword mutations invalidate the cached bookmark.
type Cache struct {
	repo   shortener.Repository
	client *redis.Client
	ttl    time.Duration
}

const (
	longKeyPrefix     = "lm:long:"
	bookmarkKeyPrefix = "lm:bm:"
)

// NewCache creates a Redis-cached repository decorator.
func NewCache(repo shortener.Repository, client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{
		repo:   repo,
		client: client,
		ttl:    ttl,
	}
}

func (c *Cache) SaveLongURL(ctx context.Context, long *shortener.LongURL) error {
	if err := c.repo.SaveLongURL(ctx, long); err != nil {
		return err
	}

	c.cacheLongURL(ctx, long)

	return nil
}

func (c *Cache) GetLongURLByURL(ctx context.Context, normalizedURL string) (*shortener.LongURL, error) {
	// Not on the redirect path; always hit the store.
	return c.repo.GetLongURLByURL(ctx, normalizedURL)
}

func (c *Cache) GetLongURLByHash(ctx context.Context, hash shortener.Code) (*shortener.LongURL, error) {
	if long, err := c.longFromCache(ctx, hash); err == nil {
		return long, nil
	}

	long, err := c.repo.GetLongURLByHash(ctx, hash)
	if err != nil {
		return nil, err
	}

	c.cacheLongURL(ctx, long)

	return long, nil
}

func (c *Cache) SaveBookmark(ctx context.Context, bookmark *shortener.Bookmark) error {
	return c.repo.SaveBookmark(ctx, bookmark)
}

func (c *Cache) UpdateBookmark(ctx context.Context, bookmark *shortener.Bookmark) error {
	if err := c.repo.UpdateBookmark(ctx, bookmark); err != nil {
		return err
	}

	c.invalidateBookmark(ctx, bookmark.Owner, bookmark.Hash)

	return nil
}

func (c *Cache) GetBookmark(ctx context.Context, owner string, hash shortener.Code) (*shortener.Bookmark, error) {
	if bookmark, err := c.bookmarkFromCache(ctx, owner, hash); err == nil {
		return bookmark, nil
	}

	bookmark, err := c.repo.GetBookmark(ctx, owner, hash)
	if err != nil {
		return nil, err
	}

	c.cacheBookmark(ctx, bookmark)

	return bookmark, nil
}

func (c *Cache) GetBookmarkBySlug(ctx context.Context, owner, slug string) (*shortener.Bookmark, error) {
	// The slug path is rare compared to hash redirects; no cache layer.
	return c.repo.GetBookmarkBySlug(ctx, owner, slug)
}

func (c *Cache) ReplaceKeywords(ctx context.Context, owner string, hash shortener.Code, names []string) ([]shortener.Keyword, error) {
	keywords, err := c.repo.ReplaceKeywords(ctx, owner, hash, names)
	if err != nil {
		return nil, err
	}

	c.invalidateBookmark(ctx, owner, hash)

	return keywords, nil
}

func (c *Cache) EnsureUser(ctx context.Context, userName string) (*shortener.User, error) {
	return c.repo.EnsureUser(ctx, userName)
}

func (c *Cache) longFromCache(ctx context.Context, hash shortener.Code) (*shortener.LongURL, error) {
	result, err := c.client.HGetAll(ctx, longKeyPrefix+string(hash)).Result()
	if err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, shortener.ErrNotFound
	}

	return &shortener.LongURL{
		Hash:      hash,
		URL:       result["url"],
		CreatedAt: parseUnixNano(result["created_at"]),
	}, nil
}

func (c *Cache) cacheLongURL(ctx context.Context, long *shortener.LongURL) {
	key := longKeyPrefix + string(long.Hash)

	pipe := c.client.Pipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"url":        long.URL,
		"created_at": long.CreatedAt.UnixNano(),
	})

	if c.ttl > 0 {
		pipe.Expire(ctx, key, c.ttl)
	}

	_, _ = pipe.Exec(ctx)
}

func (c *Cache) bookmarkFromCache(ctx context.Context, owner string, hash shortener.Code) (*shortener.Bookmark, error) {
	result, err := c.client.HGetAll(ctx, bookmarkCacheKey(owner, hash)).Result()
	if err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, shortener.ErrNotFound
	}

	bookmark := &shortener.Bookmark{
		Owner: owner,
		Hash:  hash,
		Slug:  result["slug"],
		LongURL: &shortener.LongURL{
			Hash: shortener.Code(result["long_hash"]),
			URL:  result["long_url"],
		},
		CreatedAt: parseUnixNano(result["created_at"]),
		UpdatedAt: parseUnixNano(result["updated_at"]),
	}

	for _, name := range shortener.ParseKeywordNames(result["keywords"]) {
		bookmark.Keywords = append(bookmark.Keywords, shortener.Keyword{Name: name})
	}

	return bookmark, nil
}

func (c *Cache) cacheBookmark(ctx context.Context, bookmark *shortener.Bookmark) {
	key := bookmarkCacheKey(bookmark.Owner, bookmark.Hash)

	pipe := c.client.Pipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"slug":       bookmark.Slug,
		"long_hash":  string(bookmark.LongURL.Hash),
		"long_url":   bookmark.LongURL.URL,
		"keywords":   shortener.JoinKeywordNames(bookmark.Keywords),
		"created_at": bookmark.CreatedAt.UnixNano(),
		"updated_at": bookmark.UpdatedAt.UnixNano(),
	})

	if c.ttl > 0 {
		pipe.Expire(ctx, key, c.ttl)
	}

	_, _ = pipe.Exec(ctx)
}

func (c *Cache) invalidateBookmark(ctx context.Context, owner string, hash shortener.Code) {
	_ = c.client.Del(ctx, bookmarkCacheKey(owner, hash)).Err()
}

func bookmarkCacheKey(owner string, hash shortener.Code) string {
	return bookmarkKeyPrefix + owner + ":" + string(hash)
}

func parseUnixNano(s string) time.Time {
	nanos, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}

	return time.Unix(0, nanos)
}

// Compile-time check.
var _ shortener.Repository = (*Cache)(nil)
