package store

import (
	"context"
	"sync"
	"time"

	"github.com/serroba/linkmark/internal/shortener"
)

// Memory is an in-memory implementation of shortener.Repository. It is safe
// for concurrent use and backs most of the unit tests.
type Memory struct {
	mu        sync.RWMutex
	longByURL map[string]*shortener.LongURL
	longByKey map[shortener.Code]*shortener.LongURL
	bookmarks map[string]*shortener.Bookmark // owner \x00 hash
	slugs     map[string]shortener.Code      // owner \x00 slug -> hash
	users     map[string]*shortener.User
}

// NewMemory creates a new in-memory repository.
func NewMemory() *Memory {
	return &Memory{
		longByURL: make(map[string]*shortener.LongURL),
		longByKey: make(map[shortener.Code]*shortener.LongURL),
		bookmarks: make(map[string]*shortener.Bookmark),
		slugs:     make(map[string]shortener.Code),
		users:     make(map[string]*shortener.User),
	}
}

func compositeKey(owner, key string) string {
	return owner + "\x00" + key
}

func (m *Memory) SaveLongURL(_ context.Context, long *shortener.LongURL) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.longByURL[long.URL]; ok {
		// Existing row wins; insert is a no-op.
		return nil
	}

	if existing, ok := m.longByKey[long.Hash]; ok && existing.URL != long.URL {
		return shortener.ErrHashTaken
	}

	stored := *long
	m.longByURL[long.URL] = &stored
	m.longByKey[long.Hash] = &stored

	return nil
}

func (m *Memory) GetLongURLByURL(_ context.Context, normalizedURL string) (*shortener.LongURL, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	long, ok := m.longByURL[normalizedURL]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	copied := *long

	return &copied, nil
}

func (m *Memory) GetLongURLByHash(_ context.Context, hash shortener.Code) (*shortener.LongURL, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	long, ok := m.longByKey[hash]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	copied := *long

	return &copied, nil
}

func (m *Memory) SaveBookmark(_ context.Context, bookmark *shortener.Bookmark) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := compositeKey(bookmark.Owner, string(bookmark.Hash))
	if _, ok := m.bookmarks[key]; ok {
		return shortener.ErrHashTaken
	}

	if bookmark.Slug != "" {
		slugKey := compositeKey(bookmark.Owner, bookmark.Slug)
		if _, ok := m.slugs[slugKey]; ok {
			return shortener.ErrSlugConflict
		}

		m.slugs[slugKey] = bookmark.Hash
	}

	m.bookmarks[key] = copyBookmark(bookmark)

	return nil
}

func (m *Memory) UpdateBookmark(_ context.Context, bookmark *shortener.Bookmark) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := compositeKey(bookmark.Owner, string(bookmark.Hash))

	existing, ok := m.bookmarks[key]
	if !ok {
		return shortener.ErrNotFound
	}

	if bookmark.Slug != "" {
		slugKey := compositeKey(bookmark.Owner, bookmark.Slug)
		if holder, taken := m.slugs[slugKey]; taken && holder != bookmark.Hash {
			return shortener.ErrSlugConflict
		}
	}

	if existing.Slug != "" && existing.Slug != bookmark.Slug {
		delete(m.slugs, compositeKey(bookmark.Owner, existing.Slug))
	}

	if bookmark.Slug != "" {
		m.slugs[compositeKey(bookmark.Owner, bookmark.Slug)] = bookmark.Hash
	}

	existing.Slug = bookmark.Slug
	existing.UpdatedAt = bookmark.UpdatedAt

	return nil
}

func (m *Memory) GetBookmark(_ context.Context, owner string, hash shortener.Code) (*shortener.Bookmark, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	bookmark, ok := m.bookmarks[compositeKey(owner, string(hash))]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	return copyBookmark(bookmark), nil
}

func (m *Memory) GetBookmarkBySlug(_ context.Context, owner, slug string) (*shortener.Bookmark, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hash, ok := m.slugs[compositeKey(owner, slug)]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	bookmark, ok := m.bookmarks[compositeKey(owner, string(hash))]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	return copyBookmark(bookmark), nil
}

func (m *Memory) ReplaceKeywords(_ context.Context, owner string, hash shortener.Code, names []string) ([]shortener.Keyword, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	bookmark, ok := m.bookmarks[compositeKey(owner, string(hash))]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	keywords := make([]shortener.Keyword, len(names))
	for i, name := range names {
		keywords[i] = shortener.Keyword{Name: name}
	}

	bookmark.Keywords = keywords

	result := make([]shortener.Keyword, len(keywords))
	copy(result, keywords)

	return result, nil
}

func (m *Memory) EnsureUser(_ context.Context, userName string) (*shortener.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userName]
	if !ok {
		user = &shortener.User{UserName: userName, CreatedAt: time.Now()}
		m.users[userName] = user
	}

	copied := *user

	return &copied, nil
}

func copyBookmark(b *shortener.Bookmark) *shortener.Bookmark {
	copied := *b

	if b.LongURL != nil {
		long := *b.LongURL
		copied.LongURL = &long
	}

	copied.Keywords = make([]shortener.Keyword, len(b.Keywords))
	copy(copied.Keywords, b.Keywords)

	return &copied
}

// Compile-time check.
var _ shortener.Repository = (*Memory)(nil)
