package shortener

import "context"

// Repository defines the storage contract for the shortening core. All
// mutation of shared state goes through these operations.
type Repository interface {
	// SaveLongURL inserts a LongURL. Inserting an URL that already exists is a
	// no-op (the existing row wins); a hash occupied by a different URL
	// returns ErrHashTaken.
	SaveLongURL(ctx context.Context, long *LongURL) error

	// GetLongURLByURL looks up a LongURL by its normalized URL.
	GetLongURLByURL(ctx context.Context, normalizedURL string) (*LongURL, error)

	// GetLongURLByHash looks up a LongURL by its global hash.
	GetLongURLByHash(ctx context.Context, hash Code) (*LongURL, error)

	// SaveBookmark inserts a bookmark. Returns ErrHashTaken when the owner
	// already has a bookmark with the same hash, ErrSlugConflict when the
	// owner already has a bookmark with the same slug. The uniqueness check
	// and the write are a single atomic unit.
	SaveBookmark(ctx context.Context, bookmark *Bookmark) error

	// UpdateBookmark replaces the slug and updated-at of an existing bookmark.
	// Returns ErrNotFound when the bookmark does not exist and ErrSlugConflict
	// when the new slug is taken by another bookmark of the same owner.
	UpdateBookmark(ctx context.Context, bookmark *Bookmark) error

	// GetBookmark looks up a bookmark by owner and generated hash.
	GetBookmark(ctx context.Context, owner string, hash Code) (*Bookmark, error)

	// GetBookmarkBySlug looks up a bookmark by owner and slug.
	GetBookmarkBySlug(ctx context.Context, owner, slug string) (*Bookmark, error)

	// ReplaceKeywords replaces the full keyword set of a bookmark, creating
	// keywords lazily on first use, and returns the stored set.
	ReplaceKeywords(ctx context.Context, owner string, hash Code, names []string) ([]Keyword, error)

	// EnsureUser returns the user with the given name, creating it on first
	// sight. Identity itself is resolved by the authentication boundary.
	EnsureUser(ctx context.Context, userName string) (*User, error)
}
