package shortener

import "time"

// Code is a generated short identifier. Bookmark codes are scoped to their
// owner; LongURL codes are global and shared by every bookmark pointing at
// the same URL.
type Code string

// LongURL is the globally deduplicated target of one or more bookmarks.
// Created lazily on the first shorten of a given URL and never deleted.
type LongURL struct {
	URL       string
	Hash      Code
	CreatedAt time.Time
}

// Keyword is a freeform tag. Keywords are deduplicated by name and shared
// between bookmarks; they have no owner.
type Keyword struct {
	Name string
}

// Bookmark is a user's short link to a LongURL. It is addressed by its
// generated Hash and optionally by a user-chosen Slug, both unique within
// the owner's namespace.
type Bookmark struct {
	Owner     string
	Hash      Code
	Slug      string
	LongURL   *LongURL
	Keywords  []Keyword
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ShortKey returns the key a short link for this bookmark should use: the
// slug when one is set, the generated hash otherwise.
func (b *Bookmark) ShortKey() string {
	if b.Slug != "" {
		return b.Slug
	}

	return string(b.Hash)
}

// User is an opaque identity key. Authentication happens at the transport
// boundary; the core only records which user owns which bookmarks.
type User struct {
	UserName  string
	CreatedAt time.Time
}
