package shortener

import "errors"

var (
	// ErrNotFound indicates the lookup key (hash, slug, or global hash) has no
	// matching record.
	ErrNotFound = errors.New("bookmark not found")

	// ErrSlugConflict indicates the requested slug is already held by another
	// bookmark of the same owner.
	ErrSlugConflict = errors.New("slug already in use")

	// ErrInvalidSlug indicates the slug does not match the slug syntax.
	ErrInvalidSlug = errors.New("invalid slug")

	// ErrInvalidURL indicates the long URL could not be parsed or is not
	// absolute.
	ErrInvalidURL = errors.New("invalid url")

	// ErrHashTaken is returned by stores when a generated hash is already
	// occupied by a different record. Callers retry with a fresh hash.
	ErrHashTaken = errors.New("hash already taken")

	// ErrHashExhausted indicates hash generation failed to find a free value
	// within the retry budget. Should be rare; indicates keyspace exhaustion.
	ErrHashExhausted = errors.New("hash space exhausted")
)
