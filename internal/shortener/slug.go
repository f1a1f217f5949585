package shortener

import "regexp"

// BookmarkHashAlphabet is the alphabet for generated bookmark hashes. It
// contains no lowercase letters, while slugs must start with one, so the two
// lookup keyspaces can never overlap.
const BookmarkHashAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

var slugPattern = regexp.MustCompile(`^[a-z][a-z0-9-]{0,79}$`)

// ValidSlug reports whether s is an acceptable user-chosen slug: starts with
// a lowercase letter, then lowercase letters, digits, or hyphens, at most 80
// characters total.
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}
