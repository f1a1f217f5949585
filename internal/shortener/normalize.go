package shortener

import (
	"crypto/sha256"
	"fmt"
	"net/url"
	"strings"
)

// GlobalHashLength is the length of generated LongURL hashes.
const GlobalHashLength = 7

const base62Chars = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NormalizeURL normalizes a URL so that equivalent spellings deduplicate to
// the same LongURL. The rule is fixed: it determines dedup correctness.
// - Lowercases the scheme and host
// - Removes default ports (80 for http, 443 for https)
// - Removes trailing slashes from path (unless path is just "/")
// - Removes empty fragment
func NormalizeURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("url %q is not absolute", rawURL)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)

	host := u.Host
	if strings.HasSuffix(host, ":80") && u.Scheme == "http" {
		u.Host = strings.TrimSuffix(host, ":80")
	} else if strings.HasSuffix(host, ":443") && u.Scheme == "https" {
		u.Host = strings.TrimSuffix(host, ":443")
	}

	if len(u.Path) > 1 && strings.HasSuffix(u.Path, "/") {
		u.Path = strings.TrimSuffix(u.Path, "/")
	}

	u.Fragment = ""

	return u.String(), nil
}

// GlobalHash derives the short global hash for a normalized URL. Attempt 0 is
// the pure content hash; higher attempts salt the input so a collision with a
// different URL can be resolved deterministically.
func GlobalHash(normalizedURL string, attempt int) Code {
	input := normalizedURL
	if attempt > 0 {
		input = fmt.Sprintf("%s#%d", normalizedURL, attempt)
	}

	sum := sha256.Sum256([]byte(input))

	// Base62-encode the leading digest bytes, one character per byte. The
	// modulo bias is irrelevant here: the hash is a lookup key, not a
	// uniformity-sensitive token.
	out := make([]byte, GlobalHashLength)
	for i := range out {
		out[i] = base62Chars[int(sum[i])%len(base62Chars)]
	}

	return Code(out)
}
