package analytics

import "time"

// Topics for the bookmark event stream.
const (
	TopicBookmarkCreated = "bookmark.created"
	TopicLinkAccessed    = "link.accessed"
)

// BookmarkCreatedEvent is emitted when a URL is shortened into a bookmark.
type BookmarkCreatedEvent struct {
	ID         string    `json:"id"`
	Owner      string    `json:"owner"`
	Hash       string    `json:"hash"`
	Slug       string    `json:"slug,omitempty"`
	LongURL    string    `json:"longUrl"`
	GlobalHash string    `json:"globalHash"`
	Keywords   []string  `json:"keywords,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	ClientIP   string    `json:"clientIp"`
	UserAgent  string    `json:"userAgent"`
}

// LinkAccessedEvent is emitted when a short link is resolved for redirection.
// Owner is empty for global (anonymous) redirects.
type LinkAccessedEvent struct {
	ID         string    `json:"id"`
	Owner      string    `json:"owner,omitempty"`
	Key        string    `json:"key"`
	LongURL    string    `json:"longUrl"`
	AccessedAt time.Time `json:"accessedAt"`
	ClientIP   string    `json:"clientIp"`
	UserAgent  string    `json:"userAgent"`
	Referrer   string    `json:"referrer,omitempty"`
}
