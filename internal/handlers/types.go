package handlers

// CreateBookmarkRequest is the request body for shortening a URL into a
// bookmark. Field names follow the historical form parameters.
type CreateBookmarkRequest struct {
	Body struct {
		LongURL  string `doc:"The URL to shorten"                         example:"https://example.org/very/long/path" format:"uri" json:"longurl"`
		Slug     string `doc:"Optional human-readable alias"              example:"my-page"                            json:"slug,omitempty"`
		Keywords string `doc:"Freeform tags, separated by space/comma/;"  example:"docs, golang"                       json:"keywords,omitempty"`
	}
}

// CreateBookmarkResponse is the response for a successfully created bookmark.
type CreateBookmarkResponse struct {
	Status  int
	Headers struct {
		Location string `doc:"The edit resource of the new bookmark" header:"Location"`
	}
	Body BookmarkView
}

// BookmarkView is the plain key-value result handed to presentation: the
// data an edit form needs.
type BookmarkView struct {
	Hash             string `doc:"The generated per-user hash"           example:"K3F9QZ"                            json:"hash"`
	Slug             string `doc:"The user-chosen alias, if any"         example:"my-page"                           json:"slug,omitempty"`
	LongURL          string `doc:"The original URL"                      example:"https://example.org/very/long/path" json:"longUrl"`
	ShortURL         string `doc:"The user-scoped short URL"             example:"http://localhost:8888/u/alice/b/K3F9QZ" json:"shortUrl"`
	GlobalShortURL   string `doc:"The anonymous short URL"               example:"http://localhost:8888/b/k3f9qzA"   json:"globalShortUrl"`
	SelectedKeywords string `doc:"Space-joined keyword names"            example:"docs golang"                       json:"selectedKeywords"`
}

// EditBookmarkRequest addresses a bookmark for editing.
type EditBookmarkRequest struct {
	Username string `doc:"The bookmark owner"          example:"alice"  path:"username"`
	Hash     string `doc:"The bookmark hash or slug"   example:"K3F9QZ" path:"hash"`
}

// EditBookmarkResponse returns the edit form data for a bookmark.
type EditBookmarkResponse struct {
	Body BookmarkView
}

// UpdateBookmarkRequest replaces the slug and keyword set of a bookmark.
// Keywords are required and always replaced in full; an omitted slug clears
// the alias.
type UpdateBookmarkRequest struct {
	Username string `doc:"The bookmark owner"        example:"alice"  path:"username"`
	Hash     string `doc:"The bookmark hash"         example:"K3F9QZ" path:"hash"`
	Body     struct {
		Keywords string `doc:"Freeform tags, separated by space/comma/;" example:"docs, golang" json:"keywords"`
		Slug     string `doc:"Optional human-readable alias"             example:"my-page"      json:"slug,omitempty"`
	}
}

// RedirectRequest addresses a bookmark for user-scoped redirection.
type RedirectRequest struct {
	Username string `doc:"The bookmark owner"        example:"alice"  path:"username"`
	Hash     string `doc:"The bookmark hash or slug" example:"K3F9QZ" path:"hash"`
}

// GlobalRedirectRequest addresses a long URL by its global hash.
type GlobalRedirectRequest struct {
	GlobalHash string `doc:"The global hash of the long URL" example:"k3f9qzA" path:"globalHash"`
}

// RedirectResponse is a 301 redirect to the resolved long URL.
type RedirectResponse struct {
	Status  int
	Headers struct {
		Location string `doc:"The resolved long URL" header:"Location"`
	}
}
