package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/linkmark/internal/shortener"
)

const uniqueViolation = "23505"

// Postgres is a PostgreSQL implementation of shortener.Repository.
//
// Uniqueness is enforced by the database: (owner, hash) is the bookmark
// primary key and (owner, slug) has a partial unique index, so the conflict
// check and the row write are a single atomic unit.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a new PostgreSQL-backed repository.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	user_name  TEXT PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS long_urls (
	hash       TEXT PRIMARY KEY,
	url        TEXT NOT NULL UNIQUE,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS bookmarks (
	owner         TEXT NOT NULL REFERENCES users (user_name),
	hash          TEXT NOT NULL,
	slug          TEXT,
	long_url_hash TEXT NOT NULL REFERENCES long_urls (hash),
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (owner, hash)
);

CREATE UNIQUE INDEX IF NOT EXISTS bookmarks_owner_slug_idx
	ON bookmarks (owner, slug) WHERE slug IS NOT NULL;

CREATE TABLE IF NOT EXISTS keywords (
	name TEXT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS bookmark_keywords (
	owner        TEXT NOT NULL,
	hash         TEXT NOT NULL,
	keyword_name TEXT NOT NULL REFERENCES keywords (name),
	PRIMARY KEY (owner, hash, keyword_name),
	FOREIGN KEY (owner, hash) REFERENCES bookmarks (owner, hash)
);
`

// EnsureSchema creates the tables if they do not exist yet.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	return nil
}

func (p *Postgres) SaveLongURL(ctx context.Context, long *shortener.LongURL) error {
	query := `
		INSERT INTO long_urls (hash, url, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (url) DO NOTHING
	`

	_, err := p.pool.Exec(ctx, query, string(long.Hash), long.URL, long.CreatedAt)
	if isUniqueViolation(err, "long_urls_pkey") {
		return shortener.ErrHashTaken
	}

	return err
}

func (p *Postgres) GetLongURLByURL(ctx context.Context, normalizedURL string) (*shortener.LongURL, error) {
	return p.getLongURL(ctx, "url = $1", normalizedURL)
}

func (p *Postgres) GetLongURLByHash(ctx context.Context, hash shortener.Code) (*shortener.LongURL, error) {
	return p.getLongURL(ctx, "hash = $1", string(hash))
}

func (p *Postgres) getLongURL(ctx context.Context, where, arg string) (*shortener.LongURL, error) {
	query := `SELECT hash, url, created_at FROM long_urls WHERE ` + where

	var long shortener.LongURL

	err := p.pool.QueryRow(ctx, query, arg).Scan(&long.Hash, &long.URL, &long.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	return &long, nil
}

func (p *Postgres) SaveBookmark(ctx context.Context, bookmark *shortener.Bookmark) error {
	query := `
		INSERT INTO bookmarks (owner, hash, slug, long_url_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := p.pool.Exec(ctx, query,
		bookmark.Owner,
		string(bookmark.Hash),
		nullableString(bookmark.Slug),
		string(bookmark.LongURL.Hash),
		bookmark.CreatedAt,
		bookmark.UpdatedAt,
	)

	switch {
	case isUniqueViolation(err, "bookmarks_pkey"):
		return shortener.ErrHashTaken
	case isUniqueViolation(err, "bookmarks_owner_slug_idx"):
		return shortener.ErrSlugConflict
	}

	return err
}

func (p *Postgres) UpdateBookmark(ctx context.Context, bookmark *shortener.Bookmark) error {
	query := `
		UPDATE bookmarks
		SET slug = $3, updated_at = $4
		WHERE owner = $1 AND hash = $2
	`

	tag, err := p.pool.Exec(ctx, query,
		bookmark.Owner,
		string(bookmark.Hash),
		nullableString(bookmark.Slug),
		bookmark.UpdatedAt,
	)
	if isUniqueViolation(err, "bookmarks_owner_slug_idx") {
		return shortener.ErrSlugConflict
	}

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return shortener.ErrNotFound
	}

	return nil
}

func (p *Postgres) GetBookmark(ctx context.Context, owner string, hash shortener.Code) (*shortener.Bookmark, error) {
	return p.getBookmark(ctx, "b.owner = $1 AND b.hash = $2", owner, string(hash))
}

func (p *Postgres) GetBookmarkBySlug(ctx context.Context, owner, slug string) (*shortener.Bookmark, error) {
	return p.getBookmark(ctx, "b.owner = $1 AND b.slug = $2", owner, slug)
}

func (p *Postgres) getBookmark(ctx context.Context, where string, args ...any) (*shortener.Bookmark, error) {
	query := `
		SELECT b.owner, b.hash, b.slug, b.created_at, b.updated_at,
		       l.hash, l.url, l.created_at
		FROM bookmarks b
		JOIN long_urls l ON l.hash = b.long_url_hash
		WHERE ` + where

	var (
		bookmark shortener.Bookmark
		long     shortener.LongURL
		slug     *string
	)

	err := p.pool.QueryRow(ctx, query, args...).Scan(
		&bookmark.Owner,
		&bookmark.Hash,
		&slug,
		&bookmark.CreatedAt,
		&bookmark.UpdatedAt,
		&long.Hash,
		&long.URL,
		&long.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	if slug != nil {
		bookmark.Slug = *slug
	}

	bookmark.LongURL = &long

	keywords, err := p.bookmarkKeywords(ctx, bookmark.Owner, bookmark.Hash)
	if err != nil {
		return nil, err
	}

	bookmark.Keywords = keywords

	return &bookmark, nil
}

func (p *Postgres) bookmarkKeywords(ctx context.Context, owner string, hash shortener.Code) ([]shortener.Keyword, error) {
	query := `
		SELECT keyword_name FROM bookmark_keywords
		WHERE owner = $1 AND hash = $2
		ORDER BY keyword_name
	`

	rows, err := p.pool.Query(ctx, query, owner, string(hash))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keywords []shortener.Keyword

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}

		keywords = append(keywords, shortener.Keyword{Name: name})
	}

	return keywords, rows.Err()
}

func (p *Postgres) ReplaceKeywords(ctx context.Context, owner string, hash shortener.Code, names []string) ([]shortener.Keyword, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var exists bool

	err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM bookmarks WHERE owner = $1 AND hash = $2)`,
		owner, string(hash),
	).Scan(&exists)
	if err != nil {
		return nil, err
	}

	if !exists {
		return nil, shortener.ErrNotFound
	}

	_, err = tx.Exec(ctx,
		`DELETE FROM bookmark_keywords WHERE owner = $1 AND hash = $2`,
		owner, string(hash),
	)
	if err != nil {
		return nil, err
	}

	keywords := make([]shortener.Keyword, 0, len(names))

	for _, name := range names {
		_, err = tx.Exec(ctx,
			`INSERT INTO keywords (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`,
			name,
		)
		if err != nil {
			return nil, err
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO bookmark_keywords (owner, hash, keyword_name) VALUES ($1, $2, $3)`,
			owner, string(hash), name,
		)
		if err != nil {
			return nil, err
		}

		keywords = append(keywords, shortener.Keyword{Name: name})
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return keywords, nil
}

func (p *Postgres) EnsureUser(ctx context.Context, userName string) (*shortener.User, error) {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO users (user_name, created_at) VALUES ($1, NOW()) ON CONFLICT (user_name) DO NOTHING`,
		userName,
	)
	if err != nil {
		return nil, err
	}

	var user shortener.User

	err = p.pool.QueryRow(ctx,
		`SELECT user_name, created_at FROM users WHERE user_name = $1`,
		userName,
	).Scan(&user.UserName, &user.CreatedAt)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) &&
		pgErr.Code == uniqueViolation &&
		pgErr.ConstraintName == constraint
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

// Compile-time check.
var _ shortener.Repository = (*Postgres)(nil)
