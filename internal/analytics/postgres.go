package analytics

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists analytics events to PostgreSQL. Events are
// append-only; there is no update or delete path.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed analytics store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const schema = `
CREATE TABLE IF NOT EXISTS bookmark_created_events (
	id          UUID PRIMARY KEY,
	owner       TEXT NOT NULL,
	hash        TEXT NOT NULL,
	slug        TEXT,
	long_url    TEXT NOT NULL,
	global_hash TEXT NOT NULL,
	keywords    TEXT[],
	created_at  TIMESTAMPTZ NOT NULL,
	client_ip   TEXT,
	user_agent  TEXT
);

CREATE TABLE IF NOT EXISTS link_accessed_events (
	id          UUID PRIMARY KEY,
	owner       TEXT,
	key         TEXT NOT NULL,
	long_url    TEXT NOT NULL,
	accessed_at TIMESTAMPTZ NOT NULL,
	client_ip   TEXT,
	user_agent  TEXT,
	referrer    TEXT
);
`

// EnsureSchema creates the event tables if they do not exist yet.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure analytics schema: %w", err)
	}

	return nil
}

func (p *PostgresStore) SaveBookmarkCreated(ctx context.Context, event *BookmarkCreatedEvent) error {
	query := `
		INSERT INTO bookmark_created_events
			(id, owner, hash, slug, long_url, global_hash, keywords, created_at, client_ip, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := p.pool.Exec(ctx, query,
		event.ID,
		event.Owner,
		event.Hash,
		event.Slug,
		event.LongURL,
		event.GlobalHash,
		event.Keywords,
		event.CreatedAt,
		event.ClientIP,
		event.UserAgent,
	)

	return err
}

func (p *PostgresStore) SaveLinkAccessed(ctx context.Context, event *LinkAccessedEvent) error {
	query := `
		INSERT INTO link_accessed_events
			(id, owner, key, long_url, accessed_at, client_ip, user_agent, referrer)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := p.pool.Exec(ctx, query,
		event.ID,
		event.Owner,
		event.Key,
		event.LongURL,
		event.AccessedAt,
		event.ClientIP,
		event.UserAgent,
		event.Referrer,
	)

	return err
}

// Compile-time check.
var _ Store = (*PostgresStore)(nil)
