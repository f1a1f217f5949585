package shortener_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/serroba/linkmark/internal/shortener"
	"github.com/serroba/linkmark/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sequentialGenerator() shortener.CodeGenerator {
	n := 0

	return func() string {
		n++

		return fmt.Sprintf("BM%04d", n)
	}
}

func listGenerator(codes ...string) shortener.CodeGenerator {
	i := 0

	return func() string {
		code := codes[i]
		i++

		return code
	}
}

func newService(repo shortener.Repository) *shortener.Service {
	return shortener.NewService(repo, sequentialGenerator(), zap.NewNop())
}

func mustUser(t *testing.T, service *shortener.Service, name string) *shortener.User {
	t.Helper()

	user, err := service.GetUser(context.Background(), name)
	require.NoError(t, err)

	return user
}

func TestService_GetUser(t *testing.T) {
	service := newService(store.NewMemory())

	t.Run("creates user on first sight", func(t *testing.T) {
		user, err := service.GetUser(context.Background(), "alice")

		require.NoError(t, err)
		assert.Equal(t, "alice", user.UserName)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("returns existing user", func(t *testing.T) {
		first, err := service.GetUser(context.Background(), "bob")
		require.NoError(t, err)

		second, err := service.GetUser(context.Background(), "bob")
		require.NoError(t, err)

		assert.Equal(t, first.CreatedAt, second.CreatedAt)
	})

	t.Run("rejects empty user name", func(t *testing.T) {
		_, err := service.GetUser(context.Background(), "")

		assert.Error(t, err)
	})
}

func TestService_Shorten(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a bookmark with parsed keywords", func(t *testing.T) {
		service := newService(store.NewMemory())
		alice := mustUser(t, service, "alice")

		bookmark, err := service.Shorten(ctx, alice, "https://example.com/docs", "docs", "Go, Web;;tools")

		require.NoError(t, err)
		assert.Equal(t, "alice", bookmark.Owner)
		assert.Equal(t, shortener.Code("BM0001"), bookmark.Hash)
		assert.Equal(t, "docs", bookmark.Slug)
		assert.Equal(t, "https://example.com/docs", bookmark.LongURL.URL)
		assert.Len(t, string(bookmark.LongURL.Hash), shortener.GlobalHashLength)
		assert.Equal(t, []shortener.Keyword{{Name: "go"}, {Name: "web"}, {Name: "tools"}}, bookmark.Keywords)
	})

	t.Run("deduplicates equivalent URLs across users", func(t *testing.T) {
		service := newService(store.NewMemory())
		alice := mustUser(t, service, "alice")
		bob := mustUser(t, service, "bob")

		first, err := service.Shorten(ctx, alice, "https://example.com/docs/", "", "")
		require.NoError(t, err)

		second, err := service.Shorten(ctx, bob, "HTTPS://EXAMPLE.COM/docs", "", "")
		require.NoError(t, err)

		assert.Equal(t, first.LongURL.Hash, second.LongURL.Hash)
		assert.NotEqual(t, first.Hash, second.Hash)
	})

	t.Run("same user shortening twice gets distinct bookmarks", func(t *testing.T) {
		service := newService(store.NewMemory())
		alice := mustUser(t, service, "alice")

		first, err := service.Shorten(ctx, alice, "https://example.com/docs", "", "")
		require.NoError(t, err)

		second, err := service.Shorten(ctx, alice, "https://example.com/docs", "", "")
		require.NoError(t, err)

		assert.Equal(t, first.LongURL.Hash, second.LongURL.Hash)
		assert.NotEqual(t, first.Hash, second.Hash)
	})

	t.Run("rejects invalid URL", func(t *testing.T) {
		service := newService(store.NewMemory())
		alice := mustUser(t, service, "alice")

		_, err := service.Shorten(ctx, alice, "not a url", "", "")

		assert.ErrorIs(t, err, shortener.ErrInvalidURL)
	})

	t.Run("rejects invalid slug", func(t *testing.T) {
		service := newService(store.NewMemory())
		alice := mustUser(t, service, "alice")

		_, err := service.Shorten(ctx, alice, "https://example.com", "Not-Valid", "")

		assert.ErrorIs(t, err, shortener.ErrInvalidSlug)
	})

	t.Run("slug conflict leaves no partial write", func(t *testing.T) {
		repo := store.NewMemory()
		service := newService(repo)
		alice := mustUser(t, service, "alice")

		first, err := service.Shorten(ctx, alice, "https://example.com/a", "mine", "")
		require.NoError(t, err)

		_, err = service.Shorten(ctx, alice, "https://example.com/b", "mine", "")
		assert.ErrorIs(t, err, shortener.ErrSlugConflict)

		// The slug still resolves to the first bookmark and the losing
		// bookmark's hash was never stored.
		bySlug, err := service.Expand(ctx, "alice", "mine")
		require.NoError(t, err)
		assert.Equal(t, first.Hash, bySlug.Hash)

		_, err = repo.GetBookmark(ctx, "alice", shortener.Code("BM0002"))
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("same slug works for different owners", func(t *testing.T) {
		service := newService(store.NewMemory())
		alice := mustUser(t, service, "alice")
		bob := mustUser(t, service, "bob")

		_, err := service.Shorten(ctx, alice, "https://example.com/a", "mine", "")
		require.NoError(t, err)

		_, err = service.Shorten(ctx, bob, "https://example.com/b", "mine", "")
		assert.NoError(t, err)
	})

	t.Run("retries on hash collision", func(t *testing.T) {
		service := shortener.NewService(
			store.NewMemory(),
			listGenerator("DUP", "DUP", "FRESH"),
			zap.NewNop(),
		)
		alice := mustUser(t, service, "alice")

		first, err := service.Shorten(ctx, alice, "https://example.com/a", "", "")
		require.NoError(t, err)
		assert.Equal(t, shortener.Code("DUP"), first.Hash)

		second, err := service.Shorten(ctx, alice, "https://example.com/b", "", "")
		require.NoError(t, err)
		assert.Equal(t, shortener.Code("FRESH"), second.Hash)
	})

	t.Run("gives up after exhausting hash attempts", func(t *testing.T) {
		service := shortener.NewService(
			store.NewMemory(),
			listGenerator("DUP", "DUP", "DUP", "DUP", "DUP", "DUP"),
			zap.NewNop(),
		)
		alice := mustUser(t, service, "alice")

		_, err := service.Shorten(ctx, alice, "https://example.com/a", "", "")
		require.NoError(t, err)

		_, err = service.Shorten(ctx, alice, "https://example.com/b", "", "")
		assert.ErrorIs(t, err, shortener.ErrHashExhausted)
	})
}

func TestService_Expand(t *testing.T) {
	ctx := context.Background()
	service := newService(store.NewMemory())
	alice := mustUser(t, service, "alice")

	bookmark, err := service.Shorten(ctx, alice, "https://example.com/docs", "docs", "")
	require.NoError(t, err)

	t.Run("resolves by generated hash", func(t *testing.T) {
		got, err := service.Expand(ctx, "alice", string(bookmark.Hash))

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/docs", got.LongURL.URL)
	})

	t.Run("resolves by slug", func(t *testing.T) {
		got, err := service.Expand(ctx, "alice", "docs")

		require.NoError(t, err)
		assert.Equal(t, bookmark.Hash, got.Hash)
	})

	t.Run("unknown key returns not found", func(t *testing.T) {
		_, err := service.Expand(ctx, "alice", "nothing-here")

		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("key with invalid slug syntax returns not found", func(t *testing.T) {
		_, err := service.Expand(ctx, "alice", "NOPE99")

		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("other owners cannot resolve the key", func(t *testing.T) {
		_, err := service.Expand(ctx, "bob", string(bookmark.Hash))

		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})
}

func TestService_ExpandGlobal(t *testing.T) {
	ctx := context.Background()
	service := newService(store.NewMemory())
	alice := mustUser(t, service, "alice")

	bookmark, err := service.Shorten(ctx, alice, "https://example.com/docs", "", "")
	require.NoError(t, err)

	t.Run("resolves the long URL without an owner", func(t *testing.T) {
		long, err := service.ExpandGlobal(ctx, string(bookmark.LongURL.Hash))

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/docs", long.URL)
	})

	t.Run("unknown hash returns not found", func(t *testing.T) {
		_, err := service.ExpandGlobal(ctx, "zzzzzzz")

		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces slug and keywords", func(t *testing.T) {
		service := newService(store.NewMemory())
		alice := mustUser(t, service, "alice")

		bookmark, err := service.Shorten(ctx, alice, "https://example.com/docs", "docs", "go")
		require.NoError(t, err)

		updated, err := service.Update(ctx, alice, string(bookmark.Hash), "handbook", "web tools")

		require.NoError(t, err)
		assert.Equal(t, "handbook", updated.Slug)
		assert.Equal(t, []shortener.Keyword{{Name: "web"}, {Name: "tools"}}, updated.Keywords)

		// Old slug is released, new one resolves.
		_, err = service.Expand(ctx, "alice", "docs")
		assert.ErrorIs(t, err, shortener.ErrNotFound)

		got, err := service.Expand(ctx, "alice", "handbook")
		require.NoError(t, err)
		assert.Equal(t, bookmark.Hash, got.Hash)
	})

	t.Run("empty slug clears the reservation", func(t *testing.T) {
		service := newService(store.NewMemory())
		alice := mustUser(t, service, "alice")

		bookmark, err := service.Shorten(ctx, alice, "https://example.com/docs", "docs", "")
		require.NoError(t, err)

		updated, err := service.Update(ctx, alice, string(bookmark.Hash), "", "")

		require.NoError(t, err)
		assert.Empty(t, updated.Slug)

		_, err = service.Expand(ctx, "alice", "docs")
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("unknown bookmark returns not found", func(t *testing.T) {
		service := newService(store.NewMemory())
		alice := mustUser(t, service, "alice")

		_, err := service.Update(ctx, alice, "MISSING", "docs", "")

		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("rejects invalid slug", func(t *testing.T) {
		service := newService(store.NewMemory())
		alice := mustUser(t, service, "alice")

		bookmark, err := service.Shorten(ctx, alice, "https://example.com/docs", "", "")
		require.NoError(t, err)

		_, err = service.Update(ctx, alice, string(bookmark.Hash), "-bad-", "")

		assert.ErrorIs(t, err, shortener.ErrInvalidSlug)
	})

	t.Run("slug held by another bookmark conflicts", func(t *testing.T) {
		service := newService(store.NewMemory())
		alice := mustUser(t, service, "alice")

		_, err := service.Shorten(ctx, alice, "https://example.com/a", "taken", "")
		require.NoError(t, err)

		other, err := service.Shorten(ctx, alice, "https://example.com/b", "", "")
		require.NoError(t, err)

		_, err = service.Update(ctx, alice, string(other.Hash), "taken", "")

		assert.ErrorIs(t, err, shortener.ErrSlugConflict)
	})

	t.Run("keeping the same slug is not a conflict", func(t *testing.T) {
		service := newService(store.NewMemory())
		alice := mustUser(t, service, "alice")

		bookmark, err := service.Shorten(ctx, alice, "https://example.com/docs", "docs", "go")
		require.NoError(t, err)

		updated, err := service.Update(ctx, alice, string(bookmark.Hash), "docs", "go web")

		require.NoError(t, err)
		assert.Equal(t, "docs", updated.Slug)
	})
}
