package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accountdomain "github.com/AlibekovAA/microblog/internal/account/domain"
	accountrepo "github.com/AlibekovAA/microblog/internal/account/repository"
	postdomain "github.com/AlibekovAA/microblog/internal/post/domain"
	postrepo "github.com/AlibekovAA/microblog/internal/post/repository"
	"github.com/AlibekovAA/microblog/internal/storage"
)

var base = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func seedAccount(t *testing.T, store *Store, id, handle string) accountdomain.Account {
	t.Helper()
	a := accountdomain.Account{
		ID:           accountdomain.ID(id),
		Handle:       handle,
		Email:        handle + "@example.com",
		PasswordHash: "hash",
		LastSeen:     base,
		CreatedAt:    base,
	}
	require.NoError(t, store.Accounts().Create(context.Background(), a))
	return a
}

func TestMigrate_Idempotent(t *testing.T) {
	store := openStore(t)
	require.NoError(t, store.Migrate(context.Background()))
	require.NoError(t, store.Ping(context.Background()))
}

func TestAccounts_RoundTripAndConflicts(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	john := seedAccount(t, store, "a1", "john")

	got, err := store.Accounts().FindByHandle(ctx, "john")
	require.NoError(t, err)
	assert.Equal(t, john.ID, got.ID)
	assert.True(t, got.CreatedAt.Equal(base))

	dupHandle := john
	dupHandle.ID = "a2"
	dupHandle.Email = "other@example.com"
	assert.ErrorIs(t, store.Accounts().Create(ctx, dupHandle), accountrepo.ErrHandleExists)

	dupEmail := john
	dupEmail.ID = "a3"
	dupEmail.Handle = "johnny"
	assert.ErrorIs(t, store.Accounts().Create(ctx, dupEmail), accountrepo.ErrEmailExists)

	_, err = store.Accounts().FindByID(ctx, "missing")
	assert.ErrorIs(t, err, accountrepo.ErrAccountNotFound)
}

func TestAccounts_UpdateLastSeenBatch(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	seedAccount(t, store, "a1", "john")
	seedAccount(t, store, "a2", "susan")

	later := base.Add(time.Hour)
	require.NoError(t, store.Accounts().UpdateLastSeenBatch(ctx, []accountdomain.ID{"a1", "a2"}, later))

	for _, id := range []accountdomain.ID{"a1", "a2"} {
		a, err := store.Accounts().FindByID(ctx, id)
		require.NoError(t, err)
		assert.True(t, a.LastSeen.Equal(later), "account %s", id)
	}
}

func TestFollows_InsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	seedAccount(t, store, "a1", "john")
	seedAccount(t, store, "a2", "susan")

	created, err := store.Follows().Insert(ctx, "a1", "a2")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = store.Follows().Insert(ctx, "a1", "a2")
	require.NoError(t, err)
	assert.False(t, created)

	n, err := store.Follows().CountFollowers(ctx, "a2")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = store.Follows().Insert(ctx, "a1", "ghost")
	assert.ErrorIs(t, err, accountrepo.ErrAccountNotFound)

	removed, err := store.Follows().Delete(ctx, "a1", "a2")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = store.Follows().Delete(ctx, "a1", "a2")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestPosts_ListByAuthorsOrdersNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	seedAccount(t, store, "a1", "john")
	seedAccount(t, store, "a2", "susan")

	var ids []postdomain.ID
	for i, author := range []accountdomain.ID{"a1", "a2", "a1"} {
		p, err := store.Posts().Create(ctx, postdomain.Post{
			AuthorID:  author,
			Body:      "post",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}
	// same timestamp as the newest; higher id wins the tie
	tie, err := store.Posts().Create(ctx, postdomain.Post{AuthorID: "a2", Body: "tie", CreatedAt: base.Add(2 * time.Second)})
	require.NoError(t, err)

	authors := []accountdomain.ID{"a1", "a2"}
	total, err := store.Posts().CountByAuthors(ctx, authors)
	require.NoError(t, err)
	assert.Equal(t, 4, total)

	page, err := store.Posts().ListByAuthors(ctx, authors, 0, 10)
	require.NoError(t, err)
	require.Len(t, page, 4)
	assert.Equal(t, []postdomain.ID{tie.ID, ids[2], ids[1], ids[0]},
		[]postdomain.ID{page[0].ID, page[1].ID, page[2].ID, page[3].ID})

	rest, err := store.Posts().ListByAuthors(ctx, authors, 3, 10)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, ids[0], rest[0].ID)
}

func TestPosts_CreateWithUnknownAuthor(t *testing.T) {
	store := openStore(t)
	_, err := store.Posts().Create(context.Background(), postdomain.Post{AuthorID: "ghost", Body: "x", CreatedAt: base})
	assert.ErrorIs(t, err, postrepo.ErrAuthorNotFound)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	boom := errors.New("boom")

	err := store.WithTx(ctx, func(ctx context.Context, repos storage.Repositories) error {
		if err := repos.Accounts().Create(ctx, accountdomain.Account{
			ID: "a1", Handle: "john", Email: "john@example.com", LastSeen: base, CreatedAt: base,
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = store.Accounts().FindByID(ctx, "a1")
	assert.ErrorIs(t, err, accountrepo.ErrAccountNotFound)
}

func TestSearchIndex(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	seedAccount(t, store, "a1", "john")

	bodies := []string{"my first post", "hello world", "first steps in go"}
	var posts []postdomain.Post
	for i, body := range bodies {
		p, err := store.Posts().Create(ctx, postdomain.Post{AuthorID: "a1", Body: body, CreatedAt: base.Add(time.Duration(i) * time.Second)})
		require.NoError(t, err)
		require.NoError(t, store.SearchIndex().Index(ctx, p))
		posts = append(posts, p)
	}

	ids, err := store.SearchIndex().Search(ctx, "FIRST", 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []postdomain.ID{posts[0].ID, posts[2].ID}, ids)

	ids, err = store.SearchIndex().Search(ctx, "first go", 10)
	require.NoError(t, err)
	assert.Equal(t, []postdomain.ID{posts[2].ID}, ids)

	ids, err = store.SearchIndex().Search(ctx, `"OR" NEAR(`, 10)
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, store.SearchIndex().Remove(ctx, posts[0].ID))
	ids, err = store.SearchIndex().Search(ctx, "first", 1)
	require.NoError(t, err)
	assert.Equal(t, []postdomain.ID{posts[2].ID}, ids)
}
