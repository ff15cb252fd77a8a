package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accountdomain "github.com/AlibekovAA/microblog/internal/account/domain"
	accountservice "github.com/AlibekovAA/microblog/internal/account/service"
	commonerrors "github.com/AlibekovAA/microblog/internal/common/errors"
	"github.com/AlibekovAA/microblog/internal/common/logger"
	"github.com/AlibekovAA/microblog/internal/follow/domain"
	"github.com/AlibekovAA/microblog/internal/storage/storagetest"
)

type fixture struct {
	follows  *FollowService
	accounts *accountservice.AccountService
}

func setupFollowService(t *testing.T) fixture {
	t.Helper()
	store := storagetest.NewSQLiteStore(t)
	log, _ := logger.New("", "test", "error")
	return fixture{
		follows:  NewFollowService(store, log),
		accounts: accountservice.NewAccountService(accountservice.Deps{Store: store, Log: log}),
	}
}

func (f fixture) account(t *testing.T, handle string) accountdomain.ID {
	t.Helper()
	a, err := f.accounts.Create(context.Background(), accountservice.CreateInput{
		Handle:         handle,
		Email:          handle + "@example.com",
		CredentialHash: "hash",
	})
	require.NoError(t, err)
	return a.ID
}

func TestFollow_SelfEdgeSurvivesUnfollow(t *testing.T) {
	f := setupFollowService(t)
	ctx := context.Background()
	john := f.account(t, "john")

	following, err := f.follows.IsFollowing(ctx, john, john)
	require.NoError(t, err)
	assert.True(t, following)

	result, err := f.follows.Unfollow(ctx, john, john)
	require.NoError(t, err)
	assert.Equal(t, domain.CannotUnfollowSelf, result)
	assert.False(t, result.Changed())

	following, err = f.follows.IsFollowing(ctx, john, john)
	require.NoError(t, err)
	assert.True(t, following)

	set, err := f.follows.FollowedSet(ctx, john)
	require.NoError(t, err)
	assert.Equal(t, []accountdomain.ID{john}, set)

	again, err := f.follows.Follow(ctx, john, john)
	require.NoError(t, err)
	assert.Equal(t, domain.AlreadyFollowingSelf, again)
}

func TestFollow_Idempotent(t *testing.T) {
	f := setupFollowService(t)
	ctx := context.Background()
	john := f.account(t, "john")
	susan := f.account(t, "susan")

	before, err := f.follows.FollowersOf(ctx, susan)
	require.NoError(t, err)

	result, err := f.follows.Follow(ctx, john, susan)
	require.NoError(t, err)
	assert.Equal(t, domain.EdgeCreated, result)

	result, err = f.follows.Follow(ctx, john, susan)
	require.NoError(t, err)
	assert.Equal(t, domain.AlreadyFollowing, result)

	after, err := f.follows.FollowersOf(ctx, susan)
	require.NoError(t, err)
	assert.Len(t, after, len(before)+1)
	assert.Contains(t, after, john)

	following, err := f.follows.IsFollowing(ctx, john, susan)
	require.NoError(t, err)
	assert.True(t, following)

	reverse, err := f.follows.IsFollowing(ctx, susan, john)
	require.NoError(t, err)
	assert.False(t, reverse)
}

func TestUnfollow_RemovesExactlyThatEdge(t *testing.T) {
	f := setupFollowService(t)
	ctx := context.Background()
	john := f.account(t, "john")
	susan := f.account(t, "susan")
	david := f.account(t, "david")

	for _, target := range []accountdomain.ID{susan, david} {
		_, err := f.follows.Follow(ctx, john, target)
		require.NoError(t, err)
	}
	_, err := f.follows.Follow(ctx, susan, david)
	require.NoError(t, err)

	result, err := f.follows.Unfollow(ctx, john, susan)
	require.NoError(t, err)
	assert.Equal(t, domain.EdgeRemoved, result)

	set, err := f.follows.FollowedSet(ctx, john)
	require.NoError(t, err)
	assert.ElementsMatch(t, []accountdomain.ID{john, david}, set)

	susanSet, err := f.follows.FollowedSet(ctx, susan)
	require.NoError(t, err)
	assert.ElementsMatch(t, []accountdomain.ID{susan, david}, susanSet)

	result, err = f.follows.Unfollow(ctx, john, susan)
	require.NoError(t, err)
	assert.Equal(t, domain.NotFollowing, result)
}

func TestFollow_UnknownAccount(t *testing.T) {
	f := setupFollowService(t)
	ctx := context.Background()
	john := f.account(t, "john")

	_, err := f.follows.Follow(ctx, john, "ghost")
	assert.True(t, errors.Is(err, commonerrors.ErrAccountNotFound), "got %v", err)

	_, err = f.follows.Unfollow(ctx, "ghost", john)
	assert.True(t, errors.Is(err, commonerrors.ErrAccountNotFound), "got %v", err)

	_, err = f.follows.FollowedSet(ctx, "ghost")
	assert.True(t, errors.Is(err, commonerrors.ErrAccountNotFound), "got %v", err)
}

func TestFollow_ConcurrentCallsCreateOneEdge(t *testing.T) {
	f := setupFollowService(t)
	ctx := context.Background()
	john := f.account(t, "john")
	susan := f.account(t, "susan")

	const workers = 8
	results := make([]domain.FollowResult, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = f.follows.Follow(ctx, john, susan)
		}(i)
	}
	wg.Wait()

	created := 0
	for i := range results {
		require.NoError(t, errs[i])
		if results[i] == domain.EdgeCreated {
			created++
		}
	}
	assert.Equal(t, 1, created)

	counts, err := f.follows.Counts(ctx, susan)
	require.NoError(t, err)
	assert.Equal(t, domain.Counts{Followers: 1, Following: 0}, counts)
}

func TestFollowPages(t *testing.T) {
	f := setupFollowService(t)
	ctx := context.Background()
	john := f.account(t, "john")
	for _, handle := range []string{"anna", "bob", "carl"} {
		id := f.account(t, handle)
		_, err := f.follows.Follow(ctx, id, john)
		require.NoError(t, err)
	}

	page, err := f.follows.FollowersPage(ctx, john, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 4, page.Total)
	assert.True(t, page.HasNext)
	handles := make([]string, len(page.Items))
	for i, s := range page.Items {
		handles[i] = s.Handle
	}
	assert.Equal(t, []string{"anna", "bob", "carl"}, handles)

	page, err = f.follows.FollowersPage(ctx, john, 2, 3)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "john", page.Items[0].Handle)

	followed, err := f.follows.FollowedPage(ctx, john, 1, 3)
	require.NoError(t, err)
	require.Len(t, followed.Items, 1)
	assert.Equal(t, john, followed.Items[0].ID)

	_, err = f.follows.FollowersPage(ctx, john, 0, 3)
	assert.True(t, errors.Is(err, commonerrors.ErrInvalidPageNumber), "got %v", err)

	counts, err := f.follows.Counts(ctx, john)
	require.NoError(t, err)
	assert.Equal(t, domain.Counts{Followers: 3, Following: 0}, counts)
}
