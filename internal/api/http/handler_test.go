package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	accountdomain "github.com/AlibekovAA/microblog/internal/account/domain"
	accountservice "github.com/AlibekovAA/microblog/internal/account/service"
	authservice "github.com/AlibekovAA/microblog/internal/auth/service"
	"github.com/AlibekovAA/microblog/internal/common/clock"
	"github.com/AlibekovAA/microblog/internal/common/config"
	commoncrypto "github.com/AlibekovAA/microblog/internal/common/crypto"
	commonhttp "github.com/AlibekovAA/microblog/internal/common/http"
	"github.com/AlibekovAA/microblog/internal/common/logger"
	followservice "github.com/AlibekovAA/microblog/internal/follow/service"
	postservice "github.com/AlibekovAA/microblog/internal/post/service"
	"github.com/AlibekovAA/microblog/internal/storage/storagetest"
	timelineservice "github.com/AlibekovAA/microblog/internal/timeline/service"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type recordingPresence struct {
	mu  sync.Mutex
	ids []accountdomain.ID
}

func (p *recordingPresence) Enqueue(id accountdomain.ID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ids = append(p.ids, id)
}

func (p *recordingPresence) seen() []accountdomain.ID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]accountdomain.ID(nil), p.ids...)
}

type client struct {
	t   *testing.T
	srv *httptest.Server
}

func newClient(t *testing.T) (*client, *recordingPresence) {
	t.Helper()
	store := storagetest.NewSQLiteStore(t)
	log := logger.NewWithWriter(io.Discard, "microblog-test", "error")

	cfg := config.Config{
		JWTSecret:        testSecret,
		AccessTokenTTL:   time.Hour,
		PostsPerPage:     3,
		FollowersPerPage: 3,
		MaxSearchResults: 50,
		RequestTimeout:   5 * time.Second,
		SearchTimeout:    5 * time.Second,
	}

	accounts := accountservice.NewAccountService(accountservice.Deps{Store: store, Log: log})
	issuer := authservice.NewTokenIssuer(cfg.JWTSecret, commoncrypto.NewUUIDGenerator(), cfg.AccessTokenTTL, clock.NewRealClock())
	limiters := &commonhttp.RateLimiters{
		Auth:    commonhttp.NewRateLimiter(1000, 1000),
		Write:   commonhttp.NewRateLimiter(1000, 1000),
		General: commonhttp.NewRateLimiter(1000, 1000),
	}
	t.Cleanup(limiters.Stop)

	presence := &recordingPresence{}
	handler := NewHandler(Deps{
		Auth:     authservice.NewAuthService(accounts, commoncrypto.NewBcryptHasher(bcrypt.MinCost), issuer, log),
		Accounts: accounts,
		Posts:    postservice.NewPostService(postservice.Deps{Store: store, Log: log, MaxSearchResults: cfg.MaxSearchResults}),
		Follows:  followservice.NewFollowService(store, log),
		Timeline: timelineservice.NewTimelineService(store, log),
		Presence: presence,
		Store:    store,
		Limiters: limiters,
		Config:   cfg,
		Log:      log,
	})

	srv := httptest.NewServer(commonhttp.BuildBaseHandler("microblog-test", log, handler))
	t.Cleanup(srv.Close)
	return &client{t: t, srv: srv}, presence
}

func (c *client) do(method, path, token string, body any, out any) int {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, c.srv.URL+path, reader)
	require.NoError(c.t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.srv.Client().Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode != http.StatusNoContent {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (c *client) register(handle string) tokenResponse {
	c.t.Helper()
	var resp tokenResponse
	status := c.do(http.MethodPost, "/api/register", "", registerRequest{
		Handle:   handle,
		Email:    handle + "@example.com",
		Password: "password123",
	}, &resp)
	require.Equal(c.t, http.StatusCreated, status)
	return resp
}

func postIDs(page pageResponse[postResponse]) []int64 {
	ids := make([]int64, len(page.Items))
	for i, p := range page.Items {
		ids[i] = p.ID
	}
	return ids
}

func TestAPI_FeedFollowAndDelete(t *testing.T) {
	c, presence := newClient(t)

	john := c.register("john")
	susan := c.register("susan")
	assert.Equal(t, "john@example.com", john.Account.Email)
	assert.Contains(t, john.Account.AvatarURL, "d4c74594d841139328695756648b6bd6")

	var p1, p2 postResponse
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/posts", john.Token, createPostRequest{Body: "hello from john"}, &p1))
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/posts", susan.Token, createPostRequest{Body: "susan here"}, &p2))

	var followed followResponse
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/accounts/susan/follow", john.Token, nil, &followed))
	assert.Equal(t, "edge_created", followed.Result)
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/accounts/susan/follow", john.Token, nil, &followed))
	assert.Equal(t, "already_following", followed.Result)
	assert.False(t, followed.Changed)

	var feed pageResponse[postResponse]
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/feed", john.Token, nil, &feed))
	assert.Equal(t, []int64{p2.ID, p1.ID}, postIDs(feed))
	assert.Equal(t, 2, feed.Total)

	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/feed", susan.Token, nil, &feed))
	assert.Equal(t, []int64{p2.ID}, postIDs(feed))

	var profile profileResponse
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/accounts/susan", john.Token, nil, &profile))
	assert.Equal(t, 1, profile.Followers)
	assert.Equal(t, 0, profile.Following)
	assert.True(t, profile.IsFollowing)
	assert.Empty(t, profile.Email)

	var followers pageResponse[accountResponse]
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/accounts/susan/followers", john.Token, nil, &followers))
	handles := make([]string, len(followers.Items))
	for i, a := range followers.Items {
		handles[i] = a.Handle
	}
	assert.Equal(t, []string{"john", "susan"}, handles)

	var env commonhttp.ErrorEnvelope
	require.Equal(t, http.StatusForbidden, c.do(http.MethodDelete, "/api/posts/"+strconv.FormatInt(p2.ID, 10), john.Token, nil, &env))
	assert.Equal(t, "NOT_AUTHOR", env.Code)
	assert.NotEmpty(t, env.TraceID)

	require.Equal(t, http.StatusNoContent, c.do(http.MethodDelete, "/api/posts/"+strconv.FormatInt(p2.ID, 10), susan.Token, nil, nil))
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/feed", john.Token, nil, &feed))
	assert.Equal(t, []int64{p1.ID}, postIDs(feed))

	var unfollowed followResponse
	require.Equal(t, http.StatusOK, c.do(http.MethodDelete, "/api/accounts/susan/follow", john.Token, nil, &unfollowed))
	assert.Equal(t, "edge_removed", unfollowed.Result)

	require.Equal(t, http.StatusConflict, c.do(http.MethodDelete, "/api/accounts/john/follow", john.Token, nil, &env))
	assert.Equal(t, "CANNOT_UNFOLLOW_SELF", env.Code)

	assert.Contains(t, presence.seen(), accountdomain.ID(john.Account.ID))
}

func TestAPI_SearchAndAccountPosts(t *testing.T) {
	c, _ := newClient(t)
	john := c.register("john")

	var first postResponse
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/posts", john.Token, createPostRequest{Body: "learning go today"}, &first))
	for _, body := range []string{"second post", "third post", "fourth post"} {
		require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/posts", john.Token, createPostRequest{Body: body}, nil))
	}

	var results struct {
		Items []postResponse `json:"items"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/search?q=learning", john.Token, nil, &results))
	require.Len(t, results.Items, 1)
	assert.Equal(t, first.ID, results.Items[0].ID)

	var env commonhttp.ErrorEnvelope
	require.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/api/search?q=+", john.Token, nil, &env))
	assert.Equal(t, "EMPTY_QUERY", env.Code)

	var page pageResponse[postResponse]
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/accounts/john/posts?page=2", john.Token, nil, &page))
	assert.Equal(t, []int64{first.ID}, postIDs(page))
	assert.False(t, page.HasNext)
	assert.True(t, page.HasPrev)
	assert.Equal(t, 2, page.TotalPages)

	var far pageResponse[postResponse]
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/feed?page=3074457345618258604&size=3", john.Token, nil, &far))
	assert.Empty(t, far.Items)
	assert.False(t, far.HasNext)

	require.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/api/feed?size=0", john.Token, nil, &env))
	assert.Equal(t, "INVALID_PAGE_SIZE", env.Code)
}

func TestAPI_AuthFailures(t *testing.T) {
	c, _ := newClient(t)
	c.register("john")

	var env commonhttp.ErrorEnvelope
	require.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/api/feed", "", nil, &env))
	assert.Equal(t, commonhttp.CodeMissingAuthorization, env.Code)

	require.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/api/feed", "not-a-token", nil, &env))
	assert.Equal(t, commonhttp.CodeInvalidToken, env.Code)

	require.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/api/register", "", registerRequest{
		Handle:   "john",
		Email:    "other@example.com",
		Password: "password123",
	}, &env))
	assert.Equal(t, "DUPLICATE_HANDLE", env.Code)

	require.Equal(t, http.StatusUnauthorized, c.do(http.MethodPost, "/api/login", "", loginRequest{
		Email:    "john@example.com",
		Password: "password124",
	}, &env))
	assert.Equal(t, "INVALID_CREDENTIALS", env.Code)

	var login tokenResponse
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/login", "", loginRequest{
		Email:    "john@example.com",
		Password: "password123",
	}, &login))
	assert.NotEmpty(t, login.Token)

	require.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/login", "", map[string]string{"username": "john"}, &env))
	assert.Equal(t, commonhttp.CodeInvalidJSON, env.Code)
}

func TestAPI_UpdateMeAndPassword(t *testing.T) {
	c, _ := newClient(t)
	john := c.register("john")

	bio := "gopher"
	var me accountResponse
	require.Equal(t, http.StatusOK, c.do(http.MethodPatch, "/api/me", john.Token, updateMeRequest{Bio: &bio}, &me))
	assert.Equal(t, "gopher", me.Bio)
	assert.Equal(t, "john", me.Handle)

	require.Equal(t, http.StatusNoContent, c.do(http.MethodPost, "/api/me/password", john.Token, changePasswordRequest{
		CurrentPassword: "password123",
		NewPassword:     "newpassword9",
	}, nil))

	var env commonhttp.ErrorEnvelope
	require.Equal(t, http.StatusUnauthorized, c.do(http.MethodPost, "/api/login", "", loginRequest{
		Email:    "john@example.com",
		Password: "password123",
	}, &env))
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/login", "", loginRequest{
		Email:    "john@example.com",
		Password: "newpassword9",
	}, nil))

	var health map[string]string
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/health", "", nil, &health))
	assert.Equal(t, "ok", health["status"])
}
