// Package http exposes the microblog core over JSON. Handlers resolve the
// authenticated account from the bearer token and pass its id explicitly to
// the services; no business rule lives here.
package http

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	accountdomain "github.com/AlibekovAA/microblog/internal/account/domain"
	accountservice "github.com/AlibekovAA/microblog/internal/account/service"
	authservice "github.com/AlibekovAA/microblog/internal/auth/service"
	"github.com/AlibekovAA/microblog/internal/common/config"
	commonhttp "github.com/AlibekovAA/microblog/internal/common/http"
	"github.com/AlibekovAA/microblog/internal/common/jwtverify"
	"github.com/AlibekovAA/microblog/internal/common/logger"
	followservice "github.com/AlibekovAA/microblog/internal/follow/service"
	postservice "github.com/AlibekovAA/microblog/internal/post/service"
	timelineservice "github.com/AlibekovAA/microblog/internal/timeline/service"
)

// PresenceTracker records that an account was active.
type PresenceTracker interface {
	Enqueue(id accountdomain.ID)
}

type Deps struct {
	Auth     *authservice.AuthService
	Accounts *accountservice.AccountService
	Posts    *postservice.PostService
	Follows  *followservice.FollowService
	Timeline *timelineservice.TimelineService
	Presence PresenceTracker
	Store    commonhttp.Pinger
	Limiters *commonhttp.RateLimiters
	Config   config.Config
	Log      *logger.Logger
}

type Handler struct {
	auth     *authservice.AuthService
	accounts *accountservice.AccountService
	posts    *postservice.PostService
	follows  *followservice.FollowService
	timeline *timelineservice.TimelineService
	presence PresenceTracker
	limiters *commonhttp.RateLimiters
	cfg      config.Config
	log      *logger.Logger
	jwt      func(http.Handler) http.Handler
}

func NewHandler(deps Deps) http.Handler {
	h := &Handler{
		auth:     deps.Auth,
		accounts: deps.Accounts,
		posts:    deps.Posts,
		follows:  deps.Follows,
		timeline: deps.Timeline,
		presence: deps.Presence,
		limiters: deps.Limiters,
		cfg:      deps.Config,
		log:      deps.Log,
		jwt:      jwtverify.Middleware(deps.Config.JWTSecret, deps.Log),
	}
	if h.limiters == nil {
		h.limiters = commonhttp.NewRateLimiters()
	}

	timeout := deps.Config.RequestTimeout
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", commonhttp.HealthHandler(deps.Store, timeout, deps.Log))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.Handle("POST /api/register", h.public(h.limiters.Auth, "auth", timeout, h.register))
	mux.Handle("POST /api/login", h.public(h.limiters.Auth, "auth", timeout, h.login))

	mux.Handle("GET /api/me", h.authed(h.limiters.General, "general", timeout, h.me))
	mux.Handle("PATCH /api/me", h.authed(h.limiters.Write, "write", timeout, h.updateMe))
	mux.Handle("POST /api/me/password", h.authed(h.limiters.Auth, "auth", timeout, h.changePassword))

	mux.Handle("GET /api/feed", h.authed(h.limiters.General, "general", timeout, h.feed))
	mux.Handle("GET /api/search", h.authed(h.limiters.General, "general", deps.Config.SearchTimeout, h.search))

	mux.Handle("POST /api/posts", h.authed(h.limiters.Write, "write", timeout, h.createPost))
	mux.Handle("GET /api/posts/{id}", h.authed(h.limiters.General, "general", timeout, h.getPost))
	mux.Handle("DELETE /api/posts/{id}", h.authed(h.limiters.Write, "write", timeout, h.deletePost))

	mux.Handle("GET /api/accounts/{handle}", h.authed(h.limiters.General, "general", timeout, h.profile))
	mux.Handle("GET /api/accounts/{handle}/posts", h.authed(h.limiters.General, "general", timeout, h.accountPosts))
	mux.Handle("GET /api/accounts/{handle}/followers", h.authed(h.limiters.General, "general", timeout, h.followers))
	mux.Handle("GET /api/accounts/{handle}/following", h.authed(h.limiters.General, "general", timeout, h.following))
	mux.Handle("POST /api/accounts/{handle}/follow", h.authed(h.limiters.Write, "write", timeout, h.follow))
	mux.Handle("DELETE /api/accounts/{handle}/follow", h.authed(h.limiters.Write, "write", timeout, h.unfollow))

	return mux
}

func (h *Handler) public(limiter *commonhttp.RateLimiter, limiterType string, timeout time.Duration, fn http.HandlerFunc) http.Handler {
	return limiter.Middleware(limiterType, nil)(commonhttp.WithTimeout(timeout)(fn))
}

// authed runs the token check first so the limiter and presence tracker both
// see the caller's claims.
func (h *Handler) authed(limiter *commonhttp.RateLimiter, limiterType string, timeout time.Duration, fn http.HandlerFunc) http.Handler {
	return h.jwt(h.touch(limiter.Middleware(limiterType, jwtverify.AccountKey)(commonhttp.WithTimeout(timeout)(fn))))
}

func (h *Handler) touch(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims, ok := jwtverify.FromContext(r.Context()); ok && h.presence != nil {
			h.presence.Enqueue(accountdomain.ID(claims.AccountID))
		}
		next.ServeHTTP(w, r)
	})
}

func requester(r *http.Request) accountdomain.ID {
	claims, _ := jwtverify.FromContext(r.Context())
	return accountdomain.ID(claims.AccountID)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	commonhttp.HandleError(w, r, err, h.log)
}
