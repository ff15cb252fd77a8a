package main

import (
	"context"
	"fmt"
	"os"

	"github.com/AlibekovAA/microblog/internal/account/presence"
	accountservice "github.com/AlibekovAA/microblog/internal/account/service"
	apihttp "github.com/AlibekovAA/microblog/internal/api/http"
	authservice "github.com/AlibekovAA/microblog/internal/auth/service"
	"github.com/AlibekovAA/microblog/internal/common/clock"
	"github.com/AlibekovAA/microblog/internal/common/config"
	"github.com/AlibekovAA/microblog/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/microblog/internal/common/crypto"
	commonhttp "github.com/AlibekovAA/microblog/internal/common/http"
	"github.com/AlibekovAA/microblog/internal/common/logger"
	srv "github.com/AlibekovAA/microblog/internal/common/server"
	followservice "github.com/AlibekovAA/microblog/internal/follow/service"
	postservice "github.com/AlibekovAA/microblog/internal/post/service"
	timelineservice "github.com/AlibekovAA/microblog/internal/timeline/service"
)

const serviceName = "microblog"

func main() {
	log, err := logger.New(os.Getenv("LOG_DIR"), serviceName, os.Getenv("LOG_LEVEL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatalf("failed to open %s store: %v", cfg.StorageDriver, err)
	}

	clk := clock.NewRealClock()
	idGenerator := commoncrypto.NewUUIDGenerator()

	accounts := accountservice.NewAccountService(accountservice.Deps{
		Store:       store,
		IDGenerator: idGenerator,
		Clock:       clk,
		Log:         log,
	})
	posts := postservice.NewPostService(postservice.Deps{
		Store:            store,
		Clock:            clk,
		Log:              log,
		MaxSearchResults: cfg.MaxSearchResults,
	})
	follows := followservice.NewFollowService(store, log)
	timeline := timelineservice.NewTimelineService(store, log)

	issuer := authservice.NewTokenIssuer(cfg.JWTSecret, idGenerator, cfg.AccessTokenTTL, clk)
	auth := authservice.NewAuthService(accounts, commoncrypto.NewBcryptHasher(constants.BcryptCost), issuer, log)

	lastSeen := presence.NewUpdater(ctx, accounts, log, clk, cfg.LastSeenInterval, constants.LastSeenFlushEvery)
	limiters := commonhttp.NewRateLimiters()

	handler := apihttp.NewHandler(apihttp.Deps{
		Auth:     auth,
		Accounts: accounts,
		Posts:    posts,
		Follows:  follows,
		Timeline: timeline,
		Presence: lastSeen,
		Store:    store,
		Limiters: limiters,
		Config:   cfg,
		Log:      log,
	})

	server := srv.NewServer(cfg, commonhttp.BuildBaseHandler(serviceName, log, handler))

	shutdownHooks := []srv.ShutdownHook{
		func(ctx context.Context) error {
			log.Infof("%s service: flushing last-seen updates", serviceName)
			lastSeen.Stop()
			limiters.Stop()
			return nil
		},
	}

	srv.StartWithGracefulShutdownAndHooks(server, log, serviceName, shutdownHooks)

	cancel()
	if err := store.Close(); err != nil {
		log.Errorf("failed to close store: %v", err)
	}
}
