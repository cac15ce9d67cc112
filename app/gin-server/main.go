package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/codewithwan/erecruitment/config"
	"github.com/codewithwan/erecruitment/internal/api/handlers"
	"github.com/codewithwan/erecruitment/internal/api/middleware"
	"github.com/codewithwan/erecruitment/internal/api/routes"
	"github.com/codewithwan/erecruitment/internal/apiclient"
	"github.com/codewithwan/erecruitment/internal/cache"
	"github.com/codewithwan/erecruitment/internal/events"
	"github.com/codewithwan/erecruitment/internal/logger"
	mongorepo "github.com/codewithwan/erecruitment/internal/repositories/mongo"
	pgrepo "github.com/codewithwan/erecruitment/internal/repositories/postgres"
	"github.com/codewithwan/erecruitment/internal/services"
	"github.com/codewithwan/erecruitment/internal/wizard"
)

const draftPruneEvery = time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info").WithError(err).Fatal("config")
	}
	log := logger.New(cfg.LogLevel)

	// Init MongoDB
	if err := config.InitMongo(cfg.Stores.MongoURI); err != nil {
		log.WithError(err).Fatal("MongoDB init error")
	}
	if err := config.EnsureMongoIndexes(cfg.Stores.MongoDB); err != nil {
		log.WithError(err).Fatal("MongoDB index error")
	}
	log.Info("MongoDB connected")

	// Init PostgreSQL
	if err := config.InitPostgres(cfg.Stores.PostgresURI); err != nil {
		log.WithError(err).Fatal("PostgreSQL init error")
	}
	if err := config.MigratePostgres(); err != nil {
		log.WithError(err).Fatal("PostgreSQL migrate error")
	}
	log.Info("PostgreSQL connected")

	// Init Redis
	if err := config.InitRedis(cfg.Stores.RedisAddr); err != nil {
		log.WithError(err).Fatal("Redis init error")
	}
	log.Info("Redis connected")

	clients, err := apiclient.NewFactory(apiclient.Config{
		BaseURL:   cfg.API.BaseURL,
		CSRFToken: cfg.API.CSRFToken,
		Timeout:   cfg.API.Timeout,
		UserAgent: cfg.API.UserAgent,
	}, nil, log)
	if err != nil {
		log.WithError(err).Fatal("candidate api client")
	}

	drafts := services.NewDraftService(pgrepo.NewDraftRepo(config.PostgresDB), cfg.Stores.DraftTTL)
	activity := services.NewActivityService(
		mongorepo.NewActivityRepo(config.MongoClient.Database(cfg.Stores.MongoDB)),
		cfg.Stores.ActivityTTL, log,
	)
	lookups := services.NewLookupService(cache.NewRedisCache(config.RedisClient, "wizard:"), cfg.Stores.MajorsTTL, log)
	bus := events.NewBus(config.RedisClient, config.RedisClient, log)

	newPage := func(userID string, api apiclient.API) *wizard.Page {
		return wizard.NewPage(api, wizard.Options{
			Emitter:     bus.ForUser(userID),
			Recorder:    activity.ForUser(userID),
			Logger:      log.WithField("user_id", userID),
			BannerDelay: cfg.Wizard.BannerDelay,
			Gate: wizard.GateTiming{
				Banner:  cfg.Wizard.CVBanner,
				OpenURL: cfg.Wizard.OpenURL,
				Recheck: cfg.Wizard.Recheck,
			},
		})
	}
	sessions := services.NewSessionService(clients, newPage, cfg.Wizard.IdleTTL, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sessions.Run(ctx, cfg.Wizard.SweepEvery)
	activityDone := make(chan struct{})
	go func() {
		activity.Run(ctx)
		close(activityDone)
	}()
	go bus.Run(ctx)
	go pruneDrafts(ctx, drafts, log)

	if cfg.LogLevel != "debug" && cfg.LogLevel != "trace" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	routes.RegisterRoutes(r, routes.Deps{
		Auth: middleware.AuthConfig{
			Secret:   cfg.Auth.JWTSecret,
			Issuer:   cfg.Auth.Issuer,
			Audience: cfg.Auth.Audience,
		},
		Roles:    cfg.Auth.Roles,
		Wizard:   handlers.NewWizardHandler(sessions, drafts, log),
		Drafts:   handlers.NewDraftHandler(drafts),
		Lookups:  handlers.NewLookupHandler(lookups, clients),
		Activity: handlers.NewActivityHandler(activity),
		WS:       handlers.NewWSHandler(sessions, bus, cfg.Auth.Origins, log),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("wizard server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("server shutdown")
	}
	select {
	case <-activityDone:
	case <-shutdownCtx.Done():
		log.Warn("activity not flushed before shutdown")
	}
	_ = config.RedisClient.Close()
	_ = config.MongoClient.Disconnect(shutdownCtx)
}

func pruneDrafts(ctx context.Context, drafts services.DraftService, log logrus.FieldLogger) {
	t := time.NewTicker(draftPruneEvery)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := drafts.Prune(ctx)
			if err != nil {
				log.WithError(err).Warn("draft prune failed")
				continue
			}
			if n > 0 {
				log.WithField("deleted", n).Info("stale drafts pruned")
			}
		}
	}
}
