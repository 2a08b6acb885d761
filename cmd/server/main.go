package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"quizbank/internal/accessgate"
	"quizbank/internal/bundle"
	"quizbank/internal/category"
	"quizbank/internal/events"
	httpapi "quizbank/internal/http"
	"quizbank/internal/identity"
	"quizbank/internal/platform/async"
	"quizbank/internal/platform/config"
	"quizbank/internal/platform/httpserver"
	"quizbank/internal/platform/logger"
	"quizbank/internal/platform/metrics"
	"quizbank/internal/platform/postgres"
	platformredis "quizbank/internal/platform/redis"
	"quizbank/internal/quality"
	"quizbank/internal/question"
	"quizbank/internal/reconcile"
	"quizbank/internal/search"
	"quizbank/internal/store"
)

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal services.
func main() {
	log := logger.New()
	ctx := context.Background()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := postgres.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Error("primary store unavailable", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	primary := store.NewPostgres(db)
	if err := primary.Migrate(ctx); err != nil {
		log.Error("primary store migration failed", "error", err)
		os.Exit(1)
	}
	if err := identity.SeedAdmin(ctx, primary, log); err != nil {
		log.Error("admin bootstrap failed", "error", err)
		os.Exit(1)
	}

	m := metrics.New()

	var index search.Index = search.NopIndex{}
	redisClient, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		log.Error("search index unavailable", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		index = search.NewRedisIndex(redisClient.Client)
	} else {
		log.Warn("no search index configured, syncs are no-ops")
	}

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, err := events.NewKafkaPublisher(ctx, cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			log.Error("event broker unavailable", "error", err)
			os.Exit(1)
		}
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	} else {
		log.Warn("no event brokers configured, publishes are no-ops")
	}

	runner := async.New(log, config.SyncTimeout, async.WithFailureHook(func(name string) {
		if strings.HasPrefix(name, "index-") {
			m.IndexSyncFailures.Inc()
			return
		}
		m.EventPublishDropped.Inc()
	}))

	gate := accessgate.New(primary, log)
	syncer := search.NewSyncer(index, cfg.IndexName, runner, log, m)
	verifier := identity.NewVerifier(cfg.JWTSigningKey, "quizbank")

	questionService := question.NewService(primary, gate, syncer, publisher, runner, log, m)
	reconcileService := reconcile.NewService(primary, gate, reconcile.Registry, publisher, runner, log, m)
	bundleBuilder := bundle.NewBuilder(primary, m)
	categoryService := category.NewService(primary, gate, log)
	metadataLookup := quality.NewHTTPMetadataLookup(cfg.MetadataBaseURL, nil, log)
	qualityService := quality.NewService(primary, gate, metadataLookup)

	router := httpapi.NewRouter(verifier, identity.NewHandler(primary, verifier, log), log,
		question.NewHandler(questionService, log),
		reconcile.NewHandler(reconcileService, log),
		bundle.NewHandler(bundleBuilder, log),
		category.NewHandler(categoryService, log),
		quality.NewHandler(qualityService, log),
	)

	srv := httpserver.New(cfg.Addr, router)
	log.Info("starting quizbank", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}

	// Drain in-flight best-effort tasks so a deploy doesn't silently drop the
	// last few index syncs.
	runner.Wait()
}
