package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	_ "modernc.org/sqlite"

	"github.com/gympulse/member-portal/internal/api"
	"github.com/gympulse/member-portal/internal/core/ports"
	"github.com/gympulse/member-portal/internal/core/service"
	"github.com/gympulse/member-portal/internal/infrastructure/config"
	mongodb "github.com/gympulse/member-portal/internal/infrastructure/db/mongo"
	redisdb "github.com/gympulse/member-portal/internal/infrastructure/db/redis"
	"github.com/gympulse/member-portal/internal/infrastructure/gymapi"
	healthhandlers "github.com/gympulse/member-portal/internal/infrastructure/http/handlers"
	"github.com/gympulse/member-portal/internal/infrastructure/queue"
	"github.com/gympulse/member-portal/internal/infrastructure/tokenstore"
	"github.com/gympulse/member-portal/pkg/logger"
)

const (
	pruneInterval = 15 * time.Minute
	pruneIdleFor  = 24 * time.Hour
)

func main() {
	cfg := config.Load(slog.Default())

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Durable token slot backend ---
	var (
		tokens ports.TokenStore
		probes = map[string]healthhandlers.Pinger{}
	)
	switch cfg.TokenStore {
	case "sqlite":
		db, err := sql.Open("sqlite", cfg.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Msg("open sqlite")
		}
		defer db.Close()
		store := tokenstore.NewSQLiteStore(db)
		if err := store.Migrate(ctx); err != nil {
			log.Fatal().Err(err).Msg("migrate sqlite token store")
		}
		tokens = store
		probes["sqlite"] = store
	case "redis":
		rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("connect redis")
		}
		defer rdb.Close()
		store := tokenstore.NewRedisStore(rdb, cfg.SessionTTL)
		tokens = store
		probes["redis"] = store
	default:
		log.Fatal().Str("token_store", cfg.TokenStore).Msg("unknown token store backend")
	}

	// --- Audit trail ---
	var audit ports.AuditRecorder
	if cfg.Audit.Enabled {
		var sink ports.AuditSink = queue.NewLogSink(log)
		if cfg.Mongo.URI != "" {
			client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
			if err != nil {
				log.Fatal().Err(err).Msg("connect mongo")
			}
			defer func() {
				_ = client.Disconnect(context.Background())
			}()
			sink = mongodb.NewAuditRepository(db)
			probes["mongodb"] = mongoPinger{client: client}
		}
		dispatcher := queue.NewDispatcher(cfg.Audit.Workers, sink, log)
		dispatcher.Start(ctx)
		audit = dispatcher
	}

	// --- Core wiring ---
	gym := gymapi.NewClient(cfg.GymAPIURL, 0, log)
	sessions := service.NewSessionService(tokens, gym, audit, log)

	go func() {
		ticker := time.NewTicker(pruneInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := sessions.PruneIdle(pruneIdleFor); n > 0 {
					log.Debug().Int("evicted", n).Msg("pruned idle sessions")
				}
			}
		}
	}()

	e := api.NewRouter(api.RouterDeps{
		Sessions:      sessions,
		GymAPI:        gym,
		Probes:        probes,
		Logger:        log,
		SecureCookies: cfg.Env != "development",
	})

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("member portal listening")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
	log.Info().Msg("member portal stopped")
}

// mongoPinger adapts the Mongo client to the readiness Pinger.
type mongoPinger struct {
	client *mongo.Client
}

func (p mongoPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx, nil)
}
