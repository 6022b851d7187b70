package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	httpapi "github.com/ticket-hub/ticket-hub/internal/api/http"
	"github.com/ticket-hub/ticket-hub/internal/application/activity"
	"github.com/ticket-hub/ticket-hub/internal/application/conversation"
	"github.com/ticket-hub/ticket-hub/internal/application/promotion"
	"github.com/ticket-hub/ticket-hub/internal/application/redemption"
	"github.com/ticket-hub/ticket-hub/internal/config"
	"github.com/ticket-hub/ticket-hub/internal/domain/casino"
	domainActivity "github.com/ticket-hub/ticket-hub/internal/domain/activity"
	domainPromotion "github.com/ticket-hub/ticket-hub/internal/domain/promotion"
	domainRedeem "github.com/ticket-hub/ticket-hub/internal/domain/redeem"
	domainRedemption "github.com/ticket-hub/ticket-hub/internal/domain/redemption"
	"github.com/ticket-hub/ticket-hub/internal/domain/ticket"
	"github.com/ticket-hub/ticket-hub/internal/infrastructure/gateway"
	"github.com/ticket-hub/ticket-hub/internal/infrastructure/logging"
	"github.com/ticket-hub/ticket-hub/internal/infrastructure/memory"
	"github.com/ticket-hub/ticket-hub/internal/infrastructure/postgres"
	"github.com/ticket-hub/ticket-hub/internal/infrastructure/redisstore"
	"github.com/ticket-hub/ticket-hub/internal/infrastructure/sse"
	"github.com/ticket-hub/ticket-hub/internal/migrations"
)

type stores struct {
	promotions domainPromotion.Repository
	activity   domainActivity.Repository
	ledger     domainRedemption.Ledger
	redeems    domainRedeem.Repository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, logCloser := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile, MaxAgeDays: 14})
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry, err := casino.LoadRegistry(cfg.CasinoRegistryPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.CasinoRegistryPath).Msg("failed to load casino registry")
	}
	logger.Info().Int("casinos", registry.Len()).Msg("casino registry loaded")

	// durable stores
	var st stores
	switch cfg.StorageDriver {
	case config.StorageMemory:
		logger.Warn().Msg("using in-memory storage, data is lost on restart")
		st = stores{
			promotions: memory.NewPromotionRepository(),
			activity:   memory.NewActivityRepository(),
			ledger:     memory.NewLedger(),
			redeems:    memory.NewRedeemRepository(),
		}
	default:
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, 10)
		if err != nil {
			logger.Fatal().Err(err).Msg("db error")
		}
		defer pool.Close()

		if err := postgres.RunMigrations(ctx, pool, migrationsFS(cfg.MigrationsDir)); err != nil {
			logger.Fatal().Err(err).Msg("migration error")
		}
		st = postgresStores(pool)
	}

	// ticket state
	var tickets ticket.Repository
	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis error")
		}
		defer rdb.Close()
		tickets = redisstore.NewTicketRepository(rdb)
	} else {
		logger.Warn().Msg("REDIS_URL not set, ticket state kept in memory")
		tickets = memory.NewTicketRepository()
	}

	// services
	gw := gateway.NewClient(cfg.GatewayURL, cfg.GatewayToken, cfg.GatewayRatePerSec, logger)
	activitySvc := activity.NewService(st.activity, logger)
	promotionMgr := promotion.NewManager(st.promotions, logger)
	validator := redemption.NewValidator(st.ledger, gw, gw, activitySvc, registry, redemption.Config{
		LogsChannelID:  cfg.LogsChannelID,
		StaffChannelID: cfg.StaffChannelID,
		ValidityWindow: cfg.CodeValidityWindow,
		SearchLimit:    cfg.LogSearchLimit,
	}, logger)
	conversationSvc := conversation.NewService(tickets, registry, validator, promotionMgr, st.redeems, activitySvc, cfg.StaffChannelID, logger)

	// background loops
	go func() {
		if err := promotionMgr.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("promotion manager failed to start")
		}
	}()

	// API server
	sseHub := sse.NewHub()
	apiServer := httpapi.NewServer(conversationSvc, promotionMgr, activitySvc, registry, sseHub, cfg.AdminTokenHash, logger)

	httpServer := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      apiServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// start server
	go func() {
		logger.Info().Str("addr", cfg.ServerAddr).Msg("http server started")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// graceful shutdown
	<-ctx.Done()
	logger.Info().Msg("shutting down")
	sseHub.Stop()
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctxShutdown)
}

func postgresStores(pool *pgxpool.Pool) stores {
	return stores{
		promotions: postgres.NewPromotionRepository(pool),
		activity:   postgres.NewActivityRepository(pool),
		ledger:     postgres.NewLedgerRepository(pool),
		redeems:    postgres.NewRedeemRepository(pool),
	}
}

// migrationsFS prefers an on-disk directory over the embedded migrations.
func migrationsFS(dir string) fs.FS {
	if dir != "" {
		return os.DirFS(dir)
	}
	return migrations.FS
}
