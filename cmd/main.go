package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"snapland/internal/app/registry"
	"snapland/internal/app/server"
	"snapland/internal/app/worker"
	"snapland/internal/config"
	"snapland/internal/core/geo"
	"snapland/internal/core/services"
	"snapland/internal/platform/logger"
	"snapland/internal/platform/telemetry"
	"snapland/internal/plugins/postgres"
	redisPlugin "snapland/internal/plugins/redis"

	"github.com/redis/go-redis/v9"
)

func main() {
	// Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Config
	cfg := config.Load()

	// Logger
	log := logger.NewLogger(*cfg)
	log.Info("starting application")

	otelShutdown, err := telemetry.InitTelemetry(ctx, *cfg)
	if err != nil {
		log.Error("failed to initialize telemetry", "err", err)
	}
	defer func() {
		log.Info("flushing telemetry...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			log.Error("telemetry shutdown failed", "err", err)
		}
	}()

	// Infra
	var pdb *sql.DB
	if pdb, err = postgres.New(ctx, *cfg.Postgres); err != nil {
		log.Error("postgres connection failed", "err", err)
		return
	}
	defer pdb.Close()
	log.Info("postgres connected")
	var rdb *redis.Client
	if rdb, err = redisPlugin.NewRedisClient(ctx, *cfg.Redis); err != nil {
		log.Error("redis connection failed", "url", cfg.Redis.URL)
		return
	}
	defer rdb.Close()
	log.Info("redis connected")

	// Adapters
	userRepo := postgres.NewUserRepository(pdb)
	areaRepo := postgres.NewAreaRepository(pdb)
	auditRepo := postgres.NewAuditRepository(pdb)
	txManager := postgres.NewTxManager(pdb)
	eventQueue := redisPlugin.NewRedisEventQueue(rdb)

	// Core services
	hub := registry.NewRegistry()
	presence := services.NewPresenceCache(log, userRepo)
	if err := presence.LoadAll(ctx); err != nil {
		log.Error("presence cache warm-up failed", "err", err)
		return
	}
	auditSvc := services.NewAuditService(log, eventQueue, cfg.Worker.AuditTopic)
	tokenSvc := services.NewTokenService(*cfg.JWT)
	userSvc := services.NewUserService(log, userRepo, tokenSvc)
	areaSvc := services.NewAreaService(log, geo.NewValidator(), areaRepo, txManager, auditSvc)
	dispatcher := services.NewBroadcastDispatcher(log, presence, hub, cfg.Realtime.SendTimeout)
	realtimeSvc := services.NewRealtimeService(log, hub, presence, dispatcher, userRepo, auditSvc)

	// Audit drain worker
	wrkr := worker.NewAuditWorker(log, eventQueue, auditRepo, cfg.Worker.AuditTopic, cfg.Worker.AuditGroup)
	go func() {
		if err := wrkr.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("audit worker stopped", "err", err)
		}
	}()

	// Server
	srv := server.NewServer(log, cfg, userSvc, tokenSvc, areaSvc, realtimeSvc, presence, pdb, rdb)
	if err := srv.Start(ctx); err != nil {
		log.Error("server stopped", "err", err)
	}
}
