package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/profitpilotai/controlplane/internal/api"
	"github.com/profitpilotai/controlplane/internal/config"
	"github.com/profitpilotai/controlplane/internal/engine"
	"github.com/profitpilotai/controlplane/internal/middleware"
	"github.com/profitpilotai/controlplane/internal/repository"
	"github.com/profitpilotai/controlplane/internal/service"
	"github.com/profitpilotai/controlplane/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer client.Disconnect(context.Background())

	pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		logger.Fatal("failed to ping MongoDB", zap.Error(err))
	}

	accountRepo, err := repository.NewAccountRepository(client, cfg.MongoDB, "accounts")
	if err != nil {
		logger.Fatal("failed to init account repository", zap.Error(err))
	}
	configRepo := repository.NewConfigRepository(client, cfg.MongoDB, "configs")
	auditRepo := repository.NewAuditRepository(client, cfg.MongoDB, "audit_logs")

	hub := ws.NewHub(logger)
	eng := engine.NewDerivEngine(cfg.DerivWSURL, cfg.DerivAppID, cfg.EngineTimeout, logger)

	sessions := service.NewSessionService(accountRepo, cfg.JWTSecret, cfg.SessionTTL, logger)
	bots := service.NewBotService(eng, configRepo, hub, cfg.EngineTimeout, logger)
	settings := service.NewSettingsService(configRepo, eng, logger)
	audit := service.NewAuditService(auditRepo, logger)
	admin := service.NewAdminService(accountRepo, configRepo, sessions, bots, hub, logger)

	if err := admin.EnsureAdmin(cfg.AdminUser, cfg.AdminPass); err != nil {
		logger.Fatal("failed to ensure admin account", zap.Error(err))
	}

	wsHandler := ws.NewHandler(hub, bots, logger)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(logger))

	api.SetupRoutes(r, sessions, admin, settings, bots, audit, wsHandler)

	addr := fmt.Sprintf("%s:%d", cfg.Address, cfg.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		logger.Info("starting server",
			zap.String("addr", addr),
			zap.String("base_url", cfg.BaseURL))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown error", zap.Error(err))
	}
	hub.Shutdown()
}
