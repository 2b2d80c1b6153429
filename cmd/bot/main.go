package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/chillbroinf-cloud/DepBot/internal/chat"
	"github.com/chillbroinf-cloud/DepBot/internal/config"
	"github.com/chillbroinf-cloud/DepBot/internal/games"
	"github.com/chillbroinf-cloud/DepBot/internal/logging"
	"github.com/chillbroinf-cloud/DepBot/internal/services"
	"github.com/chillbroinf-cloud/DepBot/internal/status"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, tail := logging.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rng := games.NewRNG()
	limiter := services.NewRateLimiter(logger, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	store := services.NewStore(logger, cfg.DataFile, cfg.BackupFile)

	console := chat.NewConsole()
	ledger := services.NewLedger(logger)
	duels := services.NewDuelService(logger, ledger, rng, console)
	casino := services.NewCasino(logger, ledger, duels, store, rng, limiter, console, cfg.AdminIDs)

	casino.Restore(store.Load())

	dispatcher := chat.NewDispatcher(logger, casino, duels, ledger)
	console.SetDispatcher(dispatcher)

	jwtService := services.NewJWTService(cfg.AdminSecret, 24*time.Hour)
	hub := status.NewHub(logger, casino, tail)
	go hub.Run(ctx, 5*time.Second)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	server := status.NewServer(logger, casino, tail, hub, jwtService)
	go func() {
		if err := server.Router().Run(":" + cfg.Port); err != nil {
			logger.WithError(err).Error("status server stopped")
		}
	}()

	go store.AutoSave(ctx, cfg.AutosaveInterval, casino.Save)

	console.Run(ctx)
	stop()

	// One last write so nothing since the previous autosave is lost.
	casino.Save()
	logger.Info("shutdown complete")
}
