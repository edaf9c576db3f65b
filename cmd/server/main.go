package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	httpapi "github.com/cleanline/cleanline/internal/api/http"
	"github.com/cleanline/cleanline/internal/application/orchestrator"
	"github.com/cleanline/cleanline/internal/application/session"
	"github.com/cleanline/cleanline/internal/application/stage1"
	"github.com/cleanline/cleanline/internal/application/stage2"
	"github.com/cleanline/cleanline/internal/application/stage3"
	"github.com/cleanline/cleanline/internal/application/stage4"
	"github.com/cleanline/cleanline/internal/config"
	"github.com/cleanline/cleanline/internal/infrastructure/postgres"
)

func main() {
	_ = godotenv.Load()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db error: %v", err)
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool, cfg.MigrationsDir); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	// repositories
	clientRepo := postgres.NewClientRepository(pool)
	catalogRepo := postgres.NewCatalogRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	photoRepo := postgres.NewPhotoRepository(pool)

	// wizard services
	store := session.NewStore(logger)
	searchSvc := stage1.NewService(clientRepo, orderRepo, logger)
	itemsSvc := stage2.NewService(catalogRepo, orderRepo, photoRepo, logger)
	paramsSvc := stage3.NewService(orderRepo, logger)
	confirmSvc := stage4.NewService(orderRepo, logger)

	orch := orchestrator.New(store, logger, searchSvc, itemsSvc, paramsSvc, confirmSvc)

	apiServer := httpapi.NewServer(orch, catalogRepo, logger)

	httpServer := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      apiServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// idle session sweep
	go func() {
		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()
		for range ticker.C {
			store.ExpireIdle(time.Now(), cfg.SessionTTL)
		}
	}()

	// start server
	go func() {
		logger.Info().Str("addr", cfg.ServerAddr).Msg("http server started")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctxShutdown)
}
