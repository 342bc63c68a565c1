package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"underlog/internal/config"
	"underlog/internal/http/server"
	"underlog/internal/infra/cache"
	"underlog/internal/infra/logging"
	"underlog/internal/infra/postgres"
	"underlog/internal/infra/sessions"
	"underlog/internal/render"
)

func main() {
	cfg := config.Load()
	// Allow common container env vars to override the tool paths.
	if v := os.Getenv("SVG2PDF_BIN"); v != "" {
		cfg.Render.SVG2PDFPath = v
	}
	if v := os.Getenv("GS_BIN"); v != "" {
		cfg.Render.GhostscriptPath = v
	}

	logging.Init(
		cfg.Logger.File,
		cfg.Logger.MaxSizeMB,
		cfg.Logger.MaxBackups,
		cfg.Logger.MaxAgeDays,
		cfg.Logger.Compress,
		cfg.Logger.Level,
	)

	db := postgres.NewDB()
	defer db.Close()
	if err := db.EnsureSchema(context.Background(), cfg.Database.PostgresDSN); err != nil {
		logging.Error("Database schema init failed", "error", err)
		os.Exit(1)
	}

	var rdb *redis.Client
	if cfg.Cache.RedisHost != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr: cfg.Cache.RedisHost,
			DB:   cfg.Cache.PDFCacheDB,
		})
	}

	app := server.New(server.Deps{
		Config:   cfg,
		Users:    &postgres.UserRepository{DB: db, DSN: cfg.Database.PostgresDSN},
		Projects: &postgres.ProjectRepository{DB: db, DSN: cfg.Database.PostgresDSN},
		Images:   &postgres.ImageRepository{DB: db, DSN: cfg.Database.PostgresDSN},
		Sessions: sessions.NewStore(cfg),
		Renderer: render.New(cfg),
		Cache:    cache.NewPDFCache(rdb, cfg.Cache.PDFCacheEnabled, time.Duration(cfg.Cache.PDFCacheTTL)),
	})

	idleConnsClosed := make(chan struct{})
	startServer(app, cfg, idleConnsClosed)
	<-idleConnsClosed
}

// startServer starts the Fiber app and listens for shutdown signals
func startServer(app *fiber.App, cfg config.Config, idleConnsClosed chan struct{}) {
	go func() {
		if err := app.Listen(cfg.Server.Host + cfg.Server.Port); err != nil {
			logging.Error("Server error", "error", err)
		}
	}()

	// Listen for OS termination signals
	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
	<-sigint

	logging.Warn("Shutdown signal received, closing server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
	}

	close(idleConnsClosed)
	logging.Info("Server stopped cleanly")
}
