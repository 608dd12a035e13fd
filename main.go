package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"waves-server/internal/auth"
	"waves-server/internal/cache"
	"waves-server/internal/config"
	"waves-server/internal/lens"
	"waves-server/internal/media"
	"waves-server/internal/session"
)

const (
	memoryCacheSize   = 10000
	memorySweepPeriod = time.Minute
	shutdownTimeout   = 10 * time.Second
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not read .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	InitLogger(cfg.LogLevel)
	config.InitI18n()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ttl := cache.DefaultConfig()
	var (
		backend  cache.Backend
		sessions session.Store
		sources  = MetricsSources{CacheBackend: "memory"}
	)
	if cfg.RedisURL != "" {
		client, err := cache.DialRedis(ctx, cfg.RedisURL)
		if err != nil {
			slog.Error("redis unavailable", "error", err)
			os.Exit(1)
		}
		backend = cache.NewRedis(client, cfg.RedisPrefix)
		sessions = session.NewRedisStore(client, cfg.RedisPrefix, ttl.SessionTTL)
		sources.CacheBackend = "redis"
		slog.Info("using redis for cache and sessions")
	} else {
		mem := cache.NewMemory(memoryCacheSize, memorySweepPeriod)
		backend = mem
		sessions = session.NewMemoryStore(ttl.SessionTTL)
		sources.Cache = mem.Stats
		slog.Info("using in-memory cache and sessions")
	}
	defer backend.Close()

	lensClient := lens.New(lens.Options{
		Endpoint: cfg.LensAPIURL,
		Timeout:  cfg.LensTimeout,
		Cache:    backend,
		TTL:      ttl,
	})
	videos := media.NewLivepeer(media.Options{
		APIURL:      cfg.LivepeerAPIURL,
		APIKey:      cfg.LivepeerAPIKey,
		IPFSGateway: cfg.IPFSGateway,
		Timeout:     cfg.LivepeerTimeout,
		Cache:       backend,
		TTL:         ttl,
	})
	sources.Lens = lensClient.Stats
	sources.Playback = videos.Counts

	csrf, err := auth.NewCSRF(cfg.CSRFSecret)
	if err != nil {
		slog.Error("csrf setup failed", "error", err)
		os.Exit(1)
	}
	if cfg.CSRFSecret == "" {
		slog.Warn("CSRF_SECRET not set, form tokens will not survive a restart")
	}

	app, err := NewApp(cfg, Deps{
		Sessions:      sessions,
		Feeds:         lensClient,
		Reactor:       lensClient,
		Mirrorer:      lensClient,
		Notifications: lensClient,
		Auth:          lensClient,
		Videos:        videos,
		CSRF:          csrf,
		Metrics:       sources,
	})
	if err != nil {
		slog.Error("app setup failed", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("starting server", "port", cfg.Port, "lens", cfg.LensAPIURL, "chain", cfg.ChainName(), "mirror", cfg.MirrorEnabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
