package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	server "globe_atlas/internal/adapters/http_server"
	"globe_atlas/internal/adapters/lru"
	"globe_atlas/internal/adapters/observability"
	redisad "globe_atlas/internal/adapters/redis"
	"globe_atlas/internal/adapters/timezone"
	"globe_atlas/internal/app"
	"globe_atlas/internal/domain"
	"globe_atlas/internal/shared"
	"globe_atlas/internal/storage/embedded"
)

func main() {
	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := observability.InitRegistry()
	metricsSrv := observability.Serve(cfg.MetricsAddr, reg)

	// catalogue
	var src domain.CatalogueSource = embedded.New()
	if cfg.CataloguePath != "" {
		src = embedded.NewFromFile(cfg.CataloguePath)
	}
	cat, err := src.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("catalogue load failed")
	}
	observability.SetCatalogueSize(cat.Len())

	// cache
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis ping failed")
		}
		defer rc.Close()
		log.Info().Str("addr", cfg.RedisAddr).Msg("redis connection ok")
		cache = rc
	} else {
		cache = lru.New(cfg.CacheCapacity)
	}

	var tz domain.TimezoneFinder
	if cfg.TimezonesEnabled {
		f, err := timezone.Default()
		if err != nil {
			log.Warn().Err(err).Msg("timezone lookups disabled")
		} else {
			tz = f
		}
	}

	// the globe becomes clickable once its texture is in
	scene := app.NewScene(cat, cfg.GlobeRadius, embedded.Assets(), embedded.TexturePath)
	go func() { _ = scene.Load(ctx) }()

	q := app.NewQueryService(cat, scene, cache, tz, cfg.CacheTTL)
	r := app.NewResolveService(scene, cat, cache, cfg.CacheTTL, cfg.ResolveWorkers)

	// http
	srv := server.New(server.Options{CORSOrigins: cfg.CORSOrigins, ResolveRPS: cfg.ResolveRPS})
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q, R: r, Scene: scene})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Int("locations", cat.Len()).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
}
