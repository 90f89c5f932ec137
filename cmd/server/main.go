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

	"banner-guard/gallery"
	"banner-guard/middleware/auth"
	guardapp "banner-guard/middleware/guard/application"
	rlapp "banner-guard/middleware/ratelimit/application"
	"banner-guard/middleware/ratelimit/domain"
	"banner-guard/middleware/ratelimit/infra"
	"banner-guard/provider/gemini"
	"banner-guard/server"
	"banner-guard/storage"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := readConfig()
	if err != nil {
		slog.Error("config error", "err", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config, logger *slog.Logger) error {
	var rdb *redis.Client
	if cfg.needsRedis() {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.redisAddr,
			Password: cfg.redisPassword,
			DB:       cfg.redisDB,
		})
		defer func() { _ = rdb.Close() }()

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		_, err := rdb.Ping(pingCtx).Result()
		cancel()
		if err != nil {
			return errors.Join(errors.New("redis ping"), err)
		}
	}

	var store domain.EntryStore
	if cfg.rateStore == "redis" {
		store = infra.NewRedisStore(rdb, infra.WithKeyPrefix(cfg.ratePrefix))
	} else {
		store = infra.NewMemoryStore()
	}
	limiter := rlapp.NewService(store, nil)
	limiter.StartJanitor(ctx, cfg.rateSweepEvery)

	var stats domain.StatsStore = infra.NewMemoryStatsStore(infra.WithTrackKeys(cfg.rateStatsTrackKeys))
	if cfg.rateStatsEnabled {
		stats = infra.NewRedisStatsStore(
			rdb,
			infra.WithStatsPrefix(cfg.rateStatsPrefix),
			infra.WithStatsTTL(cfg.rateStatsTTL),
			infra.WithStatsBucket(cfg.rateStatsBucket),
			infra.WithStatsTrackKeys(cfg.rateStatsTrackKeys),
		)
	}

	gen, err := gemini.New(ctx, cfg.geminiAPIKey, cfg.geminiModels, logger)
	if err != nil {
		return err
	}

	objects, err := storage.NewMinIOStore(storage.Config{
		Endpoint:      cfg.minioEndpoint,
		AccessKey:     cfg.minioAccessKey,
		SecretKey:     cfg.minioSecretKey,
		UseSSL:        cfg.minioUseSSL,
		Bucket:        cfg.minioBucket,
		PublicBaseURL: cfg.publicBaseURL,
	})
	if err != nil {
		return err
	}
	bucketCtx, cancelBucket := context.WithTimeout(ctx, 5*time.Second)
	err = objects.EnsureBucket(bucketCtx)
	cancelBucket()
	if err != nil {
		return err
	}

	repo, err := gallery.NewRepository(cfg.supabaseURL, cfg.supabaseServiceKey)
	if err != nil {
		return err
	}

	h := server.New(server.Deps{
		Verifier:           auth.NewJWTVerifier(cfg.jwtSecret, cfg.jwtAudience),
		Validator:          guardapp.NewValidator(),
		Limiter:            limiter,
		Stats:              stats,
		PublicPolicy:       domain.Policy{Max: cfg.publicRateMax, Window: cfg.publicRateWindow},
		TrustXForwardedFor: cfg.trustXFF,
		GenerationPool:     infra.NewPacedPool(cfg.generationConcurrency, cfg.providerRPS, cfg.providerBurst),
		GenerationTimeout:  cfg.generationTimeout,
		Generator:          gen,
		Objects:            objects,
		Gallery:            repo,
		Logger:             logger,
	})

	srv := &http.Server{
		Addr:              cfg.listenAddr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// geração pode levar dezenas de segundos
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("server listening", "addr", cfg.listenAddr, "env", cfg.env)
	logger.Info("rate limit", "store", cfg.rateStore, "sweep_every", cfg.rateSweepEvery, "stats_redis", cfg.rateStatsEnabled)
	logger.Info("provider gate", "concurrency", cfg.generationConcurrency, "rps", cfg.providerRPS, "burst", cfg.providerBurst, "acquire_timeout", cfg.generationTimeout)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func newLogger(cfg config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.env == "development" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
