package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mkhairi/backend-quotation/internal/config"
	"github.com/mkhairi/backend-quotation/internal/currency"
	"github.com/mkhairi/backend-quotation/internal/db"
	"github.com/mkhairi/backend-quotation/internal/lock"
	"github.com/mkhairi/backend-quotation/internal/obs"
	"github.com/mkhairi/backend-quotation/internal/resilience"
)

// The worker keeps the stored currency rate table fresh. It polls the
// external provider on an interval, guarded by a Redis lock so only one
// instance refreshes at a time.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("component", "worker").Logger()

	obs.MustRegisterDomainMetrics(envOrDefault("OBS_METRICS_NAMESPACE", "quotation"), nil)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, queries := mustInitDatabase(ctx, cfg, logger)
	defer pool.Close()

	redisClient := mustInitRedis(ctx, cfg, logger)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()

	if cfg.RateProviderURL == "" {
		logger.Info().Msg("RATE_PROVIDER_URL not set, nothing to refresh")
		<-ctx.Done()
		return
	}

	refresher := &currency.Refresher{
		Q:       queries,
		BaseURL: cfg.RateProviderURL,
		APIKey:  cfg.RateProviderAPIKey,
		HTTP: &resilience.HTTPClient{
			Client:      &http.Client{Timeout: 10 * time.Second},
			Breaker:     resilience.NewBreaker(5, 0.5, time.Minute).WithTarget("rate-provider").WithLogger(logger),
			BaseBackoff: 500 * time.Millisecond,
			MaxAttempts: 3,
			Jitter:      0.2,
		},
	}
	locker := lock.Locker{R: redisClient}

	interval := cfg.RateRefreshInterval
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	refresh := func() {
		err := locker.WithLock(ctx, "currency:refresh", interval/2, func(ctx context.Context) error {
			count, err := refresher.Refresh(ctx)
			if err != nil {
				return err
			}
			logger.Info().Int("rates", count).Msg("currency rates refreshed")
			return nil
		})
		if err != nil {
			countRefresh("error")
			logger.Error().Err(err).Msg("refresh currency rates")
			return
		}
		countRefresh("ok")
	}

	refresh()
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("worker stopping")
			return
		case <-ticker.C:
			refresh()
		}
	}
}

func countRefresh(result string) {
	if obs.CurrencyRefreshTotal != nil {
		obs.CurrencyRefreshTotal.WithLabelValues(result).Inc()
	}
}

func mustInitDatabase(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*pgxpool.Pool, *db.Queries) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse database config")
	}
	poolConfig.ConnConfig.Tracer = obs.PGXTracer{}
	if poolConfig.ConnConfig.RuntimeParams == nil {
		poolConfig.ConnConfig.RuntimeParams = map[string]string{}
	}
	poolConfig.ConnConfig.RuntimeParams["application_name"] = "quotation-worker"

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ping database")
	}
	return pool, db.New(pool)
}

func mustInitRedis(ctx context.Context, cfg *config.Config, logger zerolog.Logger) *redis.Client {
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}
	return redisClient
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}
