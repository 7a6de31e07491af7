package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"property-matching/internal/common/camunda"
	"property-matching/internal/common/config"
	"property-matching/internal/common/database"
	"property-matching/internal/common/logger"
	"property-matching/internal/matching"
	"property-matching/internal/repository/breaker"
	"property-matching/internal/repository/cache"
	"property-matching/internal/repository/elasticsearch"
	"property-matching/internal/repository/memory"
	"property-matching/internal/repository/postgres"
)

// repositories is the assembled data layer plus the clients behind it.
type repositories struct {
	Properties matching.PropertyRepository
	Users      matching.UserRepository

	pg    *database.PostgresClient
	es    *database.ElasticsearchClient
	redis *database.RedisClient
}

// openRepositories builds backend -> cache -> breaker, in that order, so a
// cache hit never counts against the breaker.
func openRepositories(ctx context.Context, cfg *config.Config, zapLog *zap.Logger, log logger.Logger) (*repositories, error) {
	r := &repositories{}

	switch cfg.Search.Backend {
	case "memory":
		store, err := memory.LoadFile(cfg.Search.FixturesPath)
		if err != nil {
			return nil, err
		}
		zapLog.Info("Loaded fixture catalog", zap.String("path", cfg.Search.FixturesPath))
		r.Properties, r.Users = store, store

	default:
		err := retryWithBackoff(func() error {
			var err error
			r.pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return r.pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			return nil, err
		}
		zapLog.Info("PostgreSQL connected successfully")

		pgRepo := postgres.NewRepository(r.pg, cfg.Search.SearchLogWindow, log)
		r.Properties, r.Users = pgRepo, pgRepo

		if cfg.Search.Backend == "elasticsearch" {
			err := retryWithBackoff(func() error {
				var err error
				r.es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
				if err != nil {
					return err
				}
				return r.es.Ping(ctx)
			}, 10, 2*time.Second, zapLog, "Elasticsearch connection")
			if err != nil {
				r.Close()
				return nil, err
			}
			zapLog.Info("Elasticsearch connected successfully", zap.String("index", cfg.Search.Index))
			r.Properties = elasticsearch.NewRepository(r.es.Client, cfg.Search.Index, log)
		}
	}

	if cfg.Cache.Enabled {
		r.redis = database.NewRedis(cfg.Database.Redis)
		if err := r.redis.Ping(ctx); err != nil {
			// the cache degrades to pass-through, so a cold redis is not fatal
			zapLog.Warn("Redis unavailable at startup", zap.Error(err))
		}
		r.Properties = cache.NewRepository(r.Properties, r.redis.Client, cache.Options{
			TTL:       cfg.Cache.CacheTTL(),
			KeyPrefix: cfg.Cache.KeyPrefix,
		}, log)
	}

	if cfg.Breaker.Enabled {
		settings := breaker.Settings{
			MaxRequests:      cfg.Breaker.MaxRequests,
			Interval:         config.GetDuration(cfg.Breaker.Interval),
			Timeout:          config.GetDuration(cfg.Breaker.Timeout),
			FailureThreshold: cfg.Breaker.FailureThreshold,
		}
		r.Properties = breaker.NewProperties(r.Properties, settings, log)
		r.Users = breaker.NewUsers(r.Users, settings, log)
	}

	return r, nil
}

// Checks lists the readiness probes for whatever was opened.
func (r *repositories) Checks(client *camunda.Client) map[string]func(context.Context) error {
	checks := map[string]func(context.Context) error{
		"zeebe": client.HealthCheck,
	}
	if r.pg != nil {
		checks["postgres"] = r.pg.Ping
	}
	if r.es != nil {
		checks["elasticsearch"] = r.es.Ping
	}
	if r.redis != nil {
		checks["redis"] = r.redis.Ping
	}
	return checks
}

func (r *repositories) Close() {
	if r.pg != nil {
		_ = r.pg.Close()
	}
	if r.redis != nil {
		_ = r.redis.Close()
	}
}
