// Package cache decorates a property repository with a Redis read-through
// cache. Entries are keyed by a catalog snapshot version, so bumping the
// version with Invalidate orphans every earlier entry until its TTL expires.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	stderrors "errors"
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"property-matching/internal/common/logger"
	"property-matching/internal/common/metrics"
	"property-matching/internal/models"
)

// PropertyRepository is the catalog being cached.
type PropertyRepository interface {
	Search(ctx context.Context, criteria models.SearchCriteria) ([]models.Property, error)
	GetByID(ctx context.Context, id int64) (*models.Property, error)
}

type Options struct {
	TTL       time.Duration
	KeyPrefix string
}

type Repository struct {
	next   PropertyRepository
	redis  redis.Cmdable
	ttl    time.Duration
	prefix string
	logger logger.Logger
}

func NewRepository(next PropertyRepository, rdb redis.Cmdable, opts Options, log logger.Logger) *Repository {
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = "property"
	}
	if opts.TTL <= 0 {
		opts.TTL = 5 * time.Minute
	}
	return &Repository{
		next:   next,
		redis:  rdb,
		ttl:    opts.TTL,
		prefix: opts.KeyPrefix,
		logger: log.WithFields(map[string]interface{}{"repository": "cache"}),
	}
}

func (r *Repository) Search(ctx context.Context, c models.SearchCriteria) ([]models.Property, error) {
	var cached []models.Property
	key, hit := r.lookup(ctx, "search", c, &cached)
	if hit {
		return cached, nil
	}

	properties, err := r.next.Search(ctx, c)
	if err != nil {
		return nil, err
	}
	r.store(ctx, key, properties)
	return properties, nil
}

// GetByID caches found properties only; absent ids always reach the store.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Property, error) {
	var cached models.Property
	key, hit := r.lookup(ctx, "get", id, &cached)
	if hit {
		return &cached, nil
	}

	p, err := r.next.GetByID(ctx, id)
	if err != nil || p == nil {
		return p, err
	}
	r.store(ctx, key, p)
	return p, nil
}

// Invalidate bumps the snapshot version.
func (r *Repository) Invalidate(ctx context.Context) error {
	if err := r.redis.Incr(ctx, r.snapshotKey()).Err(); err != nil {
		return fmt.Errorf("invalidate property cache: %w", err)
	}
	return nil
}

func (r *Repository) snapshotKey() string {
	return r.prefix + ":snapshot"
}

// Key returns the cache key for an operation argument at a snapshot version.
func (r *Repository) Key(op string, version int64, arg interface{}) (string, error) {
	canonical, err := json.Marshal(arg)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return fmt.Sprintf("%s:%s:%d:%s", r.prefix, op, version, hex.EncodeToString(sum[:])), nil
}

func (r *Repository) version(ctx context.Context) (int64, error) {
	raw, err := r.redis.Get(ctx, r.snapshotKey()).Result()
	if stderrors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(raw, 10, 64)
}

// lookup returns the key to store under ("" when Redis is unusable) and
// whether dst was filled from the cache.
func (r *Repository) lookup(ctx context.Context, op string, arg interface{}, dst interface{}) (string, bool) {
	version, err := r.version(ctx)
	if err != nil {
		r.degrade(op, err)
		return "", false
	}
	key, err := r.Key(op, version, arg)
	if err != nil {
		r.degrade(op, err)
		return "", false
	}

	raw, err := r.redis.Get(ctx, key).Bytes()
	switch {
	case stderrors.Is(err, redis.Nil):
		metrics.CacheRequests.WithLabelValues(op, "miss").Inc()
		return key, false
	case err != nil:
		r.degrade(op, err)
		return "", false
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		r.logger.Warn("discarding undecodable cache entry", map[string]interface{}{"operation": op, "error": err.Error()})
		metrics.CacheRequests.WithLabelValues(op, "miss").Inc()
		return key, false
	}
	metrics.CacheRequests.WithLabelValues(op, "hit").Inc()
	return key, true
}

func (r *Repository) store(ctx context.Context, key string, value interface{}) {
	if key == "" {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := r.redis.Set(ctx, key, payload, r.ttl).Err(); err != nil {
		r.logger.Warn("cache write failed", map[string]interface{}{"error": err.Error()})
	}
}

func (r *Repository) degrade(op string, err error) {
	metrics.CacheRequests.WithLabelValues(op, "error").Inc()
	r.logger.Warn("cache unavailable, reading through", map[string]interface{}{
		"operation": op,
		"error":     err.Error(),
	})
}
