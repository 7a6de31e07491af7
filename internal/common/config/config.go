// internal/common/config/config.go
package config

import (
	"fmt"
	"time"

	"property-matching/internal/matching"
)

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig               `mapstructure:"app"`
	Camunda  CamundaConfig           `mapstructure:"camunda"`
	Database DatabaseConfig          `mapstructure:"database"`
	Search   SearchConfig            `mapstructure:"search"`
	Cache    CacheConfig             `mapstructure:"cache"`
	Breaker  BreakerConfig           `mapstructure:"breaker"`
	Tracing  TracingConfig           `mapstructure:"tracing"`
	Matching MatchingConfig          `mapstructure:"matching"`
	Workers  map[string]WorkerConfig `mapstructure:"workers"`
	Logging  LoggingConfig           `mapstructure:"logging"`
	Server   ServerConfig            `mapstructure:"server"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
	ConnectRetries int    `mapstructure:"connect_retries"`
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
	QueryTimeout   int    `mapstructure:"query_timeout"` // milliseconds
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses  []string `mapstructure:"addresses"`
	Username   string   `mapstructure:"username"`
	Password   string   `mapstructure:"password"`
	SSLEnabled bool     `mapstructure:"ssl_enabled"`
	URL        string   `mapstructure:"url"` // Single URL for backwards compatibility
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SearchConfig selects where the property catalog is read from. User data
// always comes from PostgreSQL unless the backend is "memory".
type SearchConfig struct {
	Backend         string `mapstructure:"backend" validate:"oneof=postgres elasticsearch memory"`
	Index           string `mapstructure:"index"`
	FixturesPath    string `mapstructure:"fixtures_path"`
	SearchLogWindow int    `mapstructure:"search_log_window" validate:"gte=0"`
}

type CacheConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	TTL       int    `mapstructure:"ttl"` // milliseconds
	KeyPrefix string `mapstructure:"key_prefix"`
}

type BreakerConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	MaxRequests      uint32 `mapstructure:"max_requests"`
	Interval         int    `mapstructure:"interval"` // milliseconds
	Timeout          int    `mapstructure:"timeout"`  // milliseconds
	FailureThreshold uint32 `mapstructure:"failure_threshold"`
}

type TracingConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint"`
	SampleRatio    float64 `mapstructure:"sample_ratio" validate:"gte=0,lte=1"`
}

// MatchingConfig overrides matching.DefaultConfig. Unset (nil) values keep
// the default.
type MatchingConfig struct {
	Weights           WeightsConfig         `mapstructure:"weights"`
	MissingPreference string                `mapstructure:"missing_preference" validate:"omitempty,oneof=drop neutral"`
	OverBudgetSlope   *float64              `mapstructure:"over_budget_slope" validate:"omitempty,gte=0"`
	Blend             BlendConfig           `mapstructure:"blend"`
	Diversity         DiversityConfig       `mapstructure:"diversity"`
	Similarity        SimilarityConfig      `mapstructure:"similarity"`
	Thresholds        ThresholdsConfig      `mapstructure:"thresholds"`
	MaxCandidates     int                   `mapstructure:"max_candidates" validate:"gte=0"`
	RecentQueries     int                   `mapstructure:"recent_queries" validate:"gte=0"`
	SlowOperationMs   int                   `mapstructure:"slow_operation_ms" validate:"gte=0"`
	Cities            map[string]CityConfig `mapstructure:"cities" validate:"dive"`
}

type WeightsConfig struct {
	Price        *float64 `mapstructure:"price" validate:"omitempty,gte=0"`
	Location     *float64 `mapstructure:"location" validate:"omitempty,gte=0"`
	PropertyType *float64 `mapstructure:"property_type" validate:"omitempty,gte=0"`
	Surface      *float64 `mapstructure:"surface" validate:"omitempty,gte=0"`
	Bedrooms     *float64 `mapstructure:"bedrooms" validate:"omitempty,gte=0"`
	Bathrooms    *float64 `mapstructure:"bathrooms" validate:"omitempty,gte=0"`
	Features     *float64 `mapstructure:"features" validate:"omitempty,gte=0"`
}

type BlendConfig struct {
	Explicit      *float64 `mapstructure:"explicit" validate:"omitempty,gte=0,lte=1"`
	ImplicitType  *float64 `mapstructure:"implicit_type" validate:"omitempty,gte=0,lte=1"`
	ImplicitPrice *float64 `mapstructure:"implicit_price" validate:"omitempty,gte=0,lte=1"`
}

type DiversityConfig struct {
	SameType *float64 `mapstructure:"same_type" validate:"omitempty,gte=0,lte=1"`
	SameCity *float64 `mapstructure:"same_city" validate:"omitempty,gte=0,lte=1"`
}

type SimilarityConfig struct {
	MinScore         *float64 `mapstructure:"min_score" validate:"omitempty,gte=0,lte=1"`
	PriceTolerance   *float64 `mapstructure:"price_tolerance" validate:"omitempty,gt=0,lte=1"`
	SurfaceTolerance *float64 `mapstructure:"surface_tolerance" validate:"omitempty,gt=0,lte=1"`
	GeoRadiusKm      *float64 `mapstructure:"geo_radius_km" validate:"omitempty,gt=0"`
	PriceBand        *float64 `mapstructure:"price_band" validate:"omitempty,gte=0,lte=1"`
}

type ThresholdsConfig struct {
	Excellent *float64 `mapstructure:"excellent" validate:"omitempty,gte=0,lte=1"`
	Good      *float64 `mapstructure:"good" validate:"omitempty,gte=0,lte=1"`
}

type CityConfig struct {
	Lat float64 `mapstructure:"lat" validate:"latitude"`
	Lng float64 `mapstructure:"lng" validate:"longitude"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type ServerConfig struct {
	HealthPort int `mapstructure:"health_port" validate:"gt=0,lt=65536"`
}

// MatchingConfig returns the engine configuration with the overrides applied.
// Gazetteer entries are added to the default city table.
func (c *Config) MatchingConfig() matching.Config {
	out := matching.DefaultConfig()
	m := c.Matching

	override(&out.Weights.Price, m.Weights.Price)
	override(&out.Weights.Location, m.Weights.Location)
	override(&out.Weights.PropertyType, m.Weights.PropertyType)
	override(&out.Weights.Surface, m.Weights.Surface)
	override(&out.Weights.Bedrooms, m.Weights.Bedrooms)
	override(&out.Weights.Bathrooms, m.Weights.Bathrooms)
	override(&out.Weights.Features, m.Weights.Features)

	if m.MissingPreference != "" {
		out.MissingPreference = matching.MissingPreferencePolicy(m.MissingPreference)
	}
	override(&out.OverBudgetSlope, m.OverBudgetSlope)

	override(&out.Blend.Explicit, m.Blend.Explicit)
	override(&out.Blend.ImplicitType, m.Blend.ImplicitType)
	override(&out.Blend.ImplicitPrice, m.Blend.ImplicitPrice)
	override(&out.Diversity.SameType, m.Diversity.SameType)
	override(&out.Diversity.SameCity, m.Diversity.SameCity)

	override(&out.Similarity.MinScore, m.Similarity.MinScore)
	override(&out.Similarity.PriceTolerance, m.Similarity.PriceTolerance)
	override(&out.Similarity.SurfaceTolerance, m.Similarity.SurfaceTolerance)
	override(&out.Similarity.GeoRadiusKm, m.Similarity.GeoRadiusKm)
	override(&out.Similarity.PriceBand, m.Similarity.PriceBand)

	override(&out.Explanation.ExcellentThreshold, m.Thresholds.Excellent)
	override(&out.Explanation.GoodThreshold, m.Thresholds.Good)

	if m.MaxCandidates > 0 {
		out.MaxCandidates = m.MaxCandidates
	}
	if m.RecentQueries > 0 {
		out.RecentQueries = m.RecentQueries
	}
	if m.SlowOperationMs > 0 {
		out.SlowOperation = GetDuration(m.SlowOperationMs)
	}
	for name, city := range m.Cities {
		out.Cities[name] = matching.Coordinates{Latitude: city.Lat, Longitude: city.Lng}
	}
	return out
}

func override(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

// CacheTTL is the cache entry lifetime.
func (c CacheConfig) CacheTTL() time.Duration {
	return GetDuration(c.TTL)
}
