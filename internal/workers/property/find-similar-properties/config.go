// internal/workers/property/find-similar-properties/config.go
package findsimilarproperties

import (
	"time"

	"property-matching/internal/common/config"
)

type Config struct {
	Timeout      time.Duration
	DefaultLimit int
}

func LoadConfig(appCfg *config.Config) *Config {
	cfg := &Config{Timeout: 15 * time.Second, DefaultLimit: 5}
	if appCfg == nil {
		return cfg
	}
	if w := config.GetWorkerConfig(appCfg, TaskType); w.Timeout > 0 {
		cfg.Timeout = config.GetDuration(w.Timeout)
	}
	return cfg
}
