// internal/workers/property/recommend-properties/config.go
package recommendproperties

import (
	"time"

	"property-matching/internal/common/config"
)

type Config struct {
	Timeout      time.Duration
	DefaultLimit int
}

func LoadConfig(appCfg *config.Config) *Config {
	cfg := &Config{Timeout: 30 * time.Second, DefaultLimit: 10}
	if appCfg == nil {
		return cfg
	}
	if w := config.GetWorkerConfig(appCfg, TaskType); w.Timeout > 0 {
		cfg.Timeout = config.GetDuration(w.Timeout)
	}
	return cfg
}
