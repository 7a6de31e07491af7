// internal/workers/property/find-property-matches/config.go
package findpropertymatches

import (
	"time"

	"property-matching/internal/common/config"
)

type Config struct {
	Timeout         time.Duration
	DefaultLimit    int
	DefaultMinScore float64
}

func LoadConfig(appCfg *config.Config) *Config {
	cfg := &Config{Timeout: 30 * time.Second, DefaultLimit: 10, DefaultMinScore: 0.6}
	if appCfg == nil {
		return cfg
	}
	if w := config.GetWorkerConfig(appCfg, TaskType); w.Timeout > 0 {
		cfg.Timeout = config.GetDuration(w.Timeout)
	}
	return cfg
}
