// internal/workers/property/calculate-property-match/config.go
package calculatepropertymatch

import (
	"time"

	"property-matching/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(appCfg *config.Config) *Config {
	cfg := &Config{Timeout: 5 * time.Second}
	if appCfg == nil {
		return cfg
	}
	if w := config.GetWorkerConfig(appCfg, TaskType); w.Timeout > 0 {
		cfg.Timeout = config.GetDuration(w.Timeout)
	}
	return cfg
}
