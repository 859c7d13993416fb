// internal/workers/qa/generate-search-query/config.go
package generatesearchquery

import (
	"time"

	"qa-workers/internal/common/config"
)

type Config struct {
	Mode           config.Mode
	PromptTemplate string
	Timeout        time.Duration // Zeebe jobs only
}

func LoadConfig(cfg *config.Config) *Config {
	mode := cfg.Mode()
	return &Config{
		Mode:           mode,
		PromptTemplate: cfg.SystemPrompts.QueryGeneration.For(mode),
		Timeout:        config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout),
	}
}
