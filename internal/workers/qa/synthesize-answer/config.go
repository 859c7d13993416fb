// internal/workers/qa/synthesize-answer/config.go
package synthesizeanswer

import (
	"time"

	"qa-workers/internal/common/config"
)

type Config struct {
	Mode           config.Mode
	PromptTemplate string
	Timeout        time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	mode := cfg.Mode()
	return &Config{
		Mode:           mode,
		PromptTemplate: cfg.SystemPrompts.AnswerGeneration.For(mode),
		Timeout:        config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout),
	}
}
