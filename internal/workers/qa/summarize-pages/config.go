// internal/workers/qa/summarize-pages/config.go
package summarizepages

import (
	"time"

	"qa-workers/internal/common/config"
)

type Config struct {
	Mode            config.Mode
	PromptTemplate  string
	TextLengthLimit int // characters of page text sent to the model
	Timeout         time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	mode := cfg.Mode()
	return &Config{
		Mode:            mode,
		PromptTemplate:  cfg.SystemPrompts.Summarization.For(mode),
		TextLengthLimit: cfg.Summarization.TextLengthLimit,
		Timeout:         config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout),
	}
}
