// internal/workers/qa/web-search/config.go
package websearch

import (
	"time"

	"qa-workers/internal/common/config"
)

type Config struct {
	SearchAPIBaseURL string
	SearchAPIKey     string
	SearchEngineID   string
	NumResults       int
	Timeout          time.Duration // per HTTP request
	JobTimeout       time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		SearchAPIBaseURL: cfg.SearchResults.BaseURL,
		SearchAPIKey:     cfg.APIKeys.GoogleSearchAPIKey,
		SearchEngineID:   cfg.CustomSearchEngineID,
		NumResults:       cfg.SearchResults.NumResults,
		Timeout:          cfg.SearchResults.TimeoutDuration(),
		JobTimeout:       config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout),
	}
}
