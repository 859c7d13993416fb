// internal/workers/qa/extract-page-content/config.go
package extractpagecontent

import (
	"time"

	"qa-workers/internal/common/config"
	httpclient "qa-workers/internal/common/http"
)

type Config struct {
	Timeout    time.Duration // per page fetch
	UserAgent  string
	JobTimeout time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Timeout:    cfg.SearchResults.TimeoutDuration(),
		UserAgent:  httpclient.BrowserUserAgent,
		JobTimeout: config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout),
	}
}
