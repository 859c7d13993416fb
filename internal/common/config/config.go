// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

// Mode selects the language model backend used by every stage.
type Mode string

const (
	ModeLocal Mode = "local"
	ModeCloud Mode = "cloud"
)

// Config is the merged, typed configuration.
type Config struct {
	UseCloud             bool                `mapstructure:"use_cloud"`
	APIKeys              APIKeysConfig       `mapstructure:"api_keys"`
	CustomSearchEngineID string              `mapstructure:"custom_search_engine_id"`
	SearchResults        SearchResultsConfig `mapstructure:"search_results"`
	Summarization        SummarizationConfig `mapstructure:"summarization"`
	SystemPrompts        SystemPromptsConfig `mapstructure:"system_prompts"`
	Models               ModelsConfig        `mapstructure:"models"`

	Logging       LoggingConfig           `mapstructure:"logging"`
	Cache         CacheConfig             `mapstructure:"cache"`
	Archive       ArchiveConfig           `mapstructure:"archive"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Observability ObservabilityConfig     `mapstructure:"observability"`
}

// Mode returns the backend mode selected by use_cloud.
func (c *Config) Mode() Mode {
	if c.UseCloud {
		return ModeCloud
	}
	return ModeLocal
}

type APIKeysConfig struct {
	GoogleSearchAPIKey string `mapstructure:"google_search_api_key"`
	GeminiAPIKey       string `mapstructure:"gemini_api_key"`
}

type SearchResultsConfig struct {
	NumResults int    `mapstructure:"num_results"`
	Timeout    int    `mapstructure:"timeout"` // seconds, search and page fetch
	BaseURL    string `mapstructure:"base_url"`
}

// TimeoutDuration converts the configured seconds.
func (s SearchResultsConfig) TimeoutDuration() time.Duration {
	return time.Duration(s.Timeout) * time.Second
}

type SummarizationConfig struct {
	TextLengthLimit int `mapstructure:"text_length_limit"`
}

// PromptPair holds one template per backend mode.
type PromptPair struct {
	Local string `mapstructure:"local"`
	Cloud string `mapstructure:"cloud"`
}

// For returns the template of the given mode.
func (p PromptPair) For(mode Mode) string {
	if mode == ModeCloud {
		return p.Cloud
	}
	return p.Local
}

type SystemPromptsConfig struct {
	QueryGeneration  PromptPair `mapstructure:"query_generation"`
	Summarization    PromptPair `mapstructure:"summarization"`
	AnswerGeneration PromptPair `mapstructure:"answer_generation"`
}

type ModelsConfig struct {
	Local ModelEndpoint `mapstructure:"local"`
	Cloud ModelEndpoint `mapstructure:"cloud"`
}

type ModelEndpoint struct {
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CacheConfig configures the optional Redis page cache.
type CacheConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TTL      int    `mapstructure:"ttl"` // seconds
}

func (c CacheConfig) TTLDuration() time.Duration {
	return time.Duration(c.TTL) * time.Second
}

// ArchiveConfig configures the optional PostgreSQL answer archive.
type ArchiveConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Postgres PostgresConfig `mapstructure:"postgres"`
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
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

// WorkerConfig holds the settings of one stage worker in the worker-manager.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"` // milliseconds
}

type ObservabilityConfig struct {
	ServiceName    string `mapstructure:"service_name"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
	MetricsAddress string `mapstructure:"metrics_address"`
}
