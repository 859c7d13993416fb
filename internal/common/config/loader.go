// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	apperrors "qa-workers/internal/common/errors"
	"qa-workers/internal/common/validation"
)

const (
	// DefaultDirectory is read when QA_CONFIG_DIR is unset.
	DefaultDirectory = "cfg"

	DefaultSearchBaseURL   = "https://www.googleapis.com/customsearch/v1"
	DefaultLocalModelURL   = "http://localhost:11434"
	DefaultLocalModel      = "llama3:8b"
	DefaultCloudModelURL   = "https://generativelanguage.googleapis.com"
	DefaultCloudModel      = "gemini-2.5-flash"
	DefaultNumResults      = 5
	DefaultTimeoutSeconds  = 8
	DefaultTextLengthLimit = 5000
	DefaultCacheTTLSeconds = 24 * 60 * 60

	// MaxNumResults is the largest num the Custom Search API accepts.
	MaxNumResults = 10
)

// Load reads the directory named by QA_CONFIG_DIR, or cfg/.
func Load() (*Config, error) {
	dir := os.Getenv("QA_CONFIG_DIR")
	if dir == "" {
		dir = DefaultDirectory
	}
	return LoadDir(dir)
}

// LoadDir merges every *.yaml / *.yml document in dir, in lexical file
// order, into one configuration. Later files override earlier keys.
func LoadDir(dir string) (*Config, error) {
	loadEnvFile(dir)

	files, err := configFiles(dir)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	for _, path := range files {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	expandEnvVars(v)

	// The schema sees the file documents only. Environment overrides arrive
	// as strings and are converted by the weakly typed decode below.
	if err := validateSchema(v.AllSettings()); err != nil {
		return nil, apperrors.NewConfigInvalidError(err.Error())
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperrors.NewConfigInvalidError(fmt.Sprintf("decode settings: %v", err))
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, apperrors.NewConfigInvalidError(err.Error())
	}

	return &cfg, nil
}

func configFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read config directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			files = append(files, filepath.Join(dir, name))
		}
	}
	sort.Strings(files)

	if len(files) == 0 {
		return nil, fmt.Errorf("no .yaml or .yml files in config directory %s", dir)
	}
	return files, nil
}

// loadEnvFile loads .env from the working directory or the config
// directory. Existing environment variables win.
func loadEnvFile(dir string) {
	for _, path := range []string{".env", filepath.Join(dir, ".env")} {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

var envPlaceholder = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnvVars replaces ${NAME} placeholders in string values. Any other
// use of $ is kept literally.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok || !envPlaceholder.MatchString(strVal) {
			continue
		}
		v.Set(key, envPlaceholder.ReplaceAllStringFunc(strVal, func(m string) string {
			return os.Getenv(envPlaceholder.FindStringSubmatch(m)[1])
		}))
	}
}

// overrideEmptyConfig fills secrets left empty by the files from the environment.
func overrideEmptyConfig(cfg *Config) {
	if cfg.APIKeys.GoogleSearchAPIKey == "" {
		cfg.APIKeys.GoogleSearchAPIKey = os.Getenv("GOOGLE_SEARCH_API_KEY")
	}
	if cfg.APIKeys.GeminiAPIKey == "" {
		cfg.APIKeys.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.CustomSearchEngineID == "" {
		cfg.CustomSearchEngineID = os.Getenv("CUSTOM_SEARCH_ENGINE_ID")
	}
	if cfg.Archive.Postgres.Password == "" {
		cfg.Archive.Postgres.Password = os.Getenv("DB_PASSWORD")
	}
	if cfg.Cache.Password == "" {
		cfg.Cache.Password = os.Getenv("REDIS_PASSWORD")
	}
}

func applyDefaults(cfg *Config) {
	if cfg.SearchResults.NumResults == 0 {
		cfg.SearchResults.NumResults = DefaultNumResults
	}
	if cfg.SearchResults.Timeout == 0 {
		cfg.SearchResults.Timeout = DefaultTimeoutSeconds
	}
	if cfg.SearchResults.BaseURL == "" {
		cfg.SearchResults.BaseURL = DefaultSearchBaseURL
	}
	if cfg.Summarization.TextLengthLimit == 0 {
		cfg.Summarization.TextLengthLimit = DefaultTextLengthLimit
	}

	if cfg.Models.Local.BaseURL == "" {
		cfg.Models.Local.BaseURL = DefaultLocalModelURL
	}
	if cfg.Models.Local.Model == "" {
		cfg.Models.Local.Model = DefaultLocalModel
	}
	if cfg.Models.Cloud.BaseURL == "" {
		cfg.Models.Cloud.BaseURL = DefaultCloudModelURL
	}
	if cfg.Models.Cloud.Model == "" {
		cfg.Models.Cloud.Model = DefaultCloudModel
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}

	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = DefaultCacheTTLSeconds
	}

	if cfg.Archive.Postgres.Port == 0 {
		cfg.Archive.Postgres.Port = 5432
	}
	if cfg.Archive.Postgres.MaxConnections == 0 {
		cfg.Archive.Postgres.MaxConnections = 5
	}
	if cfg.Archive.Postgres.MaxIdle == 0 {
		cfg.Archive.Postgres.MaxIdle = 2
	}
	if cfg.Archive.Postgres.SSLMode == "" {
		cfg.Archive.Postgres.SSLMode = "disable"
	}

	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}
	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = 5
		}
		if worker.Timeout == 0 {
			worker.Timeout = 300000
		}
		cfg.Workers[key] = worker
	}

	if cfg.Observability.ServiceName == "" {
		cfg.Observability.ServiceName = "qa-workers"
	}
	if cfg.Observability.MetricsAddress == "" {
		cfg.Observability.MetricsAddress = ":8080"
	}
}

func validateConfig(cfg *Config) error {
	if cfg.APIKeys.GoogleSearchAPIKey == "" {
		return fmt.Errorf("api_keys.google_search_api_key is required")
	}
	if cfg.CustomSearchEngineID == "" {
		return fmt.Errorf("custom_search_engine_id is required")
	}
	if cfg.UseCloud && cfg.APIKeys.GeminiAPIKey == "" {
		return fmt.Errorf("api_keys.gemini_api_key is required when use_cloud is true")
	}

	if cfg.SearchResults.NumResults < 1 || cfg.SearchResults.NumResults > MaxNumResults {
		return fmt.Errorf("search_results.num_results must be between 1 and %d", MaxNumResults)
	}
	if cfg.SearchResults.Timeout < 1 {
		return fmt.Errorf("search_results.timeout must be positive")
	}
	if cfg.Summarization.TextLengthLimit < 1 {
		return fmt.Errorf("summarization.text_length_limit must be positive")
	}

	mode := cfg.Mode()
	templates := []struct {
		key          string
		value        string
		placeholders []string
	}{
		{"system_prompts.query_generation", cfg.SystemPrompts.QueryGeneration.For(mode), []string{"{question}"}},
		{"system_prompts.summarization", cfg.SystemPrompts.Summarization.For(mode), []string{"{text}"}},
		{"system_prompts.answer_generation", cfg.SystemPrompts.AnswerGeneration.For(mode), []string{"{question}", "{summaries}"}},
	}
	for _, tpl := range templates {
		key := fmt.Sprintf("%s.%s", tpl.key, mode)
		if strings.TrimSpace(tpl.value) == "" {
			return fmt.Errorf("%s is required", key)
		}
		for _, p := range tpl.placeholders {
			if !strings.Contains(tpl.value, p) {
				return fmt.Errorf("%s must contain the %s placeholder", key, p)
			}
		}
	}

	if cfg.Cache.Enabled && cfg.Cache.Address == "" {
		return fmt.Errorf("cache.address is required when cache is enabled")
	}
	if cfg.Archive.Enabled {
		pg := cfg.Archive.Postgres
		if pg.Host == "" || pg.Database == "" || pg.User == "" {
			return fmt.Errorf("archive.postgres.host, database and user are required when archive is enabled")
		}
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetWorkerConfig returns a stage worker's settings, or the defaults.
func GetWorkerConfig(cfg *Config, taskType string) WorkerConfig {
	if worker, exists := cfg.Workers[taskType]; exists {
		return worker
	}
	return WorkerConfig{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       300000,
	}
}

// IsWorkerEnabled reports whether a stage worker should be registered.
func IsWorkerEnabled(cfg *Config, taskType string) bool {
	if worker, exists := cfg.Workers[taskType]; exists {
		return worker.Enabled
	}
	return true
}

func validateSchema(settings map[string]interface{}) error {
	result, err := settingsSchema.ValidateDocument(settings)
	if err != nil {
		return err
	}
	if !result.Valid {
		return fmt.Errorf("%s", result.Summary())
	}
	return nil
}

var settingsSchema = validation.MustCompile(settingsSchemaJSON)
