// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like GENAI_API_KEY
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment overlay, e.g. config.production.yaml
	envConfigFile := fmt.Sprintf("config.%s", env)
	viper.SetConfigName(envConfigFile)
	_ = viper.MergeInConfig() // ignore error if not found

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Load .env from multiple possible locations so tests and the binary
// behave the same regardless of working directory.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// Expand ${VAR} placeholders left in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)

		if strVal, ok := val.(string); ok {
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				expanded := os.ExpandEnv(strVal)
				if expanded != strVal && expanded != "" {
					v.Set(key, expanded)
				}
			}
		}
	}
}

// Direct override if config values are still empty after expansion
func overrideEmptyConfig(cfg *Config) {
	if cfg.GenAI.APIKey == "" {
		if val := os.Getenv("GENAI_API_KEY"); val != "" {
			cfg.GenAI.APIKey = val
		}
	}
	if cfg.Gmail.AccessToken == "" {
		if val := os.Getenv("GMAIL_ACCESS_TOKEN"); val != "" {
			cfg.Gmail.AccessToken = val
		}
	}
	if cfg.Shopify.AccessToken == "" {
		if val := os.Getenv("SHOPIFY_ACCESS_TOKEN"); val != "" {
			cfg.Shopify.AccessToken = val
		}
	}
	if cfg.Database.Postgres.Password == "" {
		if val := os.Getenv("POSTGRES_PASSWORD"); val != "" {
			cfg.Database.Postgres.Password = val
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "support-inbox"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 20
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.Redis.Address == "" {
		cfg.Database.Redis.Address = "localhost:6379"
	}
	if cfg.Database.Elasticsearch.ResponseIndex == "" {
		cfg.Database.Elasticsearch.ResponseIndex = "support-responses"
	}

	if cfg.GenAI.Model == "" {
		cfg.GenAI.Model = "gpt-4o-mini"
	}
	if cfg.GenAI.MaxTokens == 0 {
		cfg.GenAI.MaxTokens = 500
	}
	if cfg.GenAI.Temperature == 0 {
		cfg.GenAI.Temperature = 0.7
	}
	if cfg.GenAI.Timeout == 0 {
		cfg.GenAI.Timeout = 30000
	}

	if cfg.Gmail.BaseURL == "" {
		cfg.Gmail.BaseURL = "https://gmail.googleapis.com/gmail/v1"
	}
	if cfg.Gmail.UserID == "" {
		cfg.Gmail.UserID = "me"
	}
	if cfg.Gmail.Timeout == 0 {
		cfg.Gmail.Timeout = 15000
	}

	if cfg.Shopify.APIVersion == "" {
		cfg.Shopify.APIVersion = "2024-01"
	}
	if cfg.Shopify.CacheTTL == 0 {
		cfg.Shopify.CacheTTL = 300
	}
	if cfg.Shopify.Timeout == 0 {
		cfg.Shopify.Timeout = 10000
	}

	if cfg.Escalation.ConfidenceThreshold == 0 {
		cfg.Escalation.ConfidenceThreshold = 0.7
	}
	if cfg.Escalation.ValidationThreshold == 0 {
		cfg.Escalation.ValidationThreshold = 0.6
	}

	if cfg.Processor.PollInterval == 0 {
		cfg.Processor.PollInterval = 60
	}
	if cfg.Processor.Workers == 0 {
		cfg.Processor.Workers = 4
	}
	if cfg.Processor.BatchSize == 0 {
		cfg.Processor.BatchSize = 25
	}
	if cfg.Processor.DedupTTL == 0 {
		cfg.Processor.DedupTTL = 86400
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Escalation.ConfidenceThreshold < 0 || cfg.Escalation.ConfidenceThreshold > 1 {
		return fmt.Errorf("escalation.confidence_threshold must be in [0,1], got %f", cfg.Escalation.ConfidenceThreshold)
	}
	if cfg.Escalation.ValidationThreshold < 0 || cfg.Escalation.ValidationThreshold > 1 {
		return fmt.Errorf("escalation.validation_threshold must be in [0,1], got %f", cfg.Escalation.ValidationThreshold)
	}
	if cfg.Processor.Workers < 1 {
		return fmt.Errorf("processor.workers must be at least 1, got %d", cfg.Processor.Workers)
	}
	if cfg.GenAI.Temperature < 0 || cfg.GenAI.Temperature > 2 {
		return fmt.Errorf("genai.temperature must be in [0,2], got %f", cfg.GenAI.Temperature)
	}
	return nil
}
