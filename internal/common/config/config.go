// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Database      DatabaseConfig     `mapstructure:"database"`
	GenAI         GenAIConfig        `mapstructure:"genai"`
	Gmail         GmailConfig        `mapstructure:"gmail"`
	Shopify       ShopifyConfig      `mapstructure:"shopify"`
	Escalation    EscalationConfig   `mapstructure:"escalation"`
	Processor     ProcessorConfig    `mapstructure:"processor"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Logging       LoggingConfig      `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
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

type ElasticsearchConfig struct {
	Addresses     []string `mapstructure:"addresses"`
	Username      string   `mapstructure:"username"`
	Password      string   `mapstructure:"password"`
	ResponseIndex string   `mapstructure:"response_index"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// GenAIConfig holds settings for the external text-generation provider.
type GenAIConfig struct {
	BaseURL     string  `mapstructure:"base_url"`
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
	Timeout     int     `mapstructure:"timeout"` // milliseconds
}

// GmailConfig holds settings for the mailbox adapter.
type GmailConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	AccessToken string `mapstructure:"access_token"`
	UserID      string `mapstructure:"user_id"`
	SupportAddr string `mapstructure:"support_address"`
	Timeout     int    `mapstructure:"timeout"` // milliseconds
}

// ShopifyConfig holds settings for the order-lookup adapter.
type ShopifyConfig struct {
	ShopDomain  string `mapstructure:"shop_domain"`
	AccessToken string `mapstructure:"access_token"`
	APIVersion  string `mapstructure:"api_version"`
	CacheTTL    int    `mapstructure:"cache_ttl"` // seconds
	Timeout     int    `mapstructure:"timeout"`   // milliseconds
}

// EscalationConfig controls when replies are held for human review.
type EscalationConfig struct {
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`
	ValidationThreshold float64 `mapstructure:"validation_threshold"`
	// AutoSendFallback sends fallback-composed replies even when they are
	// flagged for review, recording the flag for audit instead of drafting.
	AutoSendFallback bool `mapstructure:"auto_send_fallback"`
}

// ProcessorConfig controls the inbox polling loop.
type ProcessorConfig struct {
	PollInterval int `mapstructure:"poll_interval"` // seconds
	Workers      int `mapstructure:"workers"`
	BatchSize    int `mapstructure:"batch_size"`
	DedupTTL     int `mapstructure:"dedup_ttl"` // seconds, redis guard key lifetime
}

// NotificationConfig holds settings for escalation alerts to the support team.
type NotificationConfig struct {
	Email struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
		TeamEmail string `mapstructure:"team_email"`
	} `mapstructure:"email"`
	SMS struct {
		Enabled     bool   `mapstructure:"enabled"`
		TeamPhone   string `mapstructure:"team_phone"`
		UrgencyOnly string `mapstructure:"urgency_only"` // only alert at/above this urgency
	} `mapstructure:"sms"`
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
