package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	NLU      NLUConfig      `yaml:"nlu"`
	Twilio   TwilioConfig   `yaml:"twilio"`
	Business BusinessConfig `yaml:"business"`
	Kafka    KafkaConfig    `yaml:"kafka"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// NLUConfig holds the connection settings for the intent classification service.
type NLUConfig struct {
	Endpoint       string `yaml:"endpoint"`
	Token          string `yaml:"token"`
	LanguageCode   string `yaml:"language_code"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// TwilioConfig holds the credentials and numbers for outbound SMS paging.
type TwilioConfig struct {
	BaseURL     string `yaml:"base_url"`
	AccountSID  string `yaml:"account_sid"`
	AuthToken   string `yaml:"auth_token"`
	FromNumber  string `yaml:"from_number"`
	AgentNumber string `yaml:"agent_number"`
}

// BusinessConfig holds customer-facing settings of the laundry business.
type BusinessConfig struct {
	Timezone     string `yaml:"timezone"`
	OrderingURL  string `yaml:"ordering_url"`
	AgentDeskURL string `yaml:"agent_desk_url"`
}

// KafkaConfig holds the settings for the audit event publisher.
// Publishing is disabled when no brokers are configured.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 300
	}

	if cfg.NLU.LanguageCode == "" {
		cfg.NLU.LanguageCode = "en-US"
	}
	if cfg.NLU.TimeoutSeconds <= 0 {
		cfg.NLU.TimeoutSeconds = 10
	}

	if cfg.Twilio.BaseURL == "" {
		cfg.Twilio.BaseURL = "https://api.twilio.com"
	}

	if cfg.Business.Timezone == "" {
		log.Printf("business.timezone is not set; defaulting to America/New_York")
		cfg.Business.Timezone = "America/New_York"
	}

	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "order-events"
	}

	return &cfg, nil
}
