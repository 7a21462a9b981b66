package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/imrishuroy/go-checkout-summary/internal/pricing"
)

// Config holds all configuration for the api and worker, read from the
// environment.
type Config struct {
	Server    ServerConfig
	Pricing   PricingConfig
	Worker    WorkerConfig
	Metrics   MetricsConfig
	LogLevel  string
	LogFormat string
	RunLocal  bool
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
	AllowedOrigins  []string
}

type PricingConfig struct {
	DefaultCurrency string
	TaxRate         decimal.Decimal
}

type WorkerConfig struct {
	ResultsQueueURL string
}

type MetricsConfig struct {
	CloudWatch bool
	Namespace  string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	taxRate, err := decimal.NewFromString(getEnv("TAX_RATE", pricing.DefaultTaxRate.String()))
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: TAX_RATE: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 15),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
			AllowedOrigins:  getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Pricing: PricingConfig{
			DefaultCurrency: getEnv("DEFAULT_CURRENCY", pricing.DefaultCurrency),
			TaxRate:         taxRate,
		},
		Worker: WorkerConfig{
			ResultsQueueURL: os.Getenv("RESULTS_QUEUE_URL"),
		},
		Metrics: MetricsConfig{
			CloudWatch: getEnvAsBool("CLOUDWATCH_METRICS", false),
			Namespace:  getEnv("METRICS_NAMESPACE", "CheckoutSummary"),
		},
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		RunLocal:  getEnvAsBool("RUN_LOCAL", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Pricing.TaxRate.IsNegative() || c.Pricing.TaxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("TAX_RATE must be in [0, 1), got %s", c.Pricing.TaxRate)
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.LogFormat)
	}

	return nil
}

// Policy returns the pricing policy with the configured overrides applied.
func (c *Config) Policy() pricing.Policy {
	p := pricing.DefaultPolicy()
	p.DefaultCurrency = c.Pricing.DefaultCurrency
	p.TaxRate = c.Pricing.TaxRate
	return p
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "":
		return defaultValue
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
