package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Ledger service (transactions, budgets, categories, goals, accounts)
	LedgerBaseURL string
	LedgerTimeout time.Duration

	// Analytics service (AI insights)
	AnalyticsBaseURL string
	AnalyticsTimeout time.Duration

	// AMQP (optional alert publishing)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Dashboard cache
	CacheTTL     time.Duration
	CacheMaxSize int
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8082"),

		LedgerBaseURL: getEnv("LEDGER_BASE_URL", "http://localhost:8080"),
		LedgerTimeout: getEnvDuration("LEDGER_TIMEOUT", 10*time.Second),

		AnalyticsBaseURL: getEnv("ANALYTICS_BASE_URL", "http://localhost:5001"),
		AnalyticsTimeout: getEnvDuration("ANALYTICS_TIMEOUT", 30*time.Second),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "budgetwise"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "budget_alerts"),

		CacheTTL:     getEnvDuration("CACHE_TTL", 1*time.Minute),
		CacheMaxSize: getEnvInt("CACHE_MAX_SIZE", 100),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	for _, svc := range []struct {
		name string
		url  string
	}{
		{"ledger", c.LedgerBaseURL},
		{"analytics", c.AnalyticsBaseURL},
	} {
		if svc.url == "" {
			errors = append(errors, fmt.Sprintf("%s base URL cannot be empty", svc.name))
			continue
		}
		parsed, err := url.Parse(svc.url)
		if err != nil {
			errors = append(errors, fmt.Sprintf("invalid %s base URL '%s': %v", svc.name, svc.url, err))
		} else if parsed.Scheme != "http" && parsed.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid %s base URL scheme '%s': must be 'http' or 'https'", svc.name, parsed.Scheme))
		}
	}

	if c.LedgerTimeout < time.Second || c.LedgerTimeout > 2*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid ledger timeout %v: must be between 1s and 2m", c.LedgerTimeout))
	}
	if c.AnalyticsTimeout < time.Second || c.AnalyticsTimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid analytics timeout %v: must be between 1s and 5m", c.AnalyticsTimeout))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.CacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be at least 1 second", c.CacheTTL))
	}
	if c.CacheMaxSize < 1 || c.CacheMaxSize > 10000 {
		errors = append(errors, fmt.Sprintf("invalid cache max size %d: must be between 1 and 10000", c.CacheMaxSize))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
