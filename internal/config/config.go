package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Backend selection
	DataBackend string

	// Memory backend
	DataDir string

	// Database
	SQLiteDBPath string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Remote analyzer; empty means local heuristics only
	AnalyzerBaseURL string
	AnalyzerTimeout time.Duration

	// Analysis result cache
	AnalysisCacheTTL time.Duration
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8080"),

		DataBackend: getEnv("DATA_BACKEND", "memory"),
		DataDir:     getEnv("DATA_DIR", "./data"),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/habitly.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "habitly"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "expense_imports"),

		AnalyzerBaseURL: getEnv("ANALYZER_BASE_URL", ""),
		AnalyzerTimeout: getEnvDuration("ANALYZER_TIMEOUT", 10*time.Second),

		AnalysisCacheTTL: getEnvDuration("ANALYSIS_CACHE_TTL", 5*time.Minute),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	validBackends := []string{"memory", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
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

	if c.AnalyzerBaseURL != "" {
		if parsedURL, err := url.Parse(c.AnalyzerBaseURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid analyzer base URL '%s': %v", c.AnalyzerBaseURL, err))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid analyzer URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
		}
	}

	if c.AnalyzerTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid analyzer timeout %v: must be at least 1 second", c.AnalyzerTimeout))
	} else if c.AnalyzerTimeout > time.Minute {
		errors = append(errors, fmt.Sprintf("invalid analyzer timeout %v: must be at most 1 minute", c.AnalyzerTimeout))
	}

	if c.AnalysisCacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid analysis cache TTL %v: must be at least 1 second", c.AnalysisCacheTTL))
	} else if c.AnalysisCacheTTL > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid analysis cache TTL %v: must be at most 24 hours", c.AnalysisCacheTTL))
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

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
