/*
Package configs is responsible for loading and parsing the application's configuration settings.

It configures server parameters by reading operating system environment variables,
including the running environment, port, CORS allowed origins, JWT secret,
translation collaborator endpoint, and the optional database connection string.
*/
package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig contains all configuration parameters required for the application to run.
// All configuration values are loaded from environment variables.
type AppConfig struct {
	// General Server Settings
	Environment string
	Port        int

	// Security Settings
	AllowedOrigins []string
	JWTSecret      string

	// Translation Collaborator Settings
	TranslatorURL     string
	TranslatorTimeout time.Duration

	// BaselineLanguage is the language code treated as "no translation needed".
	BaselineLanguage string

	// Database Settings. Empty DatabaseDSN selects the in-memory repository.
	DatabaseDSN string
}

// LoadConfig reads and parses the application configuration from environment variables.
// It provides default values for each configuration item and performs necessary type
// conversions and validation. It returns a pointer to the AppConfig struct and any
// error encountered.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}

	// --- General Server Settings ---
	// Environment
	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	// Port
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT environment variable: %w", err)
	}
	cfg.Port = port

	if cfg.Port < 1024 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", cfg.Port, 1024, 65535)
	}

	// --- Security Settings ---
	// AllowedOrigins
	originsStr := os.Getenv("ALLOWED_ORIGINS")
	if originsStr != "" {
		origins := strings.Split(originsStr, ",")
		for _, origin := range origins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	} else {
		cfg.AllowedOrigins = []string{}
	}

	// JWTSecret. Only the development environment may fall back to the insecure default.
	jwtSecret := os.Getenv("JWT_SECRET")
	if cfg.Environment == "development" {
		if jwtSecret == "" {
			jwtSecret = "your_default_insecure_secret_key_change_me"
		}
	} else {
		if jwtSecret == "" {
			return nil, fmt.Errorf("JWT_SECRET environment variable is required in %s environment for security", cfg.Environment)
		}
	}
	cfg.JWTSecret = jwtSecret

	// --- Translation Collaborator Settings ---
	cfg.TranslatorURL = os.Getenv("TRANSLATOR_URL")
	if cfg.TranslatorURL == "" {
		cfg.TranslatorURL = "http://localhost:3000/api/translate"
	}

	timeoutStr := os.Getenv("TRANSLATOR_TIMEOUT_SECONDS")
	if timeoutStr == "" {
		timeoutStr = "5"
	}
	timeoutSec, err := strconv.Atoi(timeoutStr)
	if err != nil || timeoutSec <= 0 {
		return nil, fmt.Errorf("invalid TRANSLATOR_TIMEOUT_SECONDS environment variable: %q", timeoutStr)
	}
	cfg.TranslatorTimeout = time.Duration(timeoutSec) * time.Second

	// BaselineLanguage
	cfg.BaselineLanguage = os.Getenv("BASELINE_LANGUAGE")
	if cfg.BaselineLanguage == "" {
		cfg.BaselineLanguage = "en"
	}

	// --- Database Settings ---
	// Optional. When unset the server runs on the seeded in-memory repository,
	// which is the demo configuration.
	cfg.DatabaseDSN = os.Getenv("DATABASE_URL")

	return cfg, nil
}
