// internal/pkg/config/validators.go
package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingRequiredConfig marks configuration values that must be set
// before the process can start.
var ErrMissingRequiredConfig = errors.New("missing required configuration")

// Validator checks one aspect of the loaded configuration.
type Validator interface {
	Validate(cfg *Config) error
}

// validatorsFor returns the validator chain for an environment. Production
// gets the strict set on top of the basic checks.
func validatorsFor(env string) []Validator {
	chain := []Validator{&BasicValidator{}}
	if env == "production" {
		chain = append(chain, &ProductionValidator{}, &SecurityValidator{})
	}
	return chain
}

// BasicValidator checks invariants that hold in every environment.
type BasicValidator struct{}

func (v *BasicValidator) Validate(cfg *Config) error {
	if cfg.Database.Host == "" || cfg.Database.Name == "" {
		return fmt.Errorf("%w: database host and name", ErrMissingRequiredConfig)
	}

	if cfg.Database.MaxConnections < cfg.Database.MinConnections {
		return fmt.Errorf("database max_connections must be >= min_connections")
	}

	if cfg.Redis.PoolSize <= 0 {
		return fmt.Errorf("redis pool_size must be positive")
	}

	if cfg.Asynq.Concurrency <= 0 {
		return fmt.Errorf("asynq concurrency must be positive")
	}

	if cfg.Catalog.SerialPrefix == "" {
		return fmt.Errorf("%w: catalog serial prefix", ErrMissingRequiredConfig)
	}

	if cfg.Catalog.LowStockThreshold < 0 {
		return fmt.Errorf("catalog low_stock_threshold cannot be negative")
	}

	if cfg.FileProcessing.ExcelMaxSizeMB <= 0 {
		return fmt.Errorf("excel_max_size_mb must be positive")
	}

	return nil
}

// ProductionValidator rejects development defaults that must never reach
// production.
type ProductionValidator struct{}

func (v *ProductionValidator) Validate(cfg *Config) error {
	if strings.Contains(cfg.Database.Password, "MISSING_") || strings.HasSuffix(cfg.Database.Password, "_dev_2025") {
		return fmt.Errorf("%w: database password", ErrMissingRequiredConfig)
	}

	if cfg.Database.SSLMode == "disable" {
		return fmt.Errorf("database SSL must be enabled in production")
	}

	if !cfg.Security.SecureHeaders {
		return fmt.Errorf("secure headers must be enabled in production")
	}

	if len(cfg.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("allowed origins must be configured in production")
	}

	if cfg.Server.TLSEnabled {
		if cfg.Server.TLSCertFile == "" || cfg.Server.TLSKeyFile == "" {
			return fmt.Errorf("TLS cert and key files must be provided when TLS is enabled")
		}
	}

	return nil
}

// SecurityValidator validates security-related configuration.
type SecurityValidator struct{}

func (v *SecurityValidator) Validate(cfg *Config) error {
	if len(cfg.Security.JWTSecret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}

	if cfg.Security.JWTSecret == "development-secret-change-in-production" {
		return fmt.Errorf("default JWT secret cannot be used in production")
	}

	if cfg.Security.BcryptCost < 10 {
		return fmt.Errorf("bcrypt cost must be at least 10")
	}
	if cfg.Security.BcryptCost > 15 {
		return fmt.Errorf("bcrypt cost should not exceed 15 for performance reasons")
	}

	for _, origin := range cfg.Security.AllowedOrigins {
		if origin == "*" && cfg.IsProduction() {
			return fmt.Errorf("wildcard origin (*) not allowed in production")
		}
	}

	return nil
}
