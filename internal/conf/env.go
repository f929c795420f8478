// env.go - Environment variable configuration and validation for yieldcast
package conf

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix shared by all environment overrides
const EnvPrefix = "YIELDCAST"

// envBinding holds metadata for environment variable bindings (internal use)
type envBinding struct {
	ConfigKey string             // Viper config key
	EnvVar    string             // Environment variable name
	Validate  func(string) error // Optional validation function
}

// getEnvBindings returns all environment variable bindings with validation
func getEnvBindings() []envBinding {
	return []envBinding{
		{"debug", EnvPrefix + "_DEBUG", validateEnvBool},

		// Logging
		{"logging.default_level", EnvPrefix + "_LOG_LEVEL", validateEnvLogLevel},
		{"logging.file_output.enabled", EnvPrefix + "_LOG_FILE_ENABLED", validateEnvBool},
		{"logging.file_output.path", EnvPrefix + "_LOG_FILE_PATH", validateEnvPath},

		// Model
		{"model.trees", EnvPrefix + "_MODEL_TREES", validateEnvPositiveInt},
		{"model.seed", EnvPrefix + "_MODEL_SEED", validateEnvSeed},
		{"model.workers", EnvPrefix + "_MODEL_WORKERS", validateEnvNonNegativeInt},

		// Training data
		{"training.seed", EnvPrefix + "_TRAINING_SEED", validateEnvSeed},

		// Cache
		{"cache.ttl", EnvPrefix + "_CACHE_TTL", validateEnvDuration},

		// Outputs
		{"output.charts.enabled", EnvPrefix + "_CHARTS_ENABLED", validateEnvBool},
		{"output.charts.path", EnvPrefix + "_CHARTS_PATH", validateEnvPath},

		// Telemetry
		{"telemetry.enabled", EnvPrefix + "_TELEMETRY_ENABLED", validateEnvBool},
		{"telemetry.dsn", EnvPrefix + "_TELEMETRY_DSN", nil},
	}
}

// bindEnvVars sets up environment variable bindings with validation (internal)
func bindEnvVars(v *viper.Viper) error {
	var warnings []string

	for _, binding := range getEnvBindings() {
		if err := v.BindEnv(binding.ConfigKey, binding.EnvVar); err != nil {
			warnings = append(warnings, fmt.Sprintf("failed to bind %s: %v", binding.EnvVar, err))
			continue
		}

		if binding.Validate == nil {
			continue
		}
		if envValue, ok := os.LookupEnv(binding.EnvVar); ok {
			if err := binding.Validate(envValue); err != nil {
				warnings = append(warnings, fmt.Sprintf("invalid %s value '%s': %v", binding.EnvVar, envValue, err))
			}
		}
	}

	if len(warnings) > 0 {
		return fmt.Errorf("environment variable issues:\n  - %s", strings.Join(warnings, "\n  - "))
	}

	return nil
}

// validateEnvBool validates boolean environment variables
func validateEnvBool(value string) error {
	if _, err := strconv.ParseBool(strings.TrimSpace(value)); err != nil {
		return fmt.Errorf("invalid boolean value, expected true/false/1/0")
	}
	return nil
}

// validateEnvLogLevel accepts the levels understood by the logger
func validateEnvLogLevel(value string) error {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "trace", "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("log level must be one of trace, debug, info, warn, error")
	}
}

// validateEnvPath rejects empty paths and NUL bytes
func validateEnvPath(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if strings.ContainsRune(value, 0) {
		return fmt.Errorf("path contains a NUL byte")
	}
	return nil
}

// validateEnvPositiveInt validates integers greater than zero
func validateEnvPositiveInt(value string) error {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("invalid integer value")
	}
	if n < 1 {
		return fmt.Errorf("value must be at least 1")
	}
	return nil
}

// validateEnvNonNegativeInt validates integers of zero or more
func validateEnvNonNegativeInt(value string) error {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("invalid integer value")
	}
	if n < 0 {
		return fmt.Errorf("value cannot be negative")
	}
	return nil
}

// validateEnvSeed validates random seeds; any int64 is allowed
func validateEnvSeed(value string) error {
	if _, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err != nil {
		return fmt.Errorf("invalid seed, expected a 64-bit integer")
	}
	return nil
}

// validateEnvDuration validates Go duration strings such as 10m or 1h30m
func validateEnvDuration(value string) error {
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("invalid duration, expected e.g. 10m or 1h")
	}
	if d < 0 {
		return fmt.Errorf("duration cannot be negative")
	}
	return nil
}
