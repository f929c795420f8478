// conf/validate.go

package conf

import (
	"fmt"
	"strings"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("validation errors: %s", strings.Join(ve.Errors, "; "))
}

// ValidateSettings validates the entire Settings struct
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	if err := validateModelSettings(&settings.Model); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateCacheSettings(&settings.Cache); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateOutputSettings(&settings.Output); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateTelemetrySettings(&settings.Telemetry); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateLoggingLevels(settings); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

// validateModelSettings validates the random forest hyperparameters
func validateModelSettings(settings *ModelSettings) error {
	var errs []string

	if settings.Trees < 1 {
		errs = append(errs, fmt.Sprintf("model.trees must be at least 1 (got %d)", settings.Trees))
	}
	if settings.MaxDepth < 0 {
		errs = append(errs, fmt.Sprintf("model.maxdepth cannot be negative (got %d)", settings.MaxDepth))
	}
	if settings.MinSamplesSplit < 2 {
		errs = append(errs, fmt.Sprintf("model.minsamplessplit must be at least 2 (got %d)", settings.MinSamplesSplit))
	}
	if settings.Workers < 0 {
		errs = append(errs, fmt.Sprintf("model.workers cannot be negative (got %d)", settings.Workers))
	}

	if len(errs) > 0 {
		return fmt.Errorf("model settings errors: %v", errs)
	}
	return nil
}

func validateCacheSettings(settings *CacheSettings) error {
	if settings.TTL < 0 {
		return fmt.Errorf("cache.ttl cannot be negative (got %s)", settings.TTL)
	}
	return nil
}

func validateOutputSettings(settings *OutputSettings) error {
	if settings.Charts.Enabled && strings.TrimSpace(settings.Charts.Path) == "" {
		return fmt.Errorf("output.charts.path is required when charts are enabled")
	}
	return nil
}

func validateTelemetrySettings(settings *TelemetrySettings) error {
	if settings.Enabled && strings.TrimSpace(settings.DSN) == "" {
		return fmt.Errorf("telemetry.dsn is required when telemetry is enabled")
	}
	return nil
}

// validateLoggingLevels checks the default and per-module levels
func validateLoggingLevels(settings *Settings) error {
	var errs []string

	check := func(key, level string) {
		if level == "" {
			return
		}
		if err := validateEnvLogLevel(level); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v (got %q)", key, err, level))
		}
	}

	check("logging.default_level", settings.Logging.DefaultLevel)
	if settings.Logging.Console != nil {
		check("logging.console.level", settings.Logging.Console.Level)
	}
	if settings.Logging.FileOutput != nil {
		check("logging.file_output.level", settings.Logging.FileOutput.Level)
	}
	for module, level := range settings.Logging.ModuleLevels {
		check("logging.module_levels."+module, level)
	}

	if len(errs) > 0 {
		return fmt.Errorf("logging settings errors: %v", errs)
	}
	return nil
}
