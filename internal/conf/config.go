package conf

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/tphakala/yieldcast/internal/errors"
	"github.com/tphakala/yieldcast/internal/logger"
)

//go:embed config.yaml
var configFiles embed.FS

// ConfigFileName is the file looked up in every config path
const ConfigFileName = "config.yaml"

// Settings contains all configuration options for yieldcast.
type Settings struct {
	Debug bool `yaml:"debug"` // true to enable debug mode

	Logging logger.LoggingConfig `yaml:"logging" mapstructure:"logging"` // centralized logging

	Model     ModelSettings     `yaml:"model"`     // random forest hyperparameters
	Training  TrainingSettings  `yaml:"training"`  // synthetic training data
	Cache     CacheSettings     `yaml:"cache"`     // prediction memoization
	Output    OutputSettings    `yaml:"output"`    // rendered artifacts
	Telemetry TelemetrySettings `yaml:"telemetry"` // optional error reporting
}

// ModelSettings holds the random forest hyperparameters
type ModelSettings struct {
	Trees           int   `yaml:"trees"`           // number of trees in the ensemble
	Seed            int64 `yaml:"seed"`            // master seed for bootstrap sampling, 0 seeds from the clock
	MaxDepth        int   `yaml:"maxdepth"`        // maximum tree depth, 0 for unlimited
	MinSamplesSplit int   `yaml:"minsamplessplit"` // minimum rows required to split a node
	Workers         int   `yaml:"workers"`         // parallel tree fits, 0 uses the host performance core count
}

// TrainingSettings controls the synthetic dataset
type TrainingSettings struct {
	Seed int64 `yaml:"seed"` // generator seed, 0 seeds from the clock
}

// CacheSettings controls prediction memoization
type CacheSettings struct {
	TTL time.Duration `yaml:"ttl"` // lifetime of a memoized prediction
}

// OutputSettings groups file outputs
type OutputSettings struct {
	Charts ChartSettings `yaml:"charts"`
}

// ChartSettings controls PNG chart rendering
type ChartSettings struct {
	Enabled bool   `yaml:"enabled"` // render charts after each prediction
	Path    string `yaml:"path"`    // directory the charts are written to
}

// TelemetrySettings controls Sentry error reporting
type TelemetrySettings struct {
	Enabled bool   `yaml:"enabled"` // opt-in error reporting
	DSN     string `yaml:"dsn"`     // Sentry DSN
}

var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Load reads the configuration file and environment variables into Settings.
// An empty configFile searches the default config paths; a missing file
// there is not an error and leaves the defaults in place.
func Load(configFile string) (*Settings, error) {
	v := viper.New()
	if err := initViper(v, configFile); err != nil {
		return nil, err
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryConfiguration).
			Context("operation", "unmarshal_config").
			Build()
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryConfiguration).
			Context("operation", "validate_config").
			Build()
	}

	settingsMutex.Lock()
	settingsInstance = settings
	settingsMutex.Unlock()

	return settings, nil
}

// initViper applies defaults, environment bindings and the config file to v.
func initViper(v *viper.Viper, configFile string) error {
	v.SetConfigType("yaml")
	setDefaultConfig(v)

	if err := bindEnvVars(v); err != nil {
		return errors.New(err).
			Category(errors.CategoryConfiguration).
			Context("operation", "bind_env").
			Build()
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return errors.New(err).
				Category(errors.CategoryConfiguration).
				FileContext(configFile).
				Context("operation", "read_config").
				Build()
		}
		GetLogger().Debug("configuration loaded", logger.String("path", configFile))
		return nil
	}

	v.SetConfigName("config")
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return err
	}
	for _, path := range configPaths {
		v.AddConfigPath(path)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			GetLogger().Debug("no config file found, using defaults")
			return nil
		}
		return errors.New(err).
			Category(errors.CategoryConfiguration).
			Context("operation", "read_config").
			Build()
	}

	GetLogger().Debug("configuration loaded", logger.String("path", v.ConfigFileUsed()))
	return nil
}

// GetSettings returns the settings from the last successful Load, or nil
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// DefaultConfig returns the embedded default config.yaml
func DefaultConfig() ([]byte, error) {
	data, err := fs.ReadFile(configFiles, ConfigFileName)
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryConfiguration).
			Context("operation", "read_embedded_config").
			Build()
	}
	return data, nil
}

// WriteDefaultConfig writes the embedded default config to path.
// An existing file is left untouched and reported as an error.
func WriteDefaultConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.Newf("config file already exists: %s", path).
			Category(errors.CategoryConfiguration).
			FileContext(path).
			Context("operation", "write_default_config").
			Build()
	}

	data, err := DefaultConfig()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.New(err).
			Category(errors.CategoryFileIO).
			FileContext(path).
			Context("operation", "create_config_dir").
			Build()
	}

	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // config is not secret
		return errors.New(err).
			Category(errors.CategoryFileIO).
			FileContext(path).
			Context("operation", "write_default_config").
			Build()
	}

	GetLogger().Info("created default config file", logger.String("path", path))
	return nil
}

// SaveYAMLConfig writes settings to configPath.
// It overwrites the existing file, not preserving comments or structure.
func SaveYAMLConfig(configPath string, settings *Settings) error {
	yamlData, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("error marshaling settings to YAML: %w", err)
	}

	// write to a temporary file first so the swap is atomic
	tempFile, err := os.CreateTemp(filepath.Dir(configPath), "config-*.yaml")
	if err != nil {
		return fmt.Errorf("error creating temporary file: %w", err)
	}
	tempFileName := tempFile.Name()
	defer func() { _ = os.Remove(tempFileName) }()

	if _, err := tempFile.Write(yamlData); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("error writing to temporary file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("error closing temporary file: %w", err)
	}

	if err := moveFile(tempFileName, configPath); err != nil {
		return fmt.Errorf("error replacing config file: %w", err)
	}

	return nil
}
