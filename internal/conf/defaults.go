// conf/defaults.go default values for settings
package conf

import (
	"time"

	"github.com/spf13/viper"

	"github.com/tphakala/yieldcast/internal/logger"
)

// Forest and cache defaults shared with callers that build components without a config file
const (
	DefaultTrees           = 100
	DefaultModelSeed       = 42
	DefaultMinSamplesSplit = 2
	DefaultCacheTTL        = 10 * time.Minute
	DefaultChartsPath      = "charts"
)

// setDefaultConfig sets default values for the configuration.
func setDefaultConfig(v *viper.Viper) {
	v.SetDefault("debug", false)

	v.SetDefault("logging.default_level", logger.DefaultLogLevel)
	v.SetDefault("logging.timezone", "Local")
	v.SetDefault("logging.console.enabled", logger.DefaultConsoleEnabled)
	v.SetDefault("logging.console.level", logger.DefaultLogLevel)
	v.SetDefault("logging.file_output.enabled", logger.DefaultFileEnabled)
	v.SetDefault("logging.file_output.path", logger.DefaultLogPath)
	v.SetDefault("logging.file_output.level", logger.DefaultLogLevel)

	v.SetDefault("model.trees", DefaultTrees)
	v.SetDefault("model.seed", DefaultModelSeed)
	v.SetDefault("model.maxdepth", 0)
	v.SetDefault("model.minsamplessplit", DefaultMinSamplesSplit)
	v.SetDefault("model.workers", 0)

	v.SetDefault("training.seed", 0)

	v.SetDefault("cache.ttl", DefaultCacheTTL)

	v.SetDefault("output.charts.enabled", false)
	v.SetDefault("output.charts.path", DefaultChartsPath)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.dsn", "")
}
