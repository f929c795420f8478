package conf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/yieldcast/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadEmbeddedDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, WriteDefaultConfig(path))

	settings, err := Load(path)
	require.NoError(t, err)

	assert.False(t, settings.Debug)
	assert.Equal(t, DefaultTrees, settings.Model.Trees)
	assert.Equal(t, int64(DefaultModelSeed), settings.Model.Seed)
	assert.Equal(t, DefaultMinSamplesSplit, settings.Model.MinSamplesSplit)
	assert.Zero(t, settings.Model.MaxDepth)
	assert.Zero(t, settings.Training.Seed)
	assert.Equal(t, DefaultCacheTTL, settings.Cache.TTL)
	assert.Equal(t, DefaultChartsPath, settings.Output.Charts.Path)
	assert.False(t, settings.Telemetry.Enabled)
	assert.Equal(t, "info", settings.Logging.DefaultLevel)
	require.NotNil(t, settings.Logging.Console)
	assert.True(t, settings.Logging.Console.Enabled)

	assert.Same(t, settings, GetSettings())
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
model:
  trees: 25
cache:
  ttl: 90s
logging:
  module_levels:
    forest: debug
`)

	settings, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 25, settings.Model.Trees)
	assert.Equal(t, int64(DefaultModelSeed), settings.Model.Seed)
	assert.Equal(t, 90*time.Second, settings.Cache.TTL)
	assert.Equal(t, map[string]string{"forest": "debug"}, settings.Logging.ModuleLevels)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("YIELDCAST_MODEL_TREES", "7")
	t.Setenv("YIELDCAST_TRAINING_SEED", "1234")
	t.Setenv("YIELDCAST_CACHE_TTL", "1h")

	settings, err := Load(writeConfig(t, "model:\n  trees: 50\n"))
	require.NoError(t, err)

	assert.Equal(t, 7, settings.Model.Trees)
	assert.Equal(t, int64(1234), settings.Training.Seed)
	assert.Equal(t, time.Hour, settings.Cache.TTL)
}

func TestLoadRejectsInvalidEnvironment(t *testing.T) {
	t.Setenv("YIELDCAST_MODEL_TREES", "many")

	_, err := Load(writeConfig(t, "debug: true\n"))
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
	assert.Contains(t, err.Error(), "YIELDCAST_MODEL_TREES")
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	t.Parallel()

	_, err := Load(writeConfig(t, `
model:
  trees: 0
  minsamplessplit: 1
telemetry:
  enabled: true
`))
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
	assert.Contains(t, err.Error(), "model.trees")
	assert.Contains(t, err.Error(), "model.minsamplessplit")
	assert.Contains(t, err.Error(), "telemetry.dsn")
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestWriteDefaultConfigRefusesOverwrite(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "debug: true\n")
	err := WriteDefaultConfig(path)
	require.Error(t, err)

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "debug: true\n", string(data))
}

func TestSaveYAMLConfigRoundTrip(t *testing.T) {
	path := writeConfig(t, "")

	original, err := Load(path)
	require.NoError(t, err)
	original.Model.Trees = 33
	original.Training.Seed = 99
	original.Output.Charts.Enabled = true
	original.Cache.TTL = 5 * time.Minute

	require.NoError(t, SaveYAMLConfig(path, original))

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 33, reloaded.Model.Trees)
	assert.Equal(t, int64(99), reloaded.Training.Seed)
	assert.True(t, reloaded.Output.Charts.Enabled)
	assert.Equal(t, 5*time.Minute, reloaded.Cache.TTL)
}

func TestValidateEnvValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		validate func(string) error
		value    string
		wantErr  bool
	}{
		{"bool true", validateEnvBool, " true ", false},
		{"bool yes", validateEnvBool, "yes", true},
		{"level debug", validateEnvLogLevel, "DEBUG", false},
		{"level verbose", validateEnvLogLevel, "verbose", true},
		{"trees zero", validateEnvPositiveInt, "0", true},
		{"trees ten", validateEnvPositiveInt, "10", false},
		{"workers negative", validateEnvNonNegativeInt, "-1", true},
		{"seed negative", validateEnvSeed, "-42", false},
		{"seed float", validateEnvSeed, "4.2", true},
		{"duration ok", validateEnvDuration, "1h30m", false},
		{"duration bare number", validateEnvDuration, "10", true},
		{"path empty", validateEnvPath, "  ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.validate(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
