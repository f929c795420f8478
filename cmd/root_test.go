package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/yieldcast/internal/buildinfo"
	"github.com/tphakala/yieldcast/internal/errors"
	"github.com/tphakala/yieldcast/internal/estimator"
	runtimectx "github.com/tphakala/yieldcast/internal/runtime"
	"github.com/tphakala/yieldcast/internal/validation"
)

// smallConfig keeps the forest small so predict tests stay fast
const smallConfig = `
model:
  trees: 8
  seed: 1
  minsamplessplit: 2
training:
  seed: 3
logging:
  default_level: error
  console:
    enabled: true
    level: error
`

// execute runs the CLI with args and returns its report output
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cfg := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(smallConfig), 0o600))

	var out bytes.Buffer
	ctx := runtimectx.New(buildinfo.NewContext("v0.0.0-test", "2026-10-19"))
	ctx.Out = &out

	root := RootCommand(ctx)
	root.SetArgs(append([]string{"--config", cfg, "--no-color"}, args...))
	root.SetOut(&out)
	root.SetErr(&out)

	err := root.Execute()
	Shutdown()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "yieldcast v0.0.0-test (built 2026-10-19")

	out, err = execute(t, "version", "--system")
	require.NoError(t, err)
	assert.Contains(t, out, "Training workers: ")
	assert.Contains(t, out, "Memory: ")
}

func TestConfigCommands(t *testing.T) {
	out, err := execute(t, "config", "defaults")
	require.NoError(t, err)
	assert.Contains(t, out, "trees: 100")

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	out, err = execute(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)
	assert.FileExists(t, path)

	_, err = execute(t, "config", "init", path)
	require.Error(t, err, "an existing config is not overwritten")
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
}

func TestCropsCommands(t *testing.T) {
	out, err := execute(t, "crops", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Corn (Maize)")
	assert.Contains(t, out, "Citrus sinensis")

	dir := t.TempDir()
	out, err = execute(t, "crops", "show", "corn", "(maize)", "--chart", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Zea mays")
	assert.FileExists(t, filepath.Join(dir, "corn_maize_nutrition.png"))

	out, err = execute(t, "crops", "factors", "Rice", "--seed", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "Factors Affecting Rice Yield")

	_, err = execute(t, "crops", "show", "Quinoa")
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryNotFound))
}

func TestPredictJSON(t *testing.T) {
	out, err := execute(t, "predict", "--crop", "Wheat", "--temperature", "18", "--rainfall", "600",
		"--soil", "loamy", "--area", "20", "--json")
	require.NoError(t, err)

	var p estimator.Prediction
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, "Wheat", p.Crop)
	assert.GreaterOrEqual(t, p.YieldPerHectare, 0.0)
	assert.InDelta(t, p.YieldPerHectare*20, p.TotalYield, 1e-9)
	assert.GreaterOrEqual(t, p.Confidence, 50.0)
	assert.LessOrEqual(t, p.Confidence, 98.0)
	assert.NotEmpty(t, p.TraceID)
}

func TestPredictReportWithChartsAndMetrics(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "predict", "--crop", "Rice", "--charts", dir, "--metrics")
	require.NoError(t, err)

	assert.Contains(t, out, "Yield prediction for Rice")
	assert.Contains(t, out, "Recommendations")
	assert.Contains(t, out, `yieldcast_predictions_total{crop="Rice",status="success"} 1`)
	for _, name := range []string{"rice_factors.png", "rice_comparison.png", "rice_gauge.png"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
}

func TestPredictRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"missing crop flag", []string{"predict"}, nil},
		{"unknown crop", []string{"predict", "--crop", "Quinoa"}, validation.ErrUnknownCrop},
		{"ph out of range", []string{"predict", "--crop", "Rice", "--ph", "15"}, validation.ErrOutOfRange},
		{"zero area", []string{"predict", "--crop", "Rice", "--area", "0"}, validation.ErrOutOfRange},
		{"unknown soil", []string{"predict", "--crop", "Rice", "--soil", "gravel"}, validation.ErrInvalidEnum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestDatasetCommand(t *testing.T) {
	out, err := execute(t, "dataset", "--seed", "7")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Greater(t, len(lines), 500, "ten crops with at least 50 rows each")
	assert.True(t, strings.HasPrefix(lines[0], "crop_type,"))

	dir := t.TempDir()
	_, err = execute(t, "dataset", "--seed", "7", "--out", filepath.Join(dir, "train.csv"))
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dir, "train.csv"))
	require.NoError(t, err)
	assert.Equal(t, out, string(data), "a fixed seed gives the same rows")

	_, err = execute(t, "dataset", "--out", filepath.Join(dir, "train.xlsx"))
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "train.xlsx"))

	_, err = execute(t, "dataset", "--out", filepath.Join(dir, "train.txt"))
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
}

func TestSampleCommand(t *testing.T) {
	out, err := execute(t, "sample", "--seed", "11")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "--crop "))
	assert.Contains(t, out, "--area ")
}
