package forest

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/tphakala/yieldcast/internal/errors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// stepData has a label driven by feature 0 only; feature 1 is noise
func stepData(n int, seed uint64) (x [][]float64, y []float64) {
	rng := rand.New(rand.NewPCG(seed, 0))
	x = make([][]float64, n)
	y = make([]float64, n)
	for i := range n {
		a, b := rng.Float64(), rng.Float64()
		x[i] = []float64{a, b}
		if a > 0.5 {
			y[i] = 10
		}
	}
	return x, y
}

func TestTreeFitsStepFunction(t *testing.T) {
	t.Parallel()

	x, y := stepData(200, 1)
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}

	tree, imp := fitTree(x, y, idx, treeParams{minSamplesSplit: 2})
	assert.InDelta(t, 10, tree.Predict([]float64{0.9, 0.1}), 1e-9)
	assert.InDelta(t, 0, tree.Predict([]float64{0.1, 0.9}), 1e-9)
	assert.Equal(t, 1, tree.Depth(), "one split separates the classes")
	assert.Equal(t, 3, tree.NodeCount())
	assert.Greater(t, imp[0], 0.0)
	assert.InDelta(t, 0, imp[1], 0)
}

func TestTreeMaxDepth(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(3, 3))
	x := make([][]float64, 100)
	y := make([]float64, 100)
	idx := make([]int, 100)
	for i := range x {
		x[i] = []float64{rng.Float64()}
		y[i] = rng.Float64()
		idx[i] = i
	}

	tree, _ := fitTree(x, y, idx, treeParams{maxDepth: 2, minSamplesSplit: 2})
	assert.LessOrEqual(t, tree.Depth(), 2)

	full, _ := fitTree(x, y, idx, treeParams{minSamplesSplit: 2})
	assert.Greater(t, full.Depth(), 2)
	// an unbounded tree memorizes distinct points
	for i := range x {
		assert.InDelta(t, y[i], full.Predict(x[i]), 1e-9)
	}
}

func TestTreeConstantLabelsIsLeaf(t *testing.T) {
	t.Parallel()

	x := [][]float64{{1}, {2}, {3}}
	y := []float64{4, 4, 4}
	tree, _ := fitTree(x, y, []int{0, 1, 2}, treeParams{minSamplesSplit: 2})
	assert.Equal(t, 1, tree.NodeCount())
	assert.InDelta(t, 4, tree.Predict([]float64{100}), 0)
}

func TestForestFitPredict(t *testing.T) {
	t.Parallel()

	x, y := stepData(300, 7)
	r := New(Config{Trees: 25, Seed: 42, MinSamplesSplit: 2, Workers: 4})
	require.NoError(t, r.Fit(context.Background(), x, y))

	hi, err := r.Predict([]float64{0.95, 0.5})
	require.NoError(t, err)
	lo, err := r.Predict([]float64{0.05, 0.5})
	require.NoError(t, err)
	assert.Greater(t, hi, 9.0)
	assert.Less(t, lo, 1.0)

	imp := r.FeatureImportances()
	require.Len(t, imp, 2)
	assert.InDelta(t, 1.0, imp[0]+imp[1], 1e-9)
	assert.Greater(t, imp[0], 0.9)
	assert.Len(t, r.Trees(), 25)
}

func TestForestDeterministicAcrossWorkerCounts(t *testing.T) {
	t.Parallel()

	x, y := stepData(150, 11)
	for i := range y {
		y[i] += x[i][1] * 3
	}

	probe := [][]float64{{0.2, 0.3}, {0.7, 0.1}, {0.5, 0.9}}

	predict := func(workers int) []float64 {
		r := New(Config{Trees: 10, Seed: 99, Workers: workers})
		require.NoError(t, r.Fit(context.Background(), x, y))
		out := make([]float64, len(probe))
		for i, p := range probe {
			v, err := r.Predict(p)
			require.NoError(t, err)
			out[i] = v
		}
		return out
	}

	assert.Equal(t, predict(1), predict(8))

	other := New(Config{Trees: 10, Seed: 100})
	require.NoError(t, other.Fit(context.Background(), x, y))
	v, err := other.Predict(probe[2])
	require.NoError(t, err)
	assert.NotEqual(t, predict(1)[2], v)
}

func TestForestRejectsBadInput(t *testing.T) {
	t.Parallel()

	r := New(DefaultConfig())

	err := r.Fit(context.Background(), nil, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryModelTraining))

	err = r.Fit(context.Background(), [][]float64{{1}, {2}}, []float64{1})
	assert.True(t, errors.IsCategory(err, errors.CategoryModelTraining))

	err = r.Fit(context.Background(), [][]float64{{1}, {2, 3}}, []float64{1, 2})
	assert.True(t, errors.IsCategory(err, errors.CategoryModelTraining))

	_, err = r.Predict([]float64{1})
	assert.True(t, errors.IsCategory(err, errors.CategoryModelPrediction))
	assert.False(t, r.Fitted())
}

func TestForestPredictWidthMismatch(t *testing.T) {
	t.Parallel()

	x, y := stepData(50, 2)
	r := New(Config{Trees: 3, Seed: 1})
	require.NoError(t, r.Fit(context.Background(), x, y))

	_, err := r.Predict([]float64{1, 2, 3})
	require.Error(t, err)
}

func TestForestFitCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	x, y := stepData(50, 5)
	r := New(Config{Trees: 50, Seed: 1})
	err := r.Fit(ctx, x, y)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, errors.IsCategory(err, errors.CategoryCancellation))
	assert.False(t, r.Fitted())
}

func TestNewAppliesDefaults(t *testing.T) {
	t.Parallel()

	r := New(Config{Trees: 0, MinSamplesSplit: 1, MaxDepth: -3})
	cfg := r.Config()
	assert.Equal(t, DefaultTrees, cfg.Trees)
	assert.Equal(t, DefaultMinSamplesSplit, cfg.MinSamplesSplit)
	assert.Zero(t, cfg.MaxDepth)
}

func TestForestSummary(t *testing.T) {
	t.Parallel()

	r := New(Config{Trees: 5, Seed: 3, MaxDepth: 3, Workers: 2})
	assert.Equal(t, Summary{}, r.Summary(), "unfitted forest is empty")

	x, y := stepData(120, 4)
	require.NoError(t, r.Fit(context.Background(), x, y))

	s := r.Summary()
	assert.Equal(t, 5, s.Trees)
	assert.LessOrEqual(t, s.MaxDepth, 3)
	assert.GreaterOrEqual(t, s.MaxDepth, 1, "the step is always split")
	assert.LessOrEqual(t, s.MeanDepth, float64(s.MaxDepth))

	nodes := 0
	for _, tree := range r.Trees() {
		nodes += tree.NodeCount()
	}
	assert.Equal(t, nodes, s.Nodes)
	// a binary tree of depth d holds at most 2^(d+1)-1 nodes
	assert.LessOrEqual(t, s.Nodes, 5*15)
}
