// Package forest implements a random forest regressor: bagged CART trees
// whose predictions are averaged.
//
// Trees are fitted in parallel. Each tree draws its bootstrap sample from a
// source derived from the master seed and the tree's position, so a fixed
// seed gives the same forest regardless of scheduling.
package forest

import (
	"context"
	"math/rand/v2"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tphakala/yieldcast/internal/errors"
	"github.com/tphakala/yieldcast/internal/logger"
)

// Defaults match a common random forest setup
const (
	DefaultTrees           = 100
	DefaultSeed            = 42
	DefaultMinSamplesSplit = 2
)

// Config holds forest hyperparameters.
type Config struct {
	Trees           int    // number of trees
	Seed            uint64 // master seed for bootstrap sampling
	MaxDepth        int    // 0 for unlimited
	MinSamplesSplit int    // minimum rows at a node to try a split
	Workers         int    // concurrent tree fits, 0 uses GOMAXPROCS
}

// DefaultConfig returns 100 unbounded trees seeded with 42.
func DefaultConfig() Config {
	return Config{
		Trees:           DefaultTrees,
		Seed:            DefaultSeed,
		MinSamplesSplit: DefaultMinSamplesSplit,
	}
}

// Regressor is a fitted random forest. It is safe for concurrent prediction.
type Regressor struct {
	cfg         Config
	trees       []*Tree
	nFeatures   int
	importances []float64
}

// New returns an unfitted regressor.
func New(cfg Config) *Regressor {
	if cfg.Trees < 1 {
		cfg.Trees = DefaultTrees
	}
	if cfg.MinSamplesSplit < 2 {
		cfg.MinSamplesSplit = DefaultMinSamplesSplit
	}
	if cfg.MaxDepth < 0 {
		cfg.MaxDepth = 0
	}
	return &Regressor{cfg: cfg}
}

// Fit grows the forest on x and y. Cancelling ctx stops scheduling new trees.
func (r *Regressor) Fit(ctx context.Context, x [][]float64, y []float64) error {
	if err := checkInput(x, y); err != nil {
		return err
	}

	start := time.Now()
	n := len(x)
	nFeatures := len(x[0])
	params := treeParams{maxDepth: r.cfg.MaxDepth, minSamplesSplit: r.cfg.MinSamplesSplit}

	trees := make([]*Tree, r.cfg.Trees)
	perTree := make([][]float64, r.cfg.Trees)

	workers := r.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for t := range r.cfg.Trees {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewPCG(r.cfg.Seed, uint64(t))) //nolint:gosec // tree index is non-negative
			idx := bootstrap(rng, n)
			trees[t], perTree[t] = fitTree(x, y, idx, params)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return cancelled(err)
	}
	if err := ctx.Err(); err != nil {
		return cancelled(err)
	}

	r.trees = trees
	r.nFeatures = nFeatures
	r.importances = averageImportances(perTree, nFeatures)

	sum := r.Summary()
	GetLogger().Debug("forest fitted",
		logger.Int("model.trees", sum.Trees),
		logger.Int("model.nodes", sum.Nodes),
		logger.Int("model.max_depth", sum.MaxDepth),
		logger.Float64("model.mean_depth", sum.MeanDepth),
		logger.Int("data.samples", n),
		logger.Int("data.features", nFeatures),
		logger.Int64("perf.duration_ms", time.Since(start).Milliseconds()))

	return nil
}

func checkInput(x [][]float64, y []float64) error {
	if len(x) == 0 {
		return trainingError("cannot fit forest on an empty dataset")
	}
	if len(x) != len(y) {
		return trainingError("feature and label counts differ")
	}
	width := len(x[0])
	if width == 0 {
		return trainingError("rows have no features")
	}
	for i := range x {
		if len(x[i]) != width {
			return trainingError("rows have inconsistent widths")
		}
	}
	return nil
}

func trainingError(msg string) error {
	return errors.Newf("%s", msg).
		Component("forest").
		Category(errors.CategoryModelTraining).
		Build()
}

func cancelled(err error) error {
	return errors.New(err).
		Component("forest").
		Category(errors.CategoryCancellation).
		Context("operation", "fit_forest").
		Build()
}

// bootstrap draws n row indices with replacement
func bootstrap(rng *rand.Rand, n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = rng.IntN(n)
	}
	return idx
}

// averageImportances normalizes each tree's impurity decrease to sum 1,
// averages across trees and renormalizes.
func averageImportances(perTree [][]float64, nFeatures int) []float64 {
	out := make([]float64, nFeatures)
	for _, imp := range perTree {
		total := 0.0
		for _, v := range imp {
			total += v
		}
		if total == 0 {
			continue
		}
		for j, v := range imp {
			out[j] += v / total
		}
	}

	total := 0.0
	for _, v := range out {
		total += v
	}
	if total > 0 {
		for j := range out {
			out[j] /= total
		}
	}
	return out
}

// Fitted reports whether Fit has completed.
func (r *Regressor) Fitted() bool {
	return len(r.trees) > 0
}

// Predict returns the mean of the tree predictions for x.
func (r *Regressor) Predict(x []float64) (float64, error) {
	if !r.Fitted() {
		return 0, errors.Newf("forest is not fitted").
			Component("forest").
			Category(errors.CategoryModelPrediction).
			Build()
	}
	if len(x) != r.nFeatures {
		return 0, errors.Newf("expected %d features, got %d", r.nFeatures, len(x)).
			Component("forest").
			Category(errors.CategoryModelPrediction).
			Build()
	}

	sum := 0.0
	for _, t := range r.trees {
		sum += t.Predict(x)
	}
	return sum / float64(len(r.trees)), nil
}

// FeatureImportances returns the normalized impurity-based importances,
// summing to 1 when any split was made.
func (r *Regressor) FeatureImportances() []float64 {
	out := make([]float64, len(r.importances))
	copy(out, r.importances)
	return out
}

// Trees returns the fitted trees.
func (r *Regressor) Trees() []*Tree {
	return r.trees
}

// Summary describes the size of a fitted forest.
type Summary struct {
	Trees     int
	Nodes     int
	MaxDepth  int
	MeanDepth float64
}

// Summary returns node and depth totals over the fitted trees, the zero
// value when unfitted.
func (r *Regressor) Summary() Summary {
	var s Summary
	depths := 0
	for _, t := range r.Trees() {
		d := t.Depth()
		s.Trees++
		s.Nodes += t.NodeCount()
		s.MaxDepth = max(s.MaxDepth, d)
		depths += d
	}
	if s.Trees > 0 {
		s.MeanDepth = float64(depths) / float64(s.Trees)
	}
	return s
}

// Config returns the effective hyperparameters.
func (r *Regressor) Config() Config {
	return r.cfg
}
