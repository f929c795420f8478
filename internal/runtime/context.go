// Package runtime holds the resources shared by CLI commands for one run.
package runtime

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/tphakala/yieldcast/internal/buildinfo"
	"github.com/tphakala/yieldcast/internal/conf"
	"github.com/tphakala/yieldcast/internal/cpuspec"
	"github.com/tphakala/yieldcast/internal/crops"
	"github.com/tphakala/yieldcast/internal/estimator"
	"github.com/tphakala/yieldcast/internal/forest"
	"github.com/tphakala/yieldcast/internal/observability"
	"github.com/tphakala/yieldcast/internal/report"
)

// Context contains the state of one CLI run. Settings and Metrics are
// filled in by the root command before any subcommand runs.
type Context struct {
	Build    *buildinfo.Context
	Settings *conf.Settings
	Catalog  *crops.Catalog
	Metrics  *observability.Metrics

	Out     io.Writer // report output, stdout unless replaced
	NoColor bool      // disable terminal colors

	mu      sync.Mutex
	service *estimator.Service
}

// New returns a context over the embedded crop catalog, writing to stdout.
func New(build *buildinfo.Context) *Context {
	return &Context{Build: build, Catalog: crops.MustDefault(), Out: os.Stdout}
}

// Service returns the prediction service, creating it on first use.
func (c *Context) Service() *estimator.Service {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.service == nil {
		var opts []estimator.Option
		if c.Metrics != nil {
			opts = append(opts, estimator.WithRecorder(c.Metrics.Estimator))
		}
		c.service = estimator.NewService(c.Catalog, ServiceConfig(c.Settings), opts...)
	}
	return c.service
}

// Printer returns a report printer bound to Out.
func (c *Context) Printer() *report.Printer {
	if c.NoColor {
		return report.New(c.Out, report.WithColor(false))
	}
	return report.New(c.Out)
}

// ServiceConfig maps settings onto the estimator configuration.
// A zero model seed is replaced with a clock seed and zero workers with
// the host's performance core count.
func ServiceConfig(s *conf.Settings) estimator.Config {
	if s == nil {
		return estimator.Config{Forest: forest.DefaultConfig()}
	}

	seed := uint64(s.Model.Seed) //nolint:gosec // sign does not matter for a seed
	if s.Model.Seed == 0 {
		seed = uint64(time.Now().UnixNano()) //nolint:gosec // sign does not matter for a seed
	}

	workers := s.Model.Workers
	if workers == 0 {
		workers = cpuspec.GetCPUSpec().OptimalWorkers()
	}

	return estimator.Config{
		Forest: forest.Config{
			Trees:           s.Model.Trees,
			Seed:            seed,
			MaxDepth:        s.Model.MaxDepth,
			MinSamplesSplit: s.Model.MinSamplesSplit,
			Workers:         workers,
		},
		TrainingSeed: s.Training.Seed,
		CacheTTL:     s.Cache.TTL,
	}
}
