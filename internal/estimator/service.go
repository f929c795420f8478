package estimator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/tphakala/yieldcast/internal/crops"
	"github.com/tphakala/yieldcast/internal/errors"
	"github.com/tphakala/yieldcast/internal/features"
	"github.com/tphakala/yieldcast/internal/forest"
	"github.com/tphakala/yieldcast/internal/logger"
	"github.com/tphakala/yieldcast/internal/observability/metrics"
	"github.com/tphakala/yieldcast/internal/synth"
	"github.com/tphakala/yieldcast/internal/validation"
)

// DefaultCacheTTL is how long a memoized prediction lives when Config leaves it unset.
const DefaultCacheTTL = 10 * time.Minute

// DatasetFunc produces the rows the estimator is trained on.
type DatasetFunc func(ctx context.Context) ([]features.Row, error)

// Config controls how the service trains its estimator.
type Config struct {
	Forest       forest.Config
	TrainingSeed int64         // synthetic dataset seed, 0 seeds from the clock
	CacheTTL     time.Duration // prediction memoization lifetime
}

// Service owns the process-wide estimator. The estimator is trained once,
// on the first Train or Predict call; concurrent first calls share one
// training run and a failed run is retried by the next call.
type Service struct {
	cfg       Config
	catalog   *crops.Catalog
	validator *validation.Validator
	dataset   DatasetFunc
	recorder  metrics.Recorder
	cache     *cache.Cache

	mu   sync.Mutex
	done bool
	est  *Estimator
}

// Option configures a Service.
type Option func(*Service)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithDataset replaces the synthetic training data source.
func WithDataset(fn DatasetFunc) Option {
	return func(s *Service) {
		if fn != nil {
			s.dataset = fn
		}
	}
}

// NewService returns an untrained service over catalog.
func NewService(catalog *crops.Catalog, cfg Config, opts ...Option) *Service {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}

	s := &Service{
		cfg:       cfg,
		catalog:   catalog,
		validator: validation.New(catalog),
		recorder:  metrics.NewNoOpRecorder(),
		// no janitor goroutine; expired entries are purged on insert
		cache: cache.New(cfg.CacheTTL, 0),
	}
	s.dataset = s.syntheticDataset

	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) syntheticDataset(ctx context.Context) ([]features.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return synth.NewSeeded(s.catalog, s.cfg.TrainingSeed).Generate(), nil
}

// Train trains the estimator if it has not been trained yet.
func (s *Service) Train(ctx context.Context) error {
	_, err := s.estimator(ctx)
	return err
}

// Trained reports whether a trained estimator is available.
func (s *Service) Trained() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Estimator returns the trained estimator, training it first if needed.
func (s *Service) Estimator(ctx context.Context) (*Estimator, error) {
	return s.estimator(ctx)
}

func (s *Service) estimator(ctx context.Context) (*Estimator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return s.est, nil
	}

	start := time.Now()
	est, err := s.train(ctx)
	if err != nil {
		s.recorder.RecordError(metrics.OpTrain, errorType(err))
		GetLogger().Error("training failed",
			logger.Error(err),
			logger.Int64("perf.duration_ms", time.Since(start).Milliseconds()))
		return nil, err
	}

	s.recorder.RecordOperation(metrics.OpTrain, metrics.StatusSuccess)
	s.recorder.RecordDuration(metrics.OpTrain, time.Since(start).Seconds())

	s.est = est
	s.done = true
	return est, nil
}

func (s *Service) train(ctx context.Context) (*Estimator, error) {
	rows, err := s.dataset(ctx)
	if err != nil {
		return nil, errors.New(err).
			Component("estimator").
			Category(errors.CategoryModelTraining).
			Context("operation", "generate_dataset").
			Build()
	}

	GetLogger().Debug("training dataset ready", logger.Int("data.samples", len(rows)))

	est := New(s.cfg.Forest)
	if err := est.Fit(ctx, rows); err != nil {
		return nil, err
	}
	return est, nil
}

// Predict validates rec and returns its yield prediction, training the
// estimator first if needed. Validation failures are returned as
// *validation.Error. Results are memoized per record.
func (s *Service) Predict(ctx context.Context, rec features.Record) (Prediction, error) {
	traceID := uuid.NewString()
	ctx = logger.WithTraceID(ctx, traceID)
	log := GetLogger().WithContext(ctx)
	op := metrics.PredictOp(rec.Crop)

	if err := s.validator.Validate(rec); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			s.recorder.RecordError(metrics.OpValidate, string(verr.Kind))
		}
		log.Debug("input rejected", logger.Error(err))
		return Prediction{}, err
	}

	key := cacheKey(rec)
	if cached, found := s.cache.Get(key); found {
		if p, ok := cached.(Prediction); ok {
			s.recorder.RecordOperation(metrics.OpCacheGet, metrics.StatusHit)
			p.TraceID = traceID
			log.Debug("prediction served from cache", logger.String("crop", rec.Crop))
			return p, nil
		}
	}
	s.recorder.RecordOperation(metrics.OpCacheGet, metrics.StatusMiss)

	est, err := s.estimator(ctx)
	if err != nil {
		s.recorder.RecordError(op, errorType(err))
		return Prediction{}, err
	}

	start := time.Now()
	p, err := est.Predict(ctx, rec)
	if err != nil {
		s.recorder.RecordError(op, errorType(err))
		log.Error("prediction failed", logger.String("crop", rec.Crop), logger.Error(err))
		return Prediction{}, err
	}
	s.recorder.RecordOperation(op, metrics.StatusSuccess)
	s.recorder.RecordDuration(op, time.Since(start).Seconds())

	s.cache.DeleteExpired()
	s.cache.SetDefault(key, p)

	p.TraceID = traceID
	log.Info("prediction complete",
		logger.String("crop", rec.Crop),
		logger.Float64("yield.per_hectare", p.YieldPerHectare),
		logger.Float64("yield.confidence", p.Confidence))

	return p, nil
}

// cacheKey identifies a record exactly; area is part of the key because
// total yield and confidence depend on it
func cacheKey(rec features.Record) string {
	return fmt.Sprintf("%s|%s|%g|%g|%g|%g|%g|%g|%g|%g",
		rec.Crop, rec.Soil,
		rec.Temperature, rec.Rainfall, rec.Humidity, rec.PH,
		rec.Nitrogen, rec.Phosphorus, rec.Potassium, rec.Area)
}

// errorType maps an error to a metrics label
func errorType(err error) string {
	var enhanced *errors.EnhancedError
	if errors.As(err, &enhanced) && enhanced.Category != "" {
		return string(enhanced.Category)
	}
	return string(errors.CategoryGeneric)
}
