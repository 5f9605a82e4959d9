// Package service owns the loaded name lookup and serves predictions to the
// HTTP API and the command line.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/navne/internal/domain/gender"
	"github.com/okian/navne/pkg/logger"
	"github.com/okian/navne/pkg/metrics"
)

// ErrNotStarted is returned by operations that need a loaded lookup.
var ErrNotStarted = errors.New("service not started")

// Prediction is the result of a single lookup.
type Prediction struct {
	Name     string          `json:"name" yaml:"name"`
	Key      string          `json:"key" yaml:"key"`
	Score    float64         `json:"score" yaml:"score"`
	Category gender.Category `json:"category" yaml:"category"`
}

// Service holds one immutable gender.Lookup after Start.
type Service struct {
	mu sync.RWMutex

	lookup     *gender.Lookup
	lookupOpts []gender.Option
	loadedAt   time.Time
	started    bool

	metrics *metrics.Manager
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLookupOptions passes options through to gender.Load.
func WithLookupOptions(opts ...gender.Option) Option {
	return func(s *Service) {
		s.lookupOpts = append(s.lookupOpts, opts...)
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics records into m instead of the global metrics manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// New constructs a Service. The name lists are not read until Start.
func New(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the name lists. It is a no-op once the service has started.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.metrics == nil {
		s.metrics = metrics.Global()
	}

	s.logger.Debug(ctx, "loading name lists")
	begin := time.Now()
	lookup, err := gender.Load(ctx, s.lookupOpts...)
	if err != nil {
		s.metrics.RecordLoadError(loadErrorKind(err))
		return fmt.Errorf("load name lists: %w", err)
	}
	elapsed := time.Since(begin)
	s.metrics.ObserveLoadDuration(elapsed.Seconds())

	counts := lookup.Counts()
	for _, c := range []gender.Category{gender.Female, gender.Male, gender.Unisex} {
		s.metrics.SetNamesLoaded(c.String(), counts[c])
	}

	s.lookup = lookup
	s.loadedAt = time.Now()
	s.started = true
	s.logger.Info(ctx, "name lists loaded",
		logger.Int("names", lookup.Len()),
		logger.Int("female", counts[gender.Female]),
		logger.Int("male", counts[gender.Male]),
		logger.Int("unisex", counts[gender.Unisex]),
		logger.String("took", elapsed.String()),
	)
	return nil
}

// Stop releases the lookup. The service may be started again afterwards.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.lookup = nil
	s.started = false
	s.logger.Info(context.Background(), "gender service stopped")
}

// Ready reports whether Start has completed.
func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

func (s *Service) current() (*gender.Lookup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.lookup, nil
}

// Predict classifies a single name.
func (s *Service) Predict(ctx context.Context, name string) (Prediction, error) {
	lookup, err := s.current()
	if err != nil {
		return Prediction{}, err
	}
	p := s.predict(lookup, name)
	s.logger.Debug(ctx, "predicted",
		logger.String("key", p.Key),
		logger.Float64("score", p.Score),
		logger.String("category", p.Category.String()),
	)
	return p, nil
}

// PredictBatch classifies names in order.
func (s *Service) PredictBatch(ctx context.Context, names []string) ([]Prediction, error) {
	lookup, err := s.current()
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveBatchSize(len(names))
	out := make([]Prediction, len(names))
	for i, name := range names {
		out[i] = s.predict(lookup, name)
	}
	s.logger.Debug(ctx, "batch predicted", logger.Int("size", len(names)))
	return out, nil
}

func (s *Service) predict(lookup *gender.Lookup, name string) Prediction {
	category := lookup.Classify(name)
	s.metrics.RecordPrediction(category.String())
	return Prediction{
		Name:     name,
		Key:      gender.Key(name),
		Score:    float64(category.Score()),
		Category: category,
	}
}

// GetStats returns a snapshot of the service state.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started": s.started,
	}
	if !s.started {
		return stats
	}
	counts := s.lookup.Counts()
	stats["names"] = s.lookup.Len()
	stats["female"] = counts[gender.Female]
	stats["male"] = counts[gender.Male]
	stats["unisex"] = counts[gender.Unisex]
	stats["loadedAt"] = s.loadedAt.UTC().Format(time.RFC3339)
	return stats
}

func loadErrorKind(err error) string {
	switch {
	case errors.Is(err, gender.ErrResourceNotFound):
		return "not_found"
	case errors.Is(err, gender.ErrEncoding):
		return "encoding"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "other"
	}
}
