// Package analyzer orchestrates one analysis run: pre-flight validation,
// snapshot fetch, the four calculators, optional narrative enhancement and
// report assembly. The service holds no state across runs.
package analyzer

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/takeru0219/repo-maintidx/internal/domain"
	"github.com/takeru0219/repo-maintidx/internal/enhancer"
	apperrors "github.com/takeru0219/repo-maintidx/internal/errors"
	"github.com/takeru0219/repo-maintidx/internal/metrics"
	"github.com/takeru0219/repo-maintidx/internal/scoring"
	"github.com/takeru0219/repo-maintidx/internal/snapshot"
)

// Service runs analyses. Construct it once and reuse it; every run is an
// independent single-pass computation.
type Service struct {
	provider        snapshot.Provider
	token           string
	summarizer      enhancer.Summarizer
	enhancerTimeout time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithEnhancer enables narrative generation bounded by the given timeout.
func WithEnhancer(s enhancer.Summarizer, timeout time.Duration) Option {
	return func(svc *Service) {
		svc.summarizer = s
		svc.enhancerTimeout = timeout
	}
}

// New creates an analysis service using the given snapshot provider. The
// token is only checked for presence; authentication itself happens inside
// the provider.
func New(provider snapshot.Provider, token string, opts ...Option) *Service {
	svc := &Service{
		provider:        provider,
		token:           token,
		enhancerTimeout: 60 * time.Second,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Analyze runs the full pipeline for one repository identifier given as
// "owner/name". Fatal errors abort the run; calculator unavailability and
// enhancer failure are absorbed into the report.
func (s *Service) Analyze(ctx context.Context, rawID string) (*domain.Report, error) {
	// Pre-flight: no network call until both checks pass.
	id, err := domain.ParseIdentifier(rawID)
	if err != nil {
		return nil, apperrors.NewConfigurationError(err.Error())
	}
	if s.token == "" {
		return nil, apperrors.NewConfigurationError("GitHub token is required")
	}

	snap, err := s.provider.FetchSnapshot(ctx, id)
	if err != nil {
		return nil, err
	}

	results := s.runCalculators(snap)
	composite, tier := scoring.Composite(results)

	var warnings []string
	if composite == nil {
		warnings = append(warnings, "all metrics unavailable; composite index not computed")
	}

	narrative := ""
	if s.summarizer != nil {
		narrative, err = s.enhance(ctx, snap, results)
		if err != nil {
			// Non-fatal: the numeric results stand on their own.
			log.Printf("Warning: narrative generation failed: %v", err)
			warnings = append(warnings, fmt.Sprintf("narrative generation failed: %v", err))
			narrative = ""
		}
	}

	return &domain.Report{
		ID:          uuid.New().String(),
		Repository:  id.String(),
		Results:     results,
		Composite:   composite,
		Tier:        tier,
		Narrative:   narrative,
		Warnings:    warnings,
		WindowDays:  snap.WindowDays,
		GeneratedAt: time.Now(),
	}, nil
}

// runCalculators executes the four calculators in parallel. Each goroutine
// reads the immutable snapshot and writes only its own slot, so no locks
// are needed and the output is identical to sequential execution.
func (s *Service) runCalculators(snap *domain.Snapshot) []domain.MetricResult {
	results := make([]domain.MetricResult, len(domain.MetricOrder))

	var wg sync.WaitGroup
	for i, name := range domain.MetricOrder {
		wg.Add(1)
		go func(slot int, metric domain.MetricName) {
			defer wg.Done()
			results[slot] = metrics.Calculate(metric, snap)
		}(i, name)
	}
	wg.Wait()

	return results
}

// enhance invokes the summarizer bounded by the configured timeout.
func (s *Service) enhance(ctx context.Context, snap *domain.Snapshot, results []domain.MetricResult) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.enhancerTimeout)
	defer cancel()
	return s.summarizer.Summarize(ctx, snap, results)
}
