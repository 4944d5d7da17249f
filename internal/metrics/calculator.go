// Package metrics implements the four maintainability calculators. The set
// is closed: every calculator consumes the same read-only snapshot and fills
// exactly one result slot, so they are safe to run in any order or in
// parallel.
package metrics

import (
	"github.com/takeru0219/repo-maintidx/internal/domain"
)

// Calculate runs the named calculator against the snapshot.
func Calculate(name domain.MetricName, snap *domain.Snapshot) domain.MetricResult {
	switch name {
	case domain.MetricCodeQuality:
		return CodeQuality(snap)
	case domain.MetricDocumentation:
		return Documentation(snap)
	case domain.MetricActivity:
		return Activity(snap)
	case domain.MetricCommunityHealth:
		return CommunityHealth(snap)
	default:
		return domain.NewUnavailable(name, "unknown metric", nil)
	}
}

// All runs every calculator and returns the results in canonical order.
func All(snap *domain.Snapshot) []domain.MetricResult {
	results := make([]domain.MetricResult, len(domain.MetricOrder))
	for i, name := range domain.MetricOrder {
		results[i] = Calculate(name, snap)
	}
	return results
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func saturate(v, full float64) float64 {
	if full <= 0 {
		return 0
	}
	r := v / full
	if r > 1 {
		return 1
	}
	if r < 0 {
		return 0
	}
	return r
}
