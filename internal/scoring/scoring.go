// Package scoring combines the four metric results into the composite
// maintainability index. Everything here is a pure function over the
// finished results; execution order of the calculators never matters.
package scoring

import (
	"github.com/takeru0219/repo-maintidx/internal/domain"
)

// Canonical metric weights. They sum to 1.0 when all four metrics are
// available.
var Weights = map[domain.MetricName]float64{
	domain.MetricCodeQuality:     0.35,
	domain.MetricDocumentation:   0.15,
	domain.MetricActivity:        0.25,
	domain.MetricCommunityHealth: 0.25,
}

// NormalizedWeights returns the canonical weights renormalized over the
// available metrics so they sum to exactly 1.0. Unavailable metrics get no
// entry. The map is empty when no metric is available.
func NormalizedWeights(results []domain.MetricResult) map[domain.MetricName]float64 {
	total := 0.0
	for _, r := range results {
		if r.Available() {
			total += Weights[r.Name]
		}
	}

	out := make(map[domain.MetricName]float64)
	if total == 0 {
		return out
	}
	for _, r := range results {
		if r.Available() {
			out[r.Name] = Weights[r.Name] / total
		}
	}
	return out
}

// Composite computes the weighted composite index and its tier. It returns
// (nil, "") when every metric is unavailable; the caller must surface that
// explicitly rather than defaulting to zero.
func Composite(results []domain.MetricResult) (*float64, domain.Tier) {
	weights := NormalizedWeights(results)
	if len(weights) == 0 {
		return nil, ""
	}

	sum := 0.0
	for _, r := range results {
		if w, ok := weights[r.Name]; ok {
			sum += *r.Score * w
		}
	}

	return &sum, TierFor(sum)
}

// TierFor maps a composite index to its quality tier. Band boundaries are
// inclusive on the lower end.
func TierFor(score float64) domain.Tier {
	switch {
	case score >= 90:
		return domain.TierExcellent
	case score >= 75:
		return domain.TierGood
	case score >= 60:
		return domain.TierFair
	case score >= 40:
		return domain.TierPoor
	default:
		return domain.TierCritical
	}
}
