package domain

import "time"

// MetricName identifies one of the four calculators. The set is closed.
type MetricName string

const (
	MetricCodeQuality     MetricName = "code_quality"
	MetricDocumentation   MetricName = "documentation"
	MetricActivity        MetricName = "activity"
	MetricCommunityHealth MetricName = "community_health"
)

// MetricOrder is the fixed presentation order of the metrics.
var MetricOrder = []MetricName{
	MetricCodeQuality,
	MetricDocumentation,
	MetricActivity,
	MetricCommunityHealth,
}

// MetricResult is one calculator's assessment. Score is nil when the metric
// is unavailable; when present it is always finite and within [0,100].
type MetricResult struct {
	Name     MetricName `json:"name"`
	Score    *float64   `json:"score,omitempty"`
	Reason   string     `json:"reason,omitempty"`
	Findings []string   `json:"findings,omitempty"`
}

// Available reports whether the metric produced a score.
func (m MetricResult) Available() bool {
	return m.Score != nil
}

// NewScore builds an available result, clamping the score to [0,100].
func NewScore(name MetricName, score float64, findings []string) MetricResult {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return MetricResult{Name: name, Score: &score, Findings: findings}
}

// NewUnavailable builds an unavailable result with a reason.
func NewUnavailable(name MetricName, reason string, findings []string) MetricResult {
	return MetricResult{Name: name, Reason: reason, Findings: findings}
}

// Tier is the discrete quality band derived from the composite index.
type Tier string

const (
	TierExcellent Tier = "excellent"
	TierGood      Tier = "good"
	TierFair      Tier = "fair"
	TierPoor      Tier = "poor"
	TierCritical  Tier = "critical"
)

// Report is the immutable output of one analysis run. Composite is nil when
// every metric was unavailable; Tier is empty in that case.
type Report struct {
	ID          string         `json:"id"`
	Repository  string         `json:"repository"`
	Results     []MetricResult `json:"results"`
	Composite   *float64       `json:"composite,omitempty"`
	Tier        Tier           `json:"tier,omitempty"`
	Narrative   string         `json:"narrative,omitempty"`
	Warnings    []string       `json:"warnings,omitempty"`
	WindowDays  int            `json:"window_days"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// Result returns the result slot for the given metric, or a zero value if
// the name is unknown.
func (r *Report) Result(name MetricName) MetricResult {
	for _, m := range r.Results {
		if m.Name == name {
			return m
		}
	}
	return MetricResult{}
}
