package scoring_test

import (
	"math"
	"testing"

	"github.com/takeru0219/repo-maintidx/internal/domain"
	"github.com/takeru0219/repo-maintidx/internal/scoring"
)

func score(name domain.MetricName, v float64) domain.MetricResult {
	return domain.NewScore(name, v, nil)
}

func unavailable(name domain.MetricName) domain.MetricResult {
	return domain.NewUnavailable(name, "test", nil)
}

func TestCanonicalWeightsSumToOne(t *testing.T) {
	sum := 0.0
	for _, name := range domain.MetricOrder {
		sum += scoring.Weights[name]
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("canonical weights sum to %f, want 1.0", sum)
	}
}

func TestNormalizedWeightsSumToOneForAnySubset(t *testing.T) {
	// Every non-empty subset of available metrics must renormalize to 1.0.
	for mask := 1; mask < 16; mask++ {
		var results []domain.MetricResult
		for i, name := range domain.MetricOrder {
			if mask&(1<<i) != 0 {
				results = append(results, score(name, 50))
			} else {
				results = append(results, unavailable(name))
			}
		}

		weights := scoring.NormalizedWeights(results)
		sum := 0.0
		for _, w := range weights {
			sum += w
		}
		if math.Abs(sum-1.0) > 1e-9 {
			t.Errorf("subset %04b: weights sum to %f, want 1.0", mask, sum)
		}
	}
}

func TestCompositeSingleMetricReducesToItsScore(t *testing.T) {
	results := []domain.MetricResult{
		unavailable(domain.MetricCodeQuality),
		unavailable(domain.MetricDocumentation),
		score(domain.MetricActivity, 72.5),
		unavailable(domain.MetricCommunityHealth),
	}

	composite, tier := scoring.Composite(results)
	if composite == nil {
		t.Fatal("expected a composite value")
	}
	if math.Abs(*composite-72.5) > 1e-9 {
		t.Errorf("expected 72.5, got %f", *composite)
	}
	if tier != domain.TierFair {
		t.Errorf("expected fair, got %s", tier)
	}
}

func TestCompositeAllUnavailableReturnsNil(t *testing.T) {
	var results []domain.MetricResult
	for _, name := range domain.MetricOrder {
		results = append(results, unavailable(name))
	}

	composite, tier := scoring.Composite(results)
	if composite != nil {
		t.Errorf("expected nil composite, got %f", *composite)
	}
	if tier != "" {
		t.Errorf("expected empty tier, got %s", tier)
	}
}

func TestCompositeOrderIndependent(t *testing.T) {
	a := []domain.MetricResult{
		score(domain.MetricCodeQuality, 80),
		score(domain.MetricDocumentation, 60),
		score(domain.MetricActivity, 40),
		score(domain.MetricCommunityHealth, 90),
	}
	b := []domain.MetricResult{a[3], a[1], a[0], a[2]}

	ca, ta := scoring.Composite(a)
	cb, tb := scoring.Composite(b)
	if *ca != *cb || ta != tb {
		t.Errorf("composite depends on order: %f/%s vs %f/%s", *ca, ta, *cb, tb)
	}
}

func TestCompositeWeightedAverage(t *testing.T) {
	results := []domain.MetricResult{
		score(domain.MetricCodeQuality, 100),
		score(domain.MetricDocumentation, 100),
		score(domain.MetricActivity, 0),
		score(domain.MetricCommunityHealth, 0),
	}

	composite, _ := scoring.Composite(results)
	// 0.35 + 0.15 of weight at 100, the rest at 0.
	if math.Abs(*composite-50.0) > 1e-9 {
		t.Errorf("expected 50.0, got %f", *composite)
	}
}

func TestCompositeRedistributionScenario(t *testing.T) {
	// CodeQuality and CommunityHealth unavailable: Activity (0.25) and
	// Documentation (0.15) renormalize to 0.625 and 0.375.
	results := []domain.MetricResult{
		unavailable(domain.MetricCodeQuality),
		score(domain.MetricDocumentation, 40),
		score(domain.MetricActivity, 80),
		unavailable(domain.MetricCommunityHealth),
	}

	composite, _ := scoring.Composite(results)
	want := 80*0.625 + 40*0.375
	if math.Abs(*composite-want) > 1e-9 {
		t.Errorf("expected %f, got %f", want, *composite)
	}
}

func TestTierBandsLowerInclusive(t *testing.T) {
	cases := []struct {
		score float64
		want  domain.Tier
	}{
		{100, domain.TierExcellent},
		{90, domain.TierExcellent},
		{89.999, domain.TierGood},
		{75, domain.TierGood},
		{74.999, domain.TierFair},
		{60, domain.TierFair},
		{59.999, domain.TierPoor},
		{40, domain.TierPoor},
		{39.999, domain.TierCritical},
		{0, domain.TierCritical},
	}

	for _, c := range cases {
		if got := scoring.TierFor(c.score); got != c.want {
			t.Errorf("TierFor(%f) = %s, want %s", c.score, got, c.want)
		}
	}
}
