package render_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/takeru0219/repo-maintidx/internal/domain"
	"github.com/takeru0219/repo-maintidx/internal/render"
)

func sampleReport() *domain.Report {
	composite := 66.4
	return &domain.Report{
		ID:         "report-1",
		Repository: "acme/widget",
		Results: []domain.MetricResult{
			domain.NewScore(domain.MetricCodeQuality, 70.2, []string{"3 files unreadable"}),
			domain.NewScore(domain.MetricDocumentation, 55, nil),
			domain.NewScore(domain.MetricActivity, 81.5, []string{"12 commits in the last 90 days"}),
			domain.NewUnavailable(domain.MetricCommunityHealth, "issues disabled or unavailable", nil),
		},
		Composite:   &composite,
		Tier:        domain.TierFair,
		Narrative:   "Steady maintenance with a quiet issue tracker.",
		Warnings:    []string{"narrative generation failed"},
		WindowDays:  90,
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestTableRendersScoresAndReasons(t *testing.T) {
	var buf bytes.Buffer
	render.Table(&buf, sampleReport())
	out := buf.String()

	if !strings.Contains(out, "acme/widget") {
		t.Error("table should name the repository")
	}
	if !strings.Contains(out, "last 90 days") {
		t.Error("table should state the analysis window")
	}
	if !strings.Contains(out, "81.5") {
		t.Error("table should show numeric scores")
	}
	if !strings.Contains(out, "n/a (issues disabled or unavailable)") {
		t.Error("unavailable metrics should show their reason, not a zero")
	}
	if !strings.Contains(out, "66.4 / 100") {
		t.Error("table should show the composite index")
	}
	if !strings.Contains(out, string(domain.TierFair)) {
		t.Error("table should show the tier")
	}
	if !strings.Contains(out, "Steady maintenance") {
		t.Error("table should include the narrative when present")
	}
	if !strings.Contains(out, "Warning: narrative generation failed") {
		t.Error("table should surface warnings")
	}
}

func TestTableWithoutComposite(t *testing.T) {
	report := sampleReport()
	report.Composite = nil
	report.Tier = ""

	var buf bytes.Buffer
	render.Table(&buf, report)

	if !strings.Contains(buf.String(), "Composite index: unavailable") {
		t.Error("a nil composite should render as unavailable")
	}
}

func TestJSONRoundTripsNilScore(t *testing.T) {
	var buf bytes.Buffer
	if err := render.JSON(&buf, sampleReport()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded domain.Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Repository != "acme/widget" {
		t.Errorf("unexpected repository: %s", decoded.Repository)
	}

	ch := decoded.Result(domain.MetricCommunityHealth)
	if ch.Score != nil {
		t.Error("unavailable metric must keep a null score in JSON")
	}
	if ch.Reason == "" {
		t.Error("unavailable metric must keep its reason in JSON")
	}
}
