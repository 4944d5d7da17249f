package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/takeru0219/repo-maintidx/internal/api"
	"github.com/takeru0219/repo-maintidx/internal/domain"
	apperrors "github.com/takeru0219/repo-maintidx/internal/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubAnalyzer returns a canned report or error.
type stubAnalyzer struct {
	report *domain.Report
	err    error
}

func (s *stubAnalyzer) Analyze(ctx context.Context, rawID string) (*domain.Report, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.report, nil
}

// memoryStore is an in-memory Storage for handler tests.
type memoryStore struct {
	reports map[string]*domain.Report
}

func newMemoryStore() *memoryStore {
	return &memoryStore{reports: make(map[string]*domain.Report)}
}

func (m *memoryStore) SaveReport(ctx context.Context, report *domain.Report) error {
	m.reports[report.ID] = report
	return nil
}

func (m *memoryStore) GetReport(ctx context.Context, id string) (*domain.Report, error) {
	if r, ok := m.reports[id]; ok {
		return r, nil
	}
	return nil, apperrors.NewNotFoundError("report " + id)
}

func (m *memoryStore) ListReports(ctx context.Context, repository string, limit int) ([]*domain.Report, error) {
	var out []*domain.Report
	for _, r := range m.reports {
		if r.Repository == repository {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryStore) Migrate(ctx context.Context) error { return nil }
func (m *memoryStore) Close() error                      { return nil }

func sampleReport() *domain.Report {
	composite := 71.3
	return &domain.Report{
		ID:          "report-1",
		Repository:  "acme/widget",
		Results:     []domain.MetricResult{domain.NewScore(domain.MetricActivity, 80, nil)},
		Composite:   &composite,
		Tier:        domain.TierFair,
		WindowDays:  90,
		GeneratedAt: time.Now(),
	}
}

func TestAnalyzeEndpointReturnsReport(t *testing.T) {
	store := newMemoryStore()
	router := api.SetupRoutes(api.NewHandler(&stubAnalyzer{report: sampleReport()}, store))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/repos/acme/widget/analyze", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Data *domain.Report `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Data.Repository != "acme/widget" {
		t.Errorf("unexpected repository: %s", body.Data.Repository)
	}
	if body.Data.Composite == nil || *body.Data.Composite != 71.3 {
		t.Error("composite not preserved in response")
	}

	if _, ok := store.reports["report-1"]; !ok {
		t.Error("expected the report to be saved to history")
	}
}

func TestAnalyzeEndpointMapsNotFound(t *testing.T) {
	router := api.SetupRoutes(api.NewHandler(&stubAnalyzer{err: apperrors.NewNotFoundError("repository acme/nope")}, nil))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/repos/acme/nope/analyze", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestAnalyzeEndpointMapsRateLimited(t *testing.T) {
	router := api.SetupRoutes(api.NewHandler(&stubAnalyzer{err: apperrors.NewRateLimitedError("retry later")}, nil))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/repos/acme/widget/analyze", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", w.Code)
	}
}

func TestListReportsWithoutStoreIsBadRequest(t *testing.T) {
	router := api.SetupRoutes(api.NewHandler(&stubAnalyzer{report: sampleReport()}, nil))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/repos/acme/widget/reports", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestGetReportByID(t *testing.T) {
	store := newMemoryStore()
	report := sampleReport()
	_ = store.SaveReport(context.Background(), report)
	router := api.SetupRoutes(api.NewHandler(&stubAnalyzer{}, store))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/report-1", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/reports/missing", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown report, got %d", w.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	router := api.SetupRoutes(api.NewHandler(&stubAnalyzer{}, nil))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}
