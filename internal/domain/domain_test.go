package domain_test

import (
	"testing"

	"github.com/takeru0219/repo-maintidx/internal/domain"
)

func TestParseIdentifier(t *testing.T) {
	id, err := domain.ParseIdentifier("golang/go")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.Owner != "golang" || id.Name != "go" {
		t.Errorf("expected golang/go, got %s/%s", id.Owner, id.Name)
	}
	if id.String() != "golang/go" {
		t.Errorf("expected golang/go, got %s", id.String())
	}
}

func TestParseIdentifierRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"", "golang", "/go", "golang/", "a/b/c"} {
		if _, err := domain.ParseIdentifier(raw); err == nil {
			t.Errorf("expected error for %q", raw)
		}
	}
}

func TestNewScoreClampsToBounds(t *testing.T) {
	low := domain.NewScore(domain.MetricActivity, -5, nil)
	if *low.Score != 0 {
		t.Errorf("expected 0, got %f", *low.Score)
	}

	high := domain.NewScore(domain.MetricActivity, 150, nil)
	if *high.Score != 100 {
		t.Errorf("expected 100, got %f", *high.Score)
	}
}

func TestUnavailableResultHasNoScore(t *testing.T) {
	r := domain.NewUnavailable(domain.MetricCommunityHealth, "issues disabled", nil)
	if r.Available() {
		t.Error("expected unavailable result")
	}
	if r.Reason != "issues disabled" {
		t.Errorf("expected reason preserved, got %q", r.Reason)
	}
}

func TestSnapshotFileFilters(t *testing.T) {
	snap := &domain.Snapshot{
		FileTree: []domain.FileEntry{
			{Path: "main.go", Kind: domain.FileKindSource},
			{Path: "README.md", Kind: domain.FileKindDoc},
			{Path: "config.yml", Kind: domain.FileKindConfig},
		},
	}

	if got := len(snap.SourceFiles()); got != 1 {
		t.Errorf("expected 1 source file, got %d", got)
	}
	if got := len(snap.DocFiles()); got != 1 {
		t.Errorf("expected 1 doc file, got %d", got)
	}
}
