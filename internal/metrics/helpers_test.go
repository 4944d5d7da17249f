package metrics_test

import (
	"errors"
	"time"

	"github.com/takeru0219/repo-maintidx/internal/domain"
)

// fakeContent serves file content from a map; missing paths fail per-file.
type fakeContent map[string]string

func (f fakeContent) FileContent(path string) (string, error) {
	if c, ok := f[path]; ok {
		return c, nil
	}
	return "", errors.New("file not found")
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newSnapshot() *domain.Snapshot {
	return &domain.Snapshot{
		Identifier: domain.Identifier{Owner: "acme", Name: "widget"},
		Content:    fakeContent{},
		WindowDays: 90,
		FetchedAt:  fixedNow,
	}
}

func daysAgo(n int) time.Time {
	return fixedNow.AddDate(0, 0, -n)
}

func timePtr(t time.Time) *time.Time {
	return &t
}
