package storage

import (
	"context"

	"github.com/takeru0219/repo-maintidx/internal/domain"
)

// Storage is the abstract interface for the report history layer. Reports
// are written only after an analysis run completes; the analysis itself
// never reads from storage.
type Storage interface {
	// SaveReport persists a finished report
	SaveReport(ctx context.Context, report *domain.Report) error

	// GetReport retrieves a report by ID
	GetReport(ctx context.Context, id string) (*domain.Report, error)

	// ListReports retrieves recent reports for a repository, newest first
	ListReports(ctx context.Context, repository string, limit int) ([]*domain.Report, error)

	// Migration
	Migrate(ctx context.Context) error

	// Connection management
	Close() error
}
