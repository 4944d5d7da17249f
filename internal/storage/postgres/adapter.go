package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/takeru0219/repo-maintidx/internal/domain"
	apperrors "github.com/takeru0219/repo-maintidx/internal/errors"
	"github.com/takeru0219/repo-maintidx/internal/storage"
)

// postgresStorage implements the Storage interface for PostgreSQL
type postgresStorage struct {
	db *sql.DB
}

// NewPostgresStorage creates a new PostgreSQL storage instance
func NewPostgresStorage(connURL string) (storage.Storage, error) {
	db, err := sql.Open("postgres", connURL)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	s := &postgresStorage{db: db}
	if err := s.Migrate(context.Background()); err != nil {
		return nil, err
	}

	return s, nil
}

// Migrate runs database migrations
func (s *postgresStorage) Migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS reports (
		id TEXT PRIMARY KEY,
		repository TEXT NOT NULL,
		composite DOUBLE PRECISION,
		tier TEXT,
		payload JSONB NOT NULL,
		generated_at TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reports_repository ON reports(repository);
	CREATE INDEX IF NOT EXISTS idx_reports_generated_at ON reports(generated_at);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// SaveReport persists a finished report
func (s *postgresStorage) SaveReport(ctx context.Context, report *domain.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	var composite sql.NullFloat64
	if report.Composite != nil {
		composite = sql.NullFloat64{Float64: *report.Composite, Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO reports (id, repository, composite, tier, payload, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			repository = EXCLUDED.repository,
			composite = EXCLUDED.composite,
			tier = EXCLUDED.tier,
			payload = EXCLUDED.payload,
			generated_at = EXCLUDED.generated_at
	`, report.ID, report.Repository, composite, string(report.Tier), string(payload), report.GeneratedAt)
	return err
}

// GetReport retrieves a report by ID
func (s *postgresStorage) GetReport(ctx context.Context, id string) (*domain.Report, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT payload FROM reports WHERE id = $1
	`, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("report %s", id))
	}
	if err != nil {
		return nil, err
	}

	return decodeReport(payload)
}

// ListReports retrieves recent reports for a repository, newest first
func (s *postgresStorage) ListReports(ctx context.Context, repository string, limit int) ([]*domain.Report, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT payload FROM reports
		WHERE repository = $1
		ORDER BY generated_at DESC
		LIMIT $2
	`, repository, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []*domain.Report
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		report, err := decodeReport(payload)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}

	return reports, rows.Err()
}

// Close closes the database connection
func (s *postgresStorage) Close() error {
	return s.db.Close()
}

func decodeReport(payload string) (*domain.Report, error) {
	var report domain.Report
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	return &report, nil
}
