package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/takeru0219/repo-maintidx/internal/domain"
	apperrors "github.com/takeru0219/repo-maintidx/internal/errors"
	"github.com/takeru0219/repo-maintidx/internal/storage"
)

// sqliteStorage implements the Storage interface for SQLite
type sqliteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (storage.Storage, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	s := &sqliteStorage{db: db}
	if err := s.Migrate(context.Background()); err != nil {
		return nil, err
	}

	return s, nil
}

// Migrate runs database migrations
func (s *sqliteStorage) Migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS reports (
		id TEXT PRIMARY KEY,
		repository TEXT NOT NULL,
		composite REAL,
		tier TEXT,
		payload TEXT NOT NULL,
		generated_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reports_repository ON reports(repository);
	CREATE INDEX IF NOT EXISTS idx_reports_generated_at ON reports(generated_at);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// SaveReport persists a finished report
func (s *sqliteStorage) SaveReport(ctx context.Context, report *domain.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	var composite sql.NullFloat64
	if report.Composite != nil {
		composite = sql.NullFloat64{Float64: *report.Composite, Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO reports (id, repository, composite, tier, payload, generated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, report.ID, report.Repository, composite, string(report.Tier), string(payload), report.GeneratedAt)
	return err
}

// GetReport retrieves a report by ID
func (s *sqliteStorage) GetReport(ctx context.Context, id string) (*domain.Report, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT payload FROM reports WHERE id = ?
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
func (s *sqliteStorage) ListReports(ctx context.Context, repository string, limit int) ([]*domain.Report, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT payload FROM reports
		WHERE repository = ?
		ORDER BY generated_at DESC
		LIMIT ?
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
func (s *sqliteStorage) Close() error {
	return s.db.Close()
}

func decodeReport(payload string) (*domain.Report, error) {
	var report domain.Report
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	return &report, nil
}
