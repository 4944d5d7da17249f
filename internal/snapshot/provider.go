package snapshot

import (
	"context"
	"errors"

	"github.com/takeru0219/repo-maintidx/internal/domain"
)

// Provider defines the interface for fetching a repository snapshot
type Provider interface {
	// FetchSnapshot retrieves one immutable snapshot for a repository.
	// The provider handles pagination and rate-limit backoff internally;
	// any error it returns is fatal for the analysis run.
	FetchSnapshot(ctx context.Context, id domain.Identifier) (*domain.Snapshot, error)
}

// Per-file content fetch failures. These never invalidate the snapshot;
// calculators skip the file and note it in their findings.
var (
	ErrFileNotFound = errors.New("file not found")
	ErrFileTooLarge = errors.New("file too large")
	ErrFileBinary   = errors.New("file is binary")
)
