package domain

import (
	"fmt"
	"strings"
	"time"
)

// Identifier identifies a repository as owner/name.
type Identifier struct {
	Owner string
	Name  string
}

// ParseIdentifier parses an "owner/name" string.
func ParseIdentifier(s string) (Identifier, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Identifier{}, fmt.Errorf("invalid repository identifier %q (expected owner/name)", s)
	}
	return Identifier{Owner: parts[0], Name: parts[1]}, nil
}

// String returns the owner/name form.
func (id Identifier) String() string {
	return id.Owner + "/" + id.Name
}

// FileKind classifies a file tree entry.
type FileKind string

const (
	FileKindSource FileKind = "source"
	FileKindDoc    FileKind = "doc"
	FileKindConfig FileKind = "config"
	FileKindOther  FileKind = "other"
)

// FileEntry is one entry in the repository file tree.
type FileEntry struct {
	Path string
	Size int64
	Kind FileKind
}

// Commit is one commit inside the snapshot window, most recent first.
type Commit struct {
	Author    string
	Timestamp time.Time
	Message   string
}

// IssueState is the state of an issue.
type IssueState string

const (
	IssueOpen   IssueState = "open"
	IssueClosed IssueState = "closed"
)

// Issue is one issue in the snapshot.
type Issue struct {
	State     IssueState
	CreatedAt time.Time
	ClosedAt  *time.Time
	Labels    []string
}

// IssueSet holds the repository's issues. A nil *IssueSet on the snapshot
// means issues are disabled or could not be fetched, which is distinct from
// an empty set.
type IssueSet struct {
	Items []Issue
}

// PullRequestState is the state of a pull request.
type PullRequestState string

const (
	PullRequestOpen   PullRequestState = "open"
	PullRequestClosed PullRequestState = "closed"
	PullRequestMerged PullRequestState = "merged"
)

// PullRequest is one pull request in the snapshot.
type PullRequest struct {
	State       PullRequestState
	CreatedAt   time.Time
	MergedAt    *time.Time
	ReviewCount int
}

// PullRequestSet holds the repository's pull requests. Nil means unavailable.
type PullRequestSet struct {
	Items []PullRequest
}

// ContentFetcher looks up file content by path. Lookups are idempotent; a
// per-file failure does not invalidate the snapshot.
type ContentFetcher interface {
	FileContent(path string) (string, error)
}

// Snapshot is the frozen set of repository facts used for one analysis run.
// Fields are never mutated after construction.
type Snapshot struct {
	Identifier   Identifier
	FileTree     []FileEntry
	Content      ContentFetcher
	Commits      []Commit
	Issues       *IssueSet
	PullRequests *PullRequestSet
	WindowDays   int
	FetchedAt    time.Time
}

// SourceFiles returns the file tree filtered to source entries.
func (s *Snapshot) SourceFiles() []FileEntry {
	var out []FileEntry
	for _, f := range s.FileTree {
		if f.Kind == FileKindSource {
			out = append(out, f)
		}
	}
	return out
}

// DocFiles returns the file tree filtered to documentation entries.
func (s *Snapshot) DocFiles() []FileEntry {
	var out []FileEntry
	for _, f := range s.FileTree {
		if f.Kind == FileKindDoc {
			out = append(out, f)
		}
	}
	return out
}
