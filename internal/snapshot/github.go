package snapshot

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v55/github"
	"golang.org/x/oauth2"

	"github.com/takeru0219/repo-maintidx/internal/domain"
	apperrors "github.com/takeru0219/repo-maintidx/internal/errors"
)

// maxFileBytes is the largest file the content fetcher will download.
const maxFileBytes = 1 << 20

// githubProvider implements Provider using the GitHub API
type githubProvider struct {
	client      *github.Client
	rateLimiter RateLimiter
	windowDays  int
}

// NewGitHubProvider creates a new GitHub snapshot provider
func NewGitHubProvider(token string, windowDays int) Provider {
	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	client := github.NewClient(tc)

	return &githubProvider{
		client:      client,
		rateLimiter: NewRateLimiter(),
		windowDays:  windowDays,
	}
}

// FetchSnapshot retrieves the file tree, recent commits, issues and pull
// requests for one repository and freezes them into a snapshot.
func (p *githubProvider) FetchSnapshot(ctx context.Context, id domain.Identifier) (*domain.Snapshot, error) {
	if err := p.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	repo, resp, err := p.client.Repositories.Get(ctx, id.Owner, id.Name)
	if err != nil {
		return nil, p.mapError(resp, err, fmt.Sprintf("repository %s", id))
	}
	p.updateRateLimitFromResponse(resp)

	since := time.Now().AddDate(0, 0, -p.windowDays)

	tree, err := p.fetchFileTree(ctx, id, repo.GetDefaultBranch())
	if err != nil {
		return nil, err
	}

	commits, err := p.fetchCommits(ctx, id, since)
	if err != nil {
		return nil, err
	}

	// A repository with issues disabled reports no issue data at all,
	// which is distinct from a repository with zero issues filed.
	var issues *domain.IssueSet
	if repo.GetHasIssues() {
		issues, err = p.fetchIssues(ctx, id)
		if err != nil {
			return nil, err
		}
	}

	prs, err := p.fetchPullRequests(ctx, id, since)
	if err != nil {
		return nil, err
	}

	return &domain.Snapshot{
		Identifier:   id,
		FileTree:     tree,
		Content:      newContentFetcher(p, id),
		Commits:      commits,
		Issues:       issues,
		PullRequests: prs,
		WindowDays:   p.windowDays,
		FetchedAt:    time.Now(),
	}, nil
}

// fetchFileTree retrieves the full recursive tree of the default branch
func (p *githubProvider) fetchFileTree(ctx context.Context, id domain.Identifier, branch string) ([]domain.FileEntry, error) {
	if err := p.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	tree, resp, err := p.client.Git.GetTree(ctx, id.Owner, id.Name, branch, true)
	if err != nil {
		// A just-created repository has no tree yet; treat it as empty.
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, p.mapError(resp, err, fmt.Sprintf("file tree for %s", id))
	}
	p.updateRateLimitFromResponse(resp)

	seen := make(map[string]bool)
	var entries []domain.FileEntry
	for _, e := range tree.Entries {
		if e.GetType() != "blob" {
			continue
		}
		path := e.GetPath()
		if seen[path] {
			continue
		}
		seen[path] = true
		entries = append(entries, domain.FileEntry{
			Path: path,
			Size: int64(e.GetSize()),
			Kind: ClassifyPath(path),
		})
	}

	return entries, nil
}

// fetchCommits retrieves commits within the snapshot window, most recent first
func (p *githubProvider) fetchCommits(ctx context.Context, id domain.Identifier, since time.Time) ([]domain.Commit, error) {
	if err := p.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	var allCommits []domain.Commit
	opts := &github.CommitsListOptions{
		Since:       since,
		ListOptions: github.ListOptions{PerPage: 100},
	}

	for {
		commits, resp, err := p.client.Repositories.ListCommits(ctx, id.Owner, id.Name, opts)
		if err != nil {
			// Empty repositories report 409 for the commit list
			if resp != nil && resp.StatusCode == http.StatusConflict {
				return allCommits, nil
			}
			return nil, p.mapError(resp, err, fmt.Sprintf("commits for %s", id))
		}
		p.updateRateLimitFromResponse(resp)

		for _, commit := range commits {
			author := ""
			if commit.Author != nil {
				author = commit.Author.GetLogin()
			} else if commit.Commit != nil && commit.Commit.Author != nil {
				author = commit.Commit.Author.GetName()
			}

			allCommits = append(allCommits, domain.Commit{
				Author:    author,
				Timestamp: commit.Commit.Author.GetDate().Time,
				Message:   commit.Commit.GetMessage(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage

		if err := p.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	return allCommits, nil
}

// fetchIssues retrieves all issues for the repository
func (p *githubProvider) fetchIssues(ctx context.Context, id domain.Identifier) (*domain.IssueSet, error) {
	if err := p.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	set := &domain.IssueSet{}
	opts := &github.IssueListByRepoOptions{
		State:       "all",
		ListOptions: github.ListOptions{PerPage: 100},
	}

	for {
		issues, resp, err := p.client.Issues.ListByRepo(ctx, id.Owner, id.Name, opts)
		if err != nil {
			return nil, p.mapError(resp, err, fmt.Sprintf("issues for %s", id))
		}
		p.updateRateLimitFromResponse(resp)

		for _, issue := range issues {
			// The issues endpoint also returns pull requests
			if issue.IsPullRequest() {
				continue
			}

			state := domain.IssueOpen
			if issue.GetState() == "closed" {
				state = domain.IssueClosed
			}

			var closedAt *time.Time
			if issue.ClosedAt != nil {
				t := issue.ClosedAt.Time
				closedAt = &t
			}

			var labels []string
			for _, l := range issue.Labels {
				labels = append(labels, l.GetName())
			}

			set.Items = append(set.Items, domain.Issue{
				State:     state,
				CreatedAt: issue.GetCreatedAt().Time,
				ClosedAt:  closedAt,
				Labels:    labels,
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage

		if err := p.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	return set, nil
}

// fetchPullRequests retrieves pull requests created within the window
func (p *githubProvider) fetchPullRequests(ctx context.Context, id domain.Identifier, since time.Time) (*domain.PullRequestSet, error) {
	if err := p.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	set := &domain.PullRequestSet{}
	opts := &github.PullRequestListOptions{
		State:       "all",
		Sort:        "created",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: 100},
	}

	for {
		prs, resp, err := p.client.PullRequests.List(ctx, id.Owner, id.Name, opts)
		if err != nil {
			return nil, p.mapError(resp, err, fmt.Sprintf("pull requests for %s", id))
		}
		p.updateRateLimitFromResponse(resp)

		for _, pr := range prs {
			createdAt := pr.GetCreatedAt().Time
			if createdAt.Before(since) {
				// PRs are sorted by created date desc, so we can stop here
				return set, nil
			}

			state := domain.PullRequestOpen
			switch {
			case pr.MergedAt != nil:
				state = domain.PullRequestMerged
			case pr.GetState() == "closed":
				state = domain.PullRequestClosed
			}

			var mergedAt *time.Time
			if pr.MergedAt != nil {
				t := pr.MergedAt.Time
				mergedAt = &t
			}

			reviewCount := 0
			if state == domain.PullRequestMerged {
				reviewCount = p.countReviews(ctx, id, pr.GetNumber())
			}

			set.Items = append(set.Items, domain.PullRequest{
				State:       state,
				CreatedAt:   createdAt,
				MergedAt:    mergedAt,
				ReviewCount: reviewCount,
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage

		if err := p.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	return set, nil
}

// countReviews returns the number of reviews on a pull request. Failures are
// tolerated; a review count of zero is a valid fallback.
func (p *githubProvider) countReviews(ctx context.Context, id domain.Identifier, number int) int {
	if err := p.rateLimiter.Wait(ctx); err != nil {
		return 0
	}

	reviews, resp, err := p.client.PullRequests.ListReviews(ctx, id.Owner, id.Name, number, &github.ListOptions{PerPage: 100})
	if err != nil {
		return 0
	}
	p.updateRateLimitFromResponse(resp)
	return len(reviews)
}

// fetchFileContent downloads one file's text content
func (p *githubProvider) fetchFileContent(ctx context.Context, id domain.Identifier, path string) (string, error) {
	if err := p.rateLimiter.Wait(ctx); err != nil {
		return "", err
	}

	file, _, resp, err := p.client.Repositories.GetContents(ctx, id.Owner, id.Name, path, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return "", ErrFileNotFound
		}
		return "", err
	}
	p.updateRateLimitFromResponse(resp)

	if file == nil {
		return "", ErrFileNotFound
	}
	if file.GetSize() > maxFileBytes {
		return "", ErrFileTooLarge
	}

	content, err := file.GetContent()
	if err != nil {
		return "", ErrFileBinary
	}
	if looksBinary(content) {
		return "", ErrFileBinary
	}

	return content, nil
}

// looksBinary reports whether content contains NUL bytes
func looksBinary(content string) bool {
	for i := 0; i < len(content); i++ {
		if content[i] == 0 {
			return true
		}
	}
	return false
}

// mapError translates a GitHub API failure into the application error taxonomy
func (p *githubProvider) mapError(resp *github.Response, err error, resource string) error {
	if resp != nil {
		switch resp.StatusCode {
		case http.StatusNotFound:
			return apperrors.NewNotFoundError(resource)
		case http.StatusUnauthorized:
			return apperrors.NewUnauthorizedError("GitHub token rejected")
		case http.StatusForbidden, http.StatusTooManyRequests:
			return apperrors.NewRateLimitedError("GitHub API rate limit exhausted, retry later")
		}
	}
	return apperrors.NewTransportError(fmt.Sprintf("failed to fetch %s", resource), err)
}

// updateRateLimitFromResponse updates the rate limiter from API response
func (p *githubProvider) updateRateLimitFromResponse(resp *github.Response) {
	if resp != nil && resp.Rate.Remaining >= 0 {
		p.rateLimiter.UpdateLimit(resp.Rate.Remaining, resp.Rate.Reset.Time)
	}
}
