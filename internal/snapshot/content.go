package snapshot

import (
	"context"
	"sync"

	"github.com/takeru0219/repo-maintidx/internal/domain"
)

// cachedContent memoizes one file lookup, success or failure.
type cachedContent struct {
	text string
	err  error
}

// contentFetcher lazily downloads file content and memoizes every lookup so
// repeated requests for the same path are idempotent. Safe for concurrent
// use by calculators.
type contentFetcher struct {
	provider *githubProvider
	id       domain.Identifier

	mu    sync.Mutex
	cache map[string]cachedContent
}

func newContentFetcher(p *githubProvider, id domain.Identifier) *contentFetcher {
	return &contentFetcher{
		provider: p,
		id:       id,
		cache:    make(map[string]cachedContent),
	}
}

// FileContent returns the text content of a file in the snapshot.
func (f *contentFetcher) FileContent(path string) (string, error) {
	f.mu.Lock()
	if c, ok := f.cache[path]; ok {
		f.mu.Unlock()
		return c.text, c.err
	}
	f.mu.Unlock()

	text, err := f.provider.fetchFileContent(context.Background(), f.id, path)

	f.mu.Lock()
	f.cache[path] = cachedContent{text: text, err: err}
	f.mu.Unlock()

	return text, err
}
