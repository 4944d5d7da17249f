package snapshot

import (
	"path"
	"strings"

	"github.com/takeru0219/repo-maintidx/internal/domain"
)

// sourceExtensions are the file extensions treated as source code.
var sourceExtensions = map[string]bool{
	".go":    true,
	".py":    true,
	".js":    true,
	".jsx":   true,
	".ts":    true,
	".tsx":   true,
	".java":  true,
	".rb":    true,
	".php":   true,
	".c":     true,
	".h":     true,
	".cpp":   true,
	".cc":    true,
	".hpp":   true,
	".cs":    true,
	".rs":    true,
	".kt":    true,
	".swift": true,
	".scala": true,
	".ex":    true,
	".exs":   true,
	".sh":    true,
	".pl":    true,
	".lua":   true,
	".dart":  true,
}

// docExtensions are the file extensions treated as documentation.
var docExtensions = map[string]bool{
	".md":   true,
	".rst":  true,
	".txt":  true,
	".adoc": true,
}

// configExtensions are the file extensions treated as configuration.
var configExtensions = map[string]bool{
	".yml":  true,
	".yaml": true,
	".json": true,
	".toml": true,
	".ini":  true,
	".cfg":  true,
	".xml":  true,
	".lock": true,
}

// configBasenames are exact file names treated as configuration.
var configBasenames = map[string]bool{
	"Dockerfile":     true,
	"Makefile":       true,
	".gitignore":     true,
	".gitattributes": true,
	".editorconfig":  true,
}

// ClassifyPath classifies a file path as source, doc, config or other.
func ClassifyPath(p string) domain.FileKind {
	base := path.Base(p)
	ext := strings.ToLower(path.Ext(base))

	if strings.HasPrefix(strings.ToUpper(base), "LICENSE") {
		return domain.FileKindOther
	}
	if docExtensions[ext] {
		return domain.FileKindDoc
	}
	if configBasenames[base] || configExtensions[ext] {
		return domain.FileKindConfig
	}
	if sourceExtensions[ext] {
		return domain.FileKindSource
	}
	return domain.FileKindOther
}
