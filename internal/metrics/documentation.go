package metrics

import (
	"fmt"
	"path"
	"strings"

	"github.com/takeru0219/repo-maintidx/internal/domain"
)

const (
	// Weighted blend of the three documentation signals.
	readmePresenceWeight  = 20.0
	readmeLengthWeight    = 15.0
	readmeSectionsWeight  = 15.0
	docCommentWeight      = 35.0
	supplementaryDocCap   = 15.0
	supplementaryDocValue = 5.0

	readmeMinLength      = 300
	readmeMinSections    = 3
	maxSampledDocSources = 20
)

// Documentation scores the repository's documentation: a non-trivial top
// level readme, doc comments near public declarations, and supplementary
// documents. A missing signal degrades the score but never zeroes it, so the
// metric is always available.
func Documentation(snap *domain.Snapshot) domain.MetricResult {
	var findings []string
	score := 0.0

	// Signal (a): top-level overview document.
	readmePath := findReadme(snap)
	if readmePath == "" {
		findings = append(findings, "no top-level readme found")
	} else {
		score += readmePresenceWeight
		content, err := snap.Content.FileContent(readmePath)
		if err != nil {
			findings = append(findings, fmt.Sprintf("readme %s present but unreadable", readmePath))
		} else {
			if len(content) >= readmeMinLength {
				score += readmeLengthWeight
			} else {
				findings = append(findings, "readme is very short")
			}
			if countSections(content) >= readmeMinSections {
				score += readmeSectionsWeight
			} else {
				findings = append(findings, "readme has few sections")
			}
			findings = append(findings, fmt.Sprintf("readme %s: %d bytes, %d sections", readmePath, len(content), countSections(content)))
		}
	}

	// Signal (b): doc-comment density over a sample of source files.
	documented, total := docCommentRatio(snap)
	if total == 0 {
		findings = append(findings, "no public declarations found in sampled sources")
	} else {
		ratio := float64(documented) / float64(total)
		score += ratio * docCommentWeight
		findings = append(findings, fmt.Sprintf("%d of %d public declarations carry doc comments", documented, total))
	}

	// Signal (c): supplementary documents, capped bonus.
	supplementary := findSupplementaryDocs(snap)
	bonus := float64(len(supplementary)) * supplementaryDocValue
	if bonus > supplementaryDocCap {
		bonus = supplementaryDocCap
	}
	score += bonus
	if len(supplementary) > 0 {
		findings = append(findings, "supplementary docs: "+strings.Join(supplementary, ", "))
	} else {
		findings = append(findings, "no supplementary docs (contributing guide, changelog)")
	}

	return domain.NewScore(domain.MetricDocumentation, clamp(score), findings)
}

// findReadme returns the path of a top-level readme-like file, if any.
func findReadme(snap *domain.Snapshot) string {
	for _, f := range snap.FileTree {
		if strings.Contains(f.Path, "/") {
			continue
		}
		name := strings.ToUpper(f.Path)
		if strings.HasPrefix(name, "README") {
			return f.Path
		}
	}
	return ""
}

// countSections counts markdown-style headings.
func countSections(content string) int {
	count := 0
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			count++
		}
	}
	return count
}

// declarationPrefixes mark lines that introduce a public declaration across
// the supported languages. A structural scan, not a parse.
var declarationPrefixes = []string{
	"func ", "type ", "def ", "class ", "public ",
	"interface ", "module ", "fn ", "pub fn ",
}

// commentPrefixes mark lines recognized as documentation comments.
var commentPrefixes = []string{
	"//", "#", "/*", "*", "\"\"\"", "'''", "--",
}

// docCommentRatio samples source files and counts public declarations that
// are immediately preceded by a comment line.
func docCommentRatio(snap *domain.Snapshot) (documented, total int) {
	sources := snap.SourceFiles()
	if len(sources) > maxSampledDocSources {
		sources = sources[:maxSampledDocSources]
	}

	for _, f := range sources {
		content, err := snap.Content.FileContent(f.Path)
		if err != nil {
			continue
		}

		lines := strings.Split(content, "\n")
		for i, line := range lines {
			trimmed := strings.TrimSpace(line)
			if !isDeclaration(trimmed) {
				continue
			}
			total++
			if i > 0 && isComment(strings.TrimSpace(lines[i-1])) {
				documented++
			}
		}
	}
	return documented, total
}

func isDeclaration(line string) bool {
	for _, p := range declarationPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

func isComment(line string) bool {
	for _, p := range commentPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// supplementaryDocNames are top-level documents that earn a capped bonus.
var supplementaryDocNames = []string{
	"CONTRIBUTING", "CHANGELOG", "ARCHITECTURE", "CODE_OF_CONDUCT", "SECURITY",
}

func findSupplementaryDocs(snap *domain.Snapshot) []string {
	var found []string
	seen := make(map[string]bool)
	for _, f := range snap.FileTree {
		base := strings.ToUpper(path.Base(f.Path))
		for _, name := range supplementaryDocNames {
			if strings.HasPrefix(base, name) && !seen[name] {
				seen[name] = true
				found = append(found, f.Path)
			}
		}
		if strings.HasPrefix(f.Path, "docs/") && !seen["DOCS"] {
			seen["DOCS"] = true
			found = append(found, "docs/")
		}
	}
	return found
}
