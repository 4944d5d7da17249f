package metrics

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/takeru0219/repo-maintidx/internal/domain"
)

const (
	// maxSampledSourceFiles bounds the number of content fetches per run.
	maxSampledSourceFiles = 50

	// complexityScale controls how fast the base score decays with the
	// average branch count per file.
	complexityScale = 25.0

	maxDuplicationPenalty = 30.0
	testPresenceReward    = 10.0
)

// branchKeywords are counted as control-flow constructs when they appear as
// whole words. This is a lexical proxy for cyclomatic complexity, not a
// parse.
var branchKeywords = []string{
	"if", "for", "while", "case", "when",
	"catch", "except", "rescue", "elif",
}

// CodeQuality scores the repository's source files by control-flow density,
// near-duplicate lines and test presence. Files that cannot be read are
// skipped and reported as unscored. With zero readable source files the
// metric is unavailable.
func CodeQuality(snap *domain.Snapshot) domain.MetricResult {
	sources := snap.SourceFiles()
	if len(sources) == 0 {
		return domain.NewUnavailable(domain.MetricCodeQuality,
			"no readable source files",
			[]string{"repository contains no source files"})
	}

	sample := sources
	if len(sample) > maxSampledSourceFiles {
		sample = sample[:maxSampledSourceFiles]
	}

	var (
		scored         int
		unscored       int
		totalBranches  int
		totalLines     int
		duplicateLines int
		lineSeen       = make(map[uint64]bool)
	)

	for _, f := range sample {
		content, err := snap.Content.FileContent(f.Path)
		if err != nil {
			unscored++
			continue
		}

		scored++
		totalBranches += countBranches(content)

		for _, line := range strings.Split(content, "\n") {
			norm := normalizeLine(line)
			if norm == "" {
				continue
			}
			totalLines++
			h := hashLine(norm)
			if lineSeen[h] {
				duplicateLines++
			} else {
				lineSeen[h] = true
			}
		}
	}

	if scored == 0 {
		return domain.NewUnavailable(domain.MetricCodeQuality,
			"no readable source files",
			[]string{fmt.Sprintf("%d source files present, none readable", len(sources))})
	}

	avgComplexity := float64(totalBranches) / float64(scored)
	base := 100 * complexityScale / (complexityScale + avgComplexity)

	dupRatio := 0.0
	if totalLines > 0 {
		dupRatio = float64(duplicateLines) / float64(totalLines)
	}
	penalty := dupRatio * 100
	if penalty > maxDuplicationPenalty {
		penalty = maxDuplicationPenalty
	}

	hasTests := hasTestFiles(sources)
	reward := 0.0
	if hasTests {
		reward = testPresenceReward
	}

	findings := []string{
		fmt.Sprintf("scored %d of %d source files (%d unscored)", scored, len(sources), unscored),
		fmt.Sprintf("average control-flow constructs per file: %.1f", avgComplexity),
		fmt.Sprintf("duplicate line ratio: %.1f%%", dupRatio*100),
	}
	if hasTests {
		findings = append(findings, "automated test files detected")
	} else {
		findings = append(findings, "no automated test files found")
	}

	return domain.NewScore(domain.MetricCodeQuality, clamp(base-penalty+reward), findings)
}

// countBranches counts control-flow constructs in the content.
func countBranches(content string) int {
	count := 0
	for _, line := range strings.Split(content, "\n") {
		for _, word := range splitWords(line) {
			for _, kw := range branchKeywords {
				if word == kw {
					count++
					break
				}
			}
		}
		count += strings.Count(line, "&&")
		count += strings.Count(line, "||")
	}
	return count
}

// splitWords breaks a line into identifier-ish tokens.
func splitWords(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= 'A' && r <= 'Z') && !(r >= '0' && r <= '9') && r != '_'
	})
}

// normalizeLine strips whitespace and discards trivial lines so the
// duplication proxy only compares substantive code.
func normalizeLine(line string) string {
	norm := strings.Join(strings.Fields(line), " ")
	if len(norm) < 10 {
		return ""
	}
	return norm
}

func hashLine(line string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(line))
	return h.Sum64()
}

// testPathMarkers are path fragments that indicate automated tests.
var testPathMarkers = []string{
	"_test.", ".test.", ".spec.", "_spec.",
	"/test/", "/tests/", "/spec/", "/__tests__/",
}

func hasTestFiles(files []domain.FileEntry) bool {
	for _, f := range files {
		p := strings.ToLower("/" + f.Path)
		for _, marker := range testPathMarkers {
			if strings.Contains(p, marker) {
				return true
			}
		}
	}
	return false
}
