package metrics_test

import (
	"strings"
	"testing"

	"github.com/takeru0219/repo-maintidx/internal/domain"
	"github.com/takeru0219/repo-maintidx/internal/metrics"
)

const simpleSource = `package widget

// Add returns the sum of two numbers for the billing subtotal.
func Add(a, b int) int {
	return a + b
}

// Scale multiplies a value by the configured factor before rounding.
func Scale(v int, factor int) int {
	return v * factor
}
`

func TestCodeQualityNoSourceFilesUnavailable(t *testing.T) {
	snap := newSnapshot()
	snap.FileTree = []domain.FileEntry{
		{Path: "README.md", Kind: domain.FileKindDoc},
	}

	r := metrics.CodeQuality(snap)
	if r.Available() {
		t.Fatal("expected unavailable result")
	}
	if r.Reason != "no readable source files" {
		t.Errorf("unexpected reason: %q", r.Reason)
	}
}

func TestCodeQualityAllFilesUnreadableUnavailable(t *testing.T) {
	snap := newSnapshot()
	snap.FileTree = []domain.FileEntry{
		{Path: "gen/huge.go", Kind: domain.FileKindSource},
	}
	// fakeContent has no entry for the path, so every fetch fails.

	r := metrics.CodeQuality(snap)
	if r.Available() {
		t.Fatal("expected unavailable result when no file is readable")
	}
	if r.Reason != "no readable source files" {
		t.Errorf("unexpected reason: %q", r.Reason)
	}
}

func TestCodeQualitySimpleTestedCodeScoresHigh(t *testing.T) {
	snap := newSnapshot()
	snap.FileTree = []domain.FileEntry{
		{Path: "widget.go", Kind: domain.FileKindSource},
		{Path: "widget_test.go", Kind: domain.FileKindSource},
	}
	snap.Content = fakeContent{
		"widget.go": simpleSource,
		"widget_test.go": `package widget

import "testing"

func TestAdd(t *testing.T) {
	got := Add(2, 3)
	want := 5
	checkEqual(t, got, want)
}
`,
	}

	r := metrics.CodeQuality(snap)
	if !r.Available() {
		t.Fatalf("expected available result, got reason %q", r.Reason)
	}
	if *r.Score < 80 {
		t.Errorf("expected a high score for simple tested code, got %f", *r.Score)
	}

	found := false
	for _, f := range r.Findings {
		if strings.Contains(f, "automated test files detected") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected test detection finding, got %v", r.Findings)
	}
}

func TestCodeQualityComplexCodeScoresLower(t *testing.T) {
	var b strings.Builder
	b.WriteString("package gnarly\n\nfunc Do(x int) int {\n")
	for i := 0; i < 120; i++ {
		b.WriteString("\tif x > 1 && x < 100 {\n\t\tx = process(x)\n\t}\n")
	}
	b.WriteString("\treturn x\n}\n")

	simple := newSnapshot()
	simple.FileTree = []domain.FileEntry{{Path: "widget.go", Kind: domain.FileKindSource}}
	simple.Content = fakeContent{"widget.go": simpleSource}

	complexSnap := newSnapshot()
	complexSnap.FileTree = []domain.FileEntry{{Path: "gnarly.go", Kind: domain.FileKindSource}}
	complexSnap.Content = fakeContent{"gnarly.go": b.String()}

	simpleScore := *metrics.CodeQuality(simple).Score
	complexScore := *metrics.CodeQuality(complexSnap).Score
	if complexScore >= simpleScore {
		t.Errorf("expected complex code to score below simple code: %f >= %f", complexScore, simpleScore)
	}
}

func TestCodeQualityUnreadableFilesReportedNotFatal(t *testing.T) {
	snap := newSnapshot()
	snap.FileTree = []domain.FileEntry{
		{Path: "widget.go", Kind: domain.FileKindSource},
		{Path: "vendor/blob.go", Kind: domain.FileKindSource},
	}
	snap.Content = fakeContent{"widget.go": simpleSource}

	r := metrics.CodeQuality(snap)
	if !r.Available() {
		t.Fatal("one readable file is enough to score")
	}

	found := false
	for _, f := range r.Findings {
		if strings.Contains(f, "1 unscored") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected unscored files in findings, got %v", r.Findings)
	}
}
