// Package enhancer generates the optional qualitative narrative for a
// finished analysis by invoking an AI CLI tool installed on the system.
// Failure here is always non-fatal for the run.
package enhancer

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/takeru0219/repo-maintidx/internal/domain"
)

// Summarizer produces a short natural-language narrative from the snapshot
// and the numeric results.
type Summarizer interface {
	Summarize(ctx context.Context, snap *domain.Snapshot, results []domain.MetricResult) (string, error)
}

// supportedCLIs is the ordered list of AI CLI tools we can invoke.
var supportedCLIs = []string{"claude", "codex", "gemini"}

// SupportedCLIs returns the list of supported AI CLI tool names.
func SupportedCLIs() []string {
	out := make([]string, len(supportedCLIs))
	copy(out, supportedCLIs)
	return out
}

// LookupFunc resolves a command name to its path. Compatible with exec.LookPath.
type LookupFunc func(name string) (string, error)

// DetectCLI finds the first supported AI CLI available on the system PATH.
func DetectCLI() (string, error) {
	return DetectCLIWith(exec.LookPath)
}

// DetectCLIWith finds the first supported AI CLI using the provided lookup
// function. Returns an error if none of the supported CLIs are found.
func DetectCLIWith(lookup LookupFunc) (string, error) {
	for _, cli := range supportedCLIs {
		if _, err := lookup(cli); err == nil {
			return cli, nil
		}
	}
	return "", fmt.Errorf("no supported AI CLI found; install one of: %s", strings.Join(supportedCLIs, ", "))
}

// BuildArgs returns the command name and argument slice for a
// non-interactive invocation of the given CLI with the provided prompt.
// For codex, the prompt is piped via stdin ("-" reads from stdin) because
// codex exec ignores stdin when a prompt argument is present.
func BuildArgs(cli, prompt string) (string, []string) {
	switch cli {
	case "codex":
		return "codex", []string{"exec", "-"}
	case "gemini":
		return "gemini", []string{"-p", prompt}
	default: // "claude" and fallback
		return "claude", []string{"-p", prompt}
	}
}

// defaultPrompt is the instruction given to the CLI alongside the report.
const defaultPrompt = `You are summarizing a repository maintainability report. You will receive the computed metrics via stdin: four sub-scores with supporting findings and a composite index.

Write 2-3 short paragraphs assessing the repository's maintainability. Ground every statement in the findings provided. Mention the strongest and weakest areas and what a maintainer should look at first. Output ONLY the paragraph text, no headings, no code fences, no preamble.`

// BuildDocument renders the snapshot identity and metric results into the
// stdin payload for the CLI.
func BuildDocument(snap *domain.Snapshot, results []domain.MetricResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Repository: %s\n", snap.Identifier)
	fmt.Fprintf(&b, "Window: last %d days\n\n", snap.WindowDays)

	for _, r := range results {
		if r.Available() {
			fmt.Fprintf(&b, "%s: %.1f/100\n", r.Name, *r.Score)
		} else {
			fmt.Fprintf(&b, "%s: unavailable (%s)\n", r.Name, r.Reason)
		}
		for _, f := range r.Findings {
			fmt.Fprintf(&b, "  - %s\n", f)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// buildStdin constructs the stdin payload for the given CLI. For codex the
// prompt is combined with the document because codex reads the prompt from
// stdin rather than as an argument.
func buildStdin(cli, document, prompt string) *bytes.Reader {
	if cli == "codex" {
		var buf bytes.Buffer
		buf.WriteString(prompt)
		buf.WriteString("\n\nHere is the computed report:\n\n")
		buf.WriteString(document)
		return bytes.NewReader(buf.Bytes())
	}
	return bytes.NewReader([]byte(document))
}

// CLISummarizer implements Summarizer by shelling out to an AI CLI.
type CLISummarizer struct {
	cli string
}

// NewCLISummarizer creates a summarizer for the named CLI, auto-detecting
// one from PATH when cli is empty.
func NewCLISummarizer(cli string) (*CLISummarizer, error) {
	if cli == "" {
		detected, err := DetectCLI()
		if err != nil {
			return nil, err
		}
		cli = detected
	}
	return &CLISummarizer{cli: cli}, nil
}

// Summarize runs the CLI with the rendered report and returns its output.
// The caller bounds the call with a context timeout.
func (s *CLISummarizer) Summarize(ctx context.Context, snap *domain.Snapshot, results []domain.MetricResult) (string, error) {
	document := BuildDocument(snap, results)

	name, args := BuildArgs(s.cli, defaultPrompt)
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = buildStdin(s.cli, document, defaultPrompt)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		errMsg := strings.TrimSpace(stderr.String())
		if errMsg != "" {
			return "", fmt.Errorf("%s failed: %w: %s", s.cli, err, errMsg)
		}
		return "", fmt.Errorf("%s failed: %w", s.cli, err)
	}

	narrative := strings.TrimSpace(stdout.String())
	if narrative == "" {
		return "", fmt.Errorf("%s produced no output", s.cli)
	}
	return narrative, nil
}
