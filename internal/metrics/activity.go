package metrics

import (
	"fmt"
	"time"

	"github.com/takeru0219/repo-maintidx/internal/domain"
)

const (
	frequencyWeight = 50.0
	recencyWeight   = 30.0
	diversityWeight = 20.0

	// Saturation points: 10 commits/week earns full frequency credit,
	// 5 distinct authors earns the full diversity bonus.
	fullCommitsPerWeek = 10.0
	fullAuthorCount    = 5.0

	// Recency decays linearly from full credit at 7 days since the last
	// commit to zero at 90 days.
	recencyFullDays = 7.0
	recencyZeroDays = 90.0
)

// Activity scores recent commit behavior: frequency, recency and
// contributor diversity. An empty commit window scores exactly 0; inactivity
// is a meaningful signal, not missing data.
func Activity(snap *domain.Snapshot) domain.MetricResult {
	if len(snap.Commits) == 0 {
		return domain.NewScore(domain.MetricActivity, 0,
			[]string{"no commits in window"})
	}

	// The snapshot fetch time is the reference point, so identical
	// snapshots always produce identical scores.
	now := snap.FetchedAt
	if now.IsZero() {
		now = time.Now()
	}

	weeks := float64(snap.WindowDays) / 7.0
	if weeks < 1 {
		weeks = 1
	}
	commitsPerWeek := float64(len(snap.Commits)) / weeks
	frequency := frequencyWeight * saturate(commitsPerWeek, fullCommitsPerWeek)

	last := snap.Commits[0].Timestamp
	for _, c := range snap.Commits {
		if c.Timestamp.After(last) {
			last = c.Timestamp
		}
	}
	daysSince := now.Sub(last).Hours() / 24
	recency := recencyWeight * recencyDecay(daysSince)

	authors := make(map[string]bool)
	for _, c := range snap.Commits {
		authors[c.Author] = true
	}
	diversity := diversityWeight * saturate(float64(len(authors)), fullAuthorCount)

	findings := []string{
		fmt.Sprintf("%d commits in the last %d days (%.1f per week)", len(snap.Commits), snap.WindowDays, commitsPerWeek),
		fmt.Sprintf("last commit %.0f days ago", daysSince),
		fmt.Sprintf("%d distinct authors in window", len(authors)),
	}

	return domain.NewScore(domain.MetricActivity, clamp(frequency+recency+diversity), findings)
}

// recencyDecay maps days-since-last-commit to [0,1].
func recencyDecay(days float64) float64 {
	if days <= recencyFullDays {
		return 1
	}
	if days >= recencyZeroDays {
		return 0
	}
	return (recencyZeroDays - days) / (recencyZeroDays - recencyFullDays)
}
