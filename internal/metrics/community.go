package metrics

import (
	"fmt"
	"sort"

	"github.com/takeru0219/repo-maintidx/internal/domain"
)

const (
	closeRatioWeight  = 35.0
	closeTimeWeight   = 25.0
	mergeRatioWeight  = 30.0
	reviewBonusWeight = 10.0

	// Median time-to-close decays linearly from full credit at 7 days to
	// zero at 90 days. Two reviews per merged PR earns the full bonus.
	closeTimeFullDays = 7.0
	closeTimeZeroDays = 90.0
	fullAvgReviews    = 2.0
)

// CommunityHealth scores issue and pull-request handling. When the snapshot
// reports issues or pull requests as unavailable (disabled on the host) the
// metric is unavailable; that is different from categories that exist but
// are empty, which still produce a defined score.
func CommunityHealth(snap *domain.Snapshot) domain.MetricResult {
	if snap.Issues == nil {
		return domain.NewUnavailable(domain.MetricCommunityHealth,
			"issues disabled or unavailable", nil)
	}
	if snap.PullRequests == nil {
		return domain.NewUnavailable(domain.MetricCommunityHealth,
			"pull requests unavailable", nil)
	}

	var findings []string
	score := 0.0

	// Issue close ratio.
	issues := snap.Issues.Items
	closed := 0
	for _, i := range issues {
		if i.State == domain.IssueClosed {
			closed++
		}
	}
	if len(issues) == 0 {
		// No issues ever filed: nothing is unresolved.
		score += closeRatioWeight
		findings = append(findings, "no issues filed")
	} else {
		ratio := float64(closed) / float64(len(issues))
		score += closeRatioWeight * ratio
		findings = append(findings, fmt.Sprintf("%d of %d issues closed (%.0f%%)", closed, len(issues), ratio*100))
	}

	// Median time-to-close for resolved issues.
	median, ok := medianCloseDays(issues)
	if !ok {
		score += closeTimeWeight
		if len(issues) > 0 {
			findings = append(findings, "no resolved issues to measure close time")
		}
	} else {
		score += closeTimeWeight * closeTimeDecay(median)
		findings = append(findings, fmt.Sprintf("median time to close: %.1f days", median))
	}

	// Pull-request merge ratio over decided PRs.
	prs := snap.PullRequests.Items
	merged, decided := 0, 0
	for _, pr := range prs {
		switch pr.State {
		case domain.PullRequestMerged:
			merged++
			decided++
		case domain.PullRequestClosed:
			decided++
		}
	}
	if decided == 0 {
		score += mergeRatioWeight
		findings = append(findings, "no decided pull requests in window")
	} else {
		ratio := float64(merged) / float64(decided)
		score += mergeRatioWeight * ratio
		findings = append(findings, fmt.Sprintf("%d of %d decided pull requests merged (%.0f%%)", merged, decided, ratio*100))
	}

	// Review bonus for merged PRs.
	if merged > 0 {
		totalReviews := 0
		for _, pr := range prs {
			if pr.State == domain.PullRequestMerged {
				totalReviews += pr.ReviewCount
			}
		}
		avg := float64(totalReviews) / float64(merged)
		score += reviewBonusWeight * saturate(avg, fullAvgReviews)
		findings = append(findings, fmt.Sprintf("%.1f reviews per merged pull request", avg))
	}

	return domain.NewScore(domain.MetricCommunityHealth, clamp(score), findings)
}

// medianCloseDays returns the median time-to-close in days over resolved
// issues. ok is false when no issue has both timestamps.
func medianCloseDays(issues []domain.Issue) (float64, bool) {
	var durations []float64
	for _, i := range issues {
		if i.State == domain.IssueClosed && i.ClosedAt != nil {
			d := i.ClosedAt.Sub(i.CreatedAt)
			if d < 0 {
				d = 0
			}
			durations = append(durations, d.Hours()/24)
		}
	}
	if len(durations) == 0 {
		return 0, false
	}
	sort.Float64s(durations)
	mid := len(durations) / 2
	if len(durations)%2 == 1 {
		return durations[mid], true
	}
	return (durations[mid-1] + durations[mid]) / 2, true
}

func closeTimeDecay(days float64) float64 {
	if days <= closeTimeFullDays {
		return 1
	}
	if days >= closeTimeZeroDays {
		return 0
	}
	return (closeTimeZeroDays - days) / (closeTimeZeroDays - closeTimeFullDays)
}
