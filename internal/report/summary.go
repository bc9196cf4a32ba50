package report

import (
	"github.com/montanaflynn/stats"

	"github.com/ykohei-dev/gh-contribs/internal/domain"
)

// Summary holds run-level aggregate figures over the final result list.
type Summary struct {
	Repositories      int     `json:"repositories"`
	TotalStars        int     `json:"total_stars"`
	TotalCommits      int     `json:"total_commits"`
	TotalPullRequests int     `json:"total_pull_requests"`
	TotalReviews      int     `json:"total_reviews"`
	TotalIssues       int     `json:"total_issues"`
	MedianStars       float64 `json:"median_stars"`
	MeanCommits       float64 `json:"mean_commits"`
}

// Summarize computes run-level totals plus median stargazers and mean
// commits per repository. An empty result list yields all zeros.
func Summarize(repos []*domain.Repository) Summary {
	summary := Summary{Repositories: len(repos)}

	starData := make(stats.Float64Data, 0, len(repos))
	commitData := make(stats.Float64Data, 0, len(repos))
	for _, repo := range repos {
		summary.TotalStars += repo.Stargazers
		summary.TotalCommits += repo.Contribs.Commits
		summary.TotalPullRequests += repo.Contribs.PullRequests
		summary.TotalReviews += repo.Contribs.Reviews
		summary.TotalIssues += repo.Contribs.Issues
		starData = append(starData, float64(repo.Stargazers))
		commitData = append(commitData, float64(repo.Contribs.Commits))
	}

	// stats errors only on empty input; zeros are the right answer there.
	summary.MedianStars, _ = stats.Median(starData)
	summary.MeanCommits, _ = stats.Mean(commitData)
	return summary
}
