package report

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ykohei-dev/gh-contribs/internal/domain"
)

// chartMaxRepos keeps the bar chart readable for users with long tails
// of low-activity repositories.
const chartMaxRepos = 25

// WriteChart renders the result list as an HTML bar chart with one
// series per contribution category. Repositories keep their popularity
// order on the x-axis.
func WriteChart(w io.Writer, login string, repos []*domain.Repository) error {
	if len(repos) > chartMaxRepos {
		repos = repos[:chartMaxRepos]
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:       "Contributions of " + login,
			BackgroundColor: "transparent",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Contributions of " + login,
			Subtitle: "per repository, ordered by stargazers",
		}),
	)

	names := make([]string, 0, len(repos))
	commits := make([]opts.BarData, 0, len(repos))
	pullRequests := make([]opts.BarData, 0, len(repos))
	reviews := make([]opts.BarData, 0, len(repos))
	issues := make([]opts.BarData, 0, len(repos))
	for _, repo := range repos {
		names = append(names, repo.Name)
		commits = append(commits, opts.BarData{Value: repo.Contribs.Commits})
		pullRequests = append(pullRequests, opts.BarData{Value: repo.Contribs.PullRequests})
		reviews = append(reviews, opts.BarData{Value: repo.Contribs.Reviews})
		issues = append(issues, opts.BarData{Value: repo.Contribs.Issues})
	}

	bar.SetXAxis(names).
		AddSeries("Commits", commits).
		AddSeries("Pull requests", pullRequests).
		AddSeries("Reviews", reviews).
		AddSeries("Issues", issues)

	return bar.Render(w)
}
