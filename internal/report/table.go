package report

import (
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/ykohei-dev/gh-contribs/internal/domain"
)

var (
	ownerColor        = color.New(color.FgMagenta, color.Bold)
	maintainerColor   = color.New(color.FgRed, color.Bold)
	collaboratorColor = color.New(color.FgYellow)
	contributorColor  = color.New(color.FgGreen)
)

// roleLabel colorizes a role for terminal output.
func roleLabel(role domain.Role) string {
	switch role {
	case domain.RoleOwner:
		return ownerColor.Sprint(string(role))
	case domain.RoleMaintainer:
		return maintainerColor.Sprint(string(role))
	case domain.RoleCollaborator:
		return collaboratorColor.Sprint(string(role))
	default:
		return contributorColor.Sprint(string(role))
	}
}

// topLanguage returns the dominant language of a repository, which is
// the first entry since languages arrive ordered by size descending.
func topLanguage(repo *domain.Repository) string {
	if len(repo.Languages) == 0 {
		return "-"
	}
	lang := repo.Languages[0]
	return lang.Name + " " + strconv.Itoa(lang.Coverage) + "%"
}

// WriteTable renders the result list as a human-readable table.
func WriteTable(w io.Writer, repos []*domain.Repository) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Repository", "Role", "Stars", "Commits", "PRs", "Reviews", "Issues", "Top Language"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, repo := range repos {
		data = append(data, []string{
			repo.Name,
			roleLabel(repo.Role),
			strconv.Itoa(repo.Stargazers),
			strconv.Itoa(repo.Contribs.Commits),
			strconv.Itoa(repo.Contribs.PullRequests),
			strconv.Itoa(repo.Contribs.Reviews),
			strconv.Itoa(repo.Contribs.Issues),
			topLanguage(repo),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
