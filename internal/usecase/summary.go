// Package usecase contains the business logic of the application.
package usecase

import (
	"github.com/ykohei-dev/gh-contribs/internal/domain"
	"github.com/ykohei-dev/gh-contribs/internal/gateway"
)

// roleOf classifies the querying user's relationship to a repository.
// Ownership wins; otherwise the single collaborator edge the query asks
// for decides. No edge (private repository access denied included) means
// plain contributor.
func roleOf(login string, repo *gateway.RawRepository) domain.Role {
	if repo.Owner.Login == login {
		return domain.RoleOwner
	}
	for _, edge := range repo.Collaborators.Edges {
		if edge.Node.Login != login {
			continue
		}
		switch edge.Permission {
		case "ADMIN", "MAINTAIN":
			return domain.RoleMaintainer
		case "WRITE":
			return domain.RoleCollaborator
		default:
			return domain.RoleContributor
		}
	}
	return domain.RoleContributor
}

// summarizeRepository converts one raw repository record into a
// normalized summary with an empty contribution record.
//
// Language coverage is floor-truncated integer division against the sum
// of the reported sizes, so coverages are not guaranteed to sum to 100.
// A zero total is clamped to 1 to guard repositories that report no
// language bytes at all. Language and topic order follow the upstream
// response (languages are requested by size descending).
func summarizeRepository(login string, repo *gateway.RawRepository) *domain.Repository {
	total := 0
	for _, edge := range repo.Languages.Edges {
		total += edge.Size
	}
	if total < 1 {
		total = 1
	}

	languages := make([]domain.Language, 0, len(repo.Languages.Edges))
	for _, edge := range repo.Languages.Edges {
		languages = append(languages, domain.Language{
			Name:     edge.Node.Name,
			Color:    edge.Node.Color,
			Size:     edge.Size,
			Coverage: edge.Size * 100 / total,
		})
	}

	topics := make([]domain.Topic, 0, len(repo.RepositoryTopics.Nodes))
	for _, node := range repo.RepositoryTopics.Nodes {
		topics = append(topics, domain.Topic{
			Name: node.Topic.Name,
			URL:  node.URL,
		})
	}

	return &domain.Repository{
		Name:        repo.NameWithOwner,
		Description: repo.Description,
		URL:         repo.URL,
		ImageURL:    repo.OpenGraphImageURL,
		IsPrivate:   repo.IsPrivate,
		IsActive:    !(repo.IsArchived || repo.IsDisabled || repo.IsLocked),
		Role:        roleOf(login, repo),
		Stargazers:  repo.StargazerCount,
		Languages:   languages,
		Topics:      topics,
		// The activity feed is a list in the output contract even when
		// only commits contribute, so it must never serialize as null.
		Contribs: domain.Contributions{Details: []domain.TimelineEntry{}},
	}
}
