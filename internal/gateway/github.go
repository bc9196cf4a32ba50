// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying GraphQL and REST clients.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
)

// requestTimeout bounds a single API round trip so an unresponsive
// upstream cannot hang the whole aggregation.
const requestTimeout = 2 * time.Minute

// Fetcher defines the behavior of a gateway for fetching one page of
// contribution data from GitHub.
type Fetcher interface {
	FetchContributions(ctx context.Context, login string, from, to time.Time) (*ContributionsPage, error)
}

// LanguageEdge is one language of a repository, with its reported byte size.
type LanguageEdge struct {
	Size int
	Node struct {
		Name  string
		Color string
	}
}

// TopicNode is one repository topic.
type TopicNode struct {
	URL   string
	Topic struct {
		Name string
	}
}

// CollaboratorEdge is a collaborator entry with its permission level.
// The query constrains the collaborator lookup to the querying user's
// login, so at most one edge is expected per repository.
type CollaboratorEdge struct {
	Permission string
	Node       struct {
		Login string
	}
}

// RawRepository is the repository shape shared by all four contribution
// categories of the contributions query.
type RawRepository struct {
	NameWithOwner     string
	Description       string
	URL               string
	OpenGraphImageURL string `graphql:"openGraphImageUrl"`
	IsPrivate         bool
	IsArchived        bool
	IsDisabled        bool
	IsLocked          bool
	StargazerCount    int
	Owner             struct {
		Login string
	}
	Languages struct {
		Edges []LanguageEdge
	} `graphql:"languages(first: 20, orderBy: {field: SIZE, direction: DESC})"`
	RepositoryTopics struct {
		Nodes []TopicNode
	} `graphql:"repositoryTopics(first: 20)"`
	Collaborators struct {
		Edges []CollaboratorEdge
	} `graphql:"collaborators(query: $login, first: 1)"`
}

// CommitContributions pairs a repository with the user's commit count in
// the queried window. Commits carry no timeline nodes.
type CommitContributions struct {
	Repository    RawRepository
	Contributions struct {
		TotalCount int
	}
}

// PullRequestContributionNode is one pull request opened by the user.
type PullRequestContributionNode struct {
	OccurredAt  githubv4.DateTime
	PullRequest struct {
		Number int
		Title  string
		URL    string
	}
}

// PullRequestContributions pairs a repository with the user's opened
// pull requests in the queried window.
type PullRequestContributions struct {
	Repository    RawRepository
	Contributions struct {
		TotalCount int
		Nodes      []PullRequestContributionNode
	} `graphql:"contributions(first: 100)"`
}

// ReviewContributionNode is one pull request review submitted by the user.
type ReviewContributionNode struct {
	OccurredAt        githubv4.DateTime
	PullRequestReview struct {
		URL string
	}
	PullRequest struct {
		Number int
		Title  string
	}
}

// ReviewContributions pairs a repository with the user's submitted
// reviews in the queried window.
type ReviewContributions struct {
	Repository    RawRepository
	Contributions struct {
		TotalCount int
		Nodes      []ReviewContributionNode
	} `graphql:"contributions(first: 100)"`
}

// IssueContributionNode is one issue opened by the user.
type IssueContributionNode struct {
	OccurredAt githubv4.DateTime
	Issue      struct {
		Number int
		Title  string
		URL    string
	}
}

// IssueContributions pairs a repository with the user's opened issues in
// the queried window.
type IssueContributions struct {
	Repository    RawRepository
	Contributions struct {
		TotalCount int
		Nodes      []IssueContributionNode
	} `graphql:"contributions(first: 100)"`
}

// ContributionsPage is the result of one window query: the four
// independently-paginated contribution categories.
type ContributionsPage struct {
	Commits      []CommitContributions
	PullRequests []PullRequestContributions
	Reviews      []ReviewContributions
	Issues       []IssueContributions
}

// TotalItems counts the items returned across all four categories.
// Commits carry no timeline nodes, so their repository entries are
// counted instead; a window containing only commits keeps pagination
// going.
func (p *ContributionsPage) TotalItems() int {
	total := len(p.Commits)
	for _, c := range p.PullRequests {
		total += len(c.Contributions.Nodes)
	}
	for _, c := range p.Reviews {
		total += len(c.Contributions.Nodes)
	}
	for _, c := range p.Issues {
		total += len(c.Contributions.Nodes)
	}
	return total
}

// contributionsQuery is the typed shape of the windowed contributions
// query against the user's contributionsCollection.
type contributionsQuery struct {
	User struct {
		ContributionsCollection struct {
			CommitContributionsByRepository            []CommitContributions      `graphql:"commitContributionsByRepository(maxRepositories: 100)"`
			PullRequestContributionsByRepository       []PullRequestContributions `graphql:"pullRequestContributionsByRepository(maxRepositories: 100)"`
			PullRequestReviewContributionsByRepository []ReviewContributions      `graphql:"pullRequestReviewContributionsByRepository(maxRepositories: 100)"`
			IssueContributionsByRepository             []IssueContributions       `graphql:"issueContributionsByRepository(maxRepositories: 100)"`
		} `graphql:"contributionsCollection(from: $from, to: $to)"`
	} `graphql:"user(login: $login)"`
}

// UserProfile is the subset of the REST user object exposed by FetchUser.
type UserProfile struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	AvatarURL   string `json:"avatar_url"`
	Bio         string `json:"bio"`
	Followers   int    `json:"followers"`
	Following   int    `json:"following"`
	PublicRepos int    `json:"public_repos"`
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *zap.Logger
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(token string, logger *zap.Logger) (*GitHubGateway, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		logger:        logger,
	}, nil
}

// FetchContributions executes one contributions query for the window
// [from, to]. It performs exactly one request; pagination across windows
// is the caller's concern.
func (g *GitHubGateway) FetchContributions(ctx context.Context, login string, from, to time.Time) (*ContributionsPage, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	g.logger.Debug("executing contributions query",
		zap.String("login", login),
		zap.Time("from", from),
		zap.Time("to", to),
	)

	var q contributionsQuery
	variables := map[string]interface{}{
		"login": githubv4.String(login),
		"from":  githubv4.DateTime{Time: from},
		"to":    githubv4.DateTime{Time: to},
	}
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return nil, fmt.Errorf("failed to execute contributions query: %w", err)
	}

	collection := q.User.ContributionsCollection
	page := &ContributionsPage{
		Commits:      collection.CommitContributionsByRepository,
		PullRequests: collection.PullRequestContributionsByRepository,
		Reviews:      collection.PullRequestReviewContributionsByRepository,
		Issues:       collection.IssueContributionsByRepository,
	}
	g.logger.Debug("contributions query complete", zap.Int("items", page.TotalItems()))
	return page, nil
}

// FetchUser fetches a user profile with the REST API. An empty login
// resolves to the authenticated user.
func (g *GitHubGateway) FetchUser(ctx context.Context, login string) (*UserProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	user, _, err := g.restClient.Users.Get(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user with REST API: %w", err)
	}
	return &UserProfile{
		Login:       user.GetLogin(),
		Name:        user.GetName(),
		AvatarURL:   user.GetAvatarURL(),
		Bio:         user.GetBio(),
		Followers:   user.GetFollowers(),
		Following:   user.GetFollowing(),
		PublicRepos: user.GetPublicRepos(),
	}, nil
}

// IsUserUnavailable reports whether err is a GraphQL-level response
// saying the requested user or its contribution collection does not
// exist or is not visible to the token. Such responses end pagination;
// everything else (transport failures included) is fatal to the caller.
// Only GitHub's documented GraphQL error messages are matched: non-2xx
// transport responses carry arbitrary proxy or HTML bodies and must
// never be mistaken for user absence.
func IsUserUnavailable(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if strings.Contains(msg, "non-200 OK status code") {
		return false
	}
	return strings.Contains(msg, "Could not resolve to a User") ||
		strings.Contains(msg, "Resource not accessible")
}
