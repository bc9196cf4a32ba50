// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// Role describes the querying user's relationship to a repository,
// derived from ownership or collaborator permission level.
type Role string

const (
	RoleOwner        Role = "owner"
	RoleMaintainer   Role = "maintainer"
	RoleCollaborator Role = "collaborator"
	RoleContributor  Role = "contributor"
)

// EntryType identifies which contribution category produced a timeline entry.
type EntryType string

const (
	EntryPullRequest EntryType = "pull-request"
	EntryReview      EntryType = "review"
	EntryIssue       EntryType = "issue"
)

// Language is one entry of a repository's language composition.
// Coverage is the language's share of the repository's total reported
// byte size as an integer percentage, floor-truncated; coverages across
// languages are therefore not guaranteed to sum to 100.
type Language struct {
	Name     string `json:"name"`
	Color    string `json:"color"`
	Size     int    `json:"size"`
	Coverage int    `json:"coverage"`
}

// Topic is a repository topic as returned by the upstream source.
type Topic struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// TimelineEntry is a single item of a repository's activity feed.
type TimelineEntry struct {
	Type       EntryType `json:"type"`
	URL        string    `json:"url"`
	Title      string    `json:"title"`
	OccurredAt time.Time `json:"occurred_at"`
	Number     int       `json:"number"`
}

// Contributions holds the per-category counts and the activity feed for
// one repository. Counts are omitted from JSON output when zero.
type Contributions struct {
	Commits      int             `json:"commits,omitempty"`
	PullRequests int             `json:"pull_requests,omitempty"`
	Reviews      int             `json:"reviews,omitempty"`
	Issues       int             `json:"issues,omitempty"`
	Details      []TimelineEntry `json:"details"`
}

// Merge folds another Contributions value into the receiver: numeric
// fields are summed and detail lists are concatenated. Details are not
// deduplicated; a pull-request contribution and a review contribution on
// the same pull request remain two distinct entries.
func (c *Contributions) Merge(other *Contributions) {
	if other == nil {
		return
	}
	c.Commits += other.Commits
	c.PullRequests += other.PullRequests
	c.Reviews += other.Reviews
	c.Issues += other.Issues
	c.Details = append(c.Details, other.Details...)
}

// Repository is the per-repository aggregation result: a normalized
// summary of the repository itself plus the user's contributions to it.
// It is the core domain entity of this application, keyed by Name
// (nameWithOwner), which is unique across one aggregation run.
type Repository struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	URL         string        `json:"url"`
	ImageURL    string        `json:"image_url"`
	IsPrivate   bool          `json:"is_private"`
	IsActive    bool          `json:"is_active"`
	Role        Role          `json:"role"`
	Stargazers  int           `json:"stargazers"`
	Languages   []Language    `json:"languages"`
	Topics      []Topic       `json:"topics"`
	Contribs    Contributions `json:"contributions"`
}
