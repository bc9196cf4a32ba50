package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ykohei-dev/gh-contribs/internal/domain"
)

// The JSON output is the tool's machine-facing contract; the field
// names and shapes are pinned here.
func TestWriteJSON(t *testing.T) {
	repos := []*domain.Repository{
		{
			Name:        "org/repo",
			Description: "Demo repository",
			URL:         "https://github.com/org/repo",
			ImageURL:    "https://example.com/repo.png",
			IsActive:    true,
			Role:        domain.RoleOwner,
			Stargazers:  5,
			Languages:   []domain.Language{{Name: "Go", Color: "#00ADD8", Size: 300, Coverage: 100}},
			Topics:      []domain.Topic{{Name: "cli", URL: "https://github.com/topics/cli"}},
			Contribs: domain.Contributions{
				Commits: 2,
				Details: []domain.TimelineEntry{
					{
						Type:       domain.EntryPullRequest,
						URL:        "https://github.com/org/repo/pull/7",
						Title:      "Add feature",
						OccurredAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
						Number:     7,
					},
				},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, repos))

	assert.JSONEq(t, `[
		{
			"name": "org/repo",
			"description": "Demo repository",
			"url": "https://github.com/org/repo",
			"image_url": "https://example.com/repo.png",
			"is_private": false,
			"is_active": true,
			"role": "owner",
			"stargazers": 5,
			"languages": [{"name": "Go", "color": "#00ADD8", "size": 300, "coverage": 100}],
			"topics": [{"name": "cli", "url": "https://github.com/topics/cli"}],
			"contributions": {
				"commits": 2,
				"details": [{
					"type": "pull-request",
					"url": "https://github.com/org/repo/pull/7",
					"title": "Add feature",
					"occurred_at": "2024-03-01T10:00:00Z",
					"number": 7
				}]
			}
		}
	]`, buf.String())
}

// Zero counts are omitted; empty detail lists are not.
func TestWriteJSON_OmitsZeroCounts(t *testing.T) {
	repos := []*domain.Repository{
		{
			Name:      "org/quiet",
			IsActive:  true,
			Role:      domain.RoleContributor,
			Languages: []domain.Language{},
			Topics:    []domain.Topic{},
			Contribs:  domain.Contributions{Issues: 1, Details: []domain.TimelineEntry{}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, repos))

	assert.NotContains(t, buf.String(), `"commits"`)
	assert.NotContains(t, buf.String(), `"pull_requests"`)
	assert.Contains(t, buf.String(), `"issues": 1`)
	assert.Contains(t, buf.String(), `"details": []`)
}
