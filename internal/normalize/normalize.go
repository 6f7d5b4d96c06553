// Package normalize converts raw search results into snapshot records.
package normalize

import (
	"fmt"

	"github.com/kevinmichaelchen/repo-radar/internal/github"
	"github.com/kevinmichaelchen/repo-radar/internal/models"
)

// MissingFieldError reports a required field absent from a raw item.
type MissingFieldError struct {
	Field    string
	FullName string
}

func (e *MissingFieldError) Error() string {
	if e.FullName != "" {
		return fmt.Sprintf("repository %s: missing required field %q", e.FullName, e.Field)
	}
	return fmt.Sprintf("repository: missing required field %q", e.Field)
}

// Repo projects raw onto the reduced record and tags it with category.
func Repo(raw github.RawRepo, category string) (models.Repo, error) {
	var fullName string
	if raw.FullName != nil {
		fullName = *raw.FullName
	}
	missing := func(field string) (models.Repo, error) {
		return models.Repo{}, &MissingFieldError{Field: field, FullName: fullName}
	}

	switch {
	case raw.ID == nil:
		return missing("id")
	case raw.Name == nil:
		return missing("name")
	case raw.FullName == nil:
		return missing("full_name")
	case raw.HTMLURL == nil:
		return missing("html_url")
	case raw.StargazersCount == nil:
		return missing("stargazers_count")
	case raw.ForksCount == nil:
		return missing("forks_count")
	case raw.WatchersCount == nil:
		return missing("watchers_count")
	case raw.OpenIssuesCount == nil:
		return missing("open_issues_count")
	case raw.CreatedAt == nil:
		return missing("created_at")
	case raw.UpdatedAt == nil:
		return missing("updated_at")
	}

	topics := raw.Topics
	if topics == nil {
		topics = []string{}
	}

	return models.Repo{
		ID:          *raw.ID,
		Name:        *raw.Name,
		FullName:    *raw.FullName,
		HTMLURL:     *raw.HTMLURL,
		Description: raw.Description,
		Language:    raw.Language,
		Stars:       *raw.StargazersCount,
		Forks:       *raw.ForksCount,
		Watchers:    *raw.WatchersCount,
		OpenIssues:  *raw.OpenIssuesCount,
		CreatedAt:   *raw.CreatedAt,
		UpdatedAt:   *raw.UpdatedAt,
		Topics:      topics,
		Category:    category,
		// Left for the dashboard to compute.
		StarsPerDay: 0,
	}, nil
}

// Repos normalizes every item. The first item that fails aborts the batch
// with its error, so callers never see a partial list.
func Repos(raws []github.RawRepo, category string) ([]models.Repo, error) {
	repos := make([]models.Repo, 0, len(raws))
	for _, raw := range raws {
		r, err := Repo(raw, category)
		if err != nil {
			return nil, err
		}
		repos = append(repos, r)
	}
	return repos, nil
}
