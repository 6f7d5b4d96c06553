package models

// Repo is the reduced repository record written to the snapshot.
type Repo struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	FullName    string   `json:"full_name"`
	HTMLURL     string   `json:"html_url"`
	Description *string  `json:"description"`
	Language    *string  `json:"language"`
	Stars       int      `json:"stargazers_count"`
	Forks       int      `json:"forks_count"`
	Watchers    int      `json:"watchers_count"`
	OpenIssues  int      `json:"open_issues_count"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
	Topics      []string `json:"topics"`
	Category    string   `json:"category"`
	StarsPerDay float64  `json:"calculated_stars_per_day"`
}

// Category groups one or more GitHub topics under a dashboard-facing name.
type Category struct {
	Name   string   `yaml:"name"`
	Topics []string `yaml:"topics"`
}

// SortSpec is a ranking field and direction accepted by the search API.
type SortSpec struct {
	Field string
	Order string
}

// DefaultSorts is the fixed set of orderings fetched for every category.
var DefaultSorts = []SortSpec{
	{Field: "stars", Order: "desc"},
	{Field: "forks", Order: "desc"},
	{Field: "updated", Order: "desc"},
}

// CategoryNames returns the names of cats in declaration order.
func CategoryNames(cats []Category) []string {
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.Name
	}
	return names
}
