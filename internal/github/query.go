package github

import (
	"fmt"
	"strings"
)

// BuildQuery returns a search query matching repositories tagged with any
// of topics and having more than minStars stars. Topics are not validated.
func BuildQuery(topics []string, minStars int) string {
	parts := make([]string, 0, len(topics))
	for _, t := range topics {
		parts = append(parts, "topic:"+t)
	}

	stars := fmt.Sprintf("stars:>%d", minStars)
	if len(parts) == 0 {
		return stars
	}
	return strings.Join(parts, " OR ") + " " + stars
}
