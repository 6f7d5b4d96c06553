package github

import (
	"errors"
	"fmt"
)

var errMissingItems = errors.New(`response has no "items" field`)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Status      int
	Body        string
	RateLimited bool
}

func (e *StatusError) Error() string {
	if e.RateLimited {
		return fmt.Sprintf("GitHub API rate limit exceeded (%d); set DASHBOARD_TOKEN for higher limits", e.Status)
	}
	return fmt.Sprintf("GitHub API returned %d: %s", e.Status, e.Body)
}

// DecodeError is returned when a 2xx response body is not a search result.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return "parsing search response: " + e.Err.Error() }

func (e *DecodeError) Unwrap() error { return e.Err }
