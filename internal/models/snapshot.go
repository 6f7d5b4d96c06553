package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// Reserved snapshot keys. The leading underscore keeps them apart from
// category names.
const (
	KeyLastUpdated       = "_last_updated"
	KeyTotalRepositories = "_total_repositories"
	KeyCategories        = "_categories"
)

// Snapshot is the aggregate produced by one run: a list of repos for every
// (category, sort) pair plus run metadata.
type Snapshot struct {
	Categories []Category
	Sorts      []SortSpec

	LastUpdated       time.Time
	TotalRepositories int

	results map[string]map[string][]Repo
}

// NewSnapshot returns a snapshot with an empty list registered for every
// (category, sort) pair.
func NewSnapshot(cats []Category, sorts []SortSpec) *Snapshot {
	s := &Snapshot{
		Categories: cats,
		Sorts:      sorts,
		results:    make(map[string]map[string][]Repo, len(cats)),
	}
	for _, c := range cats {
		bySort := make(map[string][]Repo, len(sorts))
		for _, sp := range sorts {
			bySort[sp.Field] = []Repo{}
		}
		s.results[c.Name] = bySort
	}
	return s
}

// Set stores repos under (category, sort). A nil slice is stored as empty.
func (s *Snapshot) Set(category, sort string, repos []Repo) {
	if repos == nil {
		repos = []Repo{}
	}
	bySort, ok := s.results[category]
	if !ok {
		bySort = make(map[string][]Repo)
		s.results[category] = bySort
	}
	bySort[sort] = repos
}

// Get returns the repos stored under (category, sort).
func (s *Snapshot) Get(category, sort string) []Repo {
	return s.results[category][sort]
}

// Finalize computes the run metadata. It must be called once every pair
// has been set.
func (s *Snapshot) Finalize(now time.Time) {
	total := 0
	for _, bySort := range s.results {
		for _, repos := range bySort {
			total += len(repos)
		}
	}
	s.TotalRepositories = total
	s.LastUpdated = now.UTC()
}

// MarshalJSON writes categories in declaration order, each with its sort
// lists in fixed order, followed by the reserved metadata keys.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for _, c := range s.Categories {
		if err := writeKey(&buf, c.Name); err != nil {
			return nil, err
		}
		buf.WriteByte('{')
		for j, sp := range s.Sorts {
			if j > 0 {
				buf.WriteByte(',')
			}
			repos := s.Get(c.Name, sp.Field)
			if repos == nil {
				repos = []Repo{}
			}
			if err := writeField(&buf, sp.Field, repos); err != nil {
				return nil, err
			}
		}
		buf.WriteString("},")
	}

	if err := writeField(&buf, KeyLastUpdated, s.LastUpdated.Format(time.RFC3339)); err != nil {
		return nil, err
	}
	buf.WriteByte(',')
	if err := writeField(&buf, KeyTotalRepositories, s.TotalRepositories); err != nil {
		return nil, err
	}
	buf.WriteByte(',')
	if err := writeField(&buf, KeyCategories, CategoryNames(s.Categories)); err != nil {
		return nil, err
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	return nil
}

func writeField(buf *bytes.Buffer, key string, v any) error {
	if err := writeKey(buf, key); err != nil {
		return err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}
