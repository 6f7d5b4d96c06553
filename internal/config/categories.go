package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kevinmichaelchen/repo-radar/internal/models"
	"gopkg.in/yaml.v3"
)

var (
	ErrNoCategories          = errors.New("at least one category is required")
	ErrCategoryMissingName   = errors.New("category name is required")
	ErrDuplicateCategoryName = errors.New("duplicate category name")
	ErrReservedCategoryName  = errors.New("category names must not start with '_'")
)

type categoriesFile struct {
	Categories []models.Category `yaml:"categories"`
}

// DefaultCategories returns the built-in category list.
func DefaultCategories() []models.Category {
	return []models.Category{
		{Name: "AI", Topics: []string{"machine-learning", "artificial-intelligence", "deep-learning", "neural-networks", "ai"}},
		{Name: "Anime", Topics: []string{"anime", "manga", "otaku", "anime-games", "anime-app"}},
		{Name: "FinTech", Topics: []string{"fintech", "blockchain", "cryptocurrency", "banking", "finance"}},
		{Name: "Web Dev", Topics: []string{"web", "javascript", "react", "vue", "angular", "nodejs"}},
		{Name: "Mobile", Topics: []string{"mobile", "android", "ios", "flutter", "react-native"}},
		{Name: "DevOps", Topics: []string{"devops", "kubernetes", "docker", "ci-cd", "infrastructure"}},
		{Name: "Gaming", Topics: []string{"game", "gaming", "unity", "unreal-engine", "game-development"}},
		{Name: "Data Science", Topics: []string{"data-science", "analytics", "big-data", "data-visualization"}},
		{Name: "Cybersecurity", Topics: []string{"security", "cybersecurity", "hacking", "privacy"}},
		{Name: "IoT", Topics: []string{"iot", "arduino", "raspberry-pi", "embedded"}},
	}
}

// LoadCategories reads a YAML category list:
//
//	categories:
//	  - name: AI
//	    topics: [machine-learning, ai]
func LoadCategories(path string) ([]models.Category, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading categories file: %w", err)
	}

	var f categoriesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing categories file: %w", err)
	}
	if err := ValidateCategories(f.Categories); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for i := range f.Categories {
		f.Categories[i].Name = strings.TrimSpace(f.Categories[i].Name)
	}
	return f.Categories, nil
}

// ValidateCategories checks that names are present, unique, and do not
// collide with the snapshot's reserved metadata keys.
func ValidateCategories(cats []models.Category) error {
	if len(cats) == 0 {
		return ErrNoCategories
	}
	seen := make(map[string]bool, len(cats))
	for i, c := range cats {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return fmt.Errorf("categories[%d]: %w", i, ErrCategoryMissingName)
		}
		if strings.HasPrefix(name, "_") {
			return fmt.Errorf("categories[%d] %q: %w", i, c.Name, ErrReservedCategoryName)
		}
		if seen[name] {
			return fmt.Errorf("categories[%d] %q: %w", i, c.Name, ErrDuplicateCategoryName)
		}
		seen[name] = true
	}
	return nil
}
