// pkg/catalog/catalog.go
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"lucy-chat/internal/common/validation"
	"lucy-chat/internal/models"
)

// DefaultBrand and DefaultCategory are assigned to products derived from ingredients.
const (
	DefaultBrand    = "Generic"
	DefaultCategory = "groceries"
)

// Load reads and validates a products.json file.
func Load(path string) ([]models.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := Validate(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Save writes products as indented JSON.
func Save(path string, products []models.Product) error {
	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Validate checks raw products.json content against Schema and rejects
// duplicate ids or titles.
func Validate(data []byte) error {
	result, err := validation.Validate(Schema, data)
	if err != nil {
		return err
	}
	if err := result.Err(); err != nil {
		return err
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return err
	}
	ids := make(map[int]struct{}, len(products))
	titles := make(map[string]struct{}, len(products))
	for _, p := range products {
		if _, dup := ids[p.ID]; dup {
			return fmt.Errorf("duplicate product id %d", p.ID)
		}
		ids[p.ID] = struct{}{}
		key := strings.ToLower(p.Title)
		if _, dup := titles[key]; dup {
			return fmt.Errorf("duplicate product title %q", p.Title)
		}
		titles[key] = struct{}{}
	}
	return nil
}

// BuildFromRecipes derives one product per distinct ingredient (case-insensitive),
// sorted by title and numbered from 1.
func BuildFromRecipes(recipes []models.Recipe) []models.Product {
	seen := make(map[string]string)
	for _, r := range recipes {
		for _, ing := range r.Ingredients {
			title := strings.TrimSpace(ing)
			if title == "" {
				continue
			}
			key := strings.ToLower(title)
			if _, ok := seen[key]; !ok {
				seen[key] = title
			}
		}
	}

	titles := make([]string, 0, len(seen))
	for _, t := range seen {
		titles = append(titles, t)
	}
	sort.Slice(titles, func(i, j int) bool {
		return strings.ToLower(titles[i]) < strings.ToLower(titles[j])
	})

	products := make([]models.Product, len(titles))
	for i, t := range titles {
		products[i] = models.Product{
			ID:          i + 1,
			Title:       t,
			Description: t,
			Price:       1.99,
			Rating:      4.5,
			Stock:       100,
			Brand:       DefaultBrand,
			Category:    DefaultCategory,
		}
	}
	return products
}
