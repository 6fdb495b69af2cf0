package entity

import "strings"

// Category is a news category understood by the upstream providers.
type Category string

const (
	CategoryBusiness      Category = "business"
	CategoryEntertainment Category = "entertainment"
	CategoryGeneral       Category = "general"
	CategoryHealth        Category = "health"
	CategoryScience       Category = "science"
	CategorySports        Category = "sports"
	CategoryTechnology    Category = "technology"
)

// Categories lists every supported category in stable order.
func Categories() []Category {
	return []Category{
		CategoryBusiness,
		CategoryEntertainment,
		CategoryGeneral,
		CategoryHealth,
		CategoryScience,
		CategorySports,
		CategoryTechnology,
	}
}

// ParseCategory parses a category from client input.
// Returns ErrInvalidCategory for anything it does not recognize.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories() {
		if c == known {
			return c, nil
		}
	}
	return "", ErrInvalidCategory
}

// DeriveCategory parses a category produced by the language model.
// Model output is untrusted, so anything unrecognized falls back to general
// rather than failing the enrichment.
func DeriveCategory(s string) Category {
	if c, err := ParseCategory(s); err == nil {
		return c
	}
	return CategoryGeneral
}
