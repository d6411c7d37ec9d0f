package category

import (
	"fmt"

	"github.com/kailas-cloud/recipedex/internal/domain"
)

// Category is a food category from the fixed search vocabulary.
type Category string

// Known categories, in display order.
const (
	Chicken    Category = "Chicken"
	Beef       Category = "Beef"
	Soup       Category = "Soup"
	Dessert    Category = "Dessert"
	Vegetarian Category = "Vegetarian"
	Milk       Category = "Milk"
	Vegan      Category = "Vegan"
	Pizza      Category = "Pizza"
	Donut      Category = "Donut"
)

var all = []Category{Chicken, Beef, Soup, Dessert, Vegetarian, Milk, Vegan, Pizza, Donut}

// All returns every known category in display order.
func All() []Category {
	out := make([]Category, len(all))
	copy(out, all)
	return out
}

// Parse resolves a label by exact match. ok is false for unknown labels.
func Parse(label string) (Category, bool) {
	for _, c := range all {
		if string(c) == label {
			return c, true
		}
	}
	return "", false
}

// Lookup resolves a label or returns an error wrapping domain.ErrInvalidCategory.
func Lookup(label string) (Category, error) {
	c, ok := Parse(label)
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidCategory, label)
	}
	return c, nil
}

// Value returns the canonical label.
func (c Category) Value() string { return string(c) }

// IsValid reports whether c belongs to the known set.
func (c Category) IsValid() bool {
	_, ok := Parse(string(c))
	return ok
}
