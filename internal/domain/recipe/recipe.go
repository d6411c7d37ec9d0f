package recipe

import (
	"fmt"
	"slices"
)

// Recipe is the recipe aggregate (immutable value object).
type Recipe struct {
	id                  int
	title               string
	publisher           string
	imageURL            string
	rating              int
	sourceURL           string
	description         string
	cookingInstructions string
	ingredients         []string
	dateAdded           string
	dateUpdated         string
}

// Details holds the optional recipe fields.
type Details struct {
	Publisher           string
	ImageURL            string
	Rating              int
	SourceURL           string
	Description         string
	CookingInstructions string
	Ingredients         []string
	DateAdded           string
	DateUpdated         string
}

// New validates and creates a Recipe. ID must be positive, title non-empty.
func New(id int, title string, d Details) (Recipe, error) {
	if id <= 0 {
		return Recipe{}, fmt.Errorf("recipe ID must be positive, got %d", id)
	}
	if title == "" {
		return Recipe{}, fmt.Errorf("recipe title is required")
	}
	return Reconstruct(id, title, d), nil
}

// Reconstruct creates a Recipe without validation (storage hydration).
func Reconstruct(id int, title string, d Details) Recipe {
	return Recipe{
		id:                  id,
		title:               title,
		publisher:           d.Publisher,
		imageURL:            d.ImageURL,
		rating:              d.Rating,
		sourceURL:           d.SourceURL,
		description:         d.Description,
		cookingInstructions: d.CookingInstructions,
		ingredients:         slices.Clone(d.Ingredients),
		dateAdded:           d.DateAdded,
		dateUpdated:         d.DateUpdated,
	}
}

// ID returns the recipe identifier.
func (r Recipe) ID() int { return r.id }

// Title returns the recipe title.
func (r Recipe) Title() string { return r.title }

// Publisher returns the recipe publisher.
func (r Recipe) Publisher() string { return r.publisher }

// ImageURL returns the featured image URL, empty when absent.
func (r Recipe) ImageURL() string { return r.imageURL }

// Rating returns the recipe rating.
func (r Recipe) Rating() int { return r.rating }

// SourceURL returns the original recipe URL.
func (r Recipe) SourceURL() string { return r.sourceURL }

// Description returns the recipe description.
func (r Recipe) Description() string { return r.description }

// CookingInstructions returns the free-text instructions.
func (r Recipe) CookingInstructions() string { return r.cookingInstructions }

// Ingredients returns a copy of the ingredient list.
func (r Recipe) Ingredients() []string { return slices.Clone(r.ingredients) }

// DateAdded returns the upstream creation date as sent by the API.
func (r Recipe) DateAdded() string { return r.dateAdded }

// DateUpdated returns the upstream update date as sent by the API.
func (r Recipe) DateUpdated() string { return r.dateUpdated }
