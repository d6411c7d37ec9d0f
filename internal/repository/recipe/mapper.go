package recipe

import (
	"fmt"

	"github.com/kailas-cloud/recipedex/internal/domain"
	domrecipe "github.com/kailas-cloud/recipedex/internal/domain/recipe"
	"github.com/kailas-cloud/recipedex/internal/transport/food2fork"
)

// ToDomain converts a wire record into a domain Recipe.
// Fails with domain.ErrMapping only when pk or title is absent; present
// values are taken as sent.
func ToDomain(rec *food2fork.RecipeRecord) (domrecipe.Recipe, error) {
	if rec.PK == nil {
		return domrecipe.Recipe{}, fmt.Errorf("%w: missing pk", domain.ErrMapping)
	}
	if rec.Title == nil {
		return domrecipe.Recipe{}, fmt.Errorf("%w: recipe %d: missing title", domain.ErrMapping, *rec.PK)
	}

	return domrecipe.Reconstruct(*rec.PK, *rec.Title, domrecipe.Details{
		Publisher:           rec.Publisher,
		ImageURL:            rec.FeaturedImage,
		Rating:              rec.Rating,
		SourceURL:           rec.SourceURL,
		Description:         rec.Description,
		CookingInstructions: rec.CookingInstructions,
		Ingredients:         rec.Ingredients,
		DateAdded:           rec.DateAdded,
		DateUpdated:         rec.DateUpdated,
	}), nil
}

// ToDomainList maps records in order and stops at the first invalid one.
// No partial result is returned on failure.
func ToDomainList(recs []food2fork.RecipeRecord) ([]domrecipe.Recipe, error) {
	out := make([]domrecipe.Recipe, 0, len(recs))
	for i := range recs {
		r, err := ToDomain(&recs[i])
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, r)
	}
	return out, nil
}
