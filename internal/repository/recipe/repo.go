package recipe

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/recipedex/internal/domain"
	domrecipe "github.com/kailas-cloud/recipedex/internal/domain/recipe"
	"github.com/kailas-cloud/recipedex/internal/transport/food2fork"
)

// api is the consumer interface for the recipe API (ISP).
type api interface {
	Search(ctx context.Context, token string, page int, query string) (food2fork.SearchPage, error)
	Get(ctx context.Context, token string, id int) (food2fork.RecipeRecord, error)
}

// Repo implements usecase/search.Repository and usecase/recipe.Repository.
type Repo struct {
	api api
}

// New creates a recipe repository.
func New(a api) *Repo {
	return &Repo{api: a}
}

// Search fetches one page of recipes and maps it to domain values.
func (r *Repo) Search(ctx context.Context, token string, page int, query string) ([]domrecipe.Recipe, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidPage, page)
	}

	sp, err := r.api.Search(ctx, token, page, query)
	if err != nil {
		return nil, fmt.Errorf("search page %d: %w", page, err)
	}

	recipes, err := ToDomainList(sp.Results)
	if err != nil {
		return nil, fmt.Errorf("map page %d: %w", page, err)
	}
	return recipes, nil
}

// Get fetches one recipe by id.
func (r *Repo) Get(ctx context.Context, token string, id int) (domrecipe.Recipe, error) {
	rec, err := r.api.Get(ctx, token, id)
	if err != nil {
		return domrecipe.Recipe{}, fmt.Errorf("get recipe %d: %w", id, err)
	}

	out, err := ToDomain(&rec)
	if err != nil {
		return domrecipe.Recipe{}, fmt.Errorf("map recipe %d: %w", id, err)
	}
	return out, nil
}
