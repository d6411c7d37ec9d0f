package search

import (
	"context"

	"github.com/kailas-cloud/recipedex/internal/domain/recipe"
)

// Repository fetches pages of recipes.
type Repository interface {
	Search(ctx context.Context, token string, page int, query string) ([]recipe.Recipe, error)
}

// SavedState is the key-value capability the controller persists its slots to.
type SavedState interface {
	Load(ctx context.Context) (map[string]string, error)
	Set(ctx context.Context, slot, value string) error
	Clear(ctx context.Context, slot string) error
}
