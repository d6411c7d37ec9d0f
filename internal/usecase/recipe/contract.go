package recipe

import (
	"context"

	domrecipe "github.com/kailas-cloud/recipedex/internal/domain/recipe"
)

// Repository fetches single recipes.
type Repository interface {
	Get(ctx context.Context, token string, id int) (domrecipe.Recipe, error)
}
