package recipe

import (
	"context"

	"github.com/kailas-cloud/recipedex/internal/transport/food2fork"
)

// mockAPI implements the consumer interface for tests.
type mockAPI struct {
	searchFn func(ctx context.Context, token string, page int, query string) (food2fork.SearchPage, error)
	getFn    func(ctx context.Context, token string, id int) (food2fork.RecipeRecord, error)
}

func (m *mockAPI) Search(ctx context.Context, token string, page int, query string) (food2fork.SearchPage, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, token, page, query)
	}
	return food2fork.SearchPage{}, nil
}

func (m *mockAPI) Get(ctx context.Context, token string, id int) (food2fork.RecipeRecord, error) {
	if m.getFn != nil {
		return m.getFn(ctx, token, id)
	}
	return food2fork.RecipeRecord{}, nil
}

func record(id int, title string) food2fork.RecipeRecord {
	return food2fork.RecipeRecord{PK: &id, Title: &title}
}
