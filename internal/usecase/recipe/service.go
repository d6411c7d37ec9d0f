package recipe

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/recipedex/internal/domain"
	domrecipe "github.com/kailas-cloud/recipedex/internal/domain/recipe"
)

// Service reads recipe details.
type Service struct {
	repo    Repository
	token   string
	timeout time.Duration
}

// New creates a recipe service. A non-positive timeout disables the per-call bound.
func New(repo Repository, token string, timeout time.Duration) *Service {
	return &Service{repo: repo, token: token, timeout: timeout}
}

// Get returns one recipe by id.
func (s *Service) Get(ctx context.Context, id int) (domrecipe.Recipe, error) {
	if id <= 0 {
		return domrecipe.Recipe{}, fmt.Errorf("recipe id %d: %w", id, domain.ErrNotFound)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	r, err := s.repo.Get(ctx, s.token, id)
	if err != nil {
		return domrecipe.Recipe{}, fmt.Errorf("get recipe: %w", err)
	}
	return r, nil
}
