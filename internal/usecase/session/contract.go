package session

import (
	"context"

	"github.com/kailas-cloud/recipedex/internal/usecase/search"
)

// Store tracks which sessions exist.
type Store interface {
	Create(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}

// SlotsFunc returns the saved state of one session.
type SlotsFunc func(id string) search.SavedState
