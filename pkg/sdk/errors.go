package recipedex

import "github.com/kailas-cloud/recipedex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound         = domain.ErrNotFound
	ErrNetwork          = domain.ErrNetwork
	ErrMapping          = domain.ErrMapping
	ErrRateLimited      = domain.ErrRateLimited
	ErrSessionNotFound  = domain.ErrSessionNotFound
	ErrCategoryRejected = domain.ErrCategoryRejected
)
