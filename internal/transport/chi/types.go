package chi

import (
	"github.com/kailas-cloud/recipedex/internal/domain/recipe"
	"github.com/kailas-cloud/recipedex/internal/domain/search/state"
)

// ErrorCode is a machine-readable error code.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeValidationFailed ErrorCode = "validation_failed"
	ErrorCodeUnauthorized     ErrorCode = "unauthorized"
	ErrorCodeNotFound         ErrorCode = "not_found"
	ErrorCodeSessionNotFound  ErrorCode = "session_not_found"
	ErrorCodeRecipeNotFound   ErrorCode = "recipe_not_found"
	ErrorCodeCategoryRejected ErrorCode = "category_rejected"
	ErrorCodeRateLimited      ErrorCode = "rate_limited"
	ErrorCodeUpstreamError    ErrorCode = "upstream_error"
	ErrorCodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// RecipeResponse is a recipe on the wire.
type RecipeResponse struct {
	ID                  int      `json:"id"`
	Title               string   `json:"title"`
	Publisher           string   `json:"publisher,omitempty"`
	ImageURL            string   `json:"featured_image,omitempty"`
	Rating              int      `json:"rating"`
	SourceURL           string   `json:"source_url,omitempty"`
	Description         string   `json:"description,omitempty"`
	CookingInstructions string   `json:"cooking_instructions,omitempty"`
	Ingredients         []string `json:"ingredients"`
	DateAdded           string   `json:"date_added,omitempty"`
	DateUpdated         string   `json:"date_updated,omitempty"`
}

// SessionResponse is a search session snapshot on the wire.
type SessionResponse struct {
	ID                     string           `json:"id"`
	Query                  string           `json:"query"`
	SelectedCategory       *string          `json:"selected_category"`
	CategoryScrollPosition float64          `json:"category_scroll_position"`
	ListScrollPosition     int              `json:"list_scroll_position"`
	Page                   int              `json:"page"`
	Loading                bool             `json:"loading"`
	Status                 string           `json:"status"`
	Error                  string           `json:"error,omitempty"`
	Outcome                string           `json:"outcome,omitempty"`
	Results                []RecipeResponse `json:"results"`
}

// CategoryListResponse lists the selectable categories.
type CategoryListResponse struct {
	Items []string `json:"items"`
}

// HealthResponse reports component health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// QueryRequest is the body of PUT /sessions/{session}/query.
type QueryRequest struct {
	Query string `json:"query"`
}

// CategoryRequest is the body of PUT /sessions/{session}/category.
type CategoryRequest struct {
	Category string `json:"category"`
}

// ScrollRequest is the body of PUT /sessions/{session}/scroll. Omitted
// positions are left unchanged.
type ScrollRequest struct {
	ListPosition     *int     `json:"list_position"`
	CategoryPosition *float64 `json:"category_position"`
}

func recipeToResponse(r recipe.Recipe) RecipeResponse {
	return RecipeResponse{
		ID:                  r.ID(),
		Title:               r.Title(),
		Publisher:           r.Publisher(),
		ImageURL:            r.ImageURL(),
		Rating:              r.Rating(),
		SourceURL:           r.SourceURL(),
		Description:         r.Description(),
		CookingInstructions: r.CookingInstructions(),
		Ingredients:         nonNil(r.Ingredients()),
		DateAdded:           r.DateAdded(),
		DateUpdated:         r.DateUpdated(),
	}
}

func sessionToResponse(id string, st *state.State) SessionResponse {
	results := make([]RecipeResponse, len(st.Results))
	for i, r := range st.Results {
		results[i] = recipeToResponse(r)
	}

	var selected *string
	if st.HasCategory() {
		v := st.SelectedCategory.Value()
		selected = &v
	}

	return SessionResponse{
		ID:                     id,
		Query:                  st.Query,
		SelectedCategory:       selected,
		CategoryScrollPosition: st.CategoryScrollPosition,
		ListScrollPosition:     st.ListScrollPosition,
		Page:                   st.Page,
		Loading:                st.Loading,
		Status:                 string(st.Status),
		Error:                  st.Err,
		Results:                results,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
