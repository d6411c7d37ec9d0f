package recipedex

import (
	"github.com/kailas-cloud/recipedex/internal/domain/category"
	domrecipe "github.com/kailas-cloud/recipedex/internal/domain/recipe"
	"github.com/kailas-cloud/recipedex/internal/domain/search/state"
	"github.com/kailas-cloud/recipedex/internal/usecase/search"
)

// PageSize is the number of recipes loaded per page.
const PageSize = state.PageSize

// Recipe is a recipe as returned by the recipe API.
type Recipe struct {
	ID                  int
	Title               string
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

// Status is the loading status of a session.
type Status string

// Status constants.
const (
	StatusIdle    Status = Status(state.Idle)
	StatusLoading Status = Status(state.Loading)
	StatusLoaded  Status = Status(state.Loaded)
	StatusError   Status = Status(state.Error)
)

// Outcome reports what a search event did.
type Outcome string

// Outcome constants.
const (
	OutcomeOK      Outcome = Outcome(search.OutcomeOK)
	OutcomeError   Outcome = Outcome(search.OutcomeError)
	OutcomeSkipped Outcome = Outcome(search.OutcomeSkipped)
	OutcomeStale   Outcome = Outcome(search.OutcomeStale)
)

// State is a snapshot of a search session.
type State struct {
	Query                  string
	SelectedCategory       string // empty when no category is selected
	CategoryScrollPosition float64
	ListScrollPosition     int
	Page                   int
	Loading                bool
	Status                 Status
	Err                    string // last load failure, empty on success
	Results                []Recipe
}

// Categories returns the known category labels in display order.
func Categories() []string {
	all := category.All()
	out := make([]string, len(all))
	for i, c := range all {
		out[i] = c.Value()
	}
	return out
}

func recipeFromDomain(r *domrecipe.Recipe) Recipe {
	return Recipe{
		ID:                  r.ID(),
		Title:               r.Title(),
		Publisher:           r.Publisher(),
		ImageURL:            r.ImageURL(),
		Rating:              r.Rating(),
		SourceURL:           r.SourceURL(),
		Description:         r.Description(),
		CookingInstructions: r.CookingInstructions(),
		Ingredients:         r.Ingredients(),
		DateAdded:           r.DateAdded(),
		DateUpdated:         r.DateUpdated(),
	}
}

func stateFromDomain(st *state.State) State {
	results := make([]Recipe, len(st.Results))
	for i := range st.Results {
		results[i] = recipeFromDomain(&st.Results[i])
	}
	return State{
		Query:                  st.Query,
		SelectedCategory:       st.SelectedCategory.Value(),
		CategoryScrollPosition: st.CategoryScrollPosition,
		ListScrollPosition:     st.ListScrollPosition,
		Page:                   st.Page,
		Loading:                st.Loading,
		Status:                 Status(st.Status),
		Err:                    st.Err,
		Results:                results,
	}
}
