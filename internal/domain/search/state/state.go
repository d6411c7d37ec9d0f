package state

import (
	"slices"

	"github.com/kailas-cloud/recipedex/internal/domain/category"
	"github.com/kailas-cloud/recipedex/internal/domain/recipe"
)

// PageSize is the number of recipes the API returns per page.
const PageSize = 30

// Status is the pagination state machine position.
type Status string

// Status constants.
const (
	Idle    Status = "idle"
	Loading Status = "loading"
	Loaded  Status = "loaded"
	Error   Status = "error"
)

// State is a point-in-time snapshot of a search session.
type State struct {
	Query                  string
	SelectedCategory       category.Category // empty when no category is selected
	CategoryScrollPosition float64
	ListScrollPosition     int
	Page                   int
	Loading                bool
	Status                 Status
	Results                []recipe.Recipe
	Err                    string
}

// Initial returns the state of a fresh session.
func Initial() State {
	return State{Page: 1, Status: Idle}
}

// HasCategory reports whether a category filter is selected.
func (s *State) HasCategory() bool { return s.SelectedCategory != "" }

// Clone returns a copy that shares no mutable memory with s.
func (s *State) Clone() State {
	c := *s
	c.Results = slices.Clone(s.Results)
	return c
}

// NextPageReady reports whether the list was scrolled past everything loaded
// for the given page count.
func NextPageReady(listPosition, page int) bool {
	return listPosition+1 >= page*PageSize
}
