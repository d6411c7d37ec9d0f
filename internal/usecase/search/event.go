package search

// Event is an externally triggered pagination event.
type Event int

// Events.
const (
	NewSearchEvent Event = iota
	NextPageEvent
	RestoreStateEvent
)

func (e Event) String() string {
	switch e {
	case NewSearchEvent:
		return "new_search"
	case NextPageEvent:
		return "next_page"
	case RestoreStateEvent:
		return "restore_state"
	default:
		return "unknown"
	}
}

// Outcome tells the caller what an event did. Errors themselves are
// recorded on the state.
type Outcome string

// Outcomes.
const (
	OutcomeOK      Outcome = "ok"
	OutcomeError   Outcome = "error"
	OutcomeSkipped Outcome = "skipped"
	OutcomeStale   Outcome = "stale"
)

// Saved-state slot names.
const (
	SlotPage             = "recipe.state.page.key"
	SlotQuery            = "recipe.state.query.key"
	SlotListPosition     = "recipe.state.query.list_position"
	SlotSelectedCategory = "recipe.state.query.selected_category"
)
