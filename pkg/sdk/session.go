package recipedex

import (
	"context"
	"time"
)

// Session is a handle to one search session. It is safe for concurrent use.
type Session struct {
	id     string
	client *Client
}

// ID returns the session id, usable with Client.OpenSession.
func (s *Session) ID() string { return s.id }

// State returns the current session snapshot.
func (s *Session) State(ctx context.Context) (State, error) {
	st, err := s.client.sessionSvc.Get(ctx, s.id)
	if err != nil {
		return State{}, err
	}
	return stateFromDomain(&st), nil
}

// Search discards loaded results and fetches page 1 for the current query.
// Load failures are reported in State.Err with OutcomeError; the returned
// error covers only requests that were not run, such as ErrCategoryRejected.
func (s *Session) Search(ctx context.Context) (State, Outcome, error) {
	start := time.Now()
	st, outcome, err := s.client.sessionSvc.Search(ctx, s.id)
	s.client.obs.event("session.search", start, outcome, &st, err)
	if err != nil {
		return State{}, "", err
	}
	return stateFromDomain(&st), Outcome(outcome), nil
}

// NextPage appends the next page once the list has been scrolled to the end
// of what is loaded. Otherwise it returns OutcomeSkipped.
func (s *Session) NextPage(ctx context.Context) (State, Outcome, error) {
	start := time.Now()
	st, outcome, err := s.client.sessionSvc.NextPage(ctx, s.id)
	s.client.obs.event("session.next_page", start, outcome, &st, err)
	if err != nil {
		return State{}, "", err
	}
	return stateFromDomain(&st), Outcome(outcome), nil
}

// SetQuery records the query text without searching.
func (s *Session) SetQuery(ctx context.Context, query string) error {
	_, err := s.client.sessionSvc.SetQuery(ctx, s.id, query)
	return err
}

// SelectCategory selects a category by label, copies the label into the
// query and searches for it. Unknown labels clear the selection. Selecting
// Milk is recorded but the search returns ErrCategoryRejected.
func (s *Session) SelectCategory(ctx context.Context, label string) (State, Outcome, error) {
	start := time.Now()
	st, outcome, err := s.client.sessionSvc.SelectCategory(ctx, s.id, label)
	s.client.obs.event("session.select_category", start, outcome, &st, err)
	if err != nil {
		return State{}, "", err
	}
	return stateFromDomain(&st), Outcome(outcome), nil
}

// SetScrollPosition records the index of the last visible recipe.
func (s *Session) SetScrollPosition(ctx context.Context, pos int) error {
	_, err := s.client.sessionSvc.SetScroll(ctx, s.id, &pos, nil)
	return err
}

// SetCategoryScrollPosition records the category strip offset.
func (s *Session) SetCategoryScrollPosition(ctx context.Context, pos float64) error {
	_, err := s.client.sessionSvc.SetScroll(ctx, s.id, nil, &pos)
	return err
}

// Subscribe streams state snapshots, starting with the current one. A slow
// reader only sees the latest snapshot. The channel is closed when ctx ends
// or the session leaves memory.
func (s *Session) Subscribe(ctx context.Context) (<-chan State, error) {
	in, err := s.client.sessionSvc.Subscribe(ctx, s.id)
	if err != nil {
		return nil, err
	}

	out := make(chan State, 1)
	go func() {
		defer close(out)
		for st := range in {
			snap := stateFromDomain(&st)
			select {
			case <-out:
			default:
			}
			out <- snap
		}
	}()
	return out, nil
}

// Delete ends the session and drops its saved state.
func (s *Session) Delete(ctx context.Context) error {
	start := time.Now()
	err := s.client.sessionSvc.Delete(ctx, s.id)
	s.client.obs.call("session.delete", start, err)
	return err
}
