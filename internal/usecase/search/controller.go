package search

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/recipedex/internal/domain"
	"github.com/kailas-cloud/recipedex/internal/domain/category"
	"github.com/kailas-cloud/recipedex/internal/domain/recipe"
	"github.com/kailas-cloud/recipedex/internal/domain/search/state"
	"github.com/kailas-cloud/recipedex/internal/metrics"
)

// Controller is the pagination state machine of one search session.
// State mutations are serialized by mu. Repository calls and slot writes run
// outside it; slot writes are queued under mu and applied in order.
type Controller struct {
	repo     Repository
	token    string
	saved    SavedState
	logger   *zap.Logger
	timeout  time.Duration
	rollback bool

	mu      sync.Mutex
	st      state.State
	gen     uint64
	subs    map[uint64]chan state.State
	nextSub uint64
	closed  bool
	quit    chan struct{}

	pending  []slotWrite
	detached bool

	// persistMu orders flushes so queued writes reach the store in sequence.
	persistMu sync.Mutex
}

type slotWrite struct {
	slot  string
	value string
	clear bool
}

// New creates a controller and hydrates it from the saved slots.
// Unparseable slot values are logged and ignored.
func New(
	ctx context.Context, repo Repository, token string, saved SavedState, opts ...Option,
) (*Controller, error) {
	c := &Controller{
		repo:    repo,
		token:   token,
		saved:   saved,
		logger:  zap.NewNop(),
		timeout: defaultCallTimeout,
		st:      state.Initial(),
		subs:    make(map[uint64]chan state.State),
		quit:    make(chan struct{}),
	}
	for _, o := range opts {
		o(c)
	}

	slots, err := saved.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load saved state: %w", err)
	}
	c.hydrate(slots)
	return c, nil
}

func (c *Controller) hydrate(slots map[string]string) {
	if v, ok := slots[SlotPage]; ok {
		if p, err := strconv.Atoi(v); err == nil && p >= 1 {
			c.st.Page = p
		} else {
			c.logger.Warn("Ignoring saved page", zap.String("value", v))
		}
	}
	if v, ok := slots[SlotQuery]; ok {
		c.st.Query = v
	}
	if v, ok := slots[SlotListPosition]; ok {
		if p, err := strconv.Atoi(v); err == nil && p >= 0 {
			c.st.ListScrollPosition = p
		} else {
			c.logger.Warn("Ignoring saved list position", zap.String("value", v))
		}
	}
	if v, ok := slots[SlotSelectedCategory]; ok {
		if cat, found := category.Parse(v); found {
			c.st.SelectedCategory = cat
		} else {
			c.logger.Warn("Ignoring saved category", zap.String("value", v))
		}
	}
}

// Start runs the first event of a session: RestoreState when a list position
// was restored, otherwise NewSearch.
func (c *Controller) Start(ctx context.Context) Outcome {
	c.mu.Lock()
	restore := c.st.ListScrollPosition != 0
	c.mu.Unlock()

	if restore {
		return c.RestoreState(ctx)
	}
	return c.NewSearch(ctx)
}

// Trigger dispatches an event.
func (c *Controller) Trigger(ctx context.Context, e Event) Outcome {
	switch e {
	case NewSearchEvent:
		return c.NewSearch(ctx)
	case NextPageEvent:
		return c.NextPage(ctx)
	case RestoreStateEvent:
		return c.RestoreState(ctx)
	default:
		c.logger.Warn("Unknown search event", zap.Int("event", int(e)))
		return OutcomeSkipped
	}
}

// NewSearch resets pagination and fetches page 1 of the current query.
// It supersedes any event still in flight.
func (c *Controller) NewSearch(ctx context.Context) Outcome {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.st.Loading = true
	c.st.Status = state.Loading
	c.st.Err = ""
	c.st.Results = nil
	c.setPage(1)
	c.setListPosition(0)
	if c.st.HasCategory() && c.st.SelectedCategory.Value() != c.st.Query {
		c.setCategory("")
	}
	query := c.st.Query
	c.publish()
	c.mu.Unlock()
	c.flush(ctx)

	recipes, err := c.fetch(ctx, 1, query)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return c.done(NewSearchEvent, OutcomeStale, nil)
	}
	if err != nil {
		c.fail(err)
		return c.done(NewSearchEvent, OutcomeError, err)
	}
	c.st.Results = recipes
	c.st.Loading = false
	c.st.Status = state.Loaded
	c.publish()
	return c.done(NewSearchEvent, OutcomeOK, nil)
}

// NextPage fetches and appends the next page once the list has been scrolled
// past everything loaded. It is ignored while another event is loading.
func (c *Controller) NextPage(ctx context.Context) Outcome {
	c.mu.Lock()
	if c.st.Loading || !state.NextPageReady(c.st.ListScrollPosition, c.st.Page) {
		c.mu.Unlock()
		return c.done(NextPageEvent, OutcomeSkipped, nil)
	}
	gen := c.gen
	prev := c.st.Page
	c.st.Loading = true
	c.st.Status = state.Loading
	c.st.Err = ""
	c.setPage(prev + 1)
	page, query := c.st.Page, c.st.Query
	c.publish()
	c.mu.Unlock()
	c.flush(ctx)

	recipes, err := c.fetch(ctx, page, query)

	defer c.flush(ctx)
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return c.done(NextPageEvent, OutcomeStale, nil)
	}
	if err != nil {
		if c.rollback {
			c.setPage(prev)
		}
		c.fail(err)
		return c.done(NextPageEvent, OutcomeError, err)
	}
	c.st.Results = append(c.st.Results, recipes...)
	c.st.Loading = false
	c.st.Status = state.Loaded
	c.publish()
	return c.done(NextPageEvent, OutcomeOK, nil)
}

// RestoreState re-fetches pages 1..page sequentially and replaces the results
// with their concatenation.
func (c *Controller) RestoreState(ctx context.Context) Outcome {
	c.mu.Lock()
	gen := c.gen
	c.st.Loading = true
	c.st.Status = state.Loading
	c.st.Err = ""
	pages, query := c.st.Page, c.st.Query
	c.publish()
	c.mu.Unlock()

	var (
		all []recipe.Recipe
		err error
	)
	for p := 1; p <= pages; p++ {
		var recipes []recipe.Recipe
		recipes, err = c.fetch(ctx, p, query)
		if err != nil {
			break
		}
		all = append(all, recipes...)
		if !c.current(gen) {
			break
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return c.done(RestoreStateEvent, OutcomeStale, nil)
	}
	if err != nil {
		c.fail(err)
		return c.done(RestoreStateEvent, OutcomeError, err)
	}
	c.st.Results = all
	c.st.Loading = false
	c.st.Status = state.Loaded
	c.publish()
	return c.done(RestoreStateEvent, OutcomeOK, nil)
}

// OnQueryChanged records the query text.
func (c *Controller) OnQueryChanged(ctx context.Context, query string) {
	defer c.flush(ctx)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setQuery(query)
	c.publish()
}

// OnSelectedCategoryChanged resolves label against the known categories and
// copies it into the query. Unknown labels clear the selection.
func (c *Controller) OnSelectedCategoryChanged(ctx context.Context, label string) {
	cat, ok := category.Parse(label)
	if !ok {
		c.logger.Debug("Unknown category label", zap.String("label", label))
	}

	defer c.flush(ctx)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setCategory(cat)
	c.setQuery(label)
	c.publish()
}

// OnChangeCategoryScrollPosition records the category strip offset.
func (c *Controller) OnChangeCategoryScrollPosition(pos float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.st.CategoryScrollPosition = pos
	c.publish()
}

// OnChangeRecipeScrollPosition records the index of the last visible recipe.
func (c *Controller) OnChangeRecipeScrollPosition(ctx context.Context, pos int) {
	defer c.flush(ctx)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setListPosition(pos)
	c.publish()
}

// State returns a snapshot of the current state.
func (c *Controller) State() state.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st.Clone()
}

// Subscribe returns a channel that receives the current state and then every
// change. Slow readers only see the latest snapshot. The channel is closed
// when ctx ends or the controller is closed.
func (c *Controller) Subscribe(ctx context.Context) <-chan state.State {
	ch := make(chan state.State, 1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		close(ch)
		return ch
	}
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	ch <- c.st.Clone()
	c.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
		case <-c.quit:
			return
		}
		c.mu.Lock()
		defer c.mu.Unlock()
		if sub, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub)
		}
	}()
	return ch
}

// Close ends all subscriptions. The controller stays usable and keeps
// saving its slots. Close is idempotent.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.quit)
	for id, ch := range c.subs {
		delete(c.subs, id)
		close(ch)
	}
}

// Detach closes the controller and stops all slot writes, including those
// queued by events still in flight. It returns once no write is in progress,
// so the saved slots can be deleted afterwards without being recreated.
func (c *Controller) Detach() {
	c.Close()

	c.mu.Lock()
	c.detached = true
	c.pending = nil
	c.mu.Unlock()

	c.persistMu.Lock()
	c.persistMu.Unlock() //nolint:staticcheck // waits for a running flush
}

func (c *Controller) current(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gen == c.gen
}

func (c *Controller) fetch(ctx context.Context, page int, query string) ([]recipe.Recipe, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	recipes, err := c.repo.Search(callCtx, c.token, page, query)
	if err != nil {
		if callCtx.Err() != nil && !errors.Is(err, domain.ErrNetwork) {
			err = fmt.Errorf("%w: %w", domain.ErrNetwork, err)
		}
		return nil, err
	}
	metrics.SearchPageRecipes.Observe(float64(len(recipes)))
	return recipes, nil
}

// fail records err on the state. Results are left as they are. Caller holds mu.
func (c *Controller) fail(err error) {
	c.st.Loading = false
	c.st.Status = state.Error
	c.st.Err = err.Error()
	c.publish()
}

func (c *Controller) done(e Event, o Outcome, err error) Outcome {
	metrics.SearchEventsTotal.WithLabelValues(e.String(), string(o)).Inc()
	switch o {
	case OutcomeError:
		c.logger.Warn("Search event failed",
			zap.String("event", e.String()),
			zap.Error(err),
		)
	case OutcomeStale:
		c.logger.Debug("Discarded stale search result", zap.String("event", e.String()))
	}
	return o
}

// publish hands the latest snapshot to every subscriber, replacing any
// snapshot not yet read. Caller holds mu.
func (c *Controller) publish() {
	if len(c.subs) == 0 {
		return
	}
	snap := c.st.Clone()
	for _, ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}

// Slot setters. Caller holds mu. Writes are queued for flush.

func (c *Controller) setPage(page int) {
	c.st.Page = page
	c.queue(slotWrite{slot: SlotPage, value: strconv.Itoa(page)})
}

func (c *Controller) setQuery(query string) {
	c.st.Query = query
	c.queue(slotWrite{slot: SlotQuery, value: query})
}

func (c *Controller) setListPosition(pos int) {
	c.st.ListScrollPosition = pos
	c.queue(slotWrite{slot: SlotListPosition, value: strconv.Itoa(pos)})
}

func (c *Controller) setCategory(cat category.Category) {
	c.st.SelectedCategory = cat
	if cat == "" {
		c.queue(slotWrite{slot: SlotSelectedCategory, clear: true})
		return
	}
	c.queue(slotWrite{slot: SlotSelectedCategory, value: cat.Value()})
}

func (c *Controller) queue(w slotWrite) {
	if c.detached {
		return
	}
	c.pending = append(c.pending, w)
}

// flush writes queued slots without holding mu. Persistence failures are
// logged only.
func (c *Controller) flush(ctx context.Context) {
	c.persistMu.Lock()
	defer c.persistMu.Unlock()

	c.mu.Lock()
	writes := c.pending
	c.pending = nil
	detached := c.detached
	c.mu.Unlock()
	if detached {
		return
	}

	for _, w := range writes {
		var err error
		if w.clear {
			err = c.saved.Clear(ctx, w.slot)
		} else {
			err = c.saved.Set(ctx, w.slot, w.value)
		}
		if err != nil {
			c.logger.Warn("Failed to save slot", zap.String("slot", w.slot), zap.Error(err))
		}
	}
}
