package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/recipedex/internal/domain"
	"github.com/kailas-cloud/recipedex/internal/domain/category"
	"github.com/kailas-cloud/recipedex/internal/domain/search/state"
	"github.com/kailas-cloud/recipedex/internal/metrics"
	"github.com/kailas-cloud/recipedex/internal/usecase/search"
)

const (
	defaultMaxActive      = 1024
	defaultRestoreTimeout = time.Minute
)

// Config tunes the session service.
type Config struct {
	Token        string
	MaxActive    int
	CallTimeout  time.Duration
	PageRollback bool
}

// Service owns the search controllers of all sessions. Controllers live in a
// bounded LRU; an evicted session is rebuilt from its saved slots on next use.
type Service struct {
	recipes search.Repository
	store   Store
	slots   SlotsFunc
	cfg     Config
	logger  *zap.Logger

	active *lru.Cache[string, *search.Controller]
	group  singleflight.Group
}

// New creates a session service.
func New(recipes search.Repository, store Store, slots SlotsFunc, cfg Config, logger *zap.Logger) (*Service, error) {
	if cfg.MaxActive <= 0 {
		cfg.MaxActive = defaultMaxActive
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	active, err := lru.NewWithEvict(cfg.MaxActive, func(_ string, c *search.Controller) {
		c.Close()
		metrics.ActiveSessions.Dec()
	})
	if err != nil {
		return nil, fmt.Errorf("create session cache: %w", err)
	}

	return &Service{
		recipes: recipes,
		store:   store,
		slots:   slots,
		cfg:     cfg,
		logger:  logger,
		active:  active,
	}, nil
}

// Create starts a new session and runs its first search.
func (s *Service) Create(ctx context.Context) (string, state.State, error) {
	id := uuid.NewString()
	if err := s.store.Create(ctx, id); err != nil {
		return "", state.State{}, fmt.Errorf("create session: %w", err)
	}

	c, err := s.build(ctx, id)
	if err != nil {
		return "", state.State{}, err
	}
	s.add(id, c)

	s.logger.Debug("Session created", zap.String("session", id))
	return id, c.State(), nil
}

// Get returns the current state of a session.
func (s *Service) Get(ctx context.Context, id string) (state.State, error) {
	c, err := s.controller(ctx, id)
	if err != nil {
		return state.State{}, err
	}
	return c.State(), nil
}

// Delete ends a session and drops its saved state.
func (s *Service) Delete(ctx context.Context, id string) error {
	ok, err := s.store.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if !ok && !s.active.Contains(id) {
		return domain.ErrSessionNotFound
	}

	if c, ok := s.active.Peek(id); ok {
		c.Detach()
	}
	s.active.Remove(id)
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Search runs a new search for the session query. Searching while the Milk
// category is selected is rejected before the controller sees it.
func (s *Service) Search(ctx context.Context, id string) (state.State, search.Outcome, error) {
	c, err := s.controller(ctx, id)
	if err != nil {
		return state.State{}, "", err
	}
	return s.search(ctx, c)
}

// NextPage loads the next page when the list has been scrolled far enough.
func (s *Service) NextPage(ctx context.Context, id string) (state.State, search.Outcome, error) {
	c, err := s.controller(ctx, id)
	if err != nil {
		return state.State{}, "", err
	}
	outcome := c.NextPage(ctx)
	return c.State(), outcome, nil
}

// SetQuery records the query text without searching.
func (s *Service) SetQuery(ctx context.Context, id, query string) (state.State, error) {
	c, err := s.controller(ctx, id)
	if err != nil {
		return state.State{}, err
	}
	c.OnQueryChanged(ctx, query)
	return c.State(), nil
}

// SelectCategory selects a category by label, copies it into the query and
// searches for it. Selecting Milk is recorded but the search is rejected.
func (s *Service) SelectCategory(ctx context.Context, id, label string) (state.State, search.Outcome, error) {
	c, err := s.controller(ctx, id)
	if err != nil {
		return state.State{}, "", err
	}
	c.OnSelectedCategoryChanged(ctx, label)
	return s.search(ctx, c)
}

// SetScroll records scroll positions. Nil positions are left unchanged.
func (s *Service) SetScroll(ctx context.Context, id string, listPos *int, categoryPos *float64) (state.State, error) {
	c, err := s.controller(ctx, id)
	if err != nil {
		return state.State{}, err
	}
	if listPos != nil {
		c.OnChangeRecipeScrollPosition(ctx, *listPos)
	}
	if categoryPos != nil {
		c.OnChangeCategoryScrollPosition(*categoryPos)
	}
	return c.State(), nil
}

// Subscribe streams state snapshots of a session until ctx is done or the
// session leaves memory.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan state.State, error) {
	c, err := s.controller(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.Subscribe(ctx), nil
}

// Active returns the number of sessions held in memory.
func (s *Service) Active() int {
	return s.active.Len()
}

// Close releases all in-memory sessions. Saved state is kept.
func (s *Service) Close() {
	s.active.Purge()
}

func (s *Service) search(ctx context.Context, c *search.Controller) (state.State, search.Outcome, error) {
	if c.State().SelectedCategory == category.Milk {
		return state.State{}, "", fmt.Errorf("search %s: %w", category.Milk, domain.ErrCategoryRejected)
	}
	outcome := c.NewSearch(ctx)
	return c.State(), outcome, nil
}

func (s *Service) controller(ctx context.Context, id string) (*search.Controller, error) {
	if c, ok := s.active.Get(id); ok {
		return c, nil
	}

	v, err, shared := s.group.Do(id, func() (any, error) {
		if c, ok := s.active.Get(id); ok {
			return c, nil
		}

		// Shared by every waiting caller, so not bound to the first one.
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaultRestoreTimeout)
		defer cancel()

		ok, err := s.store.Exists(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("lookup session: %w", err)
		}
		if !ok {
			return nil, domain.ErrSessionNotFound
		}

		c, err := s.build(ctx, id)
		if err != nil {
			return nil, err
		}
		s.add(id, c)
		s.logger.Info("Session restored", zap.String("session", id), zap.Int("page", c.State().Page))
		return c, nil
	})
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			s.logger.Error("Failed to restore session", zap.String("session", id), zap.Error(err))
		}
		return nil, err
	}
	if shared {
		s.logger.Debug("Joined in-flight session restore", zap.String("session", id))
	}
	return v.(*search.Controller), nil
}

// build creates a controller from saved slots and runs its first event.
func (s *Service) build(ctx context.Context, id string) (*search.Controller, error) {
	c, err := search.New(ctx, s.recipes, s.cfg.Token, s.slots(id),
		search.WithLogger(s.logger.With(zap.String("session", id))),
		search.WithCallTimeout(s.cfg.CallTimeout),
		search.WithPageRollback(s.cfg.PageRollback),
	)
	if err != nil {
		return nil, fmt.Errorf("build session %s: %w", id, err)
	}
	c.Start(ctx)
	return c, nil
}

func (s *Service) add(id string, c *search.Controller) {
	if !s.active.Contains(id) {
		metrics.ActiveSessions.Inc()
	}
	s.active.Add(id, c)
}
