package recipedex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/recipedex/internal/db"
	"github.com/kailas-cloud/recipedex/internal/db/memory"
	dbRedis "github.com/kailas-cloud/recipedex/internal/db/redis"
	domrecipe "github.com/kailas-cloud/recipedex/internal/domain/recipe"
	"github.com/kailas-cloud/recipedex/internal/domain/search/state"
	reciperepo "github.com/kailas-cloud/recipedex/internal/repository/recipe"
	sessionrepo "github.com/kailas-cloud/recipedex/internal/repository/session"
	"github.com/kailas-cloud/recipedex/internal/transport/food2fork"
	healthuc "github.com/kailas-cloud/recipedex/internal/usecase/health"
	recipeuc "github.com/kailas-cloud/recipedex/internal/usecase/recipe"
	"github.com/kailas-cloud/recipedex/internal/usecase/search"
	sessionuc "github.com/kailas-cloud/recipedex/internal/usecase/session"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultCallTimeout      = 10 * time.Second
	defaultSessionTTL       = 24 * time.Hour
)

// Internal interfaces, swapped in tests.
type sessionUseCase interface {
	Create(ctx context.Context) (string, state.State, error)
	Get(ctx context.Context, id string) (state.State, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, id string) (state.State, search.Outcome, error)
	NextPage(ctx context.Context, id string) (state.State, search.Outcome, error)
	SetQuery(ctx context.Context, id, query string) (state.State, error)
	SelectCategory(ctx context.Context, id, label string) (state.State, search.Outcome, error)
	SetScroll(ctx context.Context, id string, listPos *int, categoryPos *float64) (state.State, error)
	Subscribe(ctx context.Context, id string) (<-chan state.State, error)
	Close()
}

type recipeUseCase interface {
	Get(ctx context.Context, id int) (domrecipe.Recipe, error)
}

// Client is the recipedex SDK entry point.
type Client struct {
	store      db.Store
	sessionSvc sessionUseCase
	recipeSvc  recipeUseCase
	healthSvc  healthUseCase
	obs        *observer
}

// New creates a Client. Session state lives in memory unless WithValkey or
// WithRedis is given. The provided context is used for the store readiness
// check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		driver:  "memory",
		timeout: defaultCallTimeout,
		ttl:     defaultSessionTTL,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.baseURL == "" {
		return nil, errors.New("recipedex: recipe API base URL required (use WithBaseURL)")
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("recipedex: session store not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}

	c, err := wireClient(store, cfg, obs)
	if err != nil {
		store.Close()
		return nil, err
	}
	return c, nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "memory":
		return memory.NewStore(memory.Config{TTL: cfg.ttl}), nil
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("recipedex: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("recipedex: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	api := food2fork.NewClient(&food2fork.Config{
		BaseURL:    cfg.baseURL,
		Timeout:    cfg.timeout,
		RatePerSec: cfg.ratePerSec,
		Burst:      cfg.burst,
		HTTPClient: cfg.httpClient,
	})
	recipes := reciperepo.New(api)
	sessions := sessionrepo.New(store, cfg.ttl)

	sessionSvc, err := sessionuc.New(recipes, sessions,
		func(id string) search.SavedState { return sessions.Slots(id) },
		sessionuc.Config{
			Token:        cfg.token,
			CallTimeout:  cfg.timeout,
			PageRollback: cfg.pageRollback,
		},
		zap.NewNop(),
	)
	if err != nil {
		return nil, fmt.Errorf("recipedex: %w", err)
	}

	return &Client{
		store:      store,
		sessionSvc: sessionSvc,
		recipeSvc:  recipeuc.New(recipes, cfg.token, cfg.timeout),
		healthSvc:  healthuc.New(store, api, cfg.token),
		obs:        obs,
	}, nil
}

// NewSession starts a session and loads its first page.
func (c *Client) NewSession(ctx context.Context) (*Session, error) {
	start := time.Now()
	id, _, err := c.sessionSvc.Create(ctx)
	c.obs.call("session.create", start, err)
	if err != nil {
		return nil, err
	}
	return &Session{id: id, client: c}, nil
}

// OpenSession resumes a session by id. A session no longer in memory is
// rebuilt from its saved state, re-fetching the pages it had loaded.
func (c *Client) OpenSession(ctx context.Context, id string) (*Session, error) {
	start := time.Now()
	_, err := c.sessionSvc.Get(ctx, id)
	c.obs.call("session.open", start, err)
	if err != nil {
		return nil, err
	}
	return &Session{id: id, client: c}, nil
}

// Recipe fetches one recipe by id.
func (c *Client) Recipe(ctx context.Context, id int) (Recipe, error) {
	start := time.Now()
	r, err := c.recipeSvc.Get(ctx, id)
	c.obs.call("recipe.get", start, err)
	if err != nil {
		return Recipe{}, err
	}
	return recipeFromDomain(&r), nil
}

// Close releases in-memory sessions and the store connection.
func (c *Client) Close() {
	c.sessionSvc.Close()
	if c.store != nil {
		c.store.Close()
	}
}
