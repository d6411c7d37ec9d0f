package food2fork

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kailas-cloud/recipedex/internal/domain"
	"github.com/kailas-cloud/recipedex/internal/metrics"
	"github.com/kailas-cloud/recipedex/internal/version"
)

const (
	opSearch = "search"
	opGet    = "get"
	opPing   = "ping"

	maxErrorBody = 4 << 10
)

// Client talks to the food2fork-compatible recipe API.
type Client struct {
	http    *http.Client
	baseURL string
	timeout time.Duration
	limiter *rate.Limiter
	logger  *zap.Logger
}

// Config holds the recipe API client settings.
type Config struct {
	BaseURL    string
	Timeout    time.Duration // per call, 0 = 10s
	RatePerSec float64       // 0 = unlimited
	Burst      int
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// NewClient creates a recipe API client.
func NewClient(cfg *Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	limit := rate.Inf
	if cfg.RatePerSec > 0 {
		limit = rate.Limit(cfg.RatePerSec)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		http:    hc,
		baseURL: cfg.BaseURL,
		timeout: timeout,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
	}
}

// Search fetches one page of recipes matching query.
func (c *Client) Search(ctx context.Context, token string, page int, query string) (SearchPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("query", query)

	var out SearchPage
	if err := c.getJSON(ctx, opSearch, token, "search/", params, &out); err != nil {
		return SearchPage{}, err
	}
	return out, nil
}

// Get fetches a single recipe by id.
func (c *Client) Get(ctx context.Context, token string, id int) (RecipeRecord, error) {
	params := url.Values{}
	params.Set("id", strconv.Itoa(id))

	var out RecipeRecord
	if err := c.getJSON(ctx, opGet, token, "get/", params, &out); err != nil {
		return RecipeRecord{}, err
	}
	return out, nil
}

// Ping verifies API availability with a cheap first-page search.
func (c *Client) Ping(ctx context.Context, token string) error {
	params := url.Values{}
	params.Set("page", "1")
	params.Set("query", "")

	if err := c.getJSON(ctx, opPing, token, "search/", params, nil); err != nil {
		return fmt.Errorf("ping recipe api: %w", err)
	}
	return nil
}

// getJSON runs one GET under the per-call timeout and decodes the body into out
// (nil skips decoding). Transport failures wrap domain.ErrNetwork, undecodable
// bodies wrap domain.ErrMapping.
func (c *Client) getJSON(
	ctx context.Context, op, token, path string, params url.Values, out any,
) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		c.recordError(op, "rate_limit")
		return fmt.Errorf("recipe api %s: %w: %w", op, domain.ErrNetwork, errors.Join(domain.ErrRateLimited, err))
	}

	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return fmt.Errorf("recipe api %s: build url: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return fmt.Errorf("recipe api %s: build request: %w", op, err)
	}
	req.Header.Set("Authorization", "Token "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)
	metrics.UpstreamRequestDuration.WithLabelValues(op).Observe(duration.Seconds())

	if err != nil {
		c.recordError(op, transportErrorType(err))
		return fmt.Errorf("recipe api %s: %w: %w", op, domain.ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	metrics.UpstreamRequestsTotal.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.recordError(op, "status")
		c.logger.Warn("recipe api returned error status",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
			zap.String("detail", extractDetail(body)),
		)
		return domain.NewUpstreamError(op, resp.StatusCode)
	}

	c.logger.Debug("recipe api request completed",
		zap.String("op", op),
		zap.String("query", params.Encode()),
		zap.Duration("duration", duration),
	)

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if ctx.Err() != nil {
			c.recordError(op, "timeout")
			return fmt.Errorf("recipe api %s: read body: %w: %w", op, domain.ErrNetwork, err)
		}
		c.recordError(op, "decode")
		return fmt.Errorf("recipe api %s: decode: %w: %w", op, domain.ErrMapping, err)
	}
	return nil
}

func (c *Client) recordError(op, kind string) {
	metrics.UpstreamErrorsTotal.WithLabelValues(op, kind).Inc()
}

func transportErrorType(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	return "transport"
}

// extractDetail extracts the "detail" field from a JSON error body (REST framework error format).
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return string(body)
}
