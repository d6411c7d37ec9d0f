package recipedex

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	baseURL    string
	token      string
	timeout    time.Duration
	httpClient *http.Client
	ratePerSec float64
	burst      int

	driver   string // "memory", "valkey" or "redis"
	addrs    []string
	password string
	ttl      time.Duration

	pageRollback bool

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithBaseURL sets the recipe API base URL. Required.
func WithBaseURL(u string) Option {
	return optionFunc(func(c *clientConfig) {
		c.baseURL = u
	})
}

// WithToken sets the recipe API token sent on every request.
func WithToken(token string) Option {
	return optionFunc(func(c *clientConfig) {
		c.token = token
	})
}

// WithTimeout bounds each recipe API call. Default: 10s.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithHTTPClient replaces the HTTP client used for the recipe API.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithRateLimit caps outgoing recipe API requests. Default: unlimited.
func WithRateLimit(perSec float64, burst int) Option {
	return optionFunc(func(c *clientConfig) {
		c.ratePerSec = perSec
		c.burst = burst
	})
}

// WithValkey persists session state in a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis persists session state in a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithSessionTTL sets how long idle session state is kept. Default: 24h.
func WithSessionTTL(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.ttl = d
	})
}

// WithPageRollback makes a failed NextPage restore the previous page number,
// so the failed page is requested again next time. Off by default.
func WithPageRollback(enabled bool) Option {
	return optionFunc(func(c *clientConfig) {
		c.pageRollback = enabled
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
