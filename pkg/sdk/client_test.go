package recipedex

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/recipedex/internal/domain/search/state"
	healthuc "github.com/kailas-cloud/recipedex/internal/usecase/health"
	"github.com/kailas-cloud/recipedex/internal/usecase/search"
)

func TestNew_NoBaseURL(t *testing.T) {
	_, err := New(context.Background())
	if err == nil {
		t.Fatal("expected error when no base URL provided")
	}
}

func TestCreateStore(t *testing.T) {
	s, err := createStore(&clientConfig{driver: "memory"})
	if err != nil {
		t.Fatalf("memory store: %v", err)
	}
	s.Close()

	if _, err := createStore(&clientConfig{driver: "unknown"}); err == nil {
		t.Error("expected error for unknown driver")
	}
	if _, err := createStore(&clientConfig{driver: "valkey"}); err == nil {
		t.Error("expected error for valkey without address")
	}
}

func TestClientOptions(t *testing.T) {
	cfg := &clientConfig{}

	WithValkey("localhost:6379", "secret").apply(cfg)
	if cfg.driver != "valkey" {
		t.Errorf("driver = %q, want valkey", cfg.driver)
	}
	if cfg.addrs[0] != "localhost:6379" {
		t.Errorf("addr = %q, want localhost:6379", cfg.addrs[0])
	}
	if cfg.password != "secret" {
		t.Errorf("password = %q, want secret", cfg.password)
	}

	cfg2 := &clientConfig{}
	WithRedis("localhost:6380", "pass").apply(cfg2)
	if cfg2.driver != "redis" {
		t.Errorf("driver = %q, want redis", cfg2.driver)
	}

	cfg3 := &clientConfig{}
	hc := &http.Client{}
	WithBaseURL("http://api.local").apply(cfg3)
	WithToken("tok").apply(cfg3)
	WithTimeout(3 * time.Second).apply(cfg3)
	WithHTTPClient(hc).apply(cfg3)
	WithRateLimit(5, 2).apply(cfg3)
	WithSessionTTL(time.Hour).apply(cfg3)
	WithPageRollback(true).apply(cfg3)
	if cfg3.baseURL != "http://api.local" || cfg3.token != "tok" || cfg3.timeout != 3*time.Second {
		t.Errorf("unexpected api settings: %+v", cfg3)
	}
	if cfg3.httpClient != hc {
		t.Error("expected http client to be set")
	}
	if cfg3.ratePerSec != 5 || cfg3.burst != 2 {
		t.Errorf("rate = (%v, %d), want (5, 2)", cfg3.ratePerSec, cfg3.burst)
	}
	if cfg3.ttl != time.Hour || !cfg3.pageRollback {
		t.Errorf("unexpected session settings: ttl=%v rollback=%v", cfg3.ttl, cfg3.pageRollback)
	}

	cfg4 := &clientConfig{}
	logger := slog.Default()
	WithLogger(logger).apply(cfg4)
	if cfg4.logger != logger {
		t.Error("expected logger to be set")
	}

	cfg5 := &clientConfig{}
	reg := prometheus.NewRegistry()
	WithPrometheus(reg).apply(cfg5)
	if cfg5.metricsReg != reg {
		t.Error("expected metricsReg to be set")
	}
}

func TestCategories(t *testing.T) {
	got := Categories()
	if len(got) != 9 || got[0] != "Chicken" || got[8] != "Donut" {
		t.Errorf("unexpected categories: %v", got)
	}
}

func TestObserver_NilSafe(t *testing.T) {
	var obs *observer
	obs.call("test", time.Now(), nil)
	obs.call("test", time.Now(), errors.New("err"))
	obs.event("session.search", time.Now(), search.OutcomeOK, &state.State{}, nil)
}

func TestObserver_CountsEventOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}
	failed := state.State{Status: state.Error, Err: "network error"}
	loaded := state.State{Status: state.Loaded}

	obs.event("session.search", time.Now().Add(-10*time.Millisecond), search.OutcomeOK, &loaded, nil)
	obs.event("session.search", time.Now(), search.OutcomeError, &failed, nil)
	obs.event("session.search", time.Now(), "", &state.State{}, ErrCategoryRejected)
	obs.event("session.next_page", time.Now(), search.OutcomeSkipped, &loaded, nil)
	obs.event("session.next_page", time.Now(), search.OutcomeStale, &loaded, nil)
	obs.event("session.next_page", time.Now(), "", &state.State{}, ErrSessionNotFound)
	obs.call("recipe.get", time.Now(), nil)
	obs.call("recipe.get", time.Now(), ErrNotFound)

	tests := []struct {
		op, outcome string
	}{
		{"session.search", "ok"},
		{"session.search", "error"},
		{"session.search", "rejected"},
		{"session.next_page", "skipped"},
		{"session.next_page", "stale"},
		{"session.next_page", "error"},
		{"recipe.get", "ok"},
		{"recipe.get", "error"},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(obs.metrics.calls.WithLabelValues(tt.op, tt.outcome)); got != 1 {
			t.Errorf("calls{%s,%s} = %v, want 1", tt.op, tt.outcome, got)
		}
	}
	if n := testutil.CollectAndCount(obs.metrics.calls); n != len(tests) {
		t.Errorf("expected %d call series, got %d", len(tests), n)
	}
	if n := testutil.CollectAndCount(obs.metrics.latency); n != 3 {
		t.Errorf("expected 3 latency series, got %d", n)
	}
}

func TestObserver_ReusesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("first newObserver: %v", err)
	}
	second, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("second newObserver: %v", err)
	}
	second.call("session.delete", time.Now(), nil)
	if got := testutil.ToFloat64(first.metrics.calls.WithLabelValues("session.delete", "ok")); got != 1 {
		t.Errorf("expected shared counter, got %v", got)
	}
}

func TestObserver_IncompatibleMetric(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "recipedex",
		Subsystem: "sdk",
		Name:      "call_duration_seconds",
		Help:      "SDK call latency in seconds, recipe API round trips included.",
	}, []string{"operation"}))

	if _, err := newObserver(nil, reg); err == nil {
		t.Error("expected error for a metric registered with another type")
	}
}

func TestObserver_WithLogger(t *testing.T) {
	obs, err := newObserver(slog.Default(), nil)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}
	obs.call("test.op", time.Now(), nil)
	obs.call("test.op", time.Now(), errors.New("test error"))
	obs.event("session.search", time.Now(), "", &state.State{}, ErrCategoryRejected)
	obs.event("session.search", time.Now(), search.OutcomeStale, &state.State{}, nil)
}

type stubHealth struct {
	report healthuc.Report
}

func (s stubHealth) Check(context.Context) healthuc.Report { return s.report }

func TestHealth_Failed(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}
	c := &Client{
		healthSvc: stubHealth{report: healthuc.Report{
			Status: healthuc.Degraded,
			Checks: map[string]healthuc.CheckResult{
				CheckSessionStore: healthuc.CheckOK,
				CheckRecipeAPI:    healthuc.CheckError,
			},
		}},
		obs: obs,
	}

	h := c.Health(context.Background())
	if h.Healthy() || h.Status != "degraded" {
		t.Errorf("expected degraded, got %q", h.Status)
	}
	if got := h.Failed(); len(got) != 1 || got[0] != CheckRecipeAPI {
		t.Errorf("unexpected failed checks: %v", got)
	}
	if got := testutil.ToFloat64(obs.metrics.calls.WithLabelValues("health", "error")); got != 1 {
		t.Errorf("expected failed health call counted, got %v", got)
	}
}
