package recipedex

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/recipedex/internal/domain/search/state"
	"github.com/kailas-cloud/recipedex/internal/usecase/search"
)

// outcomeRejected labels calls refused before any event ran, such as a Milk search.
const outcomeRejected = "rejected"

// callBuckets span a memory store hit up to a multi-page restore.
var callBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}

// clientMetrics counts SDK calls by operation and outcome. Search events use
// their own outcome (ok, error, skipped, stale); other calls are ok or error.
type clientMetrics struct {
	calls   *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

func newClientMetrics(reg prometheus.Registerer) (*clientMetrics, error) {
	m := &clientMetrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "recipedex",
			Subsystem: "sdk",
			Name:      "calls_total",
			Help:      "SDK calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "recipedex",
			Subsystem: "sdk",
			Name:      "call_duration_seconds",
			Help:      "SDK call latency in seconds, recipe API round trips included.",
			Buckets:   callBuckets,
		}, []string{"operation"}),
	}
	if err := adopt(reg, &m.calls); err != nil {
		return nil, err
	}
	if err := adopt(reg, &m.latency); err != nil {
		return nil, err
	}
	return m, nil
}

// adopt registers c, or points c at the collector already registered under
// the same name so several clients can share one registry.
func adopt[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	err := reg.Register(*c)
	if err == nil {
		return nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return fmt.Errorf("recipedex: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return fmt.Errorf("recipedex: metric registered with type %T", are.ExistingCollector)
	}
	*c = existing
	return nil
}

// observer logs and counts SDK calls. A nil observer records nothing.
type observer struct {
	logger  *slog.Logger
	metrics *clientMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg != nil {
		m, err := newClientMetrics(reg)
		if err != nil {
			return nil, err
		}
		o.metrics = m
	}
	return o, nil
}

// call records a session or recipe call that is not a search event.
func (o *observer) call(op string, start time.Time, err error) {
	outcome := string(OutcomeOK)
	if err != nil {
		outcome = string(OutcomeError)
	}
	o.record(op, start, outcome, err)
}

// event records a search event. err covers requests that never ran; a failed
// page load comes back as OutcomeError with the reason in st.
func (o *observer) event(op string, start time.Time, outcome search.Outcome, st *state.State, err error) {
	switch {
	case errors.Is(err, ErrCategoryRejected):
		o.record(op, start, outcomeRejected, nil)
	case err != nil:
		o.record(op, start, string(OutcomeError), err)
	case outcome == search.OutcomeError:
		o.record(op, start, string(outcome), errors.New(st.Err))
	default:
		o.record(op, start, string(outcome), nil)
	}
}

func (o *observer) record(op string, start time.Time, outcome string, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)

	if o.metrics != nil {
		o.metrics.calls.WithLabelValues(op, outcome).Inc()
		o.metrics.latency.WithLabelValues(op).Observe(dur.Seconds())
	}
	if o.logger == nil {
		return
	}

	attrs := []any{"op", op, "outcome", outcome, "duration", dur}
	switch {
	case err != nil:
		o.logger.Warn("recipedex call failed", append(attrs, "error", err)...)
	case outcome == outcomeRejected:
		o.logger.Info("recipedex search rejected", attrs...)
	default:
		o.logger.Debug("recipedex call done", attrs...)
	}
}
