package dinemite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/dinemite/internal/domain/recommendation"
)

// observer logs and counts SDK calls. A nil observer records nothing.
type observer struct {
	logger  *slog.Logger
	calls   *prometheus.CounterVec
	latency *prometheus.HistogramVec
	results prometheus.Histogram
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg == nil {
		return o, nil
	}

	calls, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dinemite",
		Subsystem: "sdk",
		Name:      "calls_total",
		Help:      "SDK calls by operation and outcome. Recommend outcomes are query states.",
	}, []string{"operation", "outcome"}))
	if err != nil {
		return nil, err
	}
	latency, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "dinemite",
		Subsystem: "sdk",
		Name:      "call_duration_seconds",
		Help:      "SDK call duration in seconds.",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"operation"}))
	if err != nil {
		return nil, err
	}
	results, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "dinemite",
		Subsystem: "sdk",
		Name:      "recommendation_results",
		Help:      "Number of recommendations returned per successful query.",
		Buckets:   []float64{0, 1, 2, 3, 5, 10, 20},
	}))
	if err != nil {
		return nil, err
	}

	o.calls, o.latency, o.results = calls, latency, results
	return o, nil
}

// register adds c to reg, or returns the collector already registered under
// the same descriptor when it has the same type.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return c, fmt.Errorf("dinemite: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(C)
	if !ok {
		return c, fmt.Errorf("dinemite: metric registered with type %T", are.ExistingCollector)
	}
	return existing, nil
}

// recommend records a Recommend call under the query state it produced.
func (o *observer) recommend(start time.Time, q Query, recs []Recommendation, err error) {
	if o == nil {
		return
	}
	state := recommendation.Outcome(recs, err)
	if o.results != nil && err == nil {
		o.results.Observe(float64(len(recs)))
	}
	o.record("recommend", start, string(state), err,
		slog.String("state", string(state)),
		slog.Int("results", len(recs)),
		slog.Int("top_k", q.TopK),
	)
}

// call records any other SDK call under its error code.
func (o *observer) call(op string, start time.Time, err error) {
	if o == nil {
		return
	}
	o.record(op, start, outcomeOf(err), err)
}

func (o *observer) record(op string, start time.Time, outcome string, err error, attrs ...slog.Attr) {
	dur := time.Since(start)
	if o.calls != nil {
		o.calls.WithLabelValues(op, outcome).Inc()
		o.latency.WithLabelValues(op).Observe(dur.Seconds())
	}
	if o.logger == nil {
		return
	}

	attrs = append(attrs, slog.String("op", op), slog.Duration("duration", dur))
	if err != nil {
		attrs = append(attrs, slog.String("outcome", outcome), slog.Any("error", err))
		o.logger.LogAttrs(context.Background(), slog.LevelWarn, "dinemite call failed", attrs...)
		return
	}
	o.logger.LogAttrs(context.Background(), slog.LevelDebug, "dinemite call completed", attrs...)
}

// outcomeOf labels a non-recommend call: "ok", the server error code, or a
// transport class.
func outcomeOf(err error) string {
	if err == nil {
		return "ok"
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code != "" {
			return apiErr.Code
		}
		return "http_" + strconv.Itoa(apiErr.Status)
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return "timeout"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	return "transport_error"
}
