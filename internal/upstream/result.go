package upstream

import (
	"context"
	"time"

	"github.com/aibizeyes/admin-gateway/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var fallbacksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bizeyes_upstream_fallbacks_total",
		Help: "Upstream calls answered from mock data, by operation and reason.",
	},
	[]string{"operation", "reason"},
)

// Result is the outcome of an upstream call: either a value or the error
// that prevented one.
type Result[T any] struct {
	Value T
	Err   error

	ctx    context.Context
	client *Client
	op     string
}

func failed[T any](ctx context.Context, c *Client, op string, err error) Result[T] {
	return Result[T]{Err: err, ctx: ctx, client: c, op: op}
}

// OK reports whether the upstream produced the value.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// OrElse returns the upstream value, or mock() when the call failed.
// The failure is logged and counted, never returned.
func (r Result[T]) OrElse(mock func() T) T {
	if r.Err == nil {
		return r.Value
	}
	r.degrade()
	return mock()
}

// OrElseTry is OrElse for fallbacks that can themselves fail, such as a
// mutation of a record that does not exist in the mock store.
func (r Result[T]) OrElseTry(mock func() (T, error)) (T, error) {
	if r.Err == nil {
		return r.Value, nil
	}
	r.degrade()
	return mock()
}

func (r Result[T]) degrade() {
	reason := ReasonOf(r.Err)
	if reason == "" {
		reason = ReasonTransport
	}
	fallbacksTotal.WithLabelValues(r.op, reason).Inc()

	event := logger.Warn()
	if reason == ReasonUnconfigured {
		event = logger.Debug()
	}
	event.Str("operation", r.op).Str("reason", reason).Err(r.Err).Msg("upstream unavailable, serving mock data")

	if r.client != nil && r.client.fallbackDelay > 0 && r.ctx != nil {
		sleep(r.ctx, r.client.fallbackDelay)
	}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
