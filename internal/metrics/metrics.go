// Package metrics exposes Prometheus instrumentation for the journal and the RPC layer.
package metrics

import (
	"context"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors registered for one server.
type Metrics struct {
	recordsAppended   *prometheus.CounterVec
	derivationLatency prometheus.Histogram
	outstandingDebts  prometheus.Gauge
	rpcRequests       *prometheus.CounterVec
	rpcLatency        *prometheus.HistogramVec
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		recordsAppended: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "splitledger_records_appended_total",
			Help: "Total number of journal records appended by kind",
		}, []string{"kind"}),
		derivationLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "splitledger_balance_derivation_seconds",
			Help:    "Time taken to derive balances from the journal",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		}),
		outstandingDebts: factory.NewGauge(prometheus.GaugeOpts{
			Name: "splitledger_outstanding_debts",
			Help: "Number of simplified debts at the last derivation",
		}),
		rpcRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "splitledger_rpc_requests_total",
			Help: "Total number of RPC requests by procedure and code",
		}, []string{"procedure", "code"}),
		rpcLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "splitledger_rpc_duration_seconds",
			Help:    "RPC handling latency by procedure",
			Buckets: prometheus.DefBuckets,
		}, []string{"procedure"}),
	}
}

// RecordAppended counts a journal append.
func (m *Metrics) RecordAppended(kind string) {
	m.recordsAppended.WithLabelValues(kind).Inc()
}

// BalancesDerived observes one balance derivation.
func (m *Metrics) BalancesDerived(elapsed time.Duration, debts int) {
	m.derivationLatency.Observe(elapsed.Seconds())
	m.outstandingDebts.Set(float64(debts))
}

// Interceptor returns a Connect interceptor recording request counts and latency.
func (m *Metrics) Interceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure

			resp, err := next(ctx, req)

			code := "ok"
			if err != nil {
				code = connect.CodeOf(err).String()
			}
			m.rpcRequests.WithLabelValues(procedure, code).Inc()
			m.rpcLatency.WithLabelValues(procedure).Observe(time.Since(start).Seconds())
			return resp, err
		}
	}
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
