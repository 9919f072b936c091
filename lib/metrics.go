package lib

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

/* This file implements dev-ops telemetry for the exchange in the form of prometheus metrics */

const metricsPattern = "/metrics"

// Metrics represents a server that exposes Prometheus metrics
type Metrics struct {
	server *http.Server  // the http prometheus server
	config MetricsConfig // the configuration
	log    LoggerI       // the logger

	ExchangeMetrics // pair and operation telemetry
}

// ExchangeMetrics represents the domain telemetry of the accounting core
type ExchangeMetrics struct {
	PairCount      prometheus.Gauge      // how many pairs have completed configuration?
	SwapCount      prometheus.CounterVec // swaps executed, labeled by result
	SwapVolume     prometheus.Counter    // total input amount swapped
	LiquidityOps   prometheus.CounterVec // add/remove liquidity operations, labeled by kind
	OperationTime  prometheus.Histogram  // how long a state mutating operation takes
	FailedMessages prometheus.CounterVec // rejected operations, labeled by error module
}

// NewMetrics() creates a new instance of the telemetry server
func NewMetrics(config MetricsConfig, log LoggerI) *Metrics {
	if !config.Enabled {
		return nil
	}
	m := &Metrics{
		config: config,
		log:    log,
		ExchangeMetrics: ExchangeMetrics{
			PairCount: promauto.NewGauge(prometheus.GaugeOpts{
				Name: "basin_pair_count",
				Help: "number of configured trading pairs",
			}),
			SwapCount: *promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "basin_swap_count",
				Help: "number of swap operations",
			}, []string{"result"}),
			SwapVolume: promauto.NewCounter(prometheus.CounterOpts{
				Name: "basin_swap_volume",
				Help: "total input amount across swaps",
			}),
			LiquidityOps: *promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "basin_liquidity_ops",
				Help: "number of liquidity operations",
			}, []string{"kind"}),
			OperationTime: promauto.NewHistogram(prometheus.HistogramOpts{
				Name:    "basin_operation_seconds",
				Help:    "latency of state mutating operations",
				Buckets: prometheus.DefBuckets,
			}),
			FailedMessages: *promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "basin_failed_messages",
				Help: "rejected operations by error module",
			}, []string{"module"}),
		},
	}
	mux := http.NewServeMux()
	mux.Handle(metricsPattern, promhttp.Handler())
	m.server = &http.Server{
		Addr:    net.JoinHostPort("", config.MetricsPort),
		Handler: mux,
	}
	go func() {
		if err := m.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("metrics server stopped: %s", err.Error())
		}
	}()
	return m
}

// UpdateOperationTime() observes the latency of one state mutating operation
// nil receiver is a no-op so call sites don't gate on telemetry being enabled
func (m *Metrics) UpdateOperationTime(start time.Time) {
	if m == nil {
		return
	}
	m.OperationTime.Observe(time.Since(start).Seconds())
}

// UpdatePairCount() sets the configured pair gauge
func (m *Metrics) UpdatePairCount(count uint64) {
	if m == nil {
		return
	}
	m.PairCount.Set(float64(count))
}

// CountSwap() increments the swap counters
func (m *Metrics) CountSwap(amountIn uint64, success bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !success {
		result = "fail"
	}
	m.SwapCount.WithLabelValues(result).Inc()
	if success {
		m.SwapVolume.Add(float64(amountIn))
	}
}

// CountLiquidityOp() increments the liquidity operation counter
func (m *Metrics) CountLiquidityOp(kind string) {
	if m == nil {
		return
	}
	m.LiquidityOps.WithLabelValues(kind).Inc()
}

// CountFailure() increments the rejected operation counter
func (m *Metrics) CountFailure(err ErrorI) {
	if m == nil || err == nil {
		return
	}
	m.FailedMessages.WithLabelValues(string(err.Module())).Inc()
}

// Stop() gracefully shuts the telemetry server down
func (m *Metrics) Stop() {
	if m == nil || m.server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := m.server.Shutdown(ctx); err != nil {
		m.log.Errorf("metrics server shutdown: %s", err.Error())
	}
}
