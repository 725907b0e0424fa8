// Package metrics 定义引擎的指标接口，由调用方注入，引擎内部不持有全局计数器。
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Sink 接收推荐链路上的计数与耗时。实现必须并发安全。
type Sink interface {
	// RequestServed 一次推荐请求结束；method 为 ranking_method。
	RequestServed(method string, empty, failed bool, elapsed time.Duration)
	// FunnelResult 单个漏斗一次调用的结果。
	FunnelResult(funnel string, count int, failed bool, elapsed time.Duration)
	// CandidatesDropped 特征构建阶段丢弃的候选数。
	CandidatesDropped(n int)
	// CatalogReloaded 一次目录重载；shops 为生效索引的店铺数。
	CatalogReloaded(ok bool, shops int)
	// BreakerStateChanged 熔断器状态变化（0 closed / 1 half-open / 2 open）。
	BreakerStateChanged(name string, state float64)
}

// Nop 丢弃所有指标。
type Nop struct{}

func (Nop) RequestServed(string, bool, bool, time.Duration) {}
func (Nop) FunnelResult(string, int, bool, time.Duration)   {}
func (Nop) CandidatesDropped(int)                           {}
func (Nop) CatalogReloaded(bool, int)                       {}
func (Nop) BreakerStateChanged(string, float64)             {}

// Prometheus 基于 client_golang 的实现。
type Prometheus struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	funnelCalls     *prometheus.CounterVec
	funnelCands     *prometheus.CounterVec
	funnelDuration  *prometheus.HistogramVec
	dropped         prometheus.Counter
	reloads         *prometheus.CounterVec
	catalogShops    prometheus.Gauge
	breakerState    *prometheus.GaugeVec
}

// NewPrometheus 在 reg 上注册全部指标；reg 为 nil 时使用默认注册表。
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Prometheus{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "foodrec_requests_total",
			Help: "Recommendation requests by ranking method and outcome",
		}, []string{"method", "outcome"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "foodrec_request_duration_seconds",
			Help:    "End-to-end recommendation latency",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}, []string{"method"}),
		funnelCalls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "foodrec_funnel_calls_total",
			Help: "Funnel invocations by result",
		}, []string{"funnel", "result"}),
		funnelCands: f.NewCounterVec(prometheus.CounterOpts{
			Name: "foodrec_funnel_candidates_total",
			Help: "Candidates returned by each funnel",
		}, []string{"funnel"}),
		funnelDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "foodrec_funnel_duration_seconds",
			Help:    "Funnel latency",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"funnel"}),
		dropped: f.NewCounter(prometheus.CounterOpts{
			Name: "foodrec_candidates_dropped_total",
			Help: "Candidates dropped because features could not be built",
		}),
		reloads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "foodrec_catalog_reloads_total",
			Help: "Catalog reload attempts by result",
		}, []string{"result"}),
		catalogShops: f.NewGauge(prometheus.GaugeOpts{
			Name: "foodrec_catalog_shops",
			Help: "Shops in the active catalog index",
		}),
		breakerState: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "foodrec_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		}, []string{"name"}),
	}
}

func (p *Prometheus) RequestServed(method string, empty, failed bool, elapsed time.Duration) {
	outcome := "ok"
	switch {
	case failed:
		outcome = "error"
	case empty:
		outcome = "empty"
	}
	p.requests.WithLabelValues(method, outcome).Inc()
	p.requestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (p *Prometheus) FunnelResult(funnel string, count int, failed bool, elapsed time.Duration) {
	result := "ok"
	if failed {
		result = "failed"
	}
	p.funnelCalls.WithLabelValues(funnel, result).Inc()
	p.funnelCands.WithLabelValues(funnel).Add(float64(count))
	p.funnelDuration.WithLabelValues(funnel).Observe(elapsed.Seconds())
}

func (p *Prometheus) CandidatesDropped(n int) {
	if n > 0 {
		p.dropped.Add(float64(n))
	}
}

func (p *Prometheus) CatalogReloaded(ok bool, shops int) {
	result := "ok"
	if !ok {
		result = "failed"
	}
	p.reloads.WithLabelValues(result).Inc()
	p.catalogShops.Set(float64(shops))
}

func (p *Prometheus) BreakerStateChanged(name string, state float64) {
	p.breakerState.WithLabelValues(name).Set(state)
}
