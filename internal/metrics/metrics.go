package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// API 指标
var (
	// APIRequestsTotal API 请求总数
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "approvalhub_api_requests_total",
			Help: "API 请求总数",
		},
		[]string{"method", "path", "status"},
	)

	// APIRequestDuration API 请求延迟（秒）
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "approvalhub_api_request_duration_seconds",
			Help:    "API 请求延迟分布",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// 审批校验指标
var (
	// GateDecisionsTotal 功能按钮审批校验结果
	// decision: allowed, denied, ungoverned
	GateDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "approvalhub_gate_decisions_total",
			Help: "按钮调用审批校验结果总数",
		},
		[]string{"model", "decision", "phase"},
	)

	// GateCheckDuration 审批校验耗时（秒）
	GateCheckDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "approvalhub_gate_check_duration_seconds",
			Help:    "审批校验耗时分布",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"model"},
	)

	// ForceResetsTotal 强制重置审批状态次数
	ForceResetsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "approvalhub_force_resets_total",
			Help: "强制重置审批状态总数",
		},
		[]string{"model", "status"},
	)

	// ControlCacheTotal 审批配置缓存命中情况
	ControlCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "approvalhub_control_cache_total",
			Help: "审批配置缓存访问总数",
		},
		[]string{"backend", "result"}, // result: hit, miss
	)

	// DispatchForwardTotal 转发到业务系统的按钮调用
	DispatchForwardTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "approvalhub_dispatch_forward_total",
			Help: "按钮调用转发总数",
		},
		[]string{"model", "status"},
	)
)

// RecordGateDecision 记录一次审批校验
func RecordGateDecision(model, decision, phase string, seconds float64) {
	GateDecisionsTotal.WithLabelValues(model, decision, phase).Inc()
	GateCheckDuration.WithLabelValues(model).Observe(seconds)
}

// RecordCacheLookup 记录缓存命中
func RecordCacheLookup(backend string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	ControlCacheTotal.WithLabelValues(backend, result).Inc()
}

// RecordForceReset 记录强制重置
func RecordForceReset(model string, err error) {
	status := "success"
	if err != nil {
		status = "failed"
	}
	ForceResetsTotal.WithLabelValues(model, status).Inc()
}

// RecordForward 记录转发结果
func RecordForward(model string, err error) {
	status := "success"
	if err != nil {
		status = "failed"
	}
	DispatchForwardTotal.WithLabelValues(model, status).Inc()
}
