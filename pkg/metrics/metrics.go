// Package metrics 提供 Prometheus helper，包含常用 counter/gauge/histogram 模板
package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pramodthundathil/ola-backend/pkg/logger"
)

// Metrics 指标集合
type Metrics struct {
	// HTTP 请求计数
	HTTPRequestsTotal prometheus.Counter
	// HTTP 请求耗时
	HTTPRequestDuration prometheus.Histogram

	// 数据库查询计数
	DBQueriesTotal prometheus.Counter
	// 数据库查询耗时
	DBQueryDuration prometheus.Histogram

	// 业务指标
	DecisionsTotal      *prometheus.CounterVec
	AdjustmentsTotal    prometheus.Counter
	SchedulesGenerated  prometheus.Counter
	PaymentsTotal       prometheus.Counter
	ReschedulesTotal    prometheus.Counter
	InstallmentsOverdue prometheus.Gauge
}

// New 创建指标实例
func New(serviceName string) *Metrics {
	return &Metrics{
		HTTPRequestsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lending",
			Subsystem: serviceName,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}),
		HTTPRequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "lending",
			Subsystem: serviceName,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		DBQueriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lending",
			Subsystem: serviceName,
			Name:      "db_queries_total",
			Help:      "Total database queries",
		}),
		DBQueryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "lending",
			Subsystem: serviceName,
			Name:      "db_query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		DecisionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lending",
			Subsystem: serviceName,
			Name:      "decisions_total",
			Help:      "Total financing decisions by status",
		}, []string{"status"}),
		AdjustmentsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lending",
			Subsystem: serviceName,
			Name:      "dynamic_adjustments_total",
			Help:      "Total dynamic plan adjustments attempted",
		}),
		SchedulesGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lending",
			Subsystem: serviceName,
			Name:      "schedules_generated_total",
			Help:      "Total EMI schedules generated",
		}),
		PaymentsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lending",
			Subsystem: serviceName,
			Name:      "payments_total",
			Help:      "Total payments applied to installments",
		}),
		ReschedulesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lending",
			Subsystem: serviceName,
			Name:      "reschedules_total",
			Help:      "Total late payment reschedules",
		}),
		InstallmentsOverdue: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "lending",
			Subsystem: serviceName,
			Name:      "installments_overdue",
			Help:      "Number of overdue installments",
		}),
	}
}

// Register 注册所有指标
func (m *Metrics) Register() error {
	collectors := []prometheus.Collector{
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueriesTotal,
		m.DBQueryDuration,
		m.DecisionsTotal,
		m.AdjustmentsTotal,
		m.SchedulesGenerated,
		m.PaymentsTotal,
		m.ReschedulesTotal,
		m.InstallmentsOverdue,
	}

	for _, c := range collectors {
		if err := prometheus.DefaultRegisterer.Register(c); err != nil {
			logger.Error(context.Background(), "Failed to register metric", "error", err)
			return err
		}
	}

	return nil
}

// StartHTTPServer 启动 Prometheus HTTP 服务器
func StartHTTPServer(port int, path string) error {
	if path == "" {
		path = "/metrics"
	}

	mux := http.NewServeMux()
	mux.Handle(path, promhttp.Handler())

	addr := fmt.Sprintf(":%d", port)
	logger.Info(context.Background(), "Starting Prometheus HTTP server", "addr", addr, "path", path)
	return http.ListenAndServe(addr, mux)
}
