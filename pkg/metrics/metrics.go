// Package metrics 提供 Prometheus 指标采集：HTTP 请求指标、附件操作指标与缓存命中统计.
//
// Example:
//
//	if err := metrics.InitMetrics(cfg.Metrics); err != nil {
//		log.Fatal(err)
//	}
//
//	metrics.UploadCounter.WithLabelValues("user_photo").Inc()
//	metrics.CacheHitCounter.WithLabelValues("hit").Inc()
package metrics

import (
	"net/http"
	_ "net/http/pprof" // 注册 pprof 端点

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yeisme/attachvault/pkg/configs"
)

var (
	// RequestCounter HTTP 请求计数器.
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint"},
	)

	// RequestDuration HTTP 请求耗时.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// UploadCounter 按类别统计的附件上传数.
	UploadCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attachment_uploads_total",
			Help: "Total number of attachment uploads by category",
		},
		[]string{"category"},
	)

	// DeleteCounter 按类别统计的附件删除数.
	DeleteCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attachment_deletes_total",
			Help: "Total number of attachment deletes by category",
		},
		[]string{"category"},
	)

	// CacheHitCounter URL 缓存命中统计，result 取 hit / miss / bypass.
	CacheHitCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "url_cache_requests_total",
			Help: "URL cache lookup results",
		},
		[]string{"result"},
	)

	// SweptBlobCounter 清扫任务回收的孤儿对象数.
	SweptBlobCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orphan_blobs_swept_total",
			Help: "Total number of orphaned blobs removed by the sweeper",
		},
	)

	// registry Prometheus 注册表.
	registry = prometheus.NewRegistry()
)

// InitMetrics 初始化 Metrics，注册标准收集器与自定义指标.
func InitMetrics(config configs.MetricsConfig) error {
	if !config.Enabled {
		return nil
	}

	if config.RuntimeMetrics {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	registry.MustRegister(
		RequestCounter, RequestDuration,
		UploadCounter, DeleteCounter,
		CacheHitCounter, SweptBlobCounter,
	)

	return nil
}

// StartMetricsServer 在给定 engine 上挂载 /metrics 与可选的 pprof 端点.
func StartMetricsServer(config configs.MetricsConfig, engine *gin.Engine) error {
	if !config.Enabled {
		return nil
	}

	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	if config.Pprof {
		engine.GET("/debug/pprof/*any", gin.WrapH(http.DefaultServeMux))
	}

	return nil
}

// GetRegistry 返回 Prometheus 注册表.
func GetRegistry() *prometheus.Registry {
	return registry
}
