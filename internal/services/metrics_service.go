package services

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService 指标服务
type MetricsService struct {
	generateRequests  *prometheus.CounterVec
	generateDuration  prometheus.Histogram
	llmFallbacks      prometheus.Counter
	emptyRetrievals   prometheus.Counter
	ignoredAttachment prometheus.Counter
}

// NewMetricsService 创建指标服务并注册指标
func NewMetricsService() *MetricsService {
	return &MetricsService{
		generateRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "generate_requests_total",
			Help: "Total /generate requests by outcome",
		}, []string{"status"}),
		generateDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "generate_duration_seconds",
			Help:    "End-to-end /generate latency",
			Buckets: prometheus.DefBuckets,
		}),
		llmFallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "llm_fallback_total",
			Help: "Completions answered with the fallback reply",
		}),
		emptyRetrievals: promauto.NewCounter(prometheus.CounterOpts{
			Name: "retrieval_empty_total",
			Help: "Retrievals that returned no documents",
		}),
		ignoredAttachment: promauto.NewCounter(prometheus.CounterOpts{
			Name: "attachments_ignored_total",
			Help: "Non-image attachments excluded from prompts",
		}),
	}
}

// ObserveGenerate 记录一次生成请求的结果与耗时
func (ms *MetricsService) ObserveGenerate(status string, elapsed time.Duration) {
	ms.generateRequests.WithLabelValues(status).Inc()
	ms.generateDuration.Observe(elapsed.Seconds())
}

// CountFallback 记录一次LLM降级
func (ms *MetricsService) CountFallback() {
	ms.llmFallbacks.Inc()
}

// CountEmptyRetrieval 记录一次空检索
func (ms *MetricsService) CountEmptyRetrieval() {
	ms.emptyRetrievals.Inc()
}

// CountIgnoredAttachments 记录被忽略的非图片附件数
func (ms *MetricsService) CountIgnoredAttachments(n int) {
	if n > 0 {
		ms.ignoredAttachment.Add(float64(n))
	}
}

// Handler 返回Prometheus指标的HTTP处理器
func (ms *MetricsService) Handler() http.Handler {
	return promhttp.Handler()
}

// ServeHTTP 实现http.Handler接口
func (ms *MetricsService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ms.Handler().ServeHTTP(w, r)
}
