// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector は請假申請ドメインのPrometheusメトリクスを収集する。
type Collector struct {
	leaveSubmitted  *prometheus.CounterVec
	leaveReviewed   *prometheus.CounterVec
	loginFailure    prometheus.Counter
	sessionsPurged  prometheus.Counter
	httpStatus      *prometheus.CounterVec
	requestLatency  prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		leaveSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "leavedesk_leave_submitted_total",
			Help: "提出された請假申請の合計数（種別ラベル付き）",
		}, []string{"leave_type"}),
		leaveReviewed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "leavedesk_leave_reviewed_total",
			Help: "審査された請假申請の合計数（結果ラベル付き）",
		}, []string{"outcome"}),
		loginFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leavedesk_login_failure_total",
			Help: "ログイン失敗の合計数",
		}),
		sessionsPurged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leavedesk_sessions_purged_total",
			Help: "削除された期限切れセッションの合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "leavedesk_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "leavedesk_request_latency_seconds",
			Help:    "HTTPリクエストのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.leaveSubmitted,
		c.leaveReviewed,
		c.loginFailure,
		c.sessionsPurged,
		c.httpStatus,
		c.requestLatency,
	)

	return c
}

// RecordLeaveSubmitted は請假申請の提出を記録する。
func (c *Collector) RecordLeaveSubmitted(leaveType string) {
	c.leaveSubmitted.WithLabelValues(leaveType).Inc()
}

// RecordLeaveReviewed は請假申請の審査結果を記録する。
func (c *Collector) RecordLeaveReviewed(outcome string) {
	c.leaveReviewed.WithLabelValues(outcome).Inc()
}

// RecordLoginFailure はログイン失敗を記録する。
func (c *Collector) RecordLoginFailure() {
	c.loginFailure.Inc()
}

// RecordSessionsPurged は削除された期限切れセッション数を記録する。
func (c *Collector) RecordSessionsPurged(count int64) {
	c.sessionsPurged.Add(float64(count))
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエストのレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
