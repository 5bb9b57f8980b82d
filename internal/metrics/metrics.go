// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する実装。
// auth.EventRecorder、meal.EventRecorder、HTTPミドルウェアの記録先を兼ねる。
type Collector struct {
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	usersRegistered prometheus.Counter
	loginFailures   prometheus.Counter
	mealsCreated    prometheus.Counter
	mealsDeleted    prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dailydiet_http_requests_total",
			Help: "HTTPリクエストの合計数",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dailydiet_http_request_duration_seconds",
			Help:    "HTTPリクエストの処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		usersRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dailydiet_users_registered_total",
			Help: "登録されたユーザーの合計数",
		}),
		loginFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dailydiet_login_failures_total",
			Help: "ログイン失敗の合計数",
		}),
		mealsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dailydiet_meals_created_total",
			Help: "作成された食事の合計数",
		}),
		mealsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dailydiet_meals_deleted_total",
			Help: "削除された食事の合計数",
		}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.usersRegistered,
		c.loginFailures,
		c.mealsCreated,
		c.mealsDeleted,
	)

	return c
}

// RecordHTTPRequest はHTTPリクエストの件数と処理時間を記録する。
// routeにはパスではなくルートパターンを渡すこと。
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	c.httpRequests.WithLabelValues(method, route, code).Inc()
	c.httpDuration.WithLabelValues(method, route, code).Observe(duration.Seconds())
}

// RecordUserRegistered はユーザー登録を記録する。
func (c *Collector) RecordUserRegistered() {
	c.usersRegistered.Inc()
}

// RecordLoginFailure はログイン失敗を記録する。
func (c *Collector) RecordLoginFailure() {
	c.loginFailures.Inc()
}

// RecordMealCreated は食事の作成を記録する。
func (c *Collector) RecordMealCreated() {
	c.mealsCreated.Inc()
}

// RecordMealDeleted は食事の削除を記録する。
func (c *Collector) RecordMealDeleted() {
	c.mealsDeleted.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
