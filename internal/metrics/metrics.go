// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 結果ラベルの値
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層、リポジトリ層、HTTPミドルウェアから利用する。
type MetricsCollector interface {
	RecordAuthAttempt(action, result string)
	RecordCustomerOperation(operation, result string)
	RecordPersistenceFailure(operation, key string)
	RecordAppointmentRequested(service string)
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	authAttempts       *prometheus.CounterVec
	customerOperations *prometheus.CounterVec
	persistenceFail    *prometheus.CounterVec
	appointments       *prometheus.CounterVec
	httpStatus         *prometheus.CounterVec
	requestLatency     prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		authAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "custdesk_auth_attempts_total",
			Help: "認証操作（login, signup, reset_password, change_password）の試行数",
		}, []string{"action", "result"}),
		customerOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "custdesk_customer_operations_total",
			Help: "顧客の追加・更新・削除の実行数",
		}, []string{"operation", "result"}),
		persistenceFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "custdesk_persistence_failures_total",
			Help: "コレクションの読み込み・保存の失敗数",
		}, []string{"operation", "key"}),
		appointments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "custdesk_appointments_requested_total",
			Help: "受け付けた予約リクエスト数",
		}, []string{"service"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "custdesk_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "custdesk_http_request_duration_seconds",
			Help:    "HTTPリクエストの処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.authAttempts,
		c.customerOperations,
		c.persistenceFail,
		c.appointments,
		c.httpStatus,
		c.requestLatency,
	)

	return c
}

// RecordAuthAttempt は認証操作の結果を記録する。
func (c *Collector) RecordAuthAttempt(action, result string) {
	c.authAttempts.WithLabelValues(action, result).Inc()
}

// RecordCustomerOperation は顧客操作の結果を記録する。
func (c *Collector) RecordCustomerOperation(operation, result string) {
	c.customerOperations.WithLabelValues(operation, result).Inc()
}

// RecordPersistenceFailure は読み込み（load）または保存（save）の失敗を記録する。
func (c *Collector) RecordPersistenceFailure(operation, key string) {
	c.persistenceFail.WithLabelValues(operation, key).Inc()
}

// RecordAppointmentRequested は予約受付を記録する。
func (c *Collector) RecordAppointmentRequested(service string) {
	c.appointments.WithLabelValues(service).Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエスト処理時間を記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// Result はboolを結果ラベルに変換する。
func Result(ok bool) string {
	if ok {
		return ResultSuccess
	}
	return ResultFailure
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// compile-time interface check
var _ MetricsCollector = (*Collector)(nil)
