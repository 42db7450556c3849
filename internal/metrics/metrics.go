// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラー層から利用する。
type MetricsCollector interface {
	RecordHTTPStatus(statusCode int)
	RecordLoginSuccess()
	RecordLoginFailure()
	RecordUploadStored(field string)
	RecordProjectWrite(operation string)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus    *prometheus.CounterVec
	loginSuccess  prometheus.Counter
	loginFail     prometheus.Counter
	uploadsStored *prometheus.CounterVec
	projectWrites *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portfolio_login_success_total",
			Help: "ログイン成功の合計数",
		}),
		loginFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portfolio_login_fail_total",
			Help: "ログイン失敗の合計数",
		}),
		uploadsStored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_uploads_stored_total",
			Help: "保存された画像のフィールド別合計数",
		}, []string{"field"}),
		projectWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_project_writes_total",
			Help: "プロジェクトの作成・更新・削除の操作別合計数",
		}, []string{"operation"}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.loginSuccess,
		c.loginFail,
		c.uploadsStored,
		c.projectWrites,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordLoginSuccess はログイン成功を記録する。
func (c *Collector) RecordLoginSuccess() {
	c.loginSuccess.Inc()
}

// RecordLoginFailure はログイン失敗を記録する。
func (c *Collector) RecordLoginFailure() {
	c.loginFail.Inc()
}

// RecordUploadStored は画像の保存をフィールド別に記録する。
func (c *Collector) RecordUploadStored(field string) {
	c.uploadsStored.WithLabelValues(field).Inc()
}

// RecordProjectWrite はプロジェクトの書き込み操作を記録する。
// operationはcreate、update、deleteのいずれか。
func (c *Collector) RecordProjectWrite(operation string) {
	c.projectWrites.WithLabelValues(operation).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
