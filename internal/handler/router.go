package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/portfolio-admin/internal/metrics"
	"github.com/hitoshi/portfolio-admin/internal/middleware"
)

// HealthChecker はデータベースの死活確認に必要なインターフェース。
// *sql.DBがそのまま満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// 死活監視
	HealthChecker HealthChecker

	// ミドルウェア依存
	SessionFinder  middleware.SessionFinder
	AllowedOrigins []string
	RateLimiter    *middleware.RateLimiter

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// プロジェクト
	ProjectService ProjectServiceInterface

	// 画像の静的配信元ディレクトリ
	UploadDir string

	// メトリクス
	Metrics  *metrics.Collector
	Gatherer prometheus.Gatherer

	// リクエストログの出力先
	Logger *slog.Logger
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → SecurityHeaders → Logging → Recovery → Metrics → RateLimit(General)
//
// セッションミドルウェアは書き込み系のプロジェクトルートだけに適用する。
// 読み取り系（一覧・詳細・画像）はポートフォリオ本体から匿名で参照される。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.AllowedOrigins))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	r.Use(deps.RateLimiter.GeneralMiddleware())

	authHandler := NewAuthHandler(deps.AuthService, deps.Metrics, deps.AuthConfig)
	projectHandler := NewProjectHandler(deps.ProjectService, deps.Metrics)

	// 死活監視
	r.Get("/health", newHealthHandler(deps.HealthChecker))

	// Prometheusスクレイプ
	r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))

	// セッション管理
	r.Route("/api", func(r chi.Router) {
		// ログインは総当たり対策の専用レート制限を追加
		r.With(deps.RateLimiter.LoginMiddleware()).Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/session", authHandler.SessionState)
		r.Get("/login/success", authHandler.LoginSuccess)

		// プロジェクト読み取り（認証不要）
		r.Get("/projects", projectHandler.List)
		r.Get("/getTexts/{id}", projectHandler.Get)

		// プロジェクト書き込み（認証必須）
		r.Group(func(r chi.Router) {
			r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))

			r.Post("/add/project", projectHandler.Create)
			r.Put("/update/{id}", projectHandler.Update)
			r.Delete("/delete/{id}", projectHandler.Delete)
		})

		// アップロード画像の静的配信。ディレクトリ一覧は公開しない。
		fileServer := http.StripPrefix("/api/image/", http.FileServer(http.Dir(deps.UploadDir)))
		r.Get("/image/*", func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/") {
				http.NotFound(w, r)
				return
			}
			fileServer.ServeHTTP(w, r)
		})
	})

	return r
}

// newHealthHandler は死活監視用のハンドラーを返す。
// データベースへ到達できない場合は503を返し、コンテナのヘルスチェックを失敗させる。
func newHealthHandler(db HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := db.PingContext(r.Context()); err != nil {
			slog.Warn("health check failed to reach database",
				slog.String("error", err.Error()),
			)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.Write([]byte(`{"status":"ok"}`))
	}
}
