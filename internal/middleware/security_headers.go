package middleware

import "net/http"

// NewSecurityHeadersMiddleware は全レスポンスに共通のセキュリティヘッダーを付与する
// ミドルウェアを返す。HTMLを返さないサーバーのためCSPは全ソースを遮断する。
// 画像はポートフォリオ本体の<img>から参照されるのでCORPだけcross-originにする。
func NewSecurityHeadersMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
			h.Set("Referrer-Policy", "no-referrer")
			h.Set("Cross-Origin-Resource-Policy", "cross-origin")
			next.ServeHTTP(w, r)
		})
	}
}
