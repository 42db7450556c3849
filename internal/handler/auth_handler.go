// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/portfolio-admin/internal/middleware"
	"github.com/hitoshi/portfolio-admin/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// Login は資格情報を検証し、新しいセッションを発行する。
	Login(ctx context.Context, userID, password string) (*model.Session, error)
	// Logout はセッションを破棄する。存在しないトークンでもエラーにしない。
	Logout(ctx context.Context, token string) error
	// CurrentSession はトークンに対応する有効なセッションを返す。無効ならnil。
	CurrentSession(ctx context.Context, token string) (*model.Session, error)
}

// LoginRecorder はログイン成否のメトリクス記録に必要なインターフェース。
type LoginRecorder interface {
	RecordLoginSuccess()
	RecordLoginFailure()
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	CookieDomain  string
	CookieSecure  bool
	SessionMaxAge int // セッションCookieの有効期間（秒）
}

// AuthHandler はセッション認証関連のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	metrics LoginRecorder
	config  AuthHandlerConfig
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, metrics LoginRecorder, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		service: service,
		metrics: metrics,
		config:  config,
	}
}

// loginRequest はログインリクエストのボディ。
type loginRequest struct {
	UserID   string `json:"userId"`
	Password string `json:"pw"`
}

// userResponse はログインユーザー情報のAPIレスポンス。
type userResponse struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

// sessionStateResponse はセッション確認のAPIレスポンス。
type sessionStateResponse struct {
	Authenticated bool          `json:"authenticated"`
	User          *userResponse `json:"user,omitempty"`
}

// Login は資格情報を検証し、セッションCookieを発行する。
// POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("JSONの形式が不正です"))
		return
	}

	session, err := h.service.Login(r.Context(), req.UserID, req.Password)
	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) && apiErr.Code == model.ErrCodeInvalidCredentials {
			h.metrics.RecordLoginFailure()
		}
		middleware.WriteServiceError(w, err)
		return
	}

	// セッションCookieを設定（HTTP Only）
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.ID,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   h.config.SessionMaxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	h.metrics.RecordLoginSuccess()
	slog.Info("login succeeded", slog.String("user_id", session.UserID))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(userResponse{
		UserID: session.UserID,
		Name:   session.UserName,
	})
}

// Logout はセッションを破棄する。
// 有効なセッションがなくても常に200を返す（冪等）。
// POST /api/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.SessionTokenFromRequest(r)
	if token != "" {
		if err := h.service.Logout(r.Context(), token); err != nil {
			slog.Error("failed to logout", slog.String("error", err.Error()))
			// ログアウト失敗してもCookieはクリアする
		}
	}

	// セッションCookieをクリア
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// SessionState は現在のセッション状態を返す。
// 未認証でも200を返し、authenticatedフラグで区別する。
// GET /api/session
func (h *AuthHandler) SessionState(w http.ResponseWriter, r *http.Request) {
	session := h.lookupSession(w, r)

	w.Header().Set("Content-Type", "application/json")
	if session == nil {
		json.NewEncoder(w).Encode(sessionStateResponse{Authenticated: false})
		return
	}
	json.NewEncoder(w).Encode(sessionStateResponse{
		Authenticated: true,
		User: &userResponse{
			UserID: session.UserID,
			Name:   session.UserName,
		},
	})
}

// LoginSuccess はログイン済みユーザーの情報を返す。
// 未認証の場合は403を返す。
// GET /api/login/success
func (h *AuthHandler) LoginSuccess(w http.ResponseWriter, r *http.Request) {
	session := h.lookupSession(w, r)
	if session == nil {
		middleware.WriteErrorResponse(w, http.StatusForbidden, model.NewUnauthorizedError())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(userResponse{
		UserID: session.UserID,
		Name:   session.UserName,
	})
}

// lookupSession はCookieのトークンからセッションを引く。
// ストア障害は未認証と同じ扱いにし、詳細はログのみに記録する。
func (h *AuthHandler) lookupSession(w http.ResponseWriter, r *http.Request) *model.Session {
	token := middleware.SessionTokenFromRequest(r)
	if token == "" {
		return nil
	}
	session, err := h.service.CurrentSession(r.Context(), token)
	if err != nil {
		slog.Error("failed to look up session", slog.String("error", err.Error()))
		return nil
	}
	return session
}
