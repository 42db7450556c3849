package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/portfolio-admin/internal/model"
)

type mockSessionFinder struct {
	currentSessionFn func(ctx context.Context, token string) (*model.Session, error)
}

func (m *mockSessionFinder) CurrentSession(ctx context.Context, token string) (*model.Session, error) {
	if m.currentSessionFn != nil {
		return m.currentSessionFn(ctx, token)
	}
	return nil, nil
}

func validSessionFinder(token string) *mockSessionFinder {
	return &mockSessionFinder{
		currentSessionFn: func(ctx context.Context, got string) (*model.Session, error) {
			if got != token {
				return nil, nil
			}
			return &model.Session{
				ID:        token,
				UserID:    "admin",
				UserName:  "管理者",
				ExpiresAt: time.Now().Add(time.Hour),
			}, nil
		},
	}
}

func TestSessionMiddleware_ValidCookie_InjectsSession(t *testing.T) {
	mw := NewSessionMiddleware(validSessionFinder("tok-1"))

	var got *model.Session
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := SessionFromContext(r.Context())
		if err != nil {
			t.Errorf("SessionFromContext returned error: %v", err)
		}
		got = s
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/add/project", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "tok-1"})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if got == nil || got.UserID != "admin" {
		t.Errorf("session in context = %+v, want admin session", got)
	}
}

func TestSessionMiddleware_NoCookie_Returns401(t *testing.T) {
	mw := NewSessionMiddleware(validSessionFinder("tok-1"))

	called := false
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/add/project", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if called {
		t.Error("handler must not be called without a cookie")
	}
	if !strings.Contains(rec.Body.String(), model.ErrCodeUnauthorized) {
		t.Errorf("body = %q, want unified error format", rec.Body.String())
	}
}

func TestSessionMiddleware_UnknownToken_Returns401(t *testing.T) {
	mw := NewSessionMiddleware(validSessionFinder("tok-1"))

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not be called for unknown token")
	}))

	req := httptest.NewRequest(http.MethodDelete, "/api/delete/1", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "never-issued"})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestSessionMiddleware_FinderError_Returns401(t *testing.T) {
	finder := &mockSessionFinder{
		currentSessionFn: func(ctx context.Context, token string) (*model.Session, error) {
			return nil, errors.New("connection refused")
		},
	}
	mw := NewSessionMiddleware(finder)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not be called when the store fails")
	}))

	req := httptest.NewRequest(http.MethodPut, "/api/update/1", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "tok-1"})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestSessionFromContext_WithoutSession_ReturnsError(t *testing.T) {
	if _, err := SessionFromContext(context.Background()); err == nil {
		t.Error("expected error for context without session")
	}
}

func TestSessionTokenFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	if got := SessionTokenFromRequest(req); got != "" {
		t.Errorf("token = %q, want empty for missing cookie", got)
	}

	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "tok-9"})
	if got := SessionTokenFromRequest(req); got != "tok-9" {
		t.Errorf("token = %q, want tok-9", got)
	}
}
