// Package auth はパスワードログインとセッション管理を提供する。
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/portfolio-admin/internal/model"
	"github.com/hitoshi/portfolio-admin/internal/repository"
)

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionMaxAge int // セッション有効期間（秒）
	// ReplaceExisting がtrueの場合、ログイン時に同一ユーザーの既存セッションを
	// 破棄してから新しいセッションを発行する。
	ReplaceExisting bool
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	config      ServiceConfig
}

// NewService はServiceを生成する。
func NewService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	config ServiceConfig,
) *Service {
	return &Service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		config:      config,
	}
}

// Login は認証情報を検証し、セッションを発行する。
// ユーザーIDが存在しない場合とパスワード不一致の場合はどちらも
// INVALID_CREDENTIALSエラーを返し、区別しない。
// ストア障害はAPIErrorではないエラーとして返し、認証失敗と区別できるようにする。
func (s *Service) Login(ctx context.Context, userID, password string) (*model.Session, error) {
	user, err := s.userRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewInvalidCredentialsError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, model.NewInvalidCredentialsError()
	}

	// 期限切れセッションの掃除。失敗してもログインは継続する。
	if err := s.sessionRepo.DeleteExpired(ctx); err != nil {
		slog.Warn("failed to purge expired sessions", slog.String("error", err.Error()))
	}

	if s.config.ReplaceExisting {
		if err := s.sessionRepo.DeleteByUserID(ctx, user.UserID); err != nil {
			return nil, fmt.Errorf("failed to replace existing sessions: %w", err)
		}
	}

	session, err := s.createSession(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	slog.Info("admin logged in", slog.String("user_id", user.UserID))
	return session, nil
}

// CurrentSession はトークンに対応する有効なセッションを取得する。
// 副作用のない純粋な参照で、期限切れ・未知のトークンにはnilを返す。
func (s *Service) CurrentSession(ctx context.Context, token string) (*model.Session, error) {
	if token == "" {
		return nil, nil
	}

	session, err := s.sessionRepo.FindByID(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	return session, nil
}

// Logout はセッションを破棄する。冪等であり、存在しない・期限切れの
// トークンに対して呼び出してもエラーにならない。
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	if err := s.sessionRepo.DeleteByID(ctx, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("admin logged out")
	return nil
}

// createSession はセッションを作成し永続化する。
func (s *Service) createSession(ctx context.Context, user *model.User) (*model.Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	session := &model.Session{
		ID:        sessionID,
		UserID:    user.UserID,
		UserName:  user.Name,
		ExpiresAt: time.Now().Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt: time.Now(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// generateSessionID は暗号的に安全なセッションIDを生成する。
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// HashPassword はパスワードのbcryptハッシュを生成する。
// create-adminサブコマンドが管理者登録時に使用する。
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
