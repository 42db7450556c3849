// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/portfolio-admin/internal/model"
)

// UserRepository は管理者ユーザーの永続化インターフェース。
// このサービスはユーザーを読み取り専用で扱い、作成はcreate-adminサブコマンドのみが行う。
type UserRepository interface {
	// FindByUserID は指定ユーザーIDの管理者を取得する。見つからない場合はnilを返す。
	FindByUserID(ctx context.Context, userID string) (*model.User, error)

	// Upsert は管理者ユーザーを作成または上書きする。create-adminサブコマンド専用。
	Upsert(ctx context.Context, user *model.User) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。存在しないIDでもエラーにしない。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
	// DeleteExpired は期限切れセッションを一括削除する。
	DeleteExpired(ctx context.Context) error
}

// ProjectRepository はプロジェクトデータの永続化インターフェース。
type ProjectRepository interface {
	// Create はプロジェクトを作成し、採番されたIDを返す。
	Create(ctx context.Context, project *model.Project) (int64, error)

	// List は全プロジェクトを返す。ページネーションは行わない。
	List(ctx context.Context) ([]*model.Project, error)

	// FindByID は指定IDのプロジェクトを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.Project, error)

	// UpdateTexts はテキスト9項目を上書きする。画像カラムには触れない。
	// 対象行が存在した場合はtrueを返す。
	UpdateTexts(ctx context.Context, id int64, texts *model.ProjectTexts) (bool, error)

	// Delete は指定IDのプロジェクトを削除する。対象行が存在した場合はtrueを返す。
	Delete(ctx context.Context, id int64) (bool, error)
}
