package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/portfolio-admin/internal/model"
)

// PostgresUserRepo はPostgreSQLを使用した管理者ユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

// FindByUserID は指定ユーザーIDの管理者を取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByUserID(ctx context.Context, userID string) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, name, password_hash, created_at FROM users WHERE user_id = $1`,
		userID,
	).Scan(&user.UserID, &user.Name, &user.PasswordHash, &user.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by user_id: %w", err)
	}

	return user, nil
}

// Upsert は管理者ユーザーを作成または上書きする。
// 既存ユーザーの場合は表示名とパスワードハッシュを更新する。
func (r *PostgresUserRepo) Upsert(ctx context.Context, user *model.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (user_id, name, password_hash, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id)
		 DO UPDATE SET name = EXCLUDED.name, password_hash = EXCLUDED.password_hash`,
		user.UserID, user.Name, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
