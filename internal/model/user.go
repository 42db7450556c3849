// Package model はドメインモデルを定義する。
package model

import "time"

// User は管理画面にログインする管理者ユーザーを表す。
// パスワードはbcryptハッシュとして保持し、平文は一切保存しない。
type User struct {
	UserID       string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// Session は管理者のログインセッションを表す。
// IDはCookieで受け渡される不透明トークンで、サーバー側ストアのキーとなる。
type Session struct {
	ID        string
	UserID    string
	UserName  string
	ExpiresAt time.Time
	CreatedAt time.Time
}
