// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizerService はプロジェクトのテキスト項目を保存前にサニタイズし、
// 格納型XSSからポートフォリオの閲覧者を保護する。項目はすべてプレーン
// テキストとして扱うため、bluemondayのStrictPolicyで全タグを除去する。
package security

import "github.com/microcosm-cc/bluemonday"

// TextSanitizerService はテキストのサニタイズ機能のインターフェースを定義する。
// プロジェクトの作成・更新時にテキスト項目へ適用される。
type TextSanitizerService interface {
	// Sanitize は入力からすべてのHTMLタグを除去して返す。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// textSanitizer はTextSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicyはタグを一切許可しない。
func NewTextSanitizer() *textSanitizer {
	return &textSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力からすべてのHTMLタグを除去して返す。
func (s *textSanitizer) Sanitize(raw string) string {
	return s.policy.Sanitize(raw)
}
