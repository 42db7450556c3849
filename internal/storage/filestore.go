// Package storage はアップロードファイルのディスク保存を提供する。
//
// 保存名はUUIDに元の拡張子を付けたものを新規生成する。クライアントが
// 指定したファイル名をそのまま使うと同名アップロードが無言で上書きされる
// ため、表示名と保存名を分離している。
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrFileTooLarge はアップロードがサイズ上限を超えた場合のエラー。
var ErrFileTooLarge = errors.New("uploaded file exceeds size limit")

// FileStore はローカルディスク上のアップロードディレクトリを管理する。
type FileStore struct {
	dir     string
	maxSize int64
}

// NewFileStore はFileStoreを生成する。ディレクトリが存在しない場合は作成する。
func NewFileStore(dir string, maxSize int64) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &FileStore{dir: dir, maxSize: maxSize}, nil
}

// Dir はアップロードディレクトリのパスを返す。静的配信の設定に使用する。
func (s *FileStore) Dir() string {
	return s.dir
}

// MaxSize は1ファイルあたりのサイズ上限（バイト）を返す。
func (s *FileStore) MaxSize() int64 {
	return s.maxSize
}

// Save はアップロード1件をディスクへ書き込み、保存ファイル名を返す。
// 申告サイズに関わらず実際の書き込みバイト数も上限で検証し、
// 超過した場合は書きかけのファイルを削除してErrFileTooLargeを返す。
func (s *FileStore) Save(originalName string, size int64, r io.Reader) (string, error) {
	if size > s.maxSize {
		return "", ErrFileTooLarge
	}

	key := uuid.New().String() + normalizeExt(originalName)
	path := filepath.Join(s.dir, key)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}

	// 上限+1バイトまで読み、超過を検出する
	written, err := io.Copy(f, io.LimitReader(r, s.maxSize+1))
	closeErr := f.Close()
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}
	if closeErr != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to close upload file: %w", closeErr)
	}
	if written > s.maxSize {
		os.Remove(path)
		return "", ErrFileTooLarge
	}

	return key, nil
}

// normalizeExt は元ファイル名から拡張子を取り出して小文字化する。
// 不自然に長い拡張子は保存名に引き継がない。
func normalizeExt(name string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(name)))
	if len(ext) > 10 {
		return ""
	}
	return ext
}
