// Package project はプロジェクトのCRUDとアップロード処理のドメインロジックを提供する。
package project

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/hitoshi/portfolio-admin/internal/model"
	"github.com/hitoshi/portfolio-admin/internal/repository"
	"github.com/hitoshi/portfolio-admin/internal/security"
	"github.com/hitoshi/portfolio-admin/internal/storage"
)

// Upload はマルチパートリクエストから取り出した画像1件を表す。
type Upload struct {
	Filename string
	Size     int64
	Reader   io.Reader
}

// BlobStore は画像ファイルの保存先インターフェース。
type BlobStore interface {
	// Save はアップロードを保存し、保存ファイル名を返す。
	Save(originalName string, size int64, r io.Reader) (string, error)
	// MaxSize は1ファイルあたりのサイズ上限（バイト）を返す。
	MaxSize() int64
}

// Service はプロジェクトのドメインロジックを提供する。
type Service struct {
	repo      repository.ProjectRepository
	files     BlobStore
	sanitizer security.TextSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(repo repository.ProjectRepository, files BlobStore, sanitizer security.TextSanitizerService) *Service {
	return &Service{
		repo:      repo,
		files:     files,
		sanitizer: sanitizer,
	}
}

// Create はプロジェクトを新規作成する。
//
// thumbとimg1は必須で、どちらかが欠けている場合はファイルを1つも保存せずに
// 検証エラーを返す。img2〜img5は任意で、提出されなかったフィールドは
// nil（DB上はNULL）のまま保存する。空文字列でNULLを表すことはない。
func (s *Service) Create(ctx context.Context, texts model.ProjectTexts, uploads map[string]*Upload) (*model.Project, error) {
	// 保存を始める前に必須画像とサイズを検証する
	for _, field := range []string{model.FileFieldThumb, model.FileFieldImg1} {
		if uploads[field] == nil {
			return nil, model.NewMissingUploadError(field)
		}
	}
	for field, up := range uploads {
		if up != nil && up.Size > s.files.MaxSize() {
			return nil, model.NewUploadTooLargeError(field, s.files.MaxSize())
		}
	}

	project := &model.Project{
		ProjectTexts: s.sanitizeTexts(texts),
	}

	thumb, err := s.saveUpload(model.FileFieldThumb, uploads[model.FileFieldThumb])
	if err != nil {
		return nil, err
	}
	project.Thumb = thumb

	img1, err := s.saveUpload(model.FileFieldImg1, uploads[model.FileFieldImg1])
	if err != nil {
		return nil, err
	}
	project.Img1 = img1

	optionalTargets := map[string]**string{
		model.FileFieldImg2: &project.Img2,
		model.FileFieldImg3: &project.Img3,
		model.FileFieldImg4: &project.Img4,
		model.FileFieldImg5: &project.Img5,
	}
	for _, field := range model.OptionalFileFields {
		up := uploads[field]
		if up == nil {
			continue
		}
		key, err := s.saveUpload(field, up)
		if err != nil {
			return nil, err
		}
		*optionalTargets[field] = &key
	}

	id, err := s.repo.Create(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	project.ID = id

	slog.Info("project created",
		"project_id", project.ID,
		"title", project.Title)

	return project, nil
}

// List は全プロジェクトを返す。
func (s *Service) List(ctx context.Context) ([]*model.Project, error) {
	projects, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// Get は指定IDのプロジェクトを取得する。
// 見つからない場合はPROJECT_NOT_FOUNDのAPIErrorを返す。
func (s *Service) Get(ctx context.Context, id int64) (*model.Project, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	if project == nil {
		return nil, model.NewProjectNotFoundError(id)
	}
	return project, nil
}

// UpdateTexts は指定IDのプロジェクトのテキスト9項目を上書きする。
// 画像フィールドには一切触れない。
func (s *Service) UpdateTexts(ctx context.Context, id int64, texts model.ProjectTexts) error {
	sanitized := s.sanitizeTexts(texts)

	found, err := s.repo.UpdateTexts(ctx, id, &sanitized)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	if !found {
		return model.NewProjectNotFoundError(id)
	}

	slog.Info("project updated", "project_id", id)
	return nil
}

// Delete は指定IDのプロジェクトを削除する。
func (s *Service) Delete(ctx context.Context, id int64) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if !found {
		return model.NewProjectNotFoundError(id)
	}

	slog.Info("project deleted", "project_id", id)
	return nil
}

// saveUpload は1件のアップロードを保存する。
// サイズ超過はBlobStoreでも検出され、検証エラーに変換する。
func (s *Service) saveUpload(field string, up *Upload) (string, error) {
	key, err := s.files.Save(up.Filename, up.Size, up.Reader)
	if err != nil {
		if errors.Is(err, storage.ErrFileTooLarge) {
			return "", model.NewUploadTooLargeError(field, s.files.MaxSize())
		}
		return "", fmt.Errorf("failed to store upload %s: %w", field, err)
	}
	return key, nil
}

// sanitizeTexts はテキスト9項目すべてにサニタイズを適用する。
func (s *Service) sanitizeTexts(texts model.ProjectTexts) model.ProjectTexts {
	return model.ProjectTexts{
		Title:        s.sanitizer.Sanitize(texts.Title),
		Date:         s.sanitizer.Sanitize(texts.Date),
		Introduction: s.sanitizer.Sanitize(texts.Introduction),
		Category:     s.sanitizer.Sanitize(texts.Category),
		Skill:        s.sanitizer.Sanitize(texts.Skill),
		View:         s.sanitizer.Sanitize(texts.View),
		Git:          s.sanitizer.Sanitize(texts.Git),
		Readmore:     s.sanitizer.Sanitize(texts.Readmore),
		SubTitle:     s.sanitizer.Sanitize(texts.SubTitle),
	}
}
