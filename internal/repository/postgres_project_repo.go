package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/portfolio-admin/internal/model"
)

// PostgresProjectRepo はPostgreSQLを使用したプロジェクトリポジトリ。
type PostgresProjectRepo struct {
	db *sql.DB
}

// NewPostgresProjectRepo はPostgresProjectRepoを生成する。
func NewPostgresProjectRepo(db *sql.DB) *PostgresProjectRepo {
	return &PostgresProjectRepo{db: db}
}

// projectColumns はSELECT句で使用するカラムの並び。scanProjectと対応する。
const projectColumns = `id, title, "date", introduction, category, skill, "view", git, readmore, sub_title,
	 thumb, img1, img2, img3, img4, img5, created_at`

// scanProject は1行をmodel.Projectに読み取る。
func scanProject(row interface{ Scan(...any) error }) (*model.Project, error) {
	p := &model.Project{}
	err := row.Scan(
		&p.ID, &p.Title, &p.Date, &p.Introduction, &p.Category, &p.Skill,
		&p.View, &p.Git, &p.Readmore, &p.SubTitle,
		&p.Thumb, &p.Img1, &p.Img2, &p.Img3, &p.Img4, &p.Img5, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create はプロジェクトを作成し、採番されたIDを返す。
// テキスト9項目と画像6項目を1回のINSERTで書き込む。Img2〜Img5のnilはNULLになる。
func (r *PostgresProjectRepo) Create(ctx context.Context, project *model.Project) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO projects
		 (title, "date", introduction, category, skill, "view", git, readmore, sub_title,
		  thumb, img1, img2, img3, img4, img5)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 RETURNING id`,
		project.Title, project.Date, project.Introduction, project.Category,
		project.Skill, project.View, project.Git, project.Readmore, project.SubTitle,
		project.Thumb, project.Img1, project.Img2, project.Img3, project.Img4, project.Img5,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert project: %w", err)
	}
	return id, nil
}

// List は全プロジェクトを返す。ページネーションは行わない。
func (r *PostgresProjectRepo) List(ctx context.Context) ([]*model.Project, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}

	return projects, nil
}

// FindByID は指定IDのプロジェクトを取得する。見つからない場合はnilを返す。
func (r *PostgresProjectRepo) FindByID(ctx context.Context, id int64) (*model.Project, error) {
	p, err := scanProject(r.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1`,
		id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return p, nil
}

// UpdateTexts はテキスト9項目を上書きする。画像カラムには触れない。
func (r *PostgresProjectRepo) UpdateTexts(ctx context.Context, id int64, texts *model.ProjectTexts) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE projects
		 SET title = $1, "date" = $2, introduction = $3, category = $4, skill = $5,
		     "view" = $6, git = $7, readmore = $8, sub_title = $9
		 WHERE id = $10`,
		texts.Title, texts.Date, texts.Introduction, texts.Category, texts.Skill,
		texts.View, texts.Git, texts.Readmore, texts.SubTitle, id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update project texts: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// Delete は指定IDのプロジェクトを削除する。
func (r *PostgresProjectRepo) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM projects WHERE id = $1`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete project: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// compile-time interface check
var _ ProjectRepository = (*PostgresProjectRepo)(nil)
