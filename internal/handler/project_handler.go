package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/portfolio-admin/internal/middleware"
	"github.com/hitoshi/portfolio-admin/internal/model"
	"github.com/hitoshi/portfolio-admin/internal/project"
)

// マルチパートフォームのメモリ上限。超過分は一時ファイルに書かれる。
const multipartMaxMemory = 10 << 20

// ProjectServiceInterface はプロジェクトハンドラーが必要とするサービスインターフェース。
type ProjectServiceInterface interface {
	Create(ctx context.Context, texts model.ProjectTexts, uploads map[string]*project.Upload) (*model.Project, error)
	List(ctx context.Context) ([]*model.Project, error)
	Get(ctx context.Context, id int64) (*model.Project, error)
	UpdateTexts(ctx context.Context, id int64, texts model.ProjectTexts) error
	Delete(ctx context.Context, id int64) error
}

// ProjectWriteRecorder はプロジェクト操作のメトリクス記録に必要なインターフェース。
type ProjectWriteRecorder interface {
	RecordProjectWrite(operation string)
	RecordUploadStored(field string)
}

// ProjectHandler はプロジェクトCRUDのHTTPハンドラー。
type ProjectHandler struct {
	service ProjectServiceInterface
	metrics ProjectWriteRecorder
}

// NewProjectHandler はProjectHandlerを生成する。
func NewProjectHandler(service ProjectServiceInterface, metrics ProjectWriteRecorder) *ProjectHandler {
	return &ProjectHandler{
		service: service,
		metrics: metrics,
	}
}

// projectTextsRequest はテキスト9項目のリクエストボディ。
// 作成時のマルチパートフィールド名と更新時のJSONキーは同一。
type projectTextsRequest struct {
	Title        string `json:"title"`
	Date         string `json:"date"`
	Introduction string `json:"introduction"`
	Category     string `json:"category"`
	Skill        string `json:"skill"`
	View         string `json:"view"`
	Git          string `json:"git"`
	Readmore     string `json:"readmore"`
	SubTitle     string `json:"subTitle"`
}

// projectResponse はプロジェクト1件のAPIレスポンス。
// img2〜img5は未設定の場合nullになる。
type projectResponse struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Date         string  `json:"date"`
	Introduction string  `json:"introduction"`
	Category     string  `json:"category"`
	Skill        string  `json:"skill"`
	View         string  `json:"view"`
	Git          string  `json:"git"`
	Readmore     string  `json:"readmore"`
	SubTitle     string  `json:"subTitle"`
	Thumb        string  `json:"thumb"`
	Img1         string  `json:"img1"`
	Img2         *string `json:"img2"`
	Img3         *string `json:"img3"`
	Img4         *string `json:"img4"`
	Img5         *string `json:"img5"`
}

// Create はマルチパート提出からプロジェクトを新規作成する。
// POST /api/add/project
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMaxMemory); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("マルチパートフォームの解析に失敗しました"))
		return
	}

	texts := model.ProjectTexts{
		Title:        r.FormValue("title"),
		Date:         r.FormValue("date"),
		Introduction: r.FormValue("introduction"),
		Category:     r.FormValue("category"),
		Skill:        r.FormValue("skill"),
		View:         r.FormValue("view"),
		Git:          r.FormValue("git"),
		Readmore:     r.FormValue("readmore"),
		SubTitle:     r.FormValue("subTitle"),
	}

	uploads, closeFiles, err := collectUploads(r.MultipartForm)
	if err != nil {
		slog.Error("failed to open multipart file", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}
	defer closeFiles()

	created, err := h.service.Create(r.Context(), texts, uploads)
	if err != nil {
		middleware.WriteServiceError(w, err)
		return
	}

	h.metrics.RecordProjectWrite("create")
	for field := range uploads {
		h.metrics.RecordUploadStored(field)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toProjectResponse(created))
}

// List は全プロジェクトを返す。
// GET /api/projects
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.List(r.Context())
	if err != nil {
		middleware.WriteServiceError(w, err)
		return
	}

	// 0件でもnullではなく空配列を返す
	responses := make([]projectResponse, 0, len(projects))
	for _, p := range projects {
		responses = append(responses, toProjectResponse(p))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
}

// Get はプロジェクト1件を返す。
// GET /api/getTexts/:id
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := projectIDFromRequest(w, r)
	if !ok {
		return
	}

	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		middleware.WriteServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toProjectResponse(p))
}

// Update はテキスト9項目を上書きする。画像フィールドは変更しない。
// PUT /api/update/:id
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := projectIDFromRequest(w, r)
	if !ok {
		return
	}

	var req projectTextsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("JSONの形式が不正です"))
		return
	}

	texts := model.ProjectTexts{
		Title:        req.Title,
		Date:         req.Date,
		Introduction: req.Introduction,
		Category:     req.Category,
		Skill:        req.Skill,
		View:         req.View,
		Git:          req.Git,
		Readmore:     req.Readmore,
		SubTitle:     req.SubTitle,
	}

	if err := h.service.UpdateTexts(r.Context(), id, texts); err != nil {
		middleware.WriteServiceError(w, err)
		return
	}

	h.metrics.RecordProjectWrite("update")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// Delete はプロジェクト1件を削除する。
// DELETE /api/delete/:id
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := projectIDFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		middleware.WriteServiceError(w, err)
		return
	}

	h.metrics.RecordProjectWrite("delete")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// --- ヘルパー関数 ---

// collectUploads はマルチパートフォームから画像フィールドを取り出す。
// 提出に含まれるフィールドだけをマップに入れる。戻り値のクローザで
// 開いたファイルをまとめて閉じる。
func collectUploads(form *multipart.Form) (map[string]*project.Upload, func(), error) {
	uploads := make(map[string]*project.Upload)
	var opened []multipart.File

	closeFiles := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	fields := []string{
		model.FileFieldThumb,
		model.FileFieldImg1,
		model.FileFieldImg2,
		model.FileFieldImg3,
		model.FileFieldImg4,
		model.FileFieldImg5,
	}
	for _, field := range fields {
		headers := form.File[field]
		if len(headers) == 0 {
			continue
		}
		fh := headers[0]
		f, err := fh.Open()
		if err != nil {
			closeFiles()
			return nil, func() {}, err
		}
		opened = append(opened, f)
		uploads[field] = &project.Upload{
			Filename: fh.Filename,
			Size:     fh.Size,
			Reader:   f,
		}
	}

	return uploads, closeFiles, nil
}

// projectIDFromRequest はURLパラメータからプロジェクトIDを取り出す。
// 不正な場合はエラーレスポンスを書き込み、falseを返す。
func projectIDFromRequest(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("プロジェクトIDが不正です"))
		return 0, false
	}
	return id, true
}

// toProjectResponse はmodel.ProjectからAPIレスポンスに変換する。
func toProjectResponse(p *model.Project) projectResponse {
	return projectResponse{
		ID:           p.ID,
		Title:        p.Title,
		Date:         p.Date,
		Introduction: p.Introduction,
		Category:     p.Category,
		Skill:        p.Skill,
		View:         p.View,
		Git:          p.Git,
		Readmore:     p.Readmore,
		SubTitle:     p.SubTitle,
		Thumb:        p.Thumb,
		Img1:         p.Img1,
		Img2:         p.Img2,
		Img3:         p.Img3,
		Img4:         p.Img4,
		Img5:         p.Img5,
	}
}
