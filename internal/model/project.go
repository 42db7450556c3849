package model

import "time"

// 画像フィールド名。thumbとimg1は必須、img2〜img5は任意。
const (
	FileFieldThumb = "thumb"
	FileFieldImg1  = "img1"
	FileFieldImg2  = "img2"
	FileFieldImg3  = "img3"
	FileFieldImg4  = "img4"
	FileFieldImg5  = "img5"
)

// OptionalFileFields は任意画像フィールドの一覧。
// 提出に含まれない場合は明示的にNULLとして保存する。
var OptionalFileFields = []string{FileFieldImg2, FileFieldImg3, FileFieldImg4, FileFieldImg5}

// ProjectTexts はプロジェクトのテキスト9項目を表す。
// 作成時と更新時の両方で使用する。更新は画像フィールドに触れない。
type ProjectTexts struct {
	Title        string
	Date         string
	Introduction string
	Category     string
	Skill        string
	View         string
	Git          string
	Readmore     string
	SubTitle     string
}

// Project はポートフォリオに掲載するプロジェクト1件を表す。
// ThumbとImg1は必ず値を持つ。Img2〜Img5はファイル名またはnil（DB上はNULL）で、
// 空文字列や未設定の状態は存在しない。
type Project struct {
	ID int64
	ProjectTexts
	Thumb     string
	Img1      string
	Img2      *string
	Img3      *string
	Img4      *string
	Img5      *string
	CreatedAt time.Time
}
