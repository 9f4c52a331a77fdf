// File: internal/model/game.go
package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	CategoryPC     = "PC"
	CategoryMobile = "Mobile"
)

// NormalizeCategory 將大小寫不一的分類轉成標準值，不在列舉內時回傳 false
func NormalizeCategory(s string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pc":
		return CategoryPC, true
	case "mobile":
		return CategoryMobile, true
	}
	return "", false
}

// PriceOption 是平台或版本的加價選項
type PriceOption struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type Game struct {
	ID                   int             `db:"id" json:"id"`
	Name                 string          `db:"name" json:"name"`
	Description          string          `db:"description" json:"description"`
	Price                decimal.Decimal `db:"price" json:"price"`
	Category             string          `db:"category" json:"category"`
	Image                string          `db:"image" json:"image"`
	Gallery              []string        `db:"gallery" json:"gallery"`
	Platforms            []PriceOption   `db:"platforms" json:"platforms"`
	Versions             []PriceOption   `db:"versions" json:"versions"`
	LicenseAgreement     string          `db:"license_agreement" json:"license_agreement"`
	LatestVersion        string          `db:"latest_version" json:"latest_version"`
	LatestReleaseDate    string          `db:"latest_release_date" json:"latest_release_date"`
	OriginalUnityVersion string          `db:"original_unity_version" json:"original_unity_version"`
	UploadedAt           time.Time       `db:"uploaded_at" json:"uploaded_at"`
}

// GamePatch 只帶需要更新的欄位，nil 表示保持原值
type GamePatch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Category    *string
	Image       *string
}

// Empty 回報 patch 是否沒有任何欄位
func (p GamePatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil && p.Category == nil && p.Image == nil
}
