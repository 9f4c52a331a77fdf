package api

import (
	"encoding/json"

	"getunitycodes/internal/catalog"
	"getunitycodes/internal/model"
)

// swagger:model api.GamesResponse
type GamesResponse struct {
	Message string       `json:"message" example:"Games fetched successfully"`
	Games   []model.Game `json:"games"`
}

// swagger:model api.GameResponse
type GameResponse struct {
	Message string     `json:"message" example:"Game fetched successfully"`
	Game    model.Game `json:"game"`
}

// BrowseResponse 是一頁篩選後的商品
// swagger:model api.BrowseResponse
type BrowseResponse struct {
	catalog.Page[model.Game]
	Query    string `json:"q"`
	Category string `json:"category"`
}

// swagger:model api.SearchResponse
type SearchResponse struct {
	Games []model.Game `json:"games"`
	Count int          `json:"count"`
}

// swagger:model api.PriceResponse
type PriceResponse struct {
	Price string `json:"price" example:"18.00"`
}

// OptionInput 是表單 platforms / versions 欄位的 JSON 元素，接受 platform、version 或 name 當名稱
type OptionInput struct {
	Name     string      `json:"name"`
	Platform string      `json:"platform"`
	Version  string      `json:"version"`
	Price    json.Number `json:"price"`
}

// Label 回傳第一個非空白的名稱欄位
func (o OptionInput) Label() string {
	switch {
	case o.Name != "":
		return o.Name
	case o.Platform != "":
		return o.Platform
	default:
		return o.Version
	}
}
